package farming

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/scryptex/backend/internal/ledger"
	"github.com/scryptex/backend/internal/models"
)

// --- In-memory Store mock ---

type mockStore struct {
	mu       sync.Mutex
	projects map[string]*models.FarmingProject
	logs     []models.FarmingLog
	nextID   int64
}

func newMockStore(projects ...*models.FarmingProject) *mockStore {
	m := &mockStore{projects: make(map[string]*models.FarmingProject)}
	for _, p := range projects {
		cp := *p
		cp.Tasks = append([]models.FarmingTask(nil), p.Tasks...)
		m.projects[p.ID] = &cp
	}
	return m
}

func (m *mockStore) CreateProject(_ context.Context, p *models.FarmingProject) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	cp := *p
	m.projects[p.ID] = &cp
	return nil
}

func (m *mockStore) GetProject(_ context.Context, id string) (*models.FarmingProject, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.projects[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	cp.Tasks = append([]models.FarmingTask(nil), p.Tasks...)
	return &cp, nil
}

func (m *mockStore) ListProjects(_ context.Context, userID string) ([]models.FarmingProject, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.FarmingProject{}
	for _, p := range m.projects {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *mockStore) UpdateTasks(_ context.Context, projectID string, tasks []models.FarmingTask) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.projects[projectID].Tasks = append([]models.FarmingTask(nil), tasks...)
	return nil
}

func (m *mockStore) MarkRunning(_ context.Context, projectID string, wallet *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := m.projects[projectID]
	p.Status = models.FarmingStatusRunning
	if wallet != nil {
		p.WalletAddress = wallet
	}
	return nil
}

func (m *mockStore) MarkCompleted(_ context.Context, projectID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	p := m.projects[projectID]
	p.Status = models.FarmingStatusCompleted
	p.CompletedAt = &now
	return nil
}

func (m *mockStore) SetRecurring(_ context.Context, projectID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.projects[projectID].Recurring = true
	return nil
}

func (m *mockStore) InsertLog(_ context.Context, log *models.FarmingLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	log.ID = m.nextID
	log.CreatedAt = time.Now()
	m.logs = append(m.logs, *log)
	return nil
}

func (m *mockStore) Logs(_ context.Context, projectID string) ([]models.FarmingLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.FarmingLog{}
	for _, l := range m.logs {
		if l.ProjectID == projectID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *mockStore) project(id string) *models.FarmingProject {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.projects[id]
}

// --- Credit mock ---

type mockCredits struct {
	mu      sync.Mutex
	balance float64
	spent   []float64
}

func (m *mockCredits) Spend(_ context.Context, _ string, amount float64, _ string, _ *string) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.balance < amount {
		return 0, ledger.ErrInsufficientFunds
	}
	m.balance -= amount
	m.spent = append(m.spent, amount)
	return m.balance, nil
}

// --- helpers ---

// drawScript returns queued values in order, then keeps returning the
// last one.
func drawScript(values ...float64) func() float64 {
	i := 0
	return func() float64 {
		v := values[i]
		if i < len(values)-1 {
			i++
		}
		return v
	}
}

func newTestService(store Store, credits CreditService, enqueue EnqueueRunFunc, retryAlwaysSucceeds bool) *service {
	svc := NewService(store, credits, enqueue, retryAlwaysSucceeds, nil).(*service)
	svc.sleep = func(context.Context, time.Duration) {}
	svc.jitter = func(min, _ time.Duration) time.Duration { return min }
	return svc
}

func testProject(id, userID string, taskNames ...string) *models.FarmingProject {
	tasks := make([]models.FarmingTask, len(taskNames))
	for i, name := range taskNames {
		tasks[i] = models.FarmingTask{Name: name, Type: "swap", Required: true, Status: models.FarmingStatusPending}
	}
	return &models.FarmingProject{
		ID:          id,
		UserID:      userID,
		ProjectName: "Foo",
		Chain:       "zkSync",
		Tasks:       tasks,
		Status:      models.FarmingStatusPending,
	}
}

// --- Tests ---

func TestRunSequenceCompletesEveryTask(t *testing.T) {
	store := newMockStore(testProject("farm_1", "usr_1", "Mint Foo NFT", "Swap on Foo DEX", "Add Liquidity"))
	svc := newTestService(store, &mockCredits{}, nil, true)
	svc.draw = drawScript(0.9) // always above the 0.1 failure threshold

	if err := svc.RunSequence(context.Background(), "farm_1", "0xwallet", nil); err != nil {
		t.Fatalf("RunSequence: %v", err)
	}

	p := store.project("farm_1")
	if p.Status != models.FarmingStatusCompleted {
		t.Errorf("project status = %q, want completed", p.Status)
	}
	if p.CompletedAt == nil {
		t.Error("completed_at not set")
	}
	for _, task := range p.Tasks {
		if task.Status != models.FarmingStatusCompleted {
			t.Errorf("task %q status = %q, want completed", task.Name, task.Status)
		}
		if task.TxHash == nil || len(*task.TxHash) != 66 || (*task.TxHash)[:2] != "0x" {
			t.Errorf("task %q tx hash malformed: %v", task.Name, task.TxHash)
		}
	}

	logs, _ := store.Logs(context.Background(), "farm_1")
	// One success entry per task plus the completion entry.
	if len(logs) != 4 {
		t.Fatalf("expected 4 log entries, got %d", len(logs))
	}
	if logs[3].Message != "Farming completed successfully!" || logs[3].Level != models.LogLevelSuccess {
		t.Errorf("unexpected final log: %+v", logs[3])
	}
}

func TestStartThenRunProducesChronologicalLogs(t *testing.T) {
	store := newMockStore(testProject("farm_1", "usr_1", "Mint NFT", "Swap Token"))
	credits := &mockCredits{balance: 5}
	enqueued := []RunFarmingArgs{}
	enqueue := func(_ context.Context, args RunFarmingArgs) error {
		enqueued = append(enqueued, args)
		return nil
	}
	svc := newTestService(store, credits, enqueue, true)
	svc.draw = drawScript(0.9)

	if _, _, err := svc.Start(context.Background(), "usr_1", "farm_1", nil, nil); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if len(enqueued) != 1 || enqueued[0].ProjectID != "farm_1" {
		t.Fatalf("expected one enqueued run for farm_1, got %+v", enqueued)
	}
	if len(credits.spent) != 1 || credits.spent[0] != StartCost {
		t.Errorf("expected a single %v credit debit, got %v", StartCost, credits.spent)
	}

	if err := svc.RunSequence(context.Background(), "farm_1", "0xwallet", nil); err != nil {
		t.Fatalf("RunSequence: %v", err)
	}

	// 1 start entry + 2 task completions + 1 final entry, in order.
	logs, _ := store.Logs(context.Background(), "farm_1")
	if len(logs) != 4 {
		t.Fatalf("expected 4 log entries, got %d", len(logs))
	}
	wantLevels := []string{models.LogLevelInfo, models.LogLevelSuccess, models.LogLevelSuccess, models.LogLevelSuccess}
	for i, l := range logs {
		if l.Level != wantLevels[i] {
			t.Errorf("log[%d] level = %q, want %q", i, l.Level, wantLevels[i])
		}
	}
	for i := 1; i < len(logs); i++ {
		if logs[i].CreatedAt.Before(logs[i-1].CreatedAt) {
			t.Errorf("logs out of chronological order at %d", i)
		}
	}
}

func TestFailedTaskRetriesToSuccessWhenPolicyForcesIt(t *testing.T) {
	store := newMockStore(testProject("farm_1", "usr_1", "Bridge ETH"))
	svc := newTestService(store, &mockCredits{}, nil, true)
	svc.draw = drawScript(0.05) // every draw fails; the forced retry must still succeed

	if err := svc.RunSequence(context.Background(), "farm_1", "0xwallet", nil); err != nil {
		t.Fatalf("RunSequence: %v", err)
	}

	p := store.project("farm_1")
	if p.Tasks[0].Status != models.FarmingStatusCompleted {
		t.Errorf("task status = %q, want completed after forced retry", p.Tasks[0].Status)
	}
	logs, _ := store.Logs(context.Background(), "farm_1")
	if len(logs) != 3 {
		t.Fatalf("expected 3 log entries, got %d", len(logs))
	}
	if logs[0].Level != models.LogLevelError {
		t.Errorf("first log level = %q, want error", logs[0].Level)
	}
	if logs[1].Message != "Retry successful: Bridge ETH" {
		t.Errorf("retry log message = %q", logs[1].Message)
	}
}

func TestFailedRetryStaysFailedWhenPolicyGatesIt(t *testing.T) {
	store := newMockStore(testProject("farm_1", "usr_1", "Bridge ETH"))
	svc := newTestService(store, &mockCredits{}, nil, false)
	svc.draw = drawScript(0.05, 0.05) // first attempt and retry both fail

	if err := svc.RunSequence(context.Background(), "farm_1", "0xwallet", nil); err != nil {
		t.Fatalf("RunSequence: %v", err)
	}

	p := store.project("farm_1")
	if p.Tasks[0].Status != models.FarmingStatusFailed {
		t.Errorf("task status = %q, want failed when the gated retry fails", p.Tasks[0].Status)
	}
	if p.Status != models.FarmingStatusCompleted {
		t.Errorf("project status = %q, want completed regardless of task failures", p.Status)
	}
}

func TestGatedRetryCanSucceed(t *testing.T) {
	store := newMockStore(testProject("farm_1", "usr_1", "Bridge ETH"))
	svc := newTestService(store, &mockCredits{}, nil, false)
	svc.draw = drawScript(0.05, 0.9) // first attempt fails, retry draw succeeds

	if err := svc.RunSequence(context.Background(), "farm_1", "0xwallet", nil); err != nil {
		t.Fatalf("RunSequence: %v", err)
	}
	if got := store.project("farm_1").Tasks[0].Status; got != models.FarmingStatusCompleted {
		t.Errorf("task status = %q, want completed", got)
	}
}

func TestRunSequenceHonorsTaskSubset(t *testing.T) {
	store := newMockStore(testProject("farm_1", "usr_1", "Mint NFT", "Swap Token", "Add Liquidity"))
	svc := newTestService(store, &mockCredits{}, nil, true)
	svc.draw = drawScript(0.9)

	if err := svc.RunSequence(context.Background(), "farm_1", "0xwallet", []string{"Swap Token"}); err != nil {
		t.Fatalf("RunSequence: %v", err)
	}

	p := store.project("farm_1")
	if p.Tasks[0].Status != models.FarmingStatusPending || p.Tasks[2].Status != models.FarmingStatusPending {
		t.Error("tasks outside the subset must stay pending")
	}
	if p.Tasks[1].Status != models.FarmingStatusCompleted {
		t.Errorf("subset task status = %q, want completed", p.Tasks[1].Status)
	}
}

func TestStartGuards(t *testing.T) {
	running := testProject("farm_2", "usr_1", "Swap Token")
	running.Status = models.FarmingStatusRunning
	store := newMockStore(testProject("farm_1", "usr_1", "Swap Token"), running)
	credits := &mockCredits{balance: 10}
	svc := newTestService(store, credits, func(context.Context, RunFarmingArgs) error { return nil }, true)

	if _, _, err := svc.Start(context.Background(), "usr_1", "farm_missing", nil, nil); !errors.Is(err, ErrProjectNotFound) {
		t.Errorf("missing project err = %v, want ErrProjectNotFound", err)
	}
	if _, _, err := svc.Start(context.Background(), "usr_2", "farm_1", nil, nil); !errors.Is(err, ErrNotOwner) {
		t.Errorf("foreign project err = %v, want ErrNotOwner", err)
	}
	if _, _, err := svc.Start(context.Background(), "usr_1", "farm_2", nil, nil); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("running project err = %v, want ErrAlreadyRunning", err)
	}

	credits.balance = 1
	if _, _, err := svc.Start(context.Background(), "usr_1", "farm_1", nil, nil); !errors.Is(err, ledger.ErrInsufficientFunds) {
		t.Errorf("broke user err = %v, want ErrInsufficientFunds", err)
	}
}

func TestLogsRequireOwnership(t *testing.T) {
	store := newMockStore(testProject("farm_1", "usr_1", "Swap Token"))
	svc := newTestService(store, &mockCredits{}, nil, true)

	if _, _, err := svc.Logs(context.Background(), "usr_2", "farm_1"); !errors.Is(err, ErrNotOwner) {
		t.Errorf("err = %v, want ErrNotOwner", err)
	}
	if _, _, err := svc.Logs(context.Background(), "usr_1", "farm_1"); err != nil {
		t.Errorf("owner read failed: %v", err)
	}
}

func TestAnalyzeBuildsChainTasksAndCharges(t *testing.T) {
	store := newMockStore()
	credits := &mockCredits{balance: 5}
	svc := newTestService(store, credits, nil, true)

	project, err := svc.Analyze(context.Background(), "usr_1", "Foo", "zkSync", nil)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(credits.spent) != 1 || credits.spent[0] != AnalyzeCost {
		t.Errorf("expected a single %v credit debit, got %v", AnalyzeCost, credits.spent)
	}
	if len(project.Tasks) != 3 {
		t.Fatalf("zkSync template should yield 3 tasks, got %d", len(project.Tasks))
	}
	if project.Tasks[0].Name != "Mint Foo NFT" {
		t.Errorf("mint task renamed to %q", project.Tasks[0].Name)
	}
	if project.Tasks[1].Name != "Swap on Foo DEX" {
		t.Errorf("swap task renamed to %q", project.Tasks[1].Name)
	}
	if project.Status != models.FarmingStatusPending {
		t.Errorf("status = %q, want pending", project.Status)
	}

	// Unknown chains fall back to the generic template.
	generic, err := svc.Analyze(context.Background(), "usr_1", "Bar", "NotAChain", nil)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(generic.Tasks) != 2 {
		t.Errorf("generic template should yield 2 tasks, got %d", len(generic.Tasks))
	}
}
