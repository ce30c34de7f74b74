package farming

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/scryptex/backend/internal/ids"
	"github.com/scryptex/backend/internal/metrics"
	"github.com/scryptex/backend/internal/models"
)

// Credit costs per operation.
const (
	AnalyzeCost = 1.0
	StartCost   = 2.0
)

var (
	ErrProjectNotFound = errors.New("farming project not found")
	ErrNotOwner        = errors.New("project belongs to another user")
	ErrAlreadyRunning  = errors.New("farming already in progress for this project")
)

// Store is the persistence interface the farming service needs.
type Store interface {
	CreateProject(ctx context.Context, p *models.FarmingProject) error
	GetProject(ctx context.Context, id string) (*models.FarmingProject, error)
	ListProjects(ctx context.Context, userID string) ([]models.FarmingProject, error)
	UpdateTasks(ctx context.Context, projectID string, tasks []models.FarmingTask) error
	MarkRunning(ctx context.Context, projectID string, walletAddress *string) error
	MarkCompleted(ctx context.Context, projectID string) error
	SetRecurring(ctx context.Context, projectID string) error
	InsertLog(ctx context.Context, log *models.FarmingLog) error
	Logs(ctx context.Context, projectID string) ([]models.FarmingLog, error)
}

// CreditService debits the caller before paid operations.
type CreditService interface {
	Spend(ctx context.Context, userID string, amount float64, description string, relatedEntity *string) (float64, error)
}

// EnqueueRunFunc schedules a farming run on the job queue. Provided by
// main as a closure over river.Client.Insert.
type EnqueueRunFunc func(ctx context.Context, args RunFarmingArgs) error

type Service interface {
	Analyze(ctx context.Context, userID, projectName, chain string, walletAddress *string) (*models.FarmingProject, error)
	Start(ctx context.Context, userID, projectID string, walletAddress *string, taskNames []string) (*models.FarmingProject, []models.FarmingTask, error)
	Logs(ctx context.Context, userID, projectID string) (*models.FarmingProject, []models.FarmingLog, error)
	MyProjects(ctx context.Context, userID string) ([]models.FarmingProject, error)
	Save(ctx context.Context, userID, projectID string) error
	Chains() []Chain
	RunSequence(ctx context.Context, projectID, walletAddress string, taskNames []string) error
}

type service struct {
	store   Store
	credits CreditService
	enqueue EnqueueRunFunc
	log     *slog.Logger

	// retryAlwaysSucceeds preserves the product behavior where a failed
	// task's single retry is recorded as success without a second
	// outcome draw. When false the retry draws again and may leave the
	// task failed.
	retryAlwaysSucceeds bool

	// Seams for deterministic tests.
	draw   func() float64
	sleep  func(ctx context.Context, d time.Duration)
	jitter func(min, max time.Duration) time.Duration
}

// NewService creates the farming service. enqueue may be nil only in
// tests that never call Start.
func NewService(store Store, credits CreditService, enqueue EnqueueRunFunc, retryAlwaysSucceeds bool, log *slog.Logger) Service {
	if log == nil {
		log = slog.Default()
	}
	return &service{
		store:               store,
		credits:             credits,
		enqueue:             enqueue,
		log:                 log,
		retryAlwaysSucceeds: retryAlwaysSucceeds,
		draw:                rand.Float64,
		sleep:               sleepCtx,
		jitter:              jitterBetween,
	}
}

var _ Service = (*service)(nil)

func (s *service) Analyze(ctx context.Context, userID, projectName, chain string, walletAddress *string) (*models.FarmingProject, error) {
	desc := fmt.Sprintf("Farming analysis for %s on %s", projectName, chain)
	if _, err := s.credits.Spend(ctx, userID, AnalyzeCost, desc, nil); err != nil {
		return nil, err
	}
	project := &models.FarmingProject{
		ID:            ids.New("farm_"),
		UserID:        userID,
		ProjectName:   projectName,
		Chain:         chain,
		WalletAddress: walletAddress,
		Tasks:         tasksForChain(chain, projectName),
		Status:        models.FarmingStatusPending,
	}
	if err := s.store.CreateProject(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *service) Start(ctx context.Context, userID, projectID string, walletAddress *string, taskNames []string) (*models.FarmingProject, []models.FarmingTask, error) {
	project, err := s.store.GetProject(ctx, projectID)
	if err != nil {
		return nil, nil, err
	}
	if project == nil {
		return nil, nil, ErrProjectNotFound
	}
	if project.UserID != userID {
		return nil, nil, ErrNotOwner
	}
	if project.Status == models.FarmingStatusRunning {
		return nil, nil, ErrAlreadyRunning
	}

	desc := fmt.Sprintf("Start farming for %s on %s", project.ProjectName, project.Chain)
	if _, err := s.credits.Spend(ctx, userID, StartCost, desc, &project.ID); err != nil {
		return nil, nil, err
	}

	if err := s.store.MarkRunning(ctx, projectID, walletAddress); err != nil {
		return nil, nil, err
	}
	if err := s.store.InsertLog(ctx, &models.FarmingLog{
		ProjectID: projectID,
		UserID:    userID,
		Message:   fmt.Sprintf("Starting auto-farming on %s for %s", project.Chain, project.ProjectName),
		Level:     models.LogLevelInfo,
	}); err != nil {
		return nil, nil, err
	}

	wallet := ""
	if walletAddress != nil {
		wallet = *walletAddress
	} else if project.WalletAddress != nil {
		wallet = *project.WalletAddress
	}
	if err := s.enqueue(ctx, RunFarmingArgs{
		ProjectID:     projectID,
		WalletAddress: wallet,
		TaskNames:     taskNames,
	}); err != nil {
		return nil, nil, err
	}

	subset := selectTasks(project.Tasks, taskNames)
	return project, subset, nil
}

func (s *service) Logs(ctx context.Context, userID, projectID string) (*models.FarmingProject, []models.FarmingLog, error) {
	project, err := s.store.GetProject(ctx, projectID)
	if err != nil {
		return nil, nil, err
	}
	if project == nil {
		return nil, nil, ErrProjectNotFound
	}
	if project.UserID != userID {
		return nil, nil, ErrNotOwner
	}
	logs, err := s.store.Logs(ctx, projectID)
	if err != nil {
		return nil, nil, err
	}
	return project, logs, nil
}

func (s *service) MyProjects(ctx context.Context, userID string) ([]models.FarmingProject, error) {
	return s.store.ListProjects(ctx, userID)
}

func (s *service) Save(ctx context.Context, userID, projectID string) error {
	project, err := s.store.GetProject(ctx, projectID)
	if err != nil {
		return err
	}
	if project == nil {
		return ErrProjectNotFound
	}
	if project.UserID != userID {
		return ErrNotOwner
	}
	return s.store.SetRecurring(ctx, projectID)
}

func (s *service) Chains() []Chain {
	return supportedChains
}

// RunSequence executes the selected tasks strictly in order. Simulated
// task failures are absorbed into task statuses and log entries; only
// store errors propagate to the job queue.
func (s *service) RunSequence(ctx context.Context, projectID, walletAddress string, taskNames []string) error {
	project, err := s.store.GetProject(ctx, projectID)
	if err != nil {
		return err
	}
	if project == nil {
		return ErrProjectNotFound
	}

	for i := range project.Tasks {
		if len(taskNames) > 0 && !containsName(taskNames, project.Tasks[i].Name) {
			continue
		}
		if err := s.executeTask(ctx, project, i); err != nil {
			return err
		}
		s.sleep(ctx, s.jitter(500*time.Millisecond, 1500*time.Millisecond))
	}

	if err := s.store.MarkCompleted(ctx, projectID); err != nil {
		return err
	}
	return s.store.InsertLog(ctx, &models.FarmingLog{
		ProjectID: projectID,
		UserID:    project.UserID,
		Message:   "Farming completed successfully!",
		Level:     models.LogLevelSuccess,
	})
}

func (s *service) executeTask(ctx context.Context, project *models.FarmingProject, idx int) error {
	task := &project.Tasks[idx]

	// Simulated on-chain latency.
	s.sleep(ctx, s.jitter(1*time.Second, 3*time.Second))

	if s.draw() > 0.1 {
		return s.completeTask(ctx, project, idx, fmt.Sprintf("Successfully completed: %s", task.Name))
	}

	task.Status = models.FarmingStatusFailed
	metrics.FarmingTasksExecuted.WithLabelValues(models.FarmingStatusFailed).Inc()
	if err := s.store.UpdateTasks(ctx, project.ID, project.Tasks); err != nil {
		return err
	}
	if err := s.store.InsertLog(ctx, &models.FarmingLog{
		ProjectID: project.ID,
		UserID:    project.UserID,
		Message:   fmt.Sprintf("Failed: %s. Will retry...", task.Name),
		Level:     models.LogLevelError,
	}); err != nil {
		return err
	}

	s.sleep(ctx, s.jitter(1*time.Second, 2*time.Second))

	if s.retryAlwaysSucceeds || s.draw() > 0.1 {
		return s.completeTask(ctx, project, idx, fmt.Sprintf("Retry successful: %s", task.Name))
	}

	// Retry drew a failure too; the task stays failed.
	if err := s.store.UpdateTasks(ctx, project.ID, project.Tasks); err != nil {
		return err
	}
	return s.store.InsertLog(ctx, &models.FarmingLog{
		ProjectID: project.ID,
		UserID:    project.UserID,
		Message:   fmt.Sprintf("Retry failed: %s", task.Name),
		Level:     models.LogLevelError,
	})
}

func (s *service) completeTask(ctx context.Context, project *models.FarmingProject, idx int, message string) error {
	task := &project.Tasks[idx]
	hash := pseudoTxHash()
	task.Status = models.FarmingStatusCompleted
	task.TxHash = &hash
	metrics.FarmingTasksExecuted.WithLabelValues(models.FarmingStatusCompleted).Inc()
	if err := s.store.UpdateTasks(ctx, project.ID, project.Tasks); err != nil {
		return err
	}
	return s.store.InsertLog(ctx, &models.FarmingLog{
		ProjectID: project.ID,
		UserID:    project.UserID,
		Message:   message,
		Level:     models.LogLevelSuccess,
	})
}

func selectTasks(tasks []models.FarmingTask, names []string) []models.FarmingTask {
	if len(names) == 0 {
		return tasks
	}
	subset := make([]models.FarmingTask, 0, len(names))
	for _, t := range tasks {
		if containsName(names, t.Name) {
			subset = append(subset, t)
		}
	}
	return subset
}

func containsName(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

const hexDigits = "0123456789abcdef"

func pseudoTxHash() string {
	b := make([]byte, 64)
	for i := range b {
		b[i] = hexDigits[rand.Intn(len(hexDigits))]
	}
	return "0x" + string(b)
}

func jitterBetween(min, max time.Duration) time.Duration {
	return min + time.Duration(rand.Int63n(int64(max-min)))
}

func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
