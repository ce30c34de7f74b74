package twitter

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/scryptex/backend/internal/ledger"
	"github.com/scryptex/backend/internal/models"
)

type mockStore struct {
	mu       sync.Mutex
	posts    []models.TwitterPost
	threads  []models.TwitterThread
	accounts map[string]*models.TwitterAccount
}

func newMockStore() *mockStore {
	return &mockStore{accounts: make(map[string]*models.TwitterAccount)}
}

func (m *mockStore) CreatePost(_ context.Context, p *models.TwitterPost) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.CreatedAt = time.Now()
	m.posts = append(m.posts, *p)
	return nil
}

func (m *mockStore) CreateThread(_ context.Context, t *models.TwitterThread, posts []*models.TwitterPost) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range posts {
		p.CreatedAt = time.Now()
		m.posts = append(m.posts, *p)
	}
	t.CreatedAt = time.Now()
	m.threads = append(m.threads, *t)
	return nil
}

func (m *mockStore) ListPosts(_ context.Context, userID string) ([]models.TwitterPost, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.TwitterPost{}
	for _, p := range m.posts {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockStore) ListThreads(_ context.Context, userID string) ([]ThreadSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []ThreadSummary{}
	for _, t := range m.threads {
		if t.UserID == userID {
			out = append(out, ThreadSummary{ID: t.ID, PostCount: len(t.PostIDs), Status: t.Status, CreatedAt: t.CreatedAt})
		}
	}
	return out, nil
}

func (m *mockStore) UpsertAccount(_ context.Context, userID, handle string) (*models.TwitterAccount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	acct, ok := m.accounts[userID]
	if !ok {
		acct = &models.TwitterAccount{UserID: userID}
		m.accounts[userID] = acct
	}
	acct.TwitterHandle = handle
	acct.IsConnected = true
	cp := *acct
	return &cp, nil
}

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

type mockProjects map[string]string

func (m mockProjects) ProjectName(_ context.Context, projectID string) (string, bool, error) {
	name, ok := m[projectID]
	return name, ok, nil
}

func newTestService(store Store, credits CreditService, projects ProjectFinder) Service {
	gen := &TemplateGenerator{intn: func(int) int { return 0 }}
	return NewService(store, credits, projects, gen)
}

func TestCreatePostChargesAndStoresDraft(t *testing.T) {
	store := newMockStore()
	credits := &mockCredits{balance: 5}
	svc := newTestService(store, credits, mockProjects{"prj_1": "Foo Protocol"})

	post, err := svc.CreatePost(context.Background(), "usr_1", "prj_1", "tokenomics", "informative")
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}
	if len(credits.spent) != 1 || credits.spent[0] != PostCost {
		t.Errorf("expected a single %v credit debit, got %v", PostCost, credits.spent)
	}
	if post.Status != models.TwitterStatusDraft {
		t.Errorf("status = %q, want draft", post.Status)
	}
	if !strings.Contains(post.Content, "Foo Protocol") {
		t.Errorf("content does not mention the project: %q", post.Content)
	}
	if post.Mentions == nil {
		t.Error("mentions must be an empty slice, not nil")
	}

	listed, _ := svc.Posts(context.Background(), "usr_1")
	if len(listed) != 1 || listed[0].ID != post.ID {
		t.Errorf("Posts = %+v", listed)
	}
}

func TestCreatePostUnknownProject(t *testing.T) {
	svc := newTestService(newMockStore(), &mockCredits{balance: 5}, mockProjects{})
	if _, err := svc.CreatePost(context.Background(), "usr_1", "prj_x", "team", "informative"); !errors.Is(err, ErrProjectNotFound) {
		t.Errorf("err = %v, want ErrProjectNotFound", err)
	}
}

func TestCreatePostInsufficientCredits(t *testing.T) {
	store := newMockStore()
	svc := newTestService(store, &mockCredits{balance: 0.5}, mockProjects{"prj_1": "Foo"})
	if _, err := svc.CreatePost(context.Background(), "usr_1", "prj_1", "team", "informative"); !errors.Is(err, ledger.ErrInsufficientFunds) {
		t.Errorf("err = %v, want ErrInsufficientFunds", err)
	}
	if len(store.posts) != 0 {
		t.Error("nothing should be stored when the debit fails")
	}
}

func TestCreateThreadPersistsAllPosts(t *testing.T) {
	store := newMockStore()
	credits := &mockCredits{balance: 5}
	svc := newTestService(store, credits, mockProjects{"prj_1": "Foo Protocol"})

	topics := []string{"team", "roadmap"}
	thread, count, err := svc.CreateThread(context.Background(), "usr_1", "prj_1", topics)
	if err != nil {
		t.Fatalf("CreateThread: %v", err)
	}
	if count != len(topics)+2 {
		t.Errorf("post count = %d, want %d", count, len(topics)+2)
	}
	if len(thread.PostIDs) != count {
		t.Errorf("thread references %d posts, want %d", len(thread.PostIDs), count)
	}
	if len(credits.spent) != 1 || credits.spent[0] != ThreadCost {
		t.Errorf("expected a single %v credit debit, got %v", ThreadCost, credits.spent)
	}
	if len(store.posts) != count {
		t.Errorf("stored %d posts, want %d", len(store.posts), count)
	}

	summaries, _ := svc.Threads(context.Background(), "usr_1")
	if len(summaries) != 1 || summaries[0].PostCount != count {
		t.Errorf("Threads = %+v", summaries)
	}
}

func TestCreateThreadRequiresTopics(t *testing.T) {
	svc := newTestService(newMockStore(), &mockCredits{balance: 5}, mockProjects{"prj_1": "Foo"})
	if _, _, err := svc.CreateThread(context.Background(), "usr_1", "prj_1", nil); err == nil {
		t.Error("expected error for empty topics")
	}
}

func TestConnectUpsertsAccount(t *testing.T) {
	svc := newTestService(newMockStore(), &mockCredits{}, mockProjects{})

	acct, err := svc.Connect(context.Background(), "usr_1", "@alice")
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if !acct.IsConnected || acct.TwitterHandle != "@alice" {
		t.Errorf("account = %+v", acct)
	}

	again, err := svc.Connect(context.Background(), "usr_1", "@alice2")
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if again.TwitterHandle != "@alice2" {
		t.Errorf("handle not updated: %+v", again)
	}
}
