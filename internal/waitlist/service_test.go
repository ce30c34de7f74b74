package waitlist

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/scryptex/backend/internal/models"
)

type mockStore struct {
	mu      sync.Mutex
	entries []models.WaitlistEntry
	nextID  int64
}

func (m *mockStore) Create(_ context.Context, e *models.WaitlistEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	e.ID = m.nextID
	e.CreatedAt = time.Now()
	m.entries = append(m.entries, *e)
	return nil
}

func (m *mockStore) GetByEmail(_ context.Context, email string) (*models.WaitlistEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.entries {
		if m.entries[i].Email == email {
			cp := m.entries[i]
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *mockStore) GetByCode(_ context.Context, code string) (*models.WaitlistEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.entries {
		if m.entries[i].ReferralCode == code {
			cp := m.entries[i]
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *mockStore) AddReferralReward(_ context.Context, code string, reward int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.entries {
		if m.entries[i].ReferralCode == code {
			m.entries[i].ReferralCount++
			m.entries[i].RewardPendingTex += reward
			return nil
		}
	}
	return nil
}

func (m *mockStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func newTestService(store Store) *service {
	svc := NewService(store).(*service)
	n := 0
	svc.newCode = func() string {
		n++
		return []string{"AAAAAA", "BBBBBB", "CCCCCC"}[n-1]
	}
	return svc
}

func TestJoinAssignsReferralCode(t *testing.T) {
	store := &mockStore{}
	svc := newTestService(store)

	entry, err := svc.Join(context.Background(), "alice", "alice@example.com", nil)
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	if entry.ReferralCode != "AAAAAA" {
		t.Errorf("referral_code = %q", entry.ReferralCode)
	}
	if entry.ReferredBy != nil {
		t.Errorf("referred_by = %v, want nil", entry.ReferredBy)
	}
}

func TestJoinWithValidReferralRewardsReferrer(t *testing.T) {
	store := &mockStore{}
	svc := newTestService(store)

	referrer, err := svc.Join(context.Background(), "alice", "alice@example.com", nil)
	if err != nil {
		t.Fatalf("Join: %v", err)
	}

	ref := referrer.ReferralCode
	joined, err := svc.Join(context.Background(), "bob", "bob@example.com", &ref)
	if err != nil {
		t.Fatalf("Join with referral: %v", err)
	}
	if joined.ReferredBy == nil || *joined.ReferredBy != ref {
		t.Errorf("referred_by = %v, want %q", joined.ReferredBy, ref)
	}

	updated, err := svc.ReferralData(context.Background(), ref)
	if err != nil {
		t.Fatalf("ReferralData: %v", err)
	}
	if updated.ReferralCount != 1 {
		t.Errorf("referral_count = %d, want 1", updated.ReferralCount)
	}
	if updated.RewardPendingTex != models.ReferralReward {
		t.Errorf("reward_pending_tex = %d, want %d", updated.RewardPendingTex, models.ReferralReward)
	}
}

func TestJoinRejectsUnknownReferralBeforeWriting(t *testing.T) {
	store := &mockStore{}
	svc := newTestService(store)

	ref := "NOPE99"
	if _, err := svc.Join(context.Background(), "bob", "bob@example.com", &ref); !errors.Is(err, ErrInvalidReferral) {
		t.Fatalf("err = %v, want ErrInvalidReferral", err)
	}
	if store.count() != 0 {
		t.Errorf("rejected signup must not be persisted, have %d entries", store.count())
	}
}

func TestJoinRejectsDuplicateEmail(t *testing.T) {
	store := &mockStore{}
	svc := newTestService(store)

	if _, err := svc.Join(context.Background(), "alice", "alice@example.com", nil); err != nil {
		t.Fatalf("Join: %v", err)
	}
	if _, err := svc.Join(context.Background(), "alice2", "alice@example.com", nil); !errors.Is(err, ErrEmailRegistered) {
		t.Errorf("err = %v, want ErrEmailRegistered", err)
	}
}

func TestJoinTreatsEmptyReferralAsNone(t *testing.T) {
	store := &mockStore{}
	svc := newTestService(store)

	empty := ""
	entry, err := svc.Join(context.Background(), "alice", "alice@example.com", &empty)
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	if entry.ReferredBy != nil {
		t.Errorf("referred_by = %v, want nil for empty ref", entry.ReferredBy)
	}
}

func TestReferralDataUnknownCode(t *testing.T) {
	svc := newTestService(&mockStore{})
	if _, err := svc.ReferralData(context.Background(), "ZZZZZZ"); !errors.Is(err, ErrCodeNotFound) {
		t.Errorf("err = %v, want ErrCodeNotFound", err)
	}
}

func TestRandomCodeShape(t *testing.T) {
	code := randomCode()
	if len(code) != codeLength {
		t.Fatalf("len = %d, want %d", len(code), codeLength)
	}
	for i := 0; i < len(code); i++ {
		found := false
		for j := 0; j < len(codeCharset); j++ {
			if code[i] == codeCharset[j] {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("code[%d] = %q outside charset", i, code[i])
		}
	}
}
