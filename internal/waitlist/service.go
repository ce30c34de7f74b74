package waitlist

import (
	"context"
	"errors"
	"math/rand"

	"github.com/scryptex/backend/internal/models"
)

const (
	codeLength  = 6
	codeCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

var (
	ErrEmailRegistered = errors.New("email already registered")
	ErrInvalidReferral = errors.New("invalid referral code")
	ErrCodeNotFound    = errors.New("referral code not found")
)

// Store is the persistence interface the waitlist service needs.
type Store interface {
	Create(ctx context.Context, e *models.WaitlistEntry) error
	GetByEmail(ctx context.Context, email string) (*models.WaitlistEntry, error)
	GetByCode(ctx context.Context, code string) (*models.WaitlistEntry, error)
	AddReferralReward(ctx context.Context, code string, reward int) error
}

type Service interface {
	Join(ctx context.Context, username, email string, ref *string) (*models.WaitlistEntry, error)
	ReferralData(ctx context.Context, code string) (*models.WaitlistEntry, error)
}

type service struct {
	store Store

	// newCode is a seam for deterministic tests.
	newCode func() string
}

func NewService(store Store) Service {
	return &service{store: store, newCode: randomCode}
}

var _ Service = (*service)(nil)

// Join adds a signup to the waitlist. An unknown referral code rejects
// the signup before anything is written; a valid one rewards the
// referrer after the new entry is in.
func (s *service) Join(ctx context.Context, username, email string, ref *string) (*models.WaitlistEntry, error) {
	if ref != nil && *ref != "" {
		referrer, err := s.store.GetByCode(ctx, *ref)
		if err != nil {
			return nil, err
		}
		if referrer == nil {
			return nil, ErrInvalidReferral
		}
	} else {
		ref = nil
	}

	existing, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailRegistered
	}

	entry := &models.WaitlistEntry{
		Username:     username,
		Email:        email,
		ReferralCode: s.newCode(),
		ReferredBy:   ref,
	}
	if err := s.store.Create(ctx, entry); err != nil {
		return nil, err
	}

	if ref != nil {
		if err := s.store.AddReferralReward(ctx, *ref, models.ReferralReward); err != nil {
			return nil, err
		}
	}
	return entry, nil
}

func (s *service) ReferralData(ctx context.Context, code string) (*models.WaitlistEntry, error) {
	entry, err := s.store.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, ErrCodeNotFound
	}
	return entry, nil
}

func randomCode() string {
	b := make([]byte, codeLength)
	for i := range b {
		b[i] = codeCharset[rand.Intn(len(codeCharset))]
	}
	return string(b)
}
