package waitlist

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/scryptex/backend/internal/models"
)

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) Create(ctx context.Context, e *models.WaitlistEntry) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO waitlist (username, email, referral_code, referred_by, referral_count, reward_pending_tex)
		VALUES ($1, $2, $3, $4, 0, 0)
		RETURNING id, created_at
	`, e.Username, e.Email, e.ReferralCode, e.ReferredBy).Scan(&e.ID, &e.CreatedAt)
}

// GetByEmail returns the entry with the given email, or nil if none exists.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*models.WaitlistEntry, error) {
	return r.getOne(ctx, `
		SELECT id, username, email, referral_code, referred_by, referral_count, reward_pending_tex, created_at
		FROM waitlist WHERE email = $1
	`, email)
}

// GetByCode returns the entry with the given referral code, or nil if
// none exists.
func (r *Repository) GetByCode(ctx context.Context, code string) (*models.WaitlistEntry, error) {
	return r.getOne(ctx, `
		SELECT id, username, email, referral_code, referred_by, referral_count, reward_pending_tex, created_at
		FROM waitlist WHERE referral_code = $1
	`, code)
}

// AddReferralReward bumps the referrer's counters atomically.
func (r *Repository) AddReferralReward(ctx context.Context, code string, reward int) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE waitlist
		SET referral_count = referral_count + 1,
		    reward_pending_tex = reward_pending_tex + $1
		WHERE referral_code = $2
	`, reward, code)
	return err
}

func (r *Repository) getOne(ctx context.Context, query string, arg any) (*models.WaitlistEntry, error) {
	var e models.WaitlistEntry
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&e.ID, &e.Username, &e.Email, &e.ReferralCode, &e.ReferredBy,
		&e.ReferralCount, &e.RewardPendingTex, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}
