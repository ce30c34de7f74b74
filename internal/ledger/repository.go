package ledger

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/scryptex/backend/internal/models"
)

var errInsufficientFunds = errors.New("insufficient credits")

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) Begin(ctx context.Context) (pgx.Tx, error) {
	return r.pool.Begin(ctx)
}

// GetOrCreateBalance returns the user's balance record, seeding it with
// the starting grant on first access.
func (r *Repository) GetOrCreateBalance(ctx context.Context, userID string) (*models.CreditBalance, error) {
	var b models.CreditBalance
	err := r.pool.QueryRow(ctx, `
		INSERT INTO credit_balances (user_id, balance, lifetime_earned, lifetime_spent)
		VALUES ($1, $2, $2, 0)
		ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
		RETURNING user_id, balance, lifetime_earned, lifetime_spent, last_updated
	`, userID, models.StartingBalance).Scan(
		&b.UserID, &b.Balance, &b.LifetimeEarned, &b.LifetimeSpent, &b.LastUpdated)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Debit runs inside the caller's transaction. It verifies the balance
// covers amount via an atomic conditional UPDATE; a zero row count means
// insufficient credits and nothing is changed.
func (r *Repository) Debit(ctx context.Context, tx pgx.Tx, userID string, amount float64) (float64, error) {
	var remaining float64
	err := tx.QueryRow(ctx, `
		UPDATE credit_balances
		SET balance = balance - $1, lifetime_spent = lifetime_spent + $1, last_updated = now()
		WHERE user_id = $2 AND balance >= $1
		RETURNING balance
	`, amount, userID).Scan(&remaining)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, errInsufficientFunds
	}
	if err != nil {
		return 0, err
	}
	return remaining, nil
}

// Credit runs inside the caller's transaction and adds amount to the
// user's balance, creating the record if this is their first mutation.
func (r *Repository) Credit(ctx context.Context, tx pgx.Tx, userID string, amount float64) (float64, error) {
	var balance float64
	err := tx.QueryRow(ctx, `
		INSERT INTO credit_balances (user_id, balance, lifetime_earned, lifetime_spent)
		VALUES ($1, $2 + $3, $2 + $3, 0)
		ON CONFLICT (user_id) DO UPDATE
		SET balance = credit_balances.balance + $3,
		    lifetime_earned = credit_balances.lifetime_earned + $3,
		    last_updated = now()
		RETURNING balance
	`, userID, models.StartingBalance, amount).Scan(&balance)
	if err != nil {
		return 0, err
	}
	return balance, nil
}

// InsertLog appends a credit log entry within the caller's transaction.
func (r *Repository) InsertLog(ctx context.Context, tx pgx.Tx, log *models.CreditLog) error {
	return tx.QueryRow(ctx, `
		INSERT INTO credit_logs (user_id, action, amount, description, related_entity)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, log.UserID, log.Action, log.Amount, log.Description, log.RelatedEntity).
		Scan(&log.ID, &log.CreatedAt)
}

// RecentLogs returns the user's newest log entries, most recent first.
func (r *Repository) RecentLogs(ctx context.Context, userID string, limit int) ([]models.CreditLog, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, action, amount, description, related_entity, created_at
		FROM credit_logs
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := []models.CreditLog{}
	for rows.Next() {
		var l models.CreditLog
		if err := rows.Scan(&l.ID, &l.UserID, &l.Action, &l.Amount, &l.Description, &l.RelatedEntity, &l.CreatedAt); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

func (r *Repository) CreateTopupRequest(ctx context.Context, t *models.TopupRequest) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO topup_requests (id, user_id, amount, currency, payment_method, wallet_address, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`, t.ID, t.UserID, t.Amount, t.Currency, t.PaymentMethod, t.WalletAddress, t.Status).
		Scan(&t.CreatedAt, &t.UpdatedAt)
}

// GetTopupRequest returns the request with the given id, or nil if none exists.
func (r *Repository) GetTopupRequest(ctx context.Context, id string) (*models.TopupRequest, error) {
	var t models.TopupRequest
	err := r.pool.QueryRow(ctx, `
		SELECT id, user_id, amount, currency, payment_method, wallet_address, transaction_hash, status, created_at, updated_at
		FROM topup_requests WHERE id = $1
	`, id).Scan(&t.ID, &t.UserID, &t.Amount, &t.Currency, &t.PaymentMethod, &t.WalletAddress,
		&t.TransactionHash, &t.Status, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// SettleTopupRequest flips a pending request to its final status inside
// the caller's transaction. Zero rows means the request was already settled.
func (r *Repository) SettleTopupRequest(ctx context.Context, tx pgx.Tx, id, status string, txHash *string) (bool, error) {
	result, err := tx.Exec(ctx, `
		UPDATE topup_requests
		SET status = $1, transaction_hash = $2, updated_at = now()
		WHERE id = $3 AND status = $4
	`, status, txHash, id, models.TopupStatusPending)
	if err != nil {
		return false, err
	}
	return result.RowsAffected() > 0, nil
}
