// Package audit keeps an append-only trail of notable user actions.
// Recording is best-effort; a failed insert is logged and never fails
// the request that triggered it.
package audit

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) Insert(ctx context.Context, userID, action string, metadata map[string]any) error {
	raw, err := json.Marshal(metadata)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO audit_log (user_id, action, metadata) VALUES ($1, $2, $3)
	`, userID, action, raw)
	return err
}

type store interface {
	Insert(ctx context.Context, userID, action string, metadata map[string]any) error
}

type Recorder struct {
	store store
	log   *slog.Logger
}

func NewRecorder(s store, log *slog.Logger) *Recorder {
	if log == nil {
		log = slog.Default()
	}
	return &Recorder{store: s, log: log}
}

// Record is a no-op on a nil recorder so callers need no guard.
func (r *Recorder) Record(ctx context.Context, userID, action string, metadata map[string]any) {
	if r == nil {
		return
	}
	if err := r.store.Insert(ctx, userID, action, metadata); err != nil {
		r.log.Error("audit record failed", "action", action, "user_id", userID, "error", err)
	}
}
