package chat

import (
	"context"
	"encoding/json"
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

func (r *Repository) CreateThread(ctx context.Context, t *models.ChatThread) error {
	messages, err := json.Marshal(t.Messages)
	if err != nil {
		return err
	}
	return r.pool.QueryRow(ctx, `
		INSERT INTO chat_threads (id, user_id, messages)
		VALUES ($1, $2, $3)
		RETURNING created_at, updated_at
	`, t.ID, t.UserID, messages).Scan(&t.CreatedAt, &t.UpdatedAt)
}

// GetThread returns the thread with the given id, or nil if none exists.
func (r *Repository) GetThread(ctx context.Context, id string) (*models.ChatThread, error) {
	var t models.ChatThread
	var messages []byte
	err := r.pool.QueryRow(ctx, `
		SELECT id, user_id, messages, created_at, updated_at
		FROM chat_threads WHERE id = $1
	`, id).Scan(&t.ID, &t.UserID, &messages, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(messages, &t.Messages); err != nil {
		return nil, err
	}
	return &t, nil
}

// ListThreads returns the user's threads, newest first.
func (r *Repository) ListThreads(ctx context.Context, userID string) ([]models.ChatThread, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, messages, created_at, updated_at
		FROM chat_threads WHERE user_id = $1
		ORDER BY updated_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	threads := []models.ChatThread{}
	for rows.Next() {
		var t models.ChatThread
		var messages []byte
		if err := rows.Scan(&t.ID, &t.UserID, &messages, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(messages, &t.Messages); err != nil {
			return nil, err
		}
		threads = append(threads, t)
	}
	return threads, rows.Err()
}

// AppendMessages adds messages to a thread's JSONB array.
func (r *Repository) AppendMessages(ctx context.Context, threadID string, msgs []models.ChatMessage) error {
	raw, err := json.Marshal(msgs)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `
		UPDATE chat_threads
		SET messages = messages || $1::jsonb, updated_at = now()
		WHERE id = $2
	`, raw, threadID)
	return err
}
