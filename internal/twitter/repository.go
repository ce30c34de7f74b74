package twitter

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/scryptex/backend/internal/models"
)

// ThreadSummary is the list view of a thread: count and first-post
// preview instead of the full content.
type ThreadSummary struct {
	ID        string    `json:"id"`
	PostCount int       `json:"post_count"`
	Preview   string    `json:"preview"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) CreatePost(ctx context.Context, p *models.TwitterPost) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO twitter_posts (id, user_id, project_id, content, hashtags, mentions, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`, p.ID, p.UserID, p.ProjectID, p.Content, p.Hashtags, p.Mentions, p.Status).
		Scan(&p.CreatedAt, &p.UpdatedAt)
}

// CreateThread stores the thread's posts and the thread record in one
// transaction so a thread never references missing posts.
func (r *Repository) CreateThread(ctx context.Context, t *models.TwitterThread, posts []*models.TwitterPost) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, p := range posts {
		if err := tx.QueryRow(ctx, `
			INSERT INTO twitter_posts (id, user_id, project_id, content, hashtags, mentions, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING created_at, updated_at
		`, p.ID, p.UserID, p.ProjectID, p.Content, p.Hashtags, p.Mentions, p.Status).
			Scan(&p.CreatedAt, &p.UpdatedAt); err != nil {
			return err
		}
	}
	if err := tx.QueryRow(ctx, `
		INSERT INTO twitter_threads (id, user_id, project_id, post_ids, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`, t.ID, t.UserID, t.ProjectID, t.PostIDs, t.Status).
		Scan(&t.CreatedAt, &t.UpdatedAt); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// ListPosts returns the user's posts, newest first.
func (r *Repository) ListPosts(ctx context.Context, userID string) ([]models.TwitterPost, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, project_id, content, hashtags, mentions, status, tweet_id, created_at, updated_at
		FROM twitter_posts WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []models.TwitterPost{}
	for rows.Next() {
		var p models.TwitterPost
		if err := rows.Scan(&p.ID, &p.UserID, &p.ProjectID, &p.Content, &p.Hashtags, &p.Mentions,
			&p.Status, &p.TweetID, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// ListThreads returns thread summaries for the user, newest first. The
// preview is the content of the thread's first post.
func (r *Repository) ListThreads(ctx context.Context, userID string) ([]ThreadSummary, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT t.id,
		       cardinality(t.post_ids),
		       COALESCE((SELECT p.content FROM twitter_posts p WHERE p.id = t.post_ids[1]), 'Empty thread'),
		       t.status,
		       t.created_at
		FROM twitter_threads t
		WHERE t.user_id = $1
		ORDER BY t.created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	threads := []ThreadSummary{}
	for rows.Next() {
		var t ThreadSummary
		if err := rows.Scan(&t.ID, &t.PostCount, &t.Preview, &t.Status, &t.CreatedAt); err != nil {
			return nil, err
		}
		threads = append(threads, t)
	}
	return threads, rows.Err()
}

// UpsertAccount connects or reconnects the user's handle.
func (r *Repository) UpsertAccount(ctx context.Context, userID, handle string) (*models.TwitterAccount, error) {
	var a models.TwitterAccount
	err := r.pool.QueryRow(ctx, `
		INSERT INTO twitter_accounts (user_id, twitter_handle, is_connected)
		VALUES ($1, $2, TRUE)
		ON CONFLICT (user_id) DO UPDATE
		SET twitter_handle = EXCLUDED.twitter_handle,
		    is_connected = TRUE,
		    last_used = now()
		RETURNING user_id, twitter_handle, is_connected, connected_at, last_used
	`, userID, handle).Scan(&a.UserID, &a.TwitterHandle, &a.IsConnected, &a.ConnectedAt, &a.LastUsed)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
