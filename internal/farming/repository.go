package farming

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

func (r *Repository) CreateProject(ctx context.Context, p *models.FarmingProject) error {
	tasks, err := json.Marshal(p.Tasks)
	if err != nil {
		return err
	}
	return r.pool.QueryRow(ctx, `
		INSERT INTO farming_projects (id, user_id, project_name, chain, wallet_address, tasks, status, recurring)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`, p.ID, p.UserID, p.ProjectName, p.Chain, p.WalletAddress, tasks, p.Status, p.Recurring).
		Scan(&p.CreatedAt, &p.UpdatedAt)
}

// GetProject returns the project with the given id, or nil if none exists.
func (r *Repository) GetProject(ctx context.Context, id string) (*models.FarmingProject, error) {
	var p models.FarmingProject
	var tasks []byte
	err := r.pool.QueryRow(ctx, `
		SELECT id, user_id, project_name, chain, wallet_address, tasks, status, recurring, created_at, updated_at, completed_at
		FROM farming_projects WHERE id = $1
	`, id).Scan(&p.ID, &p.UserID, &p.ProjectName, &p.Chain, &p.WalletAddress, &tasks,
		&p.Status, &p.Recurring, &p.CreatedAt, &p.UpdatedAt, &p.CompletedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(tasks, &p.Tasks); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListProjects returns the user's projects, newest first.
func (r *Repository) ListProjects(ctx context.Context, userID string) ([]models.FarmingProject, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, project_name, chain, wallet_address, tasks, status, recurring, created_at, updated_at, completed_at
		FROM farming_projects WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	projects := []models.FarmingProject{}
	for rows.Next() {
		var p models.FarmingProject
		var tasks []byte
		if err := rows.Scan(&p.ID, &p.UserID, &p.ProjectName, &p.Chain, &p.WalletAddress, &tasks,
			&p.Status, &p.Recurring, &p.CreatedAt, &p.UpdatedAt, &p.CompletedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(tasks, &p.Tasks); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// UpdateTasks overwrites the project's task list. Last write wins; the
// executor is the only writer while a project is running.
func (r *Repository) UpdateTasks(ctx context.Context, projectID string, tasks []models.FarmingTask) error {
	raw, err := json.Marshal(tasks)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `
		UPDATE farming_projects SET tasks = $1, updated_at = now() WHERE id = $2
	`, raw, projectID)
	return err
}

// MarkRunning flips the project to running, updating the wallet address
// when one is supplied.
func (r *Repository) MarkRunning(ctx context.Context, projectID string, walletAddress *string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE farming_projects
		SET status = $1, wallet_address = COALESCE($2, wallet_address), updated_at = now()
		WHERE id = $3
	`, models.FarmingStatusRunning, walletAddress, projectID)
	return err
}

// MarkCompleted sets the terminal status and stamps completed_at.
func (r *Repository) MarkCompleted(ctx context.Context, projectID string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE farming_projects
		SET status = $1, updated_at = now(), completed_at = now()
		WHERE id = $2
	`, models.FarmingStatusCompleted, projectID)
	return err
}

func (r *Repository) SetRecurring(ctx context.Context, projectID string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE farming_projects SET recurring = TRUE, updated_at = now() WHERE id = $1
	`, projectID)
	return err
}

func (r *Repository) InsertLog(ctx context.Context, log *models.FarmingLog) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO farming_logs (project_id, user_id, message, level)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, log.ProjectID, log.UserID, log.Message, log.Level).Scan(&log.ID, &log.CreatedAt)
}

// Logs returns a project's log entries in chronological order.
func (r *Repository) Logs(ctx context.Context, projectID string) ([]models.FarmingLog, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, project_id, user_id, message, level, created_at
		FROM farming_logs WHERE project_id = $1
		ORDER BY created_at ASC, id ASC
	`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := []models.FarmingLog{}
	for rows.Next() {
		var l models.FarmingLog
		if err := rows.Scan(&l.ID, &l.ProjectID, &l.UserID, &l.Message, &l.Level, &l.CreatedAt); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
