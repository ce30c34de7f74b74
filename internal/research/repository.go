package research

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

func (r *Repository) CreateProject(ctx context.Context, p *models.ResearchProject) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO research_projects (id, user_id, name, website, status, fetchers_available)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`, p.ID, p.UserID, p.Name, p.Website, p.Status, p.FetchersAvailable).
		Scan(&p.CreatedAt, &p.UpdatedAt)
}

// GetProject returns the project with the given id, or nil if none exists.
func (r *Repository) GetProject(ctx context.Context, id string) (*models.ResearchProject, error) {
	return r.getOne(ctx, `
		SELECT id, user_id, name, website, status, fetchers_available, fetchers_completed, fetcher_results, analysis_summary, created_at, updated_at
		FROM research_projects WHERE id = $1
	`, id)
}

// FindByUserAndName returns the user's most recent analysis of the
// named project, or nil if none exists.
func (r *Repository) FindByUserAndName(ctx context.Context, userID, name string) (*models.ResearchProject, error) {
	return r.getOne(ctx, `
		SELECT id, user_id, name, website, status, fetchers_available, fetchers_completed, fetcher_results, analysis_summary, created_at, updated_at
		FROM research_projects WHERE user_id = $1 AND name = $2
		ORDER BY created_at DESC
		LIMIT 1
	`, userID, name)
}

// ProjectName resolves a project's display name for other services.
func (r *Repository) ProjectName(ctx context.Context, projectID string) (string, bool, error) {
	var name string
	err := r.pool.QueryRow(ctx, `SELECT name FROM research_projects WHERE id = $1`, projectID).Scan(&name)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return name, true, nil
}

// AppendFetcherResult records one completed fetcher and its text blob.
func (r *Repository) AppendFetcherResult(ctx context.Context, projectID, fetcherName, result string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE research_projects
		SET fetchers_completed = array_append(fetchers_completed, $2),
		    fetcher_results = jsonb_set(fetcher_results, ARRAY[$2], to_jsonb($3::text)),
		    updated_at = now()
		WHERE id = $1
	`, projectID, fetcherName, result)
	return err
}

// Complete stores the analysis summary and flips the project to completed.
func (r *Repository) Complete(ctx context.Context, projectID string, summary *models.ResearchSummary) error {
	raw, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `
		UPDATE research_projects
		SET status = $1, analysis_summary = $2, updated_at = now()
		WHERE id = $3
	`, models.ResearchStatusCompleted, raw, projectID)
	return err
}

// Delete removes the user's project and reports how many rows went away.
func (r *Repository) Delete(ctx context.Context, projectID, userID string) (int64, error) {
	result, err := r.pool.Exec(ctx, `
		DELETE FROM research_projects WHERE id = $1 AND user_id = $2
	`, projectID, userID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

func (r *Repository) getOne(ctx context.Context, query string, args ...any) (*models.ResearchProject, error) {
	var p models.ResearchProject
	var results []byte
	var summary []byte
	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&p.ID, &p.UserID, &p.Name, &p.Website, &p.Status,
		&p.FetchersAvailable, &p.FetchersCompleted, &results, &summary,
		&p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(results, &p.FetcherResults); err != nil {
		return nil, err
	}
	if summary != nil {
		p.AnalysisSummary = &models.ResearchSummary{}
		if err := json.Unmarshal(summary, p.AnalysisSummary); err != nil {
			return nil, err
		}
	}
	return &p, nil
}
