package models

import "time"

// Research project statuses.
const (
	ResearchStatusInProgress = "in_progress"
	ResearchStatusCompleted  = "completed"
)

// ResearchProject tracks one project analysis run: which fetchers exist,
// which have completed, and their raw text results keyed by fetcher name.
type ResearchProject struct {
	ID                string            `json:"id"`
	UserID            *string           `json:"user_id,omitempty"`
	Name              string            `json:"name"`
	Website           *string           `json:"website,omitempty"`
	Status            string            `json:"status"`
	FetchersAvailable []string          `json:"fetchers_available"`
	FetchersCompleted []string          `json:"fetchers_completed"`
	FetcherResults    map[string]string `json:"fetcher_results"`
	AnalysisSummary   *ResearchSummary  `json:"analysis_summary,omitempty"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

type ResearchSummary struct {
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	TeamScore      float64   `json:"team_score"`
	SocialScore    float64   `json:"social_score"`
	OverallRisk    string    `json:"overall_risk"`
	Recommendation string    `json:"recommendation"`
	CompletedAt    time.Time `json:"completed_at"`
}
