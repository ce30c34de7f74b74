package models

import "time"

// Farming project and task statuses. Projects move pending -> running ->
// completed; the failed value exists for tasks, which may show it
// transiently before a retry overwrites it.
const (
	FarmingStatusPending   = "pending"
	FarmingStatusRunning   = "running"
	FarmingStatusCompleted = "completed"
	FarmingStatusFailed    = "failed"
)

// Farming log severity levels.
const (
	LogLevelInfo    = "info"
	LogLevelWarning = "warning"
	LogLevelError   = "error"
	LogLevelSuccess = "success"
)

// FarmingTask is embedded in its project's task list; ordering within the
// list defines execution order and is never changed.
type FarmingTask struct {
	Name            string  `json:"name"`
	Type            string  `json:"type"`
	Required        bool    `json:"required"`
	GasCostEstimate float64 `json:"gas_cost_estimate"`
	Status          string  `json:"status"`
	Details         *string `json:"details,omitempty"`
	TxHash          *string `json:"tx_hash,omitempty"`
}

type FarmingProject struct {
	ID            string        `json:"id"`
	UserID        string        `json:"user_id"`
	ProjectName   string        `json:"project_name"`
	Chain         string        `json:"chain"`
	WalletAddress *string       `json:"wallet_address,omitempty"`
	Tasks         []FarmingTask `json:"tasks"`
	Status        string        `json:"status"`
	Recurring     bool          `json:"recurring"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
	CompletedAt   *time.Time    `json:"completed_at,omitempty"`
}

// FarmingLog is append-only progress output for one project.
type FarmingLog struct {
	ID        int64     `json:"id"`
	ProjectID string    `json:"project_id"`
	UserID    string    `json:"user_id"`
	Message   string    `json:"message"`
	Level     string    `json:"level"`
	CreatedAt time.Time `json:"created_at"`
}
