package models

import "time"

// Twitter content statuses.
const (
	TwitterStatusDraft  = "draft"
	TwitterStatusQueued = "queued"
	TwitterStatusPosted = "posted"
)

type TwitterPost struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ProjectID string    `json:"project_id"`
	Content   string    `json:"content"`
	Hashtags  []string  `json:"hashtags"`
	Mentions  []string  `json:"mentions"`
	Status    string    `json:"status"`
	TweetID   *string   `json:"tweet_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type TwitterThread struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ProjectID string    `json:"project_id"`
	PostIDs   []string  `json:"post_ids"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type TwitterAccount struct {
	UserID        string    `json:"user_id"`
	TwitterHandle string    `json:"twitter_handle"`
	IsConnected   bool      `json:"is_connected"`
	ConnectedAt   time.Time `json:"connected_at"`
	LastUsed      time.Time `json:"last_used"`
}
