package models

import "time"

type ChatMessage struct {
	Content   string    `json:"content"`
	Sender    string    `json:"sender"` // "user" or "bot"
	Timestamp time.Time `json:"timestamp"`
}

type ChatThread struct {
	ID        string        `json:"id"`
	UserID    *string       `json:"user_id,omitempty"`
	Messages  []ChatMessage `json:"messages"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}
