package models

import "time"

const (
	SessionStatusActive = "active"
	SessionStatusClosed = "closed"
)

type Session struct {
	SessionID    string    `json:"session_id"`
	UserID       string    `json:"user_id,omitempty"`
	UserEmail    string    `json:"user_email,omitempty"`
	Title        string    `json:"title"`
	Status       string    `json:"status,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	MessageCount int       `json:"message_count"`
}

// SessionUpdate carries the mutable session fields; empty fields are
// left untouched by the session service.
type SessionUpdate struct {
	Title  string `json:"title,omitempty"`
	Status string `json:"status,omitempty"`
}
