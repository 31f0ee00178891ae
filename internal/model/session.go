package model

import (
	"time"
)

// SessionSummary represents a backend-persisted conversation. The set of
// summaries returned by the backend is authoritative and sorted
// most-recently-updated first; the client never patches it incrementally.
type SessionSummary struct {
	SessionID    string    `json:"session_id"`
	Title        string    `json:"title"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	MessageCount int       `json:"message_count"`
}

// ListSessionsResponse is the response body for GET /api/sessions.
type ListSessionsResponse struct {
	Sessions []SessionSummary `json:"sessions"`
}
