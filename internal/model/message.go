// Package model defines data structures for the SynapseChat client.
package model

// Role represents the role of a message sender.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message represents a single chat turn. User messages are constructed
// locally with a generated id; assistant messages are built from backend
// responses. Messages are immutable once appended to a transcript.
type Message struct {
	ID      string `json:"id"`
	Role    Role   `json:"role"`
	Content string `json:"content"`
	// Source is the citation reported by the backend for assistant
	// answers. Empty for user messages and uncited answers.
	Source string `json:"source,omitempty"`
}

// ChatRequest is the request body for POST /api/chat.
type ChatRequest struct {
	Query     string `json:"query"`
	SessionID string `json:"session_id,omitempty"`
}

// ChatResponse is the response body for POST /api/chat.
type ChatResponse struct {
	Answer    string `json:"answer"`
	Source    string `json:"source,omitempty"`
	SessionID string `json:"session_id"`
}

// HistoryResponse is the response body for GET /api/chat/{session_id}.
type HistoryResponse struct {
	Messages  []Message `json:"messages"`
	SessionID string    `json:"session_id"`
}

// ErrorResponse is the error payload carried by non-2xx responses.
// Absence of a parseable body must not crash the caller.
type ErrorResponse struct {
	Detail string `json:"detail"`
}
