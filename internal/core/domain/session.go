package domain

import "time"

type SessionStatus string

const (
	SessionUploaded SessionStatus = "uploaded"
	SessionIndexing SessionStatus = "indexing"
	SessionReady    SessionStatus = "ready"
	SessionFailed   SessionStatus = "failed"
)

// Session is one uploaded document together with its retrieval index and
// conversation. It replaces any ambient per-user state: everything the chat
// pipeline needs travels through this object.
type Session struct {
	ID          string        `json:"id"`
	Filename    string        `json:"filename"`
	MimeType    string        `json:"mime_type"`
	StoragePath string        `json:"storage_path"`
	Model       string        `json:"model,omitempty"`
	Status      SessionStatus `json:"status"`
	Error       string        `json:"error,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

const (
	RoleHuman = "human"
	RoleAI    = "ai"
)

// ConversationTurn is one entry of the append-only conversation memory
// attached to a session.
type ConversationTurn struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// ModelInfo describes one model advertised by the inference server.
type ModelInfo struct {
	Name string `json:"name"`
}
