package ports

import (
	"context"
	"io"

	"github.com/pkozlov/docbuddy/internal/core/domain"
)

// SessionIngestor is the inbound contract for document upload orchestration.
type SessionIngestor interface {
	Upload(ctx context.Context, filename, mimeType, model string, body io.Reader) (*domain.Session, error)
}

// SessionIndexer is the inbound contract for asynchronous index building.
type SessionIndexer interface {
	IndexByID(ctx context.Context, sessionID string) error
}

// SessionReader is the inbound read model for session state.
type SessionReader interface {
	GetByID(ctx context.Context, id string) (*domain.Session, error)
}

// ChatService answers a question against a session's index. A prompt macro
// may fan one question out into several, hence the slice result.
type ChatService interface {
	Chat(ctx context.Context, sessionID, question string) ([]domain.ChatResult, error)
}
