package ports

import (
	"context"
	"io"

	"github.com/pkozlov/docbuddy/internal/core/domain"
)

// SessionRepository persists and reads session state.
type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session) error
	GetByID(ctx context.Context, id string) (*domain.Session, error)
	UpdateStatus(ctx context.Context, id string, status domain.SessionStatus, errMessage string) error
}

// ConversationStore persists the append-only conversation memory of a session.
type ConversationStore interface {
	AppendTurn(ctx context.Context, turn domain.ConversationTurn) error
	ListTurns(ctx context.Context, sessionID string, limit int) ([]domain.ConversationTurn, error)
}

// ObjectStorage stores uploaded source documents.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// MessageQueue publishes/consumes session indexing events.
type MessageQueue interface {
	PublishSessionUploaded(ctx context.Context, sessionID string) error
	SubscribeSessionUploaded(ctx context.Context, handler func(context.Context, string) error) error
}

// TextExtractor extracts plain text from a stored document.
type TextExtractor interface {
	Extract(ctx context.Context, session *domain.Session) (string, error)
}

// Chunker splits text into semantically usable chunks.
type Chunker interface {
	Split(text string) []string
}

// Embedder builds vectors for chunks and query text.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// VectorStore indexes chunks and performs semantic search scoped to a session.
type VectorStore interface {
	IndexChunks(ctx context.Context, session *domain.Session, chunks []string, vectors [][]float32) error
	Search(ctx context.Context, sessionID string, queryVector []float32, limit int) ([]domain.RetrievedChunk, error)
}

// AnswerGenerator produces model output. An empty model falls back to the
// server's configured default.
type AnswerGenerator interface {
	GenerateConversationalAnswer(ctx context.Context, model, question string, history []domain.ConversationTurn, chunks []domain.RetrievedChunk) (string, error)
	GenerateFromPrompt(ctx context.Context, model, prompt string) (string, error)
}

// ModelLister discovers the models available on the inference server.
type ModelLister interface {
	ListModels(ctx context.Context) ([]domain.ModelInfo, error)
}
