package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pkozlov/docbuddy/internal/core/domain"
	"github.com/pkozlov/docbuddy/internal/core/ports"
)

const (
	defaultRetrievalTopK = 10
	defaultHistoryTurns  = 20
)

// RetrievalAnswerer wraps exactly one retrieval-augmented QA call: embed the
// query, search the session's index, condition the model on the retrieved
// passages plus the running conversation memory, and append the exchange to
// that memory as a side effect.
type RetrievalAnswerer struct {
	embedder     ports.Embedder
	vectorDB     ports.VectorStore
	generator    ports.AnswerGenerator
	memory       ports.ConversationStore
	topK         int
	historyTurns int
}

func NewRetrievalAnswerer(
	embedder ports.Embedder,
	vectorDB ports.VectorStore,
	generator ports.AnswerGenerator,
	memory ports.ConversationStore,
	topK int,
) *RetrievalAnswerer {
	if topK <= 0 {
		topK = defaultRetrievalTopK
	}
	return &RetrievalAnswerer{
		embedder:     embedder,
		vectorDB:     vectorDB,
		generator:    generator,
		memory:       memory,
		topK:         topK,
		historyTurns: defaultHistoryTurns,
	}
}

// WithHistoryTurns overrides how many memory turns are replayed into
// each retrieval prompt. Non-positive values keep the default.
func (a *RetrievalAnswerer) WithHistoryTurns(turns int) *RetrievalAnswerer {
	if turns > 0 {
		a.historyTurns = turns
	}
	return a
}

// Answer returns (nil, nil) when the backend yields no usable content; that
// is "no answer available", not an error. Transport failures are errors.
func (a *RetrievalAnswerer) Answer(ctx context.Context, session *domain.Session, query string) (*domain.RetrievalResult, error) {
	history, err := a.memory.ListTurns(ctx, session.ID, a.historyTurns)
	if err != nil {
		return nil, fmt.Errorf("load conversation memory: %w", err)
	}

	queryVector, err := a.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	chunks, err := a.vectorDB.Search(ctx, session.ID, queryVector, a.topK)
	if err != nil {
		return nil, fmt.Errorf("search session index: %w", err)
	}

	answer, err := a.generator.GenerateConversationalAnswer(ctx, session.Model, query, history, chunks)
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}

	answer = strings.TrimSpace(answer)
	if answer == "" {
		return nil, nil
	}

	a.recordExchange(ctx, session.ID, query, answer)

	return &domain.RetrievalResult{Query: query, Answer: answer}, nil
}

// recordExchange appends the (human, ai) pair to the session memory. Memory
// write failures are logged, not surfaced: a persisted answer matters more
// than its transcript.
func (a *RetrievalAnswerer) recordExchange(ctx context.Context, sessionID, query, answer string) {
	now := time.Now().UTC()
	turns := []domain.ConversationTurn{
		{ID: uuid.NewString(), SessionID: sessionID, Role: domain.RoleHuman, Content: query, CreatedAt: now},
		{ID: uuid.NewString(), SessionID: sessionID, Role: domain.RoleAI, Content: answer, CreatedAt: now},
	}
	for _, turn := range turns {
		if err := a.memory.AppendTurn(ctx, turn); err != nil {
			slog.Warn("conversation_append_failed", "session_id", sessionID, "role", turn.Role, "error", err)
		}
	}
}
