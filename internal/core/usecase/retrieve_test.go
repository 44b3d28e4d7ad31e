package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/pkozlov/docbuddy/internal/core/domain"
)

type retrieveEmbedderFake struct {
	err error
}

func (f *retrieveEmbedderFake) Embed(context.Context, []string) ([][]float32, error) {
	return nil, nil
}
func (f *retrieveEmbedderFake) EmbedQuery(context.Context, string) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []float32{0.5}, nil
}

type retrieveVectorFake struct {
	sessionID string
	limit     int
	err       error
}

func (f *retrieveVectorFake) IndexChunks(context.Context, *domain.Session, []string, [][]float32) error {
	return nil
}
func (f *retrieveVectorFake) Search(_ context.Context, sessionID string, _ []float32, limit int) ([]domain.RetrievedChunk, error) {
	f.sessionID = sessionID
	f.limit = limit
	if f.err != nil {
		return nil, f.err
	}
	return []domain.RetrievedChunk{{SessionID: sessionID, Text: "passage"}}, nil
}

type retrieveGeneratorFake struct {
	answer      string
	err         error
	seenHistory []domain.ConversationTurn
}

func (f *retrieveGeneratorFake) GenerateConversationalAnswer(_ context.Context, _, _ string, history []domain.ConversationTurn, _ []domain.RetrievedChunk) (string, error) {
	f.seenHistory = history
	return f.answer, f.err
}
func (f *retrieveGeneratorFake) GenerateFromPrompt(context.Context, string, string) (string, error) {
	return "", errors.New("not implemented")
}

func TestAnswerRecordsExchangeAndScopesSearch(t *testing.T) {
	memory := &chatMemoryFake{turns: []domain.ConversationTurn{
		{SessionID: "s-1", Role: domain.RoleHuman, Content: "earlier question"},
	}}
	vector := &retrieveVectorFake{}
	gen := &retrieveGeneratorFake{answer: "grounded answer"}
	answerer := NewRetrievalAnswerer(&retrieveEmbedderFake{}, vector, gen, memory, 0)

	session := &domain.Session{ID: "s-1", Status: domain.SessionReady}
	result, err := answerer.Answer(context.Background(), session, "a question")
	if err != nil {
		t.Fatalf("Answer() error = %v", err)
	}
	if result == nil || result.Answer != "grounded answer" || result.Query != "a question" {
		t.Fatalf("unexpected result: %+v", result)
	}
	if vector.sessionID != "s-1" {
		t.Fatalf("search must be scoped to the session, got %q", vector.sessionID)
	}
	if vector.limit != defaultRetrievalTopK {
		t.Fatalf("expected default top-k %d, got %d", defaultRetrievalTopK, vector.limit)
	}
	if len(gen.seenHistory) != 1 || gen.seenHistory[0].Content != "earlier question" {
		t.Fatalf("running memory must reach the backend, got %+v", gen.seenHistory)
	}
	// Side effect: (human, ai) pair appended.
	if len(memory.turns) != 3 {
		t.Fatalf("expected 3 turns after exchange, got %d", len(memory.turns))
	}
	if memory.turns[1].Role != domain.RoleHuman || memory.turns[2].Role != domain.RoleAI {
		t.Fatalf("unexpected turn roles: %+v", memory.turns[1:])
	}
}

func TestAnswerEmptyBackendResponseIsNotAnError(t *testing.T) {
	memory := &chatMemoryFake{}
	answerer := NewRetrievalAnswerer(&retrieveEmbedderFake{}, &retrieveVectorFake{}, &retrieveGeneratorFake{answer: "  "}, memory, 0)

	result, err := answerer.Answer(context.Background(), &domain.Session{ID: "s-1"}, "q")
	if err != nil {
		t.Fatalf("Answer() error = %v", err)
	}
	if result != nil {
		t.Fatalf("expected nil result for empty answer, got %+v", result)
	}
	if len(memory.turns) != 0 {
		t.Fatalf("empty exchanges must not be recorded, got %d turns", len(memory.turns))
	}
}

func TestAnswerSurfacesTransportErrors(t *testing.T) {
	answerer := NewRetrievalAnswerer(
		&retrieveEmbedderFake{err: errors.New("embed down")},
		&retrieveVectorFake{},
		&retrieveGeneratorFake{},
		&chatMemoryFake{},
		0,
	)
	if _, err := answerer.Answer(context.Background(), &domain.Session{ID: "s-1"}, "q"); err == nil {
		t.Fatalf("expected error")
	}

	answerer = NewRetrievalAnswerer(
		&retrieveEmbedderFake{},
		&retrieveVectorFake{err: errors.New("index down")},
		&retrieveGeneratorFake{},
		&chatMemoryFake{},
		0,
	)
	if _, err := answerer.Answer(context.Background(), &domain.Session{ID: "s-1"}, "q"); err == nil {
		t.Fatalf("expected error")
	}
}
