package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/pkozlov/docbuddy/internal/core/domain"
)

type expandGeneratorFake struct {
	prompt   string
	response string
	err      error
}

func (f *expandGeneratorFake) GenerateConversationalAnswer(context.Context, string, string, []domain.ConversationTurn, []domain.RetrievedChunk) (string, error) {
	return "", errors.New("not implemented")
}

func (f *expandGeneratorFake) GenerateFromPrompt(_ context.Context, _ string, prompt string) (string, error) {
	f.prompt = prompt
	return f.response, f.err
}

func TestExpandReturnsRelatedQueries(t *testing.T) {
	gen := &expandGeneratorFake{
		response: `Of course, here they are:
[{"query": "What are the financial risks?"}, {"query": "What are operational risks?"}]`,
	}
	expander := NewQueryExpander(gen)

	queries := expander.Expand(context.Background(), "", "What are the main risks?")
	if len(queries) != 2 {
		t.Fatalf("expected 2 queries, got %d", len(queries))
	}
	if queries[0] != "What are the financial risks?" {
		t.Fatalf("unexpected first query: %s", queries[0])
	}
	if !strings.Contains(gen.prompt, "What are the main risks?") {
		t.Fatalf("expansion prompt should embed the original question, got: %s", gen.prompt)
	}
	if !strings.Contains(gen.prompt, "JSON array") {
		t.Fatalf("expansion prompt should request a JSON array")
	}
}

func TestExpandSkipsElementsWithoutQueryField(t *testing.T) {
	gen := &expandGeneratorFake{
		response: `[{"query": "good"}, {"text": "no query key"}, "bare string", {"query": ""}]`,
	}
	expander := NewQueryExpander(gen)

	queries := expander.Expand(context.Background(), "", "q")
	if len(queries) != 1 || queries[0] != "good" {
		t.Fatalf("expected only the well-formed element, got %v", queries)
	}
}

func TestExpandDegradesToEmptyOnParseFailure(t *testing.T) {
	gen := &expandGeneratorFake{response: `Sure! Here you go: ["bad json"`}
	expander := NewQueryExpander(gen)

	if queries := expander.Expand(context.Background(), "", "q"); len(queries) != 0 {
		t.Fatalf("expected empty expansion, got %v", queries)
	}
}

func TestExpandDegradesToEmptyOnModelError(t *testing.T) {
	gen := &expandGeneratorFake{err: errors.New("model unavailable")}
	expander := NewQueryExpander(gen)

	if queries := expander.Expand(context.Background(), "", "q"); len(queries) != 0 {
		t.Fatalf("expected empty expansion on model error, got %v", queries)
	}
}
