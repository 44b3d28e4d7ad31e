package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pkozlov/docbuddy/internal/core/ports"
)

const relatedQueryCount = 4

// QueryExpander asks the language model for related reformulations of the
// user's question. Expansion is best-effort: any failure degrades to zero
// expanded queries and the pipeline continues with the original question.
type QueryExpander struct {
	generator ports.AnswerGenerator
}

func NewQueryExpander(generator ports.AnswerGenerator) *QueryExpander {
	return &QueryExpander{generator: generator}
}

func (e *QueryExpander) Expand(ctx context.Context, model, originalQuery string) []string {
	raw, err := e.generator.GenerateFromPrompt(ctx, model, buildExpansionPrompt(originalQuery))
	if err != nil {
		slog.Warn("query_expansion_call_failed", "error", err)
		return nil
	}

	items, err := parseQueryArray(raw)
	if err != nil {
		slog.Warn("query_expansion_parse_failed", "error", err)
		return nil
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			slog.Warn("query_expansion_element_skipped", "reason", "element is not an object")
			continue
		}
		query, ok := obj["query"].(string)
		if !ok || strings.TrimSpace(query) == "" {
			slog.Warn("query_expansion_element_skipped", "reason", "missing query field")
			continue
		}
		out = append(out, query)
	}
	return out
}

func buildExpansionPrompt(originalQuery string) string {
	return fmt.Sprintf(
		"In light of the original inquiry: '%s', let's delve deeper and broaden our exploration. "+
			"Please construct a JSON array containing %d distinct but interconnected search queries. "+
			"Each query should reinterpret the original prompt's essence, introducing new dimensions "+
			"or perspectives to investigate. Aim for a blend of complexity and specificity in your "+
			"rephrasings, ensuring each query unveils different facets of the original question. "+
			"Each array element must be an object with a single \"query\" key. "+
			"Only respond with the JSON array itself.",
		originalQuery, relatedQueryCount,
	)
}
