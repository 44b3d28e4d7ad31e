package usecase

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var errNoJSONArray = errors.New("no JSON array in model output")

// parseQueryArray extracts a JSON array embedded in free-form model output.
// The candidate slice spans the first '[' through the last ']' inclusive; when
// the text holds several arrays the span over-captures and parsing fails.
// That is a known limitation of this extraction, kept deliberately.
//
// Callers decide the fallback: a parse error here never aborts the pipeline.
func parseQueryArray(raw string) ([]any, error) {
	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start < 0 || end < start {
		return nil, errNoJSONArray
	}

	var items []any
	if err := json.Unmarshal([]byte(raw[start:end+1]), &items); err != nil {
		return nil, fmt.Errorf("parse query array: %w", err)
	}
	return items, nil
}
