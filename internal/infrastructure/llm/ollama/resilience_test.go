package ollama

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pkozlov/docbuddy/internal/core/domain"
)

func TestGenerateMapsMissingModelToInvalidInput(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"model \"ghost\" not found"}`, http.StatusNotFound)
	}))
	defer server.Close()

	gen := NewGenerator(New(server.URL, "gen", "embed"))
	_, err := gen.GenerateFromPrompt(context.Background(), "ghost", "p")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input kind, got %v", err)
	}
	if domain.IsKind(err, domain.ErrTemporary) {
		t.Fatalf("missing model must not look temporary: %v", err)
	}
}

func TestGenerateMapsOverloadToTemporary(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "busy", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	gen := NewGenerator(New(server.URL, "gen", "embed"))
	_, err := gen.GenerateFromPrompt(context.Background(), "model", "p")
	if !domain.IsKind(err, domain.ErrTemporary) {
		t.Fatalf("expected temporary kind, got %v", err)
	}
}

func TestClassifyOllamaError(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		retryable  bool
		recordable bool
	}{
		{"cancelled caller", context.Canceled, false, false},
		{"deadline exceeded", context.DeadlineExceeded, false, false},
		{"bad gateway", &HTTPStatusError{StatusCode: http.StatusBadGateway}, true, true},
		{"refused request", &HTTPStatusError{StatusCode: http.StatusBadRequest}, false, false},
		{"missing model", &HTTPStatusError{StatusCode: http.StatusNotFound}, false, false},
		{"decode failure", errors.New("decode generate response: unexpected EOF"), false, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			class := classifyOllamaError(tc.err)
			if class.Retryable != tc.retryable {
				t.Fatalf("Retryable = %v, want %v", class.Retryable, tc.retryable)
			}
			if class.RecordFailure != tc.recordable {
				t.Fatalf("RecordFailure = %v, want %v", class.RecordFailure, tc.recordable)
			}
		})
	}
}
