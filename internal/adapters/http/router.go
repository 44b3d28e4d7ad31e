// Package httpadapter exposes the session and chat use cases over HTTP.
package httpadapter

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/pkozlov/docbuddy/internal/core/domain"
	"github.com/pkozlov/docbuddy/internal/core/ports"
	"github.com/pkozlov/docbuddy/internal/core/usecase"
	"github.com/pkozlov/docbuddy/internal/observability/logging"
	"github.com/pkozlov/docbuddy/internal/observability/metrics"
)

const serviceName = "api"

type Router struct {
	ingestor ports.SessionIngestor
	sessions ports.SessionReader
	chat     ports.ChatService
	models   ports.ModelLister
	metrics  *metrics.APIMetrics

	rateLimitRPS   float64
	rateLimitBurst int
	maxInFlight    int
	queueWait      time.Duration
}

type RouterOptions struct {
	RateLimitRPS   float64
	RateLimitBurst int
	// MaxInFlight bounds concurrently handled requests; zero disables
	// the backpressure gate.
	MaxInFlight int
	QueueWait   time.Duration
}

func NewRouter(
	ingestor ports.SessionIngestor,
	sessions ports.SessionReader,
	chat ports.ChatService,
	models ports.ModelLister,
	apiMetrics *metrics.APIMetrics,
	options RouterOptions,
) *Router {
	return &Router{
		ingestor:       ingestor,
		sessions:       sessions,
		chat:           chat,
		models:         models,
		metrics:        apiMetrics,
		rateLimitRPS:   options.RateLimitRPS,
		rateLimitBurst: options.RateLimitBurst,
		maxInFlight:    options.MaxInFlight,
		queueWait:      options.QueueWait,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/v1/sessions", rt.createSession)
	mux.HandleFunc("/v1/sessions/", rt.sessionSubtree)
	mux.HandleFunc("/v1/models", rt.listModels)
	if rt.metrics != nil {
		mux.Handle("/metrics", rt.metrics.Handler())
	}

	var handler http.Handler = mux
	if rt.maxInFlight > 0 {
		wait := rt.queueWait
		if wait <= 0 {
			wait = time.Second
		}
		handler = backpressureMiddleware(handler, rt.maxInFlight, wait)
	}
	if rt.rateLimitRPS > 0 {
		handler = rateLimitMiddleware(handler, rt.rateLimitRPS, rt.rateLimitBurst)
	}
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(serviceName, handler)
	}
	handler = accessLogMiddleware(handler)
	return requestIDMiddleware(handler)
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) createSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "multipart field 'file' is required")
		return
	}
	defer file.Close()

	model := strings.TrimSpace(r.FormValue("model"))

	session, err := rt.ingestor.Upload(
		r.Context(),
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		model,
		file,
	)
	if err != nil {
		writeError(w, mapErrorToHTTPStatus(err), err.Error())
		return
	}

	if rt.metrics != nil {
		rt.metrics.RecordUpload(serviceName, fileExtension(session.Filename))
	}
	writeJSON(w, http.StatusAccepted, session)
}

// sessionSubtree routes /v1/sessions/{id} and /v1/sessions/{id}/chat.
func (rt *Router) sessionSubtree(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/v1/sessions/")
	if rest == "" {
		writeError(w, http.StatusBadRequest, "session id is required")
		return
	}

	if id, ok := strings.CutSuffix(rest, "/chat"); ok {
		rt.chatWithSession(w, r, id)
		return
	}
	if strings.Contains(rest, "/") {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	rt.getSession(w, r, rest)
}

func (rt *Router) getSession(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	session, err := rt.sessions.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, mapErrorToHTTPStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (rt *Router) chatWithSession(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if id == "" {
		writeError(w, http.StatusBadRequest, "session id is required")
		return
	}

	var req struct {
		Question string `json:"question"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	start := time.Now()
	results, err := rt.chat.Chat(r.Context(), id, req.Question)
	if err != nil {
		writeError(w, mapErrorToHTTPStatus(err), err.Error())
		return
	}

	rt.recordChatMetrics(results, time.Since(start))
	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

func (rt *Router) recordChatMetrics(results []domain.ChatResult, duration time.Duration) {
	if rt.metrics == nil {
		return
	}
	for _, result := range results {
		outcome := metrics.ChatOutcomeOK
		switch result.Answer {
		case usecase.NoResultsAnswer:
			outcome = metrics.ChatOutcomeNoResults
		case usecase.SynthesisFallbackAnswer:
			outcome = metrics.ChatOutcomeFallback
		}
		rt.metrics.RecordChatAnswer(serviceName, outcome, len(result.Results), duration)
		rt.metrics.RecordSubQueryNoAnswer(serviceName, len(result.Notices))
	}
}

// listModels degrades to an empty list when the inference server is
// unreachable so the UI can still render.
func (rt *Router) listModels(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	models, err := rt.models.ListModels(r.Context())
	if err != nil {
		slog.Warn("list models failed", logging.Err(err))
		writeJSON(w, http.StatusOK, map[string]any{
			"models":  []domain.ModelInfo{},
			"warning": "model catalog is temporarily unavailable",
		})
		return
	}
	if models == nil {
		models = []domain.ModelInfo{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"models": models})
}

func fileExtension(filename string) string {
	idx := strings.LastIndex(filename, ".")
	if idx < 0 {
		return ""
	}
	return strings.ToLower(filename[idx:])
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
