package metrics

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Chat answer outcomes.
const (
	ChatOutcomeOK        = "ok"
	ChatOutcomeNoResults = "no_results"
	ChatOutcomeFallback  = "fallback"
)

type APIMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	chatAnswersTotal *prometheus.CounterVec
	chatDuration     *prometheus.HistogramVec
	chatFusedResults *prometheus.HistogramVec
	subQueryNoAnswer *prometheus.CounterVec
	uploadsTotal     *prometheus.CounterVec
}

func NewAPIMetrics(service string) *APIMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docbuddy",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "docbuddy",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "docbuddy",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	chatAnswersTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docbuddy",
			Subsystem: "chat",
			Name:      "answers_total",
			Help:      "Total chat answers by outcome.",
		},
		[]string{"service", "outcome"},
	)
	chatDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "docbuddy",
			Subsystem: "chat",
			Name:      "duration_seconds",
			Help:      "Chat pipeline duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service"},
	)
	chatFusedResults := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "docbuddy",
			Subsystem: "chat",
			Name:      "fused_results",
			Help:      "Distribution of fused retrieval results per answer.",
			Buckets:   []float64{0, 1, 2, 3, 4, 5, 6, 8, 10},
		},
		[]string{"service"},
	)
	subQueryNoAnswer := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docbuddy",
			Subsystem: "chat",
			Name:      "sub_query_no_answer_total",
			Help:      "Total sub-queries that produced no retrieval answer.",
		},
		[]string{"service"},
	)
	uploadsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docbuddy",
			Subsystem: "sessions",
			Name:      "uploads_total",
			Help:      "Total accepted session uploads by file extension.",
		},
		[]string{"service", "extension"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		chatAnswersTotal,
		chatDuration,
		chatFusedResults,
		subQueryNoAnswer,
		uploadsTotal,
	)

	return &APIMetrics{
		registry:         registry,
		requestTotal:     requestTotal,
		requestDuration:  requestDuration,
		requestInFlight:  requestInFlight,
		chatAnswersTotal: chatAnswersTotal,
		chatDuration:     chatDuration,
		chatFusedResults: chatFusedResults,
		subQueryNoAnswer: subQueryNoAnswer,
		uploadsTotal:     uploadsTotal,
	}
}

func (m *APIMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *APIMetrics) Middleware(service string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		path := normalizePath(r.URL.Path)
		recorder := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		next.ServeHTTP(recorder, r)

		m.requestTotal.WithLabelValues(
			service,
			r.Method,
			path,
			strconv.Itoa(recorder.statusCode),
		).Inc()
		m.requestDuration.WithLabelValues(service, r.Method, path).Observe(time.Since(start).Seconds())
	})
}

// normalizePath collapses per-session paths so the label set stays bounded.
func normalizePath(path string) string {
	if !strings.HasPrefix(path, "/v1/sessions/") {
		return path
	}
	if strings.HasSuffix(path, "/chat") {
		return "/v1/sessions/{session_id}/chat"
	}
	return "/v1/sessions/{session_id}"
}

func (m *APIMetrics) RecordChatAnswer(service, outcome string, fusedResults int, duration time.Duration) {
	if outcome == "" {
		outcome = "unknown"
	}
	m.chatAnswersTotal.WithLabelValues(service, outcome).Inc()
	m.chatDuration.WithLabelValues(service).Observe(duration.Seconds())
	m.chatFusedResults.WithLabelValues(service).Observe(float64(fusedResults))
}

func (m *APIMetrics) RecordSubQueryNoAnswer(service string, count int) {
	if count <= 0 {
		return
	}
	m.subQueryNoAnswer.WithLabelValues(service).Add(float64(count))
}

func (m *APIMetrics) RecordUpload(service, extension string) {
	if extension == "" {
		extension = "unknown"
	}
	m.uploadsTotal.WithLabelValues(service, extension).Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusRecorder) Flush() {
	flusher, ok := w.ResponseWriter.(http.Flusher)
	if ok {
		flusher.Flush()
	}
}

func (w *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not implement http.Hijacker")
	}
	return hijacker.Hijack()
}

func (w *statusRecorder) Push(target string, opts *http.PushOptions) error {
	pusher, ok := w.ResponseWriter.(http.Pusher)
	if !ok {
		return http.ErrNotSupported
	}
	return pusher.Push(target, opts)
}
