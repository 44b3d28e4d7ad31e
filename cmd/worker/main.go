package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkozlov/docbuddy/internal/bootstrap"
	"github.com/pkozlov/docbuddy/internal/config"
	"github.com/pkozlov/docbuddy/internal/observability/logging"
	"github.com/pkozlov/docbuddy/internal/observability/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", logging.Err(err))
		os.Exit(1)
	}
	slog.SetDefault(logging.NewJSONLogger("worker", cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		slog.Error("bootstrap", logging.Err(err))
		os.Exit(1)
	}
	defer app.Close()

	workerMetrics := metrics.NewWorkerMetrics("worker")
	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", workerMetrics.Handler())
	metricsServer := &http.Server{
		Addr:        ":" + cfg.WorkerMetricsPort,
		Handler:     metricsMux,
		ReadTimeout: 10 * time.Second,
	}
	go func() {
		slog.Info("worker metrics listening", "port", cfg.WorkerMetricsPort)
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("worker metrics server", logging.Err(err))
		}
	}()

	slog.Info("worker subscribed", "subject", cfg.NATSSubject)
	err = app.Queue.SubscribeSessionUploaded(ctx, func(handlerCtx context.Context, sessionID string) error {
		indexCtx, cancel := context.WithTimeout(handlerCtx, 5*time.Minute)
		defer cancel()

		workerMetrics.StartSession()
		if session, getErr := app.Sessions.GetByID(indexCtx, sessionID); getErr == nil {
			workerMetrics.ObserveQueueLag("worker", time.Since(session.CreatedAt))
		}

		start := time.Now()
		indexErr := app.IndexUC.IndexByID(indexCtx, sessionID)
		workerMetrics.FinishSession("worker", time.Since(start), indexErr)
		return indexErr
	})
	if err != nil {
		slog.Error("worker subscribe", logging.Err(err))
		os.Exit(1)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = metricsServer.Shutdown(shutdownCtx)
}
