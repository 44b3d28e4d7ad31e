// Package bootstrap wires configuration, infrastructure and use cases
// into runnable applications.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/pkozlov/docbuddy/internal/config"
	"github.com/pkozlov/docbuddy/internal/core/ports"
	"github.com/pkozlov/docbuddy/internal/core/usecase"
	"github.com/pkozlov/docbuddy/internal/infrastructure/chunking"
	"github.com/pkozlov/docbuddy/internal/infrastructure/extractor"
	"github.com/pkozlov/docbuddy/internal/infrastructure/llm/ollama"
	"github.com/pkozlov/docbuddy/internal/infrastructure/queue/nats"
	"github.com/pkozlov/docbuddy/internal/infrastructure/repository/postgres"
	"github.com/pkozlov/docbuddy/internal/infrastructure/resilience"
	"github.com/pkozlov/docbuddy/internal/infrastructure/storage/localfs"
	"github.com/pkozlov/docbuddy/internal/infrastructure/vector/qdrant"
)

type App struct {
	Config config.Config

	Queue    ports.MessageQueue
	Sessions ports.SessionRepository
	Models   ports.ModelLister

	IngestUC ports.SessionIngestor
	IndexUC  ports.SessionIndexer
	ChatUC   ports.ChatService

	closeFn func()
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	sessions := postgres.NewSessionRepository(db)
	if err := sessions.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	memory := postgres.NewConversationRepository(db)

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	// Model calls run for minutes while queue publishes finish in
	// milliseconds, so each backend gets its own retry and breaker
	// profile.
	llmExecutor := resilience.NewExecutor(resilience.LLMProfile())
	queueExecutor := resilience.NewExecutor(resilience.QueueProfile())

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: queueExecutor,
	})
	if err != nil {
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	ollamaClient := ollama.NewWithOptions(cfg.OllamaURL, cfg.OllamaGenModel, cfg.OllamaEmbedModel, ollama.Options{
		ResilienceExecutor: llmExecutor,
	})
	embedder := ollama.NewEmbedder(ollamaClient)
	generator := ollama.NewGenerator(ollamaClient)

	vectorDB := qdrant.New(cfg.QdrantURL, cfg.QdrantCollection)
	chunker := chunking.NewSplitter(cfg.ChunkSize, cfg.ChunkOverlap)
	textExtractor := extractor.NewRegistry(storage)

	ingestUC := usecase.NewIngestSessionUseCase(sessions, storage, queue)
	indexUC := usecase.NewIndexSessionUseCase(sessions, textExtractor, chunker, embedder, vectorDB)

	expander := usecase.NewQueryExpander(generator)
	answerer := usecase.NewRetrievalAnswerer(embedder, vectorDB, generator, memory, cfg.RetrievalTopK).
		WithHistoryTurns(cfg.HistoryTurns)
	fusion := usecase.NewFusionStrategy(cfg.FusionStrategy, cfg.FusionRRFK)
	chatUC := usecase.NewChatUseCase(
		sessions,
		memory,
		generator,
		expander,
		answerer,
		fusion,
		time.Duration(cfg.QueryTimeoutSeconds)*time.Second,
	)

	return &App{
		Config: cfg,

		Queue:    queue,
		Sessions: sessions,
		Models:   ollamaClient,

		IngestUC: ingestUC,
		IndexUC:  indexUC,
		ChatUC:   chatUC,

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
