package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/pkozlov/docbuddy/internal/core/domain"
	"github.com/pkozlov/docbuddy/internal/core/ports"
)

// IndexSessionUseCase builds the retrieval index for an uploaded session:
// extract text, split into chunks, embed, and store in the vector index.
// Runs once per session on the worker.
type IndexSessionUseCase struct {
	sessions  ports.SessionRepository
	extractor ports.TextExtractor
	chunker   ports.Chunker
	embedder  ports.Embedder
	vectorDB  ports.VectorStore
}

func NewIndexSessionUseCase(
	sessions ports.SessionRepository,
	extractor ports.TextExtractor,
	chunker ports.Chunker,
	embedder ports.Embedder,
	vectorDB ports.VectorStore,
) *IndexSessionUseCase {
	return &IndexSessionUseCase{
		sessions:  sessions,
		extractor: extractor,
		chunker:   chunker,
		embedder:  embedder,
		vectorDB:  vectorDB,
	}
}

func (uc *IndexSessionUseCase) IndexByID(ctx context.Context, sessionID string) error {
	if err := uc.sessions.UpdateStatus(ctx, sessionID, domain.SessionIndexing, ""); err != nil {
		return fmt.Errorf("set status=indexing: %w", err)
	}

	if err := uc.buildIndex(ctx, sessionID); err != nil {
		if failErr := uc.sessions.UpdateStatus(ctx, sessionID, domain.SessionFailed, err.Error()); failErr != nil {
			return fmt.Errorf("%w; mark failed status: %v", err, failErr)
		}
		return err
	}

	if err := uc.sessions.UpdateStatus(ctx, sessionID, domain.SessionReady, ""); err != nil {
		return fmt.Errorf("set status=ready: %w", err)
	}
	return nil
}

func (uc *IndexSessionUseCase) buildIndex(ctx context.Context, sessionID string) error {
	session, err := uc.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("fetch session by id: %w", err)
	}

	text, err := uc.extractor.Extract(ctx, session)
	if err != nil {
		return fmt.Errorf("extract text: %w", err)
	}
	if text == "" {
		return domain.WrapError(domain.ErrInvalidInput, "extract text", errors.New("empty extracted text"))
	}

	chunks := uc.chunker.Split(text)
	if len(chunks) == 0 {
		return domain.WrapError(domain.ErrInvalidInput, "chunk document", errors.New("chunking produced zero chunks"))
	}

	vectors, err := uc.embedder.Embed(ctx, chunks)
	if err != nil {
		return fmt.Errorf("embed chunks: %w", err)
	}
	if len(vectors) != len(chunks) {
		return domain.WrapError(
			domain.ErrInvalidInput,
			"embed chunks",
			fmt.Errorf("vectors/chunks mismatch: %d/%d", len(vectors), len(chunks)),
		)
	}

	if err := uc.vectorDB.IndexChunks(ctx, session, chunks, vectors); err != nil {
		return fmt.Errorf("index chunks in vector db: %w", err)
	}
	return nil
}
