package usecase

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pkozlov/docbuddy/internal/core/domain"
	"github.com/pkozlov/docbuddy/internal/core/ports"
)

// acceptedExtensions is the set of document types the extractors can handle.
var acceptedExtensions = map[string]struct{}{
	".pdf":  {},
	".docx": {},
	".pptx": {},
	".xlsx": {},
	".html": {},
	".htm":  {},
	".txt":  {},
	".csv":  {},
	".md":   {},
}

type IngestSessionUseCase struct {
	sessions ports.SessionRepository
	storage  ports.ObjectStorage
	queue    ports.MessageQueue
}

func NewIngestSessionUseCase(
	sessions ports.SessionRepository,
	storage ports.ObjectStorage,
	queue ports.MessageQueue,
) *IngestSessionUseCase {
	return &IngestSessionUseCase{
		sessions: sessions,
		storage:  storage,
		queue:    queue,
	}
}

// Upload stores the document, creates the session and hands index building to
// the worker. The chosen model is pinned to the session for its lifetime.
func (uc *IngestSessionUseCase) Upload(
	ctx context.Context,
	filename, mimeType, model string,
	body io.Reader,
) (*domain.Session, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := acceptedExtensions[ext]; !ok {
		return nil, domain.WrapError(domain.ErrInvalidInput, "upload",
			fmt.Errorf("unsupported file type %q", ext))
	}

	id := uuid.NewString()
	storageKey := fmt.Sprintf("%s_%s", id, sanitizeFilename(filename))
	now := time.Now().UTC()

	if err := uc.storage.Save(ctx, storageKey, body); err != nil {
		return nil, fmt.Errorf("save to object storage: %w", err)
	}

	session := &domain.Session{
		ID:          id,
		Filename:    filename,
		MimeType:    mimeType,
		StoragePath: storageKey,
		Model:       strings.TrimSpace(model),
		Status:      domain.SessionUploaded,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := uc.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("create session metadata: %w", err)
	}

	if err := uc.queue.PublishSessionUploaded(ctx, session.ID); err != nil {
		return nil, fmt.Errorf("publish indexing event: %w", err)
	}

	return session, nil
}

func sanitizeFilename(name string) string {
	base := filepath.Base(name)
	base = strings.ReplaceAll(base, " ", "_")
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= 'A' && r <= 'Z':
			return r
		case r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if base == "" {
		return "document.bin"
	}
	return base
}
