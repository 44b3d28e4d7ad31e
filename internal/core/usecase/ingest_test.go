package usecase

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/pkozlov/docbuddy/internal/core/domain"
)

type ingestRepoFake struct {
	created *domain.Session
	err     error
}

func (f *ingestRepoFake) Create(_ context.Context, session *domain.Session) error {
	if f.err != nil {
		return f.err
	}
	copySession := *session
	f.created = &copySession
	return nil
}

func (f *ingestRepoFake) GetByID(context.Context, string) (*domain.Session, error) {
	return nil, errors.New("not implemented")
}
func (f *ingestRepoFake) UpdateStatus(context.Context, string, domain.SessionStatus, string) error {
	return errors.New("not implemented")
}

type ingestStorageFake struct {
	savedKey  string
	savedBody string
	err       error
}

func (f *ingestStorageFake) Save(_ context.Context, key string, data io.Reader) error {
	if f.err != nil {
		return f.err
	}
	raw, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	f.savedKey = key
	f.savedBody = string(raw)
	return nil
}

func (f *ingestStorageFake) Open(context.Context, string) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader("")), nil
}

type ingestQueueFake struct {
	sessionID string
	err       error
}

func (f *ingestQueueFake) PublishSessionUploaded(_ context.Context, sessionID string) error {
	if f.err != nil {
		return f.err
	}
	f.sessionID = sessionID
	return nil
}

func (f *ingestQueueFake) SubscribeSessionUploaded(context.Context, func(context.Context, string) error) error {
	return errors.New("not implemented")
}

func TestIngestUploadSuccess(t *testing.T) {
	repo := &ingestRepoFake{}
	storage := &ingestStorageFake{}
	queue := &ingestQueueFake{}
	uc := NewIngestSessionUseCase(repo, storage, queue)

	session, err := uc.Upload(context.Background(), "annual report 1.pdf", "application/pdf", "llama3.1:8b", bytes.NewBufferString("hello"))
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if session.ID == "" {
		t.Fatalf("expected session id")
	}
	if session.Status != domain.SessionUploaded {
		t.Fatalf("expected status uploaded, got %s", session.Status)
	}
	if session.Model != "llama3.1:8b" {
		t.Fatalf("expected model pinned to session, got %q", session.Model)
	}
	if repo.created == nil {
		t.Fatalf("expected repo.Create call")
	}
	if queue.sessionID != session.ID {
		t.Fatalf("expected queued session id %s, got %s", session.ID, queue.sessionID)
	}
	if !strings.Contains(storage.savedKey, "_annual_report_1.pdf") {
		t.Fatalf("expected sanitized key suffix, got %s", storage.savedKey)
	}
	if storage.savedBody != "hello" {
		t.Fatalf("expected saved body hello, got %s", storage.savedBody)
	}
}

func TestIngestUploadAcceptsOfficeFormats(t *testing.T) {
	for _, filename := range []string{"deck.pptx", "minutes.docx", "ledger.xlsx"} {
		uc := NewIngestSessionUseCase(&ingestRepoFake{}, &ingestStorageFake{}, &ingestQueueFake{})
		if _, err := uc.Upload(context.Background(), filename, "", "", bytes.NewBufferString("x")); err != nil {
			t.Fatalf("Upload(%s) error = %v", filename, err)
		}
	}
}

func TestIngestUploadRejectsUnsupportedExtension(t *testing.T) {
	uc := NewIngestSessionUseCase(&ingestRepoFake{}, &ingestStorageFake{}, &ingestQueueFake{})

	_, err := uc.Upload(context.Background(), "archive.zip", "application/zip", "", bytes.NewBufferString("x"))
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestIngestUploadQueueError(t *testing.T) {
	uc := NewIngestSessionUseCase(&ingestRepoFake{}, &ingestStorageFake{}, &ingestQueueFake{err: errors.New("queue down")})

	_, err := uc.Upload(context.Background(), "report.txt", "text/plain", "", bytes.NewBufferString("hello"))
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "publish indexing event") {
		t.Fatalf("expected publish error, got %v", err)
	}
}
