package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/pkozlov/docbuddy/internal/core/domain"
)

type statusCall struct {
	status domain.SessionStatus
	errMsg string
}

type indexRepoFake struct {
	session     *domain.Session
	getErr      error
	statusCalls []statusCall
}

func (f *indexRepoFake) Create(context.Context, *domain.Session) error { return nil }

func (f *indexRepoFake) GetByID(context.Context, string) (*domain.Session, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	copySession := *f.session
	return &copySession, nil
}

func (f *indexRepoFake) UpdateStatus(_ context.Context, _ string, status domain.SessionStatus, errMessage string) error {
	f.statusCalls = append(f.statusCalls, statusCall{status: status, errMsg: errMessage})
	return nil
}

type extractorFake struct {
	text string
	err  error
}

func (f *extractorFake) Extract(context.Context, *domain.Session) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

type chunkerFake struct {
	chunks []string
}

func (f *chunkerFake) Split(string) []string { return f.chunks }

type embedderFake struct {
	vectors [][]float32
	err     error
}

func (f *embedderFake) Embed(context.Context, []string) ([][]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.vectors, nil
}

func (f *embedderFake) EmbedQuery(context.Context, string) ([]float32, error) { return nil, nil }

type vectorStoreFake struct {
	indexed int
	err     error
}

func (f *vectorStoreFake) IndexChunks(_ context.Context, _ *domain.Session, chunks []string, _ [][]float32) error {
	f.indexed = len(chunks)
	return f.err
}

func (f *vectorStoreFake) Search(context.Context, string, []float32, int) ([]domain.RetrievedChunk, error) {
	return nil, nil
}

func TestIndexByIDSuccess(t *testing.T) {
	repo := &indexRepoFake{session: &domain.Session{ID: "s-1", Filename: "report.txt"}}
	vector := &vectorStoreFake{}
	uc := NewIndexSessionUseCase(
		repo,
		&extractorFake{text: "text"},
		&chunkerFake{chunks: []string{"a", "b"}},
		&embedderFake{vectors: [][]float32{{1}, {2}}},
		vector,
	)

	if err := uc.IndexByID(context.Background(), "s-1"); err != nil {
		t.Fatalf("IndexByID() error = %v", err)
	}
	if len(repo.statusCalls) != 2 {
		t.Fatalf("expected 2 status calls, got %d", len(repo.statusCalls))
	}
	if repo.statusCalls[0].status != domain.SessionIndexing || repo.statusCalls[1].status != domain.SessionReady {
		t.Fatalf("unexpected status sequence: %+v", repo.statusCalls)
	}
	if vector.indexed != 2 {
		t.Fatalf("expected 2 chunks indexed, got %d", vector.indexed)
	}
}

func TestIndexByIDMarksFailedOnExtractError(t *testing.T) {
	repo := &indexRepoFake{session: &domain.Session{ID: "s-1"}}
	uc := NewIndexSessionUseCase(
		repo,
		&extractorFake{err: errors.New("extract fail")},
		&chunkerFake{chunks: []string{"a"}},
		&embedderFake{vectors: [][]float32{{1}}},
		&vectorStoreFake{},
	)

	if err := uc.IndexByID(context.Background(), "s-1"); err == nil {
		t.Fatalf("expected error")
	}
	if len(repo.statusCalls) != 2 || repo.statusCalls[1].status != domain.SessionFailed {
		t.Fatalf("expected final failed status, got %+v", repo.statusCalls)
	}
	if repo.statusCalls[1].errMsg == "" {
		t.Fatalf("expected failure message recorded")
	}
}

func TestIndexByIDMarksFailedOnVectorMismatch(t *testing.T) {
	repo := &indexRepoFake{session: &domain.Session{ID: "s-1"}}
	uc := NewIndexSessionUseCase(
		repo,
		&extractorFake{text: "text"},
		&chunkerFake{chunks: []string{"a", "b"}},
		&embedderFake{vectors: [][]float32{{1}}},
		&vectorStoreFake{},
	)

	err := uc.IndexByID(context.Background(), "s-1")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input kind, got %v", err)
	}
}
