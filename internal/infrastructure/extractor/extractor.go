// Package extractor turns stored uploads into plain text for chunking.
// The format is chosen by file extension; every format func receives
// the whole file because the underlying parsers need io.ReaderAt.
package extractor

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pkozlov/docbuddy/internal/core/domain"
	"github.com/pkozlov/docbuddy/internal/core/ports"
)

type formatFunc func(data []byte) (string, error)

type Registry struct {
	storage ports.ObjectStorage
	formats map[string]formatFunc
}

func NewRegistry(storage ports.ObjectStorage) *Registry {
	return &Registry{
		storage: storage,
		formats: map[string]formatFunc{
			".pdf":  extractPDF,
			".docx": extractDOCX,
			".pptx": extractPPTX,
			".xlsx": extractXLSX,
			".html": extractHTML,
			".htm":  extractHTML,
			".txt":  extractPlaintext,
			".csv":  extractPlaintext,
			".md":   extractPlaintext,
		},
	}
}

// SupportedExtensions lists the extensions the registry can extract,
// in no particular order.
func (r *Registry) SupportedExtensions() []string {
	out := make([]string, 0, len(r.formats))
	for ext := range r.formats {
		out = append(out, ext)
	}
	return out
}

func (r *Registry) Extract(ctx context.Context, session *domain.Session) (string, error) {
	ext := strings.ToLower(filepath.Ext(session.Filename))
	format, ok := r.formats[ext]
	if !ok {
		return "", fmt.Errorf("unsupported file type: %s", session.Filename)
	}

	reader, err := r.storage.Open(ctx, session.StoragePath)
	if err != nil {
		return "", fmt.Errorf("open stored file: %w", err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("read stored file: %w", err)
	}

	text, err := format(data)
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", ext, err)
	}
	return strings.TrimSpace(text), nil
}

var multiNewlines = regexp.MustCompile(`\n{3,}`)

func collapseNewlines(text string) string {
	return multiNewlines.ReplaceAllString(text, "\n\n")
}
