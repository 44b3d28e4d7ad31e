// Package chunking splits extracted text into overlapping windows for
// embedding.
package chunking

import (
	"strings"
	"unicode"
)

type Splitter struct {
	ChunkSize int
	Overlap   int
}

func NewSplitter(chunkSize, overlap int) *Splitter {
	if chunkSize <= 0 {
		chunkSize = 1000
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= chunkSize {
		overlap = chunkSize / 4
	}
	return &Splitter{
		ChunkSize: chunkSize,
		Overlap:   overlap,
	}
}

// Split cuts text into rune windows of ChunkSize with Overlap runes of
// carry-over between consecutive chunks. Where possible a window ends
// at a whitespace boundary so words are not cut in half.
func (s *Splitter) Split(text string) []string {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	step := s.ChunkSize - s.Overlap
	if step <= 0 {
		step = s.ChunkSize
	}

	out := make([]string, 0, len(runes)/step+1)
	for start := 0; start < len(runes); {
		end := start + s.ChunkSize
		if end >= len(runes) {
			end = len(runes)
		} else {
			end = backUpToBoundary(runes, start, end)
		}

		chunk := strings.TrimSpace(string(runes[start:end]))
		if chunk != "" {
			out = append(out, chunk)
		}
		if end == len(runes) {
			break
		}

		next := end - s.Overlap
		if next <= start {
			next = start + step
		}
		start = next
	}
	return out
}

// backUpToBoundary moves end left to the nearest whitespace, but never
// more than a quarter of the window to keep chunk sizes predictable.
func backUpToBoundary(runes []rune, start, end int) int {
	minEnd := end - (end-start)/4
	for i := end; i > minEnd; i-- {
		if unicode.IsSpace(runes[i-1]) {
			return i
		}
	}
	return end
}
