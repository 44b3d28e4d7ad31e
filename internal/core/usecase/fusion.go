package usecase

import (
	"sort"

	"github.com/pkozlov/docbuddy/internal/core/domain"
)

const defaultRRFK = 60

// FusionStrategy turns a flat list of per-query answers into a ranked list.
// Implementations must emit one ScoredResult per distinct query text, sorted
// by score descending with stable order for ties.
type FusionStrategy interface {
	Fuse(results []domain.RetrievalResult) []domain.ScoredResult
}

// NewFusionStrategy selects a strategy by configured name. Anything other
// than "rrf" falls back to occurrence counting.
func NewFusionStrategy(name string, rrfK int) FusionStrategy {
	if name == "rrf" {
		return ReciprocalRankFusion{K: rrfK}
	}
	return OccurrenceFusion{}
}

// OccurrenceFusion scores each distinct query by how many times it appears in
// the input. Under the current call pattern every query is issued once, so
// every score is 1 and ranking reduces to presence; the strategy still counts
// so that repeated passes rank correctly if the orchestration ever issues
// duplicates. The last-seen answer wins within a group.
type OccurrenceFusion struct{}

func (OccurrenceFusion) Fuse(results []domain.RetrievalResult) []domain.ScoredResult {
	return fuseBy(results, func(int) float64 { return 1 })
}

// ReciprocalRankFusion scores each group with sum(1/(k+rank+1)) over the
// ranks its query occupies in the input, the classic RRF formula.
type ReciprocalRankFusion struct {
	K int
}

func (f ReciprocalRankFusion) Fuse(results []domain.RetrievalResult) []domain.ScoredResult {
	k := f.K
	if k <= 0 {
		k = defaultRRFK
	}
	return fuseBy(results, func(rank int) float64 { return 1.0 / float64(k+rank+1) })
}

// fuseBy groups results by query text in first-appearance order, accumulates
// the per-rank increment, and sorts descending by score. sort.SliceStable
// keeps equal-score groups in input order; no further tie-break is defined.
func fuseBy(results []domain.RetrievalResult, increment func(rank int) float64) []domain.ScoredResult {
	index := make(map[string]int, len(results))
	out := make([]domain.ScoredResult, 0, len(results))

	for rank, result := range results {
		i, seen := index[result.Query]
		if !seen {
			index[result.Query] = len(out)
			out = append(out, domain.ScoredResult{Query: result.Query})
			i = len(out) - 1
		}
		out[i].Answer = result.Answer
		out[i].Score += increment(rank)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}
