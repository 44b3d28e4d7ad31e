package domain

// RetrievalResult is one answer produced for one sub-query. Immutable once
// created; the query text doubles as the grouping key during fusion.
type RetrievalResult struct {
	Query  string `json:"query"`
	Answer string `json:"answer"`
}

// ScoredResult is a RetrievalResult annotated with a fusion score. The score
// is non-negative; the occurrence strategy produces whole numbers while
// reciprocal-rank scoring produces fractions, so it is carried as float64.
type ScoredResult struct {
	Query  string  `json:"query"`
	Answer string  `json:"answer"`
	Score  float64 `json:"score"`
}

// RetrievedChunk is one passage returned by the session's vector index.
type RetrievedChunk struct {
	SessionID string  `json:"session_id"`
	Filename  string  `json:"filename"`
	Text      string  `json:"text"`
	Score     float64 `json:"score"`
}

// ChatResult is the outcome of one synthesis run: the composite answer, the
// ranked per-query answers that fed it, and notices for sub-queries that
// yielded nothing.
type ChatResult struct {
	Answer  string         `json:"answer"`
	Results []ScoredResult `json:"results,omitempty"`
	Notices []string       `json:"notices,omitempty"`
}
