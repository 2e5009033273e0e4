package domain

import "time"

// Document is a study document as served by the external document service.
// Immutable for the duration of a search request.
type Document struct {
	ID          string
	Title       string
	Body        string // empty means no body text; body scoring is skipped
	SubjectID   string
	SubjectName string
	Unit        int // 0 = not set explicitly; may be resolved from the title
	CreatedAt   time.Time
}

// Candidate accumulates match signals for one document over a single search
// request. Created by whichever retrieval stage sees the document first,
// updated (never replaced) by the other, then mutated by the ranking passes.
type Candidate struct {
	Document Document

	KeywordMatch  bool
	SemanticMatch bool
	Similarity    float64 // [0,1], 0 when there is no semantic hit
	MatchCount    int
	Unit          int // resolved unit number, 0 = unresolved
	Snippet       string
	Score         float64
}

// Hybrid reports whether both retrieval stages matched this candidate.
func (c *Candidate) Hybrid() bool {
	return c.KeywordMatch && c.SemanticMatch
}

// Chunk is a vector-index hit: a fragment of a document with its distance
// from the query embedding.
type Chunk struct {
	DocumentID string
	Text       string
	Distance   float64
}

// Filters narrow a search to a subject and/or a single document.
type Filters struct {
	SubjectID  string
	DocumentID string
}

// IsZero reports whether no filter is set.
func (f Filters) IsZero() bool {
	return f.SubjectID == "" && f.DocumentID == ""
}

// SearchResponse is the payload returned to the caller.
type SearchResponse struct {
	Results        []*Candidate            `json:"results"`
	GroupedResults map[string][]*Candidate `json:"grouped_results"`
	TotalResults   int                     `json:"total_results"`
	Page           int                     `json:"page"`
	PerPage        int                     `json:"per_page"`
	NextPage       *int                    `json:"next_page"`
	DidYouMean     *string                 `json:"did_you_mean"`
}

// SearchEvent is an analytics record for one executed search. Persisted on a
// best-effort basis, only for users who opted into analytics sharing.
type SearchEvent struct {
	ID          string    `json:"id"`
	Query       string    `json:"query"`
	ResultCount int       `json:"result_count"`
	UserID      string    `json:"user_id,omitempty"`
	ClickedID   string    `json:"clicked_id,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}
