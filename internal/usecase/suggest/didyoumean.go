package suggest

import (
	"context"
	"fmt"
	"strings"
)

const (
	// Historical queries sampled per correction, unless overridden.
	defaultSampleLimit = 200

	exactSimilarity  = 1.0
	prefixSimilarity = 0.9
	// Edit-distance similarities at or below this are noise.
	fuzzyFloor = 0.7
	// The best candidate must clear this to be suggested.
	acceptThreshold = 0.75
)

// Speller suggests a correction for a query that found nothing, drawn from
// the queries other users actually ran.
type Speller struct {
	queries     QueryLog
	sampleLimit int
}

// NewSpeller creates a corrector over the query log.
func NewSpeller(queries QueryLog) *Speller {
	return &Speller{queries: queries, sampleLimit: defaultSampleLimit}
}

// WithSampleLimit overrides how many historical queries are sampled.
func (s *Speller) WithSampleLimit(n int) *Speller {
	if n > 0 {
		s.sampleLimit = n
	}
	return s
}

// Correction returns the closest historical query, or nil when nothing
// clears the acceptance threshold. Queries shorter than three characters
// are never corrected.
func (s *Speller) Correction(ctx context.Context, q string) (*string, error) {
	q = strings.ToLower(strings.TrimSpace(q))
	if len(q) < 3 {
		return nil, nil
	}

	history, err := s.queries.SampleRecent(ctx, s.sampleLimit)
	if err != nil {
		return nil, fmt.Errorf("sample query log: %w", err)
	}

	var (
		bestText  string
		bestScore float64
	)
	for _, past := range history {
		past = strings.ToLower(strings.TrimSpace(past))
		if past == "" || past == q {
			continue
		}
		if sim := similarity(q, past); sim > bestScore {
			bestScore = sim
			bestText = past
		}
	}

	if bestScore > acceptThreshold {
		return &bestText, nil
	}
	return nil, nil
}

// similarity scores how close a historical query is to the misspelled one.
func similarity(q, candidate string) float64 {
	if q == candidate {
		return exactSimilarity
	}
	if strings.HasPrefix(candidate, q) || strings.HasPrefix(q, candidate) {
		return prefixSimilarity
	}

	maxLen := len(q)
	if len(candidate) > maxLen {
		maxLen = len(candidate)
	}
	sim := 1.0 - float64(levenshtein(q, candidate))/float64(maxLen)
	if sim <= fuzzyFloor {
		return 0
	}
	return sim
}

// levenshtein computes the edit distance with the two-row dynamic program.
func levenshtein(a, b string) int {
	if a == b {
		return 0
	}
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			del := prev[j] + 1
			ins := cur[j-1] + 1
			sub := prev[j-1] + cost

			m := del
			if ins < m {
				m = ins
			}
			if sub < m {
				m = sub
			}
			cur[j] = m
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}
