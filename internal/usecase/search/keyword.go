package search

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/lumenote/searchd/internal/domain"
	"github.com/lumenote/searchd/internal/domain/query"
	"github.com/lumenote/searchd/internal/domain/unit"
)

// keywordSearch runs the lexical retrieval stage: substring search against
// the document store, then per-candidate lexical scoring.
func (s *Service) keywordSearch(
	ctx context.Context, info query.Info, filters domain.Filters,
) ([]*domain.Candidate, error) {
	raw := strings.TrimSpace(info.Original)

	docs, err := s.docs.FindBySubstring(ctx, raw, filters, s.keywordFetchLimit)
	if err != nil {
		return nil, fmt.Errorf("keyword retrieval: %w", err)
	}

	candidates := make([]*domain.Candidate, 0, len(docs))
	for _, doc := range docs {
		c := &domain.Candidate{
			Document:     doc,
			KeywordMatch: true,
			Unit:         unit.Resolve(doc.Unit, doc.Title),
		}
		c.Score, c.MatchCount = scoreLexical(doc, info)
		c.Snippet = highlight(buildSnippet(doc.Body, info.Normalized, info.Terms), info.Terms)
		candidates = append(candidates, c)
	}
	return candidates, nil
}

// scoreLexical computes the additive lexical signals for one document.
func scoreLexical(doc domain.Document, info query.Info) (float64, int) {
	raw := strings.ToLower(strings.TrimSpace(info.Original))
	title := strings.ToLower(doc.Title)
	body := strings.ToLower(doc.Body)
	subject := strings.ToLower(doc.SubjectName)

	score := baseScore
	matchCount := 0

	// Exact full-field equality is the strongest lexical signal.
	if title == raw || (body != "" && body == raw) {
		score += exactFieldBonus
	}

	// Contiguous phrase match of the normalized query.
	if strings.Contains(title, info.Normalized) {
		score += phraseTitleBonus
	}
	if body != "" && strings.Contains(body, info.Normalized) {
		score += phraseBodyBonus
	}

	if strings.Contains(title, raw) {
		score += titleSubstringBonus
	}

	for _, term := range info.Terms {
		if n := countOccurrences(title, term); n > 0 {
			score += titleTermBonus
			matchCount += n
		}
	}

	if subject != "" {
		if strings.Contains(subject, raw) {
			score += subjectMatchBonus
		}
		for _, term := range info.Terms {
			if strings.Contains(subject, term) {
				score += subjectTermBonus
			}
		}
	}

	if body != "" {
		// Term frequency, discounted by body length so long documents do
		// not win on volume alone.
		occurrences := 0
		for _, term := range info.Terms {
			occurrences += countOccurrences(body, term)
		}
		matchCount += occurrences
		lengthNorm := math.Sqrt(float64(len(body))/1000.0 + 1.0)
		tf := termFrequencyWeight * float64(occurrences) / lengthNorm
		score += math.Min(tf, termFrequencyCap)

		// Raw-query occurrences, log-damped.
		if n := countOccurrences(body, raw); n > 0 {
			score += occurrenceWeight * math.Log10(float64(n)+1)
		}
	}

	// Query coverage: how much of the query the document answers at all.
	covered := 0
	for _, term := range info.Terms {
		if strings.Contains(title, term) || strings.Contains(body, term) {
			covered++
		}
	}
	if len(info.Terms) > 0 {
		score += coverageWeight * float64(covered) / float64(len(info.Terms))
	}

	return score, matchCount
}
