package search

import (
	"github.com/lumenote/searchd/internal/domain"
	"github.com/lumenote/searchd/internal/domain/unit"
)

// diversify caps over-representation in the ranked list: at most maxPerGroup
// results per (subject, unit) pair and 2*maxPerGroup per subject, with a
// soft backfill so a page never comes up short just because one unit
// dominated the ranking. If the cap would starve the response (fewer than
// min(10, half the candidates)), diversification is abandoned and the full
// ranked list returned.
func diversify(ranked []*domain.Candidate, maxPerGroup int) []*domain.Candidate {
	if maxPerGroup <= 0 || len(ranked) == 0 {
		return ranked
	}

	type groupKey struct {
		subject string
		unit    int
	}
	perGroup := make(map[groupKey]int)
	perSubject := make(map[string]int)

	total := len(ranked)
	out := make([]*domain.Candidate, 0, total)

	for _, c := range ranked {
		gk := groupKey{subject: c.Document.SubjectID, unit: c.Unit}

		underCaps := perGroup[gk] < maxPerGroup && perSubject[c.Document.SubjectID] < 2*maxPerGroup
		// Backfill: once the caps bite, keep admitting while the output is
		// still well below the candidate count.
		backfill := float64(len(out)) < 0.8*float64(total)

		if underCaps || backfill {
			perGroup[gk]++
			perSubject[c.Document.SubjectID]++
			out = append(out, c)
		}
	}

	// Safety valve: never let diversification starve the response.
	floor := total / 2
	if floor > 10 {
		floor = 10
	}
	if len(out) < floor {
		return ranked
	}
	return out
}

// paginate slices the diversified list into the requested page and groups
// the page's results by unit label.
func paginate(diversified []*domain.Candidate, page, perPage int) (
	results []*domain.Candidate,
	grouped map[string][]*domain.Candidate,
	total int,
	nextPage *int,
) {
	total = len(diversified)

	start := (page - 1) * perPage
	if start > total {
		start = total
	}
	end := start + perPage
	if end > total {
		end = total
	}

	results = diversified[start:end]

	grouped = make(map[string][]*domain.Candidate)
	for _, c := range results {
		label := unit.Label(c.Unit)
		grouped[label] = append(grouped[label], c)
	}

	if end < total {
		np := page + 1
		nextPage = &np
	}
	return results, grouped, total, nextPage
}
