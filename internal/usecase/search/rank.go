package search

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/lumenote/searchd/internal/domain"
	"github.com/lumenote/searchd/internal/domain/query"
)

// unitQueryPattern finds an explicit unit reference in the normalized query
// ("unit 3", "chapter 12 revision", "lesson3").
var unitQueryPattern = regexp.MustCompile(`\b(?:unit|chapter|module|lesson)s?\s*(\d+)\b`)

// rank applies the boost passes to every candidate and returns them sorted
// by final score, descending. Pure: deterministic given candidates, query,
// and now. Equal scores order by ascending document id, so the result never
// depends on which retrieval stage inserted a candidate first.
func rank(candidates map[string]*domain.Candidate, info query.Info, now time.Time) []*domain.Candidate {
	explicitUnit := explicitUnitNumber(info.Normalized)

	ranked := make([]*domain.Candidate, 0, len(candidates))
	for _, c := range candidates {
		applyBoosts(c, info, explicitUnit, now)
		ranked = append(ranked, c)
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Document.ID < ranked[j].Document.ID
	})
	return ranked
}

// applyBoosts mutates the candidate's score through the additive and
// multiplicative passes.
func applyBoosts(c *domain.Candidate, info query.Info, explicitUnit int, now time.Time) {
	raw := strings.ToLower(strings.TrimSpace(info.Original))
	title := strings.ToLower(c.Document.Title)
	subject := strings.ToLower(c.Document.SubjectName)

	// Title equality, raw beating normalized.
	switch title {
	case raw:
		c.Score += exactTitleRawBonus
	case info.Normalized:
		c.Score += exactTitleNormalizedBonus
	}

	if strings.HasPrefix(title, raw) {
		c.Score += titlePrefixBonus
	} else {
		for _, term := range info.Terms {
			if strings.HasPrefix(title, term) {
				c.Score += titlePrefixTermBonus
				break
			}
		}
	}

	if subject != "" {
		if subject == raw {
			c.Score += subjectEqualBonus
		} else if strings.Contains(subject, raw) {
			c.Score += subjectContainsBonus
		}
	}

	if c.MatchCount > 0 {
		c.Score += matchCountWeight * math.Log10(float64(c.MatchCount)+1)
	}

	if c.Unit > 0 {
		if explicitUnit == c.Unit {
			c.Score += explicitUnitBonus
		}
		if strings.Contains(title, "unit "+strconv.Itoa(c.Unit)) {
			c.Score += titleUnitBonus
		}
	}

	// Freshness tiers, not a continuous decay.
	if !c.Document.CreatedAt.IsZero() {
		switch age := now.Sub(c.Document.CreatedAt); {
		case age < 7*24*time.Hour:
			c.Score += freshWeekBonus
		case age < 30*24*time.Hour:
			c.Score += freshMonthBonus
		case age < 90*24*time.Hour:
			c.Score += freshQuarterBonus
		}
	}

	// Quality multiplier: thin bodies are usually stubs, long ones usually
	// full lecture notes.
	switch bodyLen := len(c.Document.Body); {
	case bodyLen < tinyBodyLen:
		c.Score *= tinyBodyPenalty
	case bodyLen < shortBodyLen:
		c.Score *= shortBodyPenalty
	case bodyLen > longBodyLen:
		c.Score *= longBodyBonus
	}

	if c.Hybrid() {
		c.Score *= hybridMultiplier
	}
}

// explicitUnitNumber extracts the unit number the query names, or 0.
func explicitUnitNumber(normalized string) int {
	m := unitQueryPattern.FindStringSubmatch(normalized)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}
