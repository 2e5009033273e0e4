package search

import (
	"regexp"
	"sort"
	"strings"
)

const snippetWindow = 200

// buildSnippet extracts a ~200-character window around the first occurrence
// of the query or, failing that, of any term of 4+ characters. Falls back to
// the head of the body when nothing matches.
func buildSnippet(body, normalizedQuery string, terms []string) string {
	if body == "" {
		return ""
	}

	lower := strings.ToLower(body)
	pos := strings.Index(lower, normalizedQuery)
	if pos < 0 {
		for _, term := range terms {
			if len(term) < 4 {
				continue
			}
			if p := strings.Index(lower, term); p >= 0 {
				pos = p
				break
			}
		}
	}
	if pos < 0 {
		pos = 0
	}

	// Center the window on the match.
	start := pos - snippetWindow/4
	if start < 0 {
		start = 0
	}
	end := start + snippetWindow
	if end > len(body) {
		end = len(body)
	}

	snippet := body[start:end]
	if start > 0 {
		snippet = "..." + snippet
	}
	if end < len(body) {
		snippet += "..."
	}
	return snippet
}

// highlight wraps whole-word occurrences of each term in ** markers.
// Terms are processed longest-first so a shorter term never splits a longer
// match ("sort" inside "sorting" already wrapped).
func highlight(snippet string, terms []string) string {
	if snippet == "" || len(terms) == 0 {
		return snippet
	}

	seen := make(map[string]struct{}, len(terms))
	ordered := make([]string, 0, len(terms))
	for _, term := range terms {
		if term == "" {
			continue
		}
		if _, dup := seen[term]; dup {
			continue
		}
		seen[term] = struct{}{}
		ordered = append(ordered, term)
	}
	// Longest-first so "sorting" is wrapped before "sort" can touch it.
	sort.Slice(ordered, func(i, j int) bool { return len(ordered[i]) > len(ordered[j]) })

	for _, term := range ordered {
		re, err := regexp.Compile(`(?i)\b(` + regexp.QuoteMeta(term) + `)\b`)
		if err != nil {
			continue
		}
		snippet = re.ReplaceAllString(snippet, "**$1**")
	}
	return snippet
}

// countOccurrences counts non-overlapping occurrences of needle in haystack,
// both already lowercased by the caller.
func countOccurrences(haystack, needle string) int {
	if needle == "" {
		return 0
	}
	return strings.Count(haystack, needle)
}
