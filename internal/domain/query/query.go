// Package query normalizes raw search input into the token sets the
// retrieval and ranking stages score against.
package query

import "strings"

// Info is the preprocessed form of a raw query string.
type Info struct {
	Original   string   // raw input as received
	Normalized string   // lowercased, abbreviation-expanded, whitespace-collapsed
	Terms      []string // stopword-filtered tokens; never empty unless the query is
	AllTerms   []string // unfiltered tokens, fallback when every token is a stopword
}

// IsEmpty reports whether the query carries no searchable text.
func (i Info) IsEmpty() bool {
	return i.Normalized == ""
}

// abbreviations are expanded on word boundaries before tokenization so that
// "os" matches documents titled "Operating System".
var abbreviations = map[string]string{
	"os":   "operating system",
	"ml":   "machine learning",
	"ai":   "artificial intelligence",
	"db":   "database",
	"cs":   "computer science",
	"oop":  "object oriented programming",
	"algo": "algorithm",
}

var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "is": {}, "are": {}, "was": {}, "were": {},
	"in": {}, "on": {}, "at": {}, "of": {}, "to": {}, "for": {}, "and": {},
	"or": {}, "with": {}, "about": {}, "what": {}, "which": {}, "how": {},
	"my": {}, "me": {}, "it": {}, "this": {}, "that": {}, "from": {}, "by": {},
}

// Preprocess turns a raw query into an Info. Deterministic, no I/O; an
// empty or whitespace-only input yields the zero Info.
func Preprocess(raw string) Info {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if normalized == "" {
		return Info{Original: raw}
	}

	fields := strings.Fields(normalized)
	expanded := make([]string, 0, len(fields))
	for _, w := range fields {
		if exp, ok := abbreviations[w]; ok {
			expanded = append(expanded, strings.Fields(exp)...)
			continue
		}
		expanded = append(expanded, w)
	}
	normalized = strings.Join(expanded, " ")

	allTerms := expanded
	terms := make([]string, 0, len(allTerms))
	for _, w := range allTerms {
		if len(w) <= 1 {
			continue
		}
		if _, stop := stopwords[w]; stop {
			continue
		}
		terms = append(terms, w)
	}
	// A query made entirely of stopwords must still be searchable.
	if len(terms) == 0 {
		terms = allTerms
	}

	return Info{
		Original:   raw,
		Normalized: normalized,
		Terms:      terms,
		AllTerms:   allTerms,
	}
}
