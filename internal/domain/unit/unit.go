// Package unit resolves the unit (chapter) number a document belongs to.
package unit

import (
	"regexp"
	"strconv"
	"strings"
)

// Title patterns tried in order: "unit 3", "u 3", "chapter 3".
var numberPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bunit\s*(\d+)\b`),
	regexp.MustCompile(`(?i)\bu\s*(\d+)\b`),
	regexp.MustCompile(`(?i)\bchapter\s*(\d+)\b`),
}

// Roman numerals I..X as standalone title tokens ("Calculus II").
var romanPattern = regexp.MustCompile(`(?i)\b(ix|iv|v?i{1,3}|x|v)\b`)

var romanValues = map[string]int{
	"i": 1, "ii": 2, "iii": 3, "iv": 4, "v": 5,
	"vi": 6, "vii": 7, "viii": 8, "ix": 9, "x": 10,
}

// Resolve returns the unit number for a document: the explicit value when
// set, otherwise whatever can be extracted from the title. 0 means
// unresolved (the "Other" bucket).
func Resolve(explicit int, title string) int {
	if explicit > 0 {
		return explicit
	}
	return FromTitle(title)
}

// FromTitle extracts a unit number from a title, or 0.
func FromTitle(title string) int {
	for _, p := range numberPatterns {
		if m := p.FindStringSubmatch(title); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
				return n
			}
		}
	}
	if m := romanPattern.FindString(title); m != "" {
		return romanValues[strings.ToLower(m)]
	}
	return 0
}

// Label renders a unit number as a display bucket name.
func Label(n int) string {
	if n <= 0 {
		return "Other"
	}
	return "Unit " + strconv.Itoa(n)
}
