package search

import (
	"regexp"
	"strings"
)

// Stop words excluded from token matching and overlap scoring.
var stopWords = map[string]bool{
	"the": true, "is": true, "are": true, "was": true, "were": true,
	"and": true, "or": true, "of": true, "to": true, "in": true,
	"for": true, "with": true, "using": true, "through": true,
	"based": true, "by": true, "a": true, "an": true,
}

var (
	tokenPattern = regexp.MustCompile(`[a-zA-Z]+`)

	// A word broken across a line break survives in stored chunk text;
	// phrase matching repairs it on the fly so "maxi- mize" matches
	// a query for "maximize".
	hyphenBreakPattern = regexp.MustCompile(`(\w)-\s+(\w)`)
)

// tokenize splits text into lowercase alphabetic tokens, dropping stop
// words and tokens of two characters or fewer.
func tokenize(text string) []string {
	raw := tokenPattern.FindAllString(strings.ToLower(text), -1)
	tokens := make([]string, 0, len(raw))
	for _, token := range raw {
		if len(token) > 2 && !stopWords[token] {
			tokens = append(tokens, token)
		}
	}
	return tokens
}

// normalizeQuery lowercases and collapses whitespace for phrase matching.
func normalizeQuery(query string) string {
	return strings.Join(strings.Fields(strings.ToLower(query)), " ")
}

// deHyphenate repairs hyphenated line breaks in a haystack before
// substring matching.
func deHyphenate(text string) string {
	return hyphenBreakPattern.ReplaceAllString(text, "${1}${2}")
}

// containsPhrase reports whether the normalized query appears verbatim in
// text. The haystack is de-hyphenated and its whitespace collapsed first, so
// a phrase spanning a preserved paragraph break still matches.
func containsPhrase(text, normalizedQuery string) bool {
	if normalizedQuery == "" {
		return false
	}
	haystack := strings.Join(strings.Fields(strings.ToLower(deHyphenate(text))), " ")
	return strings.Contains(haystack, normalizedQuery)
}
