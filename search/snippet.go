package search

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/poiesic/docsearch/core"
)

const (
	// snippetWindow is how many bytes of context to keep on each side of
	// the first query match.
	snippetWindow = 150
	// snippetFallbackLength bounds the snippet when nothing in the query
	// matches the text.
	snippetFallbackLength = 300

	ellipsis = "..."
)

// extractSnippet produces a short excerpt of the result centered on the
// first occurrence of the query phrase, or failing that, the first matching
// query word longer than three characters. Without any match, it falls back
// to the opening of the text.
func extractSnippet(result *core.FusedResult, query string) string {
	text := displayText(result)
	if text == "" {
		return ""
	}

	lower := strings.ToLower(text)
	phrase := normalizeQuery(query)

	idx, matchLen := -1, 0
	if phrase != "" {
		if i := strings.Index(lower, phrase); i >= 0 {
			idx, matchLen = i, len(phrase)
		}
	}
	if idx < 0 {
		for _, word := range strings.Fields(phrase) {
			if len(word) <= 3 {
				continue
			}
			if i := strings.Index(lower, word); i >= 0 {
				idx, matchLen = i, len(word)
				break
			}
		}
	}

	if idx < 0 {
		if len(text) <= snippetFallbackLength {
			return text
		}
		return strings.TrimSpace(text[:runeBoundary(text, snippetFallbackLength)]) + ellipsis
	}

	start := idx - snippetWindow
	if start < 0 {
		start = 0
	}
	end := idx + matchLen + snippetWindow
	if end > len(text) {
		end = len(text)
	}
	start = runeBoundary(text, start)
	end = runeBoundary(text, end)

	snippet := strings.TrimSpace(text[start:end])
	if start > 0 {
		snippet = ellipsis + snippet
	}
	if end < len(text) {
		snippet = snippet + ellipsis
	}
	return snippet
}

// highlightMatches finds every occurrence of the query inside text: the full
// phrase first, then individual query words longer than three characters.
// Spans never overlap and come back ordered by start offset.
func highlightMatches(text, query string) []core.HighlightSpan {
	if text == "" {
		return nil
	}
	phrase := normalizeQuery(query)
	if phrase == "" {
		return nil
	}

	lower := strings.ToLower(text)
	var spans []core.HighlightSpan

	spans = appendOccurrences(spans, text, lower, phrase)
	for _, word := range strings.Fields(phrase) {
		if len(word) > 3 {
			spans = appendOccurrences(spans, text, lower, word)
		}
	}

	slices.SortFunc(spans, func(a, b core.HighlightSpan) int {
		return a.Start - b.Start
	})
	return spans
}

// appendOccurrences adds every non-overlapping occurrence of needle to spans.
func appendOccurrences(spans []core.HighlightSpan, text, lower, needle string) []core.HighlightSpan {
	pos := 0
	for {
		idx := strings.Index(lower[pos:], needle)
		if idx == -1 {
			return spans
		}
		start := pos + idx
		end := start + len(needle)
		if !overlapsAny(spans, start, end) {
			spans = append(spans, core.HighlightSpan{
				Text:  text[start:end],
				Start: start,
				End:   end,
			})
		}
		pos = end
	}
}

func overlapsAny(spans []core.HighlightSpan, start, end int) bool {
	for _, span := range spans {
		if start < span.End && end > span.Start {
			return true
		}
	}
	return false
}

// runeBoundary moves a byte offset backwards to the nearest rune start so
// slicing never splits a multi-byte character.
func runeBoundary(text string, offset int) int {
	for offset > 0 && offset < len(text) && !utf8.RuneStart(text[offset]) {
		offset--
	}
	return offset
}
