package textproc

import (
	"regexp"
	"strings"
)

var paragraphSplitPattern = regexp.MustCompile(`\n\s*\n+`)

// SplitParagraphs splits text on blank lines. Empty paragraphs are dropped.
func SplitParagraphs(text string) []string {
	parts := paragraphSplitPattern.Split(text, -1)
	paragraphs := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			paragraphs = append(paragraphs, part)
		}
	}
	return paragraphs
}

// SplitSentences splits text into sentences, preserving semantic boundaries.
//
// Whitespace is normalized first, then the text is split after sentence-ending
// punctuation followed by an uppercase letter. Fragments of five characters or
// fewer are dropped. If nothing survives filtering the whole normalized text
// is returned as a single sentence, so callers never lose input.
func SplitSentences(text string) []string {
	normalized := strings.TrimSpace(whitespaceRunPattern.ReplaceAllString(text, " "))
	if normalized == "" {
		return nil
	}

	runes := []rune(normalized)
	sentences := []string{}
	start := 0
	for i := 0; i+2 < len(runes); i++ {
		if !isSentenceEnd(runes[i]) {
			continue
		}
		if runes[i+1] != ' ' || !isUpper(runes[i+2]) {
			continue
		}
		sentences = append(sentences, string(runes[start:i+1]))
		start = i + 2
	}
	sentences = append(sentences, string(runes[start:]))

	result := make([]string, 0, len(sentences))
	for _, sentence := range sentences {
		sentence = strings.TrimSpace(sentence)
		if len(sentence) > 5 {
			result = append(result, sentence)
		}
	}
	if len(result) == 0 {
		return []string{normalized}
	}
	return result
}

func isSentenceEnd(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

func isUpper(r rune) bool {
	return r >= 'A' && r <= 'Z'
}
