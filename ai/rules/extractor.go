package rules

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"github.com/poiesic/docsearch/ai"
)

// Extractor implements ai.RelationExtractor with heuristics only: no
// dependency parser or external model is required, so extraction is always
// available and never fails ingestion.
//
// The primary pass looks for the main verb of each sentence and emits
// (words before verb, verb, words after verb). Whenever that pass yields
// zero relations, a naive positional pass runs instead: first word as
// subject, second as predicate, remainder as object, for every sentence
// with at least three words.
type Extractor struct {
	logger *slog.Logger
}

var _ ai.RelationExtractor = (*Extractor)(nil)

// NewExtractor creates a rule-based relation extractor.
//
// Returns ai.RelationExtractor interface to enforce abstraction.
func NewExtractor() ai.RelationExtractor {
	return &Extractor{
		logger: slog.Default().With("component", "rules-extractor"),
	}
}

var sentenceEnd = regexp.MustCompile(`[.!?]+\s+`)

// Verbs that anchor the primary extraction pass. Auxiliaries and copulas
// first, then verbs common in technical prose.
var verbLexicon = map[string]bool{
	"is": true, "are": true, "was": true, "were": true, "be": true,
	"been": true, "being": true, "has": true, "have": true, "had": true,
	"does": true, "do": true, "did": true, "can": true, "could": true,
	"will": true, "would": true, "shall": true, "should": true,
	"may": true, "might": true, "must": true,
	"uses": true, "use": true, "used": true, "provides": true,
	"provide": true, "supports": true, "support": true, "contains": true,
	"contain": true, "includes": true, "include": true, "requires": true,
	"require": true, "enables": true, "enable": true, "allows": true,
	"allow": true, "implements": true, "implement": true, "returns": true,
	"return": true, "creates": true, "create": true, "defines": true,
	"define": true, "describes": true, "describe": true, "handles": true,
	"handle": true, "stores": true, "store": true, "runs": true,
	"run": true, "produces": true, "produce": true, "performs": true,
	"perform": true, "reduces": true, "reduce": true, "improves": true,
	"improve": true, "combines": true, "combine": true,
}

// ExtractRelations analyzes text and returns up to limit relations.
func (e *Extractor) ExtractRelations(ctx context.Context, text string, limit int) ([]ai.Relation, error) {
	relations := []ai.Relation{}
	if limit <= 0 || strings.TrimSpace(text) == "" {
		return relations, nil
	}

	sentences := splitSentences(text)

	// Primary pass: verb-anchored extraction.
	for _, sentence := range sentences {
		if len(relations) >= limit {
			break
		}
		if rel, ok := extractVerbAnchored(sentence); ok {
			relations = append(relations, rel)
		}
	}

	// Fallback pass: naive positional split. Runs whenever the primary
	// pass found nothing, so extraction never comes back empty for
	// sentences with at least three words.
	if len(relations) == 0 {
		for _, sentence := range sentences {
			if len(relations) >= limit {
				break
			}
			if rel, ok := extractNaive(sentence); ok {
				relations = append(relations, rel)
			}
		}
	}

	e.logger.Debug("extracted relations", "count", len(relations), "sentences", len(sentences))
	return relations, nil
}

// splitSentences splits text on sentence-ending punctuation.
func splitSentences(text string) []string {
	parts := sentenceEnd.Split(text, -1)
	sentences := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			sentences = append(sentences, part)
		}
	}
	return sentences
}

// extractVerbAnchored finds the first verb that has words on both sides and
// splits the sentence around it.
func extractVerbAnchored(sentence string) (ai.Relation, bool) {
	words := sentenceWords(sentence)
	if len(words) < 3 {
		return ai.Relation{}, false
	}

	for i := 1; i < len(words)-1; i++ {
		if !isVerb(words[i]) {
			continue
		}
		return ai.Relation{
			Subject:   strings.Join(words[:i], " "),
			Predicate: words[i],
			Object:    strings.Join(words[i+1:], " "),
		}, true
	}
	return ai.Relation{}, false
}

// extractNaive splits positionally: first word, second word, remainder.
func extractNaive(sentence string) (ai.Relation, bool) {
	words := sentenceWords(sentence)
	if len(words) < 3 {
		return ai.Relation{}, false
	}
	return ai.Relation{
		Subject:   words[0],
		Predicate: words[1],
		Object:    strings.Join(words[2:], " "),
	}, true
}

// sentenceWords splits a sentence into words with surrounding punctuation trimmed.
func sentenceWords(sentence string) []string {
	fields := strings.Fields(sentence)
	words := make([]string, 0, len(fields))
	for _, field := range fields {
		word := strings.Trim(field, ".,!?;:'\"()[]{}")
		if word != "" {
			words = append(words, word)
		}
	}
	return words
}

func isVerb(word string) bool {
	lower := strings.ToLower(word)
	if verbLexicon[lower] {
		return true
	}
	// Regular inflections of verbs outside the lexicon.
	if len(lower) > 4 && (strings.HasSuffix(lower, "ed") || strings.HasSuffix(lower, "ing")) {
		return true
	}
	return false
}
