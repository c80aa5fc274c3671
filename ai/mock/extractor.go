package mock

import (
	"context"
	"strings"

	"github.com/poiesic/docsearch/ai"
)

// MockRelationExtractor is a test double for ai.RelationExtractor.
// It allows custom behavior injection via function fields.
type MockRelationExtractor struct {
	// ExtractRelationsFunc is called by ExtractRelations if set.
	// If nil, uses default positional extraction.
	ExtractRelationsFunc func(ctx context.Context, text string, limit int) ([]ai.Relation, error)

	callCount int
}

// NewMockRelationExtractor creates a mock extractor with default behavior.
// Note: Returns concrete type to allow test assertions via GetMockExtractor().
func NewMockRelationExtractor() *MockRelationExtractor {
	return &MockRelationExtractor{}
}

// ExtractRelations extracts simple mock relations from text.
// Default behavior: one relation per sentence, built positionally from the
// first word, second word, and remainder.
func (m *MockRelationExtractor) ExtractRelations(ctx context.Context, text string, limit int) ([]ai.Relation, error) {
	m.callCount++

	if m.ExtractRelationsFunc != nil {
		return m.ExtractRelationsFunc(ctx, text, limit)
	}

	relations := []ai.Relation{}
	for _, sentence := range strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	}) {
		if len(relations) >= limit {
			break
		}
		words := strings.Fields(sentence)
		if len(words) < 3 {
			continue
		}
		relations = append(relations, ai.Relation{
			Subject:   words[0],
			Predicate: words[1],
			Object:    strings.Join(words[2:], " "),
		})
	}
	return relations, nil
}

// CallCount returns the number of times ExtractRelations was called.
func (m *MockRelationExtractor) CallCount() int {
	return m.callCount
}

// Reset clears the call count and injected behavior.
func (m *MockRelationExtractor) Reset() {
	m.callCount = 0
	m.ExtractRelationsFunc = nil
}
