package mock

import "strings"

// MockTokenizer is a test double for ai.Tokenizer.
// It allows custom behavior injection via function fields.
type MockTokenizer struct {
	// CountTokensFunc is called by CountTokens if set.
	// If nil, counts whitespace-separated words.
	CountTokensFunc func(text string) int

	callCount int
}

// NewMockTokenizer creates a mock tokenizer that counts words as tokens.
// Note: Returns concrete type to allow test assertions via GetMockTokenizer().
func NewMockTokenizer() *MockTokenizer {
	return &MockTokenizer{}
}

// CountTokens returns the number of tokens in text.
// Default behavior: one token per whitespace-separated word, which makes
// chunking tests easy to reason about.
func (m *MockTokenizer) CountTokens(text string) int {
	m.callCount++

	if m.CountTokensFunc != nil {
		return m.CountTokensFunc(text)
	}

	return len(strings.Fields(text))
}

// CallCount returns the number of times CountTokens was called.
func (m *MockTokenizer) CallCount() int {
	return m.callCount
}

// Reset clears the call count and injected behavior.
func (m *MockTokenizer) Reset() {
	m.callCount = 0
	m.CountTokensFunc = nil
}
