package openai

import (
	"log/slog"
	"strings"

	"github.com/pkoukk/tiktoken-go"
	"github.com/poiesic/docsearch/ai"
)

// Tokenizer implements ai.Tokenizer using the tiktoken encoding configured
// for the embedding model. When the encoding cannot be loaded it falls back
// to a word-count approximation (1 token per 0.75 words). The approximation
// overshoots for prose and undershoots for code, so chunk token limits are
// only approximate in fallback mode.
type Tokenizer struct {
	encoding *tiktoken.Tiktoken
	logger   *slog.Logger
}

// newTokenizer is an internal constructor that returns the concrete type.
func newTokenizer(config *ai.Config) *Tokenizer {
	logger := slog.Default().With("component", "tokenizer")

	encoding, err := tiktoken.GetEncoding(config.TokenizerEncoding)
	if err != nil {
		logger.Warn("could not load tokenizer encoding, falling back to word count",
			"encoding", config.TokenizerEncoding, "err", err)
		encoding = nil
	}

	return &Tokenizer{
		encoding: encoding,
		logger:   logger,
	}
}

// NewTokenizer creates a token counter for the configured encoding.
//
// Returns ai.Tokenizer interface to enforce abstraction.
func NewTokenizer(config *ai.Config) ai.Tokenizer {
	return newTokenizer(config)
}

// CountTokens returns the number of model tokens in text.
func (t *Tokenizer) CountTokens(text string) int {
	if t.encoding == nil {
		return ApproxTokenCount(text)
	}
	return len(t.encoding.Encode(text, nil, nil))
}

// ApproxTokenCount approximates the token count as word_count / 0.75.
// Used when no model tokenizer is available.
func ApproxTokenCount(text string) int {
	return int(float64(len(strings.Fields(text))) / 0.75)
}
