package rules

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractRelations_VerbAnchored(t *testing.T) {
	e := NewExtractor()

	relations, err := e.ExtractRelations(context.Background(), "The index supports phrase queries.", 5)
	require.NoError(t, err)
	require.Len(t, relations, 1)

	assert.Equal(t, "The index", relations[0].Subject)
	assert.Equal(t, "supports", relations[0].Predicate)
	assert.Equal(t, "phrase queries", relations[0].Object)
}

func TestExtractRelations_MultipleSentences(t *testing.T) {
	e := NewExtractor()

	text := "The parser handles nested lists. The cache stores recent results. Short one."
	relations, err := e.ExtractRelations(context.Background(), text, 5)
	require.NoError(t, err)
	require.Len(t, relations, 2)

	assert.Equal(t, "The parser", relations[0].Subject)
	assert.Equal(t, "The cache", relations[1].Subject)
}

func TestExtractRelations_LimitRespected(t *testing.T) {
	e := NewExtractor()

	text := "A is B. C is D. E is F. G is H."
	relations, err := e.ExtractRelations(context.Background(), text, 2)
	require.NoError(t, err)
	assert.Len(t, relations, 2)
}

func TestExtractRelations_NaiveFallback(t *testing.T) {
	e := NewExtractor()

	// No verb the primary pass recognizes.
	relations, err := e.ExtractRelations(context.Background(), "foo bar baz qux", 5)
	require.NoError(t, err)
	require.Len(t, relations, 1)

	assert.Equal(t, "foo", relations[0].Subject)
	assert.Equal(t, "bar", relations[0].Predicate)
	assert.Equal(t, "baz qux", relations[0].Object)
}

func TestExtractRelations_NeverErrors(t *testing.T) {
	e := NewExtractor()

	cases := []string{
		"",
		"   \n\t  ",
		"one",
		"one two",
		"...!!!???",
		"\x00\x01 garbage � bytes",
	}
	for _, text := range cases {
		relations, err := e.ExtractRelations(context.Background(), text, 5)
		assert.NoError(t, err, "input %q", text)
		assert.NotNil(t, relations, "input %q", text)
	}
}

func TestExtractRelations_ZeroLimit(t *testing.T) {
	e := NewExtractor()

	relations, err := e.ExtractRelations(context.Background(), "The index supports queries.", 0)
	require.NoError(t, err)
	assert.Empty(t, relations)
}

func TestSplitSentences(t *testing.T) {
	sentences := splitSentences("First sentence. Second one! Is it third? Trailing")
	assert.Equal(t, []string{"First sentence", "Second one", "Is it third", "Trailing"}, sentences)
}

func TestIsVerb_Inflections(t *testing.T) {
	assert.True(t, isVerb("is"))
	assert.True(t, isVerb("Implements"))
	assert.True(t, isVerb("accelerated"))
	assert.True(t, isVerb("indexing"))
	assert.False(t, isVerb("red"))
	assert.False(t, isVerb("ring"))
	assert.False(t, isVerb("table"))
}
