package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/docsearch/core"
)

func makeHit(chunkID core.ID, docID core.DocumentID, page, index int, text string, score float32, rank int) *core.ChannelHit {
	return &core.ChannelHit{
		ChunkId:    chunkID,
		DocumentId: docID,
		PageNumber: page,
		ChunkIndex: index,
		Text:       text,
		Score:      score,
		Rank:       rank,
	}
}

func TestFuseAllChannelsEmpty(t *testing.T) {
	results := Fuse(nil, nil, nil, 10, "anything")
	assert.Empty(t, results)
}

func TestFuseTopResultScoresOne(t *testing.T) {
	doc := core.NewDocumentID()
	semantic := []*core.ChannelHit{
		makeHit(1, doc, 1, 0, "neural retrieval systems", 0.9, 1),
		makeHit(2, doc, 2, 0, "storage engines", 0.7, 2),
		makeHit(3, doc, 3, 0, "unrelated material", 0.4, 3),
	}

	results := Fuse(semantic, nil, nil, 10, "vector retrieval")
	require.NotEmpty(t, results)

	assert.InDelta(t, 1.0, float64(results[0].FusionScore), 1e-6)
	for _, r := range results {
		assert.GreaterOrEqual(t, r.FusionScore, float32(0))
		assert.LessOrEqual(t, r.FusionScore, float32(1))
	}
	for i := 1; i < len(results); i++ {
		assert.LessOrEqual(t, results[i].FusionScore, results[i-1].FusionScore)
	}
}

func TestFuseMultiChannelBeatsSingleChannel(t *testing.T) {
	doc := core.NewDocumentID()

	// Chunk 1 appears in all three channels at rank 2; chunk 2 leads the
	// semantic channel but appears nowhere else. Neither text contains the
	// query phrase, and lexical evidence stays weak, so no boost applies.
	semantic := []*core.ChannelHit{
		makeHit(2, doc, 2, 0, "alpha beta gamma", 0.95, 1),
		makeHit(1, doc, 1, 0, "delta epsilon zeta", 0.90, 2),
	}
	lexical := []*core.ChannelHit{
		makeHit(1, doc, 1, 0, "delta epsilon zeta", 0.1, 1),
	}
	triple := []*core.ChannelHit{
		makeHit(1, doc, 1, 0, "delta epsilon zeta", 0.2, 1),
	}

	results := Fuse(semantic, lexical, triple, 10, "completely different words")
	require.Len(t, results, 2)

	assert.Equal(t, core.ID(1), results[0].ChunkId)
	assert.True(t, results[0].HasChannel(core.ChannelSemantic))
	assert.True(t, results[0].HasChannel(core.ChannelLexical))
	assert.True(t, results[0].HasChannel(core.ChannelTriple))
	assert.False(t, results[1].HasChannel(core.ChannelLexical))
}

func TestFuseLiteralMatchDominates(t *testing.T) {
	doc := core.NewDocumentID()

	// Chunk 9 sits at the bottom of the semantic channel but contains the
	// query verbatim. The literal boost must carry it to the top.
	semantic := []*core.ChannelHit{
		makeHit(1, doc, 1, 0, "thematically adjacent prose", 0.92, 1),
		makeHit(2, doc, 2, 0, "more adjacent prose", 0.91, 2),
		makeHit(9, doc, 9, 0, "the report covers thermal expansion coefficients in detail", 0.40, 3),
	}

	results := Fuse(semantic, nil, nil, 10, "thermal expansion coefficients")
	require.NotEmpty(t, results)

	assert.Equal(t, core.ID(9), results[0].ChunkId)
	assert.InDelta(t, 1.0, float64(results[0].FusionScore), 1e-6)
}

func TestFuseDominantLexicalScoreDominates(t *testing.T) {
	doc := core.NewDocumentID()

	semantic := []*core.ChannelHit{
		makeHit(1, doc, 1, 0, "close but not exact", 0.95, 1),
	}
	lexical := []*core.ChannelHit{
		makeHit(2, doc, 2, 0, "irrelevant stored text", exactPhraseScore, 1),
	}

	results := Fuse(semantic, lexical, nil, 10, "no phrase here either")
	require.Len(t, results, 2)
	assert.Equal(t, core.ID(2), results[0].ChunkId)
}

func TestFusePageDeduplication(t *testing.T) {
	doc := core.NewDocumentID()

	// Two different chunks from the same page; only one result may survive,
	// carrying the merged channel attribution.
	semantic := []*core.ChannelHit{
		makeHit(1, doc, 5, 0, "first chunk on the page", 0.9, 1),
	}
	lexical := []*core.ChannelHit{
		makeHit(2, doc, 5, 1, "second chunk on the page", 0.3, 1),
	}

	results := Fuse(semantic, lexical, nil, 10, "unmatched query")
	require.Len(t, results, 1)

	assert.Equal(t, doc, results[0].DocumentId)
	assert.Equal(t, 5, results[0].PageNumber)
	assert.True(t, results[0].HasChannel(core.ChannelSemantic))
	assert.True(t, results[0].HasChannel(core.ChannelLexical))
	assert.Equal(t, float32(0.9), results[0].SemanticScore)
	assert.Equal(t, float32(0.3), results[0].LexicalScore)
}

func TestFuseUniquePagesInOutput(t *testing.T) {
	docA := core.DocumentID("aaaaaaaa-0000-0000-0000-000000000000")
	docB := core.DocumentID("bbbbbbbb-0000-0000-0000-000000000000")

	semantic := []*core.ChannelHit{
		makeHit(1, docA, 1, 0, "a one", 0.9, 1),
		makeHit(2, docA, 1, 1, "a two", 0.8, 2),
		makeHit(3, docB, 1, 0, "b one", 0.7, 3),
		makeHit(4, docA, 2, 0, "a three", 0.6, 4),
	}

	results := Fuse(semantic, nil, nil, 10, "query")
	require.Len(t, results, 3)

	type pageKey struct {
		doc  core.DocumentID
		page int
	}
	seen := make(map[pageKey]bool)
	for _, r := range results {
		key := pageKey{doc: r.DocumentId, page: r.PageNumber}
		assert.False(t, seen[key], "duplicate page in results: %v", key)
		seen[key] = true
	}
}

func TestFuseLimit(t *testing.T) {
	doc := core.NewDocumentID()
	var semantic []*core.ChannelHit
	for i := 1; i <= 8; i++ {
		semantic = append(semantic, makeHit(core.ID(i), doc, i, 0, "text", float32(1)/float32(i), i))
	}

	results := Fuse(semantic, nil, nil, 3, "query")
	assert.Len(t, results, 3)
}

func TestFuseDeterminism(t *testing.T) {
	doc := core.NewDocumentID()
	semantic := []*core.ChannelHit{
		makeHit(3, doc, 3, 0, "gamma text", 0.8, 1),
		makeHit(1, doc, 1, 0, "alpha text", 0.8, 2),
		makeHit(2, doc, 2, 0, "beta text", 0.8, 3),
	}
	lexical := []*core.ChannelHit{
		makeHit(2, doc, 2, 0, "beta text", 0.4, 1),
	}

	first := Fuse(semantic, lexical, nil, 10, "alpha beta gamma")
	second := Fuse(semantic, lexical, nil, 10, "alpha beta gamma")

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].ChunkId, second[i].ChunkId)
		assert.Equal(t, first[i].FusionScore, second[i].FusionScore)
	}
}

func TestFuseSnippetsAndHighlightsPopulated(t *testing.T) {
	doc := core.NewDocumentID()
	semantic := []*core.ChannelHit{
		makeHit(1, doc, 1, 0, "the pipeline processes embeddings in ordered batches", 0.9, 1),
	}

	results := Fuse(semantic, nil, nil, 10, "ordered batches")
	require.Len(t, results, 1)

	assert.Contains(t, results[0].Snippet, "ordered batches")
	require.NotEmpty(t, results[0].Highlights)
	assert.Equal(t, "ordered batches", results[0].Highlights[0].Text)
}
