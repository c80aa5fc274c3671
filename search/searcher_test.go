package search

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/docsearch/ai"
	"github.com/poiesic/docsearch/ai/mock"
	"github.com/poiesic/docsearch/core"
	"github.com/poiesic/docsearch/storage/badger"
)

const testDim = 4

type searcherFixture struct {
	stores   *badger.MemoryStores
	provider ai.ModelProvider
	embedder *mock.MockEmbedder
	searcher *Searcher
}

func newSearcherFixture(t *testing.T) *searcherFixture {
	t.Helper()

	stores, err := badger.NewMemoryStores(testDim)
	require.NoError(t, err)
	t.Cleanup(func() { stores.Close() })

	embedder := &mock.MockEmbedder{Dim: testDim}
	provider := mock.NewMockProviderWithServices(embedder, mock.NewMockTokenizer(), mock.NewMockRelationExtractor())

	searcher, err := NewSearcher(stores.Documents, stores.Chunks, stores.Triples, stores.Vectors, provider)
	require.NoError(t, err)

	return &searcherFixture{
		stores:   stores,
		provider: provider,
		embedder: embedder,
		searcher: searcher,
	}
}

// seedDocument stores a document with one parent chunk per page text, plus a
// vector for each, and moves it to the given status.
func (f *searcherFixture) seedDocument(t *testing.T, name string, status core.DocumentStatus, pageTexts ...string) core.DocumentID {
	t.Helper()
	ctx := context.Background()

	doc, err := f.stores.Documents.AddDocument(ctx, &core.Document{
		Id:   core.NewDocumentID(),
		Name: name,
	})
	require.NoError(t, err)

	for i, text := range pageTexts {
		page := i + 1
		chunk := &core.Chunk{
			Id:         core.ChunkID(doc.Id, page, core.ChunkTypeParent, 0),
			DocumentId: doc.Id,
			PageNumber: page,
			ChunkIndex: 0,
			Type:       core.ChunkTypeParent,
			Text:       text,
			CharLength: len(text),
		}
		_, err = f.stores.Chunks.AddChunks(ctx, chunk)
		require.NoError(t, err)

		vector, err := f.embedder.EmbedText(ctx, text)
		require.NoError(t, err)
		require.NoError(t, f.stores.Vectors.Upsert(ctx, &core.VectorPoint{
			ChunkId:    chunk.Id,
			DocumentId: doc.Id,
			PageNumber: page,
			ChunkIndex: 0,
			Text:       text,
			Vector:     vector,
		}))
	}

	require.NoError(t, f.stores.Documents.SetStatus(ctx, doc.Id, status, ""))
	return doc.Id
}

func TestNewSearcherRequiresDependencies(t *testing.T) {
	stores, err := badger.NewMemoryStores(testDim)
	require.NoError(t, err)
	defer stores.Close()
	provider := mock.NewMockProvider()

	_, err = NewSearcher(nil, stores.Chunks, stores.Triples, stores.Vectors, provider)
	assert.ErrorIs(t, err, ErrDocumentRepositoryRequired)

	_, err = NewSearcher(stores.Documents, nil, stores.Triples, stores.Vectors, provider)
	assert.ErrorIs(t, err, ErrChunkRepositoryRequired)

	_, err = NewSearcher(stores.Documents, stores.Chunks, nil, stores.Vectors, provider)
	assert.ErrorIs(t, err, ErrTripleRepositoryRequired)

	_, err = NewSearcher(stores.Documents, stores.Chunks, stores.Triples, nil, provider)
	assert.ErrorIs(t, err, ErrVectorIndexRequired)

	_, err = NewSearcher(stores.Documents, stores.Chunks, stores.Triples, stores.Vectors, nil)
	assert.ErrorIs(t, err, ErrModelProviderRequired)
}

func TestSearchEndToEnd(t *testing.T) {
	f := newSearcherFixture(t)
	ctx := context.Background()

	docID := f.seedDocument(t, "manual.pdf", core.DocumentStatusCompleted,
		"the turbine blade inspection procedure requires calibrated tooling",
		"chapter two discusses lubricant viscosity at operating temperature",
	)

	results, err := f.searcher.Search(ctx, "turbine blade inspection", 10)
	require.NoError(t, err)
	require.NotEmpty(t, results)

	top := results[0]
	assert.Equal(t, docID, top.DocumentId)
	assert.Equal(t, 1, top.PageNumber)
	assert.InDelta(t, 1.0, float64(top.FusionScore), 1e-6)
	assert.Contains(t, top.Snippet, "turbine blade inspection")
	assert.True(t, top.HasChannel(core.ChannelLexical))
}

func TestSearchExcludesUnfinishedDocuments(t *testing.T) {
	f := newSearcherFixture(t)
	ctx := context.Background()

	completed := f.seedDocument(t, "done.pdf", core.DocumentStatusCompleted,
		"valve timing diagrams for the intake manifold")
	f.seedDocument(t, "inflight.pdf", core.DocumentStatusProcessing,
		"valve timing diagrams for the intake manifold")
	f.seedDocument(t, "broken.pdf", core.DocumentStatusFailed,
		"valve timing diagrams for the intake manifold")

	results, err := f.searcher.Search(ctx, "valve timing diagrams", 10)
	require.NoError(t, err)
	require.NotEmpty(t, results)

	for _, r := range results {
		assert.Equal(t, completed, r.DocumentId)
	}
}

func TestSearchNoSearchableDocuments(t *testing.T) {
	f := newSearcherFixture(t)

	f.seedDocument(t, "pending.pdf", core.DocumentStatusPending, "some content")

	results, err := f.searcher.Search(context.Background(), "some content", 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchDegradedSemanticChannel(t *testing.T) {
	f := newSearcherFixture(t)
	ctx := context.Background()

	f.seedDocument(t, "manual.pdf", core.DocumentStatusCompleted,
		"hydraulic accumulator pressure limits and test intervals")

	f.embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return nil, errors.New("embedding service unavailable")
	}

	results, err := f.searcher.Search(ctx, "hydraulic accumulator pressure", 10)
	require.NoError(t, err)
	require.NotEmpty(t, results)

	assert.True(t, results[0].HasChannel(core.ChannelLexical))
	assert.False(t, results[0].HasChannel(core.ChannelSemantic))
}

func TestSearchDefaultMaxHits(t *testing.T) {
	f := newSearcherFixture(t)
	ctx := context.Background()

	texts := make([]string, 15)
	for i := range texts {
		texts[i] = "gasket torque specification table entry"
	}
	f.seedDocument(t, "tables.pdf", core.DocumentStatusCompleted, texts...)

	results, err := f.searcher.Search(ctx, "gasket torque specification", 0)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(results), DefaultMaxHits)
	assert.NotEmpty(t, results)
}

type recordingMonitor struct {
	started      bool
	filtered     []core.DocumentID
	embedErr     error
	channelCalls map[core.Channel]int
	finished     bool
	resultCount  int
}

func newRecordingMonitor() *recordingMonitor {
	return &recordingMonitor{channelCalls: make(map[core.Channel]int)}
}

func (m *recordingMonitor) Start(_ string)                         { m.started = true }
func (m *recordingMonitor) AfterDocumentFilter(ids []core.DocumentID) { m.filtered = ids }
func (m *recordingMonitor) AfterQueryEmbedding(_ []float32, err error) { m.embedErr = err }
func (m *recordingMonitor) AfterChannel(ch core.Channel, _ []*core.ChannelHit, _ error) {
	m.channelCalls[ch]++
}
func (m *recordingMonitor) Finish(results []*core.FusedResult) {
	m.finished = true
	m.resultCount = len(results)
}

func TestSearchWithMonitorCallbacks(t *testing.T) {
	f := newSearcherFixture(t)
	ctx := context.Background()

	f.seedDocument(t, "manual.pdf", core.DocumentStatusCompleted,
		"bearing clearance tolerances for the main shaft")

	monitor := newRecordingMonitor()
	results, err := f.searcher.SearchWithMonitor(ctx, "bearing clearance", 5, monitor)
	require.NoError(t, err)

	assert.True(t, monitor.started)
	assert.Len(t, monitor.filtered, 1)
	assert.NoError(t, monitor.embedErr)
	assert.Equal(t, 1, monitor.channelCalls[core.ChannelSemantic])
	assert.Equal(t, 1, monitor.channelCalls[core.ChannelLexical])
	assert.Equal(t, 1, monitor.channelCalls[core.ChannelTriple])
	assert.True(t, monitor.finished)
	assert.Equal(t, len(results), monitor.resultCount)
}
