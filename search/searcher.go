// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package search

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/poiesic/docsearch/ai"
	"github.com/poiesic/docsearch/core"
	"github.com/poiesic/docsearch/storage"
)

const (
	// DefaultMaxHits is the result count when the caller does not ask for
	// a specific number.
	DefaultMaxHits = 10

	// DefaultChannelTimeout bounds each retrieval channel independently.
	// A channel that overruns is dropped, not waited for.
	DefaultChannelTimeout = 3 * time.Second
)

// Searcher runs multi-channel retrieval over ingested documents and fuses
// the channels into one ranked result list.
//
// The three channels run concurrently and degrade independently: a failed or
// timed-out channel contributes nothing while the others still produce
// results. Only COMPLETED documents are searchable.
type Searcher struct {
	documents storage.DocumentRepository
	semantic  *SemanticChannel
	lexical   *LexicalChannel
	triple    *TripleChannel
	embedder  ai.Embedder

	channelTimeout time.Duration
	logger         *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithChannelTimeout sets the per-channel time budget.
// Default is DefaultChannelTimeout. Non-positive values restore the default.
func WithChannelTimeout(timeout time.Duration) Option {
	return func(s *Searcher) error {
		if timeout <= 0 {
			timeout = DefaultChannelTimeout
		}
		s.channelTimeout = timeout
		return nil
	}
}

// NewSearcher creates a new searcher.
func NewSearcher(
	documents storage.DocumentRepository,
	chunks storage.ChunkRepository,
	triples storage.TripleRepository,
	vectors storage.VectorIndex,
	provider ai.ModelProvider,
	opts ...Option,
) (*Searcher, error) {
	if documents == nil {
		return nil, ErrDocumentRepositoryRequired
	}
	if chunks == nil {
		return nil, ErrChunkRepositoryRequired
	}
	if triples == nil {
		return nil, ErrTripleRepositoryRequired
	}
	if vectors == nil {
		return nil, ErrVectorIndexRequired
	}
	if provider == nil {
		return nil, ErrModelProviderRequired
	}

	s := &Searcher{
		documents:      documents,
		semantic:       NewSemanticChannel(vectors),
		lexical:        NewLexicalChannel(chunks),
		triple:         NewTripleChannel(triples, chunks),
		embedder:       provider.Embedder(),
		channelTimeout: DefaultChannelTimeout,
		logger:         slog.Default().With("component", "searcher"),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Search runs the query across all channels and returns up to maxHits fused
// results, ranked by relevance. A non-positive maxHits means DefaultMaxHits.
func (s *Searcher) Search(ctx context.Context, query string, maxHits int) ([]*core.FusedResult, error) {
	return s.SearchWithMonitor(ctx, query, maxHits, nil)
}

// channelOutcome carries one channel's hits back from its goroutine.
type channelOutcome struct {
	channel core.Channel
	hits    []*core.ChannelHit
	err     error
}

// SearchWithMonitor runs Search with callbacks at each stage of the process.
func (s *Searcher) SearchWithMonitor(ctx context.Context, query string, maxHits int, monitor SearchMonitor) ([]*core.FusedResult, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	if maxHits <= 0 {
		maxHits = DefaultMaxHits
	}

	monitor.Start(query)

	allowed, err := s.searchableDocuments(ctx)
	if err != nil {
		s.logger.Error("error listing searchable documents", "err", err)
		return nil, err
	}
	monitor.AfterDocumentFilter(allowed)
	if len(allowed) == 0 {
		results := []*core.FusedResult{}
		monitor.Finish(results)
		return results, nil
	}

	// A failed embedding degrades the semantic channel rather than failing
	// the whole search; lexical and triple retrieval need no vector.
	queryVector, embedErr := s.embedder.EmbedText(ctx, query)
	monitor.AfterQueryEmbedding(queryVector, embedErr)
	if embedErr != nil {
		s.logger.Warn("query embedding failed, semantic channel disabled", "err", embedErr)
		queryVector = nil
	}

	outcomes := make(chan channelOutcome, 3)
	var wg sync.WaitGroup

	runChannel := func(channel core.Channel, fn func(context.Context) ([]*core.ChannelHit, error)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			channelCtx, cancel := context.WithTimeout(ctx, s.channelTimeout)
			defer cancel()
			hits, err := fn(channelCtx)
			outcomes <- channelOutcome{channel: channel, hits: hits, err: err}
		}()
	}

	if queryVector != nil {
		runChannel(core.ChannelSemantic, func(ctx context.Context) ([]*core.ChannelHit, error) {
			return s.semantic.Search(ctx, queryVector, allowed)
		})
	}
	runChannel(core.ChannelLexical, func(ctx context.Context) ([]*core.ChannelHit, error) {
		return s.lexical.Search(ctx, query, allowed)
	})
	runChannel(core.ChannelTriple, func(ctx context.Context) ([]*core.ChannelHit, error) {
		return s.triple.Search(ctx, query, allowed)
	})

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	var semanticHits, lexicalHits, tripleHits []*core.ChannelHit
	for outcome := range outcomes {
		monitor.AfterChannel(outcome.channel, outcome.hits, outcome.err)
		if outcome.err != nil {
			s.logger.Warn("search channel degraded",
				"channel", outcome.channel.String(), "err", outcome.err)
			continue
		}
		switch outcome.channel {
		case core.ChannelSemantic:
			semanticHits = outcome.hits
		case core.ChannelLexical:
			lexicalHits = outcome.hits
		case core.ChannelTriple:
			tripleHits = outcome.hits
		}
	}

	results := Fuse(semanticHits, lexicalHits, tripleHits, maxHits, query)
	if results == nil {
		results = []*core.FusedResult{}
	}
	monitor.Finish(results)
	return results, nil
}

// searchableDocuments returns the IDs of documents whose ingestion has
// completed. Documents still processing, pending, or failed are invisible
// to search.
func (s *Searcher) searchableDocuments(ctx context.Context) ([]core.DocumentID, error) {
	docs, err := s.documents.ListDocuments(ctx)
	if err != nil {
		return nil, err
	}
	allowed := make([]core.DocumentID, 0, len(docs))
	for _, doc := range docs {
		if doc.Status == core.DocumentStatusCompleted {
			allowed = append(allowed, doc.Id)
		}
	}
	return allowed, nil
}
