package ingestion

import (
	"context"
	"log/slog"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/poiesic/docsearch/ai"
	"github.com/poiesic/docsearch/core"
	"github.com/poiesic/docsearch/storage"
	"github.com/poiesic/docsearch/textproc"
)

// Pipeline orchestrates the ingestion and processing of documents.
// It manages concurrent processing of chunking, relation extraction and
// embedding, one job per document.
type Pipeline struct {
	documents storage.DocumentRepository
	pool      *ants.Pool
	proc      *documentProcessor
	logger    *slog.Logger

	mu       sync.Mutex
	inFlight map[core.DocumentID]struct{}
	wg       sync.WaitGroup
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent processing.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		if p.pool != nil {
			p.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	documents storage.DocumentRepository,
	chunks storage.ChunkRepository,
	triples storage.TripleRepository,
	vectors storage.VectorIndex,
	provider ai.ModelProvider,
	opts ...Option,
) (*Pipeline, error) {
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

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		documents: documents,
		pool:      pool,
		inFlight:  make(map[core.DocumentID]struct{}),
		logger:    slog.Default().With("component", "ingestion-pipeline"),
	}

	// Apply options
	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	chunker, err := textproc.NewChunker(provider.Tokenizer())
	if err != nil {
		p.Release()
		return nil, err
	}

	p.proc = newDocumentProcessor(documents, chunks, triples, vectors,
		chunker, provider.Embedder(), provider.RelationExtractor(), p.logger)

	return p, nil
}

// IngestDocument stores a document record and submits it for asynchronous
// processing. The returned document carries the assigned ID and PENDING
// status; processing errors are recorded on the document, not returned here.
// A second submission for a document still in flight fails with
// ErrIngestInFlight.
func (p *Pipeline) IngestDocument(ctx context.Context, doc *core.Document, pages []string) (*core.Document, error) {
	if len(pages) == 0 {
		return nil, ErrNoPages
	}

	added, err := p.documents.AddDocument(ctx, doc)
	if err != nil {
		return nil, err
	}

	if err := p.submit(added.Id, pages); err != nil {
		return nil, err
	}
	return added, nil
}

// ProcessDocument runs the full ingestion synchronously in the caller's
// goroutine. Used by batch tooling that wants the outcome, not a queue slot.
func (p *Pipeline) ProcessDocument(ctx context.Context, doc *core.Document, pages []string) (*core.Document, error) {
	if len(pages) == 0 {
		return nil, ErrNoPages
	}

	added, err := p.documents.AddDocument(ctx, doc)
	if err != nil {
		return nil, err
	}

	if err := p.begin(added.Id); err != nil {
		return nil, err
	}
	defer p.end(added.Id)

	if err := p.proc.process(ctx, added.Id, pages); err != nil {
		return nil, err
	}
	return p.documents.GetDocument(ctx, added.Id)
}

// ReingestDocument reprocesses an existing document with fresh page text.
// Derived chunks, triples and vectors from the previous run are removed
// before the new job is queued. Fails with ErrIngestInFlight while a job for
// the same document is still running.
func (p *Pipeline) ReingestDocument(ctx context.Context, docID core.DocumentID, pages []string) error {
	if len(pages) == 0 {
		return ErrNoPages
	}
	if _, err := p.documents.GetDocument(ctx, docID); err != nil {
		return err
	}

	if err := p.begin(docID); err != nil {
		return err
	}
	p.proc.rollback(ctx, docID)

	if err := p.enqueue(docID, pages); err != nil {
		p.end(docID)
		return err
	}
	return nil
}

// Wait blocks until all submitted ingestion jobs have finished.
func (p *Pipeline) Wait() {
	p.wg.Wait()
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}

func (p *Pipeline) submit(docID core.DocumentID, pages []string) error {
	if err := p.begin(docID); err != nil {
		return err
	}
	if err := p.enqueue(docID, pages); err != nil {
		p.end(docID)
		return err
	}
	return nil
}

// enqueue hands a job to the pool. Caller must already hold the in-flight
// slot for docID.
func (p *Pipeline) enqueue(docID core.DocumentID, pages []string) error {
	p.wg.Add(1)
	err := p.pool.Submit(func() {
		defer p.wg.Done()
		defer p.end(docID)
		if err := p.proc.process(context.Background(), docID, pages); err != nil {
			p.logger.Error("error processing document", "documentID", docID, "err", err)
		}
	})
	if err != nil {
		p.wg.Done()
		return err
	}
	return nil
}

func (p *Pipeline) begin(docID core.DocumentID) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, busy := p.inFlight[docID]; busy {
		return ErrIngestInFlight
	}
	p.inFlight[docID] = struct{}{}
	return nil
}

func (p *Pipeline) end(docID core.DocumentID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.inFlight, docID)
}
