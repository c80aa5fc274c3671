package storage

import (
	"context"

	"github.com/poiesic/docsearch/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	// The context passed to fn may contain transaction state.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// DocumentRepository provides operations for managing document metadata.
type DocumentRepository interface {
	Repository
	// AddDocument adds a document record.
	// Sets CreatedAt/UpdatedAt timestamps if not already set, and defaults
	// the status to PENDING. Returns ErrDuplicateKey if the ID exists.
	AddDocument(ctx context.Context, doc *core.Document) (*core.Document, error)

	// GetDocument retrieves a document by ID.
	// Returns ErrNotFound if the document doesn't exist.
	GetDocument(ctx context.Context, id core.DocumentID) (*core.Document, error)

	// ListDocuments retrieves all document records, ordered by ID.
	ListDocuments(ctx context.Context) ([]*core.Document, error)

	// SetStatus transitions a document's lifecycle status. The error message
	// is stored verbatim for FAILED and cleared for every other status.
	// Updates the UpdatedAt timestamp. Returns ErrNotFound if missing.
	SetStatus(ctx context.Context, id core.DocumentID, status core.DocumentStatus, errorMessage string) error

	// SetPageCount records the number of extracted pages.
	// Returns ErrNotFound if the document doesn't exist.
	SetPageCount(ctx context.Context, id core.DocumentID, pages int) error

	// DeleteDocument removes the document record itself.
	// Chunks, triples, and vectors are owned by their own repositories;
	// cascading deletion is orchestrated above this interface.
	// Returns ErrNotFound if the document doesn't exist.
	DeleteDocument(ctx context.Context, id core.DocumentID) error
}

// ChunkRepository provides operations for managing parent and child chunks.
type ChunkRepository interface {
	Repository
	// AddChunks adds one or more chunks to storage. Writes are committed in
	// batches so arbitrarily large pages cannot overflow one transaction.
	// Chunks carry deterministic content-derived IDs assigned at chunking.
	AddChunks(ctx context.Context, chunks ...*core.Chunk) ([]*core.Chunk, error)

	// GetChunk retrieves a single chunk by ID.
	// Returns ErrNotFound if the chunk doesn't exist.
	GetChunk(ctx context.Context, id core.ID) (*core.Chunk, error)

	// GetChunks retrieves multiple chunks by their IDs.
	// Returns only the chunks that exist (no error for missing chunks).
	GetChunks(ctx context.Context, ids ...core.ID) ([]*core.Chunk, error)

	// GetChunksByDocument retrieves all chunks of a document, ordered by
	// (page, type, index).
	GetChunksByDocument(ctx context.Context, docID core.DocumentID) ([]*core.Chunk, error)

	// MarkEmbedded flips the Embedded flag on the given chunks.
	// Returns ErrNotFound if any chunk doesn't exist.
	MarkEmbedded(ctx context.Context, ids ...core.ID) error

	// DeleteByDocument removes all chunks belonging to a document,
	// including their index entries.
	DeleteByDocument(ctx context.Context, docID core.DocumentID) error

	// ScanChunks streams every stored chunk to fn. Iteration stops when fn
	// returns false or an error. Used by lexical search and re-embedding.
	ScanChunks(ctx context.Context, fn func(chunk *core.Chunk) (bool, error)) error
}

// TripleRepository provides operations for managing extracted relations.
type TripleRepository interface {
	Repository
	// AddTriples adds one or more triples to storage.
	// Uses content-based IDs (IDFromContent of the triple tuple) when unset.
	AddTriples(ctx context.Context, triples ...*core.Triple) ([]*core.Triple, error)

	// ScanTriples streams every stored triple to fn. Iteration stops when fn
	// returns false or an error.
	ScanTriples(ctx context.Context, fn func(triple *core.Triple) (bool, error)) error

	// DeleteByDocument removes all triples belonging to a document.
	DeleteByDocument(ctx context.Context, docID core.DocumentID) error
}

// VectorIndex stores child chunk embeddings and answers similarity queries.
// The dimensionality is fixed when the index is opened; vectors of any other
// length are rejected with ErrDimensionMismatch.
type VectorIndex interface {
	// Upsert inserts or replaces points keyed by chunk ID.
	Upsert(ctx context.Context, points ...*core.VectorPoint) error

	// Search returns the topK points most similar to vector, ordered by
	// similarity descending. A nil or empty allowedDocs searches everything;
	// otherwise only points from the listed documents are considered.
	Search(ctx context.Context, vector []float32, topK int, allowedDocs []core.DocumentID) ([]*core.VectorMatch, error)

	// DeleteByDocument removes all points belonging to a document.
	DeleteByDocument(ctx context.Context, docID core.DocumentID) error

	// Dim returns the fixed dimensionality of the index.
	Dim() int

	// Close releases resources held by the index.
	Close() error
}
