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


package docsearch

import (
	"context"
	"io"
	"log/slog"

	"github.com/poiesic/docsearch/ai"
	"github.com/poiesic/docsearch/ai/openai"
	"github.com/poiesic/docsearch/core"
	"github.com/poiesic/docsearch/ingestion"
	"github.com/poiesic/docsearch/reembed"
	"github.com/poiesic/docsearch/search"
	"github.com/poiesic/docsearch/storage"
	"github.com/poiesic/docsearch/storage/badger"
)

// Database bundles the storage backend, repositories, vector index and model
// provider behind one handle. It is the composition root for the library.
type Database struct {
	backend   *badger.Backend
	documents storage.DocumentRepository
	chunks    storage.ChunkRepository
	triples   storage.TripleRepository
	vectors   storage.VectorIndex
	provider  ai.ModelProvider
	logger    *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	aiConfig *ai.Config
	provider ai.ModelProvider
	inMemory bool
}

// WithAIConfig sets the model service configuration used to build the
// default OpenAI-compatible provider.
func WithAIConfig(config *ai.Config) DatabaseOption {
	return func(o *databaseOptions) {
		o.aiConfig = config
	}
}

// WithProvider injects a pre-built model provider instead of constructing
// one from the AI config. Used by tests and embedders with custom transports.
func WithProvider(provider ai.ModelProvider) DatabaseOption {
	return func(o *databaseOptions) {
		o.provider = provider
	}
}

// WithInMemoryStorage keeps all data in memory instead of on disk.
func WithInMemoryStorage() DatabaseOption {
	return func(o *databaseOptions) {
		o.inMemory = true
	}
}

// NewDatabase opens (or creates) a document search database at filePath.
// The vector index is opened with the provider's embedding dimensionality;
// reopening an existing database with a different dimension fails with
// storage.ErrDimensionMismatch.
func NewDatabase(filePath string, opts ...DatabaseOption) (*Database, error) {
	options := &databaseOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	provider := options.provider
	if provider == nil {
		var err error
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			return nil, err
		}
	}

	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		provider.Close()
		return nil, err
	}

	documents, err := badger.NewDocumentRepository(backend)
	if err != nil {
		backend.Close()
		provider.Close()
		return nil, err
	}

	chunks, err := badger.NewChunkRepository(backend)
	if err != nil {
		backend.Close()
		provider.Close()
		return nil, err
	}

	triples, err := badger.NewTripleRepository(backend)
	if err != nil {
		backend.Close()
		provider.Close()
		return nil, err
	}

	vectors, err := badger.OpenVectorIndex(backend, provider.Dim())
	if err != nil {
		backend.Close()
		provider.Close()
		return nil, err
	}

	return &Database{
		backend:   backend,
		documents: documents,
		chunks:    chunks,
		triples:   triples,
		vectors:   vectors,
		provider:  provider,
		logger:    slog.Default(),
	}, nil
}

// Close releases the provider, vector index and storage backend.
func (db *Database) Close() error {
	if err := db.provider.Close(); err != nil {
		db.logger.Error("error closing model provider", "err", err)
	}
	if err := db.vectors.Close(); err != nil {
		db.logger.Error("error closing vector index", "err", err)
	}
	if err := db.backend.Close(); err != nil {
		db.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// DocumentRepository returns the document metadata repository.
func (db *Database) DocumentRepository() storage.DocumentRepository {
	return db.documents
}

// ChunkRepository returns the chunk repository.
func (db *Database) ChunkRepository() storage.ChunkRepository {
	return db.chunks
}

// TripleRepository returns the triple repository.
func (db *Database) TripleRepository() storage.TripleRepository {
	return db.triples
}

// VectorIndex returns the vector index.
func (db *Database) VectorIndex() storage.VectorIndex {
	return db.vectors
}

// NewIngestionPipeline creates an ingestion pipeline over this database.
func (db *Database) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	return ingestion.NewPipeline(db.documents, db.chunks, db.triples, db.vectors, db.provider, opts...)
}

// NewSearcher creates a searcher over this database.
func (db *Database) NewSearcher(opts ...search.Option) (*search.Searcher, error) {
	return search.NewSearcher(db.documents, db.chunks, db.triples, db.vectors, db.provider, opts...)
}

// NewReembedder creates a reembedder over this database.
// progress: where to write progress output (typically os.Stderr)
func (db *Database) NewReembedder(config *reembed.Config, progress io.Writer) *reembed.Reembedder {
	return reembed.NewReembedder(db.chunks, db.vectors, db.provider.Embedder(), config, progress)
}

// DeleteDocument removes a document and everything derived from it, in
// reverse dependency order: vectors, then triples, then chunks, then the
// document record. Vector deletion is best effort; a failure there is
// logged and the remaining cleanup still runs.
func (db *Database) DeleteDocument(ctx context.Context, docID core.DocumentID) error {
	if _, err := db.documents.GetDocument(ctx, docID); err != nil {
		return err
	}

	if err := db.vectors.DeleteByDocument(ctx, docID); err != nil {
		db.logger.Error("error deleting vectors for document", "documentID", docID, "err", err)
	}
	if err := db.triples.DeleteByDocument(ctx, docID); err != nil {
		return err
	}
	if err := db.chunks.DeleteByDocument(ctx, docID); err != nil {
		return err
	}
	return db.documents.DeleteDocument(ctx, docID)
}
