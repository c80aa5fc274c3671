package ingestion

import "errors"

var (
	// ErrDocumentRepositoryRequired is returned when a document repository is not provided.
	ErrDocumentRepositoryRequired = errors.New("document repository required")

	// ErrChunkRepositoryRequired is returned when a chunk repository is not provided.
	ErrChunkRepositoryRequired = errors.New("chunk repository required")

	// ErrTripleRepositoryRequired is returned when a triple repository is not provided.
	ErrTripleRepositoryRequired = errors.New("triple repository required")

	// ErrVectorIndexRequired is returned when a vector index is not provided.
	ErrVectorIndexRequired = errors.New("vector index required")

	// ErrModelProviderRequired is returned when a model provider is not provided.
	ErrModelProviderRequired = errors.New("model provider required")

	// ErrIngestInFlight is returned when an ingestion job for the same
	// document is already running.
	ErrIngestInFlight = errors.New("ingestion already in flight for document")

	// ErrNoPages is returned when a document is submitted without any page text.
	ErrNoPages = errors.New("document has no pages")
)
