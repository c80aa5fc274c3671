package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector represents the semantic meaning of the text.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// Batch processing is more efficient than calling EmbedText multiple times.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Tokenizer counts tokens the way the embedding model's tokenizer would.
// Chunk size limits are expressed in tokens, so accurate counts matter;
// implementations that cannot load the model tokenizer must fall back to a
// word-count approximation and document it as such.
type Tokenizer interface {
	// CountTokens returns the number of model tokens in text.
	CountTokens(text string) int
}

// RelationExtractor pulls lightweight (subject, predicate, object) triples
// from text. Extraction must never hard-fail: implementations fall back to
// naive positional extraction rather than returning an error for text they
// cannot parse.
type RelationExtractor interface {
	// ExtractRelations analyzes text and returns up to limit relations.
	// Returns an empty slice if no relations are found.
	ExtractRelations(ctx context.Context, text string, limit int) ([]Relation, error)
}

// ModelProvider aggregates model services for convenient initialization and
// lifecycle management. A provider creates and manages Embedder, Tokenizer
// and RelationExtractor instances, ensuring they share configuration and
// resources appropriately.
type ModelProvider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// Tokenizer returns the token counting service.
	// The returned Tokenizer is safe for concurrent use.
	Tokenizer() Tokenizer

	// RelationExtractor returns the relation extraction service.
	// The returned RelationExtractor is safe for concurrent use.
	RelationExtractor() RelationExtractor

	// Dim returns the embedding vector dimensionality. The vector index
	// checks this against its configured width at startup; a mismatch is a
	// configuration error.
	Dim() int

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
