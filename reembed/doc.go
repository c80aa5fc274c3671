// Package reembed provides functionality for reembedding existing child
// chunks with new or updated embedding models.
//
// This package supports batch processing of chunks, progress tracking, retry
// logic with exponential backoff, and vector normalization to ensure
// compatibility with cosine similarity search. Chunks are embedded with
// their parent's text prepended, matching what ingestion does.
package reembed
