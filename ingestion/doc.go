// Package ingestion provides pipeline orchestration for processing documents.
//
// The Pipeline type manages the ingestion workflow for documents, including:
//   - Cleaning and chunking page text into the parent/child hierarchy
//   - Extracting relations from child chunks
//   - Generating embeddings and upserting them into the vector index
//
// Processing runs on a worker pool, one job per document, with at most one
// job per document in flight at a time. A failed document rolls back its
// derived data and transitions to FAILED with a recorded error message; it
// never half-completes silently.
package ingestion
