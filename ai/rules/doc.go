// Package rules provides a heuristic relation extractor that works without
// any external NLP model. It trades precision for availability: triples are
// a coarse retrieval signal, and extraction must never fail ingestion.
package rules
