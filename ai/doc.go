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


// Package ai provides abstractions for the model services used in docsearch.
//
// This package defines interfaces for embedding generation, token counting
// and relation extraction. It follows the dependency inversion principle:
// the chunker, ingestion pipeline and searcher depend on these abstractions
// rather than on concrete model clients, and receive them via explicit
// construction (no module-level singletons or lazily-loaded globals).
//
// # Design Principles
//
// The package is designed around four key interfaces:
//
//   - Embedder: Generates vector embeddings from text
//   - Tokenizer: Counts model tokens for chunk sizing
//   - RelationExtractor: Extracts (subject, predicate, object) triples
//   - ModelProvider: Aggregates model services for convenient initialization
//
// # Implementation Packages
//
//   - ai/openai: Production embedder using OpenAI-compatible APIs, plus the
//     tiktoken tokenizer with a word-count fallback
//   - ai/rules: Rule-based relation extractor (no external model required)
//   - ai/mock: Test doubles for unit testing without external dependencies
//
// # Constructor Return Type Pattern
//
// Public constructors (openai.NewProvider, openai.NewEmbedder, etc.) return
// INTERFACE types to enforce abstraction and prevent accidental coupling to
// concrete implementations. Test utility constructors (mock.NewMockEmbedder
// and friends) return CONCRETE types to enable behavior injection and call
// assertions.
package ai
