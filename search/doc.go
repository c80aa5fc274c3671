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


// Package search provides multi-channel retrieval over ingested documents.
//
// The Searcher type runs three independent retrieval channels concurrently:
//   - Semantic search using vector embeddings of child chunks
//   - Lexical search over chunk text (ranked overlap, exact phrase, wildcard)
//   - Relation search over extracted (subject, predicate, object) triples
//
// The channels are fused with weighted reciprocal rank fusion, deduplicated
// to one result per document page, and normalized so the top result always
// scores 1.0. Results containing the user's literal phrase are boosted above
// anything reached by similarity alone. Each channel degrades independently:
// a failure or timeout in one channel never fails the search.
package search
