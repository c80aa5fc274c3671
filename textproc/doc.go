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


// Package textproc prepares raw page text for indexing.
//
// It has two responsibilities: cleaning extracted text (boilerplate removal,
// non-printable stripping, hyphenation repair, whitespace normalization) and
// hierarchical chunking. Chunking produces two tiers per page: large parent
// chunks that carry context for display and snippets, and small child chunks
// sized for precise vector search. Splitting is recursive, by paragraph
// first, then sentence, then a hard word split as last resort, so chunk
// boundaries follow natural text structure whenever possible.
//
// Token counts come from an injected ai.Tokenizer so the chunker sizes
// chunks with the same tokenization the embedding model sees.
package textproc
