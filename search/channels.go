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


package search

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"github.com/poiesic/docsearch/core"
	"github.com/poiesic/docsearch/storage"
)

// Per-channel candidate limits before fusion.
const (
	// SemanticK bounds semantic channel candidates.
	SemanticK = 50
	// LexicalK bounds ranked lexical candidates; the phrase and wildcard
	// tiers add on top of these.
	LexicalK = 50
	// TripleK bounds triple channel candidates.
	TripleK = 30

	phraseTierLimit   = 20
	wildcardTierLimit = 10

	// exactPhraseScore marks a verbatim phrase occurrence. Anything at or
	// above this value is treated as dominant lexical evidence by fusion.
	exactPhraseScore = 1.0
	// wildcardScore marks a loose multi-keyword match.
	wildcardScore = 0.5
)

// SemanticChannel retrieves chunks by vector similarity.
type SemanticChannel struct {
	index  storage.VectorIndex
	logger *slog.Logger
}

// NewSemanticChannel creates a semantic channel over the vector index.
func NewSemanticChannel(index storage.VectorIndex) *SemanticChannel {
	return &SemanticChannel{
		index:  index,
		logger: slog.Default().With("component", "semantic-channel"),
	}
}

// Search returns up to SemanticK hits nearest to queryVector, restricted to
// allowedDocs, ordered by similarity descending.
func (c *SemanticChannel) Search(ctx context.Context, queryVector []float32, allowedDocs []core.DocumentID) ([]*core.ChannelHit, error) {
	matches, err := c.index.Search(ctx, queryVector, SemanticK, allowedDocs)
	if err != nil {
		return nil, err
	}

	hits := make([]*core.ChannelHit, 0, len(matches))
	for rank, match := range matches {
		hits = append(hits, &core.ChannelHit{
			ChunkId:    match.Point.ChunkId,
			DocumentId: match.Point.DocumentId,
			PageNumber: match.Point.PageNumber,
			ChunkIndex: match.Point.ChunkIndex,
			Text:       match.Point.Text,
			ParentText: match.Point.ParentText,
			Score:      match.Score,
			Rank:       rank + 1,
		})
	}
	return hits, nil
}

// LexicalChannel retrieves chunks by keyword and phrase matching over the
// stored chunk text. Three tiers layer on top of each other:
//
//  1. Ranked tf-idf overlap of query tokens against each chunk.
//  2. Exact-phrase substring match on de-hyphenated text, scored
//     exactPhraseScore so literal user phrases always surface.
//  3. Loose multi-keyword wildcard match (keywords in order, anything
//     between), scored wildcardScore.
//
// Tiers merge by chunk id; a chunk hit by several tiers keeps the maximum
// score, never a sum.
type LexicalChannel struct {
	chunks storage.ChunkRepository
	logger *slog.Logger
}

// NewLexicalChannel creates a lexical channel over the chunk repository.
func NewLexicalChannel(chunks storage.ChunkRepository) *LexicalChannel {
	return &LexicalChannel{
		chunks: chunks,
		logger: slog.Default().With("component", "lexical-channel"),
	}
}

// Search returns lexical hits for query, restricted to allowedDocs.
func (c *LexicalChannel) Search(ctx context.Context, query string, allowedDocs []core.DocumentID) ([]*core.ChannelHit, error) {
	corpus, err := c.collectChunks(ctx, allowedDocs)
	if err != nil {
		return nil, err
	}

	// Tier 1: ranked overlap score.
	type scored struct {
		chunk *core.Chunk
		score float32
	}
	var ranked []scored
	for _, chunk := range corpus {
		if score := lexicalOverlapScore(query, chunk.Text); score > 0 {
			ranked = append(ranked, scored{chunk: chunk, score: score})
		}
	}
	slices.SortStableFunc(ranked, func(a, b scored) int {
		if a.score > b.score {
			return -1
		}
		if a.score < b.score {
			return 1
		}
		return positionCompare(a.chunk, b.chunk)
	})
	if len(ranked) > LexicalK {
		ranked = ranked[:LexicalK]
	}

	var hits []*core.ChannelHit
	seen := make(map[core.ID]*core.ChannelHit)
	for i, s := range ranked {
		hit := chunkHit(s.chunk, s.score, i+1)
		hits = append(hits, hit)
		seen[s.chunk.Id] = hit
	}

	phrase := normalizeQuery(query)
	if phrase == "" {
		return hits, nil
	}

	// Tier 2: exact phrase after de-hyphenation.
	matched := 0
	for _, chunk := range corpus {
		if matched >= phraseTierLimit {
			break
		}
		if !containsPhrase(chunk.Text, phrase) {
			continue
		}
		matched++
		if hit, ok := seen[chunk.Id]; ok {
			if hit.Score < exactPhraseScore {
				hit.Score = exactPhraseScore
			}
			continue
		}
		hit := chunkHit(chunk, exactPhraseScore, len(hits)+1)
		hits = append(hits, hit)
		seen[chunk.Id] = hit
	}

	// Tier 3: loose wildcard match over the keywords, in order.
	keywords := make([]string, 0)
	for _, word := range strings.Fields(phrase) {
		if len(word) > 2 {
			keywords = append(keywords, word)
		}
	}
	if len(keywords) >= 2 {
		matched = 0
		for _, chunk := range corpus {
			if matched >= wildcardTierLimit {
				break
			}
			if _, ok := seen[chunk.Id]; ok {
				continue
			}
			if !matchesKeywordsInOrder(chunk.Text, keywords) {
				continue
			}
			matched++
			hit := chunkHit(chunk, wildcardScore, len(hits)+1)
			hits = append(hits, hit)
			seen[chunk.Id] = hit
		}
	}

	return hits, nil
}

// collectChunks gathers the searchable corpus, ordered by (document, page,
// type, index) for deterministic tier output.
func (c *LexicalChannel) collectChunks(ctx context.Context, allowedDocs []core.DocumentID) ([]*core.Chunk, error) {
	var allowed map[core.DocumentID]bool
	if len(allowedDocs) > 0 {
		allowed = make(map[core.DocumentID]bool, len(allowedDocs))
		for _, docID := range allowedDocs {
			allowed[docID] = true
		}
	}

	var corpus []*core.Chunk
	err := c.chunks.ScanChunks(ctx, func(chunk *core.Chunk) (bool, error) {
		if allowed == nil || allowed[chunk.DocumentId] {
			corpus = append(corpus, chunk)
		}
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	slices.SortFunc(corpus, func(a, b *core.Chunk) int {
		if a.DocumentId != b.DocumentId {
			return strings.Compare(string(a.DocumentId), string(b.DocumentId))
		}
		return positionCompare(a, b)
	})
	return corpus, nil
}

// TripleChannel retrieves chunks via their extracted relations. Query terms
// match disjunctively against the flattened triple text; a chunk keeps the
// best score across its triples.
type TripleChannel struct {
	triples storage.TripleRepository
	chunks  storage.ChunkRepository
	logger  *slog.Logger
}

// NewTripleChannel creates a triple channel over the triple store.
func NewTripleChannel(triples storage.TripleRepository, chunks storage.ChunkRepository) *TripleChannel {
	return &TripleChannel{
		triples: triples,
		chunks:  chunks,
		logger:  slog.Default().With("component", "triple-channel"),
	}
}

// Search returns up to TripleK hits whose relations match the query terms.
// A query with no extractable terms returns no hits.
func (c *TripleChannel) Search(ctx context.Context, query string, allowedDocs []core.DocumentID) ([]*core.ChannelHit, error) {
	if len(tokenize(query)) == 0 {
		return nil, nil
	}

	var allowed map[core.DocumentID]bool
	if len(allowedDocs) > 0 {
		allowed = make(map[core.DocumentID]bool, len(allowedDocs))
		for _, docID := range allowedDocs {
			allowed[docID] = true
		}
	}

	// Best-scoring triple per chunk.
	best := make(map[core.ID]*core.Triple)
	bestScore := make(map[core.ID]float32)
	err := c.triples.ScanTriples(ctx, func(triple *core.Triple) (bool, error) {
		if allowed != nil && !allowed[triple.DocumentId] {
			return true, nil
		}
		score := lexicalOverlapScore(query, triple.Text())
		if score <= 0 {
			return true, nil
		}
		if score > bestScore[triple.ChunkId] {
			bestScore[triple.ChunkId] = score
			best[triple.ChunkId] = triple
		}
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	if len(best) == 0 {
		return nil, nil
	}

	type scored struct {
		triple *core.Triple
		score  float32
	}
	ranked := make([]scored, 0, len(best))
	for chunkID, triple := range best {
		ranked = append(ranked, scored{triple: triple, score: bestScore[chunkID]})
	}
	slices.SortStableFunc(ranked, func(a, b scored) int {
		if a.score > b.score {
			return -1
		}
		if a.score < b.score {
			return 1
		}
		if a.triple.ChunkId < b.triple.ChunkId {
			return -1
		}
		if a.triple.ChunkId > b.triple.ChunkId {
			return 1
		}
		return 0
	})
	if len(ranked) > TripleK {
		ranked = ranked[:TripleK]
	}

	// Resolve the owning chunks for display text.
	chunkIDs := make([]core.ID, 0, len(ranked))
	for _, s := range ranked {
		chunkIDs = append(chunkIDs, s.triple.ChunkId)
	}
	chunks, err := c.chunks.GetChunks(ctx, chunkIDs...)
	if err != nil {
		return nil, err
	}
	texts := make(map[core.ID]string, len(chunks))
	for _, chunk := range chunks {
		texts[chunk.Id] = chunk.Text
	}

	hits := make([]*core.ChannelHit, 0, len(ranked))
	for i, s := range ranked {
		hits = append(hits, &core.ChannelHit{
			ChunkId:    s.triple.ChunkId,
			DocumentId: s.triple.DocumentId,
			PageNumber: s.triple.PageNumber,
			ChunkIndex: s.triple.ChunkIndex,
			Text:       texts[s.triple.ChunkId],
			Score:      s.score,
			Rank:       i + 1,
		})
	}
	return hits, nil
}

// chunkHit builds a ChannelHit from a stored chunk.
func chunkHit(chunk *core.Chunk, score float32, rank int) *core.ChannelHit {
	return &core.ChannelHit{
		ChunkId:    chunk.Id,
		DocumentId: chunk.DocumentId,
		PageNumber: chunk.PageNumber,
		ChunkIndex: chunk.ChunkIndex,
		Text:       chunk.Text,
		Score:      score,
		Rank:       rank,
	}
}

// positionCompare orders chunks by (page, type, index).
func positionCompare(a, b *core.Chunk) int {
	if a.PageNumber != b.PageNumber {
		return a.PageNumber - b.PageNumber
	}
	if a.Type != b.Type {
		return int(a.Type) - int(b.Type)
	}
	return a.ChunkIndex - b.ChunkIndex
}

// matchesKeywordsInOrder reports whether all keywords occur in text in the
// given order, with anything in between.
func matchesKeywordsInOrder(text string, keywords []string) bool {
	lower := strings.ToLower(text)
	pos := 0
	for _, keyword := range keywords {
		idx := strings.Index(lower[pos:], keyword)
		if idx == -1 {
			return false
		}
		pos += idx + len(keyword)
	}
	return true
}
