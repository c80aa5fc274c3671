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
	"slices"
	"strings"

	"github.com/poiesic/docsearch/core"
)

// Reciprocal rank fusion parameters. The constant k dampens the influence
// of top ranks; channel weights reflect how much each retrieval method is
// trusted relative to the others.
const (
	rrfK = 60

	semanticWeight = 1.0
	lexicalWeight  = 1.2
	tripleWeight   = 0.8

	// literalMatchBoost lifts results containing the user's exact words
	// above everything reached by similarity alone.
	literalMatchBoost = 2.0
	lexicalBoostScale = 0.5
)

type fusedCandidate struct {
	chunkId    core.ID
	documentId core.DocumentID
	pageNumber int
	chunkIndex int
	text       string
	parentText string

	rrf           float64
	fusionScore   float64
	semanticScore float32
	lexicalScore  float32
	tripleScore   float32
	channels      []core.Channel
}

// Fuse merges per-channel candidate lists into a single ranked result set.
//
// Each hit contributes weight/(k+rank) to its chunk's reciprocal-rank score.
// Chunks containing the user's literal phrase, or carrying dominant lexical
// evidence, receive a flat boost so exact matches cannot be buried by
// semantically similar text. Results collapse to one per (document, page),
// scores normalize to [0, 1] against the top result, and the survivors get
// snippets and highlights.
func Fuse(semantic, lexical, triple []*core.ChannelHit, limit int, query string) []*core.FusedResult {
	candidates := make(map[core.ID]*fusedCandidate)

	accumulate := func(hits []*core.ChannelHit, channel core.Channel, weight float64) {
		for _, hit := range hits {
			cand, ok := candidates[hit.ChunkId]
			if !ok {
				cand = &fusedCandidate{
					chunkId:    hit.ChunkId,
					documentId: hit.DocumentId,
					pageNumber: hit.PageNumber,
					chunkIndex: hit.ChunkIndex,
				}
				candidates[hit.ChunkId] = cand
			}
			if cand.text == "" {
				cand.text = hit.Text
			}
			if cand.parentText == "" {
				cand.parentText = hit.ParentText
			}
			cand.rrf += weight / float64(rrfK+hit.Rank)
			cand.channels = append(cand.channels, channel)
			switch channel {
			case core.ChannelSemantic:
				if hit.Score > cand.semanticScore {
					cand.semanticScore = hit.Score
				}
			case core.ChannelLexical:
				if hit.Score > cand.lexicalScore {
					cand.lexicalScore = hit.Score
				}
			case core.ChannelTriple:
				if hit.Score > cand.tripleScore {
					cand.tripleScore = hit.Score
				}
			}
		}
	}

	accumulate(semantic, core.ChannelSemantic, semanticWeight)
	accumulate(lexical, core.ChannelLexical, lexicalWeight)
	accumulate(triple, core.ChannelTriple, tripleWeight)

	if len(candidates) == 0 {
		return nil
	}

	phrase := normalizeQuery(query)
	ranked := make([]*fusedCandidate, 0, len(candidates))
	for _, cand := range candidates {
		cand.fusionScore = cand.rrf * 10
		if cand.lexicalScore >= exactPhraseScore || containsPhrase(cand.text, phrase) {
			cand.fusionScore += literalMatchBoost
		} else if cand.lexicalScore > 0 {
			cand.fusionScore += lexicalBoostScale * float64(cand.lexicalScore)
		}
		ranked = append(ranked, cand)
	}

	slices.SortStableFunc(ranked, func(a, b *fusedCandidate) int {
		if a.fusionScore > b.fusionScore {
			return -1
		}
		if a.fusionScore < b.fusionScore {
			return 1
		}
		if a.chunkId < b.chunkId {
			return -1
		}
		if a.chunkId > b.chunkId {
			return 1
		}
		return 0
	})

	deduped := dedupeByPage(ranked)

	if limit > 0 && len(deduped) > limit {
		deduped = deduped[:limit]
	}

	top := deduped[0].fusionScore
	results := make([]*core.FusedResult, 0, len(deduped))
	for _, cand := range deduped {
		normalized := cand.fusionScore
		if top > 0 {
			normalized /= top
		}
		result := &core.FusedResult{
			ChunkId:       cand.chunkId,
			DocumentId:    cand.documentId,
			PageNumber:    cand.pageNumber,
			ChunkIndex:    cand.chunkIndex,
			Text:          cand.text,
			ParentText:    cand.parentText,
			SemanticScore: cand.semanticScore,
			LexicalScore:  cand.lexicalScore,
			TripleScore:   cand.tripleScore,
			Channels:      cand.channels,
			FusionScore:   float32(normalized),
		}
		result.Snippet = extractSnippet(result, query)
		result.Highlights = highlightMatches(result.Snippet, query)
		results = append(results, result)
	}
	return results
}

// dedupeByPage keeps the best-scoring candidate for each (document, page)
// pair, merging channel attribution and per-channel scores from the ones it
// displaces. Input and output are ordered by fusion score descending.
func dedupeByPage(ranked []*fusedCandidate) []*fusedCandidate {
	type pageKey struct {
		doc  core.DocumentID
		page int
	}

	kept := make(map[pageKey]*fusedCandidate, len(ranked))
	deduped := make([]*fusedCandidate, 0, len(ranked))
	for _, cand := range ranked {
		key := pageKey{doc: cand.documentId, page: cand.pageNumber}
		winner, ok := kept[key]
		if !ok {
			kept[key] = cand
			deduped = append(deduped, cand)
			continue
		}
		for _, ch := range cand.channels {
			if !slices.Contains(winner.channels, ch) {
				winner.channels = append(winner.channels, ch)
			}
		}
		if cand.semanticScore > winner.semanticScore {
			winner.semanticScore = cand.semanticScore
		}
		if cand.lexicalScore > winner.lexicalScore {
			winner.lexicalScore = cand.lexicalScore
		}
		if cand.tripleScore > winner.tripleScore {
			winner.tripleScore = cand.tripleScore
		}
	}

	for _, cand := range deduped {
		slices.Sort(cand.channels)
		cand.channels = slices.Compact(cand.channels)
	}
	return deduped
}

// displayText picks the text a result is presented with. Parent chunks carry
// more surrounding context than the matched child, so they win when present.
func displayText(result *core.FusedResult) string {
	if strings.TrimSpace(result.ParentText) != "" {
		return result.ParentText
	}
	return result.Text
}
