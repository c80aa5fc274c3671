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


package textproc

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/docsearch/ai"
	"github.com/poiesic/docsearch/core"
)

// Default chunk sizing, tuned for embedding models with a ~256 token
// context window.
const (
	// DefaultParentMaxTokens bounds parent chunks (~400 words).
	DefaultParentMaxTokens = 500
	// DefaultParentMinTokens prevents tiny parents; smaller ones are merged.
	DefaultParentMinTokens = 100
	// DefaultChildMaxTokens keeps children inside the embedding context window.
	DefaultChildMaxTokens = 200
	// DefaultChildMinTokens avoids children too small to carry signal.
	DefaultChildMinTokens = 30
	// DefaultOverlapSentences is the sentence overlap between adjacent children.
	DefaultOverlapSentences = 1
)

// hardSplitWordRatio converts a token budget into a word budget for the
// last-resort word split (1 token is roughly 0.75 words).
const hardSplitWordRatio = 0.75

// Chunker splits page text into hierarchical parent and child chunks.
// Parents hold large context for display and snippets; children are small
// precise units for vector search. A Chunker is safe for concurrent use.
type Chunker struct {
	tokenizer ai.Tokenizer

	parentMaxTokens  int
	parentMinTokens  int
	childMaxTokens   int
	childMinTokens   int
	overlapSentences int

	logger *slog.Logger
}

// ChunkerOption configures a Chunker.
type ChunkerOption func(*Chunker) error

// WithParentTokenRange overrides the parent chunk token bounds.
func WithParentTokenRange(minTokens, maxTokens int) ChunkerOption {
	return func(c *Chunker) error {
		if minTokens <= 0 || maxTokens <= minTokens {
			return fmt.Errorf("parent token range must satisfy 0 < min < max, got [%d, %d]", minTokens, maxTokens)
		}
		c.parentMinTokens = minTokens
		c.parentMaxTokens = maxTokens
		return nil
	}
}

// WithChildTokenRange overrides the child chunk token bounds.
func WithChildTokenRange(minTokens, maxTokens int) ChunkerOption {
	return func(c *Chunker) error {
		if minTokens <= 0 || maxTokens <= minTokens {
			return fmt.Errorf("child token range must satisfy 0 < min < max, got [%d, %d]", minTokens, maxTokens)
		}
		c.childMinTokens = minTokens
		c.childMaxTokens = maxTokens
		return nil
	}
}

// WithOverlapSentences overrides the sentence overlap between adjacent
// child chunks. Zero disables overlap.
func WithOverlapSentences(n int) ChunkerOption {
	return func(c *Chunker) error {
		if n < 0 {
			return fmt.Errorf("overlap sentences must be >= 0, got %d", n)
		}
		c.overlapSentences = n
		return nil
	}
}

// NewChunker creates a chunker that sizes chunks with the given tokenizer.
func NewChunker(tokenizer ai.Tokenizer, opts ...ChunkerOption) (*Chunker, error) {
	if tokenizer == nil {
		return nil, errors.New("chunker: tokenizer is required")
	}

	c := &Chunker{
		tokenizer:        tokenizer,
		parentMaxTokens:  DefaultParentMaxTokens,
		parentMinTokens:  DefaultParentMinTokens,
		childMaxTokens:   DefaultChildMaxTokens,
		childMinTokens:   DefaultChildMinTokens,
		overlapSentences: DefaultOverlapSentences,
		logger:           slog.Default().With("component", "chunker"),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// ChunkPage splits one page of cleaned text into parent and child chunks.
//
// Parents come from recursive splitting (paragraph, then sentence, then hard
// word split) bounded by the parent token range, with undersized parents
// merged into their successors. Each parent then yields children: a parent
// that already fits the child budget becomes its own single child, otherwise
// it is re-split by sentences with overlap. Child indexes run continuously
// across the page so (document, page, type, index) stays unique.
//
// Empty or whitespace-only text yields no chunks.
func (c *Chunker) ChunkPage(docID core.DocumentID, pageNumber int, text string) (parents, children []*core.Chunk) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	parentTexts := c.recursiveChunk(text, c.parentMaxTokens)
	parentTexts = c.mergeSmallChunks(parentTexts, c.parentMinTokens)

	parents = make([]*core.Chunk, 0, len(parentTexts))
	childIndex := 0

	for parentIdx, parentText := range parentTexts {
		parentTokens := c.tokenCount(parentText)
		parentID := core.ChunkID(docID, pageNumber, core.ChunkTypeParent, parentIdx)

		parents = append(parents, &core.Chunk{
			Id:         parentID,
			DocumentId: docID,
			PageNumber: pageNumber,
			ChunkIndex: parentIdx,
			Type:       core.ChunkTypeParent,
			Text:       parentText,
			CharLength: len(parentText),
			TokenCount: parentTokens,
		})

		var childTexts []string
		if parentTokens <= c.childMaxTokens {
			// Parent is small enough to be its own child.
			childTexts = []string{parentText}
		} else {
			childTexts = c.sentenceChunk(SplitSentences(parentText), c.childMaxTokens, c.overlapSentences)
		}

		for _, childText := range childTexts {
			children = append(children, &core.Chunk{
				Id:         core.ChunkID(docID, pageNumber, core.ChunkTypeChild, childIndex),
				DocumentId: docID,
				PageNumber: pageNumber,
				ChunkIndex: childIndex,
				Type:       core.ChunkTypeChild,
				ParentId:   parentID,
				Text:       childText,
				CharLength: len(childText),
				TokenCount: c.tokenCount(childText),
			})
			childIndex++
		}
	}

	c.logger.Debug("chunked page",
		"document", docID, "page", pageNumber,
		"parents", len(parents), "children", len(children))

	return parents, children
}

// recursiveChunk splits text by natural boundaries: paragraphs first, then
// sentences, then a hard word split as last resort.
func (c *Chunker) recursiveChunk(text string, maxTokens int) []string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}

	if c.tokenCount(text) <= maxTokens {
		return []string{trimmed}
	}

	paragraphs := SplitParagraphs(text)
	if len(paragraphs) > 1 {
		var chunks []string
		for _, paragraph := range paragraphs {
			chunks = append(chunks, c.recursiveChunk(paragraph, maxTokens)...)
		}
		return c.mergeSmallChunks(chunks, c.parentMinTokens)
	}

	sentences := SplitSentences(text)
	if len(sentences) > 1 {
		return c.sentenceChunk(sentences, maxTokens, c.overlapSentences)
	}

	return c.hardSplit(text, maxTokens)
}

// sentenceChunk groups sentences into chunks respecting the token limit,
// carrying overlap sentences between adjacent chunks for continuity. The
// carried overlap is never trimmed, so a chunk holding an overlap sentence
// plus one more may run slightly over maxTokens.
func (c *Chunker) sentenceChunk(sentences []string, maxTokens, overlap int) []string {
	if len(sentences) == 0 {
		return nil
	}

	var chunks []string
	var current []string
	currentTokens := 0

	for _, sentence := range sentences {
		sentenceTokens := c.tokenCount(sentence)

		// A single sentence over the limit gets hard split on its own.
		if sentenceTokens > maxTokens {
			if len(current) > 0 {
				chunks = append(chunks, strings.Join(current, " "))
			}
			chunks = append(chunks, c.hardSplit(sentence, maxTokens)...)
			current = nil
			currentTokens = 0
			continue
		}

		if currentTokens+sentenceTokens > maxTokens && len(current) > 0 {
			chunks = append(chunks, strings.Join(current, " "))
			if overlap > 0 && len(current) >= overlap {
				current = current[len(current)-overlap:]
				currentTokens = 0
				for _, s := range current {
					currentTokens += c.tokenCount(s)
				}
			} else {
				current = nil
				currentTokens = 0
			}
		}

		current = append(current, sentence)
		currentTokens += sentenceTokens
	}

	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, " "))
	}

	return chunks
}

// hardSplit slices text by word count when no sentence boundary helps.
func (c *Chunker) hardSplit(text string, maxTokens int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	wordsPerChunk := int(float64(maxTokens) * hardSplitWordRatio)
	if wordsPerChunk < 1 {
		wordsPerChunk = 1
	}

	var chunks []string
	for i := 0; i < len(words); i += wordsPerChunk {
		end := i + wordsPerChunk
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[i:end], " "))
	}
	return chunks
}

// mergeSmallChunks folds chunks under minTokens into their successors.
func (c *Chunker) mergeSmallChunks(chunks []string, minTokens int) []string {
	if len(chunks) == 0 {
		return nil
	}

	var result []string
	current := chunks[0]

	for _, chunk := range chunks[1:] {
		if c.tokenCount(current) < minTokens {
			current = current + " " + chunk
		} else {
			result = append(result, current)
			current = chunk
		}
	}
	if current != "" {
		result = append(result, current)
	}
	return result
}

func (c *Chunker) tokenCount(text string) int {
	return c.tokenizer.CountTokens(text)
}
