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


package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/docsearch/ai"
	"github.com/poiesic/docsearch/core"
	"github.com/poiesic/docsearch/storage"
	"github.com/poiesic/docsearch/textproc"
)

const (
	// maxTriplesPerChunk bounds relation extraction per child chunk.
	maxTriplesPerChunk = 5

	// embedBatchSize is how many child chunks are embedded and upserted per
	// round trip to the embedding adapter.
	embedBatchSize = 32
)

// documentProcessor runs the full derivation for one document: clean, chunk,
// extract relations, embed, index.
type documentProcessor struct {
	documents storage.DocumentRepository
	chunks    storage.ChunkRepository
	triples   storage.TripleRepository
	vectors   storage.VectorIndex
	chunker   *textproc.Chunker
	embedder  ai.Embedder
	extractor ai.RelationExtractor
	logger    *slog.Logger
}

func newDocumentProcessor(
	documents storage.DocumentRepository,
	chunks storage.ChunkRepository,
	triples storage.TripleRepository,
	vectors storage.VectorIndex,
	chunker *textproc.Chunker,
	embedder ai.Embedder,
	extractor ai.RelationExtractor,
	logger *slog.Logger,
) *documentProcessor {
	if logger == nil {
		logger = slog.Default()
	}
	return &documentProcessor{
		documents: documents,
		chunks:    chunks,
		triples:   triples,
		vectors:   vectors,
		chunker:   chunker,
		embedder:  embedder,
		extractor: extractor,
		logger:    logger.With("processor", "document"),
	}
}

// process drives the document through PROCESSING to COMPLETED. On any
// failure it rolls derived data back, records the error on the document, and
// returns the failure.
func (dp *documentProcessor) process(ctx context.Context, docID core.DocumentID, pages []string) error {
	if err := dp.documents.SetStatus(ctx, docID, core.DocumentStatusProcessing, ""); err != nil {
		return err
	}

	if err := dp.derive(ctx, docID, pages); err != nil {
		dp.logger.Error("document processing failed", "documentID", docID, "err", err)
		dp.rollback(ctx, docID)
		if statusErr := dp.documents.SetStatus(ctx, docID, core.DocumentStatusFailed, err.Error()); statusErr != nil {
			dp.logger.Error("error recording failed status", "documentID", docID, "err", statusErr)
		}
		return err
	}

	return dp.documents.SetStatus(ctx, docID, core.DocumentStatusCompleted, "")
}

func (dp *documentProcessor) derive(ctx context.Context, docID core.DocumentID, pages []string) error {
	if err := dp.documents.SetPageCount(ctx, docID, len(pages)); err != nil {
		return err
	}

	var children []*core.Chunk
	parentTexts := make(map[core.ID]string)

	for i, raw := range pages {
		page := i + 1
		cleaned := textproc.Clean(raw)
		if cleaned == "" {
			dp.logger.Debug("page empty after cleaning", "documentID", docID, "page", page)
			continue
		}

		parents, pageChildren := dp.chunker.ChunkPage(docID, page, cleaned)
		for _, parent := range parents {
			parentTexts[parent.Id] = parent.Text
		}

		all := make([]*core.Chunk, 0, len(parents)+len(pageChildren))
		all = append(all, parents...)
		all = append(all, pageChildren...)
		if _, err := dp.chunks.AddChunks(ctx, all...); err != nil {
			return fmt.Errorf("storing chunks for page %d: %w", page, err)
		}
		children = append(children, pageChildren...)
	}

	if err := dp.extractTriples(ctx, docID, children); err != nil {
		return err
	}

	return dp.embedChildren(ctx, docID, children, parentTexts)
}

// extractTriples derives relations from every child chunk. Extraction never
// hard-fails; a chunk that yields nothing simply contributes no triples.
func (dp *documentProcessor) extractTriples(ctx context.Context, docID core.DocumentID, children []*core.Chunk) error {
	var triples []*core.Triple
	for _, child := range children {
		relations, err := dp.extractor.ExtractRelations(ctx, child.Text, maxTriplesPerChunk)
		if err != nil {
			dp.logger.Warn("relation extraction failed, skipping chunk",
				"chunkID", child.Id, "err", err)
			continue
		}
		for _, rel := range relations {
			triples = append(triples, &core.Triple{
				ChunkId:    child.Id,
				DocumentId: docID,
				PageNumber: child.PageNumber,
				ChunkIndex: child.ChunkIndex,
				Subject:    rel.Subject,
				Predicate:  rel.Predicate,
				Object:     rel.Object,
			})
		}
	}

	if len(triples) == 0 {
		return nil
	}
	if _, err := dp.triples.AddTriples(ctx, triples...); err != nil {
		return fmt.Errorf("storing triples: %w", err)
	}
	return nil
}

// embedChildren embeds child chunks in batches and upserts the vectors.
// Each chunk is embedded with its parent's text prepended so the vector
// carries surrounding context beyond the child's own words.
func (dp *documentProcessor) embedChildren(ctx context.Context, docID core.DocumentID, children []*core.Chunk, parentTexts map[core.ID]string) error {
	for start := 0; start < len(children); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(children) {
			end = len(children)
		}
		batch := children[start:end]

		texts := make([]string, len(batch))
		for i, child := range batch {
			texts[i] = compositeEmbeddingText(parentTexts[child.ParentId], child.Text)
		}

		embeddings, err := dp.embedder.EmbedTexts(ctx, texts)
		if err != nil {
			return fmt.Errorf("embedding chunk batch: %w", err)
		}
		if len(embeddings) != len(batch) {
			return fmt.Errorf("embedding result mismatch. expected %d, received %d", len(batch), len(embeddings))
		}

		points := make([]*core.VectorPoint, len(batch))
		ids := make([]core.ID, len(batch))
		for i, child := range batch {
			points[i] = &core.VectorPoint{
				ChunkId:    child.Id,
				DocumentId: docID,
				PageNumber: child.PageNumber,
				ChunkIndex: child.ChunkIndex,
				Text:       child.Text,
				ParentText: parentTexts[child.ParentId],
				Vector:     embeddings[i],
			}
			ids[i] = child.Id
		}

		if err := dp.vectors.Upsert(ctx, points...); err != nil {
			return fmt.Errorf("upserting vectors: %w", err)
		}
		if err := dp.chunks.MarkEmbedded(ctx, ids...); err != nil {
			return fmt.Errorf("marking chunks embedded: %w", err)
		}
	}
	return nil
}

// rollback removes derived data in reverse dependency order. Best effort;
// each failure is logged and the remaining cleanup still runs.
func (dp *documentProcessor) rollback(ctx context.Context, docID core.DocumentID) {
	if err := dp.vectors.DeleteByDocument(ctx, docID); err != nil {
		dp.logger.Error("rollback: error deleting vectors", "documentID", docID, "err", err)
	}
	if err := dp.triples.DeleteByDocument(ctx, docID); err != nil {
		dp.logger.Error("rollback: error deleting triples", "documentID", docID, "err", err)
	}
	if err := dp.chunks.DeleteByDocument(ctx, docID); err != nil {
		dp.logger.Error("rollback: error deleting chunks", "documentID", docID, "err", err)
	}
}

// compositeEmbeddingText prepends the parent's text to the child's so the
// embedding sees surrounding context. A standalone child (its own parent)
// embeds just once.
func compositeEmbeddingText(parentText, childText string) string {
	parentText = strings.TrimSpace(parentText)
	childText = strings.TrimSpace(childText)
	if parentText == "" || parentText == childText {
		return childText
	}
	return parentText + "\n" + childText
}
