package reembed

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/poiesic/docsearch/ai"
	"github.com/poiesic/docsearch/core"
	"github.com/poiesic/docsearch/storage"
)

// BatchProcessor handles embedding generation for batches of child chunks.
type BatchProcessor struct {
	chunks         storage.ChunkRepository
	vectors        storage.VectorIndex
	embedder       ai.Embedder
	maxRetries     int
	retryBaseDelay time.Duration
}

// NewBatchProcessor creates a new batch processor.
// maxRetries: maximum number of retry attempts for embedding API calls
// retryBaseDelay: base delay for exponential backoff
func NewBatchProcessor(chunks storage.ChunkRepository, vectors storage.VectorIndex, embedder ai.Embedder, maxRetries int, retryBaseDelay time.Duration) *BatchProcessor {
	return &BatchProcessor{
		chunks:         chunks,
		vectors:        vectors,
		embedder:       embedder,
		maxRetries:     maxRetries,
		retryBaseDelay: retryBaseDelay,
	}
}

// Process embeds a batch of child chunks and upserts the resulting vectors.
// Each chunk is embedded with its parent's text prepended, matching the
// ingestion pipeline. Vectors are normalized for cosine similarity.
func (bp *BatchProcessor) Process(ctx context.Context, batch []*core.Chunk) error {
	if len(batch) == 0 {
		return nil
	}

	parentTexts, err := bp.resolveParentTexts(ctx, batch)
	if err != nil {
		return fmt.Errorf("failed to resolve parent chunks: %w", err)
	}

	texts := make([]string, len(batch))
	for i, chunk := range batch {
		texts[i] = compositeText(parentTexts[chunk.ParentId], chunk.Text)
	}

	var embeddings [][]float32
	err = RetryWithBackoff(ctx, func() error {
		var embedErr error
		embeddings, embedErr = bp.embedder.EmbedTexts(ctx, texts)
		return embedErr
	}, bp.maxRetries, bp.retryBaseDelay)
	if err != nil {
		return fmt.Errorf("failed to generate embeddings after %d attempts: %w", bp.maxRetries, err)
	}

	if len(embeddings) != len(batch) {
		return fmt.Errorf("embedding count mismatch: expected %d, got %d", len(batch), len(embeddings))
	}

	points := make([]*core.VectorPoint, len(batch))
	ids := make([]core.ID, len(batch))
	for i, chunk := range batch {
		points[i] = &core.VectorPoint{
			ChunkId:    chunk.Id,
			DocumentId: chunk.DocumentId,
			PageNumber: chunk.PageNumber,
			ChunkIndex: chunk.ChunkIndex,
			Text:       chunk.Text,
			ParentText: parentTexts[chunk.ParentId],
			Vector:     NormalizeVector(embeddings[i]),
		}
		ids[i] = chunk.Id
	}

	if err := bp.vectors.Upsert(ctx, points...); err != nil {
		return fmt.Errorf("failed to upsert vectors: %w", err)
	}
	if err := bp.chunks.MarkEmbedded(ctx, ids...); err != nil {
		return fmt.Errorf("failed to mark chunks embedded: %w", err)
	}

	return nil
}

// resolveParentTexts fetches the parent chunks referenced by a batch.
func (bp *BatchProcessor) resolveParentTexts(ctx context.Context, batch []*core.Chunk) (map[core.ID]string, error) {
	unique := make(map[core.ID]bool, len(batch))
	var parentIDs []core.ID
	for _, chunk := range batch {
		if chunk.ParentId != 0 && !unique[chunk.ParentId] {
			unique[chunk.ParentId] = true
			parentIDs = append(parentIDs, chunk.ParentId)
		}
	}

	parents, err := bp.chunks.GetChunks(ctx, parentIDs...)
	if err != nil {
		return nil, err
	}

	texts := make(map[core.ID]string, len(parents))
	for _, parent := range parents {
		texts[parent.Id] = parent.Text
	}
	return texts, nil
}

func compositeText(parentText, childText string) string {
	parentText = strings.TrimSpace(parentText)
	childText = strings.TrimSpace(childText)
	if parentText == "" || parentText == childText {
		return childText
	}
	return parentText + "\n" + childText
}
