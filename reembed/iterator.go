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


package reembed

import (
	"context"

	"github.com/poiesic/docsearch/core"
	"github.com/poiesic/docsearch/storage"
)

const (
	// DefaultBatchSize is the default number of chunks to process in each batch
	DefaultBatchSize = 100
)

// ChunkIterator iterates over all embedded child chunks in batches.
// Only CHILD chunks carry vectors, so parents are skipped.
type ChunkIterator struct {
	repo      storage.ChunkRepository
	batchSize int
}

// NewChunkIterator creates a new chunk iterator.
// batchSize: number of chunks to process in each batch (must be > 0)
func NewChunkIterator(repo storage.ChunkRepository, batchSize int) *ChunkIterator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	return &ChunkIterator{
		repo:      repo,
		batchSize: batchSize,
	}
}

// Count returns the number of child chunks the iterator would visit.
func (it *ChunkIterator) Count(ctx context.Context) (int, error) {
	count := 0
	err := it.repo.ScanChunks(ctx, func(chunk *core.Chunk) (bool, error) {
		if chunk.Type == core.ChunkTypeChild {
			count++
		}
		return true, nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// ForEach iterates over all child chunks, calling fn for each batch.
// Iteration stops on first error from fn or when all chunks are processed.
// Context cancellation is checked between batches.
func (it *ChunkIterator) ForEach(ctx context.Context, fn func([]*core.Chunk) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	var children []*core.Chunk
	err := it.repo.ScanChunks(ctx, func(chunk *core.Chunk) (bool, error) {
		if chunk.Type == core.ChunkTypeChild {
			children = append(children, chunk)
		}
		return true, nil
	})
	if err != nil {
		return err
	}

	for i := 0; i < len(children); i += it.batchSize {
		end := i + it.batchSize
		if end > len(children) {
			end = len(children)
		}

		if err := fn(children[i:end]); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}

	return nil
}
