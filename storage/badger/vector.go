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


package badger

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"slices"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/docsearch/core"
	"github.com/poiesic/docsearch/storage"
)

// VectorIndex implements storage.VectorIndex for BadgerDB with a brute-force
// cosine similarity scan. Corpora here are page-level child chunks of a
// document set, small enough that a linear scan stays fast and exact.
type VectorIndex struct {
	backend *Backend
	dim     int
}

var _ storage.VectorIndex = (*VectorIndex)(nil)

// OpenVectorIndex opens the vector index at the configured dimensionality.
// The dimension is pinned in storage on first open; reopening with a
// different value fails with ErrDimensionMismatch, since vectors from a
// different embedding model cannot be compared to the stored ones.
func OpenVectorIndex(backend *Backend, dim int) (*VectorIndex, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("%w: dimension must be positive, got %d", storage.ErrInvalidQuery, dim)
	}

	err := backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get([]byte(vectorDimKey))
		if err == badger.ErrKeyNotFound {
			buf := make([]byte, 8)
			binary.BigEndian.PutUint64(buf, uint64(dim))
			if err := tx.Set([]byte(vectorDimKey), buf); err != nil {
				return err
			}
			return tx.Commit()
		}
		if err != nil {
			return err
		}

		var stored uint64
		err = item.Value(func(val []byte) error {
			if len(val) != 8 {
				return fmt.Errorf("%w: malformed dimension marker", storage.ErrSerializationFailed)
			}
			stored = binary.BigEndian.Uint64(val)
			return nil
		})
		if err != nil {
			return err
		}
		if int(stored) != dim {
			return fmt.Errorf("%w: index stores %d-dimensional vectors, configured for %d",
				storage.ErrDimensionMismatch, stored, dim)
		}
		return nil
	}, true)
	if err != nil {
		return nil, err
	}

	return &VectorIndex{
		backend: backend,
		dim:     dim,
	}, nil
}

// Dim returns the fixed dimensionality of the index.
func (v *VectorIndex) Dim() int {
	return v.dim
}

// Close releases resources. VectorIndex has no resources to release.
func (v *VectorIndex) Close() error {
	return nil
}

// Upsert inserts or replaces points keyed by chunk ID, committing in batches.
func (v *VectorIndex) Upsert(ctx context.Context, points ...*core.VectorPoint) error {
	for _, point := range points {
		if len(point.Vector) != v.dim {
			return fmt.Errorf("%w: point %d has %d dimensions, index expects %d",
				storage.ErrDimensionMismatch, point.ChunkId, len(point.Vector), v.dim)
		}
	}

	for start := 0; start < len(points); start += insertBatchSize {
		end := start + insertBatchSize
		if end > len(points) {
			end = len(points)
		}
		batch := points[start:end]

		err := v.backend.WithTx(func(tx *badger.Txn) error {
			for _, point := range batch {
				if err := tx.Set(makeVectorKey(point.ChunkId), storage.MarshalVectorPoint(point)); err != nil {
					return err
				}
				docKey := makeVectorDocKey(point.DocumentId, point.ChunkId)
				if err := tx.Set(docKey, storage.MarshalID(point.ChunkId)); err != nil {
					return err
				}
			}
			return tx.Commit()
		}, true)
		if err != nil {
			return err
		}
	}
	return nil
}

// Search returns the topK points most similar to vector, ordered by cosine
// similarity descending. An empty allowedDocs searches all documents.
func (v *VectorIndex) Search(ctx context.Context, vector []float32, topK int, allowedDocs []core.DocumentID) ([]*core.VectorMatch, error) {
	if len(vector) != v.dim {
		return nil, fmt.Errorf("%w: query has %d dimensions, index expects %d",
			storage.ErrDimensionMismatch, len(vector), v.dim)
	}
	if topK <= 0 {
		return nil, fmt.Errorf("%w: topK must be positive, got %d", storage.ErrInvalidQuery, topK)
	}

	var allowed map[core.DocumentID]bool
	if len(allowedDocs) > 0 {
		allowed = make(map[core.DocumentID]bool, len(allowedDocs))
		for _, docID := range allowedDocs {
			allowed[docID] = true
		}
	}

	var results []*core.VectorMatch
	err := v.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(vectorPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			var point *core.VectorPoint
			err := iter.Item().Value(func(val []byte) error {
				var err error
				point, err = storage.UnmarshalVectorPoint(val)
				return err
			})
			if err != nil {
				return err
			}
			if point == nil || len(point.Vector) == 0 {
				continue
			}
			if allowed != nil && !allowed[point.DocumentId] {
				continue
			}

			results = append(results, &core.VectorMatch{
				Point: point,
				Score: cosineSimilarity(vector, point.Vector),
			})
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	// Sort by similarity descending
	slices.SortFunc(results, func(a, b *core.VectorMatch) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		return 0
	})

	if len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

// DeleteByDocument removes all points of a document and their index entries.
func (v *VectorIndex) DeleteByDocument(ctx context.Context, docID core.DocumentID) error {
	var vectorKeys, indexKeys [][]byte
	err := v.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeVectorDocPrefix(docID)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			item := iter.Item()
			indexKeys = append(indexKeys, item.KeyCopy(nil))

			var chunkID core.ID
			err := item.Value(func(val []byte) error {
				var err error
				chunkID, err = storage.UnmarshalID(val)
				return err
			})
			if err != nil {
				return err
			}
			vectorKeys = append(vectorKeys, makeVectorKey(chunkID))
		}
		return nil
	}, false)
	if err != nil {
		return err
	}

	return deleteKeysBatched(v.backend, append(vectorKeys, indexKeys...))
}

// cosineSimilarity computes the cosine of the angle between two vectors.
// Zero-magnitude vectors score 0.
func cosineSimilarity(a, b []float32) float32 {
	var dot, normA, normB float64
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
