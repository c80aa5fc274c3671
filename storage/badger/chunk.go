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
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/docsearch/core"
	"github.com/poiesic/docsearch/storage"
)

// insertBatchSize bounds how many records go into one write transaction, so
// a large document cannot overflow BadgerDB's transaction size limit.
const insertBatchSize = 100

// ChunkRepository implements storage.ChunkRepository for BadgerDB.
type ChunkRepository struct {
	backend *Backend
}

var _ storage.ChunkRepository = (*ChunkRepository)(nil)

// NewChunkRepository creates a new ChunkRepository.
func NewChunkRepository(backend *Backend) (*ChunkRepository, error) {
	return &ChunkRepository{
		backend: backend,
	}, nil
}

// Close releases resources. ChunkRepository has no resources to release.
func (r *ChunkRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *ChunkRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddChunks adds one or more chunks to storage, committing in batches.
func (r *ChunkRepository) AddChunks(ctx context.Context, chunks ...*core.Chunk) ([]*core.Chunk, error) {
	for _, chunk := range chunks {
		if err := core.ValidateChunk(chunk); err != nil {
			return nil, err
		}
	}

	for start := 0; start < len(chunks); start += insertBatchSize {
		end := start + insertBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]

		err := r.backend.WithTx(func(tx *badger.Txn) error {
			for _, chunk := range batch {
				if err := tx.Set(makeChunkKey(chunk.Id), storage.MarshalChunk(chunk)); err != nil {
					return err
				}
				docKey := makeChunkDocKey(chunk.DocumentId, chunk.PageNumber, chunk.Type, chunk.ChunkIndex)
				if err := tx.Set(docKey, storage.MarshalID(chunk.Id)); err != nil {
					return err
				}
			}
			return tx.Commit()
		}, true)
		if err != nil {
			return nil, err
		}
	}

	return chunks, nil
}

// GetChunk retrieves a single chunk by ID.
func (r *ChunkRepository) GetChunk(ctx context.Context, id core.ID) (*core.Chunk, error) {
	var result *core.Chunk
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readChunk(tx, makeChunkKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return fmt.Errorf("%w: chunk %d", storage.ErrNotFound, id)
		}
		return nil
	}, false)
	return result, err
}

// GetChunks retrieves multiple chunks by their IDs.
// Missing chunks are skipped without error.
func (r *ChunkRepository) GetChunks(ctx context.Context, ids ...core.ID) ([]*core.Chunk, error) {
	var results []*core.Chunk
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			chunk, err := readChunk(tx, makeChunkKey(id))
			if err != nil {
				return err
			}
			if chunk != nil {
				results = append(results, chunk)
			}
		}
		return nil
	}, false)
	return results, err
}

// GetChunksByDocument retrieves all chunks of a document via the
// per-document index, ordered by (page, type, index).
func (r *ChunkRepository) GetChunksByDocument(ctx context.Context, docID core.DocumentID) ([]*core.Chunk, error) {
	var results []*core.Chunk
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeChunkDocPrefix(docID)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var chunkID core.ID
			err := iter.Item().Value(func(val []byte) error {
				var err error
				chunkID, err = storage.UnmarshalID(val)
				return err
			})
			if err != nil {
				return err
			}

			chunk, err := readChunk(tx, makeChunkKey(chunkID))
			if err != nil {
				return err
			}
			if chunk != nil {
				results = append(results, chunk)
			}
		}
		return nil
	}, false)
	return results, err
}

// MarkEmbedded flips the Embedded flag on the given chunks.
func (r *ChunkRepository) MarkEmbedded(ctx context.Context, ids ...core.ID) error {
	for start := 0; start < len(ids); start += insertBatchSize {
		end := start + insertBatchSize
		if end > len(ids) {
			end = len(ids)
		}
		batch := ids[start:end]

		err := r.backend.WithTx(func(tx *badger.Txn) error {
			for _, id := range batch {
				key := makeChunkKey(id)
				chunk, err := readChunk(tx, key)
				if err != nil {
					return err
				}
				if chunk == nil {
					return fmt.Errorf("%w: chunk %d", storage.ErrNotFound, id)
				}
				chunk.Embedded = true
				if err := tx.Set(key, storage.MarshalChunk(chunk)); err != nil {
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

// DeleteByDocument removes all chunks of a document and their index entries.
func (r *ChunkRepository) DeleteByDocument(ctx context.Context, docID core.DocumentID) error {
	// Collect keys first so deletion can be batched.
	var chunkKeys, indexKeys [][]byte
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeChunkDocPrefix(docID)
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
			chunkKeys = append(chunkKeys, makeChunkKey(chunkID))
		}
		return nil
	}, false)
	if err != nil {
		return err
	}

	return deleteKeysBatched(r.backend, append(chunkKeys, indexKeys...))
}

// ScanChunks streams every stored chunk to fn.
func (r *ChunkRepository) ScanChunks(ctx context.Context, fn func(chunk *core.Chunk) (bool, error)) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(chunkPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			var chunk *core.Chunk
			err := iter.Item().Value(func(val []byte) error {
				var err error
				chunk, err = storage.UnmarshalChunk(val)
				return err
			})
			if err != nil {
				return err
			}
			if chunk == nil {
				continue
			}

			cont, err := fn(chunk)
			if err != nil {
				return err
			}
			if !cont {
				return nil
			}
		}
		return nil
	}, false)
}

// deleteKeysBatched removes keys in batches of insertBatchSize.
func deleteKeysBatched(backend *Backend, keys [][]byte) error {
	for start := 0; start < len(keys); start += insertBatchSize {
		end := start + insertBatchSize
		if end > len(keys) {
			end = len(keys)
		}
		batch := keys[start:end]

		err := backend.WithTx(func(tx *badger.Txn) error {
			for _, key := range batch {
				if err := tx.Delete(key); err != nil {
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

// readChunk reads a chunk from the transaction.
// Returns nil without error if the key does not exist.
func readChunk(tx *badger.Txn, key []byte) (*core.Chunk, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var chunk *core.Chunk
	err = item.Value(func(val []byte) error {
		var err error
		chunk, err = storage.UnmarshalChunk(val)
		return err
	})
	return chunk, err
}
