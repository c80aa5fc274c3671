package badger

import (
	"context"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/docsearch/core"
	"github.com/poiesic/docsearch/storage"
)

// TripleRepository implements storage.TripleRepository for BadgerDB.
type TripleRepository struct {
	backend *Backend
}

var _ storage.TripleRepository = (*TripleRepository)(nil)

// NewTripleRepository creates a new TripleRepository.
func NewTripleRepository(backend *Backend) (*TripleRepository, error) {
	return &TripleRepository{
		backend: backend,
	}, nil
}

// Close releases resources. TripleRepository has no resources to release.
func (r *TripleRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *TripleRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddTriples adds one or more triples to storage, committing in batches.
// Triples without an ID get a content-based one so re-ingesting the same
// chunk overwrites rather than duplicates.
func (r *TripleRepository) AddTriples(ctx context.Context, triples ...*core.Triple) ([]*core.Triple, error) {
	for _, triple := range triples {
		if triple.Id == 0 {
			triple.Id = core.IDFromContent(fmt.Sprintf("%d:%s:%s:%s",
				triple.ChunkId, triple.Subject, triple.Predicate, triple.Object))
		}
		if err := core.ValidateTriple(triple); err != nil {
			return nil, err
		}
	}

	for start := 0; start < len(triples); start += insertBatchSize {
		end := start + insertBatchSize
		if end > len(triples) {
			end = len(triples)
		}
		batch := triples[start:end]

		err := r.backend.WithTx(func(tx *badger.Txn) error {
			for _, triple := range batch {
				if err := tx.Set(makeTripleKey(triple.Id), storage.MarshalTriple(triple)); err != nil {
					return err
				}
				docKey := makeTripleDocKey(triple.DocumentId, triple.Id)
				if err := tx.Set(docKey, storage.MarshalID(triple.Id)); err != nil {
					return err
				}
			}
			return tx.Commit()
		}, true)
		if err != nil {
			return nil, err
		}
	}

	return triples, nil
}

// ScanTriples streams every stored triple to fn.
func (r *TripleRepository) ScanTriples(ctx context.Context, fn func(triple *core.Triple) (bool, error)) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(triplePrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			var triple *core.Triple
			err := iter.Item().Value(func(val []byte) error {
				var err error
				triple, err = storage.UnmarshalTriple(val)
				return err
			})
			if err != nil {
				return err
			}
			if triple == nil {
				continue
			}

			cont, err := fn(triple)
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

// DeleteByDocument removes all triples of a document and their index entries.
func (r *TripleRepository) DeleteByDocument(ctx context.Context, docID core.DocumentID) error {
	var tripleKeys, indexKeys [][]byte
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeTripleDocPrefix(docID)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			item := iter.Item()
			indexKeys = append(indexKeys, item.KeyCopy(nil))

			var tripleID core.ID
			err := item.Value(func(val []byte) error {
				var err error
				tripleID, err = storage.UnmarshalID(val)
				return err
			})
			if err != nil {
				return err
			}
			tripleKeys = append(tripleKeys, makeTripleKey(tripleID))
		}
		return nil
	}, false)
	if err != nil {
		return err
	}

	return deleteKeysBatched(r.backend, append(tripleKeys, indexKeys...))
}
