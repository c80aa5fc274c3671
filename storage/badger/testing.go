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

import "github.com/poiesic/docsearch/storage"

// MemoryStores bundles all in-memory repositories for testing.
type MemoryStores struct {
	Documents storage.DocumentRepository
	Chunks    storage.ChunkRepository
	Triples   storage.TripleRepository
	Vectors   storage.VectorIndex
	Backend   *Backend
}

// NewMemoryStores creates in-memory repositories over one shared backend for
// testing. Caller must close the backend when done.
func NewMemoryStores(dim int) (*MemoryStores, error) {
	backend, err := OpenBackend("", true)
	if err != nil {
		return nil, err
	}

	documents, err := NewDocumentRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	chunks, err := NewChunkRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	triples, err := NewTripleRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	vectors, err := OpenVectorIndex(backend, dim)
	if err != nil {
		backend.Close()
		return nil, err
	}

	return &MemoryStores{
		Documents: documents,
		Chunks:    chunks,
		Triples:   triples,
		Vectors:   vectors,
		Backend:   backend,
	}, nil
}

// Close closes the shared backend.
func (s *MemoryStores) Close() error {
	return s.Backend.Close()
}
