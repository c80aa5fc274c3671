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


package storage

import (
	"github.com/poiesic/docsearch/core"
)

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, core.IDMUS.Size(id))
	core.IDMUS.Marshal(id, buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	id, _, err := core.IDMUS.Unmarshal(data)
	return id, err
}

// MarshalDocument serializes a Document to bytes.
func MarshalDocument(doc *core.Document) []byte {
	buf := make([]byte, core.DocumentMUS.Size(*doc))
	core.DocumentMUS.Marshal(*doc, buf)
	return buf
}

// UnmarshalDocument deserializes a Document from bytes.
func UnmarshalDocument(data []byte) (*core.Document, error) {
	doc, _, err := core.DocumentMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// MarshalChunk serializes a Chunk to bytes.
func MarshalChunk(chunk *core.Chunk) []byte {
	buf := make([]byte, core.ChunkMUS.Size(*chunk))
	core.ChunkMUS.Marshal(*chunk, buf)
	return buf
}

// UnmarshalChunk deserializes a Chunk from bytes.
func UnmarshalChunk(data []byte) (*core.Chunk, error) {
	chunk, _, err := core.ChunkMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &chunk, nil
}

// MarshalTriple serializes a Triple to bytes.
func MarshalTriple(triple *core.Triple) []byte {
	buf := make([]byte, core.TripleMUS.Size(*triple))
	core.TripleMUS.Marshal(*triple, buf)
	return buf
}

// UnmarshalTriple deserializes a Triple from bytes.
func UnmarshalTriple(data []byte) (*core.Triple, error) {
	triple, _, err := core.TripleMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &triple, nil
}

// MarshalVectorPoint serializes a VectorPoint to bytes.
func MarshalVectorPoint(point *core.VectorPoint) []byte {
	buf := make([]byte, core.VectorPointMUS.Size(*point))
	core.VectorPointMUS.Marshal(*point, buf)
	return buf
}

// UnmarshalVectorPoint deserializes a VectorPoint from bytes.
func UnmarshalVectorPoint(data []byte) (*core.VectorPoint, error) {
	point, _, err := core.VectorPointMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &point, nil
}
