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


package core

import (
	"math"
	"time"

	"github.com/mus-format/mus-go/varint"
)

// MUS serializers for persisted record types. Field order is part of the
// stored format; append new fields at the end only.

// IDMUS serializes IDs.
var IDMUS = idMUS{}

type idMUS struct{}

func (idMUS) Marshal(id ID, bs []byte) int {
	return varint.Uint64.Marshal(uint64(id), bs)
}

func (idMUS) Unmarshal(bs []byte) (ID, int, error) {
	v, n, err := varint.Uint64.Unmarshal(bs)
	return ID(v), n, err
}

func (idMUS) Size(id ID) int {
	return varint.Uint64.Size(uint64(id))
}

// DocumentMUS serializes Documents.
var DocumentMUS = documentMUS{}

type documentMUS struct{}

func (documentMUS) Marshal(doc Document, bs []byte) int {
	n := marshalString(string(doc.Id), bs)
	n += marshalString(doc.Name, bs[n:])
	n += varint.Int.Marshal(int(doc.Status), bs[n:])
	n += marshalString(doc.ErrorMessage, bs[n:])
	n += varint.Int.Marshal(doc.PageCount, bs[n:])
	n += marshalTime(doc.CreatedAt, bs[n:])
	n += marshalTime(doc.UpdatedAt, bs[n:])
	return n
}

func (documentMUS) Unmarshal(bs []byte) (Document, int, error) {
	var doc Document
	id, n, err := unmarshalString(bs)
	if err != nil {
		return doc, n, err
	}
	doc.Id = DocumentID(id)

	doc.Name, n, err = unmarshalNextString(bs, n)
	if err != nil {
		return doc, n, err
	}

	status, m, err := varint.Int.Unmarshal(bs[n:])
	n += m
	if err != nil {
		return doc, n, err
	}
	doc.Status = DocumentStatus(status)

	doc.ErrorMessage, n, err = unmarshalNextString(bs, n)
	if err != nil {
		return doc, n, err
	}

	doc.PageCount, m, err = varint.Int.Unmarshal(bs[n:])
	n += m
	if err != nil {
		return doc, n, err
	}

	doc.CreatedAt, n, err = unmarshalNextTime(bs, n)
	if err != nil {
		return doc, n, err
	}

	doc.UpdatedAt, n, err = unmarshalNextTime(bs, n)
	return doc, n, err
}

func (documentMUS) Size(doc Document) int {
	return sizeString(string(doc.Id)) +
		sizeString(doc.Name) +
		varint.Int.Size(int(doc.Status)) +
		sizeString(doc.ErrorMessage) +
		varint.Int.Size(doc.PageCount) +
		sizeTime(doc.CreatedAt) +
		sizeTime(doc.UpdatedAt)
}

// ChunkMUS serializes Chunks.
var ChunkMUS = chunkMUS{}

type chunkMUS struct{}

func (chunkMUS) Marshal(chunk Chunk, bs []byte) int {
	n := IDMUS.Marshal(chunk.Id, bs)
	n += marshalString(string(chunk.DocumentId), bs[n:])
	n += varint.Int.Marshal(chunk.PageNumber, bs[n:])
	n += varint.Int.Marshal(chunk.ChunkIndex, bs[n:])
	n += varint.Int.Marshal(int(chunk.Type), bs[n:])
	n += IDMUS.Marshal(chunk.ParentId, bs[n:])
	n += marshalString(chunk.Text, bs[n:])
	n += varint.Int.Marshal(chunk.CharLength, bs[n:])
	n += varint.Int.Marshal(chunk.TokenCount, bs[n:])
	n += marshalBool(chunk.Embedded, bs[n:])
	return n
}

func (chunkMUS) Unmarshal(bs []byte) (Chunk, int, error) {
	var chunk Chunk
	id, n, err := IDMUS.Unmarshal(bs)
	if err != nil {
		return chunk, n, err
	}
	chunk.Id = id

	docID, n, err := unmarshalNextString(bs, n)
	if err != nil {
		return chunk, n, err
	}
	chunk.DocumentId = DocumentID(docID)

	var m int
	chunk.PageNumber, m, err = varint.Int.Unmarshal(bs[n:])
	n += m
	if err != nil {
		return chunk, n, err
	}

	chunk.ChunkIndex, m, err = varint.Int.Unmarshal(bs[n:])
	n += m
	if err != nil {
		return chunk, n, err
	}

	chunkType, m, err := varint.Int.Unmarshal(bs[n:])
	n += m
	if err != nil {
		return chunk, n, err
	}
	chunk.Type = ChunkType(chunkType)

	parentID, m, err := IDMUS.Unmarshal(bs[n:])
	n += m
	if err != nil {
		return chunk, n, err
	}
	chunk.ParentId = parentID

	chunk.Text, n, err = unmarshalNextString(bs, n)
	if err != nil {
		return chunk, n, err
	}

	chunk.CharLength, m, err = varint.Int.Unmarshal(bs[n:])
	n += m
	if err != nil {
		return chunk, n, err
	}

	chunk.TokenCount, m, err = varint.Int.Unmarshal(bs[n:])
	n += m
	if err != nil {
		return chunk, n, err
	}

	chunk.Embedded, m, err = unmarshalBool(bs[n:])
	n += m
	return chunk, n, err
}

func (chunkMUS) Size(chunk Chunk) int {
	return IDMUS.Size(chunk.Id) +
		sizeString(string(chunk.DocumentId)) +
		varint.Int.Size(chunk.PageNumber) +
		varint.Int.Size(chunk.ChunkIndex) +
		varint.Int.Size(int(chunk.Type)) +
		IDMUS.Size(chunk.ParentId) +
		sizeString(chunk.Text) +
		varint.Int.Size(chunk.CharLength) +
		varint.Int.Size(chunk.TokenCount) +
		1
}

// TripleMUS serializes Triples.
var TripleMUS = tripleMUS{}

type tripleMUS struct{}

func (tripleMUS) Marshal(triple Triple, bs []byte) int {
	n := IDMUS.Marshal(triple.Id, bs)
	n += IDMUS.Marshal(triple.ChunkId, bs[n:])
	n += marshalString(string(triple.DocumentId), bs[n:])
	n += varint.Int.Marshal(triple.PageNumber, bs[n:])
	n += varint.Int.Marshal(triple.ChunkIndex, bs[n:])
	n += marshalString(triple.Subject, bs[n:])
	n += marshalString(triple.Predicate, bs[n:])
	n += marshalString(triple.Object, bs[n:])
	return n
}

func (tripleMUS) Unmarshal(bs []byte) (Triple, int, error) {
	var triple Triple
	id, n, err := IDMUS.Unmarshal(bs)
	if err != nil {
		return triple, n, err
	}
	triple.Id = id

	chunkID, m, err := IDMUS.Unmarshal(bs[n:])
	n += m
	if err != nil {
		return triple, n, err
	}
	triple.ChunkId = chunkID

	docID, n, err := unmarshalNextString(bs, n)
	if err != nil {
		return triple, n, err
	}
	triple.DocumentId = DocumentID(docID)

	triple.PageNumber, m, err = varint.Int.Unmarshal(bs[n:])
	n += m
	if err != nil {
		return triple, n, err
	}

	triple.ChunkIndex, m, err = varint.Int.Unmarshal(bs[n:])
	n += m
	if err != nil {
		return triple, n, err
	}

	triple.Subject, n, err = unmarshalNextString(bs, n)
	if err != nil {
		return triple, n, err
	}

	triple.Predicate, n, err = unmarshalNextString(bs, n)
	if err != nil {
		return triple, n, err
	}

	triple.Object, n, err = unmarshalNextString(bs, n)
	return triple, n, err
}

func (tripleMUS) Size(triple Triple) int {
	return IDMUS.Size(triple.Id) +
		IDMUS.Size(triple.ChunkId) +
		sizeString(string(triple.DocumentId)) +
		varint.Int.Size(triple.PageNumber) +
		varint.Int.Size(triple.ChunkIndex) +
		sizeString(triple.Subject) +
		sizeString(triple.Predicate) +
		sizeString(triple.Object)
}

// VectorPointMUS serializes VectorPoints.
var VectorPointMUS = vectorPointMUS{}

type vectorPointMUS struct{}

func (vectorPointMUS) Marshal(point VectorPoint, bs []byte) int {
	n := IDMUS.Marshal(point.ChunkId, bs)
	n += marshalString(string(point.DocumentId), bs[n:])
	n += varint.Int.Marshal(point.PageNumber, bs[n:])
	n += varint.Int.Marshal(point.ChunkIndex, bs[n:])
	n += marshalString(point.Text, bs[n:])
	n += marshalString(point.ParentText, bs[n:])
	n += varint.Int.Marshal(len(point.Vector), bs[n:])
	for _, v := range point.Vector {
		n += varint.Uint64.Marshal(uint64(math.Float32bits(v)), bs[n:])
	}
	return n
}

func (vectorPointMUS) Unmarshal(bs []byte) (VectorPoint, int, error) {
	var point VectorPoint
	id, n, err := IDMUS.Unmarshal(bs)
	if err != nil {
		return point, n, err
	}
	point.ChunkId = id

	docID, n, err := unmarshalNextString(bs, n)
	if err != nil {
		return point, n, err
	}
	point.DocumentId = DocumentID(docID)

	var m int
	point.PageNumber, m, err = varint.Int.Unmarshal(bs[n:])
	n += m
	if err != nil {
		return point, n, err
	}

	point.ChunkIndex, m, err = varint.Int.Unmarshal(bs[n:])
	n += m
	if err != nil {
		return point, n, err
	}

	point.Text, n, err = unmarshalNextString(bs, n)
	if err != nil {
		return point, n, err
	}

	point.ParentText, n, err = unmarshalNextString(bs, n)
	if err != nil {
		return point, n, err
	}

	length, m, err := varint.Int.Unmarshal(bs[n:])
	n += m
	if err != nil {
		return point, n, err
	}
	if length < 0 {
		return point, n, ErrTruncatedData
	}

	point.Vector = make([]float32, length)
	for i := 0; i < length; i++ {
		bits, m, err := varint.Uint64.Unmarshal(bs[n:])
		n += m
		if err != nil {
			return point, n, err
		}
		point.Vector[i] = math.Float32frombits(uint32(bits))
	}
	return point, n, nil
}

func (vectorPointMUS) Size(point VectorPoint) int {
	size := IDMUS.Size(point.ChunkId) +
		sizeString(string(point.DocumentId)) +
		varint.Int.Size(point.PageNumber) +
		varint.Int.Size(point.ChunkIndex) +
		sizeString(point.Text) +
		sizeString(point.ParentText) +
		varint.Int.Size(len(point.Vector))
	for _, v := range point.Vector {
		size += varint.Uint64.Size(uint64(math.Float32bits(v)))
	}
	return size
}

// Primitive helpers built on mus-go varint encodings.

func marshalString(v string, bs []byte) int {
	n := varint.Int.Marshal(len(v), bs)
	n += copy(bs[n:], v)
	return n
}

func unmarshalString(bs []byte) (string, int, error) {
	length, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return "", n, err
	}
	if length < 0 || len(bs)-n < length {
		return "", n, ErrTruncatedData
	}
	return string(bs[n : n+length]), n + length, nil
}

// unmarshalNextString unmarshals a string at offset, returning the new offset.
func unmarshalNextString(bs []byte, offset int) (string, int, error) {
	v, n, err := unmarshalString(bs[offset:])
	return v, offset + n, err
}

func sizeString(v string) int {
	return varint.Int.Size(len(v)) + len(v)
}

func marshalBool(v bool, bs []byte) int {
	if v {
		bs[0] = 1
	} else {
		bs[0] = 0
	}
	return 1
}

func unmarshalBool(bs []byte) (bool, int, error) {
	if len(bs) < 1 {
		return false, 0, ErrTruncatedData
	}
	return bs[0] == 1, 1, nil
}

// Times are stored as Unix microseconds and restored in UTC.

func marshalTime(t time.Time, bs []byte) int {
	return varint.Int64.Marshal(t.UnixMicro(), bs)
}

func unmarshalNextTime(bs []byte, offset int) (time.Time, int, error) {
	micros, n, err := varint.Int64.Unmarshal(bs[offset:])
	if err != nil {
		return time.Time{}, offset + n, err
	}
	return time.UnixMicro(micros).UTC(), offset + n, nil
}

func sizeTime(t time.Time) int {
	return varint.Int64.Size(t.UnixMicro())
}
