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

import "errors"

// Domain validation errors
var (
	// ErrInvalidDocument indicates a Document failed validation.
	ErrInvalidDocument = errors.New("invalid document")

	// ErrInvalidChunk indicates a Chunk failed validation.
	ErrInvalidChunk = errors.New("invalid chunk")

	// ErrInvalidTriple indicates a Triple failed validation.
	ErrInvalidTriple = errors.New("invalid triple")

	// ErrEmptyDocumentID indicates the document Id field is empty.
	ErrEmptyDocumentID = errors.New("document id cannot be empty")

	// ErrInvalidStatus indicates an invalid DocumentStatus value.
	ErrInvalidStatus = errors.New("invalid document status")

	// ErrEmptyText indicates the Text field is empty.
	ErrEmptyText = errors.New("text cannot be empty")

	// ErrInvalidChunkType indicates an invalid ChunkType value.
	ErrInvalidChunkType = errors.New("invalid chunk type")

	// ErrInvalidPageNumber indicates a page number below 1.
	ErrInvalidPageNumber = errors.New("page number must be positive")

	// ErrMissingParentRef indicates a CHILD chunk without a parent reference.
	ErrMissingParentRef = errors.New("child chunk must reference a parent")

	// ErrUnexpectedParentRef indicates a PARENT chunk carrying a parent reference.
	ErrUnexpectedParentRef = errors.New("parent chunk cannot reference a parent")

	// ErrEmptyTripleField indicates a triple with an empty subject, predicate or object.
	ErrEmptyTripleField = errors.New("triple fields cannot be empty")

	// ErrTruncatedData indicates that data was truncated during deserialization.
	ErrTruncatedData = errors.New("truncated data")
)
