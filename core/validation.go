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

import "fmt"

// ValidateDocument validates a Document according to domain rules.
//
// Validation rules:
//   - Id must not be empty
//   - Status must be a known lifecycle state
//
// NOT validated:
//   - ErrorMessage (only meaningful for FAILED documents)
//   - PageCount (0 is valid before processing)
func ValidateDocument(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidDocument)
	}

	if doc.Id == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyDocumentID)
	}

	if err := ValidateDocumentStatus(doc.Status); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	return nil
}

// ValidateDocumentStatus validates that a DocumentStatus has a valid value.
func ValidateDocumentStatus(status DocumentStatus) error {
	switch status {
	case DocumentStatusPending, DocumentStatusProcessing,
		DocumentStatusCompleted, DocumentStatusFailed:
		return nil
	}
	return fmt.Errorf("%w: value %d", ErrInvalidStatus, status)
}

// ValidateChunk validates a Chunk according to domain rules.
//
// Validation rules:
//   - Text must not be empty
//   - Type must be PARENT or CHILD
//   - PageNumber must be >= 1
//   - CHILD chunks must reference a parent; PARENT chunks must not
//
// NOT validated (populated by processors):
//   - Embedded (flips true after the vector upsert)
//   - TokenCount (depends on the configured tokenizer)
func ValidateChunk(chunk *Chunk) error {
	if chunk == nil {
		return fmt.Errorf("%w: chunk is nil", ErrInvalidChunk)
	}

	if chunk.Text == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyText)
	}

	if err := ValidateChunkType(chunk.Type); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, err)
	}

	if chunk.PageNumber < 1 {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrInvalidPageNumber)
	}

	if chunk.Type == ChunkTypeChild && chunk.ParentId == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrMissingParentRef)
	}

	if chunk.Type == ChunkTypeParent && chunk.ParentId != 0 {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrUnexpectedParentRef)
	}

	return nil
}

// ValidateChunkType validates that a ChunkType has a valid value.
func ValidateChunkType(chunkType ChunkType) error {
	if chunkType != ChunkTypeParent && chunkType != ChunkTypeChild {
		return fmt.Errorf("%w: value %d", ErrInvalidChunkType, chunkType)
	}
	return nil
}

// ValidateTriple validates a Triple according to domain rules.
//
// Validation rules:
//   - Subject, Predicate and Object must not be empty
//   - ChunkId must be set (triples derive from CHILD chunks)
//   - PageNumber must be >= 1
func ValidateTriple(triple *Triple) error {
	if triple == nil {
		return fmt.Errorf("%w: triple is nil", ErrInvalidTriple)
	}

	if triple.Subject == "" || triple.Predicate == "" || triple.Object == "" {
		return fmt.Errorf("%w: %w", ErrInvalidTriple, ErrEmptyTripleField)
	}

	if triple.ChunkId == 0 {
		return fmt.Errorf("%w: chunk id not set", ErrInvalidTriple)
	}

	if triple.PageNumber < 1 {
		return fmt.Errorf("%w: %w", ErrInvalidTriple, ErrInvalidPageNumber)
	}

	return nil
}
