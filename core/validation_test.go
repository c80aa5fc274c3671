package core

import (
	"errors"
	"testing"
)

func validChildChunk() *Chunk {
	return &Chunk{
		Id:         ChunkID("doc-1", 1, ChunkTypeChild, 0),
		DocumentId: "doc-1",
		PageNumber: 1,
		ChunkIndex: 0,
		Type:       ChunkTypeChild,
		ParentId:   ChunkID("doc-1", 1, ChunkTypeParent, 0),
		Text:       "some chunk text",
		CharLength: 15,
		TokenCount: 4,
	}
}

func TestValidateChunk(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Chunk)
		wantErr error
	}{
		{
			name:    "valid child chunk",
			mutate:  func(c *Chunk) {},
			wantErr: nil,
		},
		{
			name: "valid parent chunk",
			mutate: func(c *Chunk) {
				c.Type = ChunkTypeParent
				c.ParentId = 0
			},
			wantErr: nil,
		},
		{
			name:    "empty text",
			mutate:  func(c *Chunk) { c.Text = "" },
			wantErr: ErrEmptyText,
		},
		{
			name:    "invalid type",
			mutate:  func(c *Chunk) { c.Type = 0 },
			wantErr: ErrInvalidChunkType,
		},
		{
			name:    "zero page number",
			mutate:  func(c *Chunk) { c.PageNumber = 0 },
			wantErr: ErrInvalidPageNumber,
		},
		{
			name:    "child without parent",
			mutate:  func(c *Chunk) { c.ParentId = 0 },
			wantErr: ErrMissingParentRef,
		},
		{
			name: "parent with parent ref",
			mutate: func(c *Chunk) {
				c.Type = ChunkTypeParent
			},
			wantErr: ErrUnexpectedParentRef,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunk := validChildChunk()
			tt.mutate(chunk)

			err := ValidateChunk(chunk)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateChunk() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, ErrInvalidChunk) {
				t.Errorf("ValidateChunk() error %v not wrapped in ErrInvalidChunk", err)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateChunk() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateChunk_Nil(t *testing.T) {
	if err := ValidateChunk(nil); !errors.Is(err, ErrInvalidChunk) {
		t.Errorf("ValidateChunk(nil) = %v, want ErrInvalidChunk", err)
	}
}

func TestValidateTriple(t *testing.T) {
	valid := &Triple{
		Id:         1,
		ChunkId:    2,
		DocumentId: "doc-1",
		PageNumber: 1,
		Subject:    "system",
		Predicate:  "uses",
		Object:     "cache",
	}
	if err := ValidateTriple(valid); err != nil {
		t.Errorf("ValidateTriple() unexpected error: %v", err)
	}

	empty := *valid
	empty.Predicate = ""
	if err := ValidateTriple(&empty); !errors.Is(err, ErrEmptyTripleField) {
		t.Errorf("ValidateTriple() = %v, want ErrEmptyTripleField", err)
	}

	noChunk := *valid
	noChunk.ChunkId = 0
	if err := ValidateTriple(&noChunk); !errors.Is(err, ErrInvalidTriple) {
		t.Errorf("ValidateTriple() = %v, want ErrInvalidTriple", err)
	}
}

func TestValidateDocument(t *testing.T) {
	doc := &Document{Id: NewDocumentID(), Status: DocumentStatusPending}
	if err := ValidateDocument(doc); err != nil {
		t.Errorf("ValidateDocument() unexpected error: %v", err)
	}

	doc.Id = ""
	if err := ValidateDocument(doc); !errors.Is(err, ErrEmptyDocumentID) {
		t.Errorf("ValidateDocument() = %v, want ErrEmptyDocumentID", err)
	}

	doc.Id = "doc"
	doc.Status = 99
	if err := ValidateDocument(doc); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("ValidateDocument() = %v, want ErrInvalidStatus", err)
	}
}
