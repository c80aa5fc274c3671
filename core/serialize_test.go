package core

import (
	"reflect"
	"testing"
	"time"
)

func TestChunkMUS_RoundTrip(t *testing.T) {
	chunk := Chunk{
		Id:         ChunkID("doc-1", 3, ChunkTypeChild, 2),
		DocumentId: "doc-1",
		PageNumber: 3,
		ChunkIndex: 2,
		Type:       ChunkTypeChild,
		ParentId:   ChunkID("doc-1", 3, ChunkTypeParent, 0),
		Text:       "The quick brown fox jumps over the lazy dog.",
		CharLength: 44,
		TokenCount: 10,
		Embedded:   true,
	}

	bs := make([]byte, ChunkMUS.Size(chunk))
	n := ChunkMUS.Marshal(chunk, bs)
	if n != len(bs) {
		t.Fatalf("Marshal wrote %d bytes, Size reported %d", n, len(bs))
	}

	got, m, err := ChunkMUS.Unmarshal(bs)
	if err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if m != n {
		t.Errorf("Unmarshal consumed %d bytes, expected %d", m, n)
	}
	if !reflect.DeepEqual(got, chunk) {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", got, chunk)
	}
}

func TestDocumentMUS_RoundTrip(t *testing.T) {
	doc := Document{
		Id:           NewDocumentID(),
		Name:         "report.pdf",
		Status:       DocumentStatusFailed,
		ErrorMessage: "embedding failed",
		PageCount:    12,
		CreatedAt:    time.Now().UTC().Truncate(time.Microsecond),
		UpdatedAt:    time.Now().UTC().Truncate(time.Microsecond),
	}

	bs := make([]byte, DocumentMUS.Size(doc))
	DocumentMUS.Marshal(doc, bs)

	got, _, err := DocumentMUS.Unmarshal(bs)
	if err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if !got.CreatedAt.Equal(doc.CreatedAt) || !got.UpdatedAt.Equal(doc.UpdatedAt) {
		t.Errorf("timestamps not preserved: got %v/%v", got.CreatedAt, got.UpdatedAt)
	}
	got.CreatedAt = doc.CreatedAt
	got.UpdatedAt = doc.UpdatedAt
	if !reflect.DeepEqual(got, doc) {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", got, doc)
	}
}

func TestVectorPointMUS_RoundTrip(t *testing.T) {
	point := VectorPoint{
		ChunkId:    42,
		DocumentId: "doc-9",
		PageNumber: 1,
		ChunkIndex: 0,
		Text:       "child text",
		ParentText: "parent text with more context",
		Vector:     []float32{0.25, -0.5, 1.0, 0.0},
	}

	bs := make([]byte, VectorPointMUS.Size(point))
	VectorPointMUS.Marshal(point, bs)

	got, _, err := VectorPointMUS.Unmarshal(bs)
	if err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if !reflect.DeepEqual(got, point) {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", got, point)
	}
}

func TestUnmarshal_Truncated(t *testing.T) {
	triple := Triple{
		Id: 1, ChunkId: 2, DocumentId: "doc", PageNumber: 1,
		Subject: "a", Predicate: "b", Object: "c",
	}
	bs := make([]byte, TripleMUS.Size(triple))
	TripleMUS.Marshal(triple, bs)

	_, _, err := TripleMUS.Unmarshal(bs[:len(bs)-2])
	if err == nil {
		t.Fatal("expected error unmarshaling truncated data")
	}
}
