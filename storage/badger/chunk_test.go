package badger

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/poiesic/docsearch/core"
	"github.com/poiesic/docsearch/storage"
)

func makeTestChunk(docID core.DocumentID, page, index int, chunkType core.ChunkType, parentID core.ID) *core.Chunk {
	text := fmt.Sprintf("chunk text %s %d %d %s", docID, page, index, chunkType)
	return &core.Chunk{
		Id:         core.ChunkID(docID, page, chunkType, index),
		DocumentId: docID,
		PageNumber: page,
		ChunkIndex: index,
		Type:       chunkType,
		ParentId:   parentID,
		Text:       text,
		CharLength: len(text),
		TokenCount: 5,
	}
}

func TestChunkBasics(t *testing.T) {
	stores := newTestStores(t)
	ctx := context.Background()
	docID := core.NewDocumentID()

	parent := makeTestChunk(docID, 1, 0, core.ChunkTypeParent, 0)
	child := makeTestChunk(docID, 1, 0, core.ChunkTypeChild, parent.Id)

	added, err := stores.Chunks.AddChunks(ctx, parent, child)
	if err != nil {
		t.Fatalf("Failed to add chunks: %v", err)
	}
	if len(added) != 2 {
		t.Fatalf("Expected 2 chunks, got %d", len(added))
	}

	got, err := stores.Chunks.GetChunk(ctx, child.Id)
	if err != nil {
		t.Fatalf("Failed to get chunk: %v", err)
	}
	if got.ParentId != parent.Id {
		t.Fatalf("Expected parent reference %d, got %d", parent.Id, got.ParentId)
	}

	_, err = stores.Chunks.GetChunk(ctx, core.ID(999999))
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestChunkValidationRejected(t *testing.T) {
	stores := newTestStores(t)
	ctx := context.Background()

	// A CHILD without a parent reference is invalid.
	bad := makeTestChunk(core.NewDocumentID(), 1, 0, core.ChunkTypeChild, 0)
	_, err := stores.Chunks.AddChunks(ctx, bad)
	if !errors.Is(err, core.ErrMissingParentRef) {
		t.Fatalf("Expected ErrMissingParentRef, got %v", err)
	}
}

func TestChunksByDocumentOrdering(t *testing.T) {
	stores := newTestStores(t)
	ctx := context.Background()
	docID := core.NewDocumentID()
	otherID := core.NewDocumentID()

	// Insert out of order across two pages.
	var chunks []*core.Chunk
	for _, pos := range [][2]int{{2, 1}, {1, 0}, {2, 0}, {1, 1}} {
		chunks = append(chunks, makeTestChunk(docID, pos[0], pos[1], core.ChunkTypeParent, 0))
	}
	if _, err := stores.Chunks.AddChunks(ctx, chunks...); err != nil {
		t.Fatalf("Failed to add chunks: %v", err)
	}
	if _, err := stores.Chunks.AddChunks(ctx, makeTestChunk(otherID, 1, 0, core.ChunkTypeParent, 0)); err != nil {
		t.Fatalf("Failed to add other doc chunk: %v", err)
	}

	got, err := stores.Chunks.GetChunksByDocument(ctx, docID)
	if err != nil {
		t.Fatalf("Failed to get chunks: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("Expected 4 chunks, got %d", len(got))
	}
	wantOrder := [][2]int{{1, 0}, {1, 1}, {2, 0}, {2, 1}}
	for i, chunk := range got {
		if chunk.PageNumber != wantOrder[i][0] || chunk.ChunkIndex != wantOrder[i][1] {
			t.Fatalf("Position %d: got (page %d, index %d), want (%d, %d)",
				i, chunk.PageNumber, chunk.ChunkIndex, wantOrder[i][0], wantOrder[i][1])
		}
	}
}

func TestChunkMarkEmbedded(t *testing.T) {
	stores := newTestStores(t)
	ctx := context.Background()
	docID := core.NewDocumentID()

	chunk := makeTestChunk(docID, 1, 0, core.ChunkTypeParent, 0)
	if _, err := stores.Chunks.AddChunks(ctx, chunk); err != nil {
		t.Fatalf("Failed to add chunk: %v", err)
	}

	if err := stores.Chunks.MarkEmbedded(ctx, chunk.Id); err != nil {
		t.Fatalf("Failed to mark embedded: %v", err)
	}
	got, err := stores.Chunks.GetChunk(ctx, chunk.Id)
	if err != nil {
		t.Fatalf("Failed to get chunk: %v", err)
	}
	if !got.Embedded {
		t.Fatal("Expected Embedded to be true")
	}

	if err := stores.Chunks.MarkEmbedded(ctx, core.ID(424242)); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestChunkDeleteByDocument(t *testing.T) {
	stores := newTestStores(t)
	ctx := context.Background()
	docID := core.NewDocumentID()
	otherID := core.NewDocumentID()

	mine := makeTestChunk(docID, 1, 0, core.ChunkTypeParent, 0)
	theirs := makeTestChunk(otherID, 1, 0, core.ChunkTypeParent, 0)
	if _, err := stores.Chunks.AddChunks(ctx, mine, theirs); err != nil {
		t.Fatalf("Failed to add chunks: %v", err)
	}

	if err := stores.Chunks.DeleteByDocument(ctx, docID); err != nil {
		t.Fatalf("Failed to delete by document: %v", err)
	}

	if _, err := stores.Chunks.GetChunk(ctx, mine.Id); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected deleted chunk to be gone, got %v", err)
	}
	if _, err := stores.Chunks.GetChunk(ctx, theirs.Id); err != nil {
		t.Fatalf("Other document's chunk should survive: %v", err)
	}
	remaining, err := stores.Chunks.GetChunksByDocument(ctx, docID)
	if err != nil {
		t.Fatalf("Failed to get chunks: %v", err)
	}
	if len(remaining) != 0 {
		t.Fatalf("Expected no chunks left, got %d", len(remaining))
	}
}

func TestChunkScan(t *testing.T) {
	stores := newTestStores(t)
	ctx := context.Background()
	docID := core.NewDocumentID()

	for i := 0; i < 5; i++ {
		if _, err := stores.Chunks.AddChunks(ctx, makeTestChunk(docID, 1, i, core.ChunkTypeParent, 0)); err != nil {
			t.Fatalf("Failed to add chunk: %v", err)
		}
	}

	seen := 0
	err := stores.Chunks.ScanChunks(ctx, func(chunk *core.Chunk) (bool, error) {
		seen++
		return true, nil
	})
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if seen != 5 {
		t.Fatalf("Expected 5 chunks scanned, got %d", seen)
	}

	// Early termination
	seen = 0
	err = stores.Chunks.ScanChunks(ctx, func(chunk *core.Chunk) (bool, error) {
		seen++
		return seen < 2, nil
	})
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if seen != 2 {
		t.Fatalf("Expected scan to stop at 2, got %d", seen)
	}
}

func TestTripleBasics(t *testing.T) {
	stores := newTestStores(t)
	ctx := context.Background()
	docID := core.NewDocumentID()
	chunk := makeTestChunk(docID, 1, 0, core.ChunkTypeChild, core.ID(7))

	triple := &core.Triple{
		ChunkId:    chunk.Id,
		DocumentId: docID,
		PageNumber: 1,
		ChunkIndex: 0,
		Subject:    "the index",
		Predicate:  "supports",
		Object:     "phrase queries",
	}

	added, err := stores.Triples.AddTriples(ctx, triple)
	if err != nil {
		t.Fatalf("Failed to add triple: %v", err)
	}
	if added[0].Id == 0 {
		t.Fatal("Expected content-based ID to be assigned")
	}

	var scanned []*core.Triple
	err = stores.Triples.ScanTriples(ctx, func(tr *core.Triple) (bool, error) {
		scanned = append(scanned, tr)
		return true, nil
	})
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(scanned) != 1 {
		t.Fatalf("Expected 1 triple, got %d", len(scanned))
	}
	if scanned[0].Text() != "the index supports phrase queries" {
		t.Fatalf("Unexpected triple text %q", scanned[0].Text())
	}

	if err := stores.Triples.DeleteByDocument(ctx, docID); err != nil {
		t.Fatalf("Failed to delete triples: %v", err)
	}
	scanned = nil
	err = stores.Triples.ScanTriples(ctx, func(tr *core.Triple) (bool, error) {
		scanned = append(scanned, tr)
		return true, nil
	})
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(scanned) != 0 {
		t.Fatalf("Expected no triples after delete, got %d", len(scanned))
	}
}
