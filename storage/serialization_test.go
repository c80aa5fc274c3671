package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/docsearch/core"
)

func TestIDRoundTrip(t *testing.T) {
	id := core.IDFromContent("some chunk content")
	got, err := UnmarshalID(MarshalID(id))
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestDocumentRoundTrip(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)
	doc := &core.Document{
		Id:           core.NewDocumentID(),
		Name:         "quarterly-report.pdf",
		Status:       core.DocumentStatusFailed,
		ErrorMessage: "embedding service unavailable",
		PageCount:    17,
		CreatedAt:    now,
		UpdatedAt:    now.Add(time.Minute),
	}

	got, err := UnmarshalDocument(MarshalDocument(doc))
	require.NoError(t, err)
	assert.Equal(t, doc.Id, got.Id)
	assert.Equal(t, doc.Name, got.Name)
	assert.Equal(t, doc.Status, got.Status)
	assert.Equal(t, doc.ErrorMessage, got.ErrorMessage)
	assert.Equal(t, doc.PageCount, got.PageCount)
	assert.True(t, doc.CreatedAt.Equal(got.CreatedAt))
	assert.True(t, doc.UpdatedAt.Equal(got.UpdatedAt))
}

func TestChunkRoundTrip(t *testing.T) {
	docID := core.NewDocumentID()
	parentID := core.ChunkID(docID, 3, core.ChunkTypeParent, 0)
	chunk := &core.Chunk{
		Id:         core.ChunkID(docID, 3, core.ChunkTypeChild, 2),
		DocumentId: docID,
		PageNumber: 3,
		ChunkIndex: 2,
		Type:       core.ChunkTypeChild,
		ParentId:   parentID,
		Text:       "the quick brown fox",
		CharLength: 19,
		TokenCount: 4,
		Embedded:   true,
	}

	got, err := UnmarshalChunk(MarshalChunk(chunk))
	require.NoError(t, err)
	assert.Equal(t, chunk, got)
}

func TestVectorPointRoundTrip(t *testing.T) {
	point := &core.VectorPoint{
		ChunkId:    42,
		DocumentId: core.NewDocumentID(),
		PageNumber: 2,
		ChunkIndex: 1,
		Text:       "child text",
		ParentText: "parent text with more context",
		Vector:     []float32{0.25, -0.5, 1.0, 0},
	}

	got, err := UnmarshalVectorPoint(MarshalVectorPoint(point))
	require.NoError(t, err)
	assert.Equal(t, point, got)
}

func TestUnmarshalTruncated(t *testing.T) {
	data := MarshalChunk(&core.Chunk{
		Id:         1,
		DocumentId: core.NewDocumentID(),
		PageNumber: 1,
		ChunkIndex: 0,
		Type:       core.ChunkTypeParent,
		Text:       "some text that will be cut off",
	})

	_, err := UnmarshalChunk(data[:len(data)/2])
	assert.Error(t, err)
}
