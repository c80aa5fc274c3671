package core

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/go-crypt/x/blake2b"
	"github.com/google/uuid"
)

// ID is a unique identifier for chunks and triples.
// It is generated using content-based hashing so that re-ingesting the same
// document produces the same IDs.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// DocumentID is a unique identifier for ingested documents.
type DocumentID string

// NewDocumentID generates a random document identifier.
func NewDocumentID() DocumentID {
	return DocumentID(uuid.NewString())
}

// DocumentStatus tracks a document through its ingestion lifecycle.
// The ingestion pipeline is the sole writer of this status; search only
// considers COMPLETED documents.
type DocumentStatus int

const (
	// DocumentStatusPending means the document is queued but not yet processed.
	DocumentStatusPending DocumentStatus = iota + 1
	// DocumentStatusProcessing means an ingestion job is in flight.
	DocumentStatusProcessing
	// DocumentStatusCompleted means chunks, triples and vectors are all persisted.
	DocumentStatusCompleted
	// DocumentStatusFailed means ingestion failed; ErrorMessage records the cause.
	DocumentStatusFailed
)

// String returns the status name as stored/display text.
func (s DocumentStatus) String() string {
	switch s {
	case DocumentStatusPending:
		return "PENDING"
	case DocumentStatusProcessing:
		return "PROCESSING"
	case DocumentStatusCompleted:
		return "COMPLETED"
	case DocumentStatusFailed:
		return "FAILED"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", int(s))
	}
}

// Document represents an ingested document and its lifecycle state.
// A document owns its chunks and triples; deleting it cascades to both and
// to its vectors in the vector index (best effort).
type Document struct {
	Id           DocumentID
	Name         string
	Status       DocumentStatus
	ErrorMessage string // Populated when Status is FAILED
	PageCount    int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ChunkType distinguishes the two tiers of the chunk hierarchy.
type ChunkType int

const (
	// ChunkTypeParent is a large contextual chunk used for display and snippets.
	ChunkTypeParent ChunkType = iota + 1
	// ChunkTypeChild is a small search-optimized chunk used for vector search.
	ChunkTypeChild
)

// String returns the chunk type name as stored text.
func (t ChunkType) String() string {
	switch t {
	case ChunkTypeParent:
		return "PARENT"
	case ChunkTypeChild:
		return "CHILD"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", int(t))
	}
}

// Chunk is a contiguous slice of a document page's text, the atomic
// retrieval unit. CHILD chunks always reference their PARENT via ParentId;
// PARENT chunks have ParentId == 0. ChunkIndex is unique within
// (DocumentId, PageNumber, Type).
type Chunk struct {
	Id         ID
	DocumentId DocumentID
	PageNumber int
	ChunkIndex int
	Type       ChunkType
	ParentId   ID // 0 for PARENT chunks
	Text       string
	CharLength int
	TokenCount int
	Embedded   bool // Flips true once the vector is upserted into the index
}

// ChunkID derives the deterministic ID for a chunk at a given position.
func ChunkID(docID DocumentID, page int, chunkType ChunkType, index int) ID {
	return IDFromContent(fmt.Sprintf("%s:%d:%s:%d", docID, page, chunkType, index))
}

// Triple is a (subject, predicate, object) relation extracted from a CHILD
// chunk. Triples are created once at ingestion, immutable, and deleted with
// their owning document.
type Triple struct {
	Id         ID
	ChunkId    ID
	DocumentId DocumentID
	PageNumber int
	ChunkIndex int
	Subject    string
	Predicate  string
	Object     string
}

// Text returns the triple flattened to searchable text.
func (t *Triple) Text() string {
	return t.Subject + " " + t.Predicate + " " + t.Object
}

// Channel identifies one independent retrieval method.
type Channel int

const (
	// ChannelSemantic is vector-similarity retrieval.
	ChannelSemantic Channel = iota + 1
	// ChannelLexical is full-text / keyword retrieval.
	ChannelLexical
	// ChannelTriple is relation (triple) retrieval.
	ChannelTriple
)

// String returns the channel name used in diagnostics.
func (c Channel) String() string {
	switch c {
	case ChannelSemantic:
		return "semantic"
	case ChannelLexical:
		return "lexical"
	case ChannelTriple:
		return "triple"
	default:
		return fmt.Sprintf("unknown(%d)", int(c))
	}
}

// ChannelHit is the ephemeral, in-memory result of a single channel query.
// Score is channel-local and only comparable within the same channel;
// Rank is 1-based within the channel's result list.
type ChannelHit struct {
	ChunkId    ID
	DocumentId DocumentID
	PageNumber int
	ChunkIndex int
	Text       string
	ParentText string
	Score      float32
	Rank       int
}

// HighlightSpan marks an occurrence of query text inside a result.
// Offsets are byte offsets into the result text.
type HighlightSpan struct {
	Text  string
	Start int
	End   int
}

// FusedResult is the ephemeral output of the fusion engine. Exactly one
// instance survives per (DocumentId, PageNumber) after deduplication.
type FusedResult struct {
	ChunkId    ID
	DocumentId DocumentID
	PageNumber int
	ChunkIndex int
	Text       string
	ParentText string

	// Raw per-channel scores; zero when the channel did not contribute.
	SemanticScore float32
	LexicalScore  float32
	TripleScore   float32

	// Channels that contributed any signal for this result.
	Channels []Channel

	// FusionScore is normalized to [0,1] relative to the top result.
	FusionScore float32

	Snippet    string
	Highlights []HighlightSpan
}

// HasChannel reports whether the given channel contributed to this result.
func (r *FusedResult) HasChannel(c Channel) bool {
	for _, ch := range r.Channels {
		if ch == c {
			return true
		}
	}
	return false
}

// VectorPoint is an embedded child chunk as stored in the vector index.
// The payload fields mirror what the fusion stage needs so that a search
// does not have to fetch chunk rows for every candidate.
type VectorPoint struct {
	ChunkId    ID
	DocumentId DocumentID
	PageNumber int
	ChunkIndex int
	Text       string
	ParentText string
	Vector     []float32
}

// VectorMatch is a nearest-neighbor match from the vector index.
type VectorMatch struct {
	Point *VectorPoint
	Score float32 // Cosine similarity
}
