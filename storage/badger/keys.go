package badger

import (
	"encoding/binary"
	"fmt"

	"github.com/poiesic/docsearch/core"
)

// Key prefixes for different data types
const (
	documentPrefix  = "docrec"
	chunkPrefix     = "chkrec"
	chunkDocPrefix  = "chkdoc"
	triplePrefix    = "trirec"
	tripleDocPrefix = "tridoc"
	vectorPrefix    = "vecrec"
	vectorDocPrefix = "vecdoc"
	vectorDimKey    = "vecdim"
)

// makeDocumentKey generates a key for a document by ID.
func makeDocumentKey(id core.DocumentID) []byte {
	return []byte(fmt.Sprintf("%s:%s", documentPrefix, id))
}

// makeChunkKey generates a key for a chunk by ID.
func makeChunkKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", chunkPrefix, id))
}

// makeChunkDocKey generates a composite key for the per-document chunk index.
// Format: prefix:docID:page:type:index — the numeric components are written
// BigEndian so lexicographic iteration yields (page, type, index) order.
func makeChunkDocKey(docID core.DocumentID, page int, chunkType core.ChunkType, index int) []byte {
	prefix := []byte(chunkDocPrefix + ":" + string(docID) + ":")
	buf := make([]byte, len(prefix)+24)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(page))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(chunkType))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(index))
	return buf
}

// makeChunkDocPrefix generates the iteration prefix for a document's chunks.
func makeChunkDocPrefix(docID core.DocumentID) []byte {
	return []byte(chunkDocPrefix + ":" + string(docID) + ":")
}

// makeTripleKey generates a key for a triple by ID.
func makeTripleKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", triplePrefix, id))
}

// makeTripleDocKey generates a composite key for the per-document triple index.
// Format: prefix:docID:tripleID
func makeTripleDocKey(docID core.DocumentID, id core.ID) []byte {
	prefix := []byte(tripleDocPrefix + ":" + string(docID) + ":")
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makeTripleDocPrefix generates the iteration prefix for a document's triples.
func makeTripleDocPrefix(docID core.DocumentID) []byte {
	return []byte(tripleDocPrefix + ":" + string(docID) + ":")
}

// makeVectorKey generates a key for a vector point by chunk ID.
func makeVectorKey(chunkID core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", vectorPrefix, chunkID))
}

// makeVectorDocKey generates a composite key for the per-document vector index.
// Format: prefix:docID:chunkID
func makeVectorDocKey(docID core.DocumentID, chunkID core.ID) []byte {
	prefix := []byte(vectorDocPrefix + ":" + string(docID) + ":")
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(chunkID))
	return buf
}

// makeVectorDocPrefix generates the iteration prefix for a document's vectors.
func makeVectorDocPrefix(docID core.DocumentID) []byte {
	return []byte(vectorDocPrefix + ":" + string(docID) + ":")
}
