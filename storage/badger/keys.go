package badger

import (
	"encoding/binary"
	"fmt"

	"github.com/poiesic/bitext/core"
)

// Key prefixes for different data types
const (
	chunkRecordPrefix     = "chkrec"
	alignmentRecordPrefix = "algrec"
	chunkAlignmentPrefix  = "algchk"
)

// makeChunkKey generates a key for a chunk by (language, chunk id).
// Chunk ids are written BigEndian so lexicographic sort matches
// numeric order within a language side.
func makeChunkKey(lang core.Language, chunkID int) []byte {
	prefix := chunkRecordPrefix + ":" + string(lang) + ":"
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(chunkID))
	return buf
}

// makeChunkLangPrefix generates the prefix covering all chunks on one
// language side.
func makeChunkLangPrefix(lang core.Language) []byte {
	return []byte(chunkRecordPrefix + ":" + string(lang) + ":")
}

// makeAlignmentKey generates a key for an alignment record by ID.
func makeAlignmentKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", alignmentRecordPrefix, id))
}

// makeChunkAlignmentKey generates a composite key for the per-chunk
// alignment index. Format: prefix:lang:chunkID:alignmentID, with both
// numbers BigEndian so iteration walks chunk ids in order.
func makeChunkAlignmentKey(lang core.Language, chunkID int, alignmentID core.ID) []byte {
	prefix := chunkAlignmentPrefix + ":" + string(lang) + ":"
	buf := make([]byte, len(prefix)+16)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(chunkID))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(alignmentID))
	return buf
}

// makePartialChunkAlignmentKey generates a partial key covering every
// alignment index entry for one chunk.
func makePartialChunkAlignmentKey(lang core.Language, chunkID int) []byte {
	prefix := chunkAlignmentPrefix + ":" + string(lang) + ":"
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(chunkID))
	return buf
}

// makeChunkAlignmentLangPrefix generates the prefix covering the whole
// alignment index on one language side.
func makeChunkAlignmentLangPrefix(lang core.Language) []byte {
	return []byte(chunkAlignmentPrefix + ":" + string(lang) + ":")
}

// chunkIDFromIndexKey extracts the chunk id from an alignment index key.
func chunkIDFromIndexKey(lang core.Language, key []byte) (int, bool) {
	prefix := makeChunkAlignmentLangPrefix(lang)
	if len(key) < len(prefix)+8 {
		return 0, false
	}
	return int(binary.BigEndian.Uint64(key[len(prefix):])), true
}
