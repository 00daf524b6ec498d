package badger

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/poiesic/ontonote/core"
)

// Key prefixes for different data types
const (
	noteRecordPrefix = "noterec"
	noteDatePrefix   = "noterecd"
	treeSnapshotKey  = "ontree:snapshot"
)

// makeNoteKey generates a key for a note by id.
func makeNoteKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%s", noteRecordPrefix, id))
}

// makeNoteDateKey generates a composite key for the date index.
// Format: prefix:timestamp:id
func makeNoteDateKey(timestamp time.Time, id core.ID) []byte {
	prefix := noteDatePrefix + ":"
	prefixBytes := []byte(prefix)
	buf := make([]byte, len(prefixBytes)+8+len(id))
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(timestamp.UnixMicro()))
	offset += 8
	copy(buf[offset:], []byte(id))
	return buf
}

// makePartialNoteDateKey generates a partial key for date range scans.
// Format: prefix:timestamp
func makePartialNoteDateKey(timestamp time.Time) []byte {
	prefix := noteDatePrefix + ":"
	prefixBytes := []byte(prefix)
	buf := make([]byte, len(prefixBytes)+8)
	offset := copy(buf, prefixBytes)
	binary.BigEndian.PutUint64(buf[offset:], uint64(timestamp.UnixMicro()))
	return buf
}
