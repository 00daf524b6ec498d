package core

import (
	"encoding/binary"
	"fmt"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
	"github.com/google/uuid"
)

// ID is a unique identifier for domain entities.
// Concept ids are random and opaque; note ids are content-derived.
type ID string

// NewID generates a fresh random ID.
// Used for concept nodes, whose identity is independent of their label.
func NewID() ID {
	return ID(uuid.NewString())
}

// DigestID generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func DigestID(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(fmt.Sprintf("%016x", binary.LittleEndian.Uint64(sum)))
}

// Node is a single concept in the ontology tree.
// Parent and child references are by id, never by pointer, so reparenting
// is a key rewrite and every mutation can be validated by walking ids.
type Node struct {
	Id         ID                `json:"id"`
	Label      string            `json:"label"`
	ParentId   ID                `json:"parentId,omitempty"` // empty means the node is a root
	ChildIds   []ID              `json:"childIds"`           // direct children, in display order
	Attributes map[string]string `json:"attributes,omitempty"`
}

// Tree is the full forest of concepts plus the bookkeeping that keeps
// parent/child references consistent. Mutation functions in the ontology
// package never modify a Tree in place; they return a new value.
type Tree struct {
	Nodes     map[ID]*Node `json:"nodes"`
	RootIds   []ID         `json:"rootIds"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// NoteStatus identifies the lifecycle state of a note.
type NoteStatus int

const (
	// NoteStatusActive is the default state for a live note.
	NoteStatusActive NoteStatus = iota + 1
	// NoteStatusArchived marks a note that is kept but hidden from default views.
	NoteStatusArchived
)

// Note is a free-form note tagged with concept labels.
// Tags are label strings, not node ids: renaming a concept does not
// retroactively relabel notes.
type Note struct {
	Id        ID         `json:"id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	Tags      []string   `json:"tags,omitempty"`
	Status    NoteStatus `json:"status"`
	Pinned    bool       `json:"pinned,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	Vector    []float32  `json:"vector,omitempty"` // embedding, populated by the index pipeline
}

// HasVector reports whether the note carries an embedding.
func (n *Note) HasVector() bool {
	return len(n.Vector) > 0
}

// SearchFilter is transient query state for the search engine.
type SearchFilter struct {
	Tag    string     // concept label; expanded through the ontology before matching
	Status NoteStatus // zero means any status
	Query  string     // free-text substring query against title and content
}

// RankedNote pairs a note with its similarity score from vector ranking.
type RankedNote struct {
	Note       *Note
	Similarity float32
}

// NormalizeLabel brings a tag label into canonical form: surrounding
// whitespace is trimmed and a bare word defaults to a "#" topic tag.
// Labels already starting with "#" or "@" are kept as-is.
func NormalizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return ""
	}
	if strings.HasPrefix(label, "#") || strings.HasPrefix(label, "@") {
		return label
	}
	return "#" + label
}
