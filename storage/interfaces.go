package storage

import (
	"context"

	"github.com/poiesic/ontonote/core"
)

// TreeRepository persists the canonical ontology tree snapshot.
// The tree is stored wholesale under a fixed logical key; callers never
// depend on the storage engine's internal format.
type TreeRepository interface {
	// LoadTree retrieves the stored tree snapshot.
	// Returns ErrNotFound if no snapshot has ever been saved.
	LoadTree(ctx context.Context) (*core.Tree, error)

	// SaveTree replaces the stored snapshot with the given tree.
	// The write is atomic: a failed save leaves the previous snapshot intact.
	SaveTree(ctx context.Context, tree *core.Tree) error

	// Close closes the repository and releases resources.
	Close() error
}

// NoteRepository provides operations for managing notes.
// Implementations must be thread-safe and support concurrent access.
type NoteRepository interface {
	// AddNotes adds one or more notes to storage.
	// For notes with an empty id, derives a content-based id.
	// Sets CreatedAt/UpdatedAt timestamps if not already set.
	// Returns the notes with ids and timestamps populated.
	AddNotes(ctx context.Context, notes ...*core.Note) ([]*core.Note, error)

	// UpdateNotes updates existing notes.
	// Updates the UpdatedAt timestamp automatically.
	// Returns ErrNotFound if any note doesn't exist.
	UpdateNotes(ctx context.Context, notes ...*core.Note) ([]*core.Note, error)

	// DeleteNotes removes notes by their ids.
	// Also removes associated indices.
	// Returns ErrNotFound if any note doesn't exist.
	DeleteNotes(ctx context.Context, ids ...core.ID) error

	// GetNote retrieves a single note by id.
	// Returns ErrNotFound if the note doesn't exist.
	GetNote(ctx context.Context, id core.ID) (*core.Note, error)

	// GetNotes retrieves multiple notes by their ids.
	// Returns only the notes that exist (no error for missing notes).
	GetNotes(ctx context.Context, ids ...core.ID) ([]*core.Note, error)

	// GetAllNotes retrieves every note in storage, in unspecified order.
	GetAllNotes(ctx context.Context) ([]*core.Note, error)

	// GetRecentNotes retrieves the N most recently created notes,
	// most recent first. Returns up to limit notes.
	GetRecentNotes(ctx context.Context, limit int) ([]*core.Note, error)

	// FindSimilar finds notes whose embedding is similar to the given vector.
	// Notes without an embedding are excluded, never scored as zero.
	// Returns notes with similarity >= minSimilarity, up to limit results,
	// ordered by similarity descending with most-recently-updated first on ties.
	FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*core.RankedNote, error)

	// Close closes the repository and releases resources.
	Close() error
}
