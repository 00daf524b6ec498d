package badger

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/ontonote/core"
	"github.com/poiesic/ontonote/storage"
	"github.com/poiesic/ontonote/vector"
)

// NoteRepository implements storage.NoteRepository for BadgerDB.
type NoteRepository struct {
	backend *Backend
}

var _ storage.NoteRepository = (*NoteRepository)(nil)

// NewNoteRepository creates a new NoteRepository.
func NewNoteRepository(backend *Backend) (storage.NoteRepository, error) {
	return &NoteRepository{
		backend: backend,
	}, nil
}

// Close releases resources. NoteRepository has no resources to release.
func (r *NoteRepository) Close() error {
	return nil
}

// AddNotes adds one or more notes to storage.
func (r *NoteRepository) AddNotes(ctx context.Context, notes ...*core.Note) ([]*core.Note, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, note := range notes {
			if note.Status == 0 {
				note.Status = core.NoteStatusActive
			}
			if err := core.ValidateNote(note); err != nil {
				return err
			}

			if note.CreatedAt.IsZero() {
				note.CreatedAt = time.Now().UTC()
			}
			note.UpdatedAt = note.CreatedAt

			// Content-based id, salted with the creation time so identical
			// notes written at different moments stay distinct.
			if note.Id == "" {
				note.Id = core.DigestID(note.Title + "\x00" + note.Content + "\x00" + note.CreatedAt.Format(time.RFC3339Nano))
			}

			// Store primary record
			key := makeNoteKey(note.Id)
			value, err := storage.MarshalNote(note)
			if err != nil {
				return err
			}
			if err := tx.Set(key, value); err != nil {
				return err
			}

			// Update date index
			dateKey := makeNoteDateKey(note.CreatedAt, note.Id)
			if err := tx.Set(dateKey, []byte(note.Id)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return notes, wrapPersistence(err)
}

// UpdateNotes updates existing notes. Timestamps are staged on copies and
// written back to the input notes only after the transaction commits, so a
// failed update never leaves a note carrying a timestamp the store rejected.
func (r *NoteRepository) UpdateNotes(ctx context.Context, notes ...*core.Note) ([]*core.Note, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		now := time.Now().UTC()
		staged := make([]*core.Note, 0, len(notes))

		for _, note := range notes {
			key := makeNoteKey(note.Id)

			// Read old note to detect changes
			old, err := readNote(tx, key)
			if err != nil {
				return err
			}
			if old == nil {
				return storage.ErrNotFound
			}

			updated := *note
			updated.UpdatedAt = now
			if updated.CreatedAt.IsZero() {
				updated.CreatedAt = old.CreatedAt
			}

			// Store updated record
			value, err := storage.MarshalNote(&updated)
			if err != nil {
				return err
			}
			if err := tx.Set(key, value); err != nil {
				return err
			}

			// Update date index if creation time changed
			if !old.CreatedAt.Equal(updated.CreatedAt) {
				oldDateKey := makeNoteDateKey(old.CreatedAt, old.Id)
				if err := tx.Delete(oldDateKey); err != nil {
					return err
				}
				newDateKey := makeNoteDateKey(updated.CreatedAt, updated.Id)
				if err := tx.Set(newDateKey, []byte(updated.Id)); err != nil {
					return err
				}
			}

			staged = append(staged, &updated)
		}

		if err := tx.Commit(); err != nil {
			return err
		}

		for i, note := range notes {
			note.CreatedAt = staged[i].CreatedAt
			note.UpdatedAt = staged[i].UpdatedAt
		}
		return nil
	}, true)

	return notes, wrapPersistence(err)
}

// DeleteNotes removes notes by their ids.
func (r *NoteRepository) DeleteNotes(ctx context.Context, ids ...core.ID) error {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeNoteKey(id)

			// Read note to get metadata for index cleanup
			note, err := readNote(tx, key)
			if err != nil {
				return err
			}
			if note == nil {
				return storage.ErrNotFound
			}

			// Delete from date index
			dateKey := makeNoteDateKey(note.CreatedAt, note.Id)
			if err := tx.Delete(dateKey); err != nil {
				return err
			}

			// Delete primary record
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return wrapPersistence(err)
}

// GetNote retrieves a single note by id.
func (r *NoteRepository) GetNote(ctx context.Context, id core.ID) (*core.Note, error) {
	var result *core.Note
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeNoteKey(id)
		var err error
		result, err = readNote(tx, key)
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, wrapPersistence(err)
}

// GetNotes retrieves multiple notes by their ids.
func (r *NoteRepository) GetNotes(ctx context.Context, ids ...core.ID) ([]*core.Note, error) {
	var result []*core.Note
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeNoteKey(id)
			note, err := readNote(tx, key)
			if err != nil {
				return err
			}
			if note != nil {
				result = append(result, note)
			}
		}
		return nil
	}, false)
	return result, wrapPersistence(err)
}

// GetAllNotes retrieves every note in storage.
func (r *NoteRepository) GetAllNotes(ctx context.Context) ([]*core.Note, error) {
	var results []*core.Note
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		opts.Prefix = []byte(noteRecordPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var note *core.Note
			err := iter.Item().Value(func(val []byte) error {
				var err error
				note, err = storage.UnmarshalNote(val)
				return err
			})
			if err != nil {
				return err
			}
			if note != nil {
				results = append(results, note)
			}
		}
		return nil
	}, false)

	return results, wrapPersistence(err)
}

// GetRecentNotes retrieves the N most recently created notes, newest first.
func (r *NoteRepository) GetRecentNotes(ctx context.Context, limit int) ([]*core.Note, error) {
	var results []*core.Note
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		// Use reverse iterator to get most recent notes first
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true

		iter := tx.NewIterator(opts)
		defer iter.Close()

		// Seek to the last possible key in the date index
		startKey := makePartialNoteDateKey(time.Date(9999, 12, 31, 23, 59, 59, 999999999, time.UTC))
		prefix := []byte(noteDatePrefix + ":")

		count := 0
		for iter.Seek(startKey); iter.Valid() && count < limit; iter.Next() {
			key := iter.Item().Key()

			// Check if we're still in the date index
			if len(key) < len(prefix) || slices.Compare(key[:len(prefix)], prefix) != 0 {
				break
			}

			// Read the id from the index
			var noteID core.ID
			if err := iter.Item().Value(func(val []byte) error {
				noteID = core.ID(val)
				return nil
			}); err != nil {
				return err
			}

			// Look up the full note
			note, err := readNote(tx, makeNoteKey(noteID))
			if err != nil {
				return err
			}
			if note != nil {
				results = append(results, note)
				count++
			}
		}
		return nil
	}, false)

	return results, wrapPersistence(err)
}

// FindSimilar finds notes whose embedding is similar to the given vector.
// Notes without an embedding are skipped, never scored as zero.
func (r *NoteRepository) FindSimilar(ctx context.Context, target []float32, minSimilarity float32, limit int) ([]*core.RankedNote, error) {
	var results []*core.RankedNote

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(noteRecordPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var note *core.Note
			err := iter.Item().Value(func(val []byte) error {
				var err error
				note, err = storage.UnmarshalNote(val)
				return err
			})
			if err != nil {
				return err
			}
			if note == nil || !note.HasVector() {
				continue
			}

			similarity := vector.Cosine(target, note.Vector)
			if similarity >= minSimilarity {
				results = append(results, &core.RankedNote{
					Note:       note,
					Similarity: similarity,
				})
			}
		}
		return nil
	}, false)

	if err != nil {
		return nil, wrapPersistence(err)
	}

	// Sort by similarity descending, most recently updated first on ties
	slices.SortFunc(results, func(a, b *core.RankedNote) int {
		if a.Similarity > b.Similarity {
			return -1
		}
		if a.Similarity < b.Similarity {
			return 1
		}
		return b.Note.UpdatedAt.Compare(a.Note.UpdatedAt)
	})

	if len(results) > limit {
		results = results[:limit]
	}

	return results, nil
}

// readNote reads a note from the transaction.
func readNote(tx *badger.Txn, key []byte) (*core.Note, error) {
	item, err := tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var note *core.Note
	err = item.Value(func(val []byte) error {
		var err error
		note, err = storage.UnmarshalNote(val)
		return err
	})
	return note, err
}

// wrapPersistence tags backend failures so callers can tell a durable-store
// failure apart from domain errors. Domain and storage sentinels pass through.
func wrapPersistence(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, storage.ErrNotFound) ||
		errors.Is(err, storage.ErrSerializationFailed) ||
		errors.Is(err, core.ErrInvalidNote) {
		return err
	}
	return fmt.Errorf("%w: %w", storage.ErrPersistence, err)
}
