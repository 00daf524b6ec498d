package badger

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/ontonote/core"
	"github.com/poiesic/ontonote/storage"
)

// TreeRepository implements storage.TreeRepository for BadgerDB.
// The whole ontology tree persists as one JSON snapshot under a fixed key;
// every save replaces it wholesale, matching the copy-on-write tree model.
type TreeRepository struct {
	backend *Backend
}

var _ storage.TreeRepository = (*TreeRepository)(nil)

// NewTreeRepository creates a new TreeRepository.
func NewTreeRepository(backend *Backend) (storage.TreeRepository, error) {
	return &TreeRepository{
		backend: backend,
	}, nil
}

// Close releases resources. TreeRepository has no resources to release.
func (r *TreeRepository) Close() error {
	return nil
}

// LoadTree retrieves the stored tree snapshot.
func (r *TreeRepository) LoadTree(ctx context.Context) (*core.Tree, error) {
	var result *core.Tree
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get([]byte(treeSnapshotKey))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return fmt.Errorf("%w: %w", storage.ErrPersistence, err)
		}
		return item.Value(func(val []byte) error {
			result, err = storage.UnmarshalTree(val)
			return err
		})
	}, false)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// SaveTree replaces the stored snapshot with the given tree.
func (r *TreeRepository) SaveTree(ctx context.Context, tree *core.Tree) error {
	value, err := storage.MarshalTree(tree)
	if err != nil {
		return err
	}
	err = r.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set([]byte(treeSnapshotKey), value); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return fmt.Errorf("%w: %w", storage.ErrPersistence, err)
	}
	return nil
}
