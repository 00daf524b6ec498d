// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ontonote

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/poiesic/ontonote/ai"
	"github.com/poiesic/ontonote/ai/openai"
	"github.com/poiesic/ontonote/core"
	"github.com/poiesic/ontonote/index"
	"github.com/poiesic/ontonote/ontology"
	"github.com/poiesic/ontonote/reindex"
	"github.com/poiesic/ontonote/search"
	"github.com/poiesic/ontonote/storage"
	"github.com/poiesic/ontonote/storage/badger"
)

// Notebook is the top-level handle over a note database and its concept
// ontology. It owns the storage backend, keeps the canonical tree in
// memory, and persists every tree mutation before publishing it.
type Notebook struct {
	backend  *badger.Backend
	treeRepo storage.TreeRepository
	noteRepo storage.NoteRepository
	embedder ai.Embedder
	logger   *slog.Logger

	// tree holds the current canonical ontology. Readers take a snapshot
	// through the pointer; writers swap in a fully-built replacement.
	tree atomic.Pointer[core.Tree]

	// mutateMu serializes tree mutations so no update is lost between
	// reading the current tree and swapping in its successor.
	mutateMu sync.Mutex

	subMu       sync.Mutex
	subscribers []func(*core.Tree)
}

// NotebookOption configures a Notebook.
type NotebookOption func(*notebookOptions)

type notebookOptions struct {
	aiConfig *ai.Config
	inMemory bool
	logger   *slog.Logger
}

// WithAIConfig sets the embedding service configuration.
func WithAIConfig(config *ai.Config) NotebookOption {
	return func(o *notebookOptions) {
		o.aiConfig = config
	}
}

// WithInMemory opens the backing store in memory, without touching disk.
// Intended for tests and throwaway sessions.
func WithInMemory() NotebookOption {
	return func(o *notebookOptions) {
		o.inMemory = true
	}
}

// WithNotebookLogger sets a custom logger.
// Default is slog.Default().
func WithNotebookLogger(logger *slog.Logger) NotebookOption {
	return func(o *notebookOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// NewNotebook opens (or creates) a notebook at the given path. The stored
// ontology tree is loaded into memory; a fresh empty tree is created and
// persisted if none exists yet.
func NewNotebook(filePath string, opts ...NotebookOption) (*Notebook, error) {
	// Apply options
	options := &notebookOptions{
		aiConfig: ai.DefaultConfig(), // Default if not provided
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}

	// Open backend
	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	// Create tree repository
	treeRepo, err := badger.NewTreeRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	// Create note repository
	noteRepo, err := badger.NewNoteRepository(backend)
	if err != nil {
		treeRepo.Close()
		backend.Close()
		return nil, err
	}

	// Create embedder with configured settings
	embedder, err := openai.NewEmbedder(options.aiConfig)
	if err != nil {
		noteRepo.Close()
		treeRepo.Close()
		backend.Close()
		return nil, err
	}

	nb := &Notebook{
		backend:  backend,
		treeRepo: treeRepo,
		noteRepo: noteRepo,
		embedder: embedder,
		logger:   options.logger,
	}

	ctx := context.Background()
	tree, err := treeRepo.LoadTree(ctx)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			nb.Close()
			return nil, err
		}
		tree = ontology.NewTree()
		if err := treeRepo.SaveTree(ctx, tree); err != nil {
			nb.Close()
			return nil, err
		}
	}
	nb.tree.Store(tree)

	return nb, nil
}

// Tree returns the current canonical ontology tree. The returned tree is
// immutable; mutations go through the Concept methods.
func (nb *Notebook) Tree() *core.Tree {
	return nb.tree.Load()
}

// Subscribe registers a callback invoked after every committed tree
// mutation with the new canonical tree. Callbacks run synchronously on
// the mutating goroutine and must not mutate the tree.
func (nb *Notebook) Subscribe(fn func(*core.Tree)) {
	if fn == nil {
		return
	}
	nb.subMu.Lock()
	defer nb.subMu.Unlock()
	nb.subscribers = append(nb.subscribers, fn)
}

// mutate applies fn to the current tree, persists the result, and swaps
// it in as the new canonical tree. If persistence fails the in-memory
// tree is left untouched.
func (nb *Notebook) mutate(ctx context.Context, fn func(*core.Tree) (*core.Tree, error)) (*core.Tree, error) {
	nb.mutateMu.Lock()
	defer nb.mutateMu.Unlock()

	next, err := fn(nb.tree.Load())
	if err != nil {
		return nil, err
	}

	if err := nb.treeRepo.SaveTree(ctx, next); err != nil {
		return nil, err
	}

	nb.tree.Store(next)
	nb.notify(next)
	return next, nil
}

func (nb *Notebook) notify(tree *core.Tree) {
	nb.subMu.Lock()
	subscribers := nb.subscribers
	nb.subMu.Unlock()

	for _, fn := range subscribers {
		fn(tree)
	}
}

// AddConcept creates a new concept node under the given parent and commits
// the updated tree. An empty parentId creates a root concept.
func (nb *Notebook) AddConcept(ctx context.Context, label string, parentId core.ID, attributes map[string]string) (*core.Node, error) {
	node, err := ontology.NewNode(label, parentId, attributes)
	if err != nil {
		return nil, err
	}

	_, err = nb.mutate(ctx, func(tree *core.Tree) (*core.Tree, error) {
		return ontology.AddNode(tree, node)
	})
	if err != nil {
		return nil, err
	}
	return node, nil
}

// RemoveConcept deletes a concept node. Its children are reattached to the
// removed node's former parent.
func (nb *Notebook) RemoveConcept(ctx context.Context, nodeId core.ID) error {
	_, err := nb.mutate(ctx, func(tree *core.Tree) (*core.Tree, error) {
		return ontology.RemoveNode(tree, nodeId)
	})
	return err
}

// UpdateConcept applies a partial update to a concept node.
func (nb *Notebook) UpdateConcept(ctx context.Context, nodeId core.ID, update ontology.NodeUpdate) error {
	_, err := nb.mutate(ctx, func(tree *core.Tree) (*core.Tree, error) {
		return ontology.UpdateNode(tree, nodeId, update)
	})
	return err
}

// RenameConcept changes a concept node's label.
func (nb *Notebook) RenameConcept(ctx context.Context, nodeId core.ID, label string) error {
	return nb.UpdateConcept(ctx, nodeId, ontology.NodeUpdate{Label: &label})
}

// MoveConcept reparents a concept node, inserting it at the given position
// among the new parent's children. An empty newParentId moves the node to
// the root level.
func (nb *Notebook) MoveConcept(ctx context.Context, nodeId, newParentId core.ID, position int) error {
	_, err := nb.mutate(ctx, func(tree *core.Tree) (*core.Tree, error) {
		return ontology.MoveNode(tree, nodeId, newParentId, position)
	})
	return err
}

// ChildConcepts returns the ordered children of a concept node, or the
// root concepts when parentId is empty.
func (nb *Notebook) ChildConcepts(parentId core.ID) []*core.Node {
	return ontology.ChildNodes(nb.tree.Load(), parentId)
}

// ExportOntology serializes the current tree to its JSON document form.
func (nb *Notebook) ExportOntology() (string, error) {
	return ontology.ExportJSON(nb.tree.Load())
}

// ImportOntology replaces the entire tree with one parsed from a JSON
// document. The current tree is kept if parsing or validation fails.
func (nb *Notebook) ImportOntology(ctx context.Context, text string) (*core.Tree, error) {
	return nb.mutate(ctx, func(_ *core.Tree) (*core.Tree, error) {
		return ontology.ImportJSON(text)
	})
}

// NoteRepository exposes the underlying note store.
func (nb *Notebook) NoteRepository() storage.NoteRepository {
	return nb.noteRepo
}

// TreeRepository exposes the underlying tree store.
func (nb *Notebook) TreeRepository() storage.TreeRepository {
	return nb.treeRepo
}

// Embedder exposes the configured embedding client.
func (nb *Notebook) Embedder() ai.Embedder {
	return nb.embedder
}

// NewSearchEngine creates a search engine bound to this notebook's notes
// and its live ontology tree.
func (nb *Notebook) NewSearchEngine(opts ...search.Option) (*search.Engine, error) {
	return search.NewEngine(nb.noteRepo, nb.Tree, nb.embedder, opts...)
}

// NewIndexPipeline creates an indexing pipeline bound to this notebook.
func (nb *Notebook) NewIndexPipeline(opts ...index.Option) (*index.Pipeline, error) {
	return index.NewPipeline(nb.noteRepo, nb.embedder, opts...)
}

// NewReindexer creates a reindexer that reembeds every note in this
// notebook.
func (nb *Notebook) NewReindexer(config *reindex.Config, progress io.Writer) *reindex.Reindexer {
	return reindex.NewReindexer(nb.noteRepo, nb.embedder, config, progress)
}

func (nb *Notebook) Close() error {
	// Close repositories
	if err := nb.noteRepo.Close(); err != nil {
		nb.logger.Error("error closing note repository", "err", err)
		return err
	}
	if err := nb.treeRepo.Close(); err != nil {
		nb.logger.Error("error closing tree repository", "err", err)
		return err
	}

	// Close backend
	if err := nb.backend.Close(); err != nil {
		nb.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}
