package search

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/poiesic/ontonote/ai"
	"github.com/poiesic/ontonote/core"
	"github.com/poiesic/ontonote/ontology"
	"github.com/poiesic/ontonote/storage"
)

// TreeSource supplies the current canonical ontology tree. The engine reads
// a fresh snapshot per query, so it always sees either the fully-old or the
// fully-new tree, never an intermediate state.
type TreeSource func() *core.Tree

// Engine combines tag-expansion filtering, free-text matching, and
// embedding-similarity ranking over the note collection.
type Engine struct {
	noteRepository storage.NoteRepository
	tree           TreeSource
	embedder       ai.Embedder
	minSimilarity  float32
	logger         *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// WithMinSimilarity sets the similarity floor for Similar.
// Default is -1, which includes every embedded note.
func WithMinSimilarity(min float32) Option {
	return func(e *Engine) error {
		if min < -1 || min > 1 {
			return fmt.Errorf("min similarity %v outside [-1, 1]", min)
		}
		e.minSimilarity = min
		return nil
	}
}

// NewEngine creates a new search engine.
func NewEngine(noteRepository storage.NoteRepository, tree TreeSource, embedder ai.Embedder, opts ...Option) (*Engine, error) {
	if noteRepository == nil {
		return nil, ErrNoteRepositoryRequired
	}
	if tree == nil {
		return nil, ErrTreeSourceRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	e := &Engine{
		noteRepository: noteRepository,
		tree:           tree,
		embedder:       embedder,
		minSimilarity:  -1,
		logger:         slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}

	return e, nil
}

// Search evaluates a combined query over the note collection.
func (e *Engine) Search(ctx context.Context, filter core.SearchFilter) ([]*core.Note, error) {
	return e.SearchWithMonitor(ctx, filter, nil)
}

// SearchWithMonitor evaluates a combined query with stage callbacks.
//
// Evaluation order: if a tag filter is active its semantic expansion is
// applied first, then the free-text filter narrows the result; the final
// order is pinned notes first, then most recently updated. Similarity
// ranking is a separate mode (Similar) and is never mixed in here.
func (e *Engine) SearchWithMonitor(ctx context.Context, filter core.SearchFilter, monitor Monitor) ([]*core.Note, error) {
	// Use noop monitor if none provided
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	monitor.Start(filter)

	notes, err := e.noteRepository.GetAllNotes(ctx)
	if err != nil {
		e.logger.Error("error retrieving notes", "err", err)
		return nil, err
	}

	if filter.Status != 0 {
		kept := notes[:0:0]
		for _, note := range notes {
			if note.Status == filter.Status {
				kept = append(kept, note)
			}
		}
		notes = kept
	}

	if filter.Tag != "" {
		expanded := ontology.SemanticMatches(e.tree(), filter.Tag)
		monitor.AfterTagExpansion(expanded)

		notes = filterByExpanded(notes, expanded)
		monitor.AfterTagFilter(notes)
	}

	if filter.Query != "" {
		notes = TextSearch(notes, filter.Query)
		monitor.AfterTextFilter(notes)
	}

	// Pinned first, then most recently updated
	slices.SortFunc(notes, func(a, b *core.Note) int {
		if a.Pinned != b.Pinned {
			if a.Pinned {
				return -1
			}
			return 1
		}
		return b.UpdatedAt.Compare(a.UpdatedAt)
	})

	monitor.Finish(notes)
	return notes, nil
}

// Similar ranks the full note collection against the query text by
// embedding similarity. This mode replaces recency ordering with
// similarity ordering and ignores any tag or text filter. Returns up to
// maxHits results; notes without an embedding never appear.
func (e *Engine) Similar(ctx context.Context, query string, maxHits int) ([]*core.RankedNote, error) {
	embedding, err := e.embedder.EmbedText(ctx, query)
	if err != nil {
		e.logger.Error("error generating embedding for query", "query", query, "err", err)
		return nil, err
	}

	return e.noteRepository.FindSimilar(ctx, embedding, e.minSimilarity, maxHits)
}

// RelatedNote is a similarity hit annotated with the tags it shares with
// the source note.
type RelatedNote struct {
	core.RankedNote
	SharedTags []string
}

// Related ranks every other note against the given note's embedding and
// annotates each hit with the tags shared with the source note. Fails with
// ErrNoEmbedding if the source note has no embedding yet.
func (e *Engine) Related(ctx context.Context, noteId core.ID, maxHits int) ([]*RelatedNote, error) {
	source, err := e.noteRepository.GetNote(ctx, noteId)
	if err != nil {
		return nil, err
	}
	if !source.HasVector() {
		return nil, fmt.Errorf("%w: note %s", ErrNoEmbedding, noteId)
	}

	notes, err := e.noteRepository.GetAllNotes(ctx)
	if err != nil {
		e.logger.Error("error retrieving notes", "err", err)
		return nil, err
	}

	candidates := make([]*core.Note, 0, len(notes))
	for _, note := range notes {
		if note.Id != source.Id {
			candidates = append(candidates, note)
		}
	}

	ranked := RankBySimilarity(source.Vector, candidates)
	if len(ranked) > maxHits {
		ranked = ranked[:maxHits]
	}

	related := make([]*RelatedNote, len(ranked))
	for i, hit := range ranked {
		related[i] = &RelatedNote{
			RankedNote: *hit,
			SharedTags: SharedTags(source, hit.Note),
		}
	}
	return related, nil
}
