package index

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strings"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/ontonote/ai"
	"github.com/poiesic/ontonote/core"
	"github.com/poiesic/ontonote/storage"
)

// Pipeline orchestrates note ingestion and embedding generation.
// Notes are stored synchronously; embeddings are generated on a worker
// pool and attached to the stored notes afterwards.
type Pipeline struct {
	noteRepository storage.NoteRepository
	embedder       ai.Embedder
	embeddingPool  *ants.Pool
	logger         *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent embedding.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		// Release old pool
		if p.embeddingPool != nil {
			p.embeddingPool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}

		p.embeddingPool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new indexing pipeline.
func NewPipeline(noteRepository storage.NoteRepository, embedder ai.Embedder, opts ...Option) (*Pipeline, error) {
	if noteRepository == nil {
		return nil, ErrNoteRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	// Default pool size
	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		noteRepository: noteRepository,
		embedder:       embedder,
		embeddingPool:  pool,
		logger:         slog.Default(),
	}

	// Apply options (may override defaults)
	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// Ingest stores the notes and schedules embedding generation for them.
// Errors during async embedding are logged but do not fail the ingestion.
// Returns the stored notes with their assigned ids and timestamps.
func (p *Pipeline) Ingest(ctx context.Context, notes ...*core.Note) ([]*core.Note, error) {
	added, err := p.noteRepository.AddNotes(ctx, notes...)
	if err != nil {
		return nil, err
	}

	if len(added) == 0 {
		return added, nil
	}

	ids := make([]core.ID, len(added))
	for i, note := range added {
		ids[i] = note.Id
	}

	err = p.embeddingPool.Submit(func() {
		if err := p.embedNotes(context.Background(), ids...); err != nil {
			p.logger.Error("error generating note embeddings", "err", err)
		}
	})
	if err != nil {
		// Notes are already stored; they just stay unembedded.
		p.logger.Error("error scheduling embedding generation", "notes", len(ids), "err", err)
	}

	return added, nil
}

// embedNotes generates and stores embeddings for the identified notes.
func (p *Pipeline) embedNotes(ctx context.Context, ids ...core.ID) error {
	p.logger.Info("processing notes for embeddings", "notes", len(ids))

	notes, err := p.noteRepository.GetNotes(ctx, ids...)
	if err != nil {
		p.logger.Error("error retrieving notes", "err", err)
		return err
	}

	texts := make([]string, len(notes))
	for i, note := range notes {
		texts[i] = EmbeddingText(note)
	}

	p.logger.Debug("generating embeddings for notes", "notes", len(texts))
	embeddings, err := p.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		p.logger.Error("error generating embeddings", "err", err)
		return err
	}

	if len(embeddings) != len(notes) {
		return fmt.Errorf("embedding result mismatch. expected %d, received %d", len(notes), len(embeddings))
	}

	for i := range embeddings {
		notes[i].Vector = embeddings[i]
	}

	_, err = p.noteRepository.UpdateNotes(ctx, notes...)
	return err
}

// EmbeddingText builds the text a note is embedded from. Title and content
// are joined so both contribute to the vector.
func EmbeddingText(note *core.Note) string {
	if note.Title == "" {
		return note.Content
	}
	if note.Content == "" {
		return note.Title
	}
	return strings.Join([]string{note.Title, note.Content}, "\n\n")
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.embeddingPool != nil {
		p.embeddingPool.Release()
	}
}
