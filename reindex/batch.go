package reindex

import (
	"context"
	"fmt"
	"time"

	"github.com/poiesic/ontonote/ai"
	"github.com/poiesic/ontonote/core"
	"github.com/poiesic/ontonote/index"
	"github.com/poiesic/ontonote/storage"
	"github.com/poiesic/ontonote/vector"
)

// BatchProcessor handles embedding generation for batches of notes.
type BatchProcessor struct {
	repo           storage.NoteRepository
	embedder       ai.Embedder
	maxRetries     int
	retryBaseDelay time.Duration
}

// NewBatchProcessor creates a new batch processor.
// maxRetries: maximum number of retry attempts for embedding API calls
// retryBaseDelay: base delay for exponential backoff
func NewBatchProcessor(repo storage.NoteRepository, embedder ai.Embedder, maxRetries int, retryBaseDelay time.Duration) *BatchProcessor {
	return &BatchProcessor{
		repo:           repo,
		embedder:       embedder,
		maxRetries:     maxRetries,
		retryBaseDelay: retryBaseDelay,
	}
}

// Process generates embeddings for a batch of notes and updates them in the database.
// Vectors are normalized after embedding to ensure compatibility with cosine similarity.
func (bp *BatchProcessor) Process(ctx context.Context, notes []*core.Note) error {
	if len(notes) == 0 {
		return nil
	}

	// Extract text content
	texts := make([]string, len(notes))
	for i, note := range notes {
		texts[i] = index.EmbeddingText(note)
	}

	// Generate embeddings with retry
	var embeddings [][]float32
	err := RetryWithBackoff(ctx, func() error {
		var err error
		embeddings, err = bp.embedder.EmbedTexts(ctx, texts)
		return err
	}, bp.maxRetries, bp.retryBaseDelay)

	if err != nil {
		return fmt.Errorf("failed to generate embeddings after %d attempts: %w", bp.maxRetries, err)
	}

	if len(embeddings) != len(notes) {
		return fmt.Errorf("embedding count mismatch: expected %d, got %d", len(notes), len(embeddings))
	}

	// Normalize vectors and assign to notes
	for i := range notes {
		notes[i].Vector = vector.Normalize(embeddings[i])
	}

	// Update notes in database
	_, err = bp.repo.UpdateNotes(ctx, notes...)
	if err != nil {
		return fmt.Errorf("failed to update notes: %w", err)
	}

	return nil
}
