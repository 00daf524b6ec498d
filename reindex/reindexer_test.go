package reindex

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/poiesic/ontonote/ai/mock"
	"github.com/poiesic/ontonote/vector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()
	assert.Equal(t, 100, config.BatchSize)
	assert.Equal(t, 100, config.ReportInterval)
	assert.Equal(t, 3, config.MaxRetries)
	assert.Equal(t, time.Second, config.RetryDelay)
}

func TestReindexer_Run(t *testing.T) {
	repo, cleanup := seedRepo(t, 5)
	defer cleanup()

	ctx := context.Background()
	var progress bytes.Buffer

	reindexer := NewReindexer(repo, mock.NewMockEmbedder(), &Config{
		BatchSize:      2,
		ReportInterval: 2,
		MaxRetries:     2,
		RetryDelay:     time.Millisecond,
	}, &progress)

	require.NoError(t, reindexer.Run(ctx))

	// Every note now carries a normalized embedding.
	notes, err := repo.GetAllNotes(ctx)
	require.NoError(t, err)
	require.Len(t, notes, 5)
	for _, note := range notes {
		require.True(t, note.HasVector(), "note %s missing embedding", note.Id)
		assert.InDelta(t, 1.0, vector.Norm(note.Vector), 1e-5)
	}

	assert.Contains(t, progress.String(), "Reindexing complete")
}

func TestReindexer_EmptyDatabase(t *testing.T) {
	repo, cleanup := seedRepo(t, 0)
	defer cleanup()

	var progress bytes.Buffer
	reindexer := NewReindexer(repo, mock.NewMockEmbedder(), nil, &progress)

	require.NoError(t, reindexer.Run(context.Background()))
	assert.Contains(t, progress.String(), "No notes found")
}

func TestReindexer_EmbedderFailure(t *testing.T) {
	repo, cleanup := seedRepo(t, 3)
	defer cleanup()

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, errors.New("embedding service down")
	}

	var progress bytes.Buffer
	reindexer := NewReindexer(repo, embedder, &Config{
		BatchSize:      2,
		ReportInterval: 2,
		MaxRetries:     2,
		RetryDelay:     time.Millisecond,
	}, &progress)

	err := reindexer.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to process batch")
}

func TestBatchProcessor_EmptyBatch(t *testing.T) {
	repo, cleanup := seedRepo(t, 0)
	defer cleanup()

	processor := NewBatchProcessor(repo, mock.NewMockEmbedder(), 1, time.Millisecond)
	require.NoError(t, processor.Process(context.Background(), nil))
}
