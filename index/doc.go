// Package index provides pipeline orchestration for storing and embedding notes.
//
// The Pipeline type manages the indexing workflow for notes, including:
//   - Adding notes to storage
//   - Generating embeddings asynchronously
//
// Embedding is performed concurrently using a worker pool. Errors during
// async embedding are logged but do not fail the ingest operation, so a
// note can exist without a vector until its embedding completes.
package index
