// Package reindex provides functionality for reembedding existing notes
// with new or updated embedding models.
//
// This package supports batch processing of notes, progress tracking,
// retry logic with exponential backoff, and vector normalization to ensure
// compatibility with cosine similarity search.
package reindex
