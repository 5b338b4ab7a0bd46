package chunkstore

import "context"

// Store defines the interface for storing and searching page chunks by
// embedding similarity.
type Store interface {
	// AddChunks adds or updates chunks in the store.
	AddChunks(ctx context.Context, chunks []Chunk) error

	// Query performs a semantic search using the query text. limit must be
	// at least 1. An empty store yields an empty result, not an error.
	Query(ctx context.Context, query string, limit int) ([]Match, error)

	// DeleteByPage removes all chunks for the given page URL.
	DeleteByPage(ctx context.Context, pageURL string) error

	// Persist saves the store's data to the given directory.
	Persist(ctx context.Context, dir string) error

	// Load restores the store's data from the given directory.
	Load(ctx context.Context, dir string) error

	// Count returns the total number of chunks in the store.
	Count() int
}
