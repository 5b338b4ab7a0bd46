package retrieval

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/pagelens/pagelens/internal/chunkstore"
)

// ErrEmptyQuery is returned when the query is empty after trimming.
var ErrEmptyQuery = errors.New("query must not be empty")

// ScoredResult pairs a chunk reference with its relevance score in [0, 1].
type ScoredResult struct {
	Chunk *chunkstore.Chunk
	Score float64
}

// Retriever scores stored chunks against a query. It is a pure read over the
// chunk store; it never mutates anything.
type Retriever struct {
	store chunkstore.Store
}

// New creates a Retriever over the given store.
func New(store chunkstore.Store) *Retriever {
	return &Retriever{store: store}
}

// Search returns up to limit chunks ordered by descending score. Ties are
// broken by the chunk's original position within its page, so equal-scoring
// results keep a stable order across calls. An empty corpus yields an empty
// result, not an error.
func (r *Retriever) Search(ctx context.Context, query string, limit int) ([]ScoredResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if limit < 1 {
		return nil, fmt.Errorf("limit must be >= 1, got %d", limit)
	}

	if r.store.Count() == 0 {
		return nil, nil
	}

	matches, err := r.store.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("chunk search: %w", err)
	}

	results := make([]ScoredResult, len(matches))
	for i, m := range matches {
		results[i] = ScoredResult{
			Chunk: m.Chunk,
			Score: clampScore(float64(m.Similarity)),
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Chunk.Metadata.Position < results[j].Chunk.Metadata.Position
	})

	if len(results) > limit {
		results = results[:limit]
	}

	return results, nil
}

// clampScore maps a cosine similarity into [0, 1]. Similarities are already
// in that range for normalized embeddings; negative values (possible with
// some models) are floored at zero.
func clampScore(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > 1 {
		return 1
	}
	return s
}
