package retrieval

import (
	"context"
	"errors"
	"testing"

	"github.com/pagelens/pagelens/internal/chunkstore"
)

// fakeStore returns canned matches and records queries.
type fakeStore struct {
	matches []chunkstore.Match
	err     error
	queries []string
}

func (f *fakeStore) AddChunks(_ context.Context, _ []chunkstore.Chunk) error { return nil }
func (f *fakeStore) DeleteByPage(_ context.Context, _ string) error          { return nil }
func (f *fakeStore) Persist(_ context.Context, _ string) error               { return nil }
func (f *fakeStore) Load(_ context.Context, _ string) error                  { return nil }
func (f *fakeStore) Count() int                                              { return len(f.matches) }

func (f *fakeStore) Query(_ context.Context, query string, limit int) ([]chunkstore.Match, error) {
	f.queries = append(f.queries, query)
	if f.err != nil {
		return nil, f.err
	}
	if len(f.matches) > limit {
		return f.matches[:limit], nil
	}
	return f.matches, nil
}

func chunkAt(id string, position int) *chunkstore.Chunk {
	return &chunkstore.Chunk{
		ID:       id,
		Text:     "text for " + id,
		Metadata: chunkstore.ChunkMetadata{PageURL: "page.md", Position: position},
	}
}

func TestSearchOrdersByScoreThenPosition(t *testing.T) {
	store := &fakeStore{matches: []chunkstore.Match{
		{Chunk: chunkAt("low", 0), Similarity: 0.41},
		{Chunk: chunkAt("later", 7), Similarity: 0.9},
		{Chunk: chunkAt("earlier", 2), Similarity: 0.9},
	}}

	results, err := New(store).Search(context.Background(), "query", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	wantOrder := []string{"earlier", "later", "low"}
	for i, want := range wantOrder {
		if results[i].Chunk.ID != want {
			t.Errorf("result %d: expected %q, got %q", i, want, results[i].Chunk.ID)
		}
	}
}

func TestSearchRespectsLimit(t *testing.T) {
	store := &fakeStore{matches: []chunkstore.Match{
		{Chunk: chunkAt("a", 0), Similarity: 0.9},
		{Chunk: chunkAt("b", 1), Similarity: 0.8},
		{Chunk: chunkAt("c", 2), Similarity: 0.7},
	}}

	results, err := New(store).Search(context.Background(), "query", 2)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	r := New(&fakeStore{})

	if _, err := r.Search(context.Background(), "   ", 5); !errors.Is(err, ErrEmptyQuery) {
		t.Errorf("expected ErrEmptyQuery, got %v", err)
	}
}

func TestSearchInvalidLimit(t *testing.T) {
	r := New(&fakeStore{matches: []chunkstore.Match{{Chunk: chunkAt("a", 0), Similarity: 0.5}}})

	if _, err := r.Search(context.Background(), "query", 0); err == nil {
		t.Error("expected error for limit 0")
	}
}

func TestSearchEmptyCorpus(t *testing.T) {
	store := &fakeStore{}

	results, err := New(store).Search(context.Background(), "query", 5)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if results != nil {
		t.Errorf("expected nil results for empty corpus, got %v", results)
	}
	if len(store.queries) != 0 {
		t.Error("store should not be queried when empty")
	}
}

func TestSearchClampsScores(t *testing.T) {
	store := &fakeStore{matches: []chunkstore.Match{
		{Chunk: chunkAt("neg", 0), Similarity: -0.2},
		{Chunk: chunkAt("pos", 1), Similarity: 0.6},
	}}

	results, err := New(store).Search(context.Background(), "query", 5)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	for _, r := range results {
		if r.Score < 0 || r.Score > 1 {
			t.Errorf("score out of range: %f", r.Score)
		}
	}
}

func TestSearchStoreError(t *testing.T) {
	store := &fakeStore{
		matches: []chunkstore.Match{{Chunk: chunkAt("a", 0), Similarity: 0.5}},
		err:     errors.New("index corrupted"),
	}

	if _, err := New(store).Search(context.Background(), "query", 5); err == nil {
		t.Error("expected store error to propagate")
	}
}
