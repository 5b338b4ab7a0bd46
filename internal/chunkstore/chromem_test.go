package chunkstore

import (
	"context"
	"math"
	"testing"
)

// mockEmbedder returns deterministic embeddings based on text content.
// Similar texts produce similar vectors because shared characters contribute
// to the same positions in the vector.
type mockEmbedder struct {
	dims int
}

func (m *mockEmbedder) Name() string { return "mock" }

func (m *mockEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	results := make([][]float32, len(texts))
	for i, text := range texts {
		results[i] = m.deterministicVector(text)
	}
	return results, nil
}

func (m *mockEmbedder) deterministicVector(text string) []float32 {
	vec := make([]float32, m.dims)
	for i, ch := range text {
		idx := (int(ch) + i) % m.dims
		vec[idx] += 1.0
	}
	var norm float64
	for _, v := range vec {
		norm += float64(v * v)
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range vec {
			vec[i] = float32(float64(vec[i]) / norm)
		}
	}
	return vec
}

func testChunks() []Chunk {
	return []Chunk{
		{
			ID:   "page.md#0",
			Text: "Authentication requires an API token in the request header",
			Metadata: ChunkMetadata{
				PageURL:     "page.md",
				HeadingPath: []string{"API", "Authentication"},
				RawText:     "Authentication requires an API token in the request header",
				Position:    0,
			},
		},
		{
			ID:   "page.md#1",
			Text: "The rate limiter allows sixty requests per minute",
			Metadata: ChunkMetadata{
				PageURL:     "page.md",
				HeadingPath: []string{"API", "Rate limits"},
				RawText:     "The rate limiter allows sixty requests per minute",
				Position:    1,
			},
		},
		{
			ID:   "other.md#0",
			Text: "Install the extension from the browser store",
			Metadata: ChunkMetadata{
				PageURL:  "other.md",
				Position: 0,
			},
		},
	}
}

func TestChromemStoreAddAndQuery(t *testing.T) {
	ctx := context.Background()

	store, err := NewChromemStore(&mockEmbedder{dims: 64})
	if err != nil {
		t.Fatalf("NewChromemStore: %v", err)
	}

	if err := store.AddChunks(ctx, testChunks()); err != nil {
		t.Fatalf("AddChunks: %v", err)
	}
	if store.Count() != 3 {
		t.Fatalf("expected 3 chunks, got %d", store.Count())
	}

	matches, err := store.Query(ctx, "Authentication requires an API token", 2)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	if matches[0].Chunk.ID != "page.md#0" {
		t.Errorf("expected the auth chunk first, got %q", matches[0].Chunk.ID)
	}

	// Metadata round-trips through the store.
	meta := matches[0].Chunk.Metadata
	if meta.PageURL != "page.md" {
		t.Errorf("page URL: got %q", meta.PageURL)
	}
	if len(meta.HeadingPath) != 2 || meta.HeadingPath[1] != "Authentication" {
		t.Errorf("heading path: got %v", meta.HeadingPath)
	}
}

func TestChromemStoreQueryLimitClamped(t *testing.T) {
	ctx := context.Background()

	store, err := NewChromemStore(&mockEmbedder{dims: 64})
	if err != nil {
		t.Fatalf("NewChromemStore: %v", err)
	}
	if err := store.AddChunks(ctx, testChunks()[:1]); err != nil {
		t.Fatalf("AddChunks: %v", err)
	}

	// Asking for more results than stored documents must not error.
	matches, err := store.Query(ctx, "anything", 10)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(matches) != 1 {
		t.Errorf("expected 1 match, got %d", len(matches))
	}
}

func TestChromemStoreQueryEmpty(t *testing.T) {
	store, err := NewChromemStore(&mockEmbedder{dims: 64})
	if err != nil {
		t.Fatalf("NewChromemStore: %v", err)
	}

	matches, err := store.Query(context.Background(), "anything", 5)
	if err != nil {
		t.Fatalf("Query on empty store: %v", err)
	}
	if matches != nil {
		t.Errorf("expected no matches, got %v", matches)
	}
}

func TestChromemStoreDeleteByPage(t *testing.T) {
	ctx := context.Background()

	store, err := NewChromemStore(&mockEmbedder{dims: 64})
	if err != nil {
		t.Fatalf("NewChromemStore: %v", err)
	}
	if err := store.AddChunks(ctx, testChunks()); err != nil {
		t.Fatalf("AddChunks: %v", err)
	}

	if err := store.DeleteByPage(ctx, "page.md"); err != nil {
		t.Fatalf("DeleteByPage: %v", err)
	}
	if store.Count() != 1 {
		t.Errorf("expected 1 chunk after delete, got %d", store.Count())
	}
}

func TestChromemStorePersistLoad(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store, err := NewChromemStore(&mockEmbedder{dims: 64})
	if err != nil {
		t.Fatalf("NewChromemStore: %v", err)
	}
	if err := store.AddChunks(ctx, testChunks()); err != nil {
		t.Fatalf("AddChunks: %v", err)
	}
	if err := store.Persist(ctx, dir); err != nil {
		t.Fatalf("Persist: %v", err)
	}

	restored, err := NewChromemStore(&mockEmbedder{dims: 64})
	if err != nil {
		t.Fatalf("NewChromemStore: %v", err)
	}
	if err := restored.Load(ctx, dir); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if restored.Count() != 3 {
		t.Errorf("expected 3 chunks after load, got %d", restored.Count())
	}

	matches, err := restored.Query(ctx, "rate limiter requests per minute", 1)
	if err != nil {
		t.Fatalf("Query after load: %v", err)
	}
	if len(matches) != 1 || matches[0].Chunk.ID != "page.md#1" {
		t.Errorf("expected the rate-limit chunk, got %+v", matches)
	}
}
