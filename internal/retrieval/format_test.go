package retrieval

import (
	"strings"
	"testing"

	"github.com/pagelens/pagelens/internal/chunkstore"
)

func TestFormatSources(t *testing.T) {
	results := []ScoredResult{
		{
			Chunk: &chunkstore.Chunk{
				Text: "Installation requires Go 1.24 or newer.",
				Metadata: chunkstore.ChunkMetadata{
					HeadingPath: []string{"Getting Started", "Installation"},
				},
			},
			Score: 0.92,
		},
		{
			Chunk: &chunkstore.Chunk{Text: "Run the binary with no arguments."},
			Score: 0.5,
		},
	}

	got := FormatSources(results)

	if !strings.Contains(got, "[1] Getting Started > Installation (relevance 92%)") {
		t.Errorf("missing first source header:\n%s", got)
	}
	if !strings.Contains(got, "[2] (relevance 50%)") {
		t.Errorf("missing second source header:\n%s", got)
	}
	if !strings.Contains(got, "Installation requires Go 1.24 or newer.") {
		t.Errorf("missing chunk text:\n%s", got)
	}
}

func TestFormatSourcesEmpty(t *testing.T) {
	if got := FormatSources(nil); got != "No sources." {
		t.Errorf("expected %q, got %q", "No sources.", got)
	}
}

func TestSourceTexts(t *testing.T) {
	results := []ScoredResult{
		{Chunk: &chunkstore.Chunk{Text: "first"}},
		{Chunk: &chunkstore.Chunk{Text: "second"}},
	}

	texts := SourceTexts(results)
	if len(texts) != 2 || texts[0] != "first" || texts[1] != "second" {
		t.Errorf("unexpected texts: %v", texts)
	}
}
