package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pagelens/pagelens/internal/answer"
	"github.com/pagelens/pagelens/internal/chunkstore"
	"github.com/pagelens/pagelens/internal/config"
	"github.com/pagelens/pagelens/internal/embeddings"
	"github.com/pagelens/pagelens/internal/llm"
	"github.com/pagelens/pagelens/internal/retrieval"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config (%s): %w\nRun `pagelens config init` to reconfigure", cfgFile, err)
	}
	return cfg, nil
}

// openChunkStore creates the chunk store and loads the persisted index if
// one exists. Returns the store even when loading fails, with loaded=false,
// so commands can decide whether an empty index is fatal.
func openChunkStore(ctx context.Context, cfg *config.Config) (*chunkstore.ChromemStore, bool, error) {
	embedder, err := embeddings.FromConfig(cfg)
	if err != nil {
		return nil, false, fmt.Errorf("creating embedder: %w", err)
	}

	store, err := chunkstore.NewChromemStore(embedder)
	if err != nil {
		return nil, false, fmt.Errorf("creating chunk store: %w", err)
	}

	indexDir := filepath.Join(cfg.DataDir, "index")
	if _, statErr := os.Stat(indexDir); statErr != nil {
		return store, false, nil
	}
	if err := store.Load(ctx, indexDir); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not load chunk index from %s: %v\n", indexDir, err)
		return store, false, nil
	}

	return store, true, nil
}

// buildPipeline creates the retriever and generator from config.
func buildPipeline(cfg *config.Config, store chunkstore.Store) (*retrieval.Retriever, *answer.Generator, error) {
	provider, err := llm.FromConfig(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("creating LLM provider: %w", err)
	}
	return retrieval.New(store), answer.NewGenerator(provider, cfg.Model), nil
}

func exitOnError(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
