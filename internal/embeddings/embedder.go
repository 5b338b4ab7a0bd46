package embeddings

import (
	"context"
	"fmt"
	"os"

	chromem "github.com/philippgille/chromem-go"

	"github.com/pagelens/pagelens/internal/config"
)

// Embedder defines the interface for generating text embeddings.
type Embedder interface {
	// Embed generates embeddings for one or more texts.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// Name returns the name/identifier of the embedding model.
	Name() string
}

// ToChromemFunc converts an Embedder into a chromem.EmbeddingFunc.
// chromem-go expects a function that embeds a single text at a time.
func ToChromemFunc(e Embedder) chromem.EmbeddingFunc {
	return func(ctx context.Context, text string) ([]float32, error) {
		results, err := e.Embed(ctx, []string{text})
		if err != nil {
			return nil, err
		}
		if len(results) == 0 {
			return nil, fmt.Errorf("embedder %s returned no vectors", e.Name())
		}
		return results[0], nil
	}
}

// FromConfig creates an embedder from configuration. The embedding provider
// defaults to the chat provider when unset; providers without native
// embedding endpoints fall back to OpenAI.
func FromConfig(cfg *config.Config) (Embedder, error) {
	provider := cfg.EmbeddingProvider
	if provider == "" {
		provider = cfg.Provider
	}
	model := cfg.EmbeddingModel
	if model == "" {
		model = config.DefaultEmbeddingModel(provider)
	}

	switch provider {
	case config.ProviderOllama:
		return NewOllamaEmbedder(model, cfg.APIURL), nil
	case config.ProviderOpenAI:
		apiKey := cfg.ResolveAPIKey()
		if apiKey == "" {
			apiKey = envAPIKey(config.ProviderOpenAI)
		}
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required for OpenAI embeddings")
		}
		return NewOpenAIEmbedder(apiKey, model), nil
	default:
		// openrouter/custom have no embedding endpoint here; use OpenAI.
		apiKey := envAPIKey(config.ProviderOpenAI)
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required (used for embeddings when provider is %s)", provider)
		}
		return NewOpenAIEmbedder(apiKey, model), nil
	}
}

func envAPIKey(provider config.ProviderType) string {
	if name := config.APIKeyEnvVar(provider); name != "" {
		return os.Getenv(name)
	}
	return ""
}
