package llm

import (
	"fmt"

	"github.com/pagelens/pagelens/internal/config"
)

// FromConfig creates an LLM provider from a validated configuration.
// The rate limiter is applied when requests_per_minute is set.
func FromConfig(cfg *config.Config) (Provider, error) {
	var provider Provider

	switch cfg.Provider {
	case config.ProviderOllama:
		provider = NewOllamaProvider(cfg.APIURL, cfg.Model)

	case config.ProviderOpenAI:
		apiKey := cfg.ResolveAPIKey()
		if apiKey == "" {
			return nil, fmt.Errorf("openai requires an API key (set api_key or %s)", config.APIKeyEnvVar(config.ProviderOpenAI))
		}
		provider = NewOpenAIProvider(apiKey, cfg.Model)

	case config.ProviderOpenRouter:
		apiKey := cfg.ResolveAPIKey()
		if apiKey == "" {
			return nil, fmt.Errorf("openrouter requires an API key (set api_key or %s)", config.APIKeyEnvVar(config.ProviderOpenRouter))
		}
		provider = NewOpenRouterProvider(apiKey, cfg.Model)

	case config.ProviderCustom:
		if cfg.APIURL == "" {
			return nil, fmt.Errorf("custom provider requires api_url")
		}
		provider = NewCustomProvider(cfg.APIURL, cfg.ResolveAPIKey(), cfg.Model)

	default:
		return nil, fmt.Errorf("unsupported provider type: %s", cfg.Provider)
	}

	if cfg.RequestsPerMinute > 0 {
		provider = NewRateLimitedProvider(provider, cfg.RequestsPerMinute)
	}

	return provider, nil
}
