package config

// Default model choices per provider. Ollama defaults favour small models that
// run on typical laptops, matching the sidebar's offline-first posture.
var defaultModels = map[ProviderType]string{
	ProviderOllama:     "llama3.2",
	ProviderOpenAI:     "gpt-4o-mini",
	ProviderOpenRouter: "meta-llama/llama-3.2-3b-instruct",
}

// defaultEmbeddingModels maps each embedding provider to its default model.
var defaultEmbeddingModels = map[ProviderType]string{
	ProviderOllama: "nomic-embed-text",
	ProviderOpenAI: "text-embedding-3-small",
}

// DefaultConfig returns a Config with sensible defaults: offline mode against
// a local Ollama instance, so a first run needs no credentials at all.
func DefaultConfig() *Config {
	return &Config{
		Enabled:           true,
		Mode:              ModeOffline,
		Provider:          ProviderOllama,
		Model:             defaultModels[ProviderOllama],
		EmbeddingProvider: ProviderOllama,
		EmbeddingModel:    defaultEmbeddingModels[ProviderOllama],
		Timeout:           120,
		SearchLimit:       5,
		MaxToolSteps:      5,
		DataDir:           ".pagelens",
	}
}

// DefaultModel returns the default chat model for the given provider, or an
// empty string if the provider has no obvious default (custom endpoints).
func DefaultModel(provider ProviderType) string {
	return defaultModels[provider]
}

// DefaultEmbeddingModel returns the default embedding model for the provider.
func DefaultEmbeddingModel(provider ProviderType) string {
	if m, ok := defaultEmbeddingModels[provider]; ok {
		return m
	}
	return defaultEmbeddingModels[ProviderOpenAI]
}
