package llm

import (
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// NewCustomProvider creates a provider for a self-hosted OpenAI-compatible
// endpoint (vLLM, LM Studio, llama.cpp server, ...). baseURL should point at
// the API root, with or without a trailing /v1.
func NewCustomProvider(baseURL, apiKey, model string) *OpenAIProvider {
	baseURL = strings.TrimRight(baseURL, "/")
	if !strings.HasSuffix(baseURL, "/v1") {
		baseURL += "/v1"
	}

	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL
	return &OpenAIProvider{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		name:   "custom",
	}
}
