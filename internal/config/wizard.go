package config

import (
	"fmt"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. The caller is responsible for saving it.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to pagelens! Let's configure your assistant.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Mode selection.
	modePrompt := promptui.Select{
		Label: "Where should the model run",
		Items: []string{
			"offline — local Ollama, nothing leaves this machine",
			"online  — hosted API (OpenAI, OpenRouter, or a custom endpoint)",
		},
	}
	modeIdx, _, err := modePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("mode selection: %w", err)
	}

	if modeIdx == 0 {
		cfg.Mode = ModeOffline
		cfg.Provider = ProviderOllama
	} else {
		cfg.Mode = ModeOnline

		providerPrompt := promptui.Select{
			Label: "Select LLM provider",
			Items: []string{"ollama", "openai", "openrouter", "custom"},
		}
		_, providerStr, err := providerPrompt.Run()
		if err != nil {
			return nil, fmt.Errorf("provider selection: %w", err)
		}
		cfg.Provider = ProviderType(providerStr)
	}

	// 2. Model name.
	modelPrompt := promptui.Prompt{
		Label:     "Model",
		Default:   DefaultModel(cfg.Provider),
		AllowEdit: true,
	}
	model, err := modelPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("model prompt: %w", err)
	}
	cfg.Model = model

	// 3. Provider-specific fields.
	switch cfg.Provider {
	case ProviderOpenAI, ProviderOpenRouter:
		keyPrompt := promptui.Prompt{
			Label: fmt.Sprintf("API key (blank to use %s)", APIKeyEnvVar(cfg.Provider)),
			Mask:  '*',
		}
		key, err := keyPrompt.Run()
		if err != nil {
			return nil, fmt.Errorf("api key prompt: %w", err)
		}
		cfg.APIKey = key
	case ProviderCustom:
		urlPrompt := promptui.Prompt{
			Label: "API base URL (OpenAI-compatible)",
		}
		apiURL, err := urlPrompt.Run()
		if err != nil {
			return nil, fmt.Errorf("api url prompt: %w", err)
		}
		cfg.APIURL = apiURL

		keyPrompt := promptui.Prompt{
			Label: "API key (blank if none)",
			Mask:  '*',
		}
		key, err := keyPrompt.Run()
		if err != nil {
			return nil, fmt.Errorf("api key prompt: %w", err)
		}
		cfg.APIKey = key
	case ProviderOllama:
		hostPrompt := promptui.Prompt{
			Label:     "Ollama host",
			Default:   "http://localhost:11434",
			AllowEdit: true,
		}
		host, err := hostPrompt.Run()
		if err != nil {
			return nil, fmt.Errorf("ollama host prompt: %w", err)
		}
		cfg.APIURL = host
		cfg.EmbeddingProvider = ProviderOllama
		cfg.EmbeddingModel = DefaultEmbeddingModel(ProviderOllama)
	}

	if cfg.Provider != ProviderOllama {
		cfg.EmbeddingProvider = ProviderOpenAI
		cfg.EmbeddingModel = DefaultEmbeddingModel(ProviderOpenAI)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration is incomplete: %w", err)
	}

	return cfg, nil
}
