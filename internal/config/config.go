package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (PAGELENS_*). A missing file is not an
// error: the defaults are returned so a first run works out of the box.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// Overlay environment variables: PAGELENS_PROVIDER -> provider, etc.
	if err := k.Load(env.Provider("PAGELENS_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "PAGELENS_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// offlineProviders are the providers allowed in offline mode: inference that
// never leaves the machine.
var offlineProviders = map[ProviderType]bool{
	ProviderOllama: true,
}

// onlineProviders are the providers allowed in online mode.
var onlineProviders = map[ProviderType]bool{
	ProviderOllama:     true,
	ProviderOpenAI:     true,
	ProviderOpenRouter: true,
	ProviderCustom:     true,
}

// Validate checks that the mode/provider combination is coherent and that
// every field the combination requires is present. It is the only place
// provider requirements are encoded; callers can rely on a validated config
// being dispatchable without further checks.
func (c *Config) Validate() error {
	switch c.Mode {
	case ModeOffline:
		if !offlineProviders[c.Provider] {
			return fmt.Errorf("provider %q is not available in offline mode (use ollama)", c.Provider)
		}
	case ModeOnline:
		if !onlineProviders[c.Provider] {
			return fmt.Errorf("invalid provider %q: must be one of ollama, openai, openrouter, custom", c.Provider)
		}
	case "":
		return fmt.Errorf("mode is required (offline or online)")
	default:
		return fmt.Errorf("invalid mode %q: must be offline or online", c.Mode)
	}

	if c.Model == "" && c.Provider != ProviderCustom {
		return fmt.Errorf("model is required")
	}

	switch c.Provider {
	case ProviderOpenAI, ProviderOpenRouter:
		if c.ResolveAPIKey() == "" {
			return fmt.Errorf("%s requires an API key (set api_key or %s)", c.Provider, APIKeyEnvVar(c.Provider))
		}
	case ProviderCustom:
		if c.APIURL == "" {
			return fmt.Errorf("custom provider requires api_url")
		}
		if c.Model == "" {
			return fmt.Errorf("custom provider requires model")
		}
	}

	if c.Timeout < 0 {
		return fmt.Errorf("timeout must be non-negative")
	}
	if c.SearchLimit < 1 {
		return fmt.Errorf("search_limit must be >= 1")
	}
	if c.MaxToolSteps < 0 {
		return fmt.Errorf("max_tool_steps must be non-negative")
	}
	if c.WebSearchProvider != "" && c.WebSearchAPIKey == "" {
		return fmt.Errorf("web_search_provider %q requires web_search_api_key", c.WebSearchProvider)
	}

	return nil
}

// ResolveAPIKey returns the configured API key, falling back to the
// provider's conventional environment variable.
func (c *Config) ResolveAPIKey() string {
	if c.APIKey != "" {
		return c.APIKey
	}
	if name := APIKeyEnvVar(c.Provider); name != "" {
		return os.Getenv(name)
	}
	return ""
}

// TurnTimeout returns the per-turn timeout as a duration. A zero config value
// means the default of two minutes; there is deliberately no way to disable
// the timeout entirely, since a stalled provider call would otherwise wedge
// the session forever.
func (c *Config) TurnTimeout() time.Duration {
	if c.Timeout <= 0 {
		return 2 * time.Minute
	}
	return time.Duration(c.Timeout) * time.Second
}

// APIKeyEnvVar returns the conventional environment variable name for
// the API key of the given provider.
func APIKeyEnvVar(provider ProviderType) string {
	switch provider {
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	case ProviderOpenRouter:
		return "OPENROUTER_API_KEY"
	case ProviderCustom:
		return "PAGELENS_API_KEY"
	default:
		return ""
	}
}
