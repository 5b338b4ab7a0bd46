package config

// Mode selects where inference runs: fully local or against a hosted API.
type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// ProviderType identifies an LLM provider.
type ProviderType string

const (
	ProviderOllama     ProviderType = "ollama"
	ProviderOpenAI     ProviderType = "openai"
	ProviderOpenRouter ProviderType = "openrouter"
	ProviderCustom     ProviderType = "custom"
)

// Config is the top-level pagelens configuration, corresponding to .pagelens.yml.
//
// Which fields are required depends on the mode/provider combination; Validate
// is the single place that knowledge lives.
type Config struct {
	Enabled  bool         `yaml:"enabled" koanf:"enabled"`
	Mode     Mode         `yaml:"mode" koanf:"mode"`
	Provider ProviderType `yaml:"provider" koanf:"provider"`
	Model    string       `yaml:"model" koanf:"model"`

	// APIURL is the base URL for ollama and custom OpenAI-compatible endpoints.
	APIURL string `yaml:"api_url" koanf:"api_url"`
	// APIKey authenticates against openai, openrouter and (optionally) custom
	// endpoints. Falls back to the provider's conventional env var when empty.
	APIKey string `yaml:"api_key" koanf:"api_key"`

	// Timeout bounds a whole turn (retrieve + generate + cite), in seconds.
	Timeout int `yaml:"timeout" koanf:"timeout"`

	EmbeddingProvider ProviderType `yaml:"embedding_provider" koanf:"embedding_provider"`
	EmbeddingModel    string       `yaml:"embedding_model" koanf:"embedding_model"`

	WebSearchProvider string `yaml:"web_search_provider" koanf:"web_search_provider"`
	WebSearchAPIKey   string `yaml:"web_search_api_key" koanf:"web_search_api_key"`
	MaxToolSteps      int    `yaml:"max_tool_steps" koanf:"max_tool_steps"`

	// SearchLimit is the maximum number of chunks retrieved per question.
	SearchLimit int `yaml:"search_limit" koanf:"search_limit"`
	// RequestsPerMinute rate-limits provider calls (0 = unlimited).
	RequestsPerMinute int `yaml:"requests_per_minute" koanf:"requests_per_minute"`

	// DataDir holds the chunk index and the session database.
	DataDir string `yaml:"data_dir" koanf:"data_dir"`
}
