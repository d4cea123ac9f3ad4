package llm

import (
	"codeberg.org/algopatterns/catalog/internal/config"
)

// holds configuration for provider initialization
type Config struct {
	// generator configuration
	GeneratorProvider    Provider
	GeneratorAPIKey      string
	GeneratorModel       string // e.g., "claude-sonnet-4-20250514"
	GeneratorMaxTokens   int
	GeneratorTemperature float32

	// embedder configuration, always OpenAI-compatible
	EmbedderAPIKey  string
	EmbedderBaseURL string
	EmbedderModel   string // e.g., "text-embedding-3-small"

	// base URL overrides, used by tests and proxies
	AnthropicBaseURL string
	OpenAIBaseURL    string
}

// derives provider configuration from the service config
func NewConfig(cfg *config.Config) *Config {
	p := cfg.Providers
	provider := Provider(p.GeneratorProvider)

	return &Config{
		GeneratorProvider:    provider,
		GeneratorAPIKey:      getAPIKeyForProvider(provider, cfg),
		GeneratorModel:       p.GeneratorModel,
		GeneratorMaxTokens:   p.GeneratorMaxTokens,
		GeneratorTemperature: p.GeneratorTemperature,
		EmbedderAPIKey:       p.OpenAIKey,
		EmbedderBaseURL:      p.OpenAIBaseURL,
		EmbedderModel:        p.EmbedderModel,
		OpenAIBaseURL:        p.OpenAIBaseURL,
	}
}
