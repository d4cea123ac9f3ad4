package llm

import (
	"fmt"
)

// creates the completion provider named by the config
func NewGenerator(config *Config) (TextGenerator, error) {
	if config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	switch config.GeneratorProvider {
	case ProviderAnthropic:
		return NewAnthropicGenerator(AnthropicConfig{
			APIKey:      config.GeneratorAPIKey,
			BaseURL:     config.AnthropicBaseURL,
			Model:       config.GeneratorModel,
			MaxTokens:   config.GeneratorMaxTokens,
			Temperature: config.GeneratorTemperature,
		}), nil
	case ProviderOpenAI:
		return NewOpenAIGenerator(OpenAIConfig{
			APIKey:      config.GeneratorAPIKey,
			BaseURL:     config.OpenAIBaseURL,
			Model:       config.GeneratorModel,
			MaxTokens:   config.GeneratorMaxTokens,
			Temperature: config.GeneratorTemperature,
		}), nil
	default:
		return nil, fmt.Errorf("unsupported generator provider: %s", config.GeneratorProvider)
	}
}

// creates the embedding provider
func NewEmbedder(config *Config) (Embedder, error) {
	if config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	if config.EmbedderAPIKey == "" {
		return nil, fmt.Errorf("embedder API key is required")
	}

	return NewOpenAIEmbedder(OpenAIConfig{
		APIKey:  config.EmbedderAPIKey,
		BaseURL: config.EmbedderBaseURL,
		Model:   config.EmbedderModel,
	}), nil
}
