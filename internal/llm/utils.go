package llm

import "codeberg.org/algopatterns/catalog/internal/config"

// returns the appropriate API key for the given provider
func getAPIKeyForProvider(provider Provider, baseConfig *config.Config) string {
	switch provider {
	case ProviderOpenAI:
		return baseConfig.Providers.OpenAIKey
	default:
		return baseConfig.Providers.AnthropicKey
	}
}
