package llm

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/algopatterns/catalog/internal/config"
)

func TestOpenAIEmbedder_GenerateEmbedding(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/embeddings", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "text-embedding-3-small", body["model"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"object":"list","data":[{"object":"embedding","index":0,"embedding":[0.1,0.2,0.3]}],"model":"text-embedding-3-small","usage":{"prompt_tokens":3,"total_tokens":3}}`)
	}))
	defer server.Close()

	e := NewOpenAIEmbedder(OpenAIConfig{APIKey: "sk-test", BaseURL: server.URL})

	vec, err := e.GenerateEmbedding(t.Context(), "aves")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, vec)
	assert.Equal(t, "text-embedding-3-small", e.Model())
}

func TestOpenAIEmbedder_ProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = io.WriteString(w, `{"error":{"message":"slow down","type":"rate_limit"}}`)
	}))
	defer server.Close()

	e := NewOpenAIEmbedder(OpenAIConfig{APIKey: "sk-test", BaseURL: server.URL})

	_, err := e.GenerateEmbedding(t.Context(), "aves")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestOpenAIGenerator_GenerateText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)

		var body struct {
			Model    string    `json:"model"`
			Messages []Message `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Len(t, body.Messages, 2)
		assert.Equal(t, "system", body.Messages[0].Role)
		assert.Equal(t, "rules", body.Messages[0].Content)

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"c1","object":"chat.completion","model":"gpt-4o-mini","choices":[{"index":0,"message":{"role":"assistant","content":"  grounded  "},"finish_reason":"stop"}],"usage":{"prompt_tokens":10,"completion_tokens":2,"total_tokens":12}}`)
	}))
	defer server.Close()

	g := NewOpenAIGenerator(OpenAIConfig{APIKey: "sk-test", BaseURL: server.URL, Model: "gpt-4o-mini"})

	resp, err := g.GenerateText(t.Context(), TextGenerationRequest{
		SystemPrompt: "rules",
		Messages:     []Message{{Role: "user", Content: "q"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "grounded", resp.Text)
	assert.Equal(t, 10, resp.Usage.InputTokens)
	assert.Equal(t, 2, resp.Usage.OutputTokens)
}

func TestAnthropicGenerator_GenerateText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "sk-ant", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))

		var body messagesRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "sys", body.System)
		assert.Equal(t, 64, body.MaxTokens)

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"m1","type":"message","role":"assistant","model":"claude","content":[{"type":"text","text":"part one "},{"type":"text","text":"part two"}],"usage":{"input_tokens":7,"output_tokens":4}}`)
	}))
	defer server.Close()

	g := NewAnthropicGenerator(AnthropicConfig{APIKey: "sk-ant", BaseURL: server.URL + "/", Model: "claude"})

	resp, err := g.GenerateText(t.Context(), TextGenerationRequest{
		SystemPrompt: "sys",
		Messages:     []Message{{Role: "user", Content: "q"}},
		MaxTokens:    64,
	})
	require.NoError(t, err)
	assert.Equal(t, "part one part two", resp.Text)
	assert.Equal(t, Usage{InputTokens: 7, OutputTokens: 4}, resp.Usage)
}

func TestAnthropicGenerator_StatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = io.WriteString(w, `overloaded`)
	}))
	defer server.Close()

	g := NewAnthropicGenerator(AnthropicConfig{APIKey: "k", BaseURL: server.URL, Model: "claude"})

	_, err := g.GenerateText(t.Context(), TextGenerationRequest{Messages: []Message{{Role: "user", Content: "q"}}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
	assert.Contains(t, err.Error(), "overloaded")
}

func TestNewGenerator(t *testing.T) {
	_, err := NewGenerator(nil)
	require.Error(t, err)

	g, err := NewGenerator(&Config{GeneratorProvider: ProviderAnthropic, GeneratorModel: "claude"})
	require.NoError(t, err)
	assert.IsType(t, &AnthropicGenerator{}, g)

	g, err = NewGenerator(&Config{GeneratorProvider: ProviderOpenAI, GeneratorModel: "gpt"})
	require.NoError(t, err)
	assert.IsType(t, &OpenAIGenerator{}, g)
	assert.Equal(t, "gpt", g.Model())

	_, err = NewGenerator(&Config{GeneratorProvider: "mistral"})
	require.Error(t, err)
}

func TestNewConfig_PicksKeyForProvider(t *testing.T) {
	cfg := &config.Config{}
	cfg.Providers.OpenAIKey = "sk-openai"
	cfg.Providers.AnthropicKey = "sk-ant"
	cfg.Providers.GeneratorProvider = "openai"

	c := NewConfig(cfg)
	assert.Equal(t, "sk-openai", c.GeneratorAPIKey)
	assert.Equal(t, "sk-openai", c.EmbedderAPIKey)

	cfg.Providers.GeneratorProvider = "anthropic"
	assert.Equal(t, "sk-ant", NewConfig(cfg).GeneratorAPIKey)

	_, err := NewEmbedder(&Config{})
	require.Error(t, err)
}
