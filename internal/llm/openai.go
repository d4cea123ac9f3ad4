package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"codeberg.org/algopatterns/catalog/internal/metrics"
)

const defaultOpenAIModel = "text-embedding-3-small"

type OpenAIConfig struct {
	APIKey      string
	BaseURL     string // OpenAI-compatible endpoint, empty for api.openai.com
	Model       string
	MaxTokens   int     // chat only
	Temperature float32 // chat only
}

func newOpenAIClient(cfg OpenAIConfig) *openai.Client {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}

	return openai.NewClientWithConfig(clientCfg)
}

type OpenAIEmbedder struct {
	client *openai.Client
	model  openai.EmbeddingModel
}

func NewOpenAIEmbedder(config OpenAIConfig) *OpenAIEmbedder {
	if config.Model == "" {
		config.Model = defaultOpenAIModel
	}

	return &OpenAIEmbedder{
		client: newOpenAIClient(config),
		model:  openai.EmbeddingModel(config.Model),
	}
}

func (e *OpenAIEmbedder) Model() string {
	return string(e.model)
}

func (e *OpenAIEmbedder) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	start := time.Now()

	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input:          []string{text},
		Model:          e.model,
		EncodingFormat: openai.EmbeddingEncodingFormatFloat,
	})

	if err == nil && len(resp.Data) == 0 {
		err = fmt.Errorf("no embeddings returned")
	}

	metrics.ObserveProvider(string(ProviderOpenAI), string(e.model), "embedding", time.Since(start).Seconds(), err)

	if err != nil {
		return nil, parseAPIError("embedding", err)
	}

	metrics.ProviderTokensTotal.WithLabelValues(string(ProviderOpenAI), string(e.model), "input").Add(float64(resp.Usage.PromptTokens))

	return resp.Data[0].Embedding, nil
}

type OpenAIGenerator struct {
	client *openai.Client
	config OpenAIConfig
}

func NewOpenAIGenerator(config OpenAIConfig) *OpenAIGenerator {
	if config.MaxTokens == 0 {
		config.MaxTokens = defaultMaxTokens
	}

	if config.Temperature == 0 {
		config.Temperature = defaultTemperature
	}

	return &OpenAIGenerator{
		client: newOpenAIClient(config),
		config: config,
	}
}

func (g *OpenAIGenerator) Model() string {
	return g.config.Model
}

func (g *OpenAIGenerator) GenerateText(ctx context.Context, req TextGenerationRequest) (*TextGenerationResponse, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages)+1)

	if req.SystemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.SystemPrompt,
		})
	}

	for _, msg := range req.Messages {
		messages = append(messages, openai.ChatCompletionMessage{Role: msg.Role, Content: msg.Content})
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = g.config.MaxTokens
	}

	start := time.Now()

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.config.Model,
		Messages:    messages,
		MaxTokens:   maxTokens,
		Temperature: g.config.Temperature,
	})

	metrics.ObserveProvider(string(ProviderOpenAI), g.config.Model, "completion", time.Since(start).Seconds(), err)

	if err != nil {
		return nil, parseAPIError("completion", err)
	}

	usage := Usage{
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
	}

	metrics.ProviderTokensTotal.WithLabelValues(string(ProviderOpenAI), g.config.Model, "input").Add(float64(usage.InputTokens))
	metrics.ProviderTokensTotal.WithLabelValues(string(ProviderOpenAI), g.config.Model, "output").Add(float64(usage.OutputTokens))

	if len(resp.Choices) == 0 {
		return &TextGenerationResponse{Usage: usage}, nil
	}

	return &TextGenerationResponse{
		Text:  strings.TrimSpace(resp.Choices[0].Message.Content),
		Usage: usage,
	}, nil
}

// turns client errors into readable messages carrying the HTTP status
func parseAPIError(kind string, err error) error {
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return fmt.Errorf("%s API error %d: %w", kind, reqErr.HTTPStatusCode, err)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%s API error %d: %s: %w", kind, apiErr.HTTPStatusCode, apiErr.Message, err)
	}

	return fmt.Errorf("%s request failed: %w", kind, err)
}
