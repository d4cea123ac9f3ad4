package config

import "time"

type Config struct {
	Environment string `yaml:"environment"`
	Port        string `yaml:"port"`
	LogLevel    string `yaml:"log_level"`

	Database  DatabaseConfig  `yaml:"database"`
	Providers ProvidersConfig `yaml:"providers"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	HTTP      HTTPConfig      `yaml:"http"`
}

type DatabaseConfig struct {
	URL      string `yaml:"url"`
	MaxConns int32  `yaml:"max_conns"`

	// simple protocol is required behind PgBouncer in transaction mode
	SimpleProtocol bool `yaml:"simple_protocol"`
}

type ProvidersConfig struct {
	OpenAIKey     string `yaml:"openai_api_key"`
	OpenAIBaseURL string `yaml:"openai_base_url"`
	AnthropicKey  string `yaml:"anthropic_api_key"`

	GeneratorProvider    string  `yaml:"generator_provider"` // anthropic or openai
	GeneratorModel       string  `yaml:"generator_model"`
	GeneratorMaxTokens   int     `yaml:"generator_max_tokens"`
	GeneratorTemperature float32 `yaml:"generator_temperature"`

	EmbedderModel string `yaml:"embedder_model"`
}

type RetrievalConfig struct {
	EmbeddingDimensions    int    `yaml:"embedding_dimensions"`
	EmbeddingMaxInputChars int    `yaml:"embedding_max_input_chars"`
	VectorBackend          string `yaml:"vector_backend"` // pgvector or qdrant
	VectorMetric           string `yaml:"vector_metric"`
	QdrantURL              string `yaml:"qdrant_url"`
	QdrantCollection       string `yaml:"qdrant_collection"`

	MergeCap          int `yaml:"merge_cap"`
	PromptTokenBudget int `yaml:"prompt_token_budget"`

	StoreTimeout      time.Duration `yaml:"store_timeout"`
	EmbeddingTimeout  time.Duration `yaml:"embedding_timeout"`
	CompletionTimeout time.Duration `yaml:"completion_timeout"`
}

type HTTPConfig struct {
	RateLimit   string   `yaml:"rate_limit"` // ulule format, e.g. "60-M"
	RedisURL    string   `yaml:"redis_url"`
	JWTSecret   string   `yaml:"jwt_secret"`
	CORSOrigins []string `yaml:"cors_origins"`
}

type Flags struct {
	Subject string
	TTL     time.Duration
}
