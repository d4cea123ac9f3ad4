package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	VectorBackendPgvector = "pgvector"
	VectorBackendQdrant   = "qdrant"

	GeneratorAnthropic = "anthropic"
	GeneratorOpenAI    = "openai"
)

// loads configuration from .env, an optional YAML file, and environment variables
func LoadEnvironmentVariables() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		_ = err // not an error - production environments may not have .env file
	}

	cfg := &Config{}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(expandEnvVars(data), cfg); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	return nil
}

// environment variables win over the config file
func applyEnv(cfg *Config) error {
	setString(&cfg.Environment, "ENVIRONMENT")
	setString(&cfg.Port, "PORT")
	setString(&cfg.LogLevel, "LOG_LEVEL")

	setString(&cfg.Database.URL, "SUPABASE_CONNECTION_STRING")
	setString(&cfg.Database.URL, "DATABASE_URL")

	setString(&cfg.Providers.OpenAIKey, "OPENAI_API_KEY")
	setString(&cfg.Providers.OpenAIBaseURL, "OPENAI_BASE_URL")
	setString(&cfg.Providers.AnthropicKey, "ANTHROPIC_API_KEY")
	setString(&cfg.Providers.GeneratorProvider, "GENERATOR_PROVIDER")
	setString(&cfg.Providers.GeneratorModel, "GENERATOR_MODEL")
	setString(&cfg.Providers.EmbedderModel, "EMBEDDER_MODEL")

	setString(&cfg.Retrieval.VectorBackend, "VECTOR_BACKEND")
	setString(&cfg.Retrieval.VectorMetric, "VECTOR_METRIC")
	setString(&cfg.Retrieval.QdrantURL, "QDRANT_URL")
	setString(&cfg.Retrieval.QdrantCollection, "QDRANT_COLLECTION")

	setString(&cfg.HTTP.RateLimit, "RATE_LIMIT")
	setString(&cfg.HTTP.RedisURL, "REDIS_URL")
	setString(&cfg.HTTP.JWTSecret, "JWT_SECRET")

	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		cfg.HTTP.CORSOrigins = splitList(origins)
	}

	if v := os.Getenv("DATABASE_SIMPLE_PROTOCOL"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("DATABASE_SIMPLE_PROTOCOL: %w", err)
		}

		cfg.Database.SimpleProtocol = b
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"GENERATOR_MAX_TOKENS", &cfg.Providers.GeneratorMaxTokens},
		{"EMBEDDING_DIMENSIONS", &cfg.Retrieval.EmbeddingDimensions},
		{"EMBEDDING_MAX_INPUT_CHARS", &cfg.Retrieval.EmbeddingMaxInputChars},
		{"MERGE_CAP", &cfg.Retrieval.MergeCap},
		{"PROMPT_TOKEN_BUDGET", &cfg.Retrieval.PromptTokenBudget},
	}

	for _, i := range ints {
		if err := setInt(i.dst, i.key); err != nil {
			return err
		}
	}

	if v := os.Getenv("DATABASE_MAX_CONNS"); v != "" {
		n, err := strconv.ParseInt(v, 10, 32)
		if err != nil {
			return fmt.Errorf("DATABASE_MAX_CONNS: %w", err)
		}

		cfg.Database.MaxConns = int32(n)
	}

	if v := os.Getenv("GENERATOR_TEMPERATURE"); v != "" {
		f, err := strconv.ParseFloat(v, 32)
		if err != nil {
			return fmt.Errorf("GENERATOR_TEMPERATURE: %w", err)
		}

		cfg.Providers.GeneratorTemperature = float32(f)
	}

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"STORE_TIMEOUT", &cfg.Retrieval.StoreTimeout},
		{"EMBEDDING_TIMEOUT", &cfg.Retrieval.EmbeddingTimeout},
		{"COMPLETION_TIMEOUT", &cfg.Retrieval.CompletionTimeout},
	}

	for _, d := range durations {
		if err := setDuration(d.dst, d.key); err != nil {
			return err
		}
	}

	return nil
}

// fills empty fields with default values
func (c *Config) ApplyDefaults() {
	if c.Environment == "" {
		c.Environment = "development"
	}

	if c.Port == "" {
		c.Port = "8080"
	}

	if c.Database.MaxConns <= 0 {
		c.Database.MaxConns = 5
	}

	if c.Providers.GeneratorProvider == "" {
		c.Providers.GeneratorProvider = GeneratorAnthropic
	}

	if c.Providers.GeneratorModel == "" {
		switch c.Providers.GeneratorProvider {
		case GeneratorOpenAI:
			c.Providers.GeneratorModel = "gpt-4o-mini"
		default:
			c.Providers.GeneratorModel = "claude-sonnet-4-20250514"
		}
	}

	if c.Providers.GeneratorMaxTokens <= 0 {
		c.Providers.GeneratorMaxTokens = 1024
	}

	if c.Providers.GeneratorTemperature == 0 {
		c.Providers.GeneratorTemperature = 0.2
	}

	if c.Providers.EmbedderModel == "" {
		c.Providers.EmbedderModel = "text-embedding-3-small"
	}

	r := &c.Retrieval

	if r.EmbeddingDimensions <= 0 {
		r.EmbeddingDimensions = 1536
	}

	if r.EmbeddingMaxInputChars <= 0 {
		r.EmbeddingMaxInputChars = 8192
	}

	if r.VectorBackend == "" {
		r.VectorBackend = VectorBackendPgvector
	}

	if r.VectorMetric == "" {
		r.VectorMetric = "cosine"
	}

	if r.QdrantCollection == "" {
		r.QdrantCollection = "evidence_rows"
	}

	if r.MergeCap <= 0 {
		r.MergeCap = 10
	}

	if r.PromptTokenBudget <= 0 {
		r.PromptTokenBudget = 6000
	}

	if r.StoreTimeout <= 0 {
		r.StoreTimeout = 5 * time.Second
	}

	if r.EmbeddingTimeout <= 0 {
		r.EmbeddingTimeout = 10 * time.Second
	}

	if r.CompletionTimeout <= 0 {
		r.CompletionTimeout = 45 * time.Second
	}

	if c.HTTP.RateLimit == "" {
		c.HTTP.RateLimit = "60-M"
	}
}

// checks the configuration for correctness
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	if c.Providers.OpenAIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY environment variable is required")
	}

	switch c.Providers.GeneratorProvider {
	case GeneratorAnthropic:
		if c.Providers.AnthropicKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY environment variable is required")
		}
	case GeneratorOpenAI:
	default:
		return fmt.Errorf("unsupported generator provider: %s", c.Providers.GeneratorProvider)
	}

	switch c.Retrieval.VectorBackend {
	case VectorBackendPgvector:
	case VectorBackendQdrant:
		if c.Retrieval.QdrantURL == "" {
			return fmt.Errorf("QDRANT_URL is required when VECTOR_BACKEND=qdrant")
		}
	default:
		return fmt.Errorf("unsupported vector backend: %s", c.Retrieval.VectorBackend)
	}

	switch strings.ToLower(c.Retrieval.VectorMetric) {
	case "cosine", "l2", "inner_product":
	default:
		return fmt.Errorf("unsupported vector metric: %s", c.Retrieval.VectorMetric)
	}

	if c.Retrieval.MergeCap > 50 {
		return fmt.Errorf("merge cap must be at most 50, got %d", c.Retrieval.MergeCap)
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}

	*dst = n

	return nil
}

func setDuration(dst *time.Duration, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}

	*dst = d

	return nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))

	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}

	return out
}

// replaces ${VAR} and ${VAR:-default} with environment variable values
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1])
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")

		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}

		return []byte(val)
	})
}
