package main

import (
	"context"
	"fmt"

	"codeberg.org/algopatterns/catalog/internal/agent"
	askcore "codeberg.org/algopatterns/catalog/internal/ask"
	"codeberg.org/algopatterns/catalog/internal/config"
	"codeberg.org/algopatterns/catalog/internal/llm"
	"codeberg.org/algopatterns/catalog/internal/logger"
	"codeberg.org/algopatterns/catalog/internal/retriever"
	"codeberg.org/algopatterns/catalog/internal/storage"
	"codeberg.org/algopatterns/catalog/internal/vectorstore"
)

// creates the provider clients and assembles the ask pipeline
func InitializeServices(ctx context.Context, cfg *config.Config, store *storage.Client) (*Services, error) {
	llmConfig := llm.NewConfig(cfg)

	embedder, err := llm.NewEmbedder(llmConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}

	generator, err := llm.NewGenerator(llmConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create generator: %w", err)
	}

	r := cfg.Retrieval
	services := &Services{}

	var vectors retriever.VectorSearcher = store

	if r.VectorBackend == config.VectorBackendQdrant {
		qdrantStore, err := vectorstore.NewQdrantStore(r.QdrantURL, r.QdrantCollection, store.Metric())
		if err != nil {
			return nil, err
		}

		services.Qdrant = qdrantStore
		vectors = qdrantStore
	}

	if err := checkCorpus(ctx, cfg, store, services.Qdrant); err != nil {
		services.Close()
		return nil, err
	}

	services.Ask = askcore.NewService(
		retriever.NewLexical(store, r.StoreTimeout),
		retriever.NewVectorizer(embedder, r.EmbeddingDimensions, r.EmbeddingMaxInputChars, r.EmbeddingTimeout),
		retriever.NewSemantic(vectors, r.StoreTimeout),
		agent.New(generator, agent.Config{
			PromptTokenBudget: r.PromptTokenBudget,
			Timeout:           r.CompletionTimeout,
		}),
		askcore.Config{MergeCap: r.MergeCap},
	)

	logger.Info("ask pipeline initialized",
		"vector_backend", r.VectorBackend,
		"metric", store.Metric(),
		"dimensions", r.EmbeddingDimensions,
		"embedder", embedder.Model(),
		"generator", generator.Model(),
		"merge_cap", r.MergeCap,
	)

	return services, nil
}

// refuses to start when the configured embedding space disagrees with the corpus index,
// since every distance computed afterwards would be meaningless
func checkCorpus(ctx context.Context, cfg *config.Config, store *storage.Client, qdrantStore *vectorstore.QdrantStore) error {
	dims := cfg.Retrieval.EmbeddingDimensions

	if qdrantStore != nil {
		if err := qdrantStore.Check(ctx, dims); err != nil {
			return fmt.Errorf("qdrant collection check failed: %w", err)
		}

		return nil
	}

	declared, err := store.EmbeddingDimension(ctx, "")
	if err != nil {
		return fmt.Errorf("failed to inspect embedding column: %w", err)
	}

	switch {
	case declared == 0:
		logger.Warn("embedding column has no declared dimension, skipping check", "configured", dims)
	case declared != dims:
		return fmt.Errorf("embedding column is vector(%d) but EMBEDDING_DIMENSIONS=%d", declared, dims)
	}

	return nil
}

// releases clients owned by the services, best-effort
func (s *Services) Close() {
	if s.Qdrant != nil {
		if err := s.Qdrant.Close(); err != nil {
			logger.Warn("failed to close qdrant client", "error", err)
		}
	}
}
