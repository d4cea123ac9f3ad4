package retriever

import (
	"context"
	"fmt"
	"time"

	"codeberg.org/algopatterns/catalog/internal/llm"
)

// turns question text into an embedding of the corpus dimension
type Vectorizer struct {
	embedder      llm.Embedder
	dims          int
	maxInputChars int
	timeout       time.Duration
}

func NewVectorizer(embedder llm.Embedder, dims, maxInputChars int, timeout time.Duration) *Vectorizer {
	if maxInputChars <= 0 {
		maxInputChars = defaultMaxInputChars
	}

	return &Vectorizer{
		embedder:      embedder,
		dims:          dims,
		maxInputChars: maxInputChars,
		timeout:       timeout,
	}
}

func (v *Vectorizer) Dimensions() int {
	return v.dims
}

// errors wrap ErrProviderFailure (recoverable) or ErrDimensionMismatch (misconfiguration)
func (v *Vectorizer) Embed(ctx context.Context, text string) ([]float32, error) {
	if v.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, v.timeout)
		defer cancel()
	}

	vec, err := v.embedder.GenerateEmbedding(ctx, truncateRunes(text, v.maxInputChars))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProviderFailure, err)
	}

	if len(vec) != v.dims {
		return nil, fmt.Errorf("%w: model %s returned %d values, corpus uses %d",
			ErrDimensionMismatch, v.embedder.Model(), len(vec), v.dims)
	}

	return vec, nil
}
