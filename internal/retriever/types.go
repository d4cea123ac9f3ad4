package retriever

import (
	"context"
	"errors"

	"codeberg.org/algopatterns/catalog/internal/evidence"
)

// case-insensitive containment search against row content
type SubstringSearcher interface {
	SubstringSearch(ctx context.Context, pattern string, scope *string, limit int) ([]evidence.Row, error)
}

// nearest-neighbor search under the deployment metric, ascending distance
type VectorSearcher interface {
	VectorSearch(ctx context.Context, vec []float32, scope *string, k int) ([]evidence.Row, error)
}

var (
	// the provider returned a vector of the wrong length for the corpus
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// the provider call failed or timed out
	ErrProviderFailure = errors.New("embedding provider failure")
)

// upper bound on store lookups one lexical search may issue
const MaxVariants = 8

const (
	minVariantLen = 2
	maxVariantLen = 100

	// hyphenated tokens longer than this also contribute their segments
	longTokenLen = 12

	defaultMaxInputChars = 8192
)
