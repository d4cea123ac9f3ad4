package retriever

import (
	"context"
	"math"
	"slices"
	"strings"
	"time"

	"codeberg.org/algopatterns/catalog/internal/evidence"
	"codeberg.org/algopatterns/catalog/internal/logger"
	"codeberg.org/algopatterns/catalog/internal/metrics"
)

// returns the k nearest rows from the vector store
type Semantic struct {
	store   VectorSearcher
	timeout time.Duration
}

func NewSemantic(store VectorSearcher, timeout time.Duration) *Semantic {
	return &Semantic{store: store, timeout: timeout}
}

// a store failure is logged and yields no rows
func (s *Semantic) Nearest(ctx context.Context, vec []float32, scope *string, k int) []evidence.Row {
	if k <= 0 || len(vec) == 0 {
		return nil
	}

	searchCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		searchCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	rows, err := s.store.VectorSearch(searchCtx, vec, scope, k)
	if err != nil {
		metrics.StoreErrorsTotal.WithLabelValues("vector_search", storeErrorCategory(err)).Inc()
		logger.FromContext(ctx).Warnw("semantic search failed, continuing without semantic hits", "error", err)
		return nil
	}

	sortByDistance(rows)

	if len(rows) > k {
		rows = rows[:k]
	}

	return rows
}

// ascending distance, ties broken by primary key then dataset id;
// rows without a distance sort last
func sortByDistance(rows []evidence.Row) {
	slices.SortStableFunc(rows, func(a, b evidence.Row) int {
		da, db := a.DistanceOr(math.Inf(1)), b.DistanceOr(math.Inf(1))

		switch {
		case da < db:
			return -1
		case da > db:
			return 1
		}

		if c := strings.Compare(a.PrimaryKey, b.PrimaryKey); c != 0 {
			return c
		}

		return strings.Compare(a.DatasetID, b.DatasetID)
	})
}
