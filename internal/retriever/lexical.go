package retriever

import (
	"context"
	"time"

	"codeberg.org/algopatterns/catalog/internal/evidence"
	"codeberg.org/algopatterns/catalog/internal/logger"
	"codeberg.org/algopatterns/catalog/internal/metrics"
)

// finds rows whose content contains the query or one of its hyphen variants
type Lexical struct {
	store   SubstringSearcher
	timeout time.Duration
}

func NewLexical(store SubstringSearcher, timeout time.Duration) *Lexical {
	return &Lexical{store: store, timeout: timeout}
}

// never fails: a variant whose lookup errors is logged and skipped
func (l *Lexical) Search(ctx context.Context, query string, scope *string, limit int) []evidence.Row {
	if limit <= 0 {
		return nil
	}

	log := logger.FromContext(ctx)
	variants := queryVariants(query)

	seen := make(map[evidence.Key]struct{})
	results := make([]evidence.Row, 0, limit)

	for _, variant := range variants {
		rows, err := l.lookup(ctx, variant, scope, limit)
		if err != nil {
			log.Warnw("lexical lookup failed, skipping variant",
				"variant", variant,
				"error", err,
			)
			continue
		}

		for _, row := range rows {
			key := row.Key()
			if _, ok := seen[key]; ok {
				continue
			}

			seen[key] = struct{}{}
			results = append(results, row.WithDistance(0))

			if len(results) == limit {
				return results
			}
		}
	}

	return results
}

func (l *Lexical) lookup(ctx context.Context, pattern string, scope *string, limit int) ([]evidence.Row, error) {
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	rows, err := l.store.SubstringSearch(ctx, pattern, scope, limit)
	if err != nil {
		metrics.StoreErrorsTotal.WithLabelValues("substring_search", storeErrorCategory(err)).Inc()
		return nil, err
	}

	return rows, nil
}
