package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/pgvector/pgvector-go"

	"codeberg.org/algopatterns/catalog/internal/evidence"
)

// returns rows whose content contains pattern, case-insensitively
func (c *Client) SubstringSearch(ctx context.Context, pattern string, scope *string, limit int) ([]evidence.Row, error) {
	if limit <= 0 {
		return nil, nil
	}

	rows, err := c.pool.Query(ctx, c.queries.substringSearch, escapeLikePattern(pattern), scope, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to execute substring search: %w", err)
	}

	results, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (evidence.Row, error) {
		var r evidence.Row
		err := row.Scan(&r.DatasetID, &r.PrimaryKey, &r.Content, &r.Attributes)
		return r, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan substring results: %w", err)
	}

	return results, nil
}

// returns the k nearest rows ordered by ascending distance under the configured metric
func (c *Client) VectorSearch(ctx context.Context, vec []float32, scope *string, k int) ([]evidence.Row, error) {
	if k <= 0 {
		return nil, nil
	}

	rows, err := c.pool.Query(ctx, c.queries.vectorSearch, pgvector.NewVector(vec), scope, k)
	if err != nil {
		return nil, fmt.Errorf("failed to execute vector search: %w", err)
	}

	results, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (evidence.Row, error) {
		var (
			r        evidence.Row
			distance float64
		)

		if err := row.Scan(&r.DatasetID, &r.PrimaryKey, &r.Content, &r.Attributes, &distance); err != nil {
			return r, err
		}

		return r.WithDistance(distance), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan vector results: %w", err)
	}

	return results, nil
}

// returns the declared dimension of the embedding column, 0 when unconstrained
func (c *Client) EmbeddingDimension(ctx context.Context, table string) (int, error) {
	if table == "" {
		table = defaultTable
	}

	var typmod int32

	if err := c.pool.QueryRow(ctx, c.queries.embeddingDimension, table).Scan(&typmod); err != nil {
		return 0, fmt.Errorf("failed to read embedding column type: %w", err)
	}

	if typmod < 0 {
		return 0, nil
	}

	return int(typmod), nil
}
