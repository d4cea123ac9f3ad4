package storage

import (
	"fmt"

	"github.com/jackc/pgx/v5"

	"codeberg.org/algopatterns/catalog/internal/evidence"
)

type queries struct {
	substringSearch    string
	vectorSearch       string
	embeddingDimension string
}

// $1 pattern, $2 scope (nullable), $3 limit
const substringSearchTemplate = `
	SELECT
		dataset_id,
		primary_key,
		content,
		COALESCE(attributes, '{}'::jsonb)
	FROM %[1]s
	WHERE content ILIKE '%%' || $1 || '%%' ESCAPE '\'
		AND ($2::text IS NULL OR dataset_id = $2)
	ORDER BY primary_key, dataset_id
	LIMIT $3
`

// $1 vector, $2 scope (nullable), $3 k
const vectorSearchTemplate = `
	SELECT
		dataset_id,
		primary_key,
		content,
		COALESCE(attributes, '{}'::jsonb),
		(embedding %[2]s $1::vector)::float8 AS distance
	FROM %[1]s
	WHERE embedding IS NOT NULL
		AND ($2::text IS NULL OR dataset_id = $2)
	ORDER BY distance, primary_key
	LIMIT $3
`

// atttypmod holds the declared dimension of a pgvector column, -1 when unconstrained
const embeddingDimensionQuery = `
	SELECT atttypmod
	FROM pg_attribute
	WHERE attrelid = to_regclass($1::text)
		AND attname = 'embedding'
		AND NOT attisdropped
`

func buildQueries(table string, metric evidence.Metric) (queries, error) {
	op, err := distanceOperator(metric)
	if err != nil {
		return queries{}, err
	}

	ident := pgx.Identifier{table}.Sanitize()

	return queries{
		substringSearch:    fmt.Sprintf(substringSearchTemplate, ident),
		vectorSearch:       fmt.Sprintf(vectorSearchTemplate, ident, op),
		embeddingDimension: embeddingDimensionQuery,
	}, nil
}
