package storage

import (
	"fmt"
	"strings"

	"codeberg.org/algopatterns/catalog/internal/evidence"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapes LIKE wildcards so the pattern matches literally
func escapeLikePattern(s string) string {
	return likeEscaper.Replace(s)
}

// maps a metric to its pgvector operator
// <#> yields the negative inner product so ascending order is still nearest first
func distanceOperator(metric evidence.Metric) (string, error) {
	switch metric {
	case evidence.MetricCosine:
		return "<=>", nil
	case evidence.MetricL2:
		return "<->", nil
	case evidence.MetricInnerProduct:
		return "<#>", nil
	default:
		return "", fmt.Errorf("unsupported vector metric: %q", metric)
	}
}
