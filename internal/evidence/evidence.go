// Package evidence holds the row type shared by every stage of the ask pipeline.
package evidence

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// a retrievable unit of evidence
type Row struct {
	DatasetID  string
	PrimaryKey string
	Content    string

	// nil when no distance was computed, 0 for lexical hits
	Distance *float64

	// opaque pass-through columns, never interpreted by the pipeline
	Attributes map[string]any
}

// identifies a row within one retrieval pass
type Key struct {
	DatasetID  string
	PrimaryKey string
}

func (r Row) Key() Key {
	return Key{DatasetID: r.DatasetID, PrimaryKey: r.PrimaryKey}
}

func (k Key) String() string {
	return k.DatasetID + "/" + k.PrimaryKey
}

// returns a copy of the row carrying the given distance
func (r Row) WithDistance(d float64) Row {
	r.Distance = &d
	return r
}

// returns the distance, or fallback when none was computed
func (r Row) DistanceOr(fallback float64) float64 {
	if r.Distance == nil {
		return fallback
	}

	return *r.Distance
}

// returns content cut to maxRunes characters, suffixed with "..." when cut
func (r Row) Preview(maxRunes int) string {
	return Truncate(r.Content, maxRunes)
}

// cuts s to at most maxRunes runes, appending "..." when anything was dropped
func Truncate(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}

	if utf8.RuneCountInString(s) <= maxRunes {
		return s
	}

	runes := []rune(s)

	return string(runes[:maxRunes]) + "..."
}

// distance metric the corpus index was built with
type Metric string

const (
	MetricCosine       Metric = "cosine"
	MetricL2           Metric = "l2"
	MetricInnerProduct Metric = "inner_product"
)

// parses a configured metric name
func ParseMetric(s string) (Metric, error) {
	switch m := Metric(strings.ToLower(strings.TrimSpace(s))); m {
	case MetricCosine, MetricL2, MetricInnerProduct:
		return m, nil
	case "":
		return MetricCosine, nil
	default:
		return "", fmt.Errorf("unsupported vector metric %q", s)
	}
}
