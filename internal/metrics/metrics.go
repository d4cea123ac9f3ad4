package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "catalog"

var (
	AskRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ask_requests_total",
			Help:      "Total number of ask requests by outcome",
		},
		[]string{"outcome"}, // ok, invalid, misconfigured
	)

	StageDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "ask_stage_duration_seconds",
			Help:      "Duration of each ask pipeline stage in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"stage"}, // lexical, embed, semantic, merge, generate
	)

	HitsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "retrieval_hits_total",
			Help:      "Evidence rows returned per retrieval source",
		},
		[]string{"source"}, // lexical, semantic, merged
	)

	DegradedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ask_degraded_total",
			Help:      "Ask requests answered with a failed source",
		},
		[]string{"source"},
	)

	StoreErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_errors_total",
			Help:      "Row store errors by operation and category",
		},
		[]string{"operation", "category"},
	)

	ProviderRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_requests_total",
			Help:      "Total number of embedding and completion provider requests",
		},
		[]string{"provider", "model", "kind", "status"},
	)

	ProviderRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "provider_request_duration_seconds",
			Help:      "Provider request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"provider", "model", "kind"},
	)

	ProviderTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_tokens_total",
			Help:      "Tokens consumed by provider calls",
		},
		[]string{"provider", "model", "type"}, // input, output
	)
)

var registerOnce sync.Once

// registers all collectors with the default registry, safe to call more than once
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			AskRequestsTotal,
			StageDuration,
			HitsTotal,
			DegradedTotal,
			StoreErrorsTotal,
			ProviderRequestsTotal,
			ProviderRequestDuration,
			ProviderTokensTotal,
			httpRequestDuration,
			httpRequestsTotal,
		)
	})
}

// records a provider call outcome and its latency
func ObserveProvider(provider, model, kind string, seconds float64, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	ProviderRequestsTotal.WithLabelValues(provider, model, kind, status).Inc()
	ProviderRequestDuration.WithLabelValues(provider, model, kind).Observe(seconds)
}
