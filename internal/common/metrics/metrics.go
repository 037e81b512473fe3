// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	QueriesProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_queries_processed_total",
			Help: "Total number of queries processed by classified intent",
		},
		[]string{"intent"},
	)

	CollaboratorCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_collaborator_calls_total",
			Help: "Total number of collaborator calls by service and status",
		},
		[]string{"service", "status"},
	)

	CollaboratorCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "assistant_collaborator_call_duration_seconds",
			Help: "Duration of collaborator calls in seconds",
		},
		[]string{"service"},
	)

	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_cache_hits_total",
			Help: "Provider cache hits by service",
		},
		[]string{"service"},
	)
)
