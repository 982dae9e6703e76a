package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Fetch and collection Prometheus metrics.
var (
	FetchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "langprint",
			Name:      "fetch_requests_total",
			Help:      "Total number of document fetches",
		},
		[]string{"status"},
	)

	FetchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "langprint",
			Name:      "fetch_duration_seconds",
			Help:      "Document fetch duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)

	CollectItemsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "langprint",
			Name:      "collect_items_total",
			Help:      "Collection run items by outcome",
		},
		[]string{"status"}, // "ok" / "error" / "skipped"
	)

	CollectRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "langprint",
			Name:      "collect_runs_total",
			Help:      "Collection runs by outcome",
		},
		[]string{"status"},
	)
)

var collectMetricsOnce sync.Once

// RegisterCollectMetrics registers fetch and collection metrics. Safe to call more than once.
func RegisterCollectMetrics() {
	collectMetricsOnce.Do(func() {
		prometheus.MustRegister(FetchRequestsTotal)
		prometheus.MustRegister(FetchDuration)
		prometheus.MustRegister(CollectItemsTotal)
		prometheus.MustRegister(CollectRunsTotal)
	})
}
