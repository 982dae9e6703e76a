package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Profile building Prometheus metrics.
var (
	ProfileBuildsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "langprint",
			Name:      "profile_builds_total",
			Help:      "Total number of profile builds",
		},
		[]string{"status"}, // "ok" / "insufficient_input" / "error"
	)

	ProfileBuildDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "langprint",
			Name:      "profile_build_duration_seconds",
			Help:      "Profile build duration in seconds",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		},
	)

	ProfileInputChars = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "langprint",
			Name:      "profile_input_chars",
			Help:      "Length of profiled text in characters",
			Buckets:   prometheus.ExponentialBuckets(16, 4, 9),
		},
	)

	ProfilesStored = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "langprint",
			Name:      "profiles_stored_total",
			Help:      "Language profiles written to the store",
		},
		[]string{"result"}, // "created" / "replaced"
	)
)

var profileMetricsOnce sync.Once

// RegisterProfileMetrics registers profile metrics. Safe to call more than once.
func RegisterProfileMetrics() {
	profileMetricsOnce.Do(func() {
		prometheus.MustRegister(ProfileBuildsTotal)
		prometheus.MustRegister(ProfileBuildDuration)
		prometheus.MustRegister(ProfileInputChars)
		prometheus.MustRegister(ProfilesStored)
	})
}
