package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search and suggestion Prometheus metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "searchd",
			Name:      "search_requests_total",
			Help:      "Total number of search requests",
		},
		[]string{"status"}, // "ok" / "empty" / "cached" / "error"
	)

	SearchStageDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "searchd",
			Name:      "search_stage_duration_seconds",
			Help:      "Retrieval stage duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"stage"}, // "keyword" / "semantic"
	)

	SearchDegradedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "searchd",
			Name:      "search_degraded_total",
			Help:      "Searches that lost a retrieval stage",
		},
		[]string{"stage"}, // the stage that failed
	)

	SuggestRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "searchd",
			Name:      "suggest_requests_total",
			Help:      "Total number of autocomplete requests",
		},
		[]string{"status"}, // "ok" / "short" / "cached"
	)

	CacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "searchd",
			Name:      "cache_total",
			Help:      "Cache hits and misses per namespace",
		},
		[]string{"cache", "result"}, // result: "hit" / "miss"
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers search metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchRequestsTotal)
	prometheus.MustRegister(SearchStageDuration)
	prometheus.MustRegister(SearchDegradedTotal)
	prometheus.MustRegister(SuggestRequestsTotal)
	prometheus.MustRegister(CacheTotal)
	searchMetricsRegistered = true
}
