package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var registry = prometheus.NewRegistry()

var registerer = prometheus.WrapRegistererWith(nil, registry)

var (
	// Latency buckets in milliseconds.
	latencyBuckets = []float64{
		5, 10, 25,
		50, 100, 250,
		500, 1000, 2500,
		5000, 10000, 30000,
	}

	RequestTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "modsentry_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"method", "path", "status"},
	)

	RequestLatency = promauto.With(registerer).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "modsentry_request_latency_ms",
			Help:    "HTTP request latency in milliseconds",
			Buckets: latencyBuckets,
		},
		[]string{"method", "path"},
	)

	AnalysisTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "modsentry_analyses_total",
			Help: "Total number of content analyses by final action",
		},
		[]string{"action"},
	)

	AnalysisLatency = promauto.With(registerer).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "modsentry_analysis_latency_ms",
			Help:    "Analysis latency in milliseconds",
			Buckets: latencyBuckets,
		},
		[]string{"type"}, // "total" or a classifier name
	)

	ClassifierErrors = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "modsentry_classifier_errors_total",
			Help: "Classifier failures by kind",
		},
		[]string{"classifier", "kind"},
	)

	CacheHits = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "modsentry_result_cache_hits_total",
			Help: "Result cache hits by store backend",
		},
		[]string{"store"},
	)

	ActiveSessions = promauto.With(registerer).NewGauge(
		prometheus.GaugeOpts{
			Name: "modsentry_active_sessions",
			Help: "Number of currently active moderation sessions",
		},
	)
)

func init() {
	registerer.MustRegister(collectors.NewGoCollector())
}

// Registry exposes the private registry for the /metrics endpoint.
func Registry() *prometheus.Registry {
	return registry
}
