package embedding

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Embedding Prometheus metrics.
var (
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jdmatcher",
			Name:      "embedding_requests_total",
			Help:      "Total number of embedding requests",
		},
		[]string{"provider", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "jdmatcher",
			Name:      "embedding_request_duration_seconds",
			Help:      "Embedding request duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"provider"},
	)

	CacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jdmatcher",
			Name:      "embedding_cache_total",
			Help:      "Embedding cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)
)

var registerOnce sync.Once

// RegisterMetrics registers the embedding metrics with reg once per process.
func RegisterMetrics(reg prometheus.Registerer) {
	registerOnce.Do(func() {
		reg.MustRegister(RequestsTotal, RequestDuration, CacheTotal)
	})
}

func observe(provider string, start time.Time, err error) {
	if err != nil {
		RequestsTotal.WithLabelValues(provider, "error").Inc()
		return
	}
	RequestsTotal.WithLabelValues(provider, "success").Inc()
	RequestDuration.WithLabelValues(provider).Observe(time.Since(start).Seconds())
}
