// Package metrics exposes Prometheus collectors for the purge-preload tool.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	pagesDiscoveredTotal       prometheus.Counter
	purgeRequestsTotal         *prometheus.CounterVec
	warmRequestsTotal          *prometheus.CounterVec
	warmRequestDurationSeconds prometheus.Histogram

	once sync.Once
)

// Init initializes the Prometheus metrics collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		pagesDiscoveredTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "purgepreload_pages_discovered_total",
				Help: "Total number of in-domain page URLs extracted from the sitemap tree.",
			},
		)

		purgeRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "purgepreload_purge_requests_total",
				Help: "Total number of purge requests issued, labeled by result.",
			},
			[]string{"result"},
		)

		warmRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "purgepreload_warm_requests_total",
				Help: "Total number of cache-warming requests issued, labeled by result.",
			},
			[]string{"result"},
		)

		warmRequestDurationSeconds = promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "purgepreload_warm_request_duration_seconds",
				Help:    "Histogram of cache-warming request latencies.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
			},
		)
	})
}

// Handler returns an http.Handler for exposing Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObservePagesDiscovered adds to the discovered-pages counter.
func ObservePagesDiscovered(n int) {
	if pagesDiscoveredTotal == nil || n <= 0 {
		return
	}
	pagesDiscoveredTotal.Add(float64(n))
}

// ObservePurge increments the purge request counter for the given result.
func ObservePurge(result string) {
	if purgeRequestsTotal == nil {
		return
	}
	purgeRequestsTotal.WithLabelValues(result).Inc()
}

// ObserveWarm increments the warm request counter for the given result and
// records the request latency.
func ObserveWarm(result string, duration time.Duration) {
	if warmRequestsTotal == nil {
		return
	}
	warmRequestsTotal.WithLabelValues(result).Inc()
	if duration > 0 {
		warmRequestDurationSeconds.Observe(duration.Seconds())
	}
}
