package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors for one Server. Each Server owns a
// private registry so several can coexist in one process.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge
	HTTPPanicsTotal      prometheus.Counter
	SearchQueriesTotal   prometheus.Counter
	SearchQueryTerms     prometheus.Histogram
	StatsCacheHits       prometheus.Counter
	StatsCacheMisses     prometheus.Counter
}

// NewMetrics creates and registers all collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lexidx_http_requests_total",
				Help: "Total number of HTTP requests by method, route, and status.",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "lexidx_http_request_duration_seconds",
				Help:    "HTTP request latency in seconds.",
				Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
			},
			[]string{"method", "route"},
		),
		HTTPRequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "lexidx_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed.",
			},
		),
		HTTPPanicsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "lexidx_http_panics_total",
				Help: "Total number of handler panics recovered.",
			},
		),
		SearchQueriesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "lexidx_search_queries_total",
				Help: "Total number of accepted search queries.",
			},
		),
		SearchQueryTerms: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "lexidx_search_query_terms",
				Help:    "Number of tokens per search query.",
				Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100},
			},
		),
		StatsCacheHits: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "lexidx_stats_cache_hits_total",
				Help: "Total number of index summaries served from cache.",
			},
		),
		StatsCacheMisses: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "lexidx_stats_cache_misses_total",
				Help: "Total number of index summaries loaded from disk.",
			},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPRequestsInFlight,
		m.HTTPPanicsTotal,
		m.SearchQueriesTotal,
		m.SearchQueryTerms,
		m.StatsCacheHits,
		m.StatsCacheMisses,
	)

	return m
}

// Handler returns the scrape handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
