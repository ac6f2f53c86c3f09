// Package metrics provides Prometheus metrics for the event-triage service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	AnalysesTotal   *prometheus.CounterVec
	CacheHitsTotal  *prometheus.CounterVec
	CacheMissTotal  prometheus.Counter
	EventsStored    prometheus.Gauge

	registry *prometheus.Registry
}

// New creates and registers all metrics.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "eventflow_requests_total",
				Help: "Total number of API requests by route and status.",
			},
			[]string{"route", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "eventflow_request_duration_seconds",
				Help:    "Request processing duration by route.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),
		AnalysesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "eventflow_analyses_total",
				Help: "Total analysis requests by outcome.",
			},
			[]string{"outcome"},
		),
		CacheHitsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "eventflow_analysis_cache_hits_total",
				Help: "Analysis cache hits by tier.",
			},
			[]string{"tier"},
		),
		CacheMissTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "eventflow_analysis_cache_misses_total",
				Help: "Analysis cache misses.",
			},
		),
		EventsStored: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "eventflow_events_stored",
				Help: "Number of events currently held in memory.",
			},
		),
		registry: reg,
	}

	reg.MustRegister(m.RequestsTotal)
	reg.MustRegister(m.RequestDuration)
	reg.MustRegister(m.AnalysesTotal)
	reg.MustRegister(m.CacheHitsTotal)
	reg.MustRegister(m.CacheMissTotal)
	reg.MustRegister(m.EventsStored)

	return m
}

// Handler returns an http.Handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordRequest counts a completed request and observes its duration.
func (m *Metrics) RecordRequest(route string, status int, elapsed time.Duration) {
	m.RequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

// RecordAnalysis increments the analysis counter.
func (m *Metrics) RecordAnalysis(outcome string) {
	m.AnalysesTotal.WithLabelValues(outcome).Inc()
}

// RecordCacheHit increments the cache hit counter for a tier.
func (m *Metrics) RecordCacheHit(tier string) {
	m.CacheHitsTotal.WithLabelValues(tier).Inc()
}

// RecordCacheMiss increments the cache miss counter.
func (m *Metrics) RecordCacheMiss() {
	m.CacheMissTotal.Inc()
}
