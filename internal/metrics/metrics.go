// Package metrics exposes Prometheus instrumentation for probes, aggregation and analyses.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Probe call outcomes
const (
	OutcomeSignal   = "signal"
	OutcomeNoSignal = "nosignal"
	OutcomeError    = "error"
	OutcomeTimeout  = "timeout"
)

// Metrics holds the collectors. All methods are safe on a nil receiver.
type Metrics struct {
	registry *prometheus.Registry

	probeCalls    *prometheus.CounterVec
	probeDuration *prometheus.HistogramVec
	verdicts      *prometheus.CounterVec
	analyses      *prometheus.CounterVec
	analysisDur   *prometheus.HistogramVec
	cacheLookups  *prometheus.CounterVec
	httpRequests  *prometheus.CounterVec
}

// New creates the collectors on a private registry together with the Go and process collectors
func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.probeCalls = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "credence",
		Name:      "probe_calls_total",
		Help:      "Probe calls by probe and outcome",
	}, []string{"probe", "outcome"})
	m.probeDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "credence",
		Name:      "probe_duration_seconds",
		Help:      "Time spent in a single probe call",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	}, []string{"probe"})
	m.verdicts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "credence",
		Name:      "claim_verdicts_total",
		Help:      "Aggregated claim verdicts",
	}, []string{"verdict"})
	m.analyses = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "credence",
		Name:      "analyses_total",
		Help:      "Completed analyses by content type and status",
	}, []string{"type", "status"})
	m.analysisDur = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "credence",
		Name:      "analysis_duration_seconds",
		Help:      "End-to-end analysis time",
		Buckets:   prometheus.DefBuckets,
	}, []string{"type"})
	m.cacheLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "credence",
		Name:      "cache_lookups_total",
		Help:      "Probe cache lookups by result",
	}, []string{"result"})
	m.httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "credence",
		Name:      "http_requests_total",
		Help:      "HTTP requests served by route and status code",
	}, []string{"route", "code"})

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.probeCalls, m.probeDuration, m.verdicts,
		m.analyses, m.analysisDur, m.cacheLookups, m.httpRequests,
	)

	return m
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveProbe records one probe call
func (m *Metrics) ObserveProbe(probe, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.probeCalls.WithLabelValues(probe, outcome).Inc()
	m.probeDuration.WithLabelValues(probe).Observe(elapsed.Seconds())
}

// ObserveVerdict records an aggregated claim verdict
func (m *Metrics) ObserveVerdict(verdict string) {
	if m == nil {
		return
	}
	m.verdicts.WithLabelValues(verdict).Inc()
}

// ObserveAnalysis records a completed analysis
func (m *Metrics) ObserveAnalysis(contentType, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.analyses.WithLabelValues(contentType, status).Inc()
	m.analysisDur.WithLabelValues(contentType).Observe(elapsed.Seconds())
}

// ObserveCache records a cache hit or miss
func (m *Metrics) ObserveCache(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

// ObserveHTTP records a served request
func (m *Metrics) ObserveHTTP(route string, code int) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
}
