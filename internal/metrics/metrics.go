// Package metrics exposes Prometheus collectors for route generation.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Result labels.
const (
	ResultOK            = "ok"
	ResultBadRequest    = "bad_request"
	ResultUpstreamError = "upstream_error"
)

// Metrics holds the collectors of one service instance.
type Metrics struct {
	registry *prometheus.Registry

	generations *prometheus.CounterVec
	blocks      *prometheus.HistogramVec
	records     *prometheus.HistogramVec
	fetches     *prometheus.HistogramVec
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rirroutes",
			Name:      "generations_total",
			Help:      "Route table generations by registry, family and result.",
		}, []string{"registry", "family", "result"}),
		blocks: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "rirroutes",
			Name:      "generated_blocks",
			Help:      "Number of CIDR blocks in generated route tables.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
		}, []string{"family"}),
		records: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "rirroutes",
			Name:      "matched_records",
			Help:      "Number of delegation records that passed the country filter.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
		}, []string{"family"}),
		fetches: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "rirroutes",
			Name:      "fetch_duration_seconds",
			Help:      "Time spent fetching registry stats.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"registry", "result"}),
	}
	m.registry.MustRegister(m.generations, m.blocks, m.records, m.fetches)
	return m
}

// ObserveGeneration records one generation request.
func (m *Metrics) ObserveGeneration(registry, family, result string, records, blocks int) {
	m.generations.WithLabelValues(registry, family, result).Inc()
	if result == ResultOK {
		m.records.WithLabelValues(family).Observe(float64(records))
		m.blocks.WithLabelValues(family).Observe(float64(blocks))
	}
}

// ObserveFetch records the duration of one upstream fetch.
func (m *Metrics) ObserveFetch(registry string, err error, d time.Duration) {
	result := ResultOK
	if err != nil {
		result = ResultUpstreamError
	}
	m.fetches.WithLabelValues(registry, result).Observe(d.Seconds())
}

// Handler serves the collectors in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
