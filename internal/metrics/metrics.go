// Package metrics provides Prometheus metrics and a rolling latency window
// for the conversion service.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Conversion outcomes.
const (
	OutcomeOK         = "ok"
	OutcomeEmptyInput = "empty_input"
	OutcomeNoContent  = "no_content"
	OutcomeError      = "error"
)

// Metrics holds the service's Prometheus collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	ConversionsTotal *prometheus.CounterVec
	ParseDuration    prometheus.Histogram
	DocumentBlocks   prometheus.Histogram
	ExportsTotal     *prometheus.CounterVec
	SelectionChanges *prometheus.CounterVec

	// Parse latencies for /api/stats.
	Latency *LatencyStats
}

// New registers all collectors. sessions reports the live session count
// and may be nil.
func New(sessions func() int) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	m := &Metrics{
		registry: reg,
		Latency:  NewLatencyStats(time.Hour),
	}

	m.ConversionsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seismic2word_conversions_total",
			Help: "Parsed source documents by outcome",
		},
		[]string{"outcome"},
	)

	m.ParseDuration = factory.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "seismic2word_parse_duration_seconds",
			Help:    "Time spent parsing source markup",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
	)

	m.DocumentBlocks = factory.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "seismic2word_document_blocks",
			Help:    "Top-level blocks per parsed document",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		},
	)

	m.ExportsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seismic2word_exports_total",
			Help: "Exports by format and status",
		},
		[]string{"format", "status"},
	)

	m.SelectionChanges = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seismic2word_selection_changes_total",
			Help: "Section selection changes by action",
		},
		[]string{"action"},
	)

	if sessions != nil {
		factory.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "seismic2word_sessions_active",
				Help: "Sessions currently held in memory",
			},
			func() float64 { return float64(sessions()) },
		)
	}

	return m
}

// ObserveParse records one parse attempt.
func (m *Metrics) ObserveParse(d time.Duration, blocks int, outcome string) {
	m.ConversionsTotal.WithLabelValues(outcome).Inc()
	m.ParseDuration.Observe(d.Seconds())
	m.Latency.Record(d.Milliseconds())
	if outcome == OutcomeOK {
		m.DocumentBlocks.Observe(float64(blocks))
	}
}

// ObserveExport records one export attempt.
func (m *Metrics) ObserveExport(format string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.ExportsTotal.WithLabelValues(format, status).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry for tests and extra collectors.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }
