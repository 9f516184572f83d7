// Package prometheus exports extraction progress as Prometheus metrics.
// A run is a short-lived batch job, so metrics are written to a node
// exporter textfile at the end instead of being scraped.
package prometheus

import (
	"fmt"

	"github.com/fwojciec/docharvest"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics owns the collectors updated from pipeline progress events.
type Metrics struct {
	reg prometheus.Gatherer

	items     *prometheus.CounterVec
	bytes     *prometheus.CounterVec
	attempts  prometheus.Counter
	duration  *prometheus.HistogramVec
	pending   prometheus.Gauge
	lastRunTS prometheus.Gauge
}

// NewMetrics registers the collectors against a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m, err := newMetrics(reg, reg)
	if err != nil {
		// A fresh registry cannot hold conflicting collectors.
		panic(err)
	}
	return m
}

// NewMetricsWith registers the collectors against reg, which also serves
// as the gatherer for WriteTextfile.
func NewMetricsWith(reg *prometheus.Registry) (*Metrics, error) {
	return newMetrics(reg, reg)
}

func newMetrics(reg prometheus.Registerer, g prometheus.Gatherer) (*Metrics, error) {
	m := &Metrics{
		reg: g,
		items: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "docharvest_items_total",
			Help: "Targets processed partitioned by category and result.",
		}, []string{"category", "result"}),
		bytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "docharvest_artifact_bytes_total",
			Help: "Bytes written to artifacts per category.",
		}, []string{"category"}),
		attempts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "docharvest_fetch_attempts_total",
			Help: "Fetch attempts including retries.",
		}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "docharvest_item_duration_seconds",
			Help:    "Wall time per processed target partitioned by result.",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
		}, []string{"result"}),
		pending: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "docharvest_items_pending",
			Help: "Targets scheduled but not yet completed.",
		}),
		lastRunTS: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "docharvest_last_run_finished_timestamp_seconds",
			Help: "Unix time the last run finished.",
		}),
	}
	for _, c := range []prometheus.Collector{m.items, m.bytes, m.attempts, m.duration, m.pending, m.lastRunTS} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register collector: %w", err)
		}
	}
	return m, nil
}

// Progress returns a ProgressFunc that records events. It is safe for
// concurrent use.
func (m *Metrics) Progress() docharvest.ProgressFunc {
	return m.observe
}

func (m *Metrics) observe(e docharvest.ProgressEvent) {
	switch e.Type {
	case docharvest.ProgressStarted:
		m.pending.Set(float64(e.Total))
	case docharvest.ProgressExtracted, docharvest.ProgressFailed, docharvest.ProgressSkipped:
		result := e.Type.String()
		m.items.WithLabelValues(e.Category, result).Inc()
		m.pending.Dec()
		if e.Type == docharvest.ProgressSkipped {
			return
		}
		m.attempts.Add(float64(e.Attempts))
		m.duration.WithLabelValues(result).Observe(e.Duration.Seconds())
		if e.Bytes > 0 {
			m.bytes.WithLabelValues(e.Category).Add(float64(e.Bytes))
		}
	case docharvest.ProgressFinished:
		m.pending.Set(0)
		m.lastRunTS.SetToCurrentTime()
	}
}

// WriteTextfile writes the current metric values atomically to path in
// the text exposition format.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.reg); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
