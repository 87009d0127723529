// Package observability holds the run counters. A run is a one-shot process,
// so counters are written to a node-exporter textfile instead of served.
package observability

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the counters of one run. All methods are safe on a nil
// receiver so components can be built without metrics.
type Metrics struct {
	registry *prometheus.Registry

	Fetches         *prometheus.CounterVec
	Documents       *prometheus.CounterVec
	TablesDiscarded prometheus.Counter
	RowsDropped     prometheus.Counter
	RowsWritten     prometheus.Counter
	LastRunSeconds  prometheus.Gauge
}

// New creates the counters on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "flats_fetches_total",
			Help: "Content fetches by fetcher and outcome",
		}, []string{"fetcher", "outcome"}),
		Documents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "flats_documents_total",
			Help: "Documents parsed by kind and outcome",
		}, []string{"kind", "outcome"}),
		TablesDiscarded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "flats_tables_discarded_total",
			Help: "Detected price tables with an unexpected column count",
		}),
		RowsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "flats_rows_dropped_total",
			Help: "Rows dropped for a missing identifier",
		}),
		RowsWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "flats_rows_written_total",
			Help: "Rows written to the output file",
		}),
		LastRunSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "flats_last_run_duration_seconds",
			Help: "Wall time of the last pipeline run",
		}),
	}
	m.registry.MustRegister(m.Fetches, m.Documents, m.TablesDiscarded, m.RowsDropped, m.RowsWritten, m.LastRunSeconds)
	return m
}

// Registry exposes the private registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) ObserveFetch(fetcher string, err error) {
	if m == nil {
		return
	}
	m.Fetches.WithLabelValues(fetcher, outcome(err)).Inc()
}

func (m *Metrics) ObserveDocument(kind string, err error) {
	if m == nil {
		return
	}
	m.Documents.WithLabelValues(kind, outcome(err)).Inc()
}

func (m *Metrics) TableDiscarded() {
	if m == nil {
		return
	}
	m.TablesDiscarded.Inc()
}

func (m *Metrics) RowDropped() {
	if m == nil {
		return
	}
	m.RowsDropped.Inc()
}

func (m *Metrics) AddRowsWritten(n int) {
	if m == nil {
		return
	}
	m.RowsWritten.Add(float64(n))
}

func (m *Metrics) SetRunDuration(seconds float64) {
	if m == nil {
		return
	}
	m.LastRunSeconds.Set(seconds)
}

// WriteTextfile writes all counters in the text exposition format.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("observability: write %s: %w", path, err)
	}
	return nil
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
