// Package metrics counts pipeline outcomes on a private prometheus registry.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "extrato"

// File outcome labels.
const (
	FileProcessed = "processed"
	FileMissing   = "missing"
	FileUnread    = "unreadable"
)

// Row outcome labels.
const (
	RowAccepted = "accepted"
	RowRejected = "rejected"
)

// Recorder holds the run counters.
type Recorder struct {
	registry *prometheus.Registry
	files    *prometheus.CounterVec
	rows     *prometheus.CounterVec
	tables   prometheus.Counter
}

func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		files: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "files_total",
			Help:      "Input files by outcome.",
		}, []string{"status"}),
		rows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_total",
			Help:      "Table rows by normalization result.",
		}, []string{"result"}),
		tables: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tables_total",
			Help:      "Tables extracted from input files.",
		}),
	}
	r.registry.MustRegister(r.files, r.rows, r.tables)
	return r
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

func (r *Recorder) File(status string) {
	r.files.WithLabelValues(status).Inc()
}

func (r *Recorder) Tables(n int) {
	r.tables.Add(float64(n))
}

func (r *Recorder) Rows(result string, n int) {
	r.rows.WithLabelValues(result).Add(float64(n))
}

// WriteTextfile writes the registry in the node-exporter textfile format.
// An empty path is a no-op.
func (r *Recorder) WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
