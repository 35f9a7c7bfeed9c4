package importer

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Row statuses reported in catalog_import_rows_total.
const (
	statusImported  = "imported"
	statusDeleted   = "deleted"
	statusFailed    = "failed"
	statusDuplicate = "duplicate"
	statusSkipped   = "skipped"
)

// Metrics holds the importer's Prometheus collectors. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	rows   *prometheus.CounterVec
	runs   *prometheus.HistogramVec
	active prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		rows: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_import_rows_total",
				Help: "Processed CSV rows, partitioned by outcome.",
			},
			[]string{"status"},
		),
		runs: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "catalog_import_run_duration_seconds",
				Help:    "Duration of import runs in seconds, partitioned by mode and outcome.",
				Buckets: prometheus.ExponentialBuckets(0.05, 2, 14),
			},
			[]string{"mode", "outcome"},
		),
		active: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "catalog_import_active_runs",
				Help: "Import runs currently holding a limiter slot.",
			},
		),
	}

	for name, c := range map[string]prometheus.Collector{
		"rows counter":  m.rows,
		"run histogram": m.runs,
		"active gauge":  m.active,
	} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("importer: register %s: %w", name, err)
		}
	}
	return m, nil
}

func (m *Metrics) row(status string) {
	if m == nil {
		return
	}
	m.rows.WithLabelValues(status).Inc()
}

func (m *Metrics) run(mode Mode, err error, d time.Duration) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.runs.WithLabelValues(string(mode), outcome).Observe(d.Seconds())
}

func (m *Metrics) setActive(n int) {
	if m == nil {
		return
	}
	m.active.Set(float64(n))
}
