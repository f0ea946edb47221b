// Package metrics exposes Prometheus instruments for master-data operations.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/JonMunkholm/masterdata/internal/core"
)

// Import row outcomes.
const (
	OutcomeAdded   = "added"
	OutcomeUpdated = "updated"
	OutcomeSkipped = "skipped"
)

// Metrics tracks import row outcomes, import durations and record mutations.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	ImportRows     *prometheus.CounterVec
	ImportDuration *prometheus.HistogramVec
	ImportFailures *prometheus.CounterVec
	Mutations      *prometheus.CounterVec
}

// New registers the instruments with reg. Pass prometheus.DefaultRegisterer
// in production and a fresh prometheus.NewRegistry() in tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ImportRows: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "masterdata_import_rows_total",
			Help: "Import rows by entity and outcome (added, updated, skipped)",
		}, []string{"entity", "outcome"}),
		ImportDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "masterdata_import_duration_seconds",
			Help:    "Duration of bulk imports by entity",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"entity"}),
		ImportFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "masterdata_import_failures_total",
			Help: "Imports aborted by a storage or cancellation error",
		}, []string{"entity"}),
		Mutations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "masterdata_mutations_total",
			Help: "Create, update and delete calls by entity, operation and result",
		}, []string{"entity", "op", "result"}),
	}
}

// ObserveImport records the outcome of one import run.
// Call with time.Now() at the start of the run.
func (m *Metrics) ObserveImport(entity string, res core.ImportResult, err error, start time.Time) {
	if m == nil {
		return
	}
	m.ImportRows.WithLabelValues(entity, OutcomeAdded).Add(float64(res.Added))
	m.ImportRows.WithLabelValues(entity, OutcomeUpdated).Add(float64(res.Updated))
	m.ImportRows.WithLabelValues(entity, OutcomeSkipped).Add(float64(res.Skipped))
	m.ImportDuration.WithLabelValues(entity).Observe(time.Since(start).Seconds())
	if err != nil {
		m.ImportFailures.WithLabelValues(entity).Inc()
	}
}

// ObserveMutation counts a create, update or delete call.
func (m *Metrics) ObserveMutation(entity, op string, err error) {
	if m == nil {
		return
	}
	m.Mutations.WithLabelValues(entity, op, result(err)).Inc()
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
