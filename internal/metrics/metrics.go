// Package metrics holds the Prometheus instruments for the SWIFT code service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels.
const (
	OutcomeOK        = "ok"
	OutcomeNotFound  = "not_found"
	OutcomeInvalid   = "invalid"
	OutcomeDuplicate = "duplicate"
	OutcomeError     = "error"
)

// Metrics tracks service operations by name and outcome.
type Metrics struct {
	Operations        *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec
	LoadedCodes       *prometheus.CounterVec
}

// New registers the service metrics with reg. A nil reg uses the default
// registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		Operations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "swiftatlas_operations_total",
			Help: "Total number of SWIFT code operations by outcome",
		}, []string{"operation", "outcome"}),
		OperationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "swiftatlas_operation_duration_seconds",
			Help:    "Duration of SWIFT code operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"operation"}),
		LoadedCodes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "swiftatlas_loaded_codes_total",
			Help: "SWIFT codes processed by the CSV loader by result",
		}, []string{"result"}),
	}
}

// Observe records one finished operation. Call with time.Now() taken at the
// start of the operation.
func (m *Metrics) Observe(operation, outcome string, start time.Time) {
	if m == nil {
		return
	}
	m.Operations.WithLabelValues(operation, outcome).Inc()
	m.OperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// IncLoaded counts one CSV row by result ("inserted", "duplicate", "skipped").
func (m *Metrics) IncLoaded(result string) {
	if m == nil {
		return
	}
	m.LoadedCodes.WithLabelValues(result).Inc()
}
