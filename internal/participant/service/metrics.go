package service

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks orchestrator operations by name and outcome.
type Metrics struct {
	Operations        *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec
	ReservationsFreed prometheus.Counter
}

// NewMetrics registers the orchestrator metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Operations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "cohort_participant_operations_total",
			Help: "Participant orchestrator operations by outcome",
		}, []string{"operation", "outcome"}),
		OperationDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cohort_participant_operation_duration_seconds",
			Help:    "Duration of participant orchestrator operations",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"operation"}),
		ReservationsFreed: f.NewCounter(prometheus.CounterOpts{
			Name: "cohort_external_id_reservations_released_total",
			Help: "External ID reservations released after a failed participant creation",
		}),
	}
}

func (m *Metrics) observe(operation string, start time.Time, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	m.Operations.WithLabelValues(operation, outcome).Inc()
	m.OperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

func (m *Metrics) incReservationReleased() {
	if m == nil {
		return
	}
	m.ReservationsFreed.Inc()
}
