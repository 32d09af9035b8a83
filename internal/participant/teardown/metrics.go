package teardown

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks account deletions and their attempts.
type Metrics struct {
	Deletions        *prometheus.CounterVec
	Attempts         *prometheus.CounterVec
	DeletionDuration prometheus.Histogram
	RecordsDeleted   prometheus.Counter
}

// NewMetrics registers the teardown metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Deletions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "cohort_participant_deletions_total",
			Help: "Participant deletions by outcome (deleted, not_found, failed)",
		}, []string{"outcome"}),
		Attempts: f.NewCounterVec(prometheus.CounterOpts{
			Name: "cohort_participant_deletion_attempts_total",
			Help: "Individual participant deletion attempts by outcome",
		}, []string{"outcome"}),
		DeletionDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "cohort_participant_deletion_duration_seconds",
			Help:    "Duration of participant deletions including retries",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		RecordsDeleted: f.NewCounter(prometheus.CounterOpts{
			Name: "cohort_health_data_records_deleted_total",
			Help: "Health data records removed during participant deletion",
		}),
	}
}

func (m *Metrics) incDeletion(outcome string, start time.Time) {
	if m == nil {
		return
	}
	m.Deletions.WithLabelValues(outcome).Inc()
	m.DeletionDuration.Observe(time.Since(start).Seconds())
}

func (m *Metrics) incAttempt(err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.Attempts.WithLabelValues("failure").Inc()
		return
	}
	m.Attempts.WithLabelValues("success").Inc()
}

func (m *Metrics) addRecords(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.RecordsDeleted.Add(float64(n))
}
