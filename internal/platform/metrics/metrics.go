package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRegistry returns a registry carrying the Go runtime and process collectors.
// Module metrics register against it instead of the global default so tests can
// build services repeatedly.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// Handler exposes the registry in the Prometheus text format.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}

// Metrics holds platform level Prometheus metrics for the ops surface.
type Metrics struct {
	HTTPRequests    *prometheus.CounterVec
	ReadinessChecks *prometheus.CounterVec
}

// New creates and registers the platform metrics.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "cohort_http_requests_total",
			Help: "Requests served by the ops router",
		}, []string{"route", "status"}),
		ReadinessChecks: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "cohort_readiness_checks_total",
			Help: "Readiness probe results per dependency",
		}, []string{"dependency", "result"}),
	}
}

// IncHTTPRequest counts one served request.
func (m *Metrics) IncHTTPRequest(route, status string) {
	m.HTTPRequests.WithLabelValues(route, status).Inc()
}

// IncReadinessCheck records a readiness probe outcome for a dependency.
func (m *Metrics) IncReadinessCheck(dependency string, ok bool) {
	result := "ok"
	if !ok {
		result = "failed"
	}
	m.ReadinessChecks.WithLabelValues(dependency, result).Inc()
}
