package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// API labels.
const (
	APIPochta   = "otpravka"
	APITracking = "tracking"
)

// Metrics holds all Prometheus metrics for the clients.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	APIErrors       *prometheus.CounterVec
}

// NewMetrics creates Prometheus metrics and registers them with reg.
// A nil reg registers with the default registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pochta_requests_total",
				Help: "Total number of API calls by api, operation, and status",
			},
			[]string{"api", "operation", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pochta_request_duration_seconds",
				Help:    "API call duration in seconds by api and operation",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"api", "operation"},
		),
		APIErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pochta_api_errors_total",
				Help: "Total failed API calls by api and status",
			},
			[]string{"api", "status"},
		),
	}
}

// RecordRequest records a call metric.
func (m *Metrics) RecordRequest(api, operation, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(api, operation, status).Inc()
	m.RequestDuration.WithLabelValues(api, operation).Observe(duration.Seconds())
}

// RecordError records a failed call.
func (m *Metrics) RecordError(api, status string) {
	m.APIErrors.WithLabelValues(api, status).Inc()
}

// Recorder returns a recorder bound to one api label, suitable for
// pochta.Config.Metrics and tracking.Config.Metrics.
func (m *Metrics) Recorder(api string) *APIRecorder {
	return &APIRecorder{metrics: m, api: api}
}

// APIRecorder records calls of a single API.
type APIRecorder struct {
	metrics *Metrics
	api     string
}

// RecordRequest records one call. Statuses other than "ok" and 2xx codes
// also count as errors.
func (r *APIRecorder) RecordRequest(operation, status string, duration time.Duration) {
	r.metrics.RecordRequest(r.api, operation, status, duration)
	if !isSuccess(status) {
		r.metrics.RecordError(r.api, status)
	}
}

func isSuccess(status string) bool {
	return status == "ok" || (len(status) == 3 && status[0] == '2')
}
