// Package metrics provides Prometheus metrics instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration tracks HTTP request duration.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stub_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	// RequestsTotal tracks total HTTP requests.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stub_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// ChatTurnsTotal tracks chat turns answered by the stub.
	ChatTurnsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "stub_chat_turns_total",
			Help: "Total chat turns answered",
		},
	)

	// SessionsActive tracks sessions currently held in memory.
	SessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "stub_sessions_active",
			Help: "Number of sessions held in memory",
		},
	)

	// DocumentsStored tracks documents currently held in memory.
	DocumentsStored = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "stub_documents_stored",
			Help: "Number of documents held in memory",
		},
	)
)

// RecordRequest records metrics for an HTTP request.
func RecordRequest(method, path, status string, duration float64) {
	RequestDuration.WithLabelValues(method, path, status).Observe(duration)
	RequestsTotal.WithLabelValues(method, path, status).Inc()
}
