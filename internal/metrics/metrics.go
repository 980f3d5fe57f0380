// Package metrics exposes Prometheus instrumentation for the reward service.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the collectors used across the service.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	inFlight        prometheus.Gauge
	claimVerdicts   *prometheus.CounterVec
	snapshotRuns    *prometheus.CounterVec
	snapshotRecords *prometheus.CounterVec
}

// New creates a Metrics instance with its own registry.
func New(serviceName string) *Metrics {
	registry := prometheus.NewRegistry()
	constLabels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		registry: registry,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "HTTP requests by method, path and status.",
			ConstLabels: constLabels,
		}, []string{"method", "path", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency.",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "path"}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "http_requests_in_flight",
			Help:        "Requests currently being served.",
			ConstLabels: constLabels,
		}),
		claimVerdicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "claim_verdicts_total",
			Help:        "Claim verification outcomes by quest and verdict.",
			ConstLabels: constLabels,
		}, []string{"quest", "verdict"}),
		snapshotRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "snapshot_runs_total",
			Help:        "Snapshot job invocations by cadence and outcome.",
			ConstLabels: constLabels,
		}, []string{"cadence", "outcome"}),
		snapshotRecords: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "snapshot_records_total",
			Help:        "Snapshot rows written by cadence.",
			ConstLabels: constLabels,
		}, []string{"cadence"}),
	}

	registry.MustRegister(m.httpRequests, m.httpDuration, m.inFlight,
		m.claimVerdicts, m.snapshotRuns, m.snapshotRecords)
	return m
}

// Handler returns the /metrics endpoint handler.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordHTTPRequest records a completed request.
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.httpRequests.WithLabelValues(method, path, status).Inc()
	m.httpDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// IncrementInFlight marks a request as started.
func (m *Metrics) IncrementInFlight() { m.inFlight.Inc() }

// DecrementInFlight marks a request as finished.
func (m *Metrics) DecrementInFlight() { m.inFlight.Dec() }

// RecordClaimVerdict records a claim verification outcome.
func (m *Metrics) RecordClaimVerdict(quest string, claimed bool) {
	verdict := "rejected"
	if claimed {
		verdict = "claimed"
	}
	m.claimVerdicts.WithLabelValues(quest, verdict).Inc()
}

// RecordSnapshotRun records a snapshot job invocation.
func (m *Metrics) RecordSnapshotRun(cadence string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.snapshotRuns.WithLabelValues(cadence, outcome).Inc()
}

// RecordSnapshotRecords counts rows written by a snapshot job.
func (m *Metrics) RecordSnapshotRecords(cadence string, n int) {
	m.snapshotRecords.WithLabelValues(cadence).Add(float64(n))
}
