package worker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"funding-digest/internal/pkg/config"
)

// WorkerMetrics provides Prometheus metrics for the scheduled worker.
// It embeds the standard ConfigMetrics for configuration monitoring:
//   - worker_config_load_timestamp
//   - worker_config_fallbacks_total
//   - worker_config_fallback_active
//
// and adds digest run tracking:
//   - worker_digest_runs_total{status}
//   - worker_digest_run_duration_seconds
//   - worker_digest_events_published_total
//   - worker_digest_last_success_timestamp
type WorkerMetrics struct {
	*config.ConfigMetrics

	// RunsTotal counts runs by status (success, failure, skipped).
	RunsTotal *prometheus.CounterVec

	// RunDurationSeconds measures whole runs, publishing included.
	RunDurationSeconds prometheus.Histogram

	// EventsPublishedTotal adds up the events of every digest handed to publishers.
	EventsPublishedTotal prometheus.Counter

	// LastSuccessTimestamp is the Unix time of the last successful run.
	LastSuccessTimestamp prometheus.Gauge
}

// NewWorkerMetrics registers the worker metrics with reg; nil means the
// default Prometheus registry.
func NewWorkerMetrics(reg prometheus.Registerer) *WorkerMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &WorkerMetrics{
		ConfigMetrics: config.NewConfigMetrics("worker", reg),

		RunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_digest_runs_total",
			Help: "Total number of digest runs by status (success/failure/skipped)",
		}, []string{"status"}),

		RunDurationSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "worker_digest_run_duration_seconds",
			Help:    "Duration of digest runs in seconds",
			Buckets: []float64{1, 5, 30, 60, 300, 900, 1800}, // 1s, 5s, 30s, 1m, 5m, 15m, 30m
		}),

		EventsPublishedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "worker_digest_events_published_total",
			Help: "Total number of funding events handed to publishers",
		}),

		LastSuccessTimestamp: factory.NewGauge(prometheus.GaugeOpts{
			Name: "worker_digest_last_success_timestamp",
			Help: "Unix timestamp of the last successful digest run",
		}),
	}
}

// RecordRun increments the run counter for status.
func (m *WorkerMetrics) RecordRun(status string) {
	m.RunsTotal.WithLabelValues(status).Inc()
}

// RecordRunDuration observes a run duration in seconds.
func (m *WorkerMetrics) RecordRunDuration(seconds float64) {
	m.RunDurationSeconds.Observe(seconds)
}

// RecordEventsPublished adds the events of one published digest.
func (m *WorkerMetrics) RecordEventsPublished(count int) {
	m.EventsPublishedTotal.Add(float64(count))
}

// RecordLastSuccess records the current time as the last successful run.
func (m *WorkerMetrics) RecordLastSuccess() {
	m.LastSuccessTimestamp.SetToCurrentTime()
}
