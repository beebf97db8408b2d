// Package metrics provides the Prometheus metrics of a digest run.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collection metrics track what the collectors supply.
var (
	// ArticlesCollectedTotal counts raw articles by collector.
	ArticlesCollectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "digest_articles_collected_total",
			Help: "Total number of raw articles supplied by collectors",
		},
		[]string{"collector"},
	)

	// CollectorErrorsTotal counts collectors that failed to supply articles.
	CollectorErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "digest_collector_errors_total",
			Help: "Total number of collector failures",
		},
		[]string{"collector"},
	)
)

// Pipeline metrics track the stages between collection and the report.
var (
	// FilterDecisionsTotal counts filter outcomes.
	FilterDecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "digest_filter_decisions_total",
			Help: "Total number of filter decisions by outcome",
		},
		[]string{"outcome"}, // admitted, too_old, no_keyword, duplicate
	)

	// StrategyResultsTotal counts which strategy produced each verdict or name.
	StrategyResultsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "digest_strategy_results_total",
			Help: "Total number of stage results by producing strategy",
		},
		[]string{"stage", "strategy"},
	)

	// UnknownCompaniesTotal counts funding mentions dropped without a name.
	UnknownCompaniesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "digest_unknown_companies_total",
			Help: "Total number of funding mentions with no extractable company",
		},
	)

	// StageDuration measures each pipeline stage.
	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "digest_stage_duration_seconds",
			Help:    "Time taken by each pipeline stage",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 14),
		},
		[]string{"stage"},
	)

	// EventsInDigest is the number of events in the most recent digest.
	EventsInDigest = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "digest_events",
			Help: "Number of funding events in the most recent digest",
		},
	)
)

// Model metrics track the remote language model.
var (
	// ModelCallDuration measures remote model calls.
	ModelCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "digest_model_call_duration_seconds",
			Help:    "Time taken by a remote model call",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		},
		[]string{"provider", "op"},
	)

	// ModelFailuresTotal counts failed model calls by taxonomy reason.
	ModelFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "digest_model_failures_total",
			Help: "Total number of failed remote model calls",
		},
		[]string{"provider", "op", "reason"},
	)

	// ModelCacheLookupsTotal counts answer cache lookups.
	ModelCacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "digest_model_cache_lookups_total",
			Help: "Total number of model answer cache lookups",
		},
		[]string{"result"}, // hit, miss
	)

	// CircuitBreakerState is the state of each circuit breaker
	// (0 closed, 1 half-open, 2 open).
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "digest_circuit_breaker_state",
			Help: "Circuit breaker state (0 closed, 1 half-open, 2 open)",
		},
		[]string{"circuit"},
	)
)

// Publishing metrics track report delivery.
var (
	// PublishTotal counts publish attempts by publisher and status.
	PublishTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "digest_publish_total",
			Help: "Total number of digest publish attempts",
		},
		[]string{"publisher", "status"},
	)
)
