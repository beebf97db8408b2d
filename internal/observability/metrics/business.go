package metrics

import (
	"time"
)

// RecordArticlesCollected records the articles one collector supplied.
func RecordArticlesCollected(collector string, count int) {
	ArticlesCollectedTotal.WithLabelValues(collector).Add(float64(count))
}

// RecordCollectorError records a collector that supplied nothing.
func RecordCollectorError(collector string) {
	CollectorErrorsTotal.WithLabelValues(collector).Inc()
}

// RecordFilterDecisions records the filter outcome counts of one run.
func RecordFilterDecisions(admitted, tooOld, noKeyword, duplicate int) {
	FilterDecisionsTotal.WithLabelValues("admitted").Add(float64(admitted))
	FilterDecisionsTotal.WithLabelValues("too_old").Add(float64(tooOld))
	FilterDecisionsTotal.WithLabelValues("no_keyword").Add(float64(noKeyword))
	FilterDecisionsTotal.WithLabelValues("duplicate").Add(float64(duplicate))
}

// RecordStrategyResult records which strategy produced a stage result.
func RecordStrategyResult(stage, strategy string) {
	StrategyResultsTotal.WithLabelValues(stage, strategy).Inc()
}

// RecordUnknownCompany records a mention dropped for lack of a name.
func RecordUnknownCompany() {
	UnknownCompaniesTotal.Inc()
}

// RecordStageDuration records how long a pipeline stage took.
func RecordStageDuration(stage string, duration time.Duration) {
	StageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// RecordDigest records the size of a finished digest.
func RecordDigest(events int) {
	EventsInDigest.Set(float64(events))
}

// RecordModelCall records a remote model call. reason is "none" on success.
func RecordModelCall(provider, op, reason string, duration time.Duration) {
	ModelCallDuration.WithLabelValues(provider, op).Observe(duration.Seconds())
	if reason != "none" {
		ModelFailuresTotal.WithLabelValues(provider, op, reason).Inc()
	}
}

// RecordCacheLookup records an answer cache hit or miss.
func RecordCacheLookup(hit bool) {
	if hit {
		ModelCacheLookupsTotal.WithLabelValues("hit").Inc()
		return
	}
	ModelCacheLookupsTotal.WithLabelValues("miss").Inc()
}

// RecordCircuitState records a circuit breaker state transition.
func RecordCircuitState(circuit string, state int) {
	CircuitBreakerState.WithLabelValues(circuit).Set(float64(state))
}

// RecordPublish records a publish attempt.
func RecordPublish(publisher string, success bool) {
	status := "success"
	if !success {
		status = "failure"
	}
	PublishTotal.WithLabelValues(publisher, status).Inc()
}
