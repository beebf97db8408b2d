// Package metrics holds the Prometheus collectors of the digest worker.
//
// Collectors are registered with the default registry at package init and
// exposed by the worker's /metrics endpoint. Callers use the Record helpers
// rather than touching the collectors directly:
//
//	start := time.Now()
//	articles := filter.Apply(raw, now)
//	metrics.RecordStageDuration("filter", time.Since(start))
package metrics
