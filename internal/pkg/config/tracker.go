package config

import "log/slog"

// Tracker accumulates the fallbacks of several loads so a config struct can
// log every warning and report all rejected fields to ConfigMetrics at once.
type Tracker struct {
	logger *slog.Logger
	fields []string
}

// NewTracker returns a Tracker that logs warnings to logger.
func NewTracker(logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracker{logger: logger}
}

// Track logs the warnings of r under field and returns r.Value.
func Track[T any](t *Tracker, field string, r LoadResult[T]) T {
	if r.FallbackApplied {
		t.fields = append(t.fields, field)
		for _, warning := range r.Warnings {
			t.logger.Warn("configuration fallback applied",
				slog.String("field", field),
				slog.String("warning", warning))
		}
	}
	return r.Value
}

// FallbackFields returns the fields that fell back, in load order.
func (t *Tracker) FallbackFields() []string {
	return t.fields
}

// Report forwards the collected fallbacks to m. A nil m is ignored.
func (t *Tracker) Report(m *ConfigMetrics) {
	if m != nil {
		m.Observe(t.fields)
	}
}
