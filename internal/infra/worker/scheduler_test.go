package worker

import (
	"bytes"
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewScheduler(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	job := NewJob(&stubRunner{digest: digestWithEvents(0)}, nil, &cfg, nil, nil, testLogger(&buf))

	c, err := NewScheduler(context.Background(), &cfg, job, nil, testLogger(&buf))
	require.NoError(t, err)
	require.Len(t, c.Entries(), 1)
	assert.Equal(t, "Europe/Stockholm", c.Location().String())
}

func TestNewScheduler_InvalidSchedule(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.CronSchedule = "61 * * * *"
	job := NewJob(&stubRunner{}, nil, &cfg, nil, nil, testLogger(&buf))

	_, err := NewScheduler(context.Background(), &cfg, job, nil, testLogger(&buf))
	assert.Error(t, err)
}

func TestCronLogger_SkipIsCounted(t *testing.T) {
	var buf bytes.Buffer
	metrics := NewWorkerMetrics(prometheus.NewRegistry())
	l := cronLogger{logger: testLogger(&buf), metrics: metrics}

	l.Info("skip")
	l.Info("wake")

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.RunsTotal.WithLabelValues("skipped")))
	assert.Contains(t, buf.String(), "previous run still in progress")
	assert.Contains(t, buf.String(), "cron: wake")
}
