package worker

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"funding-digest/internal/domain/entity"
	"funding-digest/internal/observability/logging"
	"funding-digest/internal/usecase/pipeline"
)

type stubRunner struct {
	digest   *entity.Digest
	err      error
	gotNow   time.Time
	deadline bool
	block    bool
}

func (r *stubRunner) Run(ctx context.Context, now time.Time) (*entity.Digest, error) {
	r.gotNow = now
	_, r.deadline = ctx.Deadline()
	if r.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return r.digest, r.err
}

type stubPublisher struct {
	name  string
	err   error
	mu    sync.Mutex
	runID string
	calls int
}

func (p *stubPublisher) Name() string { return p.name }

func (p *stubPublisher) Publish(ctx context.Context, d *entity.Digest) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	p.runID = logging.RunIDFromContext(ctx)
	return p.err
}

func newTestJob(t *testing.T, runner Runner, publishers ...pipeline.Publisher) (*Job, *WorkerMetrics, *HealthServer, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	logger := testLogger(&buf)
	cfg := DefaultConfig()
	metrics := NewWorkerMetrics(prometheus.NewRegistry())
	health := NewHealthServer(":0", logger)

	job := NewJob(runner, publishers, &cfg, metrics, health, logger)
	job.now = func() time.Time { return time.Date(2025, 3, 1, 6, 0, 0, 0, time.UTC) }
	return job, metrics, health, &buf
}

func digestWithEvents(n int) *entity.Digest {
	d := &entity.Digest{RunID: "run-7"}
	for i := 0; i < n; i++ {
		d.Events = append(d.Events, entity.FundingEvent{CompanyName: "Acme"})
	}
	return d
}

func TestJob_Run_Success(t *testing.T) {
	runner := &stubRunner{digest: digestWithEvents(3)}
	file := &stubPublisher{name: "file"}
	slack := &stubPublisher{name: "slack"}
	job, metrics, health, _ := newTestJob(t, runner, file, slack)

	digest, err := job.Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, digest.Events, 3)

	assert.True(t, runner.deadline, "the run must be bounded by RunTimeout")
	assert.Equal(t, "Europe/Stockholm", runner.gotNow.Location().String())
	assert.Equal(t, 7, runner.gotNow.Hour())

	assert.Equal(t, 1, file.calls)
	assert.Equal(t, 1, slack.calls)
	assert.Equal(t, "run-7", slack.runID)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.RunsTotal.WithLabelValues("success")))
	assert.Equal(t, 3.0, testutil.ToFloat64(metrics.EventsPublishedTotal))
	assert.Greater(t, testutil.ToFloat64(metrics.LastSuccessTimestamp), 0.0)

	status := health.lastRun.Load()
	require.NotNil(t, status)
	assert.Equal(t, "run-7", status.RunID)
	assert.Equal(t, 3, status.Events)
	assert.Empty(t, status.Error)
}

func TestJob_Run_PublishFailure(t *testing.T) {
	runner := &stubRunner{digest: digestWithEvents(1)}
	broken := &stubPublisher{name: "discord", err: errors.New(`Post "https://discord.com/api/webhooks/1/tok3n": EOF`)}
	file := &stubPublisher{name: "file"}
	job, metrics, health, buf := newTestJob(t, runner, broken, file)

	digest, err := job.Run(context.Background())
	require.Error(t, err)
	require.NotNil(t, digest)
	assert.Equal(t, 1, file.calls, "a failing publisher must not stop the others")

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.RunsTotal.WithLabelValues("failure")))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.EventsPublishedTotal))

	status := health.lastRun.Load()
	require.NotNil(t, status)
	assert.Contains(t, status.Error, "publish via discord")
	assert.NotContains(t, status.Error, "tok3n")
	assert.NotContains(t, buf.String(), "tok3n")
}

func TestJob_Run_RunnerError(t *testing.T) {
	runner := &stubRunner{err: pipeline.ErrMissingCollaborator}
	file := &stubPublisher{name: "file"}
	job, metrics, health, _ := newTestJob(t, runner, file)

	digest, err := job.Run(context.Background())
	assert.ErrorIs(t, err, pipeline.ErrMissingCollaborator)
	assert.Nil(t, digest)
	assert.Zero(t, file.calls)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.RunsTotal.WithLabelValues("failure")))
	require.NotNil(t, health.lastRun.Load())
	assert.Empty(t, health.lastRun.Load().RunID)
}

func TestJob_Run_Timeout(t *testing.T) {
	runner := &stubRunner{block: true}
	job, _, _, _ := newTestJob(t, runner)
	job.timeout = 20 * time.Millisecond

	_, err := job.Run(context.Background())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestJob_Scheduled_CancelledWithWorker(t *testing.T) {
	runner := &stubRunner{block: true}
	job, metrics, _, _ := newTestJob(t, runner)
	job.timeout = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		job.Scheduled(ctx)()
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("scheduled run did not stop after the worker context was cancelled")
	}
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.RunsTotal.WithLabelValues("failure")))
}

func TestJob_NilMetricsAndHealth(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	job := NewJob(&stubRunner{digest: digestWithEvents(0)}, nil, &cfg, nil, nil, testLogger(&buf))

	assert.NotPanics(t, job.Scheduled(context.Background()))
	assert.Contains(t, buf.String(), "digest job completed")
}
