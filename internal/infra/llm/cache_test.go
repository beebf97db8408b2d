package llm

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"funding-digest/internal/domain/entity"
	"funding-digest/internal/observability/metrics"
)

func TestCached_ReusesAnswers(t *testing.T) {
	stub := &stubCompleter{answers: []string{"YES", "NO"}}
	c, err := NewCached(stub, 8)
	require.NoError(t, err)

	hits := testutil.ToFloat64(metrics.ModelCacheLookupsTotal.WithLabelValues("hit"))

	first, err := c.Complete(context.Background(), "prompt A")
	require.NoError(t, err)
	second, err := c.Complete(context.Background(), "prompt A")
	require.NoError(t, err)
	other, err := c.Complete(context.Background(), "prompt B")
	require.NoError(t, err)

	assert.Equal(t, "YES", first)
	assert.Equal(t, "YES", second)
	assert.Equal(t, "NO", other)
	assert.Equal(t, 2, stub.calls())
	assert.Equal(t, hits+1, testutil.ToFloat64(metrics.ModelCacheLookupsTotal.WithLabelValues("hit")))
	assert.Equal(t, "stub", c.Name())
}

func TestCached_DoesNotCacheFailures(t *testing.T) {
	stub := &stubCompleter{err: &entity.ModelError{Provider: "stub", Op: "complete", Err: entity.ErrServiceUnavailable}}
	c, err := NewCached(stub, 8)
	require.NoError(t, err)

	_, err = c.Complete(context.Background(), "prompt")
	require.Error(t, err)

	stub.err = nil
	stub.answers = []string{"NO"}
	answer, err := c.Complete(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "NO", answer)
	assert.Equal(t, 2, stub.calls())
}

func TestCached_Evicts(t *testing.T) {
	stub := &stubCompleter{answers: []string{"x"}}
	c, err := NewCached(stub, 2)
	require.NoError(t, err)

	for _, p := range []string{"a", "b", "c"} {
		_, err := c.Complete(context.Background(), p)
		require.NoError(t, err)
	}
	assert.Equal(t, 2, c.(*Cached).Len())
}

func TestNewCached_Disabled(t *testing.T) {
	stub := &stubCompleter{}
	c, err := NewCached(stub, 0)
	require.NoError(t, err)
	assert.Same(t, stub, c)
}
