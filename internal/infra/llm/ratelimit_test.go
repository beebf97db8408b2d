package llm

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"funding-digest/internal/domain/entity"
)

func TestRateLimited_PassesThrough(t *testing.T) {
	stub := &stubCompleter{answers: []string{"YES"}}
	r := NewRateLimited(stub, 6000)

	answer, err := r.Complete(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "YES", answer)
	assert.Equal(t, "stub", r.Name())
}

func TestRateLimited_DeadlineBeforeToken(t *testing.T) {
	stub := &stubCompleter{answers: []string{"YES"}}
	r := NewRateLimited(stub, 1) // one call per minute

	_, err := r.Complete(context.Background(), "first")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = r.Complete(ctx, "second")

	assert.ErrorIs(t, err, entity.ErrRateLimited)
	assert.Equal(t, 1, stub.calls(), "throttled call never reaches the provider")
}

func TestNewRateLimited_Disabled(t *testing.T) {
	stub := &stubCompleter{}
	assert.Same(t, stub, NewRateLimited(stub, 0))
}
