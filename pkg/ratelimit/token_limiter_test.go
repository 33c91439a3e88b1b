package ratelimit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenLimiter_WaitWithinBudget(t *testing.T) {
	l := NewTokenLimiter(100)

	require.NoError(t, l.Wait(context.Background(), 40))
	assert.Equal(t, 60, l.GetRemaining())

	require.NoError(t, l.Wait(context.Background(), 60))
	assert.Equal(t, 0, l.GetRemaining())
}

func TestTokenLimiter_OversizedRequestAdmittedAlone(t *testing.T) {
	l := NewTokenLimiter(100)

	// A request larger than the whole budget must not deadlock.
	require.NoError(t, l.Wait(context.Background(), 500))
	assert.Equal(t, 0, l.GetRemaining())
}

func TestTokenLimiter_WaitHonorsContext(t *testing.T) {
	l := NewTokenLimiter(10)
	require.NoError(t, l.Wait(context.Background(), 10))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := l.Wait(ctx, 5)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMemoryLimiterStore_PerKeyLimiters(t *testing.T) {
	store := NewMemoryLimiterStore(1, 1)

	a := store.Limiter("user-a")
	b := store.Limiter("user-b")
	assert.NotSame(t, a, b)
	assert.Same(t, a, store.Limiter("user-a"))

	assert.True(t, a.Allow())
	assert.False(t, a.Allow(), "burst of one is spent")
	assert.True(t, b.Allow(), "keys do not share budgets")
}
