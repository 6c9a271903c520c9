package worker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studio-campaigns/internal/core/domain"
)

func TestThrottleDailyCap(t *testing.T) {
	th := NewThrottle(0, 0, 2)
	clock := time.Date(2026, time.May, 1, 23, 59, 0, 0, time.UTC)
	th.now = func() time.Time { return clock }
	ctx := context.Background()

	require.NoError(t, th.Wait(ctx))
	assert.False(t, th.Exhausted())
	require.NoError(t, th.Wait(ctx))
	assert.True(t, th.Exhausted())

	err := th.Wait(ctx)
	require.ErrorIs(t, err, domain.ErrQuotaExhausted)
	assert.Equal(t, domain.FailureQuota, domain.ClassifySendError(err))

	clock = clock.Add(2 * time.Minute)
	assert.False(t, th.Exhausted(), "cap resets at midnight UTC")
	require.NoError(t, th.Wait(ctx))
}

func TestThrottleRateRefundsOnCancel(t *testing.T) {
	th := NewThrottle(1, 1, 5)
	ctx := context.Background()
	require.NoError(t, th.Wait(ctx))

	ctx, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
	defer cancel()
	require.Error(t, th.Wait(ctx), "second send must wait a minute")

	th.mu.Lock()
	used := th.used
	th.mu.Unlock()
	assert.Equal(t, 1, used, "a cancelled wait gives its slot back")
}

func TestThrottleUnlimited(t *testing.T) {
	th := NewThrottle(0, 0, 0)
	for i := 0; i < 1000; i++ {
		require.NoError(t, th.Wait(context.Background()))
	}
	assert.False(t, th.Exhausted())
}
