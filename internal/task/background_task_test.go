package task

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func newManager() *BackgroundTaskManager {
	return NewBackgroundTaskManager("test", prometheus.NewRegistry(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestRegisterRunsImmediatelyAndRepeats(t *testing.T) {
	m := newManager()
	var runs atomic.Int32

	m.Register(context.Background(), "tick", 5*time.Millisecond, func(ctx context.Context) error {
		runs.Add(1)
		return nil
	})

	assert.Eventually(t, func() bool { return runs.Load() >= 3 }, time.Second, time.Millisecond)
	assert.False(t, m.StopAll(time.Second))

	stopped := runs.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, stopped, runs.Load(), "no passes after StopAll")
}

func TestFailuresAreCountedAndLoopContinues(t *testing.T) {
	m := newManager()
	var runs atomic.Int32

	m.Register(context.Background(), "flaky", 5*time.Millisecond, func(ctx context.Context) error {
		runs.Add(1)
		return errors.New("store unavailable")
	})

	assert.Eventually(t, func() bool { return runs.Load() >= 2 }, time.Second, time.Millisecond)
	m.StopAll(time.Second)
	assert.GreaterOrEqual(t, testutil.ToFloat64(m.failures.WithLabelValues("flaky")), float64(2))
}

func TestStopAllCancelsInFlightPass(t *testing.T) {
	m := newManager()
	started := make(chan struct{})

	m.Register(context.Background(), "blocking", time.Hour, func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		return ctx.Err()
	})

	<-started
	assert.False(t, m.StopAll(time.Second))
	assert.Zero(t, testutil.ToFloat64(m.failures.WithLabelValues("blocking")), "cancellation is not a failure")
}

func TestStopAllTimesOut(t *testing.T) {
	m := newManager()
	started := make(chan struct{})
	release := make(chan struct{})
	defer close(release)

	m.Register(context.Background(), "stuck", time.Hour, func(ctx context.Context) error {
		close(started)
		<-release
		return nil
	})

	<-started
	assert.True(t, m.StopAll(10*time.Millisecond))
}
