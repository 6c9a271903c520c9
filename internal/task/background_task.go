// Package task runs the engine's polling loops. Loops share nothing but the
// store, so a crash or restart loses no work.
package task

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Func is one pass of a background loop. A returned error is logged and the
// loop carries on at its next tick.
type Func func(ctx context.Context) error

type task struct {
	name     string
	fn       Func
	interval time.Duration
	cancel   context.CancelFunc
}

// BackgroundTaskManager is not threadsafe, it should only be accessed from a single goroutine.
type BackgroundTaskManager struct {
	tasks  []*task
	logger *slog.Logger
	wg     *sync.WaitGroup

	latency  *prometheus.HistogramVec
	failures *prometheus.CounterVec
}

// NewBackgroundTaskManager registers its loop metrics with reg under the
// given namespace.
func NewBackgroundTaskManager(namespace string, reg prometheus.Registerer, logger *slog.Logger) *BackgroundTaskManager {
	m := &BackgroundTaskManager{
		logger: logger,
		wg:     &sync.WaitGroup{},
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "background_task_latency_seconds",
			Help:      "Background loop pass latency in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 15),
		}, []string{"task"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "background_task_failures_total",
			Help:      "Background loop passes that returned an error",
		}, []string{"task"}),
	}
	reg.MustRegister(m.latency, m.failures)
	return m
}

// Register starts fn immediately and then every interval until ctx is done
// or StopAll is called.
func (m *BackgroundTaskManager) Register(ctx context.Context, name string, interval time.Duration, fn Func) {
	ctx, cancel := context.WithCancel(ctx)
	t := &task{name: name, fn: fn, interval: interval, cancel: cancel}
	m.startBackgroundTask(ctx, t)
	m.tasks = append(m.tasks, t)
}

// StopAll cancels every loop and waits up to timeout for in-progress passes
// to return. It reports whether the wait timed out.
func (m *BackgroundTaskManager) StopAll(timeout time.Duration) bool {
	for _, t := range m.tasks {
		t.cancel()
	}
	return m.waitForShutdownCompletion(timeout)
}

func (m *BackgroundTaskManager) startBackgroundTask(ctx context.Context, t *task) {
	latency := m.latency.WithLabelValues(t.name)
	failures := m.failures.WithLabelValues(t.name)

	run := func() {
		start := time.Now()
		if err := t.fn(ctx); err != nil && ctx.Err() == nil {
			failures.Inc()
			m.logger.Error("background task failed", slog.String("task", t.name), slog.Any("error", err))
		}
		latency.Observe(time.Since(start).Seconds())
	}

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		run()

		ticker := time.NewTicker(t.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
			case <-ctx.Done():
				return
			}
			run()
		}
	}()
}

func (m *BackgroundTaskManager) waitForShutdownCompletion(timeout time.Duration) bool {
	c := make(chan struct{})
	go func() {
		defer close(c)
		m.wg.Wait()
	}()
	select {
	case <-c:
		return false // completed normally
	case <-time.After(timeout):
		return true // timed out
	}
}
