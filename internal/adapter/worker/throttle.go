package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"studio-campaigns/internal/core/domain"
)

// Throttle enforces the provider send rate and an optional daily cap. The
// cap is process local and resets at midnight UTC.
type Throttle struct {
	limiter  *rate.Limiter
	dailyCap int

	mu   sync.Mutex
	day  string
	used int
	now  func() time.Time
}

// NewThrottle allows perMinute sends per minute with the given burst. A
// perMinute of zero or less disables rate limiting; a dailyCap of zero
// disables the cap.
func NewThrottle(perMinute, burst, dailyCap int) *Throttle {
	limit := rate.Inf
	if perMinute > 0 {
		limit = rate.Limit(float64(perMinute) / 60)
	}
	if burst < 1 {
		burst = 1
	}
	return &Throttle{
		limiter:  rate.NewLimiter(limit, burst),
		dailyCap: dailyCap,
		now:      time.Now,
	}
}

// Wait blocks until one more send may start. It returns an error matching
// domain.ErrQuotaExhausted once the daily cap is spent.
func (t *Throttle) Wait(ctx context.Context) error {
	if err := t.take(); err != nil {
		return err
	}
	if err := t.limiter.Wait(ctx); err != nil {
		t.refund()
		return err
	}
	return nil
}

// Exhausted reports whether the daily cap is spent for today.
func (t *Throttle) Exhausted() bool {
	if t.dailyCap <= 0 {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rollover()
	return t.used >= t.dailyCap
}

func (t *Throttle) take() error {
	if t.dailyCap <= 0 {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rollover()
	if t.used >= t.dailyCap {
		return domain.QuotaExhausted(fmt.Errorf("daily cap of %d sends reached", t.dailyCap))
	}
	t.used++
	return nil
}

func (t *Throttle) refund() {
	if t.dailyCap <= 0 {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.used > 0 {
		t.used--
	}
}

// rollover must be called with mu held.
func (t *Throttle) rollover() {
	day := t.now().UTC().Format(time.DateOnly)
	if day != t.day {
		t.day = day
		t.used = 0
	}
}
