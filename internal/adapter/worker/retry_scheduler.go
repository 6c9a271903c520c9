package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"studio-campaigns/internal/core/domain"
	"studio-campaigns/internal/core/port"
)

// RetryScheduler reopens failed campaigns with auto retry enabled once
// their cooldown has elapsed. The dispatcher picks the requeued rows up on
// its next poll.
type RetryScheduler struct {
	store  port.Store
	batch  int
	logger *slog.Logger
	now    func() time.Time
}

func NewRetryScheduler(store port.Store, batch int, logger *slog.Logger) *RetryScheduler {
	if batch < 1 {
		batch = 1
	}
	return &RetryScheduler{
		store:  store,
		batch:  batch,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// RunOnce requeues the failed deliveries of every campaign whose retry is
// due. Campaigns that changed status or spent their budget in the meantime
// are skipped.
func (s *RetryScheduler) RunOnce(ctx context.Context) error {
	now := s.now()
	ids, err := s.store.ListRetryDue(ctx, now, s.batch)
	if err != nil {
		return fmt.Errorf("list retry due campaigns: %w", err)
	}

	var errs []error
	for _, id := range ids {
		logger := s.logger.With(slog.String("campaign_id", id.String()))
		n, err := s.store.RequeueFailed(ctx, id, 0, now)
		switch {
		case errors.Is(err, domain.ErrRetryBudgetExhausted), errors.Is(err, domain.ErrInvalidTransition):
			logger.Info("auto retry skipped", slog.Any("reason", err))
		case err != nil:
			errs = append(errs, fmt.Errorf("requeue campaign %s: %w", id, err))
		case n > 0:
			retryRequeuedTotal.Add(float64(n))
			logger.Info("auto retry requeued failed deliveries", slog.Int("requeued", n))
		}
	}
	return errors.Join(errs...)
}
