package mailer

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"studio-campaigns/internal/core/domain"
)

type simulatedFailure struct {
	class  domain.FailureClass
	reason string
}

var simulatedFailures = []simulatedFailure{
	{domain.FailureTransient, "network timeout"},
	{domain.FailureTransient, "service temporarily unavailable"},
	{domain.FailurePermanent, "mailbox does not exist"},
	{domain.FailurePermanent, "recipient address rejected"},
	{domain.FailureQuota, "daily sending quota exceeded"},
}

// Simulated is a development mailer. It succeeds with the configured
// probability and otherwise returns one of a fixed set of classified
// failures. Nothing leaves the process.
type Simulated struct {
	successRate float64
	latency     time.Duration
	logger      *slog.Logger

	mu   sync.Mutex
	rand *rand.Rand
}

// NewSimulated clamps successRate to [0,1]. latency is the maximum
// simulated network delay per send; zero disables it.
func NewSimulated(successRate float64, latency time.Duration, r *rand.Rand, logger *slog.Logger) *Simulated {
	successRate = min(max(successRate, 0), 1)
	if r == nil {
		r = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Simulated{
		successRate: successRate,
		latency:     latency,
		logger:      logger,
		rand:        r,
	}
}

func (s *Simulated) Send(ctx context.Context, msg domain.Message) error {
	s.mu.Lock()
	var delay time.Duration
	if s.latency > 0 {
		delay = time.Duration(s.rand.Int63n(int64(s.latency)))
	}
	ok := s.rand.Float64() < s.successRate
	failure := simulatedFailures[s.rand.Intn(len(simulatedFailures))]
	s.mu.Unlock()

	if delay > 0 {
		t := time.NewTimer(delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return domain.Transient(ctx.Err())
		case <-t.C:
		}
	}

	if ok {
		s.logger.DebugContext(ctx, "simulated send", "to", msg.To, "subject", msg.Subject)
		return nil
	}
	err := errors.New(failure.reason)
	s.logger.DebugContext(ctx, "simulated send failed", "to", msg.To, "class", failure.class, "reason", failure.reason)
	switch failure.class {
	case domain.FailurePermanent:
		return domain.Permanent(err)
	case domain.FailureQuota:
		return domain.QuotaExhausted(err)
	}
	return domain.Transient(err)
}
