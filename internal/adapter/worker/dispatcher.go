// Package worker holds the two polling loops of the delivery engine: the
// dispatcher draining sending campaigns and the automatic retry scheduler.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"studio-campaigns/internal/core/domain"
	"studio-campaigns/internal/core/port"
)

// Starter starts scheduled campaigns that are due.
type Starter interface {
	StartCampaign(ctx context.Context, id uuid.UUID) error
}

// DispatchConfig mirrors configs.Dispatch plus the retry cooldown applied
// when a campaign finishes with failures.
type DispatchConfig struct {
	BatchSize         int
	MaxBatchesPerPass int
	Workers           int
	LeaseTTL          time.Duration
	SendTimeout       time.Duration
	Cooldown          time.Duration
}

// Dispatcher drains the delivery ledger of every sending campaign. At most
// Workers sends are in flight across all campaigns.
type Dispatcher struct {
	store    port.Store
	renderer port.TemplateRenderer
	mailer   port.Mailer
	starter  Starter
	throttle *Throttle
	sem      *semaphore.Weighted
	cfg      DispatchConfig
	logger   *slog.Logger
	now      func() time.Time
}

func NewDispatcher(
	store port.Store,
	renderer port.TemplateRenderer,
	mailer port.Mailer,
	starter Starter,
	throttle *Throttle,
	cfg DispatchConfig,
	logger *slog.Logger,
) *Dispatcher {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return &Dispatcher{
		store:    store,
		renderer: renderer,
		mailer:   mailer,
		starter:  starter,
		throttle: throttle,
		sem:      semaphore.NewWeighted(int64(cfg.Workers)),
		cfg:      cfg,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// pass is the state shared by every campaign within one RunOnce.
type pass struct {
	paused atomic.Bool
	once   sync.Once
}

func (d *Dispatcher) pause(p *pass, cause error) {
	p.paused.Store(true)
	p.once.Do(func() {
		quotaPausesTotal.Inc()
		d.logger.Warn("send quota exhausted, pausing dispatch until next poll", slog.Any("error", cause))
	})
}

// RunOnce performs one dispatch pass: recover expired claims, start due
// scheduled campaigns, then drain each sending campaign. It returns once all
// sends of the pass have been recorded.
func (d *Dispatcher) RunOnce(ctx context.Context) error {
	now := d.now()
	recovered, err := d.store.RecoverStale(ctx, now.Add(-d.cfg.LeaseTTL), now)
	if err != nil {
		return fmt.Errorf("recover stale claims: %w", err)
	}
	if recovered > 0 {
		staleRecoveredTotal.Add(float64(recovered))
		d.logger.Warn("recovered expired delivery claims", slog.Int("count", recovered))
	}

	d.startDue(ctx, now)

	if d.throttle.Exhausted() {
		d.logger.Debug("daily send cap reached, skipping pass")
		return nil
	}

	ids, err := d.store.ListCampaignIDs(ctx, domain.CampaignSending)
	if err != nil {
		return fmt.Errorf("list sending campaigns: %w", err)
	}

	p := &pass{}
	var g errgroup.Group
	g.SetLimit(d.cfg.Workers)
	for _, id := range ids {
		g.Go(func() error {
			return d.drainCampaign(ctx, id, p)
		})
	}
	return g.Wait()
}

func (d *Dispatcher) startDue(ctx context.Context, now time.Time) {
	ids, err := d.store.ListScheduledDue(ctx, now, d.cfg.BatchSize)
	if err != nil {
		d.logger.Error("list scheduled campaigns", slog.Any("error", err))
		return
	}
	for _, id := range ids {
		err = d.starter.StartCampaign(ctx, id)
		if err != nil && !errors.Is(err, domain.ErrAlreadyStarted) {
			d.logger.Warn("scheduled campaign did not start",
				slog.String("campaign_id", id.String()),
				slog.Any("error", err))
		}
	}
}

// drainCampaign claims and sends up to MaxBatchesPerPass batches, then
// completes the campaign if nothing is left pending or in flight.
func (d *Dispatcher) drainCampaign(ctx context.Context, id uuid.UUID, p *pass) error {
	c, err := d.store.GetCampaign(ctx, id)
	if err != nil {
		return fmt.Errorf("load campaign %s: %w", id, err)
	}
	logger := d.logger.With(slog.String("campaign_id", id.String()))

	for batch := 0; batch < d.cfg.MaxBatchesPerPass; batch++ {
		if p.paused.Load() || ctx.Err() != nil {
			return nil
		}
		// the claim only returns rows while the campaign is still sending,
		// so a cancel takes effect here
		claimed, err := d.store.ClaimBatch(ctx, id, d.cfg.BatchSize, d.now())
		if err != nil {
			logger.Error("claim batch failed", slog.Any("error", err))
			return fmt.Errorf("claim batch for campaign %s: %w", id, err)
		}
		if len(claimed) == 0 {
			break
		}
		claimedTotal.Add(float64(len(claimed)))
		d.processBatch(ctx, c, claimed, p, logger)
		if len(claimed) < d.cfg.BatchSize {
			break
		}
	}
	if ctx.Err() != nil {
		return nil
	}

	status, done, err := d.store.CompleteIfDrained(ctx, id, d.now(), d.cfg.Cooldown)
	if err != nil {
		return fmt.Errorf("complete campaign %s: %w", id, err)
	}
	if done {
		campaignsCompletedTotal.WithLabelValues(status.String()).Inc()
		logger.Info("campaign completed", slog.String("status", status.String()))
	}
	return nil
}

// processBatch sends every claimed delivery and waits for all of them.
// Deliveries that were not attempted, or hit the quota, go back to pending.
func (d *Dispatcher) processBatch(ctx context.Context, c *domain.Campaign, claimed []domain.Delivery, p *pass, logger *slog.Logger) {
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		release []uuid.UUID
	)
	giveBack := func(ids ...uuid.UUID) {
		mu.Lock()
		release = append(release, ids...)
		mu.Unlock()
	}
	rest := func(from int) []uuid.UUID {
		ids := make([]uuid.UUID, 0, len(claimed)-from)
		for _, dl := range claimed[from:] {
			ids = append(ids, dl.ID)
		}
		return ids
	}

	for i, dl := range claimed {
		if p.paused.Load() || ctx.Err() != nil {
			giveBack(rest(i)...)
			break
		}
		if err := d.sem.Acquire(ctx, 1); err != nil {
			giveBack(rest(i)...)
			break
		}
		if err := d.throttle.Wait(ctx); err != nil {
			d.sem.Release(1)
			if errors.Is(err, domain.ErrQuotaExhausted) {
				d.pause(p, err)
			}
			giveBack(rest(i)...)
			break
		}
		// another send may have hit the quota while this one waited
		if p.paused.Load() {
			d.throttle.refund()
			d.sem.Release(1)
			giveBack(rest(i)...)
			break
		}

		wg.Add(1)
		go func(dl domain.Delivery) {
			defer wg.Done()
			defer d.sem.Release(1)
			if !d.deliver(ctx, c, dl, p, logger) {
				giveBack(dl.ID)
			}
		}(dl)
	}
	wg.Wait()

	if len(release) == 0 {
		return
	}
	n, err := d.store.ReleaseClaimed(context.WithoutCancel(ctx), release, d.now())
	if err != nil {
		logger.Error("release claimed deliveries", slog.Int("count", len(release)), slog.Any("error", err))
		return
	}
	releasedTotal.Add(float64(n))
	logger.Debug("released unsent deliveries", slog.Int("count", n))
}

// deliver renders and sends one delivery and records the outcome. The send
// already holds a throttle slot, so it goes ahead even if the pass paused
// meanwhile. It returns false when nothing was recorded and the row should
// be released.
func (d *Dispatcher) deliver(ctx context.Context, c *domain.Campaign, dl domain.Delivery, p *pass, logger *slog.Logger) bool {
	logger = logger.With(slog.String("delivery_id", dl.ID.String()))

	msg, err := d.renderer.Render(ctx, c.TemplateRef, dl.Recipient)
	if err != nil {
		if ctx.Err() != nil {
			return false
		}
		return d.record(ctx, dl, domain.Transient(fmt.Errorf("render %s: %w", c.TemplateRef, err)), p, logger)
	}
	if msg.To == "" {
		msg.To = dl.Recipient.Email
	}
	if msg.Headers == nil {
		msg.Headers = make(map[string]string, 2)
	}
	msg.Headers["X-Campaign-ID"] = c.ID.String()
	msg.Headers["X-Delivery-ID"] = dl.ID.String()

	sendCtx, cancel := context.WithTimeout(ctx, d.cfg.SendTimeout)
	sendsInFlight.Inc()
	start := time.Now()
	err = d.mailer.Send(sendCtx, msg)
	sendDuration.Observe(time.Since(start).Seconds())
	sendsInFlight.Dec()
	cancel()

	if err != nil && ctx.Err() != nil {
		// shutting down; the outcome is unknown so the row goes back
		return false
	}
	return d.record(ctx, dl, err, p, logger)
}

func (d *Dispatcher) record(ctx context.Context, dl domain.Delivery, sendErr error, p *pass, logger *slog.Logger) bool {
	// results must land even when the pass is being cancelled
	ctx = context.WithoutCancel(ctx)
	at := d.now()

	var (
		outcome string
		err     error
	)
	switch {
	case sendErr == nil:
		outcome = "sent"
		err = d.store.MarkSent(ctx, dl.ID, at)
	default:
		switch domain.ClassifySendError(sendErr) {
		case domain.FailureQuota:
			sendsTotal.WithLabelValues("quota").Inc()
			d.pause(p, sendErr)
			return false
		case domain.FailurePermanent:
			outcome = "bounced"
			err = d.store.MarkBounced(ctx, dl.ID, sendErr.Error(), at)
		default:
			outcome = "failed"
			err = d.store.MarkFailed(ctx, dl.ID, sendErr.Error(), domain.FailureTransient, at)
		}
	}

	if err != nil {
		// the row stays in sending until its lease expires
		logger.Error("record delivery outcome", slog.String("outcome", outcome), slog.Any("error", err))
		return true
	}
	sendsTotal.WithLabelValues(outcome).Inc()
	if sendErr != nil {
		logger.Warn("delivery not sent",
			slog.String("class", string(domain.ClassifySendError(sendErr))),
			slog.String("outcome", outcome),
			slog.Any("error", sendErr))
	}
	return true
}
