package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"studio-campaigns/internal/core/domain"
	"studio-campaigns/internal/core/port"
)

var _ port.CampaignUseCase = (*CampaignUseCase)(nil)

// maxTransitionAttempts bounds the re-read loop when a status change loses a
// compare-and-set race.
const maxTransitionAttempts = 3

// CampaignUseCase implements the operator actions of the delivery engine on
// top of a port.Store. It never sends mail itself; the dispatcher drains
// whatever it moves into sending.
type CampaignUseCase struct {
	store     port.Store
	snapshots *SnapshotBuilder
	logger    *slog.Logger

	// defaultMaxRetries applies when a create request leaves max_retries out.
	defaultMaxRetries int
	now               func() time.Time
}

func NewCampaignUseCase(store port.Store, resolver port.RecipientResolver, logger *slog.Logger, defaultMaxRetries int) *CampaignUseCase {
	return &CampaignUseCase{
		store:             store,
		snapshots:         NewSnapshotBuilder(resolver, store),
		logger:            logger,
		defaultMaxRetries: defaultMaxRetries,
		now:               func() time.Time { return time.Now().UTC() },
	}
}

func (u *CampaignUseCase) CreateCampaign(ctx context.Context, req port.CreateCampaignReq) (*domain.Campaign, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ValidationError("name is required")
	}
	ref := strings.TrimSpace(req.TemplateRef)
	if ref == "" {
		return nil, domain.ValidationError("template_ref is required")
	}
	if len(bytes.TrimSpace(req.Filter)) == 0 || !json.Valid(req.Filter) {
		return nil, domain.ValidationError("filter must be a JSON document")
	}
	maxRetries := u.defaultMaxRetries
	if req.MaxRetries != nil {
		if *req.MaxRetries < 0 {
			return nil, domain.ValidationError("max_retries must not be negative")
		}
		maxRetries = *req.MaxRetries
	}

	c := &domain.Campaign{
		ID:          uuid.New(),
		Name:        name,
		TemplateRef: ref,
		Filter:      req.Filter,
		Status:      domain.CampaignDraft,
		MaxRetries:  maxRetries,
		AutoRetry:   req.AutoRetry,
		CreatedAt:   u.now(),
	}
	if err := u.store.CreateCampaign(ctx, c); err != nil {
		return nil, err
	}
	u.logger.Info("campaign created",
		slog.String("campaign_id", c.ID.String()),
		slog.String("template", c.TemplateRef),
		slog.Int("max_retries", c.MaxRetries))
	return c, nil
}

// ScheduleCampaign dry-runs the filter so a campaign that would reach nobody
// never leaves draft. The snapshot itself is taken when the campaign starts.
func (u *CampaignUseCase) ScheduleCampaign(ctx context.Context, id uuid.UUID, at time.Time) (*domain.Campaign, error) {
	if at.IsZero() {
		return nil, domain.ValidationError("scheduled_at is required")
	}
	c, err := u.store.GetCampaign(ctx, id)
	if err != nil {
		return nil, err
	}
	if err = domain.CheckSchedule(c); err != nil {
		return nil, err
	}
	snap, err := u.snapshots.Resolve(ctx, c.Filter)
	if err != nil {
		return nil, err
	}

	at = at.UTC()
	if _, err = u.transition(ctx, id, domain.CampaignScheduled, domain.CheckSchedule, &at); err != nil {
		return nil, err
	}
	u.logger.Info("campaign scheduled",
		slog.String("campaign_id", id.String()),
		slog.Time("scheduled_at", at),
		slog.Int("recipients", snap.Len()))
	return u.store.GetCampaign(ctx, id)
}

func (u *CampaignUseCase) StartCampaign(ctx context.Context, id uuid.UUID) error {
	c, err := u.store.GetCampaign(ctx, id)
	if err != nil {
		return err
	}
	if err = domain.CheckStart(c); err != nil {
		return err
	}

	if !c.Snapshotted() {
		n, err := u.snapshots.Build(ctx, c, u.now())
		switch {
		case errors.Is(err, domain.ErrAlreadySnapshotted):
			// a concurrent start got there first; the transition below
			// re-checks the status it left behind
		case err != nil:
			return err
		default:
			u.logger.Info("recipients snapshotted",
				slog.String("campaign_id", id.String()),
				slog.Int("recipients", n))
		}
	}

	if _, err = u.transition(ctx, id, domain.CampaignSending, domain.CheckStart, nil); err != nil {
		return err
	}
	u.logger.Info("campaign started", slog.String("campaign_id", id.String()))
	return nil
}

func (u *CampaignUseCase) CancelCampaign(ctx context.Context, id uuid.UUID) error {
	c, err := u.transition(ctx, id, domain.CampaignCancelled, domain.CheckCancel, nil)
	if err != nil {
		return err
	}
	u.logger.Info("campaign cancelled",
		slog.String("campaign_id", id.String()),
		slog.Int("unsent", c.Outstanding()))
	return nil
}

// RetryFailed applies the retry policy change and requeues every failed
// delivery at once, ignoring retry_after. It returns 0 without error when
// there is nothing to requeue. The policy is only written once the campaign
// could be reopened under it; a status change racing between the two writes
// can still leave the new policy in place with nothing requeued.
func (u *CampaignUseCase) RetryFailed(ctx context.Context, id uuid.UUID, opts port.RetryOptions) (int, error) {
	if opts.MaxRetries < 0 {
		return 0, domain.ValidationError("max_retries must not be negative")
	}
	c, err := u.store.GetCampaign(ctx, id)
	if err != nil {
		return 0, err
	}
	proposed := *c
	if opts.AutoRetry {
		proposed.AutoRetry = true
	}
	if opts.MaxRetries > 0 {
		proposed.MaxRetries = opts.MaxRetries
	}
	if err = domain.CheckReopen(&proposed); err != nil {
		return 0, err
	}

	now := u.now()
	if opts.AutoRetry || opts.MaxRetries > 0 {
		if err = u.store.UpdateRetryPolicy(ctx, id, opts, now); err != nil {
			return 0, err
		}
	}
	n, err := u.store.RequeueFailed(ctx, id, 0, now)
	if err != nil {
		return 0, err
	}
	u.logger.Info("failed deliveries requeued",
		slog.String("campaign_id", id.String()),
		slog.Int("requeued", n),
		slog.Bool("auto_retry", opts.AutoRetry || c.AutoRetry))
	return n, nil
}

func (u *CampaignUseCase) GetCampaign(ctx context.Context, id uuid.UUID) (*domain.Campaign, error) {
	return u.store.GetCampaign(ctx, id)
}

func (u *CampaignUseCase) ListCampaigns(ctx context.Context, q port.CampaignQuery) (*port.CampaignPage, error) {
	if q.Status != nil && !q.Status.IsValid() {
		return nil, domain.ValidationError("unknown campaign status %q", *q.Status)
	}
	q.Page = q.Page.Normalize()
	campaigns, total, err := u.store.ListCampaigns(ctx, q)
	if err != nil {
		return nil, err
	}
	return &port.CampaignPage{Campaigns: campaigns, Page: q.Page, Total: total}, nil
}

func (u *CampaignUseCase) ListDeliveries(ctx context.Context, id uuid.UUID, q port.DeliveryQuery) (*port.DeliveryPage, error) {
	if q.Status != nil && !q.Status.IsValid() {
		return nil, domain.ValidationError("unknown delivery status %q", *q.Status)
	}
	if _, err := u.store.GetCampaign(ctx, id); err != nil {
		return nil, err
	}
	q.Page = q.Page.Normalize()
	deliveries, total, err := u.store.ListDeliveries(ctx, id, q)
	if err != nil {
		return nil, err
	}
	return &port.DeliveryPage{Deliveries: deliveries, Page: q.Page, Total: total}, nil
}

func (u *CampaignUseCase) CampaignStats(ctx context.Context, id uuid.UUID) (*port.CampaignStats, error) {
	c, err := u.store.GetCampaign(ctx, id)
	if err != nil {
		return nil, err
	}
	counts, err := u.store.CountDeliveries(ctx, id)
	if err != nil {
		return nil, err
	}
	total := 0
	for _, n := range counts {
		total += n
	}
	reconciled := counts[domain.DeliverySent] == c.SentCount &&
		counts[domain.DeliveryFailed] == c.FailedCount &&
		counts[domain.DeliveryBounced] == c.BouncedCount &&
		total == c.RecipientCount
	if !reconciled {
		u.logger.Warn("campaign counters out of step with ledger",
			slog.String("campaign_id", id.String()),
			slog.Any("counts", counts))
	}
	return &port.CampaignStats{Campaign: *c, Counts: counts, Reconciled: reconciled}, nil
}

// transition reads the campaign, runs check and applies the move to `to`,
// re-reading when another writer changed the status in between.
func (u *CampaignUseCase) transition(ctx context.Context, id uuid.UUID, to domain.CampaignStatus, check func(*domain.Campaign) error, scheduledAt *time.Time) (*domain.Campaign, error) {
	for attempt := 0; attempt < maxTransitionAttempts; attempt++ {
		c, err := u.store.GetCampaign(ctx, id)
		if err != nil {
			return nil, err
		}
		if err = check(c); err != nil {
			return nil, err
		}
		err = u.store.TransitionCampaign(ctx, id, port.Transition{
			From:        c.Status,
			To:          to,
			At:          u.now(),
			ScheduledAt: scheduledAt,
		})
		if err == nil {
			c.Status = to
			return c, nil
		}
		if !errors.Is(err, domain.ErrStateConflict) {
			return nil, err
		}
	}
	return nil, domain.ErrStateConflict
}
