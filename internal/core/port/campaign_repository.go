package port

import (
	"context"
	"time"

	"github.com/google/uuid"

	"studio-campaigns/internal/core/domain"
)

// CampaignRepository persists campaign rows. Status changes are
// compare-and-set: implementations return domain.ErrStateConflict when the
// stored status no longer equals Transition.From.
type CampaignRepository interface {
	// CreateCampaign stores a new campaign and fills in its timestamps.
	CreateCampaign(ctx context.Context, c *domain.Campaign) error
	// GetCampaign returns domain.ErrCampaignNotFound for unknown ids.
	GetCampaign(ctx context.Context, id uuid.UUID) (*domain.Campaign, error)
	// ListCampaigns returns one page of campaigns, newest first, and the
	// total number matching the query.
	ListCampaigns(ctx context.Context, q CampaignQuery) ([]domain.Campaign, int, error)
	// ListCampaignIDs returns the ids of all campaigns in status.
	ListCampaignIDs(ctx context.Context, status domain.CampaignStatus) ([]uuid.UUID, error)
	// ListScheduledDue returns scheduled campaigns whose start time has passed.
	ListScheduledDue(ctx context.Context, now time.Time, limit int) ([]uuid.UUID, error)
	// ListRetryDue returns failed campaigns with auto retry enabled, budget
	// left and an elapsed retry_after.
	ListRetryDue(ctx context.Context, now time.Time, limit int) ([]uuid.UUID, error)
	// TransitionCampaign applies a guarded status change.
	TransitionCampaign(ctx context.Context, id uuid.UUID, t Transition) error
	// UpdateRetryPolicy changes auto retry and, when MaxRetries > 0, the
	// retry budget.
	UpdateRetryPolicy(ctx context.Context, id uuid.UUID, opts RetryOptions, now time.Time) error
	// CompleteIfDrained moves a sending campaign to sent or failed when none
	// of its deliveries are pending or in flight. A failed campaign with
	// auto retry and budget left gets retry_after = now + cooldown. The
	// returned bool is false when nothing changed.
	CompleteIfDrained(ctx context.Context, id uuid.UUID, now time.Time, cooldown time.Duration) (domain.CampaignStatus, bool, error)
}

// DeliveryLedger persists the per-recipient delivery rows. Every terminal
// write increments the parent campaign's counter in the same transaction.
type DeliveryLedger interface {
	// SaveSnapshot creates one pending delivery per recipient and freezes
	// recipient_count. It fails with domain.ErrAlreadySnapshotted when the
	// campaign already has a snapshot.
	SaveSnapshot(ctx context.Context, campaignID uuid.UUID, recipients []domain.Recipient, now time.Time) (int, error)
	// ClaimBatch atomically moves up to limit pending rows of a sending
	// campaign to sending. A row is never returned to two callers.
	ClaimBatch(ctx context.Context, campaignID uuid.UUID, limit int, now time.Time) ([]domain.Delivery, error)
	// MarkSent, MarkFailed and MarkBounced finish a claimed row. They return
	// domain.ErrDeliveryNotClaimed when the row is not in sending.
	MarkSent(ctx context.Context, deliveryID uuid.UUID, sentAt time.Time) error
	MarkFailed(ctx context.Context, deliveryID uuid.UUID, message string, class domain.FailureClass, failedAt time.Time) error
	MarkBounced(ctx context.Context, deliveryID uuid.UUID, message string, at time.Time) error
	// ReleaseClaimed returns claimed rows to pending without touching
	// counters or attempts budget.
	ReleaseClaimed(ctx context.Context, deliveryIDs []uuid.UUID, now time.Time) (int, error)
	// RecoverStale returns rows claimed before claimedBefore to pending.
	RecoverStale(ctx context.Context, claimedBefore time.Time, now time.Time) (int, error)
	// RequeueFailed moves up to limit failed rows (all when limit <= 0) back
	// to pending, spends one unit of retry budget and reopens the campaign
	// in sending. It returns domain.ErrRetryBudgetExhausted when the budget
	// is spent and a *domain.TransitionError when the campaign is not soft
	// terminal. When no row is failed nothing changes and 0 is returned.
	RequeueFailed(ctx context.Context, campaignID uuid.UUID, limit int, now time.Time) (int, error)
	// ListDeliveries returns one page of a campaign's deliveries.
	ListDeliveries(ctx context.Context, campaignID uuid.UUID, q DeliveryQuery) ([]domain.Delivery, int, error)
	// CountDeliveries counts a campaign's deliveries per status.
	CountDeliveries(ctx context.Context, campaignID uuid.UUID) (map[domain.DeliveryStatus]int, error)
}

// Store is the full persistence port of the delivery engine.
type Store interface {
	CampaignRepository
	DeliveryLedger
}

// Transition is a guarded campaign status change. ScheduledAt is written
// when moving to scheduled.
type Transition struct {
	From        domain.CampaignStatus
	To          domain.CampaignStatus
	At          time.Time
	ScheduledAt *time.Time
}

// RetryOptions adjusts a campaign's retry policy. AutoRetry only ever
// enables automatic retries; a zero MaxRetries keeps the current budget.
type RetryOptions struct {
	AutoRetry  bool
	MaxRetries int
}

type CampaignQuery struct {
	Status *domain.CampaignStatus
	Page   Page
}

type DeliveryQuery struct {
	Status *domain.DeliveryStatus
	Page   Page
}
