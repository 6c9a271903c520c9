package port

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"studio-campaigns/internal/core/domain"
)

// CampaignUseCase is the control surface of the delivery engine used by the
// admin API.
type CampaignUseCase interface {
	// CreateCampaign stores a draft campaign.
	CreateCampaign(ctx context.Context, req CreateCampaignReq) (*domain.Campaign, error)
	// ScheduleCampaign moves a draft to scheduled after checking that the
	// filter currently resolves to at least one recipient.
	ScheduleCampaign(ctx context.Context, id uuid.UUID, at time.Time) (*domain.Campaign, error)
	// StartCampaign snapshots the recipients if needed and moves the
	// campaign to sending.
	StartCampaign(ctx context.Context, id uuid.UUID) error
	// CancelCampaign stops a draft, scheduled or sending campaign. Pending
	// deliveries are left unsent.
	CancelCampaign(ctx context.Context, id uuid.UUID) error
	// RetryFailed requeues failed deliveries immediately and returns how many
	// were requeued.
	RetryFailed(ctx context.Context, id uuid.UUID, opts RetryOptions) (int, error)
	GetCampaign(ctx context.Context, id uuid.UUID) (*domain.Campaign, error)
	ListCampaigns(ctx context.Context, q CampaignQuery) (*CampaignPage, error)
	ListDeliveries(ctx context.Context, id uuid.UUID, q DeliveryQuery) (*DeliveryPage, error)
	// CampaignStats reports the cached counters next to the ledger's actual
	// per-status counts.
	CampaignStats(ctx context.Context, id uuid.UUID) (*CampaignStats, error)
}

type CreateCampaignReq struct {
	Name        string
	TemplateRef string
	Filter      json.RawMessage
	MaxRetries  *int
	AutoRetry   bool
}

type CampaignPage struct {
	Campaigns []domain.Campaign
	Page      Page
	Total     int
}

type DeliveryPage struct {
	Deliveries []domain.Delivery
	Page       Page
	Total      int
}

// CampaignStats is the reconciliation view of one campaign. Reconciled
// holds when every cached counter equals the ledger count for its status.
type CampaignStats struct {
	Campaign   domain.Campaign
	Counts     map[domain.DeliveryStatus]int
	Reconciled bool
}
