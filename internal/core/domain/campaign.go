package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// CampaignStatus is the lifecycle state of a campaign.
type CampaignStatus string

const (
	CampaignDraft     CampaignStatus = "draft"
	CampaignScheduled CampaignStatus = "scheduled"
	CampaignSending   CampaignStatus = "sending"
	CampaignSent      CampaignStatus = "sent"
	CampaignFailed    CampaignStatus = "failed"
	CampaignCancelled CampaignStatus = "cancelled"
)

func (s CampaignStatus) String() string { return string(s) }

func (s CampaignStatus) IsValid() bool {
	switch s {
	case CampaignDraft, CampaignScheduled, CampaignSending, CampaignSent, CampaignFailed, CampaignCancelled:
		return true
	}
	return false
}

// SoftTerminal reports whether the campaign has no pending work right now
// but may still be reopened by a retry.
func (s CampaignStatus) SoftTerminal() bool {
	return s == CampaignSent || s == CampaignFailed
}

// Campaign represents a bulk email job. The Filter is an opaque audience
// specification handed to the recipient resolver. SentCount, FailedCount
// and BouncedCount are cached aggregates of the campaign's deliveries and
// are only ever changed in the same transaction as the delivery row.
type Campaign struct {
	ID             uuid.UUID
	Name           string
	TemplateRef    string
	Filter         json.RawMessage
	Status         CampaignStatus
	RecipientCount int
	SentCount      int
	FailedCount    int
	BouncedCount   int
	RetryCount     int
	MaxRetries     int
	AutoRetry      bool
	RetryAfter     *time.Time
	ScheduledAt    *time.Time
	SnapshotAt     *time.Time
	StartedAt      *time.Time
	CompletedAt    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Snapshotted reports whether the recipient set has been frozen.
func (c *Campaign) Snapshotted() bool {
	return c.SnapshotAt != nil
}

// RetryBudgetLeft reports whether another requeue of failed deliveries is allowed.
func (c *Campaign) RetryBudgetLeft() bool {
	return c.RetryCount < c.MaxRetries
}

// Outstanding returns the number of deliveries still pending or in flight.
func (c *Campaign) Outstanding() int {
	return c.RecipientCount - c.SentCount - c.FailedCount - c.BouncedCount
}
