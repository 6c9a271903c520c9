package domain

import (
	"time"

	"github.com/google/uuid"
)

// DeliveryStatus is the state of one recipient's send within a campaign.
type DeliveryStatus string

const (
	DeliveryPending DeliveryStatus = "pending"
	DeliverySending DeliveryStatus = "sending"
	DeliverySent    DeliveryStatus = "sent"
	DeliveryFailed  DeliveryStatus = "failed"
	DeliveryBounced DeliveryStatus = "bounced"
)

func (s DeliveryStatus) String() string { return string(s) }

func (s DeliveryStatus) IsValid() bool {
	switch s {
	case DeliveryPending, DeliverySending, DeliverySent, DeliveryFailed, DeliveryBounced:
		return true
	}
	return false
}

var deliveryTransitions = map[DeliveryStatus][]DeliveryStatus{
	DeliveryPending: {DeliverySending},
	// pending again when a claim is released or its lease expires
	DeliverySending: {DeliverySent, DeliveryFailed, DeliveryBounced, DeliveryPending},
	DeliveryFailed:  {DeliveryPending},
}

// CanTransitionTo reports whether a delivery row may move from s to next.
// Sent and bounced rows are final.
func (s DeliveryStatus) CanTransitionTo(next DeliveryStatus) bool {
	for _, allowed := range deliveryTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Delivery is the unit-of-work record for one recipient of a campaign. There
// is at most one delivery per (campaign, recipient email).
type Delivery struct {
	ID           uuid.UUID
	CampaignID   uuid.UUID
	Recipient    Recipient
	Status       DeliveryStatus
	ErrorMessage string
	ErrorClass   FailureClass
	Attempts     int
	ClaimedAt    *time.Time
	SentAt       *time.Time
	FailedAt     *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
