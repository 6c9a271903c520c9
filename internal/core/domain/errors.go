package domain

import (
	"errors"
	"fmt"
)

var (
	ErrCampaignNotFound     = errors.New("campaign not found")
	ErrNoRecipients         = errors.New("audience filter resolved to no recipients")
	ErrAlreadySnapshotted   = errors.New("campaign recipients already snapshotted")
	ErrAlreadyStarted       = errors.New("campaign already sending")
	ErrInvalidTransition    = errors.New("invalid campaign transition")
	ErrRetryBudgetExhausted = errors.New("campaign retry budget exhausted")
	ErrDeliveryNotClaimed   = errors.New("delivery is not claimed")
	ErrStateConflict        = errors.New("campaign state changed concurrently")
	ErrValidation           = errors.New("validation failed")
)

// TransitionError reports a rejected campaign status change. It matches
// ErrInvalidTransition with errors.Is.
type TransitionError struct {
	From CampaignStatus
	To   CampaignStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid campaign transition from %s to %s", e.From, e.To)
}

func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

// ValidationError wraps ErrValidation with a field level message.
func ValidationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
