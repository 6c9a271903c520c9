package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCampaignTransitions(t *testing.T) {
	tests := []struct {
		from, to CampaignStatus
		ok       bool
	}{
		{CampaignDraft, CampaignScheduled, true},
		{CampaignDraft, CampaignSending, true},
		{CampaignDraft, CampaignCancelled, true},
		{CampaignScheduled, CampaignSending, true},
		{CampaignScheduled, CampaignCancelled, true},
		{CampaignSending, CampaignSent, true},
		{CampaignSending, CampaignFailed, true},
		{CampaignSending, CampaignCancelled, true},
		{CampaignSent, CampaignSending, true},
		{CampaignFailed, CampaignSending, true},
		{CampaignDraft, CampaignSent, false},
		{CampaignScheduled, CampaignDraft, false},
		{CampaignSent, CampaignCancelled, false},
		{CampaignFailed, CampaignSent, false},
		{CampaignCancelled, CampaignSending, false},
		{CampaignCancelled, CampaignDraft, false},
	}
	for _, tc := range tests {
		t.Run(string(tc.from)+"->"+string(tc.to), func(t *testing.T) {
			err := CheckTransition(tc.from, tc.to)
			if tc.ok {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrInvalidTransition)
			var te *TransitionError
			require.True(t, errors.As(err, &te))
			assert.Equal(t, tc.from, te.From)
			assert.Equal(t, tc.to, te.To)
			assert.Contains(t, err.Error(), string(tc.from))
			assert.Contains(t, err.Error(), string(tc.to))
		})
	}
}

func TestCheckStart(t *testing.T) {
	assert.NoError(t, CheckStart(&Campaign{Status: CampaignDraft}))
	assert.NoError(t, CheckStart(&Campaign{Status: CampaignScheduled}))
	assert.ErrorIs(t, CheckStart(&Campaign{Status: CampaignSending}), ErrAlreadyStarted)
	assert.ErrorIs(t, CheckStart(&Campaign{Status: CampaignSent}), ErrInvalidTransition)
	assert.ErrorIs(t, CheckStart(&Campaign{Status: CampaignCancelled}), ErrInvalidTransition)
}

func TestCheckReopen(t *testing.T) {
	assert.NoError(t, CheckReopen(&Campaign{Status: CampaignFailed, MaxRetries: 1}))
	assert.ErrorIs(t, CheckReopen(&Campaign{Status: CampaignFailed, RetryCount: 2, MaxRetries: 2}), ErrRetryBudgetExhausted)
	assert.ErrorIs(t, CheckReopen(&Campaign{Status: CampaignCancelled, MaxRetries: 3}), ErrInvalidTransition)
	assert.ErrorIs(t, CheckReopen(&Campaign{Status: CampaignSending, MaxRetries: 3}), ErrInvalidTransition)
}

func TestDeliveryTransitions(t *testing.T) {
	assert.True(t, DeliveryPending.CanTransitionTo(DeliverySending))
	assert.True(t, DeliverySending.CanTransitionTo(DeliverySent))
	assert.True(t, DeliverySending.CanTransitionTo(DeliveryPending))
	assert.True(t, DeliveryFailed.CanTransitionTo(DeliveryPending))
	assert.False(t, DeliveryBounced.CanTransitionTo(DeliveryPending))
	assert.False(t, DeliverySent.CanTransitionTo(DeliveryPending))
	assert.False(t, DeliveryPending.CanTransitionTo(DeliverySent))
}

func TestCampaignOutstanding(t *testing.T) {
	c := Campaign{RecipientCount: 10, SentCount: 4, FailedCount: 2, BouncedCount: 1}
	assert.Equal(t, 3, c.Outstanding())
}
