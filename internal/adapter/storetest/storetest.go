// Package storetest holds the behavioural suite every port.Store
// implementation must pass.
package storetest

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studio-campaigns/internal/core/domain"
	"studio-campaigns/internal/core/port"
)

// Factory returns an empty store for one subtest.
type Factory func(t *testing.T) port.Store

var base = time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)

// Run executes the suite against stores built by newStore.
func Run(t *testing.T, newStore Factory) {
	tests := []struct {
		name string
		fn   func(t *testing.T, s port.Store)
	}{
		{"CampaignCRUD", testCampaignCRUD},
		{"TransitionCompareAndSet", testTransitionCompareAndSet},
		{"SnapshotOnce", testSnapshotOnce},
		{"ClaimIsExclusive", testClaimIsExclusive},
		{"CancelStopsClaims", testCancelStopsClaims},
		{"CountersReconcile", testCountersReconcile},
		{"CompleteIfDrained", testCompleteIfDrained},
		{"RequeueFailed", testRequeueFailed},
		{"ReleaseAndRecover", testReleaseAndRecover},
		{"ListDeliveries", testListDeliveries},
		{"DueQueries", testDueQueries},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.fn(t, newStore(t))
		})
	}
}

func recipients(n int) []domain.Recipient {
	out := make([]domain.Recipient, n)
	for i := range out {
		out[i] = domain.Recipient{
			Email:  fmt.Sprintf("member%03d@example.com", i),
			Name:   fmt.Sprintf("Member %d", i),
			UserID: fmt.Sprintf("u%d", i),
		}
	}
	return out
}

func newCampaign(t *testing.T, s port.Store, maxRetries int, autoRetry bool) *domain.Campaign {
	t.Helper()
	c := &domain.Campaign{
		Name:        "Spring timetable",
		TemplateRef: "timetable",
		Filter:      json.RawMessage(`{"all":true}`),
		MaxRetries:  maxRetries,
		AutoRetry:   autoRetry,
		CreatedAt:   base,
	}
	require.NoError(t, s.CreateCampaign(context.Background(), c))
	return c
}

// newSending creates a campaign with n snapshotted recipients in sending.
func newSending(t *testing.T, s port.Store, n, maxRetries int, autoRetry bool) *domain.Campaign {
	t.Helper()
	ctx := context.Background()
	c := newCampaign(t, s, maxRetries, autoRetry)
	saved, err := s.SaveSnapshot(ctx, c.ID, recipients(n), base)
	require.NoError(t, err)
	require.Equal(t, n, saved)
	require.NoError(t, s.TransitionCampaign(ctx, c.ID, port.Transition{
		From: domain.CampaignDraft, To: domain.CampaignSending, At: base,
	}))
	return c
}

func get(t *testing.T, s port.Store, id uuid.UUID) *domain.Campaign {
	t.Helper()
	c, err := s.GetCampaign(context.Background(), id)
	require.NoError(t, err)
	return c
}

func claimAll(t *testing.T, s port.Store, id uuid.UUID) []domain.Delivery {
	t.Helper()
	claimed, err := s.ClaimBatch(context.Background(), id, 1000, base)
	require.NoError(t, err)
	return claimed
}

func assertReconciled(t *testing.T, s port.Store, id uuid.UUID) {
	t.Helper()
	c := get(t, s, id)
	counts, err := s.CountDeliveries(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, counts[domain.DeliverySent], c.SentCount, "sent")
	assert.Equal(t, counts[domain.DeliveryFailed], c.FailedCount, "failed")
	assert.Equal(t, counts[domain.DeliveryBounced], c.BouncedCount, "bounced")
	total := 0
	for _, n := range counts {
		total += n
	}
	assert.Equal(t, c.RecipientCount, total, "recipient count")
}

func testCampaignCRUD(t *testing.T, s port.Store) {
	ctx := context.Background()
	c := newCampaign(t, s, 3, true)

	got := get(t, s, c.ID)
	assert.Equal(t, "Spring timetable", got.Name)
	assert.Equal(t, domain.CampaignDraft, got.Status)
	assert.Equal(t, 3, got.MaxRetries)
	assert.True(t, got.AutoRetry)
	assert.JSONEq(t, `{"all":true}`, string(got.Filter))
	assert.False(t, got.Snapshotted())

	_, err := s.GetCampaign(ctx, uuid.New())
	require.ErrorIs(t, err, domain.ErrCampaignNotFound)

	other := newCampaign(t, s, 0, false)
	require.NoError(t, s.TransitionCampaign(ctx, other.ID, port.Transition{
		From: domain.CampaignDraft, To: domain.CampaignCancelled, At: base,
	}))

	draft := domain.CampaignDraft
	list, total, err := s.ListCampaigns(ctx, port.CampaignQuery{Status: &draft, Page: port.Page{Number: 1, PerPage: 10}})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, list, 1)
	assert.Equal(t, c.ID, list[0].ID)

	_, total, err = s.ListCampaigns(ctx, port.CampaignQuery{})
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	ids, err := s.ListCampaignIDs(ctx, domain.CampaignCancelled)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{other.ID}, ids)

	require.NoError(t, s.UpdateRetryPolicy(ctx, other.ID, port.RetryOptions{AutoRetry: true, MaxRetries: 5}, base))
	got = get(t, s, other.ID)
	assert.True(t, got.AutoRetry)
	assert.Equal(t, 5, got.MaxRetries)
	require.ErrorIs(t, s.UpdateRetryPolicy(ctx, uuid.New(), port.RetryOptions{}, base), domain.ErrCampaignNotFound)
}

func testTransitionCompareAndSet(t *testing.T, s port.Store) {
	ctx := context.Background()
	c := newCampaign(t, s, 0, false)
	at := base.Add(time.Hour)

	require.NoError(t, s.TransitionCampaign(ctx, c.ID, port.Transition{
		From: domain.CampaignDraft, To: domain.CampaignScheduled, At: base, ScheduledAt: &at,
	}))
	got := get(t, s, c.ID)
	assert.Equal(t, domain.CampaignScheduled, got.Status)
	require.NotNil(t, got.ScheduledAt)
	assert.WithinDuration(t, at, *got.ScheduledAt, time.Millisecond)

	err := s.TransitionCampaign(ctx, c.ID, port.Transition{From: domain.CampaignDraft, To: domain.CampaignSending, At: base})
	require.ErrorIs(t, err, domain.ErrStateConflict)

	err = s.TransitionCampaign(ctx, c.ID, port.Transition{From: domain.CampaignScheduled, To: domain.CampaignSent, At: base})
	require.ErrorIs(t, err, domain.ErrInvalidTransition)

	err = s.TransitionCampaign(ctx, uuid.New(), port.Transition{From: domain.CampaignDraft, To: domain.CampaignSending, At: base})
	require.ErrorIs(t, err, domain.ErrCampaignNotFound)

	require.NoError(t, s.TransitionCampaign(ctx, c.ID, port.Transition{From: domain.CampaignScheduled, To: domain.CampaignCancelled, At: at}))
	got = get(t, s, c.ID)
	assert.Equal(t, domain.CampaignCancelled, got.Status)
	require.NotNil(t, got.CompletedAt)
}

func testSnapshotOnce(t *testing.T, s port.Store) {
	ctx := context.Background()
	c := newCampaign(t, s, 0, false)

	_, err := s.SaveSnapshot(ctx, c.ID, nil, base)
	require.ErrorIs(t, err, domain.ErrNoRecipients)

	n, err := s.SaveSnapshot(ctx, c.ID, recipients(5), base)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	_, err = s.SaveSnapshot(ctx, c.ID, recipients(8), base)
	require.ErrorIs(t, err, domain.ErrAlreadySnapshotted)

	got := get(t, s, c.ID)
	assert.Equal(t, 5, got.RecipientCount)
	assert.True(t, got.Snapshotted())

	counts, err := s.CountDeliveries(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, map[domain.DeliveryStatus]int{domain.DeliveryPending: 5}, counts)

	_, err = s.SaveSnapshot(ctx, uuid.New(), recipients(1), base)
	require.ErrorIs(t, err, domain.ErrCampaignNotFound)
}

func testClaimIsExclusive(t *testing.T, s port.Store) {
	const rows, claimers, batch = 60, 8, 7
	c := newSending(t, s, rows, 0, false)

	var (
		mu   sync.Mutex
		seen = make(map[uuid.UUID]int)
		wg   sync.WaitGroup
	)
	for i := 0; i < claimers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				claimed, err := s.ClaimBatch(context.Background(), c.ID, batch, base)
				if !assert.NoError(t, err) || len(claimed) == 0 {
					return
				}
				mu.Lock()
				for _, d := range claimed {
					seen[d.ID]++
				}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, rows)
	for id, n := range seen {
		assert.Equal(t, 1, n, "delivery %s claimed %d times", id, n)
	}
	counts, err := s.CountDeliveries(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, rows, counts[domain.DeliverySending])
}

func testCancelStopsClaims(t *testing.T, s port.Store) {
	ctx := context.Background()
	c := newSending(t, s, 10, 0, false)

	first, err := s.ClaimBatch(ctx, c.ID, 4, base)
	require.NoError(t, err)
	require.Len(t, first, 4)
	for _, d := range first {
		assert.Equal(t, domain.DeliverySending, d.Status)
		assert.Equal(t, 1, d.Attempts)
		assert.NotNil(t, d.ClaimedAt)
	}

	require.NoError(t, s.TransitionCampaign(ctx, c.ID, port.Transition{
		From: domain.CampaignSending, To: domain.CampaignCancelled, At: base,
	}))
	after, err := s.ClaimBatch(ctx, c.ID, 4, base)
	require.NoError(t, err)
	assert.Empty(t, after)

	// in-flight results still land
	require.NoError(t, s.MarkSent(ctx, first[0].ID, base))
	assert.Equal(t, 1, get(t, s, c.ID).SentCount)
}

func testCountersReconcile(t *testing.T, s port.Store) {
	ctx := context.Background()
	c := newSending(t, s, 9, 0, false)
	claimed := claimAll(t, s, c.ID)
	require.Len(t, claimed, 9)

	for i, d := range claimed {
		switch i % 3 {
		case 0:
			require.NoError(t, s.MarkSent(ctx, d.ID, base))
		case 1:
			require.NoError(t, s.MarkFailed(ctx, d.ID, "421 try later", domain.FailureTransient, base))
		case 2:
			require.NoError(t, s.MarkBounced(ctx, d.ID, "550 no such user", base))
		}
	}
	got := get(t, s, c.ID)
	assert.Equal(t, 3, got.SentCount)
	assert.Equal(t, 3, got.FailedCount)
	assert.Equal(t, 3, got.BouncedCount)
	assert.Zero(t, got.Outstanding())
	assertReconciled(t, s, c.ID)

	require.ErrorIs(t, s.MarkSent(ctx, claimed[0].ID, base), domain.ErrDeliveryNotClaimed)
	require.ErrorIs(t, s.MarkFailed(ctx, claimed[2].ID, "x", domain.FailureTransient, base), domain.ErrDeliveryNotClaimed)
	require.ErrorIs(t, s.MarkBounced(ctx, uuid.New(), "x", base), domain.ErrDeliveryNotClaimed)
	assertReconciled(t, s, c.ID)

	failed := domain.DeliveryFailed
	rows, _, err := s.ListDeliveries(ctx, c.ID, port.DeliveryQuery{Status: &failed})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "421 try later", rows[0].ErrorMessage)
	assert.Equal(t, domain.FailureTransient, rows[0].ErrorClass)
	assert.NotNil(t, rows[0].FailedAt)
}

func testCompleteIfDrained(t *testing.T, s port.Store) {
	ctx := context.Background()
	cooldown := 2 * time.Hour

	clean := newSending(t, s, 2, 3, true)
	_, done, err := s.CompleteIfDrained(ctx, clean.ID, base, cooldown)
	require.NoError(t, err)
	assert.False(t, done, "pending rows keep the campaign open")

	claimed := claimAll(t, s, clean.ID)
	require.NoError(t, s.MarkSent(ctx, claimed[0].ID, base))
	_, done, err = s.CompleteIfDrained(ctx, clean.ID, base, cooldown)
	require.NoError(t, err)
	assert.False(t, done, "in-flight rows keep the campaign open")

	require.NoError(t, s.MarkBounced(ctx, claimed[1].ID, "550", base))
	status, done, err := s.CompleteIfDrained(ctx, clean.ID, base, cooldown)
	require.NoError(t, err)
	assert.True(t, done)
	assert.Equal(t, domain.CampaignSent, status, "bounces alone do not fail a campaign")
	got := get(t, s, clean.ID)
	assert.Nil(t, got.RetryAfter)
	assert.NotNil(t, got.CompletedAt)

	_, done, err = s.CompleteIfDrained(ctx, clean.ID, base, cooldown)
	require.NoError(t, err)
	assert.False(t, done, "already complete")

	dirty := newSending(t, s, 1, 3, true)
	claimed = claimAll(t, s, dirty.ID)
	require.NoError(t, s.MarkFailed(ctx, claimed[0].ID, "timeout", domain.FailureTransient, base))
	status, done, err = s.CompleteIfDrained(ctx, dirty.ID, base, cooldown)
	require.NoError(t, err)
	assert.True(t, done)
	assert.Equal(t, domain.CampaignFailed, status)
	got = get(t, s, dirty.ID)
	require.NotNil(t, got.RetryAfter)
	assert.WithinDuration(t, base.Add(cooldown), *got.RetryAfter, time.Millisecond)
}

func testRequeueFailed(t *testing.T, s port.Store) {
	ctx := context.Background()
	c := newSending(t, s, 4, 1, false)

	_, err := s.RequeueFailed(ctx, c.ID, 0, base)
	var te *domain.TransitionError
	require.ErrorAs(t, err, &te, "sending campaigns cannot be requeued")

	claimed := claimAll(t, s, c.ID)
	require.NoError(t, s.MarkSent(ctx, claimed[0].ID, base))
	require.NoError(t, s.MarkFailed(ctx, claimed[1].ID, "timeout", domain.FailureTransient, base))
	require.NoError(t, s.MarkFailed(ctx, claimed[2].ID, "timeout", domain.FailureTransient, base))
	require.NoError(t, s.MarkBounced(ctx, claimed[3].ID, "550", base))
	_, _, err = s.CompleteIfDrained(ctx, c.ID, base, time.Hour)
	require.NoError(t, err)

	n, err := s.RequeueFailed(ctx, c.ID, 0, base)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	got := get(t, s, c.ID)
	assert.Equal(t, domain.CampaignSending, got.Status)
	assert.Equal(t, 0, got.FailedCount)
	assert.Equal(t, 1, got.BouncedCount)
	assert.Equal(t, 1, got.RetryCount)
	assert.Nil(t, got.CompletedAt)
	assertReconciled(t, s, c.ID)

	pending := domain.DeliveryPending
	requeued, _, err := s.ListDeliveries(ctx, c.ID, port.DeliveryQuery{Status: &pending})
	require.NoError(t, err)
	require.Len(t, requeued, 2)
	for _, d := range requeued {
		assert.Empty(t, d.ErrorMessage)
		assert.Empty(t, d.ErrorClass)
	}

	again := claimAll(t, s, c.ID)
	require.Len(t, again, 2, "bounced rows stay out")
	for _, d := range again {
		assert.Equal(t, 2, d.Attempts)
		require.NoError(t, s.MarkFailed(ctx, d.ID, "timeout", domain.FailureTransient, base))
	}
	status, _, err := s.CompleteIfDrained(ctx, c.ID, base, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, domain.CampaignFailed, status)

	_, err = s.RequeueFailed(ctx, c.ID, 0, base)
	require.ErrorIs(t, err, domain.ErrRetryBudgetExhausted)
	got = get(t, s, c.ID)
	assert.Equal(t, domain.CampaignFailed, got.Status)
	assert.Equal(t, 2, got.FailedCount)

	_, err = s.RequeueFailed(ctx, uuid.New(), 0, base)
	require.ErrorIs(t, err, domain.ErrCampaignNotFound)
}

func testReleaseAndRecover(t *testing.T, s port.Store) {
	ctx := context.Background()
	c := newSending(t, s, 5, 3, false)

	claimed, err := s.ClaimBatch(ctx, c.ID, 3, base)
	require.NoError(t, err)
	require.Len(t, claimed, 3)
	ids := []uuid.UUID{claimed[0].ID, claimed[1].ID}
	require.NoError(t, s.MarkSent(ctx, claimed[2].ID, base))

	n, err := s.ReleaseClaimed(ctx, append(ids, claimed[2].ID), base)
	require.NoError(t, err)
	assert.Equal(t, 2, n, "finished rows are not released")

	pending := domain.DeliveryPending
	rows, total, err := s.ListDeliveries(ctx, c.ID, port.DeliveryQuery{Status: &pending})
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	for _, d := range rows {
		assert.Zero(t, d.Attempts, "released claims give the attempt back")
		assert.Nil(t, d.ClaimedAt)
	}

	claimed = claimAll(t, s, c.ID)
	require.Len(t, claimed, 4)
	n, err = s.RecoverStale(ctx, base, base)
	require.NoError(t, err)
	assert.Zero(t, n, "claims at the cutoff are still leased")

	n, err = s.RecoverStale(ctx, base.Add(time.Minute), base.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, 1, get(t, s, c.ID).SentCount)
	assertReconciled(t, s, c.ID)
}

func testListDeliveries(t *testing.T, s port.Store) {
	ctx := context.Background()
	c := newSending(t, s, 25, 0, false)

	page1, total, err := s.ListDeliveries(ctx, c.ID, port.DeliveryQuery{Page: port.Page{Number: 1, PerPage: 10}})
	require.NoError(t, err)
	assert.Equal(t, 25, total)
	assert.Len(t, page1, 10)

	page3, _, err := s.ListDeliveries(ctx, c.ID, port.DeliveryQuery{Page: port.Page{Number: 3, PerPage: 10}})
	require.NoError(t, err)
	assert.Len(t, page3, 5)
	assert.NotEqual(t, page1[0].ID, page3[0].ID)

	emails := make(map[string]bool)
	for _, d := range page1 {
		emails[d.Recipient.Email] = true
		assert.Equal(t, c.ID, d.CampaignID)
	}
	assert.Len(t, emails, 10)
}

func testDueQueries(t *testing.T, s port.Store) {
	ctx := context.Background()

	due := newCampaign(t, s, 0, false)
	later := newCampaign(t, s, 0, false)
	for id, at := range map[uuid.UUID]time.Time{due.ID: base.Add(-time.Minute), later.ID: base.Add(time.Hour)} {
		at := at
		require.NoError(t, s.TransitionCampaign(ctx, id, port.Transition{
			From: domain.CampaignDraft, To: domain.CampaignScheduled, At: base, ScheduledAt: &at,
		}))
	}
	ids, err := s.ListScheduledDue(ctx, base, 10)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{due.ID}, ids)

	c := newSending(t, s, 1, 2, true)
	claimed := claimAll(t, s, c.ID)
	require.NoError(t, s.MarkFailed(ctx, claimed[0].ID, "timeout", domain.FailureTransient, base))
	_, _, err = s.CompleteIfDrained(ctx, c.ID, base, time.Hour)
	require.NoError(t, err)

	ids, err = s.ListRetryDue(ctx, base.Add(30*time.Minute), 10)
	require.NoError(t, err)
	assert.Empty(t, ids, "cooldown not elapsed")

	ids, err = s.ListRetryDue(ctx, base.Add(time.Hour), 10)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{c.ID}, ids)
}
