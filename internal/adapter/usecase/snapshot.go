package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"studio-campaigns/internal/core/domain"
	"studio-campaigns/internal/core/port"
)

// SnapshotBuilder freezes a campaign's audience into its delivery ledger.
type SnapshotBuilder struct {
	resolver port.RecipientResolver
	ledger   port.DeliveryLedger
}

func NewSnapshotBuilder(resolver port.RecipientResolver, ledger port.DeliveryLedger) *SnapshotBuilder {
	return &SnapshotBuilder{resolver: resolver, ledger: ledger}
}

// Resolve evaluates the filter without writing anything. It fails with
// domain.ErrNoRecipients when nobody matches.
func (b *SnapshotBuilder) Resolve(ctx context.Context, filter json.RawMessage) (domain.Snapshot, error) {
	resolved, err := b.resolver.ResolveRecipients(ctx, filter)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("resolve recipients: %w", err)
	}
	return domain.NewSnapshot(resolved)
}

// Build resolves the campaign's filter and stores one pending delivery per
// unique recipient. A campaign is snapshotted at most once.
func (b *SnapshotBuilder) Build(ctx context.Context, c *domain.Campaign, now time.Time) (int, error) {
	if c.Snapshotted() {
		return 0, domain.ErrAlreadySnapshotted
	}
	snap, err := b.Resolve(ctx, c.Filter)
	if err != nil {
		return 0, err
	}
	return b.ledger.SaveSnapshot(ctx, c.ID, snap.Recipients(), now)
}
