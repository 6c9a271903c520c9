package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"studio-campaigns/internal/core/domain"
	"studio-campaigns/internal/core/port"
)

// SaveSnapshot copies the recipient list into pending deliveries and
// freezes recipient_count in one transaction.
func (s *Store) SaveSnapshot(ctx context.Context, campaignID uuid.UUID, recipients []domain.Recipient, now time.Time) (int, error) {
	if len(recipients) == 0 {
		return 0, domain.ErrNoRecipients
	}
	now = utc(now)
	var n int64
	err := pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		var (
			status     domain.CampaignStatus
			snapshotAt *time.Time
		)
		err := tx.QueryRow(ctx, `SELECT status, snapshot_at FROM campaigns WHERE id = $1 FOR UPDATE`, campaignID).
			Scan(&status, &snapshotAt)
		if err != nil {
			return notFoundOr(err)
		}
		if snapshotAt != nil {
			return domain.ErrAlreadySnapshotted
		}
		if status != domain.CampaignDraft && status != domain.CampaignScheduled {
			return &domain.TransitionError{From: status, To: domain.CampaignSending}
		}

		campaign := pgtype.UUID{Bytes: [16]byte(campaignID), Valid: true}
		n, err = tx.CopyFrom(ctx,
			pgx.Identifier{"deliveries"},
			[]string{"id", "campaign_id", "email", "name", "user_id", "status", "attempts", "created_at", "updated_at"},
			pgx.CopyFromSlice(len(recipients), func(i int) ([]any, error) {
				r := recipients[i]
				return []any{
					pgtype.UUID{Bytes: [16]byte(uuid.New()), Valid: true},
					campaign,
					r.Email,
					r.Name,
					r.UserID,
					string(domain.DeliveryPending),
					0,
					now,
					now,
				}, nil
			}),
		)
		if err != nil {
			return fmt.Errorf("copy deliveries: %w", err)
		}

		_, err = tx.Exec(ctx, `UPDATE campaigns SET recipient_count = $2, snapshot_at = $3, updated_at = $3 WHERE id = $1`,
			campaignID, n, now)
		return err
	})
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// ClaimBatch moves up to limit pending deliveries of a sending campaign to
// sending. Rows locked by a concurrent claimer are skipped, never shared.
func (s *Store) ClaimBatch(ctx context.Context, campaignID uuid.UUID, limit int, now time.Time) ([]domain.Delivery, error) {
	rows, err := s.pool.Query(ctx, `UPDATE deliveries d SET
    status     = 'sending',
    claimed_at = $3,
    attempts   = d.attempts + 1,
    updated_at = $3
WHERE d.status = 'pending' AND d.id IN (
    SELECT p.id FROM deliveries p
    JOIN campaigns c ON c.id = p.campaign_id
    WHERE p.campaign_id = $1 AND p.status = 'pending' AND c.status = 'sending'
    ORDER BY p.created_at, p.id
    LIMIT $2
    FOR UPDATE OF p SKIP LOCKED
)
RETURNING `+prefixed("d", deliveryColumns), campaignID, limit, utc(now))
	if err != nil {
		return nil, fmt.Errorf("claim deliveries: %w", err)
	}
	claimed, err := pgx.CollectRows(rows, scanDelivery)
	if err != nil {
		return nil, fmt.Errorf("claim deliveries: %w", err)
	}
	return claimed, nil
}

// finish moves a claimed delivery to a final status and bumps the matching
// campaign counter in the same transaction.
func (s *Store) finish(ctx context.Context, deliveryID uuid.UUID, status domain.DeliveryStatus, message *string, class *domain.FailureClass, at time.Time) error {
	counter, ok := counterColumns[status]
	if !ok {
		return fmt.Errorf("no counter for delivery status %s", status)
	}
	at = utc(at)
	var cls *string
	if class != nil {
		v := string(*class)
		cls = &v
	}
	return pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		var campaignID uuid.UUID
		err := tx.QueryRow(ctx, `UPDATE deliveries SET
    status        = $2,
    error_message = $3,
    error_class   = $4,
    sent_at       = CASE WHEN $2::text = 'sent' THEN $5 ELSE sent_at END,
    failed_at     = CASE WHEN $2::text <> 'sent' THEN $5 ELSE failed_at END,
    updated_at    = $5
WHERE id = $1 AND status = 'sending'
RETURNING campaign_id`, deliveryID, status.String(), message, cls, at).Scan(&campaignID)
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrDeliveryNotClaimed
		}
		if err != nil {
			return fmt.Errorf("finish delivery: %w", err)
		}
		_, err = tx.Exec(ctx, `UPDATE campaigns SET `+counter+` = `+counter+` + 1, updated_at = $2 WHERE id = $1`, campaignID, at)
		return err
	})
}

var counterColumns = map[domain.DeliveryStatus]string{
	domain.DeliverySent:    "sent_count",
	domain.DeliveryFailed:  "failed_count",
	domain.DeliveryBounced: "bounced_count",
}

func (s *Store) MarkSent(ctx context.Context, deliveryID uuid.UUID, sentAt time.Time) error {
	return s.finish(ctx, deliveryID, domain.DeliverySent, nil, nil, sentAt)
}

func (s *Store) MarkFailed(ctx context.Context, deliveryID uuid.UUID, message string, class domain.FailureClass, failedAt time.Time) error {
	return s.finish(ctx, deliveryID, domain.DeliveryFailed, &message, &class, failedAt)
}

func (s *Store) MarkBounced(ctx context.Context, deliveryID uuid.UUID, message string, at time.Time) error {
	class := domain.FailurePermanent
	return s.finish(ctx, deliveryID, domain.DeliveryBounced, &message, &class, at)
}

// ReleaseClaimed hands claimed rows back to pending and refunds the attempt
// taken by the claim.
func (s *Store) ReleaseClaimed(ctx context.Context, deliveryIDs []uuid.UUID, now time.Time) (int, error) {
	if len(deliveryIDs) == 0 {
		return 0, nil
	}
	tag, err := s.pool.Exec(ctx, `UPDATE deliveries SET
    status     = 'pending',
    claimed_at = NULL,
    attempts   = GREATEST(attempts - 1, 0),
    updated_at = $2
WHERE id = ANY($1::uuid[]) AND status = 'sending'`, uuidStrings(deliveryIDs), utc(now))
	if err != nil {
		return 0, fmt.Errorf("release deliveries: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// RecoverStale returns abandoned claims to pending. The attempt is kept
// since the send may have reached the provider.
func (s *Store) RecoverStale(ctx context.Context, claimedBefore time.Time, now time.Time) (int, error) {
	tag, err := s.pool.Exec(ctx, `UPDATE deliveries SET status = 'pending', claimed_at = NULL, updated_at = $2
WHERE status = 'sending' AND claimed_at < $1`, utc(claimedBefore), utc(now))
	if err != nil {
		return 0, fmt.Errorf("recover stale deliveries: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// RequeueFailed reopens a soft terminal campaign with its failed rows back
// in pending. Bounced rows are left alone.
func (s *Store) RequeueFailed(ctx context.Context, campaignID uuid.UUID, limit int, now time.Time) (int, error) {
	now = utc(now)
	var lim *int
	if limit > 0 {
		lim = &limit
	}
	var n int64
	err := pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		var c domain.Campaign
		err := tx.QueryRow(ctx, `SELECT status, retry_count, max_retries FROM campaigns WHERE id = $1 FOR UPDATE`, campaignID).
			Scan(&c.Status, &c.RetryCount, &c.MaxRetries)
		if err != nil {
			return notFoundOr(err)
		}
		if err = domain.CheckReopen(&c); err != nil {
			return err
		}

		tag, err := tx.Exec(ctx, `UPDATE deliveries SET status = 'pending', claimed_at = NULL, error_message = NULL, error_class = NULL, updated_at = $3
WHERE id IN (
    SELECT id FROM deliveries
    WHERE campaign_id = $1 AND status = 'failed'
    ORDER BY failed_at, id
    LIMIT $2
)`, campaignID, lim, now)
		if err != nil {
			return fmt.Errorf("requeue deliveries: %w", err)
		}
		n = tag.RowsAffected()
		if n == 0 {
			return nil
		}

		_, err = tx.Exec(ctx, `UPDATE campaigns SET
    status       = 'sending',
    failed_count = failed_count - $2,
    retry_count  = retry_count + 1,
    retry_after  = NULL,
    completed_at = NULL,
    updated_at   = $3
WHERE id = $1`, campaignID, n, now)
		return err
	})
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func (s *Store) ListDeliveries(ctx context.Context, campaignID uuid.UUID, q port.DeliveryQuery) ([]domain.Delivery, int, error) {
	var status *string
	if q.Status != nil {
		v := q.Status.String()
		status = &v
	}

	var total int
	err := s.pool.QueryRow(ctx, `SELECT count(*) FROM deliveries WHERE campaign_id = $1 AND ($2::text IS NULL OR status = $2)`,
		campaignID, status).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count deliveries: %w", err)
	}

	rows, err := s.pool.Query(ctx, `SELECT `+deliveryColumns+` FROM deliveries
WHERE campaign_id = $1 AND ($2::text IS NULL OR status = $2)
ORDER BY created_at, id
LIMIT $3 OFFSET $4`, campaignID, status, q.Page.Limit(), q.Page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list deliveries: %w", err)
	}
	deliveries, err := pgx.CollectRows(rows, scanDelivery)
	if err != nil {
		return nil, 0, fmt.Errorf("scan deliveries: %w", err)
	}
	return deliveries, total, nil
}

func (s *Store) CountDeliveries(ctx context.Context, campaignID uuid.UUID) (map[domain.DeliveryStatus]int, error) {
	rows, err := s.pool.Query(ctx, `SELECT status, count(*) FROM deliveries WHERE campaign_id = $1 GROUP BY status`, campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.DeliveryStatus]int)
	for rows.Next() {
		var (
			status domain.DeliveryStatus
			n      int
		)
		if err = rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}
