package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"studio-campaigns/internal/core/domain"
	"studio-campaigns/internal/core/port"
)

func (s *Store) SaveSnapshot(ctx context.Context, campaignID uuid.UUID, recipients []domain.Recipient, now time.Time) (int, error) {
	if len(recipients) == 0 {
		return 0, domain.ErrNoRecipients
	}
	ts := toMillis(now)
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var (
			status     domain.CampaignStatus
			snapshotAt sql.NullInt64
		)
		err := tx.QueryRowContext(ctx, `SELECT status, snapshot_at FROM campaigns WHERE id = ?`, campaignID.String()).
			Scan(&status, &snapshotAt)
		if err != nil {
			return notFoundOr(err)
		}
		if snapshotAt.Valid {
			return domain.ErrAlreadySnapshotted
		}
		if status != domain.CampaignDraft && status != domain.CampaignScheduled {
			return &domain.TransitionError{From: status, To: domain.CampaignSending}
		}

		stmt, err := tx.PrepareContext(ctx, `
INSERT INTO deliveries (id, campaign_id, email, name, user_id, status, attempts, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, 'pending', 0, ?, ?)
`)
		if err != nil {
			return fmt.Errorf("prepare delivery insert: %w", err)
		}
		defer stmt.Close()
		for _, r := range recipients {
			if _, err = stmt.ExecContext(ctx, uuid.NewString(), campaignID.String(), r.Email, r.Name, r.UserID, ts, ts); err != nil {
				return fmt.Errorf("insert delivery %s: %w", r.Email, err)
			}
		}

		_, err = tx.ExecContext(ctx, `UPDATE campaigns SET recipient_count = ?, snapshot_at = ?, updated_at = ? WHERE id = ?`,
			len(recipients), ts, ts, campaignID.String())
		return err
	})
	if err != nil {
		return 0, err
	}
	return len(recipients), nil
}

// ClaimBatch is a single statement; the one connection makes it exclusive.
func (s *Store) ClaimBatch(ctx context.Context, campaignID uuid.UUID, limit int, now time.Time) ([]domain.Delivery, error) {
	rows, err := s.db.QueryContext(ctx, `
UPDATE deliveries SET
    status     = 'sending',
    claimed_at = ?3,
    attempts   = attempts + 1,
    updated_at = ?3
WHERE id IN (
    SELECT p.id FROM deliveries p
    JOIN campaigns c ON c.id = p.campaign_id
    WHERE p.campaign_id = ?1 AND p.status = 'pending' AND c.status = 'sending'
    ORDER BY p.created_at, p.rowid
    LIMIT ?2
)
RETURNING `+deliveryColumns, campaignID.String(), limit, toMillis(now))
	if err != nil {
		return nil, fmt.Errorf("claim deliveries: %w", err)
	}
	claimed, err := collectDeliveries(rows)
	if err != nil {
		return nil, fmt.Errorf("claim deliveries: %w", err)
	}
	return claimed, nil
}

var counterColumns = map[domain.DeliveryStatus]string{
	domain.DeliverySent:    "sent_count",
	domain.DeliveryFailed:  "failed_count",
	domain.DeliveryBounced: "bounced_count",
}

func (s *Store) finish(ctx context.Context, deliveryID uuid.UUID, status domain.DeliveryStatus, message, class any, at time.Time) error {
	counter, ok := counterColumns[status]
	if !ok {
		return fmt.Errorf("no counter for delivery status %s", status)
	}
	ts := toMillis(at)
	return s.withTx(ctx, func(tx *sql.Tx) error {
		var campaignID string
		err := tx.QueryRowContext(ctx, `
UPDATE deliveries SET
    status        = ?2,
    error_message = ?3,
    error_class   = ?4,
    sent_at       = CASE WHEN ?2 = 'sent' THEN ?5 ELSE sent_at END,
    failed_at     = CASE WHEN ?2 <> 'sent' THEN ?5 ELSE failed_at END,
    updated_at    = ?5
WHERE id = ?1 AND status = 'sending'
RETURNING campaign_id
`, deliveryID.String(), status.String(), message, class, ts).Scan(&campaignID)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrDeliveryNotClaimed
		}
		if err != nil {
			return fmt.Errorf("finish delivery: %w", err)
		}
		_, err = tx.ExecContext(ctx, `UPDATE campaigns SET `+counter+` = `+counter+` + 1, updated_at = ? WHERE id = ?`, ts, campaignID)
		if err != nil {
			return fmt.Errorf("bump %s: %w", counter, err)
		}
		return nil
	})
}

func (s *Store) MarkSent(ctx context.Context, deliveryID uuid.UUID, sentAt time.Time) error {
	return s.finish(ctx, deliveryID, domain.DeliverySent, nil, nil, sentAt)
}

func (s *Store) MarkFailed(ctx context.Context, deliveryID uuid.UUID, message string, class domain.FailureClass, failedAt time.Time) error {
	return s.finish(ctx, deliveryID, domain.DeliveryFailed, message, string(class), failedAt)
}

func (s *Store) MarkBounced(ctx context.Context, deliveryID uuid.UUID, message string, at time.Time) error {
	return s.finish(ctx, deliveryID, domain.DeliveryBounced, message, string(domain.FailurePermanent), at)
}

func (s *Store) ReleaseClaimed(ctx context.Context, deliveryIDs []uuid.UUID, now time.Time) (int, error) {
	if len(deliveryIDs) == 0 {
		return 0, nil
	}
	args := make([]any, 0, len(deliveryIDs)+1)
	args = append(args, toMillis(now))
	for _, id := range deliveryIDs {
		args = append(args, id.String())
	}
	res, err := s.db.ExecContext(ctx, `
UPDATE deliveries SET
    status     = 'pending',
    claimed_at = NULL,
    attempts   = MAX(attempts - 1, 0),
    updated_at = ?
WHERE status = 'sending' AND id IN (`+placeholders(len(deliveryIDs))+`)
`, args...)
	if err != nil {
		return 0, fmt.Errorf("release deliveries: %w", err)
	}
	n, err := res.RowsAffected()
	return int(n), err
}

func (s *Store) RecoverStale(ctx context.Context, claimedBefore time.Time, now time.Time) (int, error) {
	res, err := s.db.ExecContext(ctx, `
UPDATE deliveries SET status = 'pending', claimed_at = NULL, updated_at = ?
WHERE status = 'sending' AND claimed_at < ?
`, toMillis(now), toMillis(claimedBefore))
	if err != nil {
		return 0, fmt.Errorf("recover stale deliveries: %w", err)
	}
	n, err := res.RowsAffected()
	return int(n), err
}

func (s *Store) RequeueFailed(ctx context.Context, campaignID uuid.UUID, limit int, now time.Time) (int, error) {
	if limit <= 0 {
		limit = -1
	}
	ts := toMillis(now)
	var n int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var c domain.Campaign
		err := tx.QueryRowContext(ctx, `SELECT status, retry_count, max_retries FROM campaigns WHERE id = ?`, campaignID.String()).
			Scan(&c.Status, &c.RetryCount, &c.MaxRetries)
		if err != nil {
			return notFoundOr(err)
		}
		if err = domain.CheckReopen(&c); err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx, `
UPDATE deliveries SET status = 'pending', claimed_at = NULL, error_message = NULL, error_class = NULL, updated_at = ?3
WHERE id IN (
    SELECT id FROM deliveries
    WHERE campaign_id = ?1 AND status = 'failed'
    ORDER BY failed_at, rowid
    LIMIT ?2
)
`, campaignID.String(), limit, ts)
		if err != nil {
			return fmt.Errorf("requeue deliveries: %w", err)
		}
		if n, err = res.RowsAffected(); err != nil || n == 0 {
			return err
		}

		_, err = tx.ExecContext(ctx, `
UPDATE campaigns SET
    status       = 'sending',
    failed_count = failed_count - ?2,
    retry_count  = retry_count + 1,
    retry_after  = NULL,
    completed_at = NULL,
    updated_at   = ?3
WHERE id = ?1
`, campaignID.String(), n, ts)
		return err
	})
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func (s *Store) ListDeliveries(ctx context.Context, campaignID uuid.UUID, q port.DeliveryQuery) ([]domain.Delivery, int, error) {
	var status any
	if q.Status != nil {
		status = q.Status.String()
	}

	var total int
	err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM deliveries WHERE campaign_id = ?1 AND (?2 IS NULL OR status = ?2)`,
		campaignID.String(), status).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count deliveries: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT `+deliveryColumns+` FROM deliveries
WHERE campaign_id = ?1 AND (?2 IS NULL OR status = ?2)
ORDER BY created_at, rowid
LIMIT ?3 OFFSET ?4
`, campaignID.String(), status, q.Page.Limit(), q.Page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list deliveries: %w", err)
	}
	deliveries, err := collectDeliveries(rows)
	if err != nil {
		return nil, 0, fmt.Errorf("scan deliveries: %w", err)
	}
	return deliveries, total, nil
}

func (s *Store) CountDeliveries(ctx context.Context, campaignID uuid.UUID) (map[domain.DeliveryStatus]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, count(*) FROM deliveries WHERE campaign_id = ? GROUP BY status`, campaignID.String())
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
