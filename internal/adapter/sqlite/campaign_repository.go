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

func (s *Store) CreateCampaign(ctx context.Context, c *domain.Campaign) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	c.UpdatedAt = c.CreatedAt
	if c.Status == "" {
		c.Status = domain.CampaignDraft
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO campaigns (id, name, template_ref, filter_spec, status, max_retries, auto_retry, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`,
		c.ID.String(),
		c.Name,
		c.TemplateRef,
		string(c.Filter),
		c.Status.String(),
		c.MaxRetries,
		boolToInt(c.AutoRetry),
		toMillis(c.CreatedAt),
		toMillis(c.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert campaign: %w", err)
	}
	return nil
}

func (s *Store) GetCampaign(ctx context.Context, id uuid.UUID) (*domain.Campaign, error) {
	c, err := scanCampaign(s.db.QueryRowContext(ctx, `SELECT `+campaignColumns+` FROM campaigns WHERE id = ?`, id.String()))
	if err != nil {
		return nil, notFoundOr(err)
	}
	return &c, nil
}

func (s *Store) ListCampaigns(ctx context.Context, q port.CampaignQuery) ([]domain.Campaign, int, error) {
	var status any
	if q.Status != nil {
		status = q.Status.String()
	}

	var total int
	err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM campaigns WHERE (?1 IS NULL OR status = ?1)`, status).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count campaigns: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT `+campaignColumns+` FROM campaigns
WHERE (?1 IS NULL OR status = ?1)
ORDER BY created_at DESC, id
LIMIT ?2 OFFSET ?3
`, status, q.Page.Limit(), q.Page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list campaigns: %w", err)
	}
	defer rows.Close()

	var campaigns []domain.Campaign
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan campaign: %w", err)
		}
		campaigns = append(campaigns, c)
	}
	return campaigns, total, rows.Err()
}

func (s *Store) ListCampaignIDs(ctx context.Context, status domain.CampaignStatus) ([]uuid.UUID, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM campaigns WHERE status = ? ORDER BY created_at, id`, status.String())
	if err != nil {
		return nil, err
	}
	return collectIDs(rows)
}

func (s *Store) ListScheduledDue(ctx context.Context, now time.Time, limit int) ([]uuid.UUID, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id FROM campaigns
WHERE status = 'scheduled' AND scheduled_at <= ?
ORDER BY scheduled_at, id LIMIT ?
`, toMillis(now), limit)
	if err != nil {
		return nil, err
	}
	return collectIDs(rows)
}

func (s *Store) ListRetryDue(ctx context.Context, now time.Time, limit int) ([]uuid.UUID, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id FROM campaigns
WHERE status = 'failed' AND auto_retry = 1 AND retry_count < max_retries AND retry_after <= ?
ORDER BY retry_after, id LIMIT ?
`, toMillis(now), limit)
	if err != nil {
		return nil, err
	}
	return collectIDs(rows)
}

func (s *Store) TransitionCampaign(ctx context.Context, id uuid.UUID, t port.Transition) error {
	if err := domain.CheckTransition(t.From, t.To); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `
UPDATE campaigns SET
    status       = ?3,
    updated_at   = ?4,
    scheduled_at = CASE WHEN ?3 = 'scheduled' THEN ?5 ELSE scheduled_at END,
    started_at   = CASE WHEN ?3 = 'sending' THEN COALESCE(started_at, ?4) ELSE started_at END,
    completed_at = CASE WHEN ?3 IN ('sent', 'failed', 'cancelled') THEN ?4 ELSE completed_at END,
    retry_after  = CASE WHEN ?3 = 'cancelled' THEN NULL ELSE retry_after END
WHERE id = ?1 AND status = ?2
`, id.String(), t.From.String(), t.To.String(), toMillis(t.At), nullMillis(t.ScheduledAt))
	if err != nil {
		return fmt.Errorf("transition campaign: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 1 {
		return nil
	}

	var exists int
	err = s.db.QueryRowContext(ctx, `SELECT 1 FROM campaigns WHERE id = ?`, id.String()).Scan(&exists)
	if err != nil {
		return notFoundOr(err)
	}
	return domain.ErrStateConflict
}

func (s *Store) UpdateRetryPolicy(ctx context.Context, id uuid.UUID, opts port.RetryOptions, now time.Time) error {
	res, err := s.db.ExecContext(ctx, `
UPDATE campaigns SET
    auto_retry  = MAX(auto_retry, ?2),
    max_retries = CASE WHEN ?3 > 0 THEN ?3 ELSE max_retries END,
    updated_at  = ?4
WHERE id = ?1
`, id.String(), boolToInt(opts.AutoRetry), opts.MaxRetries, toMillis(now))
	if err != nil {
		return fmt.Errorf("update retry policy: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrCampaignNotFound
	}
	return nil
}

func (s *Store) CompleteIfDrained(ctx context.Context, id uuid.UUID, now time.Time, cooldown time.Duration) (domain.CampaignStatus, bool, error) {
	var status domain.CampaignStatus
	err := s.db.QueryRowContext(ctx, `
UPDATE campaigns SET
    status       = CASE WHEN failed_count = 0 THEN 'sent' ELSE 'failed' END,
    completed_at = ?2,
    updated_at   = ?2,
    retry_after  = CASE WHEN failed_count > 0 AND auto_retry = 1 AND retry_count < max_retries THEN ?3 END
WHERE id = ?1 AND status = 'sending'
  AND NOT EXISTS (
      SELECT 1 FROM deliveries d
      WHERE d.campaign_id = campaigns.id AND d.status IN ('pending', 'sending')
  )
RETURNING status
`, id.String(), toMillis(now), toMillis(now.Add(cooldown))).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("complete campaign: %w", err)
	}
	return status, true, nil
}
