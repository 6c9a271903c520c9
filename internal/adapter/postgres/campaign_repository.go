package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"studio-campaigns/internal/core/domain"
	"studio-campaigns/internal/core/port"
)

// CreateCampaign inserts a new campaign row.
func (s *Store) CreateCampaign(ctx context.Context, c *domain.Campaign) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	now := time.Now().UTC()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = c.CreatedAt
	if c.Status == "" {
		c.Status = domain.CampaignDraft
	}
	_, err := s.pool.Exec(ctx, `INSERT INTO campaigns (id, name, template_ref, filter_spec, status, max_retries, auto_retry, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		c.ID, c.Name, c.TemplateRef, []byte(c.Filter), c.Status.String(), c.MaxRetries, c.AutoRetry, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert campaign: %w", err)
	}
	return nil
}

// GetCampaign returns a campaign by id.
func (s *Store) GetCampaign(ctx context.Context, id uuid.UUID) (*domain.Campaign, error) {
	c, err := scanCampaign(s.pool.QueryRow(ctx, `SELECT `+campaignColumns+` FROM campaigns WHERE id = $1`, id))
	if err != nil {
		return nil, notFoundOr(err)
	}
	return &c, nil
}

// ListCampaigns returns campaigns newest first.
func (s *Store) ListCampaigns(ctx context.Context, q port.CampaignQuery) ([]domain.Campaign, int, error) {
	var status *string
	if q.Status != nil {
		v := q.Status.String()
		status = &v
	}

	var total int
	err := s.pool.QueryRow(ctx, `SELECT count(*) FROM campaigns WHERE ($1::text IS NULL OR status = $1)`, status).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count campaigns: %w", err)
	}

	rows, err := s.pool.Query(ctx, `SELECT `+campaignColumns+` FROM campaigns
WHERE ($1::text IS NULL OR status = $1)
ORDER BY created_at DESC, id
LIMIT $2 OFFSET $3`, status, q.Page.Limit(), q.Page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list campaigns: %w", err)
	}
	campaigns, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Campaign, error) {
		return scanCampaign(row)
	})
	if err != nil {
		return nil, 0, fmt.Errorf("scan campaigns: %w", err)
	}
	return campaigns, total, nil
}

func (s *Store) ListCampaignIDs(ctx context.Context, status domain.CampaignStatus) ([]uuid.UUID, error) {
	rows, err := s.pool.Query(ctx, `SELECT id FROM campaigns WHERE status = $1 ORDER BY created_at, id`, status.String())
	if err != nil {
		return nil, err
	}
	return collectIDs(rows)
}

func (s *Store) ListScheduledDue(ctx context.Context, now time.Time, limit int) ([]uuid.UUID, error) {
	rows, err := s.pool.Query(ctx, `SELECT id FROM campaigns
WHERE status = 'scheduled' AND scheduled_at <= $1
ORDER BY scheduled_at, id LIMIT $2`, utc(now), limit)
	if err != nil {
		return nil, err
	}
	return collectIDs(rows)
}

func (s *Store) ListRetryDue(ctx context.Context, now time.Time, limit int) ([]uuid.UUID, error) {
	rows, err := s.pool.Query(ctx, `SELECT id FROM campaigns
WHERE status = 'failed' AND auto_retry AND retry_count < max_retries AND retry_after <= $1
ORDER BY retry_after, id LIMIT $2`, utc(now), limit)
	if err != nil {
		return nil, err
	}
	return collectIDs(rows)
}

// TransitionCampaign applies t only if the stored status still equals
// t.From.
func (s *Store) TransitionCampaign(ctx context.Context, id uuid.UUID, t port.Transition) error {
	if err := domain.CheckTransition(t.From, t.To); err != nil {
		return err
	}
	tag, err := s.pool.Exec(ctx, `UPDATE campaigns SET
    status       = $3::text,
    updated_at   = $4,
    scheduled_at = CASE WHEN $3::text = 'scheduled' THEN $5 ELSE scheduled_at END,
    started_at   = CASE WHEN $3::text = 'sending' THEN COALESCE(started_at, $4) ELSE started_at END,
    completed_at = CASE WHEN $3::text IN ('sent', 'failed', 'cancelled') THEN $4 ELSE completed_at END,
    retry_after  = CASE WHEN $3::text = 'cancelled' THEN NULL ELSE retry_after END
WHERE id = $1 AND status = $2`,
		id, t.From.String(), t.To.String(), utc(t.At), t.ScheduledAt)
	if err != nil {
		return fmt.Errorf("transition campaign: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}
	return s.conflictOrMissing(ctx, id)
}

func (s *Store) conflictOrMissing(ctx context.Context, id uuid.UUID) error {
	var exists bool
	if err := s.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM campaigns WHERE id = $1)`, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return domain.ErrCampaignNotFound
	}
	return domain.ErrStateConflict
}

func (s *Store) UpdateRetryPolicy(ctx context.Context, id uuid.UUID, opts port.RetryOptions, now time.Time) error {
	tag, err := s.pool.Exec(ctx, `UPDATE campaigns SET
    auto_retry  = auto_retry OR $2,
    max_retries = CASE WHEN $3::int > 0 THEN $3::int ELSE max_retries END,
    updated_at  = $4
WHERE id = $1`, id, opts.AutoRetry, opts.MaxRetries, utc(now))
	if err != nil {
		return fmt.Errorf("update retry policy: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCampaignNotFound
	}
	return nil
}

// CompleteIfDrained finishes a sending campaign with no pending or in
// flight deliveries left.
func (s *Store) CompleteIfDrained(ctx context.Context, id uuid.UUID, now time.Time, cooldown time.Duration) (domain.CampaignStatus, bool, error) {
	now = utc(now)
	var status domain.CampaignStatus
	err := s.pool.QueryRow(ctx, `UPDATE campaigns c SET
    status       = CASE WHEN c.failed_count = 0 THEN 'sent' ELSE 'failed' END,
    completed_at = $2,
    updated_at   = $2,
    retry_after  = CASE WHEN c.failed_count > 0 AND c.auto_retry AND c.retry_count < c.max_retries THEN $3::timestamptz END
WHERE c.id = $1 AND c.status = 'sending'
  AND NOT EXISTS (SELECT 1 FROM deliveries d WHERE d.campaign_id = c.id AND d.status IN ('pending', 'sending'))
RETURNING c.status`, id, now, now.Add(cooldown)).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("complete campaign: %w", err)
	}
	return status, true, nil
}
