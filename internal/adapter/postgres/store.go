package postgres

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"studio-campaigns/internal/core/domain"
	"studio-campaigns/internal/core/port"
)

var _ port.Store = (*Store)(nil)

// Store implements port.Store on PostgreSQL using pgxpool. Claims rely on
// FOR UPDATE SKIP LOCKED so any number of dispatcher processes can share
// one database.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore returns a new store instance.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

const campaignColumns = `id, name, template_ref, filter_spec, status, recipient_count, sent_count,
failed_count, bounced_count, retry_count, max_retries, auto_retry, retry_after, scheduled_at,
snapshot_at, started_at, completed_at, created_at, updated_at`

const deliveryColumns = `id, campaign_id, email, name, user_id, status, error_message, error_class,
attempts, claimed_at, sent_at, failed_at, created_at, updated_at`

func scanCampaign(row pgx.Row) (domain.Campaign, error) {
	var (
		c      domain.Campaign
		filter []byte
	)
	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.TemplateRef,
		&filter,
		&c.Status,
		&c.RecipientCount,
		&c.SentCount,
		&c.FailedCount,
		&c.BouncedCount,
		&c.RetryCount,
		&c.MaxRetries,
		&c.AutoRetry,
		&c.RetryAfter,
		&c.ScheduledAt,
		&c.SnapshotAt,
		&c.StartedAt,
		&c.CompletedAt,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	c.Filter = filter
	return c, err
}

func scanDelivery(row pgx.CollectableRow) (domain.Delivery, error) {
	var (
		d          domain.Delivery
		errMessage *string
		errClass   *string
	)
	err := row.Scan(
		&d.ID,
		&d.CampaignID,
		&d.Recipient.Email,
		&d.Recipient.Name,
		&d.Recipient.UserID,
		&d.Status,
		&errMessage,
		&errClass,
		&d.Attempts,
		&d.ClaimedAt,
		&d.SentAt,
		&d.FailedAt,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if errMessage != nil {
		d.ErrorMessage = *errMessage
	}
	if errClass != nil {
		d.ErrorClass = domain.FailureClass(*errClass)
	}
	return d, err
}

func collectIDs(rows pgx.Rows) ([]uuid.UUID, error) {
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (uuid.UUID, error) {
		var id uuid.UUID
		err := row.Scan(&id)
		return id, err
	})
}

// notFoundOr turns pgx.ErrNoRows into domain.ErrCampaignNotFound.
func notFoundOr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrCampaignNotFound
	}
	return err
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

func utc(t time.Time) time.Time { return t.UTC() }

// prefixed qualifies a column list with a table alias.
func prefixed(alias, columns string) string {
	cols := strings.Split(columns, ",")
	for i, c := range cols {
		cols[i] = alias + "." + strings.TrimSpace(c)
	}
	return strings.Join(cols, ", ")
}
