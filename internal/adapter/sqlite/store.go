// Package sqlite implements the delivery engine store on an embedded SQLite
// database. All access goes through a single connection, so transactions
// are serialised and claims cannot overlap.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"studio-campaigns/internal/core/domain"
	"studio-campaigns/internal/core/port"
)

var _ port.Store = (*Store)(nil)

// Store provides SQLite-backed campaign and delivery persistence.
type Store struct {
	db *sql.DB
}

// Open opens the database at path, or an in-memory database for
// ":memory:", and creates the schema.
func Open(ctx context.Context, path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	if path != ":memory:" {
		path = filepath.Clean(path)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	db.SetMaxOpenConns(1)

	for _, stmt := range []string{`PRAGMA foreign_keys = ON`, `PRAGMA busy_timeout = 5000`, schema} {
		if _, err = db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("init sqlite db: %w", err)
		}
	}
	return New(db), nil
}

// New wraps an already configured database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// DB exposes the handle for sharing with the subscriber directory.
func (s *Store) DB() *sql.DB { return s.db }

// Close releases the SQLite connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	if err = fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

type scanner interface {
	Scan(dest ...any) error
}

const campaignColumns = `id, name, template_ref, filter_spec, status, recipient_count, sent_count,
failed_count, bounced_count, retry_count, max_retries, auto_retry, retry_after, scheduled_at,
snapshot_at, started_at, completed_at, created_at, updated_at`

const deliveryColumns = `id, campaign_id, email, name, user_id, status, error_message, error_class,
attempts, claimed_at, sent_at, failed_at, created_at, updated_at`

func scanCampaign(row scanner) (domain.Campaign, error) {
	var (
		c                                                      domain.Campaign
		filter                                                 string
		autoRetry                                              int
		retryAfter, scheduledAt, snapshotAt, startedAt, doneAt sql.NullInt64
		createdAt, updatedAt                                   int64
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
		&autoRetry,
		&retryAfter,
		&scheduledAt,
		&snapshotAt,
		&startedAt,
		&doneAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return c, err
	}
	c.Filter = []byte(filter)
	c.AutoRetry = autoRetry != 0
	c.RetryAfter = fromNullMillis(retryAfter)
	c.ScheduledAt = fromNullMillis(scheduledAt)
	c.SnapshotAt = fromNullMillis(snapshotAt)
	c.StartedAt = fromNullMillis(startedAt)
	c.CompletedAt = fromNullMillis(doneAt)
	c.CreatedAt = fromMillis(createdAt)
	c.UpdatedAt = fromMillis(updatedAt)
	return c, nil
}

func scanDelivery(row scanner) (domain.Delivery, error) {
	var (
		d                           domain.Delivery
		errMessage, errClass        sql.NullString
		claimedAt, sentAt, failedAt sql.NullInt64
		createdAt, updatedAt        int64
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
		&claimedAt,
		&sentAt,
		&failedAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return d, err
	}
	d.ErrorMessage = errMessage.String
	d.ErrorClass = domain.FailureClass(errClass.String)
	d.ClaimedAt = fromNullMillis(claimedAt)
	d.SentAt = fromNullMillis(sentAt)
	d.FailedAt = fromNullMillis(failedAt)
	d.CreatedAt = fromMillis(createdAt)
	d.UpdatedAt = fromMillis(updatedAt)
	return d, nil
}

func collectDeliveries(rows *sql.Rows) ([]domain.Delivery, error) {
	defer rows.Close()
	var out []domain.Delivery
	for rows.Next() {
		d, err := scanDelivery(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func collectIDs(rows *sql.Rows) ([]uuid.UUID, error) {
	defer rows.Close()
	var out []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func notFoundOr(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrCampaignNotFound
	}
	return err
}

func toMillis(t time.Time) int64 { return t.UTC().UnixMilli() }

func nullMillis(t *time.Time) any {
	if t == nil {
		return nil
	}
	return toMillis(*t)
}

func fromMillis(ms int64) time.Time { return time.UnixMilli(ms).UTC() }

func fromNullMillis(v sql.NullInt64) *time.Time {
	if !v.Valid {
		return nil
	}
	t := fromMillis(v.Int64)
	return &t
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
