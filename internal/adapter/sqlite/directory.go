package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"studio-campaigns/internal/adapter/audience"
	"studio-campaigns/internal/core/domain"
	"studio-campaigns/internal/core/port"
)

var _ port.RecipientResolver = (*Directory)(nil)

// Directory is the subscriber directory kept next to the SQLite store. Tags
// are stored as a JSON array.
type Directory struct {
	db *sql.DB
}

func NewDirectory(db *sql.DB) *Directory {
	return &Directory{db: db}
}

// Add inserts subscribers, ignoring addresses already present.
func (d *Directory) Add(ctx context.Context, subs ...audience.Subscriber) error {
	now := toMillis(time.Now())
	for _, s := range subs {
		tags, err := json.Marshal(s.Tags)
		if err != nil {
			return fmt.Errorf("encode tags for %s: %w", s.Email, err)
		}
		_, err = d.db.ExecContext(ctx, `
INSERT INTO subscribers (email, name, user_id, tags, unsubscribed, created_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT (email) DO NOTHING
`, domain.NormalizeEmail(s.Email), s.Name, s.UserID, string(tags), boolToInt(s.Unsubscribed), now)
		if err != nil {
			return fmt.Errorf("insert subscriber %s: %w", s.Email, err)
		}
	}
	return nil
}

func (d *Directory) ResolveRecipients(ctx context.Context, raw json.RawMessage) ([]domain.Recipient, error) {
	filter, err := audience.Parse(raw)
	if err != nil {
		return nil, err
	}

	rows, err := d.db.QueryContext(ctx, `SELECT email, name, user_id, tags, unsubscribed FROM subscribers WHERE unsubscribed = 0 ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query subscribers: %w", err)
	}
	defer rows.Close()

	var subs []audience.Subscriber
	for rows.Next() {
		var (
			s            audience.Subscriber
			tags         string
			unsubscribed int
		)
		if err = rows.Scan(&s.Email, &s.Name, &s.UserID, &tags, &unsubscribed); err != nil {
			return nil, fmt.Errorf("scan subscriber: %w", err)
		}
		if err = json.Unmarshal([]byte(tags), &s.Tags); err != nil {
			return nil, fmt.Errorf("decode tags for %s: %w", s.Email, err)
		}
		s.Unsubscribed = unsubscribed != 0
		subs = append(subs, s)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return filter.Select(subs), nil
}
