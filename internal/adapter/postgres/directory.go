package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"studio-campaigns/internal/adapter/audience"
	"studio-campaigns/internal/core/domain"
	"studio-campaigns/internal/core/port"
)

var _ port.RecipientResolver = (*Directory)(nil)

// Directory resolves audience filters against the subscribers table.
type Directory struct {
	pool *pgxpool.Pool
}

func NewDirectory(pool *pgxpool.Pool) *Directory {
	return &Directory{pool: pool}
}

// ResolveRecipients loads the subscribed directory, narrowed by tag or
// address when the filter allows it, and applies the audience filter.
func (d *Directory) ResolveRecipients(ctx context.Context, raw json.RawMessage) ([]domain.Recipient, error) {
	filter, err := audience.Parse(raw)
	if err != nil {
		return nil, err
	}

	query := `SELECT email, name, user_id, tags, unsubscribed FROM subscribers WHERE NOT unsubscribed`
	var args []any
	if !filter.All {
		query += ` AND (tags && $1::text[] OR lower(email) = ANY($2::text[]))`
		args = append(args, filter.Tags, filter.Emails)
	}
	query += ` ORDER BY id`

	rows, err := d.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query subscribers: %w", err)
	}
	subs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (audience.Subscriber, error) {
		var s audience.Subscriber
		err := row.Scan(&s.Email, &s.Name, &s.UserID, &s.Tags, &s.Unsubscribed)
		return s, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan subscribers: %w", err)
	}
	return filter.Select(subs), nil
}
