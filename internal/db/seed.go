package db

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/jackc/pgx/v5/pgxpool"

	"studio-campaigns/internal/adapter/audience"
)

var (
	seedFirstNames = []string{"Amara", "Bo", "Chidi", "Dana", "Emeka", "Farah", "Gus", "Hana", "Ivo", "Jun"}
	seedTags       = []string{"newsletter", "studio-owner", "instructor", "trial", "pro"}
)

// DemoSubscribers builds a demo directory of count subscribers. Every
// subscriber is tagged newsletter; roughly one in ten is unsubscribed.
func DemoSubscribers(count int, r *rand.Rand) []audience.Subscriber {
	subs := make([]audience.Subscriber, 0, count)
	for i := 1; i <= count; i++ {
		tags := []string{"newsletter"}
		for _, tag := range seedTags[1:] {
			if r.Intn(3) == 0 {
				tags = append(tags, tag)
			}
		}
		subs = append(subs, audience.Subscriber{
			Email:        fmt.Sprintf("subscriber%03d@example.com", i),
			Name:         seedFirstNames[r.Intn(len(seedFirstNames))],
			UserID:       fmt.Sprintf("user-%d", i),
			Tags:         tags,
			Unsubscribed: r.Intn(10) == 0,
		})
	}
	return subs
}

// Seed inserts subscribers so the recipient resolver has an audience to
// match. It is idempotent on email.
func Seed(ctx context.Context, pool *pgxpool.Pool, subs []audience.Subscriber) error {
	for _, s := range subs {
		_, err := pool.Exec(ctx, `INSERT INTO subscribers (email, name, user_id, tags, unsubscribed, created_at)
VALUES ($1, $2, $3, $4, $5, now()) ON CONFLICT (email) DO NOTHING`,
			s.Email, s.Name, s.UserID, s.Tags, s.Unsubscribed)
		if err != nil {
			return fmt.Errorf("seed subscriber %s: %w", s.Email, err)
		}
	}
	return nil
}
