package postgres

import (
	"context"
	"encoding/json"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studio-campaigns/internal/adapter/audience"
	"studio-campaigns/internal/adapter/storetest"
	"studio-campaigns/internal/core/port"
	"studio-campaigns/internal/db"
)

// testPool connects to PSQL_TEST_ADDRESS, migrates it and empties every
// table. Tests are skipped when the variable is unset.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	addr := os.Getenv("PSQL_TEST_ADDRESS")
	if addr == "" {
		t.Skip("PSQL_TEST_ADDRESS not set")
	}
	_, err := db.Migrate(addr)
	require.NoError(t, err)

	pool, err := pgxpool.New(context.Background(), addr)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(context.Background(), `TRUNCATE deliveries, campaigns, subscribers RESTART IDENTITY CASCADE`)
	require.NoError(t, err)
	return pool
}

func TestStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) port.Store {
		return NewStore(testPool(t))
	})
}

func TestDirectoryResolveRecipients(t *testing.T) {
	ctx := context.Background()
	pool := testPool(t)
	require.NoError(t, db.Seed(ctx, pool, []audience.Subscriber{
		{Email: "ann@example.com", Name: "Ann", Tags: []string{"pro"}},
		{Email: "bob@example.com", Name: "Bob", Tags: []string{"trial"}},
		{Email: "cy@example.com", Name: "Cy", Tags: []string{"pro"}, Unsubscribed: true},
	}))
	dir := NewDirectory(pool)

	got, err := dir.ResolveRecipients(ctx, json.RawMessage(`{"tags":["pro"],"emails":["BOB@example.com"]}`))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "ann@example.com", got[0].Email)
	assert.Equal(t, "bob@example.com", got[1].Email)

	got, err = dir.ResolveRecipients(ctx, json.RawMessage(`{"all":true,"exclude":["ann@example.com"]}`))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Bob", got[0].Name)
}
