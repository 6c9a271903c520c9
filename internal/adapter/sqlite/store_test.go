package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studio-campaigns/internal/adapter/storetest"
	"studio-campaigns/internal/core/domain"
	"studio-campaigns/internal/core/port"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) port.Store {
		return openTestStore(t)
	})
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open(context.Background(), "  ")
	require.Error(t, err)
}

func TestOpenFileIsReopenable(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "campaigns.db")

	s, err := Open(ctx, path)
	require.NoError(t, err)
	c := &domain.Campaign{Name: "n", TemplateRef: "t", Filter: []byte(`{"all":true}`)}
	require.NoError(t, s.CreateCampaign(ctx, c))
	require.NoError(t, s.Close())

	s, err = Open(ctx, path)
	require.NoError(t, err)
	defer s.Close()
	got, err := s.GetCampaign(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "n", got.Name)
}

func TestFinishRollsBackWhenCounterUpdateFails(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	s := New(db)

	deliveryID, campaignID := uuid.New(), uuid.New()
	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE deliveries SET").
		WillReturnRows(sqlmock.NewRows([]string{"campaign_id"}).AddRow(campaignID.String()))
	mock.ExpectExec("UPDATE campaigns SET sent_count").
		WillReturnError(errors.New("disk I/O error"))
	mock.ExpectRollback()

	err = s.MarkSent(context.Background(), deliveryID, time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk I/O error")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRequeueFailedRollsBackWhenBudgetSpent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	s := New(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT status, retry_count, max_retries FROM campaigns").
		WillReturnRows(sqlmock.NewRows([]string{"status", "retry_count", "max_retries"}).AddRow("failed", 3, 3))
	mock.ExpectRollback()

	n, err := s.RequeueFailed(context.Background(), uuid.New(), 0, time.Now())
	require.ErrorIs(t, err, domain.ErrRetryBudgetExhausted)
	assert.Zero(t, n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClaimBatchWrapsQueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	s := New(db)

	mock.ExpectQuery("UPDATE deliveries SET").WillReturnError(errors.New("database is locked"))

	_, err = s.ClaimBatch(context.Background(), uuid.New(), 10, time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "claim deliveries")
	require.NoError(t, mock.ExpectationsWereMet())
}
