package mailer

import (
	"context"
	"io"
	"log/slog"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studio-campaigns/internal/core/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSimulatedAlwaysSucceeds(t *testing.T) {
	s := NewSimulated(1, 0, rand.New(rand.NewSource(1)), discardLogger())
	for i := 0; i < 50; i++ {
		require.NoError(t, s.Send(context.Background(), testMessage()))
	}
}

func TestSimulatedFailuresAreClassified(t *testing.T) {
	s := NewSimulated(-3, 0, rand.New(rand.NewSource(7)), discardLogger())

	seen := map[domain.FailureClass]int{}
	for i := 0; i < 300; i++ {
		err := s.Send(context.Background(), testMessage())
		require.Error(t, err)
		var se *domain.SendError
		require.ErrorAs(t, err, &se)
		seen[domain.ClassifySendError(err)]++
	}
	assert.Len(t, seen, 3)
	assert.Positive(t, seen[domain.FailureTransient])
	assert.Positive(t, seen[domain.FailurePermanent])
	assert.Positive(t, seen[domain.FailureQuota])
}

func TestSimulatedLatencyHonoursContext(t *testing.T) {
	s := NewSimulated(1, time.Hour, rand.New(rand.NewSource(3)), discardLogger())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Send(ctx, testMessage())
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, domain.FailureTransient, domain.ClassifySendError(err))
}
