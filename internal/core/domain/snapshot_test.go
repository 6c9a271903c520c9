package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSnapshotDeduplicates(t *testing.T) {
	snap, err := NewSnapshot([]Recipient{
		{Email: "Ana@Example.com", Name: "Ana"},
		{Email: "bo@example.com"},
		{Email: " ana@example.com ", Name: "Duplicate"},
		{Email: ""},
	})
	require.NoError(t, err)
	require.Equal(t, 2, snap.Len())

	got := snap.Recipients()
	assert.Equal(t, "ana@example.com", got[0].Email)
	assert.Equal(t, "Ana", got[0].Name)
	assert.Equal(t, "bo@example.com", got[1].Email)

	// callers cannot mutate the snapshot
	got[0].Email = "changed@example.com"
	assert.Equal(t, "ana@example.com", snap.Recipients()[0].Email)
}

func TestNewSnapshotEmpty(t *testing.T) {
	_, err := NewSnapshot(nil)
	assert.ErrorIs(t, err, ErrNoRecipients)

	_, err = NewSnapshot([]Recipient{{Email: "  "}})
	assert.ErrorIs(t, err, ErrNoRecipients)
}
