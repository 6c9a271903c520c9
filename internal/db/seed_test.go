package db

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDemoSubscribers(t *testing.T) {
	subs := DemoSubscribers(25, rand.New(rand.NewSource(7)))
	require.Len(t, subs, 25)

	seen := make(map[string]bool)
	for _, s := range subs {
		assert.False(t, seen[s.Email], "duplicate email %s", s.Email)
		seen[s.Email] = true
		assert.Contains(t, s.Tags, "newsletter")
		assert.NotEmpty(t, s.Name)
	}
	assert.Equal(t, "subscriber001@example.com", subs[0].Email)
}
