package audience

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studio-campaigns/internal/core/domain"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{name: "all", raw: `{"all":true}`},
		{name: "tags", raw: `{"tags":["beta"]}`},
		{name: "emails", raw: `{"emails":["A@x.io"]}`},
		{name: "empty body", raw: ``, wantErr: true},
		{name: "selects nobody", raw: `{"exclude":["a@x.io"]}`, wantErr: true},
		{name: "unknown field", raw: `{"all":true,"tagz":["beta"]}`, wantErr: true},
		{name: "not json", raw: `all`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(json.RawMessage(tt.raw))
			if tt.wantErr {
				require.ErrorIs(t, err, domain.ErrValidation)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestSelect(t *testing.T) {
	subs := []Subscriber{
		{Email: "ann@x.io", Name: "Ann", Tags: []string{"beta"}},
		{Email: "bob@x.io", Name: "Bob", Tags: []string{"staff"}},
		{Email: "cid@x.io", Name: "Cid", Tags: []string{"beta"}, Unsubscribed: true},
		{Email: "dee@x.io", Name: "Dee"},
	}

	f, err := Parse(json.RawMessage(`{"tags":["beta"],"emails":["DEE@x.io"]}`))
	require.NoError(t, err)
	got := f.Select(subs)
	require.Len(t, got, 2)
	assert.Equal(t, "ann@x.io", got[0].Email)
	assert.Equal(t, "dee@x.io", got[1].Email)

	f, err = Parse(json.RawMessage(`{"all":true,"exclude":[" Bob@X.io "]}`))
	require.NoError(t, err)
	got = f.Select(subs)
	require.Len(t, got, 2)
	assert.Equal(t, "Ann", got[0].Name)
	assert.Equal(t, "Dee", got[1].Name)
}
