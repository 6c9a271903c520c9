package domain

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifySendError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want FailureClass
	}{
		{"plain error", errors.New("boom"), FailureTransient},
		{"timeout", context.DeadlineExceeded, FailureTransient},
		{"transient", Transient(errors.New("try later")), FailureTransient},
		{"permanent", Permanent(errors.New("no such user")), FailurePermanent},
		{"wrapped permanent", fmt.Errorf("send: %w", Permanent(errors.New("bad address"))), FailurePermanent},
		{"quota sentinel", fmt.Errorf("provider: %w", ErrQuotaExhausted), FailureQuota},
		{"quota send error", QuotaExhausted(errors.New("daily limit")), FailureQuota},
		{"unknown class", &SendError{Class: "weird", Err: errors.New("?")}, FailureTransient},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ClassifySendError(tc.err))
		})
	}
}

func TestQuotaSendErrorMatchesSentinel(t *testing.T) {
	assert.ErrorIs(t, QuotaExhausted(errors.New("421 too many")), ErrQuotaExhausted)
	assert.NotErrorIs(t, Transient(errors.New("x")), ErrQuotaExhausted)
}
