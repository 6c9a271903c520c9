package domain

import (
	"errors"
	"fmt"
)

// FailureClass is the engine's classification of a failed send.
type FailureClass string

const (
	// FailureTransient is retryable: timeouts, temporary provider errors and
	// anything the provider did not classify.
	FailureTransient FailureClass = "transient"
	// FailurePermanent is a hard bounce or invalid address. Never retried.
	FailurePermanent FailureClass = "permanent"
	// FailureQuota pauses dispatch for every campaign and is not recorded
	// against the recipient.
	FailureQuota FailureClass = "quota"
)

var ErrQuotaExhausted = errors.New("provider quota exhausted")

// SendError is returned by mailers that can classify a provider failure.
type SendError struct {
	Class FailureClass
	Err   error
}

func (e *SendError) Error() string {
	return fmt.Sprintf("%s send failure: %v", e.Class, e.Err)
}

func (e *SendError) Unwrap() error { return e.Err }

func (e *SendError) Is(target error) bool {
	return target == ErrQuotaExhausted && e.Class == FailureQuota
}

func Transient(err error) error { return &SendError{Class: FailureTransient, Err: err} }

func Permanent(err error) error { return &SendError{Class: FailurePermanent, Err: err} }

func QuotaExhausted(err error) error { return &SendError{Class: FailureQuota, Err: err} }

// ClassifySendError maps a send error to a FailureClass. Unknown errors are
// transient so that a recipient is retried rather than silently dropped.
func ClassifySendError(err error) FailureClass {
	if errors.Is(err, ErrQuotaExhausted) {
		return FailureQuota
	}
	var se *SendError
	if errors.As(err, &se) {
		switch se.Class {
		case FailurePermanent, FailureQuota:
			return se.Class
		}
	}
	return FailureTransient
}
