package configs

import (
	"errors"
	"time"
)

// Dispatch tunes the send loop.
type Dispatch struct {
	// PollInterval is the delay between dispatch passes.
	PollInterval time.Duration `env:"POLL_INTERVAL" envDefault:"5s"`
	// BatchSize is the number of deliveries claimed at once per campaign.
	BatchSize int `env:"BATCH_SIZE" envDefault:"100"`
	// Workers bounds in-flight sends across all campaigns.
	Workers int `env:"WORKERS" envDefault:"16"`
	// RatePerMinute is the provider send rate; zero disables the limiter.
	RatePerMinute int `env:"RATE_PER_MINUTE" envDefault:"600"`
	Burst         int `env:"BURST" envDefault:"10"`
	// DailyCap is a hard per-process send cap per UTC day; zero disables it.
	DailyCap int `env:"DAILY_CAP" envDefault:"0"`
	// LeaseTTL is how long a claimed delivery may stay in sending before it
	// is considered abandoned and returned to pending.
	LeaseTTL time.Duration `env:"LEASE_TTL" envDefault:"10m"`
	// MaxBatchesPerPass bounds how many batches one campaign may claim in a
	// single pass so busy campaigns do not starve the next poll.
	MaxBatchesPerPass int           `env:"MAX_BATCHES_PER_PASS" envDefault:"10"`
	SendTimeout       time.Duration `env:"SEND_TIMEOUT" envDefault:"30s"`
}

func (c Dispatch) Validate() error {
	if c.PollInterval <= 0 {
		return errors.New("dispatch poll interval must be positive")
	}
	if c.BatchSize <= 0 || c.Workers <= 0 || c.MaxBatchesPerPass <= 0 {
		return errors.New("dispatch batch size, workers and batches per pass must be positive")
	}
	if c.RatePerMinute < 0 || c.DailyCap < 0 {
		return errors.New("dispatch rate and daily cap must not be negative")
	}
	if c.SendTimeout <= 0 {
		return errors.New("dispatch send timeout must be positive")
	}
	if c.LeaseTTL <= c.SendTimeout {
		return errors.New("dispatch lease ttl must exceed the send timeout")
	}
	return nil
}
