package configs

import (
	"errors"
	"time"
)

// Retry tunes the automatic retry scheduler.
type Retry struct {
	PollInterval time.Duration `env:"POLL_INTERVAL" envDefault:"1m"`
	// Cooldown is the wait between a campaign finishing with failures and
	// its next automatic retry.
	Cooldown          time.Duration `env:"COOLDOWN" envDefault:"24h"`
	DefaultMaxRetries int           `env:"DEFAULT_MAX_RETRIES" envDefault:"3"`
	// BatchSize bounds how many campaigns one pass reopens.
	BatchSize int `env:"BATCH_SIZE" envDefault:"20"`
}

func (c Retry) Validate() error {
	if c.PollInterval <= 0 || c.Cooldown <= 0 {
		return errors.New("retry poll interval and cooldown must be positive")
	}
	if c.DefaultMaxRetries < 0 || c.BatchSize <= 0 {
		return errors.New("retry max retries must not be negative and batch size must be positive")
	}
	return nil
}
