package config

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, uint16(8080), cfg.HTTP.Port)
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, 5*time.Second, cfg.Dispatch.PollInterval)
	assert.Equal(t, 100, cfg.Dispatch.BatchSize)
	assert.Equal(t, 16, cfg.Dispatch.Workers)
	assert.Equal(t, 24*time.Hour, cfg.Retry.Cooldown)
	assert.Equal(t, 3, cfg.Retry.DefaultMaxRetries)
	assert.Equal(t, "simulated", cfg.Mailer.Driver)
	assert.Equal(t, slog.LevelInfo, cfg.Log.SlogLevel())
	assert.Equal(t, "text", cfg.Log.SlogFormat())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("STORE_DRIVER", "sqlite")
	t.Setenv("DISPATCH_WORKERS", "4")
	t.Setenv("DISPATCH_DAILY_CAP", "1000")
	t.Setenv("RETRY_COOLDOWN", "2h")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, 4, cfg.Dispatch.Workers)
	assert.Equal(t, 1000, cfg.Dispatch.DailyCap)
	assert.Equal(t, 2*time.Hour, cfg.Retry.Cooldown)
	assert.Equal(t, slog.LevelDebug, cfg.Log.SlogLevel())
	assert.Equal(t, "json", cfg.Log.SlogFormat())
}

func TestLoadRejectsInvalidSections(t *testing.T) {
	t.Setenv("STORE_DRIVER", "mysql")
	t.Setenv("DISPATCH_WORKERS", "0")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown store driver")
	assert.Contains(t, err.Error(), "workers")
}

func TestDispatchLeaseMustExceedSendTimeout(t *testing.T) {
	t.Setenv("DISPATCH_LEASE_TTL", "10s")
	t.Setenv("DISPATCH_SEND_TIMEOUT", "30s")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lease ttl")
}

func TestDispatchSendTimeoutMustBePositive(t *testing.T) {
	t.Setenv("DISPATCH_SEND_TIMEOUT", "0s")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "send timeout")
}

func TestLoggerTagsEnvironment(t *testing.T) {
	t.Setenv("ENV", "staging")
	t.Setenv("LOG_FORMAT", "json")
	cfg, err := Load()
	require.NoError(t, err)

	var buf bytes.Buffer
	cfg.Logger(&buf).Info("hello")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "staging", line["env"])
	assert.Equal(t, "hello", line["msg"])
}
