package config

import (
	"errors"
	"io"
	"log/slog"

	"github.com/caarlos0/env/v11"

	"studio-campaigns/internal/config/configs"
)

// Config aggregates all configuration sections for the application. Fields
// are populated from environment variables using the caarlos0/env library.
// The nested structs are tagged with envPrefix so their fields are parsed
// with the given prefix. Use Load to construct a Config.
type Config struct {
	// Env names the deployment environment (e.g. prod, dev). It is attached
	// to every log line.
	Env string `env:"ENV" envDefault:"prod"`

	HTTP      configs.HTTP      `envPrefix:"HTTP_"`
	Log       configs.Logger    `envPrefix:"LOG_"`
	Store     configs.Store     `envPrefix:"STORE_"`
	Psql      configs.Postgres  `envPrefix:"PSQL_"`
	Dispatch  configs.Dispatch  `envPrefix:"DISPATCH_"`
	Retry     configs.Retry     `envPrefix:"RETRY_"`
	Mailer    configs.Mailer    `envPrefix:"MAILER_"`
	Templates configs.Templates `envPrefix:"TEMPLATES_"`
}

// Load reads configuration from environment variables into a Config and
// validates every section.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	return errors.Join(
		c.Store.Validate(),
		c.Dispatch.Validate(),
		c.Retry.Validate(),
		c.Mailer.Validate(),
	)
}

// Logger builds the process logger on w with the environment name on every
// line.
func (c Config) Logger(w io.Writer) *slog.Logger {
	return c.Log.New(w).With(slog.String("env", c.Env))
}
