package config

import (
	"github.com/caarlos0/env/v11"

	"tubemetrics/internal/config/configs"
)

// Config aggregates all configuration sections of the service. Fields are
// populated from environment variables via the caarlos0/env library; the
// nested structs carry envPrefix tags so their fields are parsed with the
// given prefix. Use Load to construct one.
type Config struct {
	// Env names the deployment environment (prod, dev). Informational only.
	Env string `env:"ENV" envDefault:"prod"`

	// HTTP configures the HTTP server (HTTP_ prefix).
	HTTP configs.HTTP `envPrefix:"HTTP_"`

	// Log configures the structured logger (LOG_ prefix).
	Log configs.Logger `envPrefix:"LOG_"`

	// Psql configures the PostgreSQL connection (PSQL_ prefix).
	Psql configs.Postgres `envPrefix:"PSQL_"`

	// Tracking configures link generation: the public base URL short links
	// are built on and the default tracking type (TRACKING_ prefix).
	Tracking configs.Tracking `envPrefix:"TRACKING_"`

	// PostHog configures best-effort click forwarding to PostHog
	// (POSTHOG_ prefix). Disabled when no API key is set.
	PostHog configs.PostHog `envPrefix:"POSTHOG_"`

	// GA4 configures best-effort click forwarding to the GA4 Measurement
	// Protocol (GA4_ prefix). Disabled when credentials are missing.
	GA4 configs.GA4 `envPrefix:"GA4_"`
}

// Load reads configuration from environment variables into a Config,
// applying the declared defaults where no variable is set.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
