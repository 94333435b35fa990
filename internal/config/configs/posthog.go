package configs

// PostHog configures the PostHog click forwarder. Forwarding is off unless
// an API key is provided.
type PostHog struct {
	// APIKey is the PostHog project API key.
	APIKey string `env:"API_KEY"`
	// Host is the PostHog ingestion origin.
	Host string `env:"HOST" envDefault:"https://us.posthog.com"`
}

// Enabled reports whether click forwarding to PostHog is configured.
func (c PostHog) Enabled() bool {
	return c.APIKey != ""
}
