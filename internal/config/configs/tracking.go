package configs

import "tubemetrics/internal/core/domain"

// Tracking configures how shareable link URLs are assembled.
type Tracking struct {
	// BaseURL is the public origin short redirect URLs are built on, without
	// a trailing slash (e.g. https://links.example.com).
	BaseURL string `env:"BASE_URL" envDefault:"http://localhost:8080"`

	// DefaultType is the tracking type applied when a create request omits
	// one. The source UIs disagreed between direct_ga4 and direct_posthog;
	// direct_posthog is the documented choice here.
	DefaultType string `env:"DEFAULT_TYPE" envDefault:"direct_posthog"`

	// SlugMaxAttempts bounds the collision retry loop of pretty slug
	// generation. Exceeding it is treated as a capacity fault.
	SlugMaxAttempts int `env:"SLUG_MAX_ATTEMPTS" envDefault:"100"`
}

// DefaultTrackingType returns the configured default as a domain value,
// falling back to direct_posthog on an unrecognised setting.
func (c Tracking) DefaultTrackingType() domain.TrackingType {
	t := domain.TrackingType(c.DefaultType)
	if !t.Valid() {
		return domain.TrackingDirectPostHog
	}
	return t
}
