package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrackingTypeValid(t *testing.T) {
	assert.True(t, TrackingServerRedirect.Valid())
	assert.True(t, TrackingDirectGA4.Valid())
	assert.True(t, TrackingDirectPostHog.Valid())
	assert.False(t, TrackingType("").Valid())
	assert.False(t, TrackingType("pixel").Valid())
}

func TestShareableURL(t *testing.T) {
	slug := "skool-page-abc123"
	base := "https://links.example.com"

	server := UTMLink{
		ID:           7,
		TrackingType: TrackingServerRedirect,
		TrackingURL:  "https://skool.com/page?utm_source=youtube",
		PrettySlug:   &slug,
	}
	assert.Equal(t, "https://links.example.com/api/v1/go/skool-page-abc123", server.ShareableURL(base))

	// a server_redirect link without a slug falls back to the id form
	server.PrettySlug = nil
	assert.Equal(t, "https://links.example.com/api/v1/r/7", server.ShareableURL(base))

	direct := UTMLink{
		ID:           8,
		TrackingType: TrackingDirectPostHog,
		TrackingURL:  "https://skool.com/page?utm_source=youtube",
	}
	assert.Equal(t, direct.TrackingURL, direct.ShareableURL(base),
		"direct links never route through the redirector")
}
