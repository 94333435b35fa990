package domain

import (
	"fmt"
	"time"
)

// TrackingType selects how the shareable URL for a link is constructed and
// who observes the click. It is fixed at creation time.
type TrackingType string

const (
	// TrackingServerRedirect routes every visitor through our own /go/{slug}
	// endpoint before forwarding to the destination, so clicks are counted
	// first-party.
	TrackingServerRedirect TrackingType = "server_redirect"
	// TrackingDirectGA4 hands the visitor the destination URL with UTM
	// parameters attached; attribution happens in Google Analytics 4.
	TrackingDirectGA4 TrackingType = "direct_ga4"
	// TrackingDirectPostHog hands the visitor the destination URL with UTM
	// parameters attached; attribution happens in PostHog.
	TrackingDirectPostHog TrackingType = "direct_posthog"
)

// Valid reports whether t is one of the three supported tracking types.
func (t TrackingType) Valid() bool {
	switch t {
	case TrackingServerRedirect, TrackingDirectGA4, TrackingDirectPostHog:
		return true
	}
	return false
}

// Direct reports whether the visitor goes straight to the destination,
// bypassing our redirect endpoint.
func (t TrackingType) Direct() bool {
	return t == TrackingDirectGA4 || t == TrackingDirectPostHog
}

// UTMLink is a campaign-tagged redirect definition for one YouTube video.
// DestinationURL, TrackingType and the UTM dimensions are immutable after
// creation; only ClickCount, LastClicked and IsActive change afterwards.
type UTMLink struct {
	ID             int64
	VideoID        string
	DestinationURL string
	UTMSource      string
	UTMMedium      string
	UTMCampaign    string
	UTMContent     *string
	UTMTerm        *string
	TrackingType   TrackingType
	// TrackingURL is the destination URL with the UTM parameters merged into
	// its query string. It is computed once at creation and is what every
	// visitor ultimately lands on, regardless of tracking type.
	TrackingURL string
	// PrettySlug is set only for server_redirect links. It is unique across
	// all links, active or not, so a shared short URL can never be hijacked
	// by a later link.
	PrettySlug  *string
	ClickCount  int64
	LastClicked *time.Time
	IsActive    bool
	CreatedAt   time.Time
}

// ShareableURL returns the URL the creator should paste into a video
// description. Server-redirect links get the short branded path on baseURL;
// direct links get the destination with UTM parameters attached.
func (l *UTMLink) ShareableURL(baseURL string) string {
	if l.TrackingType.Direct() {
		return l.TrackingURL
	}
	return l.ShortURL(baseURL)
}

// ShortURL returns the server-side redirect URL for the link, preferring the
// pretty slug over the numeric id form.
func (l *UTMLink) ShortURL(baseURL string) string {
	if l.PrettySlug != nil && *l.PrettySlug != "" {
		return fmt.Sprintf("%s/api/v1/go/%s", baseURL, *l.PrettySlug)
	}
	return fmt.Sprintf("%s/api/v1/r/%d", baseURL, l.ID)
}
