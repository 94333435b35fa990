package usecase

import (
	"net/url"

	"tubemetrics/internal/core/domain"
)

// buildTrackingURL merges the link's UTM parameters into the destination's
// query string. Existing non-UTM parameters are preserved; UTM keys replace
// any same-named existing ones. Optional dimensions are only emitted when
// present and non-empty, so an absent utm_content never produces an empty
// "utm_content=" pair.
func buildTrackingURL(link *domain.UTMLink) (string, error) {
	u, err := url.Parse(link.DestinationURL)
	if err != nil {
		return "", err
	}

	q := u.Query()
	q.Set("utm_source", link.UTMSource)
	q.Set("utm_medium", link.UTMMedium)
	q.Set("utm_campaign", link.UTMCampaign)
	if link.UTMContent != nil && *link.UTMContent != "" {
		q.Set("utm_content", *link.UTMContent)
	}
	if link.UTMTerm != nil && *link.UTMTerm != "" {
		q.Set("utm_term", *link.UTMTerm)
	}
	u.RawQuery = q.Encode()

	return u.String(), nil
}
