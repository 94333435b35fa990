package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"tubemetrics/internal/config/configs"
	"tubemetrics/internal/core/domain"
)

// GA4Forwarder sends utm_link_click events to the Google Analytics 4
// Measurement Protocol. Like the PostHog forwarder it uses a throwaway
// client id per click.
type GA4Forwarder struct {
	client        *http.Client
	endpoint      string
	measurementID string
	apiSecret     string
}

// NewGA4Forwarder builds a forwarder from configuration. Callers should only
// construct one when cfg.Enabled() is true.
func NewGA4Forwarder(cfg configs.GA4) *GA4Forwarder {
	return &GA4Forwarder{
		client:        &http.Client{Timeout: 10 * time.Second},
		endpoint:      cfg.Endpoint,
		measurementID: cfg.MeasurementID,
		apiSecret:     cfg.APISecret,
	}
}

// Name identifies the backend in logs.
func (f *GA4Forwarder) Name() string { return "ga4" }

// ForwardClick posts one utm_link_click event to /mp/collect.
func (f *GA4Forwarder) ForwardClick(ctx context.Context, link *domain.UTMLink, ev *domain.ClickEvent) error {
	params := map[string]any{
		"source":        link.UTMSource,
		"medium":        link.UTMMedium,
		"campaign":      link.UTMCampaign,
		"link_url":      link.DestinationURL,
		"video_id":      link.VideoID,
		"link_id":       link.ID,
		"tracking_type": string(link.TrackingType),
	}
	if link.UTMContent != nil {
		params["content"] = *link.UTMContent
	}
	if link.UTMTerm != nil {
		params["term"] = *link.UTMTerm
	}
	if ev.Referrer != nil {
		params["page_referrer"] = *ev.Referrer
	}

	payload := map[string]any{
		"client_id": uuid.NewString(),
		"events": []map[string]any{{
			"name":   "utm_link_click",
			"params": params,
		}},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	q := url.Values{}
	q.Set("measurement_id", f.measurementID)
	q.Set("api_secret", f.apiSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.endpoint+"?"+q.Encode(), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("ga4 collect returned %s", resp.Status)
	}
	return nil
}
