package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"tubemetrics/internal/config/configs"
	"tubemetrics/internal/core/domain"
)

// PostHogForwarder sends utm_link_click events to the PostHog capture
// endpoint. Each click is attributed to a fresh anonymous distinct id; this
// core never identifies visitors.
type PostHogForwarder struct {
	client *http.Client
	host   string
	apiKey string
}

// NewPostHogForwarder builds a forwarder from configuration. Callers should
// only construct one when cfg.Enabled() is true.
func NewPostHogForwarder(cfg configs.PostHog) *PostHogForwarder {
	return &PostHogForwarder{
		client: &http.Client{Timeout: 10 * time.Second},
		host:   strings.TrimSuffix(cfg.Host, "/"),
		apiKey: cfg.APIKey,
	}
}

// Name identifies the backend in logs.
func (f *PostHogForwarder) Name() string { return "posthog" }

// ForwardClick captures one utm_link_click event.
func (f *PostHogForwarder) ForwardClick(ctx context.Context, link *domain.UTMLink, ev *domain.ClickEvent) error {
	props := map[string]any{
		"utm_source":    link.UTMSource,
		"utm_medium":    link.UTMMedium,
		"utm_campaign":  link.UTMCampaign,
		"link_url":      link.DestinationURL,
		"video_id":      link.VideoID,
		"link_id":       strconv.FormatInt(link.ID, 10),
		"tracking_type": string(link.TrackingType),
		"$current_url":  link.DestinationURL,
	}
	if link.UTMContent != nil {
		props["utm_content"] = *link.UTMContent
	}
	if link.UTMTerm != nil {
		props["utm_term"] = *link.UTMTerm
	}
	if ev.UserAgent != nil {
		props["$user_agent"] = *ev.UserAgent
	}
	if ev.IPAddress != nil {
		props["$ip"] = *ev.IPAddress
	}
	if ev.Referrer != nil {
		props["$referrer"] = *ev.Referrer
	}

	payload := map[string]any{
		"api_key":     f.apiKey,
		"event":       "utm_link_click",
		"distinct_id": uuid.NewString(),
		"timestamp":   ev.ClickedAt.Format(time.RFC3339),
		"properties":  props,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.host+"/capture/", bytes.NewReader(body))
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
		return fmt.Errorf("posthog capture returned %s", resp.Status)
	}
	return nil
}
