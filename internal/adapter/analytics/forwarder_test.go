package analytics

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tubemetrics/internal/config/configs"
	"tubemetrics/internal/core/domain"
)

func sampleClick() (*domain.UTMLink, *domain.ClickEvent) {
	ua := "Mozilla/5.0"
	ref := "https://youtube.com/watch?v=dQw4w9WgXcQ"
	link := &domain.UTMLink{
		ID:             7,
		VideoID:        "dQw4w9WgXcQ",
		DestinationURL: "https://skool.com/page",
		UTMSource:      "youtube",
		UTMMedium:      "video",
		UTMCampaign:    "dQw4w9WgXcQ",
		TrackingType:   domain.TrackingDirectPostHog,
		TrackingURL:    "https://skool.com/page?utm_source=youtube",
	}
	ev := &domain.ClickEvent{
		UTMLinkID: 7,
		ClickedAt: time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC),
		UserAgent: &ua,
		Referrer:  &ref,
	}
	return link, ev
}

func TestPostHogForwardClick(t *testing.T) {
	var captured map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/capture/", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	f := NewPostHogForwarder(configs.PostHog{APIKey: "phc_test", Host: srv.URL})
	link, ev := sampleClick()
	require.NoError(t, f.ForwardClick(context.Background(), link, ev))

	assert.Equal(t, "phc_test", captured["api_key"])
	assert.Equal(t, "utm_link_click", captured["event"])
	assert.NotEmpty(t, captured["distinct_id"])

	props, ok := captured["properties"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "youtube", props["utm_source"])
	assert.Equal(t, "dQw4w9WgXcQ", props["video_id"])
	assert.Equal(t, "Mozilla/5.0", props["$user_agent"])
}

func TestPostHogForwardClickServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	f := NewPostHogForwarder(configs.PostHog{APIKey: "phc_test", Host: srv.URL})
	link, ev := sampleClick()
	assert.Error(t, f.ForwardClick(context.Background(), link, ev))
}

func TestGA4ForwardClick(t *testing.T) {
	var captured map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "m-123", r.URL.Query().Get("measurement_id"))
		assert.Equal(t, "secret", r.URL.Query().Get("api_secret"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	f := NewGA4Forwarder(configs.GA4{MeasurementID: "m-123", APISecret: "secret", Endpoint: srv.URL})
	link, ev := sampleClick()
	require.NoError(t, f.ForwardClick(context.Background(), link, ev))

	assert.NotEmpty(t, captured["client_id"])
	events, ok := captured["events"].([]any)
	require.True(t, ok)
	require.Len(t, events, 1)
	event := events[0].(map[string]any)
	assert.Equal(t, "utm_link_click", event["name"])
	params := event["params"].(map[string]any)
	assert.Equal(t, "youtube", params["source"])
	assert.Equal(t, "dQw4w9WgXcQ", params["campaign"])
}
