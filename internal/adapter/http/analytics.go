package httpadapter

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
)

type dailyClicksJSON struct {
	Date   string `json:"date"`
	Clicks int64  `json:"clicks"`
}

type linkAnalyticsResponse struct {
	UTMLinkID      int64             `json:"utm_link_id"`
	VideoID        string            `json:"video_id"`
	DestinationURL string            `json:"destination_url"`
	TrackingURL    string            `json:"tracking_url"`
	TotalClicks    int64             `json:"total_clicks"`
	RecentClicks   int64             `json:"recent_clicks"`
	DailyClicks    []dailyClicksJSON `json:"daily_clicks"`
	CreatedAt      time.Time         `json:"created_at"`
	IsActive       bool              `json:"is_active"`
}

// handleLinkAnalytics reports click totals and a daily series for one link
// over the last days_back days (default 30).
func (h *Handler) handleLinkAnalytics(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "validation_error", "invalid link id")
		return
	}

	daysBack := 30
	if v := r.URL.Query().Get("days_back"); v != "" {
		daysBack, err = strconv.Atoi(v)
		if err != nil || daysBack < 1 || daysBack > 365 {
			h.writeError(w, http.StatusBadRequest, "validation_error", "days_back must be between 1 and 365")
			return
		}
	}

	a, err := h.svc.LinkAnalytics(r.Context(), id, daysBack)
	if err != nil {
		h.respondError(w, err)
		return
	}

	daily := make([]dailyClicksJSON, 0, len(a.Daily))
	for _, d := range a.Daily {
		daily = append(daily, dailyClicksJSON{Date: d.Date, Clicks: d.Clicks})
	}
	h.writeJSON(w, http.StatusOK, linkAnalyticsResponse{
		UTMLinkID:      a.UTMLinkID,
		VideoID:        a.VideoID,
		DestinationURL: a.DestinationURL,
		TrackingURL:    a.TrackingURL,
		TotalClicks:    a.TotalClicks,
		RecentClicks:   a.RecentClicks,
		DailyClicks:    daily,
		CreatedAt:      a.CreatedAt,
		IsActive:       a.IsActive,
	})
}

type videoPerformanceResponse struct {
	VideoID          string         `json:"video_id"`
	VideoTitle       string         `json:"video_title"`
	VideoViews       int64          `json:"video_views"`
	TotalLinks       int            `json:"total_links"`
	TotalClicks      int64          `json:"total_clicks"`
	ClickThroughRate float64        `json:"click_through_rate"`
	Links            []linkResponse `json:"links"`
}

// handleVideoPerformance reports all links of one video and the aggregate
// click-through rate against its synced view count.
func (h *Handler) handleVideoPerformance(w http.ResponseWriter, r *http.Request) {
	videoID := chi.URLParam(r, "videoID")

	p, err := h.svc.VideoLinkPerformance(r.Context(), videoID)
	if err != nil {
		h.respondError(w, err)
		return
	}

	links := make([]linkResponse, 0, len(p.Links))
	for i := range p.Links {
		links = append(links, h.linkJSON(&p.Links[i]))
	}
	h.writeJSON(w, http.StatusOK, videoPerformanceResponse{
		VideoID:          p.VideoID,
		VideoTitle:       p.VideoTitle,
		VideoViews:       p.VideoViews,
		TotalLinks:       p.TotalLinks,
		TotalClicks:      p.TotalClicks,
		ClickThroughRate: p.ClickThroughRate,
		Links:            links,
	})
}
