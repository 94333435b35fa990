package httpadapter

import (
	"net/http"

	"tubemetrics/internal/core/domain"
	"tubemetrics/internal/core/port"
)

type bulkFailureJSON struct {
	VideoID string `json:"video_id"`
	Error   string `json:"error"`
}

type bulkGenerateResponse struct {
	Status               string            `json:"status"`
	TotalVideosProcessed int               `json:"total_videos_processed"`
	TotalLinksGenerated  int               `json:"total_links_generated"`
	Failures             []bulkFailureJSON `json:"failures"`
}

// handleBulkGenerate creates one link per catalog video with the shared
// query parameters. Partial success is the expected outcome; per-video
// failures are listed in the response.
func (h *Handler) handleBulkGenerate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	res, err := h.svc.BulkGenerate(r.Context(), port.BulkGenerateReq{
		DestinationURL: q.Get("destination_url"),
		TrackingType:   domain.TrackingType(q.Get("tracking_type")),
		UTMSource:      q.Get("utm_source"),
		UTMMedium:      q.Get("utm_medium"),
		UTMCampaign:    q.Get("utm_campaign"),
	})
	if err != nil {
		h.respondError(w, err)
		return
	}

	failures := make([]bulkFailureJSON, 0, len(res.Failures))
	for _, f := range res.Failures {
		failures = append(failures, bulkFailureJSON{VideoID: f.VideoID, Error: f.Error})
	}
	h.writeJSON(w, http.StatusOK, bulkGenerateResponse{
		Status:               "success",
		TotalVideosProcessed: res.TotalVideosProcessed,
		TotalLinksGenerated:  res.TotalLinksGenerated,
		Failures:             failures,
	})
}

type bulkDeleteResponse struct {
	Status        string `json:"status"`
	DeletedLinks  int64  `json:"deleted_links"`
	DeletedClicks int64  `json:"deleted_clicks"`
}

// handleBulkDelete wipes every link and click event. The literal
// confirm=true query parameter is required as a guard against accidental
// invocation.
func (h *Handler) handleBulkDelete(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("confirm") != "true" {
		h.writeError(w, http.StatusBadRequest, "confirmation_required", "pass confirm=true to delete all UTM links")
		return
	}

	res, err := h.svc.DeleteAllLinks(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, bulkDeleteResponse{
		Status:        "success",
		DeletedLinks:  res.DeletedLinks,
		DeletedClicks: res.DeletedClicks,
	})
}
