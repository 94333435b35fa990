package httpadapter

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"tubemetrics/internal/core/domain"
	"tubemetrics/internal/core/port"
)

type createLinkRequest struct {
	VideoID        string  `json:"video_id" validate:"required"`
	DestinationURL string  `json:"destination_url" validate:"required,url"`
	UTMContent     *string `json:"utm_content,omitempty"`
	UTMTerm        *string `json:"utm_term,omitempty"`
	TrackingType   string  `json:"tracking_type,omitempty" validate:"omitempty,oneof=server_redirect direct_ga4 direct_posthog"`
}

// linkResponse is the wire shape of a UTM link.
type linkResponse struct {
	ID             int64      `json:"id"`
	VideoID        string     `json:"video_id"`
	DestinationURL string     `json:"destination_url"`
	UTMSource      string     `json:"utm_source"`
	UTMMedium      string     `json:"utm_medium"`
	UTMCampaign    string     `json:"utm_campaign"`
	UTMContent     *string    `json:"utm_content,omitempty"`
	UTMTerm        *string    `json:"utm_term,omitempty"`
	TrackingURL    string     `json:"tracking_url"`
	PrettySlug     *string    `json:"pretty_slug,omitempty"`
	TrackingType   string     `json:"tracking_type"`
	ShareableURL   string     `json:"shareable_url"`
	ClickCount     int64      `json:"click_count"`
	CreatedAt      time.Time  `json:"created_at"`
	IsActive       bool       `json:"is_active"`
	LastClicked    *time.Time `json:"last_clicked,omitempty"`
}

func (h *Handler) linkJSON(l *domain.UTMLink) linkResponse {
	return linkResponse{
		ID:             l.ID,
		VideoID:        l.VideoID,
		DestinationURL: l.DestinationURL,
		UTMSource:      l.UTMSource,
		UTMMedium:      l.UTMMedium,
		UTMCampaign:    l.UTMCampaign,
		UTMContent:     l.UTMContent,
		UTMTerm:        l.UTMTerm,
		TrackingURL:    l.TrackingURL,
		PrettySlug:     l.PrettySlug,
		TrackingType:   string(l.TrackingType),
		ShareableURL:   l.ShareableURL(h.baseURL),
		ClickCount:     l.ClickCount,
		CreatedAt:      l.CreatedAt,
		IsActive:       l.IsActive,
		LastClicked:    l.LastClicked,
	}
}

// handleCreateLink creates a UTM link and returns it with the computed
// shareable URL. 201 on success, 400 with a message on validation failure.
func (h *Handler) handleCreateLink(w http.ResponseWriter, r *http.Request) {
	var req createLinkRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_body", "invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		var vErrs validator.ValidationErrors
		errors.As(err, &vErrs)
		h.writeError(w, http.StatusBadRequest, "validation_error", validationMessage(vErrs))
		return
	}

	link, err := h.svc.CreateLink(r.Context(), port.CreateLinkReq{
		VideoID:        req.VideoID,
		DestinationURL: req.DestinationURL,
		UTMContent:     req.UTMContent,
		UTMTerm:        req.UTMTerm,
		TrackingType:   domain.TrackingType(req.TrackingType),
	})
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, h.linkJSON(link))
}

type listLinksResponse struct {
	Status     string         `json:"status"`
	Timestamp  time.Time      `json:"timestamp"`
	TotalLinks int            `json:"total_links"`
	Links      []linkResponse `json:"links"`
}

// handleListLinks returns links, optionally filtered by video_id and
// activity, with defensive limit/offset pagination.
func (h *Handler) handleListLinks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	f := port.LinkFilter{
		VideoID:    q.Get("video_id"),
		ActiveOnly: true,
	}
	if v := q.Get("active_only"); v != "" {
		activeOnly, err := strconv.ParseBool(v)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "validation_error", "invalid active_only")
			return
		}
		f.ActiveOnly = activeOnly
	}
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 1 {
			h.writeError(w, http.StatusBadRequest, "validation_error", "invalid limit")
			return
		}
		f.Limit = limit
	}
	if v := q.Get("offset"); v != "" {
		offset, err := strconv.Atoi(v)
		if err != nil || offset < 0 {
			h.writeError(w, http.StatusBadRequest, "validation_error", "invalid offset")
			return
		}
		f.Offset = offset
	}

	links, err := h.svc.ListLinks(r.Context(), f)
	if err != nil {
		h.respondError(w, err)
		return
	}

	out := make([]linkResponse, 0, len(links))
	for i := range links {
		out = append(out, h.linkJSON(&links[i]))
	}
	h.writeJSON(w, http.StatusOK, listLinksResponse{
		Status:     "success",
		Timestamp:  time.Now().UTC(),
		TotalLinks: len(out),
		Links:      out,
	})
}

// handleDeleteLink removes a link and its click events. 404 when the id
// does not exist; a missing link is never silently ignored.
func (h *Handler) handleDeleteLink(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "validation_error", "invalid link id")
		return
	}

	if err := h.svc.DeleteLink(r.Context(), id); err != nil {
		h.respondError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "UTM link deleted",
	})
}
