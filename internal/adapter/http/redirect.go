package httpadapter

import (
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"tubemetrics/internal/core/port"
)

// handleRedirectBySlug serves the short branded redirect path. It resolves
// the slug, records the click and answers 302 to the destination with UTM
// parameters attached. 404 for unknown slugs, 410 for deactivated links.
func (h *Handler) handleRedirectBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if slug == "" {
		h.writeError(w, http.StatusNotFound, "not_found", "UTM link not found")
		return
	}
	h.redirect(w, r, port.LinkRef{Slug: slug})
}

// handleRedirectByID is the legacy numeric-id redirect form with the same
// semantics as the slug form.
func (h *Handler) handleRedirectByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.writeError(w, http.StatusNotFound, "not_found", "UTM link not found")
		return
	}
	h.redirect(w, r, port.LinkRef{ID: id})
}

func (h *Handler) redirect(w http.ResponseWriter, r *http.Request, ref port.LinkRef) {
	dest, err := h.svc.ResolveRedirect(r.Context(), ref, clickMetaFromRequest(r))
	if err != nil {
		h.respondError(w, err)
		return
	}
	http.Redirect(w, r, dest, http.StatusFound)
}

type testClickRequest struct {
	UTMLinkID int64   `json:"utm_link_id"`
	UserAgent *string `json:"user_agent,omitempty"`
	Referrer  *string `json:"referrer,omitempty"`
}

// handleTestClick records a click without a redirect, for verification and
// debugging, and returns the updated link. Body fields win over request
// headers when both are present.
func (h *Handler) handleTestClick(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "validation_error", "invalid link id")
		return
	}

	// body is optional; ignore decode failures on an empty body
	var req testClickRequest
	_ = render.DecodeJSON(r.Body, &req)

	meta := clickMetaFromRequest(r)
	if req.UserAgent != nil {
		meta.UserAgent = *req.UserAgent
	}
	if req.Referrer != nil {
		meta.Referrer = *req.Referrer
	}

	link, err := h.svc.RecordTestClick(r.Context(), id, meta)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, h.linkJSON(link))
}

// clickMetaFromRequest pulls best-effort telemetry off the inbound request.
// Every field may come back empty; absence never fails a click.
func clickMetaFromRequest(r *http.Request) port.ClickMeta {
	return port.ClickMeta{
		IPAddress: clientIP(r),
		UserAgent: r.UserAgent(),
		Referrer:  r.Referer(),
	}
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.Index(fwd, ","); i > 0 {
			return strings.TrimSpace(fwd[:i])
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
