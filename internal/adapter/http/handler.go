package httpadapter

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"tubemetrics/internal/core/port"
)

// Handler is the inbound HTTP adapter. It holds the link usecase, a logger,
// a request validator and the public base URL shareable short links are
// rendered with.
type Handler struct {
	svc      port.LinkUseCase
	logger   *slog.Logger
	validate *validator.Validate
	baseURL  string
	router   chi.Router
}

// NewHandler creates a handler with all routes configured on a fresh
// chi.Router.
func NewHandler(svc port.LinkUseCase, logger *slog.Logger, baseURL string) *Handler {
	h := &Handler{
		svc:      svc,
		logger:   logger,
		validate: validator.New(),
		baseURL:  baseURL,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/utm-links", func(r chi.Router) {
			r.Post("/", h.handleCreateLink)
			r.Get("/", h.handleListLinks)
			r.Delete("/{id}", h.handleDeleteLink)
			r.Post("/{id}/click", h.handleTestClick)
			r.Get("/{id}/analytics", h.handleLinkAnalytics)
		})

		// redirect hot path: pretty slug form and legacy numeric id form
		r.Get("/go/{slug}", h.handleRedirectBySlug)
		r.Get("/r/{id}", h.handleRedirectByID)

		r.Route("/utm", func(r chi.Router) {
			r.Post("/bulk-generate", h.handleBulkGenerate)
			r.Delete("/bulk-delete", h.handleBulkDelete)
		})

		r.Get("/videos/{videoID}/link-performance", h.handleVideoPerformance)
	})

	h.router = r
	return h
}

// Router returns the underlying http.Handler.
func (h *Handler) Router() http.Handler {
	return h.router
}
