package httpadapter

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"tubemetrics/internal/core/port"
)

// errorResponse is the structured error envelope of the API.
type errorResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	ErrorCode string `json:"error_code"`
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("encode response error", slog.Any("error", err))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, code, msg string) {
	h.writeJSON(w, status, errorResponse{Status: "error", Message: msg, ErrorCode: code})
}

// respondError maps usecase errors onto HTTP statuses. Inactive links get
// 410 instead of 404 so callers can tell "never existed" from "was removed".
func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, port.ErrInvalidInput):
		h.writeError(w, http.StatusBadRequest, "validation_error", err.Error())
	case errors.Is(err, port.ErrLinkNotFound):
		h.writeError(w, http.StatusNotFound, "not_found", "UTM link not found")
	case errors.Is(err, port.ErrVideoNotFound):
		h.writeError(w, http.StatusNotFound, "not_found", "video not found")
	case errors.Is(err, port.ErrLinkInactive):
		h.writeError(w, http.StatusGone, "link_inactive", "UTM link is no longer active")
	case errors.Is(err, port.ErrSlugExhausted):
		h.logger.Error("slug generation exhausted", slog.Any("error", err))
		h.writeError(w, http.StatusInternalServerError, "slug_exhausted", "could not allocate a unique slug")
	default:
		h.logger.Error("internal error", slog.Any("error", err))
		h.writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}

// validationMessage flattens validator errors into one caller-facing line.
func validationMessage(errs validator.ValidationErrors) string {
	msgs := make([]string, 0, len(errs))
	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("field %s is required", err.Field()))
		case "url":
			msgs = append(msgs, fmt.Sprintf("field %s is not a valid URL", err.Field()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("field %s must be one of: %s", err.Field(), err.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("field %s is not valid", err.Field()))
		}
	}
	return strings.Join(msgs, ", ")
}
