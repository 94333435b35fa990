package port

import (
	"context"

	"tubemetrics/internal/core/domain"
)

// ClickForwarder pushes a recorded click to an external analytics backend
// (PostHog, GA4). Forwarding is strictly best-effort: errors are logged by
// the caller and never influence the visitor-facing outcome.
type ClickForwarder interface {
	// Name identifies the backend in logs.
	Name() string
	// ForwardClick sends one click event. The context carries the deadline.
	ForwardClick(ctx context.Context, link *domain.UTMLink, ev *domain.ClickEvent) error
}
