package port

import (
	"context"
	"errors"
	"time"

	"tubemetrics/internal/core/domain"
)

var (
	// ErrInvalidInput marks a validation failure on caller-supplied data.
	// Wrapped errors carry the specific message.
	ErrInvalidInput = errors.New("invalid input")
	// ErrLinkInactive is returned when a deactivated link is resolved. It is
	// distinct from ErrLinkNotFound so the HTTP layer can answer 410 instead
	// of 404.
	ErrLinkInactive = errors.New("utm link is inactive")
	// ErrSlugExhausted means slug collision retries ran out. It indicates an
	// operator-level capacity problem, not a caller mistake.
	ErrSlugExhausted = errors.New("slug generation attempts exhausted")
)

// CreateLinkReq carries the inputs of link creation. The UTM overrides are
// used by bulk generation; when empty the standard defaults apply.
type CreateLinkReq struct {
	VideoID        string
	DestinationURL string
	UTMContent     *string
	UTMTerm        *string
	// TrackingType may be empty, in which case the configured default is used.
	TrackingType domain.TrackingType

	UTMSource   string
	UTMMedium   string
	UTMCampaign string
}

// LinkRef identifies a link by pretty slug or by numeric id. Exactly one of
// the two fields is set.
type LinkRef struct {
	Slug string
	ID   int64
}

// ClickMeta is the optional request telemetry captured with a click. Empty
// strings mean "not available".
type ClickMeta struct {
	IPAddress string
	UserAgent string
	Referrer  string
}

// BulkFailure reports one video whose link creation failed during a bulk run.
type BulkFailure struct {
	VideoID string
	Error   string
}

// BulkGenerateReq carries the shared parameters of a bulk link run.
type BulkGenerateReq struct {
	DestinationURL string
	TrackingType   domain.TrackingType
	UTMSource      string
	UTMMedium      string
	UTMCampaign    string
}

// BulkGenerateResult summarises a bulk run. Failures never abort the batch.
type BulkGenerateResult struct {
	TotalVideosProcessed int
	TotalLinksGenerated  int
	Failures             []BulkFailure
}

// BulkDeleteResult reports how many rows a full wipe removed.
type BulkDeleteResult struct {
	DeletedLinks  int64
	DeletedClicks int64
}

// LinkAnalytics is the click report for a single link.
type LinkAnalytics struct {
	UTMLinkID      int64
	VideoID        string
	DestinationURL string
	TrackingURL    string
	TotalClicks    int64
	RecentClicks   int64
	Daily          []DailyClicks
	CreatedAt      time.Time
	IsActive       bool
}

// VideoPerformance aggregates link traffic for one video against its view
// count.
type VideoPerformance struct {
	VideoID          string
	VideoTitle       string
	VideoViews       int64
	TotalLinks       int
	TotalClicks      int64
	ClickThroughRate float64
	Links            []domain.UTMLink
}

// LinkUseCase is the primary port into the link registry and click
// redirector.
type LinkUseCase interface {
	// CreateLink validates the request, assembles the UTM tracking URL,
	// generates a unique pretty slug for server_redirect links and persists
	// the record.
	CreateLink(ctx context.Context, req CreateLinkReq) (*domain.UTMLink, error)

	// ListLinks returns links matching the filter, newest first.
	ListLinks(ctx context.Context, f LinkFilter) ([]domain.UTMLink, error)

	// DeleteLink removes the link and its click events. ErrLinkNotFound when
	// the id does not exist; a missing id is never a silent no-op.
	DeleteLink(ctx context.Context, id int64) error

	// DeleteAllLinks wipes the whole registry.
	DeleteAllLinks(ctx context.Context) (BulkDeleteResult, error)

	// ResolveRedirect looks the link up, records the click best-effort and
	// returns the URL to redirect the visitor to. A failed click write is
	// logged but never blocks the redirect; ErrLinkNotFound and
	// ErrLinkInactive are the only terminal outcomes.
	ResolveRedirect(ctx context.Context, ref LinkRef, meta ClickMeta) (string, error)

	// RecordTestClick runs the same increment-and-append recording as
	// ResolveRedirect, without a redirect, and returns the updated link.
	RecordTestClick(ctx context.Context, id int64, meta ClickMeta) (*domain.UTMLink, error)

	// BulkGenerate creates one link per catalog video with the shared
	// parameters. Per-video failures are collected, not fatal.
	BulkGenerate(ctx context.Context, req BulkGenerateReq) (*BulkGenerateResult, error)

	// LinkAnalytics reports click totals and a daily series over the last
	// daysBack days.
	LinkAnalytics(ctx context.Context, id int64, daysBack int) (*LinkAnalytics, error)

	// VideoLinkPerformance reports all links of a video with aggregate CTR.
	VideoLinkPerformance(ctx context.Context, videoID string) (*VideoPerformance, error)
}
