package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/url"
	"time"

	"tubemetrics/internal/core/domain"
	"tubemetrics/internal/core/port"
)

const (
	defaultListLimit = 100
	maxListLimit     = 1000
	forwardTimeout   = 5 * time.Second
)

// LinkUseCase implements port.LinkUseCase: the link registry and the click
// recording behind the redirector.
type LinkUseCase struct {
	links      port.LinkRepository
	videos     port.VideoRepository
	forwarders []port.ClickForwarder
	logger     *slog.Logger

	baseURL         string
	defaultType     domain.TrackingType
	slugMaxAttempts int
}

// NewLinkUseCase wires the registry. baseURL is the public origin short
// URLs are built on; defaultType applies when a create request omits the
// tracking type; slugMaxAttempts bounds slug collision retries.
func NewLinkUseCase(
	links port.LinkRepository,
	videos port.VideoRepository,
	forwarders []port.ClickForwarder,
	logger *slog.Logger,
	baseURL string,
	defaultType domain.TrackingType,
	slugMaxAttempts int,
) *LinkUseCase {
	if !defaultType.Valid() {
		defaultType = domain.TrackingDirectPostHog
	}
	if slugMaxAttempts <= 0 {
		slugMaxAttempts = 100
	}
	return &LinkUseCase{
		links:           links,
		videos:          videos,
		forwarders:      forwarders,
		logger:          logger,
		baseURL:         baseURL,
		defaultType:     defaultType,
		slugMaxAttempts: slugMaxAttempts,
	}
}

// BaseURL returns the public origin shareable short URLs are built on.
func (u *LinkUseCase) BaseURL() string { return u.baseURL }

// CreateLink validates the request, fills UTM defaults, assembles the
// tracking URL and persists the record. server_redirect links additionally
// get a unique pretty slug. Duplicate video/destination pairs are allowed;
// every call creates a new record.
func (u *LinkUseCase) CreateLink(ctx context.Context, req port.CreateLinkReq) (*domain.UTMLink, error) {
	if req.VideoID == "" {
		return nil, fmt.Errorf("%w: video_id is required", port.ErrInvalidInput)
	}
	if err := validateDestination(req.DestinationURL); err != nil {
		return nil, err
	}

	trackingType := req.TrackingType
	if trackingType == "" {
		trackingType = u.defaultType
	}
	if !trackingType.Valid() {
		return nil, fmt.Errorf("%w: unknown tracking_type %q", port.ErrInvalidInput, trackingType)
	}

	link := &domain.UTMLink{
		VideoID:        req.VideoID,
		DestinationURL: req.DestinationURL,
		UTMSource:      orDefault(req.UTMSource, "youtube"),
		UTMMedium:      orDefault(req.UTMMedium, "video"),
		UTMCampaign:    orDefault(req.UTMCampaign, req.VideoID),
		UTMContent:     req.UTMContent,
		UTMTerm:        req.UTMTerm,
		TrackingType:   trackingType,
	}

	trackingURL, err := buildTrackingURL(link)
	if err != nil {
		return nil, fmt.Errorf("%w: destination_url does not parse", port.ErrInvalidInput)
	}
	link.TrackingURL = trackingURL

	if trackingType == domain.TrackingServerRedirect {
		return u.createWithSlug(ctx, link)
	}
	if err := u.links.CreateLink(ctx, link); err != nil {
		return nil, err
	}
	return link, nil
}

// createWithSlug picks a free pretty slug and inserts the link, retrying
// with counter suffixes on collision. The insert itself can still race a
// concurrent creation, so ErrSlugTaken from the repository also counts as a
// collision and burns an attempt.
func (u *LinkUseCase) createWithSlug(ctx context.Context, link *domain.UTMLink) (*domain.UTMLink, error) {
	base := slugFromDestination(link.DestinationURL, link.VideoID)
	for attempt := 0; attempt < u.slugMaxAttempts; attempt++ {
		slug := slugCandidate(base, attempt)
		taken, err := u.links.SlugExists(ctx, slug)
		if err != nil {
			return nil, err
		}
		if taken {
			continue
		}

		link.PrettySlug = &slug
		err = u.links.CreateLink(ctx, link)
		if errors.Is(err, port.ErrSlugTaken) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return link, nil
	}
	return nil, port.ErrSlugExhausted
}

// ListLinks returns links matching the filter with defensive limit bounds.
func (u *LinkUseCase) ListLinks(ctx context.Context, f port.LinkFilter) ([]domain.UTMLink, error) {
	if f.Limit <= 0 {
		f.Limit = defaultListLimit
	}
	if f.Limit > maxListLimit {
		f.Limit = maxListLimit
	}
	return u.links.ListLinks(ctx, f)
}

// DeleteLink removes the link and its click events.
func (u *LinkUseCase) DeleteLink(ctx context.Context, id int64) error {
	return u.links.DeleteLink(ctx, id)
}

// DeleteAllLinks wipes the whole registry.
func (u *LinkUseCase) DeleteAllLinks(ctx context.Context) (port.BulkDeleteResult, error) {
	links, clicks, err := u.links.DeleteAllLinks(ctx)
	return port.BulkDeleteResult{DeletedLinks: links, DeletedClicks: clicks}, err
}

// ResolveRedirect resolves the inbound identifier and returns the URL to
// send the visitor to. The click write is best-effort: a storage failure is
// logged and the redirect proceeds, because a broken redirect costs more
// than a lost count.
func (u *LinkUseCase) ResolveRedirect(ctx context.Context, ref port.LinkRef, meta port.ClickMeta) (string, error) {
	link, err := u.resolve(ctx, ref)
	if err != nil {
		return "", err
	}
	if !link.IsActive {
		return "", port.ErrLinkInactive
	}

	ev := clickEvent(meta)
	if _, err := u.links.RecordClick(ctx, link.ID, ev); err != nil {
		u.logger.Warn("click recording failed, redirecting anyway",
			slog.Int64("link_id", link.ID), slog.Any("error", err))
	}
	u.forward(link, ev)

	return link.TrackingURL, nil
}

// RecordTestClick runs the same recording step as ResolveRedirect without a
// redirect and returns the updated link. Unlike the visitor path, storage
// failures surface to the caller here.
func (u *LinkUseCase) RecordTestClick(ctx context.Context, id int64, meta port.ClickMeta) (*domain.UTMLink, error) {
	link, err := u.links.GetLinkByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !link.IsActive {
		return nil, port.ErrLinkInactive
	}

	ev := clickEvent(meta)
	updated, err := u.links.RecordClick(ctx, link.ID, ev)
	if err != nil {
		return nil, err
	}
	u.forward(updated, ev)
	return updated, nil
}

// BulkGenerate creates one link per catalog video with the shared
// parameters. A single video's failure is reported, not fatal.
func (u *LinkUseCase) BulkGenerate(ctx context.Context, req port.BulkGenerateReq) (*port.BulkGenerateResult, error) {
	if err := validateDestination(req.DestinationURL); err != nil {
		return nil, err
	}

	videos, err := u.videos.ListVideos(ctx)
	if err != nil {
		return nil, err
	}

	res := &port.BulkGenerateResult{}
	for _, v := range videos {
		res.TotalVideosProcessed++
		_, err := u.CreateLink(ctx, port.CreateLinkReq{
			VideoID:        v.VideoID,
			DestinationURL: req.DestinationURL,
			TrackingType:   req.TrackingType,
			UTMSource:      req.UTMSource,
			UTMMedium:      req.UTMMedium,
			UTMCampaign:    req.UTMCampaign,
		})
		if err != nil {
			res.Failures = append(res.Failures, port.BulkFailure{VideoID: v.VideoID, Error: err.Error()})
			continue
		}
		res.TotalLinksGenerated++
	}
	return res, nil
}

// LinkAnalytics reports totals and a daily click series over daysBack days.
func (u *LinkUseCase) LinkAnalytics(ctx context.Context, id int64, daysBack int) (*port.LinkAnalytics, error) {
	link, err := u.links.GetLinkByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if daysBack <= 0 {
		daysBack = 30
	}
	since := time.Now().AddDate(0, 0, -daysBack)

	stats, err := u.links.ClickStats(ctx, id, since)
	if err != nil {
		return nil, err
	}
	return &port.LinkAnalytics{
		UTMLinkID:      link.ID,
		VideoID:        link.VideoID,
		DestinationURL: link.DestinationURL,
		TrackingURL:    link.TrackingURL,
		TotalClicks:    stats.TotalClicks,
		RecentClicks:   stats.RecentClicks,
		Daily:          stats.Daily,
		CreatedAt:      link.CreatedAt,
		IsActive:       link.IsActive,
	}, nil
}

// VideoLinkPerformance reports all links of one video with aggregate CTR
// against the synced view count.
func (u *LinkUseCase) VideoLinkPerformance(ctx context.Context, videoID string) (*port.VideoPerformance, error) {
	video, err := u.videos.GetVideo(ctx, videoID)
	if err != nil {
		return nil, err
	}

	links, err := u.links.ListLinks(ctx, port.LinkFilter{VideoID: videoID, Limit: maxListLimit})
	if err != nil {
		return nil, err
	}

	clicks, err := u.links.CountClicksByVideo(ctx, videoID)
	if err != nil {
		return nil, err
	}

	ctr := 0.0
	if video.ViewCount > 0 {
		ctr = math.Round(float64(clicks)/float64(video.ViewCount)*100*100) / 100
	}
	return &port.VideoPerformance{
		VideoID:          video.VideoID,
		VideoTitle:       video.Title,
		VideoViews:       video.ViewCount,
		TotalLinks:       len(links),
		TotalClicks:      clicks,
		ClickThroughRate: ctr,
		Links:            links,
	}, nil
}

func (u *LinkUseCase) resolve(ctx context.Context, ref port.LinkRef) (*domain.UTMLink, error) {
	if ref.Slug != "" {
		return u.links.GetLinkBySlug(ctx, ref.Slug)
	}
	return u.links.GetLinkByID(ctx, ref.ID)
}

// forward pushes the click to each configured analytics backend off the
// request path. Failures are logged and otherwise ignored.
func (u *LinkUseCase) forward(link *domain.UTMLink, ev *domain.ClickEvent) {
	for _, f := range u.forwarders {
		go func(f port.ClickForwarder) {
			ctx, cancel := context.WithTimeout(context.Background(), forwardTimeout)
			defer cancel()
			if err := f.ForwardClick(ctx, link, ev); err != nil {
				u.logger.Warn("click forwarding failed",
					slog.String("backend", f.Name()),
					slog.Int64("link_id", link.ID),
					slog.Any("error", err))
			}
		}(f)
	}
}

func validateDestination(destination string) error {
	if destination == "" {
		return fmt.Errorf("%w: destination_url is required", port.ErrInvalidInput)
	}
	dest, err := url.Parse(destination)
	if err != nil || dest.Scheme == "" || dest.Host == "" {
		return fmt.Errorf("%w: destination_url must be an absolute URL", port.ErrInvalidInput)
	}
	return nil
}

func clickEvent(meta port.ClickMeta) *domain.ClickEvent {
	ev := &domain.ClickEvent{ClickedAt: time.Now().UTC()}
	if meta.IPAddress != "" {
		ev.IPAddress = &meta.IPAddress
	}
	if meta.UserAgent != "" {
		ev.UserAgent = &meta.UserAgent
	}
	if meta.Referrer != "" {
		ev.Referrer = &meta.Referrer
	}
	return ev
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
