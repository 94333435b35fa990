package port

import (
	"context"
	"errors"
	"time"

	"tubemetrics/internal/core/domain"
)

var (
	// ErrLinkNotFound is returned when no link matches the given id or slug.
	ErrLinkNotFound = errors.New("utm link not found")
	// ErrSlugTaken is returned by CreateLink when the chosen pretty slug
	// collides with an existing one. Callers retry with a different slug.
	ErrSlugTaken = errors.New("pretty slug already taken")
	// ErrVideoNotFound is returned when the video catalog has no such video.
	ErrVideoNotFound = errors.New("video not found")
)

// LinkFilter narrows a ListLinks query. Zero VideoID means all videos.
type LinkFilter struct {
	VideoID    string
	ActiveOnly bool
	Limit      int
	Offset     int
}

// DailyClicks is one bucket of a per-day click series.
type DailyClicks struct {
	Date   string
	Clicks int64
}

// ClickStats aggregates click counts for one link over a reporting window.
type ClickStats struct {
	TotalClicks  int64
	RecentClicks int64
	Daily        []DailyClicks
}

// LinkRepository is the outbound port for UTM link persistence.
// Implementations must be safe for concurrent use; RecordClick in particular
// must not lose updates when the same link is clicked from multiple
// goroutines at once.
type LinkRepository interface {
	// CreateLink inserts the link and fills in ID and CreatedAt. A unique
	// violation on the pretty slug is reported as ErrSlugTaken.
	CreateLink(ctx context.Context, link *domain.UTMLink) error
	// GetLinkByID returns the link or ErrLinkNotFound.
	GetLinkByID(ctx context.Context, id int64) (*domain.UTMLink, error)
	// GetLinkBySlug returns the link with the given pretty slug or
	// ErrLinkNotFound.
	GetLinkBySlug(ctx context.Context, slug string) (*domain.UTMLink, error)
	// ListLinks returns links matching the filter, newest first.
	ListLinks(ctx context.Context, f LinkFilter) ([]domain.UTMLink, error)
	// SlugExists reports whether any link, active or not, holds the slug.
	SlugExists(ctx context.Context, slug string) (bool, error)
	// DeleteLink removes the link and, by cascade, its click events. It
	// returns ErrLinkNotFound when the id does not exist.
	DeleteLink(ctx context.Context, id int64) error
	// DeleteAllLinks wipes every link and click event, returning how many of
	// each were removed.
	DeleteAllLinks(ctx context.Context) (links, clicks int64, err error)
	// RecordClick atomically increments the link's click counter, stamps
	// last_clicked and appends the event. It returns the updated link, with
	// ErrLinkNotFound when the link vanished in the meantime.
	RecordClick(ctx context.Context, linkID int64, ev *domain.ClickEvent) (*domain.UTMLink, error)
	// ClickStats aggregates total, recent and per-day clicks for the link,
	// where "recent" and the daily series start at since.
	ClickStats(ctx context.Context, linkID int64, since time.Time) (*ClickStats, error)
	// CountClicksByVideo returns the number of click events across all links
	// of one video.
	CountClicksByVideo(ctx context.Context, videoID string) (int64, error)
}

// VideoRepository is the outbound port for the synced video catalog.
type VideoRepository interface {
	// ListVideos returns the whole catalog, newest first.
	ListVideos(ctx context.Context) ([]domain.Video, error)
	// GetVideo returns one video or ErrVideoNotFound.
	GetVideo(ctx context.Context, videoID string) (*domain.Video, error)
}
