package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"tubemetrics/internal/core/domain"
	"tubemetrics/internal/core/port"
)

const uniqueViolation = "23505"

const linkColumns = `id, video_id, destination_url, utm_source, utm_medium, utm_campaign,
utm_content, utm_term, tracking_type, tracking_url, pretty_slug, click_count, last_clicked,
is_active, created_at`

// LinkRepository implements port.LinkRepository on a pgx connection pool.
type LinkRepository struct {
	pool *pgxpool.Pool
}

// NewLinkRepository returns a new repository instance.
func NewLinkRepository(pool *pgxpool.Pool) *LinkRepository {
	return &LinkRepository{pool: pool}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLink(row rowScanner) (domain.UTMLink, error) {
	var (
		l            domain.UTMLink
		trackingType string
	)
	err := row.Scan(
		&l.ID,
		&l.VideoID,
		&l.DestinationURL,
		&l.UTMSource,
		&l.UTMMedium,
		&l.UTMCampaign,
		&l.UTMContent,
		&l.UTMTerm,
		&trackingType,
		&l.TrackingURL,
		&l.PrettySlug,
		&l.ClickCount,
		&l.LastClicked,
		&l.IsActive,
		&l.CreatedAt,
	)
	l.TrackingType = domain.TrackingType(trackingType)
	return l, err
}

// CreateLink inserts the link and fills in the generated fields. A unique
// violation on pretty_slug maps to port.ErrSlugTaken.
func (r *LinkRepository) CreateLink(ctx context.Context, link *domain.UTMLink) error {
	err := r.pool.QueryRow(ctx, `INSERT INTO utm_links
(video_id, destination_url, utm_source, utm_medium, utm_campaign, utm_content, utm_term, tracking_type, tracking_url, pretty_slug)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
RETURNING id, click_count, is_active, created_at`,
		link.VideoID,
		link.DestinationURL,
		link.UTMSource,
		link.UTMMedium,
		link.UTMCampaign,
		link.UTMContent,
		link.UTMTerm,
		string(link.TrackingType),
		link.TrackingURL,
		link.PrettySlug,
	).Scan(&link.ID, &link.ClickCount, &link.IsActive, &link.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return port.ErrSlugTaken
		}
		return fmt.Errorf("insert utm link: %w", err)
	}
	return nil
}

// GetLinkByID returns the link or port.ErrLinkNotFound.
func (r *LinkRepository) GetLinkByID(ctx context.Context, id int64) (*domain.UTMLink, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+linkColumns+` FROM utm_links WHERE id = $1`, id)
	link, err := scanLink(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, port.ErrLinkNotFound
	}
	if err != nil {
		return nil, err
	}
	return &link, nil
}

// GetLinkBySlug returns the link with the given pretty slug or
// port.ErrLinkNotFound.
func (r *LinkRepository) GetLinkBySlug(ctx context.Context, slug string) (*domain.UTMLink, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+linkColumns+` FROM utm_links WHERE pretty_slug = $1`, slug)
	link, err := scanLink(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, port.ErrLinkNotFound
	}
	if err != nil {
		return nil, err
	}
	return &link, nil
}

// ListLinks returns links matching the filter, newest first.
func (r *LinkRepository) ListLinks(ctx context.Context, f port.LinkFilter) ([]domain.UTMLink, error) {
	var (
		conds []string
		args  []any
	)
	if f.VideoID != "" {
		args = append(args, f.VideoID)
		conds = append(conds, fmt.Sprintf("video_id = $%d", len(args)))
	}
	if f.ActiveOnly {
		conds = append(conds, "is_active")
	}

	query := `SELECT ` + linkColumns + ` FROM utm_links`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if f.Offset > 0 {
		args = append(args, f.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.UTMLink, error) {
		return scanLink(row)
	})
}

// SlugExists reports whether any link holds the slug.
func (r *LinkRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM utm_links WHERE pretty_slug = $1)`, slug).Scan(&exists)
	return exists, err
}

// DeleteLink removes the link; click events go with it via ON DELETE CASCADE.
func (r *LinkRepository) DeleteLink(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM utm_links WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return port.ErrLinkNotFound
	}
	return nil
}

// DeleteAllLinks wipes every click event and link in one transaction.
func (r *LinkRepository) DeleteAllLinks(ctx context.Context) (links, clicks int64, err error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	tag, err := tx.Exec(ctx, `DELETE FROM click_events`)
	if err != nil {
		return 0, 0, err
	}
	clicks = tag.RowsAffected()

	tag, err = tx.Exec(ctx, `DELETE FROM utm_links`)
	if err != nil {
		return 0, 0, err
	}
	links = tag.RowsAffected()
	return links, clicks, nil
}

// RecordClick increments the counter, stamps last_clicked and appends the
// event in one transaction. The increment is a single UPDATE so concurrent
// clicks on the same link serialize at the row and none are lost.
func (r *LinkRepository) RecordClick(ctx context.Context, linkID int64, ev *domain.ClickEvent) (_ *domain.UTMLink, err error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	row := tx.QueryRow(ctx, `UPDATE utm_links
SET click_count = click_count + 1, last_clicked = now()
WHERE id = $1
RETURNING `+linkColumns, linkID)
	link, err := scanLink(row)
	if errors.Is(err, pgx.ErrNoRows) {
		err = port.ErrLinkNotFound
		return nil, err
	}
	if err != nil {
		return nil, err
	}

	ev.UTMLinkID = linkID
	err = tx.QueryRow(ctx, `INSERT INTO click_events (utm_link_id, ip_address, user_agent, referrer)
VALUES ($1,$2,$3,$4) RETURNING id, clicked_at`,
		linkID, ev.IPAddress, ev.UserAgent, ev.Referrer,
	).Scan(&ev.ID, &ev.ClickedAt)
	if err != nil {
		return nil, err
	}
	return &link, nil
}

// ClickStats aggregates total, recent and per-day clicks for one link.
func (r *LinkRepository) ClickStats(ctx context.Context, linkID int64, since time.Time) (*port.ClickStats, error) {
	var stats port.ClickStats
	err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM click_events WHERE utm_link_id = $1`, linkID,
	).Scan(&stats.TotalClicks)
	if err != nil {
		return nil, err
	}

	err = r.pool.QueryRow(ctx,
		`SELECT count(*) FROM click_events WHERE utm_link_id = $1 AND clicked_at >= $2`,
		linkID, since,
	).Scan(&stats.RecentClicks)
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `SELECT to_char(clicked_at, 'YYYY-MM-DD') AS day, count(*)
FROM click_events
WHERE utm_link_id = $1 AND clicked_at >= $2
GROUP BY day
ORDER BY day`, linkID, since)
	if err != nil {
		return nil, err
	}
	stats.Daily, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (port.DailyClicks, error) {
		var d port.DailyClicks
		err := row.Scan(&d.Date, &d.Clicks)
		return d, err
	})
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// CountClicksByVideo counts click events across all links of one video.
func (r *LinkRepository) CountClicksByVideo(ctx context.Context, videoID string) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT count(*)
FROM click_events ce
JOIN utm_links l ON ce.utm_link_id = l.id
WHERE l.video_id = $1`, videoID).Scan(&count)
	return count, err
}
