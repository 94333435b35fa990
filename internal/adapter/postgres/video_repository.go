package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tubemetrics/internal/core/domain"
	"tubemetrics/internal/core/port"
)

// VideoRepository implements port.VideoRepository on the synced video
// catalog table.
type VideoRepository struct {
	pool *pgxpool.Pool
}

// NewVideoRepository returns a new repository instance.
func NewVideoRepository(pool *pgxpool.Pool) *VideoRepository {
	return &VideoRepository{pool: pool}
}

// ListVideos returns the whole catalog, newest first.
func (r *VideoRepository) ListVideos(ctx context.Context) ([]domain.Video, error) {
	rows, err := r.pool.Query(ctx, `SELECT video_id, title, view_count, published_at
FROM videos
ORDER BY published_at DESC NULLS LAST, video_id`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Video, error) {
		var v domain.Video
		err := row.Scan(&v.VideoID, &v.Title, &v.ViewCount, &v.PublishedAt)
		return v, err
	})
}

// GetVideo returns one video or port.ErrVideoNotFound.
func (r *VideoRepository) GetVideo(ctx context.Context, videoID string) (*domain.Video, error) {
	var v domain.Video
	err := r.pool.QueryRow(ctx, `SELECT video_id, title, view_count, published_at
FROM videos WHERE video_id = $1`, videoID).
		Scan(&v.VideoID, &v.Title, &v.ViewCount, &v.PublishedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, port.ErrVideoNotFound
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}
