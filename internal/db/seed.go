package db

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Seed inserts demo data: a handful of synced videos, a mix of UTM links in
// every tracking type and a spread of click events over the last two weeks.
func Seed(ctx context.Context, pool *pgxpool.Pool) error {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	videoIDs := []string{"dQw4w9WgXcQ", "9bZkp7q19f0", "kJQP7kiw5Fk", "JGwWNGJdvx8", "OPf0YbXqDm0"}
	for i, vid := range videoIDs {
		title := fmt.Sprintf("Demo video %d", i+1)
		views := int64(10000 + r.Intn(990000))
		published := time.Now().AddDate(0, 0, -(7 * (i + 1)))
		_, err := pool.Exec(ctx, `INSERT INTO videos (video_id, title, view_count, published_at)
VALUES ($1,$2,$3,$4) ON CONFLICT DO NOTHING`, vid, title, views, published)
		if err != nil {
			return err
		}
	}

	types := []string{"server_redirect", "direct_posthog", "direct_ga4"}
	for i, vid := range videoIDs {
		trackingType := types[i%len(types)]
		dest := fmt.Sprintf("https://example.com/landing/%d", i+1)
		campaign := vid
		trackingURL := fmt.Sprintf("%s?utm_campaign=%s&utm_medium=video&utm_source=youtube", dest, campaign)
		var slug *string
		if trackingType == "server_redirect" {
			s := fmt.Sprintf("example-landing-%d-%s", i+1, vid[:6])
			slug = &s
		}
		var linkID int64
		err := pool.QueryRow(ctx, `INSERT INTO utm_links
(video_id, destination_url, utm_source, utm_medium, utm_campaign, tracking_type, tracking_url, pretty_slug)
VALUES ($1,$2,'youtube','video',$3,$4,$5,$6) RETURNING id`,
			vid, dest, campaign, trackingType, trackingURL, slug).Scan(&linkID)
		if err != nil {
			return err
		}

		clicks := r.Intn(40)
		for j := 0; j < clicks; j++ {
			clickedAt := time.Now().Add(-time.Duration(r.Intn(14*24)) * time.Hour)
			referrer := fmt.Sprintf("https://youtube.com/watch?v=%s", vid)
			_, err = pool.Exec(ctx, `INSERT INTO click_events (utm_link_id, clicked_at, ip_address, user_agent, referrer)
VALUES ($1,$2,$3,$4,$5)`,
				linkID, clickedAt, fmt.Sprintf("192.0.2.%d", r.Intn(255)), "Mozilla/5.0", referrer)
			if err != nil {
				return err
			}
		}
		_, err = pool.Exec(ctx, `UPDATE utm_links
SET click_count = $1, last_clicked = (SELECT max(clicked_at) FROM click_events WHERE utm_link_id = $2)
WHERE id = $2`, clicks, linkID)
		if err != nil {
			return err
		}
	}
	return nil
}
