package domain

import "time"

// Video is a row of the locally synced YouTube video catalog. The catalog is
// populated by the external sync job; this core only reads it, for bulk link
// generation and per-video performance reports.
type Video struct {
	VideoID     string
	Title       string
	ViewCount   int64
	PublishedAt *time.Time
}
