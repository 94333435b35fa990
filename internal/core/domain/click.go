package domain

import "time"

// ClickEvent is an immutable record of one traversal of a UTM link. The
// request metadata fields are best-effort telemetry and may all be nil.
type ClickEvent struct {
	ID        int64
	UTMLinkID int64
	ClickedAt time.Time
	IPAddress *string
	UserAgent *string
	Referrer  *string
}
