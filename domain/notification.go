package domain

import "time"

// NotificationEvent records that a proximity prompt was actually shown to a
// user for a location. Append-only; the throttle reads the newest row per
// (user, location) pair.
type NotificationEvent struct {
	ID         int64     `json:"id"`
	UserID     string    `json:"user_id"`
	LocationID string    `json:"location_id"`
	NotifiedAt time.Time `json:"last_notified"`
}
