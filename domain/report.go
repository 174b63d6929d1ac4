package domain

import "time"

// Report is one user's crowd-level observation for a location. Rows are
// append-only; several reports per (user, location) are allowed.
type Report struct {
	ID         int64     `json:"id"`
	UserID     string    `json:"user_id"`
	LocationID string    `json:"location_id"`
	Status     Status    `json:"status_reported"`
	ReportedAt time.Time `json:"timestamp"`
}
