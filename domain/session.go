package domain

import "time"

// SessionState describes where the prompt state machine is for one session.
type SessionState string

const (
	// SessionIdle means no usable coordinates have been provided yet.
	SessionIdle SessionState = "idle"
	// SessionScanning means coordinates are known and no prompt is active.
	SessionScanning SessionState = "scanning"
	// SessionPrompting means a prompt is shown and scanning is suspended
	// until the user answers it.
	SessionPrompting SessionState = "prompting"
)

// Prompt identifies the location an active prompt refers to.
type Prompt struct {
	LocationID   string    `json:"location_id"`
	LocationName string    `json:"location_name"`
	NotifiedAt   time.Time `json:"notified_at"`
}

// Session is the per-user session record stored in Redis. It carries the
// prompt state machine plus the last known coordinates, so at most one
// prompt can be active per session.
type Session struct {
	ID        string       `json:"id"`
	UserID    string       `json:"user_id"`
	State     SessionState `json:"state"`
	Position  *Coordinates `json:"position,omitempty"`
	Prompt    *Prompt      `json:"prompt,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// IsExpired reports whether the session has passed its expiry relative to
// the reference time (now when zero).
func (s *Session) IsExpired(reference time.Time) bool {
	if s == nil {
		return true
	}
	if reference.IsZero() {
		reference = time.Now()
	}
	return !s.ExpiresAt.After(reference)
}

// HasPosition reports whether the session holds usable coordinates.
func (s *Session) HasPosition() bool {
	return s != nil && s.Position != nil
}
