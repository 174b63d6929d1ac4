package domain

import "time"

// User represents an authenticated identity in the platform. The ID is the
// username chosen at signup and is immutable afterwards.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email,omitempty"`
	PasswordHash []byte    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
