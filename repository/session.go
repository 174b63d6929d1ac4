package repository

import (
	"context"

	"github.com/studyspot/backend/domain"
)

// SessionRepository stores live session records. Save slides the session's
// TTL, so an active client never expires mid-use.
type SessionRepository interface {
	// Get returns domain.ErrSessionNotFound for unknown or expired ids.
	Get(ctx context.Context, id string) (*domain.Session, error)
	Save(ctx context.Context, session *domain.Session) error
	Delete(ctx context.Context, id string) error
}
