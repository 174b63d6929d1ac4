package repository

import (
	"context"
	"time"

	"github.com/studyspot/backend/domain"
)

type NotificationRepository interface {
	// Log appends a notification event row and fills in the generated ID.
	Log(ctx context.Context, event *domain.NotificationEvent) error
	// Last returns the newest notification timestamp for the pair, or the
	// zero time when the pair was never notified.
	Last(ctx context.Context, userID, locationID string) (time.Time, error)
}
