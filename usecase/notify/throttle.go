// Package notify decides whether a proximity prompt may fire for a
// (user, location) pair.
package notify

import (
	"context"
	"time"

	"github.com/studyspot/backend/repository"
)

// DefaultCooldown is the minimum interval between prompts for the same pair.
const DefaultCooldown = 30 * time.Minute

// Throttle is a stateless decision function over the notification log.
type Throttle struct {
	notifications repository.NotificationRepository
	cooldown      time.Duration
}

func NewThrottle(notifications repository.NotificationRepository, cooldown time.Duration) *Throttle {
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	return &Throttle{
		notifications: notifications,
		cooldown:      cooldown,
	}
}

// ShouldNotify reports whether a new prompt may be shown at now. True when
// the pair was never notified, or when at least the cooldown has elapsed
// since the last notification. The throttle is keyed on (user, location)
// only: leaving the radius and returning within the window does not reset it.
func (t *Throttle) ShouldNotify(ctx context.Context, userID, locationID string, now time.Time) (bool, error) {
	last, err := t.notifications.Last(ctx, userID, locationID)
	if err != nil {
		return false, err
	}
	if last.IsZero() {
		return true, nil
	}
	return now.Sub(last) >= t.cooldown, nil
}

// Cooldown returns the configured window.
func (t *Throttle) Cooldown() time.Duration {
	return t.cooldown
}
