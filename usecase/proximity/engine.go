// Package proximity decides which study spot, if any, should prompt the
// user for a crowd report at their current coordinates.
package proximity

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/studyspot/backend/domain"
	"github.com/studyspot/backend/pkg/geo"
	"github.com/studyspot/backend/repository"
	"github.com/studyspot/backend/usecase/notify"
)

// Range bands used by the map sidebar. Presentation only; the throttle and
// scan use the per-location radius.
const (
	BandInRange = "in-range"
	BandNearby  = "nearby"
	BandFar     = "far"

	nearbyBandMeters = 500
)

// Candidate names the closest spot and how far away it is, regardless of
// radius or throttle state.
type Candidate struct {
	LocationID string  `json:"location_id"`
	Name       string  `json:"name"`
	Meters     float64 `json:"meters"`
}

// LocationDistance is one row of the per-location distance list.
type LocationDistance struct {
	LocationID string  `json:"location_id"`
	Name       string  `json:"name"`
	Meters     float64 `json:"meters"`
	Band       string  `json:"band"`
}

type Engine struct {
	locations     repository.LocationRepository
	notifications repository.NotificationRepository
	throttle      *notify.Throttle
	logger        *zap.Logger
}

func NewEngine(
	locations repository.LocationRepository,
	notifications repository.NotificationRepository,
	throttle *notify.Throttle,
	logger *zap.Logger,
) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		locations:     locations,
		notifications: notifications,
		throttle:      throttle,
		logger:        logger,
	}
}

// Scan walks the known locations in their stable listing order and returns
// the first one within radius whose throttle allows a prompt. The
// notification event is logged before returning, so a re-scan before the
// next report cannot re-trigger the same location. Returns nil when nothing
// qualifies. Callers must not invoke Scan without valid coordinates.
func (e *Engine) Scan(ctx context.Context, userID string, position domain.Coordinates, now time.Time) (*domain.Location, error) {
	locations, err := e.locations.List(ctx)
	if err != nil {
		return nil, err
	}

	for i := range locations {
		loc := &locations[i]
		radius := loc.RadiusMeters
		if radius <= 0 {
			radius = domain.DefaultRadiusMeters
		}

		distance := geo.DistanceMeters(position.Latitude, position.Longitude, loc.Latitude, loc.Longitude)
		if distance > radius {
			continue
		}

		ok, err := e.throttle.ShouldNotify(ctx, userID, loc.ID, now)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		// First qualifying match wins; no distance tie-break.
		event := &domain.NotificationEvent{
			UserID:     userID,
			LocationID: loc.ID,
			NotifiedAt: now,
		}
		if err := e.notifications.Log(ctx, event); err != nil {
			return nil, domain.WrapError(domain.ErrCodeUnavailable, "failed to record notification", err)
		}

		e.logger.Info("proximity prompt triggered",
			zap.String("user_id", userID),
			zap.String("location_id", loc.ID),
			zap.Float64("meters", distance))
		return loc, nil
	}

	return nil, nil
}

// Nearest returns the minimum-distance location regardless of radius or
// throttle state, for the "you are N m from X" hint. Nil when no locations
// are configured.
func (e *Engine) Nearest(ctx context.Context, position domain.Coordinates) (*Candidate, error) {
	locations, err := e.locations.List(ctx)
	if err != nil {
		return nil, err
	}

	var nearest *Candidate
	for _, loc := range locations {
		distance := geo.DistanceMeters(position.Latitude, position.Longitude, loc.Latitude, loc.Longitude)
		if nearest == nil || distance < nearest.Meters {
			nearest = &Candidate{
				LocationID: loc.ID,
				Name:       loc.Name,
				Meters:     distance,
			}
		}
	}
	return nearest, nil
}

// Distances returns every location with its distance and presentation band,
// in the stable listing order.
func (e *Engine) Distances(ctx context.Context, position domain.Coordinates) ([]LocationDistance, error) {
	locations, err := e.locations.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]LocationDistance, 0, len(locations))
	for _, loc := range locations {
		distance := geo.DistanceMeters(position.Latitude, position.Longitude, loc.Latitude, loc.Longitude)
		out = append(out, LocationDistance{
			LocationID: loc.ID,
			Name:       loc.Name,
			Meters:     distance,
			Band:       band(distance, loc.RadiusMeters),
		})
	}
	return out, nil
}

func band(distance, radius float64) string {
	if radius <= 0 {
		radius = domain.DefaultRadiusMeters
	}
	switch {
	case distance <= radius:
		return BandInRange
	case distance <= nearbyBandMeters:
		return BandNearby
	default:
		return BandFar
	}
}
