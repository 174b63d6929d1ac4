package proximity

import (
	"context"
	"testing"
	"time"

	"github.com/studyspot/backend/domain"
	"github.com/studyspot/backend/usecase/notify"
)

type locationStubRepo struct {
	locations []domain.Location
}

func (s *locationStubRepo) List(_ context.Context) ([]domain.Location, error) {
	out := make([]domain.Location, len(s.locations))
	copy(out, s.locations)
	return out, nil
}

func (s *locationStubRepo) GetByID(_ context.Context, id string) (*domain.Location, error) {
	for _, loc := range s.locations {
		if loc.ID == id {
			copy := loc
			return &copy, nil
		}
	}
	return nil, domain.ErrLocationNotFound
}

func (s *locationStubRepo) UpdateStatus(_ context.Context, id string, status domain.Status, updatedAt time.Time) error {
	for i := range s.locations {
		if s.locations[i].ID == id {
			s.locations[i].Status = status
			s.locations[i].LastUpdated = updatedAt
			return nil
		}
	}
	return domain.ErrLocationNotFound
}

func (s *locationStubRepo) Seed(_ context.Context, locations []domain.Location) error {
	s.locations = append(s.locations, locations...)
	return nil
}

type notificationStubRepo struct {
	events []domain.NotificationEvent
}

func (s *notificationStubRepo) Log(_ context.Context, event *domain.NotificationEvent) error {
	event.ID = int64(len(s.events) + 1)
	s.events = append(s.events, *event)
	return nil
}

func (s *notificationStubRepo) Last(_ context.Context, userID, locationID string) (time.Time, error) {
	var last time.Time
	for _, e := range s.events {
		if e.UserID == userID && e.LocationID == locationID && e.NotifiedAt.After(last) {
			last = e.NotifiedAt
		}
	}
	return last, nil
}

func campusEngine(notifications *notificationStubRepo) *Engine {
	locations := &locationStubRepo{locations: domain.SeedLocations()}
	throttle := notify.NewThrottle(notifications, 30*time.Minute)
	return NewEngine(locations, notifications, throttle, nil)
}

func TestScanAtLocationLogsOnce(t *testing.T) {
	notifications := &notificationStubRepo{}
	engine := campusEngine(notifications)

	// Standing exactly at Melville Library.
	position := domain.Coordinates{Latitude: 40.9152481, Longitude: -73.1228800}
	t0 := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	hit, err := engine.Scan(context.Background(), "alice", position, t0)
	if err != nil {
		t.Fatalf("Scan returned error: %v", err)
	}
	if hit == nil || hit.ID != "library" {
		t.Fatalf("expected library hit, got %+v", hit)
	}
	if len(notifications.events) != 1 {
		t.Fatalf("expected exactly one logged notification, got %d", len(notifications.events))
	}

	// Same position five minutes later: library is now throttled and no
	// other spot is within radius.
	hit, err = engine.Scan(context.Background(), "alice", position, t0.Add(5*time.Minute))
	if err != nil {
		t.Fatalf("Scan returned error: %v", err)
	}
	if hit != nil {
		t.Fatalf("expected no hit within the cooldown, got %+v", hit)
	}
	if len(notifications.events) != 1 {
		t.Fatalf("re-scan must not log another notification, got %d", len(notifications.events))
	}
}

func TestScanOutOfRange(t *testing.T) {
	notifications := &notificationStubRepo{}
	engine := campusEngine(notifications)

	// Well west of every campus spot.
	position := domain.Coordinates{Latitude: 40.9152481, Longitude: -73.1280000}
	hit, err := engine.Scan(context.Background(), "alice", position, time.Now())
	if err != nil {
		t.Fatalf("Scan returned error: %v", err)
	}
	if hit != nil {
		t.Fatalf("expected no hit out of range, got %+v", hit)
	}
	if len(notifications.events) != 0 {
		t.Fatalf("no notification may be logged without a hit")
	}

	nearest, err := engine.Nearest(context.Background(), position)
	if err != nil {
		t.Fatalf("Nearest returned error: %v", err)
	}
	if nearest == nil || nearest.Meters <= 100 {
		t.Fatalf("expected an out-of-range nearest spot, got %+v", nearest)
	}
	if nearest.Name == "" {
		t.Fatalf("nearest candidate must carry a display name")
	}
}

func TestScanFirstMatchWins(t *testing.T) {
	notifications := &notificationStubRepo{}
	// Two spots sharing the same coordinates; listing order decides.
	locations := &locationStubRepo{locations: []domain.Location{
		{ID: "a", Name: "Spot A", Latitude: 40.0, Longitude: -73.0, RadiusMeters: 100},
		{ID: "b", Name: "Spot B", Latitude: 40.0, Longitude: -73.0, RadiusMeters: 100},
	}}
	throttle := notify.NewThrottle(notifications, 30*time.Minute)
	engine := NewEngine(locations, notifications, throttle, nil)

	position := domain.Coordinates{Latitude: 40.0, Longitude: -73.0}
	t0 := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	hit, err := engine.Scan(context.Background(), "alice", position, t0)
	if err != nil {
		t.Fatalf("Scan returned error: %v", err)
	}
	if hit == nil || hit.ID != "a" {
		t.Fatalf("expected first listed spot to win, got %+v", hit)
	}

	// With A throttled the next scan falls through to B.
	hit, err = engine.Scan(context.Background(), "alice", position, t0.Add(time.Minute))
	if err != nil {
		t.Fatalf("Scan returned error: %v", err)
	}
	if hit == nil || hit.ID != "b" {
		t.Fatalf("expected second spot after first was throttled, got %+v", hit)
	}
}

func TestDistancesBands(t *testing.T) {
	notifications := &notificationStubRepo{}
	locations := &locationStubRepo{locations: []domain.Location{
		{ID: "close", Name: "Close", Latitude: 0, Longitude: 0, RadiusMeters: 100},
		{ID: "near", Name: "Near", Latitude: 0.002, Longitude: 0, RadiusMeters: 100},  // ~222m
		{ID: "far", Name: "Far", Latitude: 0.010, Longitude: 0, RadiusMeters: 100},    // ~1.1km
	}}
	throttle := notify.NewThrottle(notifications, 30*time.Minute)
	engine := NewEngine(locations, notifications, throttle, nil)

	list, err := engine.Distances(context.Background(), domain.Coordinates{Latitude: 0, Longitude: 0})
	if err != nil {
		t.Fatalf("Distances returned error: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(list))
	}

	bands := map[string]string{}
	for _, d := range list {
		bands[d.LocationID] = d.Band
	}
	if bands["close"] != BandInRange {
		t.Fatalf("close: got band %q", bands["close"])
	}
	if bands["near"] != BandNearby {
		t.Fatalf("near: got band %q", bands["near"])
	}
	if bands["far"] != BandFar {
		t.Fatalf("far: got band %q", bands["far"])
	}
}

func TestNearestPicksMinimum(t *testing.T) {
	notifications := &notificationStubRepo{}
	locations := &locationStubRepo{locations: []domain.Location{
		{ID: "a", Name: "Spot A", Latitude: 0.005, Longitude: 0, RadiusMeters: 100}, // ~556m
		{ID: "b", Name: "Spot B", Latitude: 0.002, Longitude: 0, RadiusMeters: 100}, // ~222m
	}}
	throttle := notify.NewThrottle(notifications, 30*time.Minute)
	engine := NewEngine(locations, notifications, throttle, nil)

	nearest, err := engine.Nearest(context.Background(), domain.Coordinates{Latitude: 0, Longitude: 0})
	if err != nil {
		t.Fatalf("Nearest returned error: %v", err)
	}
	if nearest == nil || nearest.LocationID != "b" {
		t.Fatalf("expected spot b, got %+v", nearest)
	}
	if nearest.Meters < 210 || nearest.Meters > 235 {
		t.Fatalf("nearest distance out of expected band: %f", nearest.Meters)
	}
}
