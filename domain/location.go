package domain

import "time"

// Coordinates is a latitude/longitude pair in decimal degrees.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Location is a study spot on campus. Status and LastUpdated are a cache of
// the newest report and are rewritten by the status aggregator; everything
// else is fixed at seed time.
type Location struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Latitude     float64   `json:"lat"`
	Longitude    float64   `json:"lon"`
	RadiusMeters float64   `json:"radius"`
	Status       Status    `json:"current_status"`
	LastUpdated  time.Time `json:"last_updated"`
}

// Coordinates returns the location's position.
func (l *Location) Coordinates() Coordinates {
	return Coordinates{Latitude: l.Latitude, Longitude: l.Longitude}
}

// DefaultRadiusMeters is applied when a seed entry carries no radius.
const DefaultRadiusMeters = 100

// SeedLocations returns the fixed campus spots inserted at startup.
// Insertion is idempotent; existing rows keep their cached status.
func SeedLocations() []Location {
	return []Location{
		{ID: "library", Name: "Melville Library", Latitude: 40.9152481, Longitude: -73.1228800, RadiusMeters: DefaultRadiusMeters, Status: StatusNoRecentData},
		{ID: "union", Name: "Student Union", Latitude: 40.9171445, Longitude: -73.1224921, RadiusMeters: DefaultRadiusMeters, Status: StatusNoRecentData},
		{ID: "wang", Name: "Wang Center", Latitude: 40.9161544, Longitude: -73.1195538, RadiusMeters: DefaultRadiusMeters, Status: StatusNoRecentData},
		{ID: "sac", Name: "SAC", Latitude: 40.9142291, Longitude: -73.1243844, RadiusMeters: DefaultRadiusMeters, Status: StatusNoRecentData},
	}
}
