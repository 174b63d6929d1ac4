package geo

import (
	"math"
	"testing"
)

func TestDistanceSymmetry(t *testing.T) {
	pairs := [][4]float64{
		{40.9152481, -73.1228800, 40.9171445, -73.1224921},
		{40.9161544, -73.1195538, 40.9142291, -73.1243844},
		{0, 0, 1, 1},
		{-33.8688, 151.2093, 51.5074, -0.1278},
	}
	for _, p := range pairs {
		ab := DistanceMeters(p[0], p[1], p[2], p[3])
		ba := DistanceMeters(p[2], p[3], p[0], p[1])
		if math.Abs(ab-ba) > 1e-6 {
			t.Fatalf("distance not symmetric: %f vs %f", ab, ba)
		}
	}
}

func TestDistanceIdentity(t *testing.T) {
	if d := DistanceMeters(40.9152481, -73.1228800, 40.9152481, -73.1228800); d != 0 {
		t.Fatalf("expected zero distance to self, got %f", d)
	}
}

func TestDistanceCampusScale(t *testing.T) {
	// Melville Library to Student Union, roughly 210m on the ground.
	d := DistanceMeters(40.9152481, -73.1228800, 40.9171445, -73.1224921)
	if d < 190 || d > 235 {
		t.Fatalf("library-union distance out of expected band: %f", d)
	}

	// One degree of latitude along a meridian is ~111.2km.
	d = DistanceMeters(0, 0, 1, 0)
	if d < 111_000 || d > 111_400 {
		t.Fatalf("meridian degree out of expected band: %f", d)
	}
}

func TestDistancePositive(t *testing.T) {
	if d := DistanceMeters(40.0, -73.0, 40.0001, -73.0001); d <= 0 {
		t.Fatalf("expected positive distance, got %f", d)
	}
}
