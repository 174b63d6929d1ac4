package postgres

import (
	"fmt"
	"testing"
	"time"

	"github.com/studyspot/backend/domain"
)

// freshlySeededRow emulates a locations row as Seed leaves it: the cached
// status is present but last_updated is NULL because no report has ever
// refreshed it. Destination order matches the SELECT in List and GetByID.
// A NULL column only scans into a pointer destination, so a non-pointer
// last_updated destination is reported as an error the way pgx reports it.
type freshlySeededRow struct{}

func (freshlySeededRow) Scan(dest ...any) error {
	if len(dest) != 7 {
		return fmt.Errorf("expected 7 destinations, got %d", len(dest))
	}
	*dest[0].(*string) = "library"
	*dest[1].(*string) = "Melville Library"
	*dest[2].(*float64) = 40.9152481
	*dest[3].(*float64) = -73.1228800
	*dest[4].(*float64) = 100
	*dest[5].(*string) = string(domain.StatusNoRecentData)

	lastUpdated, ok := dest[6].(**time.Time)
	if !ok {
		return fmt.Errorf("cannot scan NULL into %T", dest[6])
	}
	*lastUpdated = nil
	return nil
}

func TestScanLocationFreshlySeededRow(t *testing.T) {
	loc, err := scanLocation(freshlySeededRow{})
	if err != nil {
		t.Fatalf("scanLocation returned error: %v", err)
	}
	if loc.ID != "library" || loc.Name != "Melville Library" {
		t.Fatalf("unexpected location %+v", loc)
	}
	if loc.Status != domain.StatusNoRecentData {
		t.Fatalf("unexpected status %q", loc.Status)
	}
	if !loc.LastUpdated.IsZero() {
		t.Fatalf("expected zero LastUpdated for a never-refreshed row, got %v", loc.LastUpdated)
	}
}
