package status

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/studyspot/backend/domain"
)

type reportStubRepo struct {
	reports []domain.Report
}

func (s *reportStubRepo) Create(_ context.Context, report *domain.Report) (*domain.Report, error) {
	report.ID = int64(len(s.reports) + 1)
	s.reports = append(s.reports, *report)
	return report, nil
}

func (s *reportStubRepo) Recent(_ context.Context, locationID string, limit int) ([]domain.Report, error) {
	var matched []domain.Report
	for _, r := range s.reports {
		if r.LocationID == locationID {
			matched = append(matched, r)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].ReportedAt.Equal(matched[j].ReportedAt) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].ReportedAt.After(matched[j].ReportedAt)
	})
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

type locationStubRepo struct {
	locations map[string]*domain.Location
}

func newLocationStubRepo() *locationStubRepo {
	repo := &locationStubRepo{locations: map[string]*domain.Location{}}
	for _, loc := range domain.SeedLocations() {
		copy := loc
		repo.locations[loc.ID] = &copy
	}
	return repo
}

func (s *locationStubRepo) List(_ context.Context) ([]domain.Location, error) {
	ids := make([]string, 0, len(s.locations))
	for id := range s.locations {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]domain.Location, 0, len(ids))
	for _, id := range ids {
		out = append(out, *s.locations[id])
	}
	return out, nil
}

func (s *locationStubRepo) GetByID(_ context.Context, id string) (*domain.Location, error) {
	loc, ok := s.locations[id]
	if !ok {
		return nil, domain.ErrLocationNotFound
	}
	copy := *loc
	return &copy, nil
}

func (s *locationStubRepo) UpdateStatus(_ context.Context, id string, status domain.Status, updatedAt time.Time) error {
	loc, ok := s.locations[id]
	if !ok {
		return domain.ErrLocationNotFound
	}
	loc.Status = status
	loc.LastUpdated = updatedAt
	return nil
}

func (s *locationStubRepo) Seed(_ context.Context, locations []domain.Location) error {
	for _, loc := range locations {
		if _, ok := s.locations[loc.ID]; !ok {
			copy := loc
			s.locations[loc.ID] = &copy
		}
	}
	return nil
}

func TestComputeStatusNoReports(t *testing.T) {
	agg := NewAggregator(&reportStubRepo{}, newLocationStubRepo(), nil)

	status, err := agg.ComputeStatus(context.Background(), "library")
	if err != nil {
		t.Fatalf("ComputeStatus returned error: %v", err)
	}
	if status != domain.StatusNoRecentData {
		t.Fatalf("expected %q for a location without reports, got %q", domain.StatusNoRecentData, status)
	}
}

func TestRefreshAfterReport(t *testing.T) {
	reports := &reportStubRepo{}
	locations := newLocationStubRepo()
	agg := NewAggregator(reports, locations, nil)

	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	if _, err := reports.Create(context.Background(), &domain.Report{
		UserID: "alice", LocationID: "library", Status: domain.StatusBusy, ReportedAt: now,
	}); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	status, err := agg.Refresh(context.Background(), "library", now)
	if err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	if status != domain.StatusBusy {
		t.Fatalf("expected %q, got %q", domain.StatusBusy, status)
	}

	all, err := agg.AllStatuses(context.Background())
	if err != nil {
		t.Fatalf("AllStatuses returned error: %v", err)
	}
	if all["library"] != domain.StatusBusy {
		t.Fatalf("cached status not updated: %q", all["library"])
	}
	if all["union"] != domain.StatusNoRecentData {
		t.Fatalf("unrelated location touched: %q", all["union"])
	}
}

func TestRefreshMostRecentWins(t *testing.T) {
	reports := &reportStubRepo{}
	locations := newLocationStubRepo()
	agg := NewAggregator(reports, locations, nil)

	t0 := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	_, _ = reports.Create(context.Background(), &domain.Report{
		UserID: "alice", LocationID: "library", Status: domain.StatusBusy, ReportedAt: t0,
	})
	_, _ = reports.Create(context.Background(), &domain.Report{
		UserID: "bob", LocationID: "library", Status: domain.StatusNotBusy, ReportedAt: t0.Add(5 * time.Minute),
	})

	status, err := agg.Refresh(context.Background(), "library", t0.Add(6*time.Minute))
	if err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	if status != domain.StatusNotBusy {
		t.Fatalf("expected newest report to win, got %q", status)
	}
}

func TestRefreshTieBrokenByInsertionOrder(t *testing.T) {
	reports := &reportStubRepo{}
	agg := NewAggregator(reports, newLocationStubRepo(), nil)

	t0 := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	_, _ = reports.Create(context.Background(), &domain.Report{
		UserID: "alice", LocationID: "library", Status: domain.StatusBusy, ReportedAt: t0,
	})
	_, _ = reports.Create(context.Background(), &domain.Report{
		UserID: "bob", LocationID: "library", Status: domain.StatusModeratelyBusy, ReportedAt: t0,
	})

	status, err := agg.ComputeStatus(context.Background(), "library")
	if err != nil {
		t.Fatalf("ComputeStatus returned error: %v", err)
	}
	if status != domain.StatusModeratelyBusy {
		t.Fatalf("expected later insert to win the tie, got %q", status)
	}
}

func TestRefreshIdempotent(t *testing.T) {
	reports := &reportStubRepo{}
	locations := newLocationStubRepo()
	agg := NewAggregator(reports, locations, nil)

	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	_, _ = reports.Create(context.Background(), &domain.Report{
		UserID: "alice", LocationID: "wang", Status: domain.StatusModeratelyBusy, ReportedAt: now,
	})

	first, err := agg.Refresh(context.Background(), "wang", now)
	if err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	second, err := agg.Refresh(context.Background(), "wang", now.Add(time.Minute))
	if err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	if first != second {
		t.Fatalf("Refresh not idempotent: %q then %q", first, second)
	}
}

func TestRecentReportsLimit(t *testing.T) {
	reports := &reportStubRepo{}
	agg := NewAggregator(reports, newLocationStubRepo(), nil)

	t0 := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 15; i++ {
		_, _ = reports.Create(context.Background(), &domain.Report{
			UserID: "alice", LocationID: "sac", Status: domain.StatusBusy,
			ReportedAt: t0.Add(time.Duration(i) * time.Minute),
		})
	}

	got, err := agg.RecentReports(context.Background(), "sac", 0)
	if err != nil {
		t.Fatalf("RecentReports returned error: %v", err)
	}
	if len(got) != RecentReportsLimit {
		t.Fatalf("expected %d reports, got %d", RecentReportsLimit, len(got))
	}
	if !got[0].ReportedAt.After(got[1].ReportedAt) {
		t.Fatalf("reports not ordered newest first")
	}
}
