// Package status derives each location's displayed crowd level from its
// report history and maintains the cached copy on the location row.
package status

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/studyspot/backend/domain"
	"github.com/studyspot/backend/repository"
)

// RecentReportsLimit bounds the per-location history returned to the UI.
const RecentReportsLimit = 10

type Aggregator struct {
	reports   repository.ReportRepository
	locations repository.LocationRepository
	logger    *zap.Logger
}

func NewAggregator(reports repository.ReportRepository, locations repository.LocationRepository, logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{
		reports:   reports,
		locations: locations,
		logger:    logger,
	}
}

// ComputeStatus returns the status of the single most recent report for the
// location, or "No Recent Data" when none exist.
func (a *Aggregator) ComputeStatus(ctx context.Context, locationID string) (domain.Status, error) {
	reports, err := a.reports.Recent(ctx, locationID, 1)
	if err != nil {
		return "", err
	}
	if len(reports) == 0 {
		return domain.StatusNoRecentData, nil
	}
	return reports[0].Status, nil
}

// Refresh recomputes the location's status and writes it plus now into the
// cached fields. The cache is not self-healing, so callers must invoke this
// synchronously after every recorded report. Refresh is idempotent with
// respect to the derived status.
func (a *Aggregator) Refresh(ctx context.Context, locationID string, now time.Time) (domain.Status, error) {
	current, err := a.ComputeStatus(ctx, locationID)
	if err != nil {
		return "", err
	}
	if err := a.locations.UpdateStatus(ctx, locationID, current, now); err != nil {
		return "", err
	}
	a.logger.Debug("location status refreshed",
		zap.String("location_id", locationID),
		zap.String("status", string(current)))
	return current, nil
}

// AllStatuses returns the cached status per location for the sidebar view.
func (a *Aggregator) AllStatuses(ctx context.Context) (map[string]domain.Status, error) {
	locations, err := a.locations.List(ctx)
	if err != nil {
		return nil, err
	}
	statuses := make(map[string]domain.Status, len(locations))
	for _, loc := range locations {
		status := loc.Status
		if status == "" {
			status = domain.StatusNoRecentData
		}
		statuses[loc.ID] = status
	}
	return statuses, nil
}

// RecentReports returns the newest reports for a location, newest first.
func (a *Aggregator) RecentReports(ctx context.Context, locationID string, limit int) ([]domain.Report, error) {
	if limit <= 0 || limit > RecentReportsLimit {
		limit = RecentReportsLimit
	}
	return a.reports.Recent(ctx, locationID, limit)
}
