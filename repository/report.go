package repository

import (
	"context"

	"github.com/studyspot/backend/domain"
)

type ReportRepository interface {
	// Create appends a report row and fills in the generated ID. The write
	// is durable before the call returns.
	Create(ctx context.Context, report *domain.Report) (*domain.Report, error)
	// Recent returns up to limit reports for the location, newest first by
	// stored timestamp, ties broken by insertion order.
	Recent(ctx context.Context, locationID string, limit int) ([]domain.Report, error)
}
