package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/studyspot/backend/domain"
	"github.com/studyspot/backend/repository"
)

type reportRepository struct {
	pool *pgxpool.Pool
}

// NewReportRepository returns a Postgres-backed implementation of ReportRepository.
func NewReportRepository(pool *pgxpool.Pool) repository.ReportRepository {
	return &reportRepository{pool: pool}
}

func (r *reportRepository) Create(ctx context.Context, report *domain.Report) (*domain.Report, error) {
	if report == nil {
		return nil, domain.ErrInvalidPayload
	}

	const query = `
	INSERT INTO user_responses (user_id, location_id, status_reported, timestamp)
	VALUES ($1, $2, $3, COALESCE($4, NOW()))
	RETURNING response_id, timestamp
	`

	if err := r.pool.QueryRow(ctx, query,
		report.UserID,
		report.LocationID,
		string(report.Status),
		nullTime(report.ReportedAt),
	).Scan(&report.ID, &report.ReportedAt); err != nil {
		return nil, err
	}
	return report, nil
}

func (r *reportRepository) Recent(ctx context.Context, locationID string, limit int) ([]domain.Report, error) {
	// Newest first by the stored timestamp; response_id breaks ties so the
	// later insert wins.
	const query = `
	SELECT response_id, user_id, location_id, status_reported, timestamp
	FROM user_responses
	WHERE location_id = $1
	ORDER BY timestamp DESC, response_id DESC
	LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, locationID, clampLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []domain.Report
	for rows.Next() {
		var rep domain.Report
		var status string
		if err := rows.Scan(&rep.ID, &rep.UserID, &rep.LocationID, &status, &rep.ReportedAt); err != nil {
			return nil, err
		}
		rep.Status = domain.Status(status)
		reports = append(reports, rep)
	}
	return reports, rows.Err()
}
