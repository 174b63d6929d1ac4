package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/studyspot/backend/domain"
	"github.com/studyspot/backend/repository"
)

type locationRepository struct {
	pool *pgxpool.Pool
}

// NewLocationRepository returns a Postgres-backed implementation of LocationRepository.
func NewLocationRepository(pool *pgxpool.Pool) repository.LocationRepository {
	return &locationRepository{pool: pool}
}

func (r *locationRepository) List(ctx context.Context) ([]domain.Location, error) {
	const query = `
	SELECT location_id, name, lat, lon, radius, current_status, last_updated
	FROM locations
	ORDER BY location_id
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var locations []domain.Location
	for rows.Next() {
		loc, err := scanLocation(rows)
		if err != nil {
			return nil, err
		}
		locations = append(locations, *loc)
	}
	return locations, rows.Err()
}

func (r *locationRepository) GetByID(ctx context.Context, id string) (*domain.Location, error) {
	const query = `
	SELECT location_id, name, lat, lon, radius, current_status, last_updated
	FROM locations
	WHERE location_id = $1
	`
	return scanLocation(r.pool.QueryRow(ctx, query, id))
}

func (r *locationRepository) UpdateStatus(ctx context.Context, id string, status domain.Status, updatedAt time.Time) error {
	const query = `
	UPDATE locations
	SET current_status = $2,
		last_updated = $3
	WHERE location_id = $1
	`
	tag, err := r.pool.Exec(ctx, query, id, string(status), updatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrLocationNotFound
	}
	return nil
}

func (r *locationRepository) Seed(ctx context.Context, locations []domain.Location) error {
	const query = `
	INSERT INTO locations (location_id, name, lat, lon, radius, current_status)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (location_id) DO NOTHING
	`
	for _, loc := range locations {
		radius := loc.RadiusMeters
		if radius <= 0 {
			radius = domain.DefaultRadiusMeters
		}
		status := loc.Status
		if status == "" {
			status = domain.StatusNoRecentData
		}
		if _, err := r.pool.Exec(ctx, query,
			loc.ID,
			loc.Name,
			loc.Latitude,
			loc.Longitude,
			radius,
			string(status),
		); err != nil {
			return err
		}
	}
	return nil
}

func scanLocation(row pgx.Row) (*domain.Location, error) {
	var loc domain.Location
	var (
		status string
		// last_updated is NULL until the first status refresh.
		lastUpdated *time.Time
	)

	if err := row.Scan(
		&loc.ID,
		&loc.Name,
		&loc.Latitude,
		&loc.Longitude,
		&loc.RadiusMeters,
		&status,
		&lastUpdated,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrLocationNotFound
		}
		return nil, err
	}

	loc.Status = domain.Status(status)
	if lastUpdated != nil {
		loc.LastUpdated = *lastUpdated
	}
	return &loc, nil
}
