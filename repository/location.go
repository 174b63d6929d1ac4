package repository

import (
	"context"
	"time"

	"github.com/studyspot/backend/domain"
)

type LocationRepository interface {
	// List returns every known location in a stable order (by ID).
	List(ctx context.Context) ([]domain.Location, error)
	GetByID(ctx context.Context, id string) (*domain.Location, error)
	// UpdateStatus rewrites the cached crowd status and its timestamp.
	UpdateStatus(ctx context.Context, id string, status domain.Status, updatedAt time.Time) error
	// Seed inserts the fixed location set, skipping rows that already exist.
	Seed(ctx context.Context, locations []domain.Location) error
}
