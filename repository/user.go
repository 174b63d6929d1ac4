package repository

import (
	"context"

	"github.com/studyspot/backend/domain"
)

type UserRepository interface {
	// Create inserts a new user. Returns domain.ErrDuplicateUser when the
	// username or email is already taken; no partial row remains.
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}
