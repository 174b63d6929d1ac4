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

type notificationRepository struct {
	pool *pgxpool.Pool
}

// NewNotificationRepository returns a Postgres-backed implementation of NotificationRepository.
func NewNotificationRepository(pool *pgxpool.Pool) repository.NotificationRepository {
	return &notificationRepository{pool: pool}
}

func (r *notificationRepository) Log(ctx context.Context, event *domain.NotificationEvent) error {
	if event == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	INSERT INTO notification_log (user_id, location_id, last_notified)
	VALUES ($1, $2, COALESCE($3, NOW()))
	RETURNING log_id, last_notified
	`

	return r.pool.QueryRow(ctx, query,
		event.UserID,
		event.LocationID,
		nullTime(event.NotifiedAt),
	).Scan(&event.ID, &event.NotifiedAt)
}

func (r *notificationRepository) Last(ctx context.Context, userID, locationID string) (time.Time, error) {
	const query = `
	SELECT last_notified
	FROM notification_log
	WHERE user_id = $1 AND location_id = $2
	ORDER BY last_notified DESC
	LIMIT 1
	`
	var notified time.Time
	if err := r.pool.QueryRow(ctx, query, userID, locationID).Scan(&notified); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return time.Time{}, nil
		}
		return time.Time{}, err
	}
	return notified, nil
}
