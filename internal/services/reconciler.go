package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/studyspot/backend/repository"
	"github.com/studyspot/backend/usecase/status"
)

// StatusReconciler periodically re-derives every location's cached status
// from the report log. The cache is normally maintained synchronously on
// each report; the sweep repairs it after buffered replays or a crash
// between the report insert and the cache write.
type StatusReconciler struct {
	locations  repository.LocationRepository
	aggregator *status.Aggregator
	logger     *zap.Logger
	cron       *cron.Cron
	interval   time.Duration
}

func NewStatusReconciler(
	locations repository.LocationRepository,
	aggregator *status.Aggregator,
	interval time.Duration,
	logger *zap.Logger,
) *StatusReconciler {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	sr := &StatusReconciler{
		locations:  locations,
		aggregator: aggregator,
		logger:     logger,
		interval:   interval,
		cron:       cron.New(),
	}

	schedule := fmt.Sprintf("@every %s", interval)
	_, _ = sr.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), interval)
		defer cancel()
		if err := sr.Sweep(ctx); err != nil {
			sr.logger.Error("status reconciliation failed", zap.Error(err))
		}
	})

	return sr
}

func (sr *StatusReconciler) Start() {
	if sr == nil || sr.cron == nil {
		return
	}
	sr.cron.Start()
	sr.logger.Info("status reconciler started", zap.Duration("interval", sr.interval))
}

func (sr *StatusReconciler) Stop(ctx context.Context) {
	if sr == nil || sr.cron == nil {
		return
	}
	stopCtx := sr.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	sr.logger.Info("status reconciler stopped")
}

// Sweep refreshes every location once. Refresh is idempotent, so a sweep on
// an already-consistent cache is a no-op apart from the bumped timestamps.
func (sr *StatusReconciler) Sweep(ctx context.Context) error {
	locations, err := sr.locations.List(ctx)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	for _, loc := range locations {
		if _, err := sr.aggregator.Refresh(ctx, loc.ID, now); err != nil {
			sr.logger.Error("failed to reconcile location status",
				zap.String("location_id", loc.ID), zap.Error(err))
		}
	}
	return nil
}
