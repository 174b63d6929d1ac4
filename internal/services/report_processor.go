package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/studyspot/backend/domain"
	"github.com/studyspot/backend/internal/infrastructure/buffer"
	"github.com/studyspot/backend/repository"
	"github.com/studyspot/backend/usecase/status"
)

// ConnectionHealth abstracts the connection monitor functionality.
type ConnectionHealth interface {
	IsOnline() bool
}

// ProcessorConfig controls how frequently the buffer is drained.
type ProcessorConfig struct {
	Interval   time.Duration
	BatchSize  int
	MaxRetries int
}

// ReportProcessor replays buffered crowd reports once the datastore is back,
// then refreshes the affected location's cached status so "most recent
// report wins" holds for replayed rows too.
type ReportProcessor struct {
	store      *buffer.Store
	monitor    ConnectionHealth
	reports    repository.ReportRepository
	aggregator *status.Aggregator
	logger     *zap.Logger
	cron       *cron.Cron
	cfg        ProcessorConfig
}

func NewReportProcessor(
	store *buffer.Store,
	monitor ConnectionHealth,
	reports repository.ReportRepository,
	aggregator *status.Aggregator,
	logger *zap.Logger,
	cfg ProcessorConfig,
) *ReportProcessor {
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	rp := &ReportProcessor{
		store:      store,
		monitor:    monitor,
		reports:    reports,
		aggregator: aggregator,
		logger:     logger,
		cfg:        cfg,
		cron:       cron.New(cron.WithSeconds()),
	}

	schedule := fmt.Sprintf("@every %ds", int(cfg.Interval.Seconds()))
	_, _ = rp.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Interval)
		defer cancel()
		if err := rp.Drain(ctx); err != nil {
			rp.logger.Error("report buffer drain failed", zap.Error(err))
		}
	})

	return rp
}

// Start launches the cron scheduler.
func (rp *ReportProcessor) Start() {
	if rp == nil || rp.cron == nil {
		return
	}
	rp.cron.Start()
	rp.logger.Info("report processor started")
}

// Stop gracefully stops the scheduler.
func (rp *ReportProcessor) Stop(ctx context.Context) {
	if rp == nil || rp.cron == nil {
		return
	}
	stopCtx := rp.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	rp.logger.Info("report processor stopped")
}

// Drain replays buffered reports synchronously.
func (rp *ReportProcessor) Drain(ctx context.Context) error {
	if rp == nil || rp.store == nil {
		return nil
	}
	if rp.monitor != nil && !rp.monitor.IsOnline() {
		rp.logger.Debug("skipping buffer drain (offline)")
		return nil
	}

	items, err := rp.store.GetBatch(rp.cfg.BatchSize)
	if err != nil {
		return err
	}

	refreshed := map[string]bool{}
	for _, item := range items {
		locationID, err := rp.replay(ctx, item)
		if err != nil {
			rp.logger.Error("failed to replay buffered report",
				zap.String("item_id", item.ID),
				zap.Error(err))

			item.Retries++
			if item.Retries >= rp.cfg.MaxRetries {
				rp.logger.Warn("dropping buffered report (max retries reached)", zap.String("item_id", item.ID))
				_ = rp.store.Remove(item)
				continue
			}

			if err := rp.store.Remove(item); err != nil {
				rp.logger.Warn("failed to remove buffer item", zap.Error(err))
			}
			if err := rp.store.Requeue(item); err != nil {
				rp.logger.Error("failed to requeue buffer item", zap.Error(err))
			}
			continue
		}

		if err := rp.store.Remove(item); err != nil {
			rp.logger.Warn("failed to purge replayed buffer item", zap.Error(err))
		}
		refreshed[locationID] = false
	}

	// One status refresh per touched location, after the batch.
	now := time.Now().UTC()
	for locationID := range refreshed {
		if _, err := rp.aggregator.Refresh(ctx, locationID, now); err != nil {
			rp.logger.Error("status refresh after replay failed",
				zap.String("location_id", locationID), zap.Error(err))
		}
	}
	return nil
}

// Size returns the number of buffered items.
func (rp *ReportProcessor) Size() int {
	if rp == nil || rp.store == nil {
		return 0
	}
	size, err := rp.store.Size()
	if err != nil {
		return 0
	}
	return size
}

// Enqueue persists a report for later replay.
func (rp *ReportProcessor) Enqueue(item buffer.Item) error {
	if rp == nil || rp.store == nil {
		return fmt.Errorf("report processor not configured")
	}
	return rp.store.Enqueue(item)
}

func (rp *ReportProcessor) replay(ctx context.Context, item buffer.Item) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if item.Entity != buffer.EntityReport {
		return "", fmt.Errorf("unsupported entity %s", item.Entity)
	}

	var report domain.Report
	if err := json.Unmarshal(item.Data, &report); err != nil {
		return "", err
	}
	report.ID = 0
	if _, err := rp.reports.Create(ctx, &report); err != nil {
		return "", err
	}
	return report.LocationID, nil
}
