// Package session drives the per-user prompt state machine: Idle until
// coordinates arrive, Scanning while no prompt is active, Prompting while
// one is. Only two events move it: a location update and a report
// submission.
package session

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/studyspot/backend/domain"
	"github.com/studyspot/backend/pkg/logger"
	"github.com/studyspot/backend/repository"
	"github.com/studyspot/backend/usecase"
	"github.com/studyspot/backend/usecase/proximity"
	"github.com/studyspot/backend/usecase/status"
)

type Machine struct {
	sessions   repository.SessionRepository
	reports    repository.ReportRepository
	engine     *proximity.Engine
	aggregator *status.Aggregator
	buffer     usecase.ReportBuffer
	logger     *zap.Logger
	now        func() time.Time
}

func New(
	sessions repository.SessionRepository,
	reports repository.ReportRepository,
	engine *proximity.Engine,
	aggregator *status.Aggregator,
	buffer usecase.ReportBuffer,
	logger *zap.Logger,
) *Machine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Machine{
		sessions:   sessions,
		reports:    reports,
		engine:     engine,
		aggregator: aggregator,
		buffer:     buffer,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Snapshot returns the current session record.
func (m *Machine) Snapshot(ctx context.Context, sessionID string) (*domain.Session, error) {
	session, err := m.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.IsExpired(m.now()) {
		_ = m.sessions.Delete(ctx, sessionID)
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

// UpdateLocation handles the "on location update" event. A nil position
// means the device declined or has not yet produced coordinates: the
// session drops to Idle and no scan runs. While a prompt is active the
// position is cached but scanning stays suspended. Otherwise the session
// scans and, on a hit, freezes into Prompting; the notification event is
// logged inside the scan as part of this transition.
func (m *Machine) UpdateLocation(ctx context.Context, sessionID string, position *domain.Coordinates) (*domain.Session, error) {
	session, err := m.Snapshot(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if position == nil {
		if session.State != domain.SessionPrompting {
			session.State = domain.SessionIdle
		}
		session.Position = nil
		if err := m.sessions.Save(ctx, session); err != nil {
			return nil, err
		}
		return session, nil
	}

	session.Position = position

	if session.State == domain.SessionPrompting {
		// Scanning is suspended until the active prompt is answered.
		if err := m.sessions.Save(ctx, session); err != nil {
			return nil, err
		}
		return session, nil
	}

	session.State = domain.SessionScanning

	now := m.now()
	hit, err := m.engine.Scan(ctx, session.UserID, *position, now)
	if err != nil {
		return nil, err
	}
	if hit != nil {
		session.State = domain.SessionPrompting
		session.Prompt = &domain.Prompt{
			LocationID:   hit.ID,
			LocationName: hit.Name,
			NotifiedAt:   now,
		}
	}

	if err := m.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// SubmitReport handles the "on report submitted" event. The session must be
// Prompting. In order: the report row is appended, the location's cached
// status is refreshed, the prompt is cleared and the session returns to
// Scanning. When the datastore is down the report is queued durably instead
// and buffered=true tells the caller it is not recorded yet; the status
// refresh then happens at replay time.
func (m *Machine) SubmitReport(ctx context.Context, sessionID string, crowd domain.Status) (session *domain.Session, buffered bool, err error) {
	if !crowd.Reportable() {
		return nil, false, domain.NewError(domain.ErrCodeInvalid, "unknown crowd status")
	}

	session, err = m.Snapshot(ctx, sessionID)
	if err != nil {
		return nil, false, err
	}
	if session.State != domain.SessionPrompting || session.Prompt == nil {
		return nil, false, domain.ErrNoActivePrompt
	}

	now := m.now()
	report := &domain.Report{
		UserID:     session.UserID,
		LocationID: session.Prompt.LocationID,
		Status:     crowd,
		ReportedAt: now,
	}

	log := logger.WithRequestID(ctx, m.logger)

	if _, err := m.reports.Create(ctx, report); err != nil {
		if m.buffer == nil {
			return nil, false, domain.WrapError(domain.ErrCodeUnavailable, "report not recorded", err)
		}
		if bufErr := m.buffer.BufferReport(ctx, report); bufErr != nil {
			log.Error("failed to buffer report", zap.Error(bufErr))
			return nil, false, domain.WrapError(domain.ErrCodeUnavailable, "report not recorded", err)
		}
		log.Warn("report buffered, datastore unavailable",
			zap.String("location_id", report.LocationID), zap.Error(err))
		buffered = true
	}

	if !buffered {
		if _, err := m.aggregator.Refresh(ctx, report.LocationID, now); err != nil {
			// The report row is durable; a failed cache refresh is repaired
			// by the reconciliation sweep.
			log.Error("status refresh failed after report",
				zap.String("location_id", report.LocationID), zap.Error(err))
		}
	}

	session.Prompt = nil
	session.State = domain.SessionScanning
	if err := m.sessions.Save(ctx, session); err != nil {
		return nil, buffered, err
	}
	return session, buffered, nil
}
