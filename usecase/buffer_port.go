package usecase

import (
	"context"

	"github.com/studyspot/backend/domain"
)

// ReportBuffer abstracts the buffer processor so use cases stay storage-agnostic.
// A buffered report is queued durably and replayed later; the caller must
// surface that the report is not recorded yet.
type ReportBuffer interface {
	BufferReport(ctx context.Context, report *domain.Report) error
}
