package services

import (
	"context"
	"encoding/json"

	"github.com/studyspot/backend/domain"
	"github.com/studyspot/backend/internal/infrastructure/buffer"
	"github.com/studyspot/backend/usecase"
)

// ReportBridge adapts the processor to the use-case facing buffer port.
type ReportBridge struct {
	processor *ReportProcessor
}

func NewReportBridge(processor *ReportProcessor) *ReportBridge {
	return &ReportBridge{processor: processor}
}

func (b *ReportBridge) BufferReport(ctx context.Context, report *domain.Report) error {
	if b.processor == nil || report == nil {
		return domain.ErrInvalidPayload
	}
	payload, err := json.Marshal(report)
	if err != nil {
		return err
	}
	item := buffer.Item{
		UserID:    report.UserID,
		Entity:    buffer.EntityReport,
		Data:      payload,
		Timestamp: report.ReportedAt,
	}
	return b.processor.Enqueue(item)
}

var _ usecase.ReportBuffer = (*ReportBridge)(nil)
