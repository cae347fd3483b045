package service

import (
	"context"

	"github.com/rs/zerolog"

	"docvault/internal/model"
)

// AuditSink receives audit events. Recording is best-effort and never fails the calling operation.
type AuditSink interface {
	Record(ctx context.Context, ev model.AuditEvent)
}

type logAuditSink struct {
	logger zerolog.Logger
}

// NewLogAuditSink returns an AuditSink that writes each event as a structured log entry.
func NewLogAuditSink(logger zerolog.Logger) AuditSink {
	return &logAuditSink{logger: logger.With().Str("component", "audit").Logger()}
}

func (s *logAuditSink) Record(ctx context.Context, ev model.AuditEvent) {
	e := s.logger.Info()
	if ev.Status == model.StatusFailure {
		e = s.logger.Warn()
	}
	e = e.Str("user_id", ev.UserID).
		Str("operation", ev.Operation).
		Str("resource_type", ev.Resource).
		Str("resource_id", ev.ResourceID).
		Str("status", ev.Status)
	if ev.Error != "" {
		e = e.Str("error", ev.Error)
	}
	if len(ev.Details) > 0 {
		e = e.Interface("details", ev.Details)
	}
	e.Msg("audit")
}

// auditor wraps a sink with helpers for the success/failure pair every operation emits.
type auditor struct {
	sink AuditSink
}

func (a auditor) success(ctx context.Context, userID, op, resource, id string, details map[string]any) {
	if a.sink == nil {
		return
	}
	a.sink.Record(ctx, model.AuditEvent{
		UserID: userID, Operation: op, Resource: resource, ResourceID: id,
		Details: details, Status: model.StatusSuccess,
	})
}

func (a auditor) failure(ctx context.Context, userID, op, resource, id string, details map[string]any, err error) {
	if a.sink == nil {
		return
	}
	ev := model.AuditEvent{
		UserID: userID, Operation: op, Resource: resource, ResourceID: id,
		Details: details, Status: model.StatusFailure,
	}
	if err != nil {
		ev.Error = err.Error()
	}
	a.sink.Record(ctx, ev)
}
