package service

import (
	"context"

	"github.com/cgradwohl/message-log-service/internal/domain"
)

// MessageLogServicer defines the operations the HTTP surface exposes.
type MessageLogServicer interface {
	Create(ctx context.Context, tenantID, messageID string, eventType domain.EventType, payload domain.Payload, timestamp int64) *domain.EventRecord
	GetLogs(ctx context.Context, tenantID, messageID string) ([]*domain.EventRecord, error)
	GetByType(ctx context.Context, tenantID, messageID string, eventType domain.EventType) ([]*domain.EventRecord, error)
	GetHistoryByID(ctx context.Context, tenantID, messageID string, filter string) ([]*domain.HistoryRecord, error)
	GetByID(ctx context.Context, tenantID, messageID string, includeProviders bool) (*domain.MessageLog, error)
}

// EventLogWriter is the append-only, never-failing write side.
type EventLogWriter interface {
	Create(ctx context.Context, tenantID, messageID string, eventType domain.EventType, payload domain.Payload, timestamp int64) *domain.EventRecord
}

// EventLogReader is the normalizing read side.
type EventLogReader interface {
	GetLogs(ctx context.Context, tenantID, messageID string) ([]*domain.EventRecord, error)
	GetAll(ctx context.Context, tenantID, messageID string) ([]*domain.EventRecord, error)
	GetByType(ctx context.Context, tenantID, messageID string, eventType domain.EventType) ([]*domain.EventRecord, error)
}

// HistoryProjector maps one event record to its audit-trail view.
type HistoryProjector interface {
	Project(record *domain.EventRecord) (*domain.HistoryRecord, bool, error)
}

// StatusAggregator computes the current-status view from the full event log.
type StatusAggregator interface {
	Aggregate(msg *domain.Message, events []*domain.EventRecord, includeProviders bool) (*domain.MessageLog, error)
}

// RetentionResolver answers the tenant retention cutoff.
type RetentionResolver interface {
	RetentionCutoff(ctx context.Context, tenantID string) (int64, error)
}
