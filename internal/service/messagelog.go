package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/cgradwohl/message-log-service/internal/domain"
	"github.com/cgradwohl/message-log-service/internal/eventlog"
	"github.com/cgradwohl/message-log-service/internal/repository"
)

// ErrNotFound signals a missing message, an empty event log, or a message
// past its tenant's retention cutoff.
var ErrNotFound = errors.New("message not found")

// ErrInvalidArgument signals a malformed request.
var ErrInvalidArgument = errors.New("invalid argument")

// MessageLogService wires the event log components behind the public read
// and write operations.
type MessageLogService struct {
	writer     EventLogWriter
	reader     EventLogReader
	projector  HistoryProjector
	aggregator StatusAggregator
	messages   repository.MessageStore
	retention  RetentionResolver
	log        *zap.Logger
}

// NewMessageLogService creates the service façade.
func NewMessageLogService(writer EventLogWriter, reader EventLogReader, projector HistoryProjector,
	aggregator StatusAggregator, messages repository.MessageStore, retention RetentionResolver,
	log *zap.Logger) *MessageLogService {
	return &MessageLogService{
		writer:     writer,
		reader:     reader,
		projector:  projector,
		aggregator: aggregator,
		messages:   messages,
		retention:  retention,
		log:        log,
	}
}

// Create appends one event. The write path never fails the caller; a nil
// record means the write was dropped (and reported) downstream.
func (s *MessageLogService) Create(ctx context.Context, tenantID, messageID string, eventType domain.EventType,
	payload domain.Payload, timestamp int64) *domain.EventRecord {
	return s.writer.Create(ctx, tenantID, messageID, eventType, payload, timestamp)
}

// GetLogs returns the general event-log view for a message.
func (s *MessageLogService) GetLogs(ctx context.Context, tenantID, messageID string) ([]*domain.EventRecord, error) {
	records, err := s.reader.GetLogs(ctx, tenantID, messageID)
	return records, mapReaderError(err)
}

// GetByType returns all events of one type for a message.
func (s *MessageLogService) GetByType(ctx context.Context, tenantID, messageID string, eventType domain.EventType) ([]*domain.EventRecord, error) {
	if !eventType.Known() {
		return nil, fmt.Errorf("%w: unknown event type %q", ErrInvalidArgument, eventType)
	}
	records, err := s.reader.GetByType(ctx, tenantID, messageID, eventType)
	return records, mapReaderError(err)
}

// mapReaderError lifts reader validation failures into the service's error
// vocabulary.
func mapReaderError(err error) error {
	if errors.Is(err, eventlog.ErrMissingIdentifier) {
		return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	return err
}

// GetHistoryByID returns the audit-trail projection of a message's log,
// ascending by ts, optionally filtered to one history type.
func (s *MessageLogService) GetHistoryByID(ctx context.Context, tenantID, messageID string, filter string) ([]*domain.HistoryRecord, error) {
	historyFilter := domain.HistoryType(filter)
	if filter != "" && !historyFilter.Known() {
		return nil, fmt.Errorf("%w: unknown history type %q", ErrInvalidArgument, filter)
	}

	events, err := s.reader.GetLogs(ctx, tenantID, messageID)
	if err != nil {
		return nil, mapReaderError(err)
	}
	if len(events) == 0 {
		return nil, fmt.Errorf("%w: no events for message %s", ErrNotFound, messageID)
	}

	records := make([]*domain.HistoryRecord, 0, len(events))
	for _, event := range events {
		record, ok, err := s.projector.Project(event)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		if filter != "" && record.Type != historyFilter {
			continue
		}
		records = append(records, record)
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].TS < records[j].TS
	})

	return records, nil
}

// GetByID returns the computed current-status aggregate for a message, or
// ErrNotFound when the message does not exist or has aged past the tenant's
// retention cutoff.
func (s *MessageLogService) GetByID(ctx context.Context, tenantID, messageID string, includeProviders bool) (*domain.MessageLog, error) {
	item, err := s.messages.Get(ctx, tenantID, messageID)
	if errors.Is(err, repository.ErrItemNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, messageID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load message: %w", err)
	}

	cutoff, err := s.retention.RetentionCutoff(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if cutoff > 0 && item.Enqueued < cutoff {
		s.log.Debug("Message past retention cutoff",
			zap.String("tenant_id", tenantID),
			zap.String("message_id", messageID),
			zap.Int64("enqueued", item.Enqueued),
			zap.Int64("cutoff", cutoff))
		return nil, fmt.Errorf("%w: %s", ErrNotFound, messageID)
	}

	events, err := s.reader.GetAll(ctx, tenantID, messageID)
	if err != nil {
		return nil, err
	}

	return s.aggregator.Aggregate(toDomainMessage(item), events, includeProviders)
}

func toDomainMessage(item *repository.MessageItem) *domain.Message {
	return &domain.Message{
		ID:           item.ID,
		TenantID:     item.TenantID,
		Enqueued:     item.Enqueued,
		Status:       domain.MessageStatus(item.Status),
		Event:        item.Event,
		Notification: item.Notification,
		Recipient:    item.Recipient,
		Tags:         item.Tags,
	}
}
