package eventlog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cgradwohl/message-log-service/internal/diagnostics"
	"github.com/cgradwohl/message-log-service/internal/domain"
	"github.com/cgradwohl/message-log-service/internal/metrics"
	"github.com/cgradwohl/message-log-service/internal/queue"
	"github.com/cgradwohl/message-log-service/internal/repository"
)

// itemOverheadBytes approximates the per-item key and attribute-name cost
// counted against a write-capacity unit, on top of the payload itself.
const itemOverheadBytes = 128

// StoreConfig configures the event log writer.
type StoreConfig struct {
	// InlineLimitBytes is the externalization threshold: one DynamoDB
	// write-capacity unit.
	InlineLimitBytes int
}

// Store is the append-only event log writer. Writes are best-effort: the
// message-processing pipeline that triggers them must never block or fail on
// logging, so every failure is swallowed after reporting.
type Store struct {
	events   repository.EventStore
	blobs    repository.ObjectStore
	retries  queue.ReprocessPublisher
	reporter diagnostics.Reporter
	// retryable classifies store write failures; retryable ones are also
	// handed to the reprocessing queue.
	retryable func(error) bool
	config    StoreConfig
	log       *zap.Logger
}

// NewStore creates a new event log writer.
func NewStore(events repository.EventStore, blobs repository.ObjectStore, retries queue.ReprocessPublisher,
	reporter diagnostics.Reporter, retryable func(error) bool, config StoreConfig, log *zap.Logger) *Store {
	if config.InlineLimitBytes <= 0 {
		config.InlineLimitBytes = 1024
	}
	return &Store{
		events:    events,
		blobs:     blobs,
		retries:   retries,
		reporter:  reporter,
		retryable: retryable,
		config:    config,
		log:       log,
	}
}

// Create appends one event to a message's log. A zero timestamp means now.
// On any failure the error is logged, reported, classified, and swallowed;
// the caller sees nil and moves on.
func (s *Store) Create(ctx context.Context, tenantID, messageID string, eventType domain.EventType,
	payload domain.Payload, timestamp int64) *domain.EventRecord {
	if timestamp == 0 {
		timestamp = time.Now().UnixMilli()
	}

	record := &domain.EventRecord{
		ID:        uuid.NewString(),
		TenantID:  tenantID,
		MessageID: messageID,
		Type:      eventType,
		Timestamp: timestamp,
		JSON:      payload,
	}

	if err := s.write(ctx, record); err != nil {
		return s.dropped(ctx, record, err)
	}

	return record
}

// Replay re-attempts a previously failed write from the reprocessing queue.
// Unlike Create it returns the error: the queue's redelivery is the retry
// mechanism, so failures must not be swallowed here.
func (s *Store) Replay(ctx context.Context, payload *queue.RetryPayload) error {
	record := &domain.EventRecord{
		ID:        uuid.NewString(),
		TenantID:  payload.TenantID,
		MessageID: payload.MessageID,
		Type:      payload.Type,
		Timestamp: payload.TS,
		JSON:      payload.JSON,
	}

	return s.write(ctx, record)
}

// write persists one record, externalizing the payload when it would exceed
// one write-capacity unit.
func (s *Store) write(ctx context.Context, record *domain.EventRecord) error {
	if !record.Type.Known() {
		return fmt.Errorf("unknown event type %q", record.Type)
	}

	raw, err := json.Marshal(record.JSON)
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	stored := any(map[string]any(record.JSON))
	if len(raw)+itemOverheadBytes > s.config.InlineLimitBytes {
		path := blobPath(record)
		if err := s.blobs.Put(ctx, path, raw); err != nil {
			return fmt.Errorf("failed to externalize event payload: %w", err)
		}
		stored = map[string]any{
			"type": domain.PayloadTypeExternal,
			"path": path,
		}
		metrics.PayloadsExternalized.Inc()
		s.log.Debug("Event payload externalized",
			zap.String("message_id", record.MessageID),
			zap.String("path", path),
			zap.Int("payload_bytes", len(raw)))
	}

	item := &repository.EventItem{
		ID:        record.ID,
		TenantID:  record.TenantID,
		MessageID: record.MessageID,
		Type:      string(record.Type),
		Timestamp: record.Timestamp,
		JSON:      stored,
	}

	if err := s.events.Put(ctx, item); err != nil {
		return fmt.Errorf("failed to put event record: %w", err)
	}

	return nil
}

// dropped applies the never-propagate failure policy: log, report, enqueue
// retryable failures for reprocessing, return nil.
func (s *Store) dropped(ctx context.Context, record *domain.EventRecord, err error) *domain.EventRecord {
	retryable := s.retryable != nil && s.retryable(err)

	s.log.Error("Event log write failed",
		zap.String("tenant_id", record.TenantID),
		zap.String("message_id", record.MessageID),
		zap.String("event_type", string(record.Type)),
		zap.Bool("retryable", retryable),
		zap.Error(err))

	s.reporter.Report(ctx, err,
		zap.String("tenant_id", record.TenantID),
		zap.String("message_id", record.MessageID),
		zap.String("event_type", string(record.Type)))

	metrics.EventWritesDropped.WithLabelValues(fmt.Sprintf("%t", retryable)).Inc()

	if retryable && s.retries != nil {
		retry := &queue.RetryPayload{
			TenantID:  record.TenantID,
			MessageID: record.MessageID,
			Type:      record.Type,
			JSON:      record.JSON,
			TS:        record.Timestamp,
		}
		if enqueueErr := s.retries.Enqueue(ctx, retry); enqueueErr != nil {
			// Best effort only; the event is lost if this fails too.
			s.log.Error("Failed to enqueue event write for reprocessing",
				zap.String("message_id", record.MessageID),
				zap.Error(enqueueErr))
		} else {
			metrics.ReprocessEnqueued.Inc()
		}
	}

	return nil
}

// blobPath builds the external payload key. The randomized prefix spreads
// keys across partitions.
func blobPath(record *domain.EventRecord) string {
	return fmt.Sprintf("%s/%s-%s_%s_%d.json",
		uuid.NewString()[:8], record.TenantID, record.MessageID, record.Type, record.Timestamp)
}
