package eventlog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cgradwohl/message-log-service/internal/domain"
	"github.com/cgradwohl/message-log-service/internal/repository"
)

// ErrMissingIdentifier is returned when a read is attempted without both ids.
var ErrMissingIdentifier = errors.New("tenant id and message id are required")

// hiddenTypes are excluded from the general log view. They remain reachable
// through GetByType and GetAll.
var hiddenTypes = map[domain.EventType]struct{}{
	domain.ProviderAttempt: {},
	domain.PollingAttempt:  {},
}

// ReaderConfig configures read-time sanitization.
type ReaderConfig struct {
	// TruncateLimitBytes bounds embedded strings (base64 attachments,
	// provider response dumps) on the noisy event types.
	TruncateLimitBytes int
}

// Reader fetches event records, resolving external payload pointers and
// migrating legacy shapes so the rest of the pipeline only ever sees the
// current nested form.
type Reader struct {
	events repository.EventStore
	blobs  repository.ObjectStore
	config ReaderConfig
	log    *zap.Logger
}

// NewReader creates a new event log reader.
func NewReader(events repository.EventStore, blobs repository.ObjectStore, config ReaderConfig, log *zap.Logger) *Reader {
	if config.TruncateLimitBytes <= 0 {
		config.TruncateLimitBytes = 2048
	}
	return &Reader{
		events: events,
		blobs:  blobs,
		config: config,
		log:    log,
	}
}

// GetLogs returns all events for a message except the hidden types, sorted
// nowhere: callers sort by timestamp themselves.
func (r *Reader) GetLogs(ctx context.Context, tenantID, messageID string) ([]*domain.EventRecord, error) {
	return r.fetch(ctx, tenantID, messageID, "", false)
}

// GetAll returns the full unfiltered event list, hidden types included. The
// status aggregator consumes this view.
func (r *Reader) GetAll(ctx context.Context, tenantID, messageID string) ([]*domain.EventRecord, error) {
	return r.fetch(ctx, tenantID, messageID, "", true)
}

// GetByType returns all events of one type for a message.
func (r *Reader) GetByType(ctx context.Context, tenantID, messageID string, eventType domain.EventType) ([]*domain.EventRecord, error) {
	return r.fetch(ctx, tenantID, messageID, eventType, true)
}

func (r *Reader) fetch(ctx context.Context, tenantID, messageID string, eventType domain.EventType, includeHidden bool) ([]*domain.EventRecord, error) {
	if tenantID == "" || messageID == "" {
		return nil, ErrMissingIdentifier
	}

	items, err := r.events.QueryByMessage(ctx, tenantID, messageID, string(eventType))
	if err != nil {
		return nil, fmt.Errorf("failed to query event log: %w", err)
	}

	records := make([]*domain.EventRecord, 0, len(items))
	for _, item := range items {
		if !includeHidden {
			if _, hidden := hiddenTypes[domain.EventType(item.Type)]; hidden {
				continue
			}
		}

		record, err := r.normalize(ctx, item)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, nil
}

// normalize turns a stored item into the current event record shape:
// external pointers resolved, legacy payload shapes migrated, encoded fields
// decoded, oversized strings truncated.
func (r *Reader) normalize(ctx context.Context, item *repository.EventItem) (*domain.EventRecord, error) {
	eventType := domain.EventType(item.Type)

	payload := domain.AsPayload(item.JSON)
	if path, external := payload.IsExternal(); external {
		resolved, err := r.resolveExternal(ctx, path)
		if err != nil {
			return nil, err
		}
		payload = resolved
	}

	payload = payload.Clone()
	if payload == nil {
		payload = domain.Payload{}
	}
	migrateLegacyShape(eventType, payload)
	decodeRenderedSubject(eventType, payload)
	if _, noisy := truncatedTypes[eventType]; noisy {
		truncateStrings(map[string]any(payload), r.config.TruncateLimitBytes)
	}

	return &domain.EventRecord{
		ID:        item.ID,
		TenantID:  item.TenantID,
		MessageID: item.MessageID,
		Type:      eventType,
		Timestamp: item.Timestamp,
		JSON:      payload,
	}, nil
}

func (r *Reader) resolveExternal(ctx context.Context, path string) (domain.Payload, error) {
	body, err := r.blobs.Get(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve external payload %s: %w", path, err)
	}

	var payload domain.Payload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse external payload %s: %w", path, err)
	}

	return payload, nil
}
