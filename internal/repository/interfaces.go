package repository

import (
	"context"
	"errors"
)

// ErrItemNotFound signals a point lookup that matched nothing.
var ErrItemNotFound = errors.New("item not found")

// EventItem is the stored shape of one event-log record. JSON holds either
// the payload object, a legacy JSON-encoded string, or an EXTERNAL pointer.
type EventItem struct {
	ID        string `dynamodbav:"id"`
	TenantID  string `dynamodbav:"tenantId"`
	MessageID string `dynamodbav:"messageId"`
	Type      string `dynamodbav:"type"`
	Timestamp int64  `dynamodbav:"timestamp"`
	JSON      any    `dynamodbav:"json"`
}

// MessageItem is the stored row for one message.
type MessageItem struct {
	ID           string   `dynamodbav:"id"`
	TenantID     string   `dynamodbav:"tenantId"`
	Enqueued     int64    `dynamodbav:"enqueued"`
	Status       string   `dynamodbav:"status"`
	Event        string   `dynamodbav:"event,omitempty"`
	Notification string   `dynamodbav:"notification,omitempty"`
	Recipient    string   `dynamodbav:"recipient,omitempty"`
	Tags         []string `dynamodbav:"tags,omitempty"`
}

// TenantItem carries the per-tenant settings this service reads.
type TenantItem struct {
	ID            string `dynamodbav:"id"`
	RetentionDays int    `dynamodbav:"retentionDays,omitempty"`
}

// EventStore defines the storage operations for event-log records: point
// lookup by id and a secondary-index scan by message id. Both post-filter on
// tenant id for isolation.
type EventStore interface {
	// Put appends one event record. Records are immutable; Put is never
	// used to overwrite.
	Put(ctx context.Context, item *EventItem) error

	// Get fetches one record by id, returning ErrItemNotFound when absent
	// or owned by another tenant.
	Get(ctx context.Context, tenantID, id string) (*EventItem, error)

	// QueryByMessage returns all records for a message, optionally
	// filtered to one event type. Order is not meaningful.
	QueryByMessage(ctx context.Context, tenantID, messageID, eventType string) ([]*EventItem, error)
}

// MessageStore fetches stored message rows.
type MessageStore interface {
	Get(ctx context.Context, tenantID, messageID string) (*MessageItem, error)
}

// TenantStore fetches per-tenant settings.
type TenantStore interface {
	Get(ctx context.Context, tenantID string) (*TenantItem, error)
}

// ObjectStore is the blob storage collaborator for externalized payloads.
type ObjectStore interface {
	Put(ctx context.Context, path string, body []byte) error
	Get(ctx context.Context, path string) ([]byte, error)
}
