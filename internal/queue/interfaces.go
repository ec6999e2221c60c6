package queue

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"github.com/cgradwohl/message-log-service/internal/domain"
)

// RetryPayload is the wire shape of a failed event write handed to the
// reprocessing queue.
type RetryPayload struct {
	TenantID  string           `json:"tenantId"`
	MessageID string           `json:"messageId"`
	Type      domain.EventType `json:"type"`
	JSON      domain.Payload   `json:"json"`
	TS        int64            `json:"ts"`
}

// ReprocessPublisher enqueues failed event writes for asynchronous retry.
// Enqueue is fire-and-forget from the caller's point of view; failures here
// are logged, never propagated into the write path.
type ReprocessPublisher interface {
	Enqueue(ctx context.Context, payload *RetryPayload) error
}

// QueueConsumer defines the interface for consuming messages from a queue.
type QueueConsumer interface {
	ReceiveMessages(ctx context.Context, input *sqs.ReceiveMessageInput) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, input *sqs.DeleteMessageInput) (*sqs.DeleteMessageOutput, error)
	QueueURL() string
}
