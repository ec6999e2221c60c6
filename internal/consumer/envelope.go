package consumer

import (
	"context"

	"github.com/cgradwohl/message-log-service/internal/queue"
)

// Envelope wraps a retry payload with acknowledgment callbacks.
type Envelope struct {
	Payload *queue.RetryPayload
	ack     func(context.Context) error
	nack    func(context.Context) error
}

// NewEnvelope creates a new message envelope.
func NewEnvelope(payload *queue.RetryPayload, ack, nack func(context.Context) error) *Envelope {
	return &Envelope{
		Payload: payload,
		ack:     ack,
		nack:    nack,
	}
}

// Ack acknowledges successful processing.
func (e *Envelope) Ack(ctx context.Context) error {
	if e.ack != nil {
		return e.ack(ctx)
	}
	return nil
}

// Nack negatively acknowledges processing.
func (e *Envelope) Nack(ctx context.Context) error {
	if e.nack != nil {
		return e.nack(ctx)
	}
	return nil
}
