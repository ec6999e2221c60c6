package consumer

import (
	"context"

	"github.com/cgradwohl/message-log-service/internal/queue"
)

// MessageParser defines the interface for parsing raw message bytes into
// retry payloads.
type MessageParser interface {
	Parse(body []byte) (*queue.RetryPayload, error)
}

// WriteReplayer re-attempts a failed event-log write.
type WriteReplayer interface {
	Replay(ctx context.Context, payload *queue.RetryPayload) error
}
