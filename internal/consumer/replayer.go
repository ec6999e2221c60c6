package consumer

import (
	"context"

	"go.uber.org/zap"

	"github.com/cgradwohl/message-log-service/internal/metrics"
)

// Replayer re-attempts failed event-log writes one at a time. A failed
// replay is nacked and surfaces again after the queue's visibility timeout;
// there is no batching because each payload stands alone.
type Replayer struct {
	writer WriteReplayer
	log    *zap.Logger
}

// NewReplayer creates a new replayer stage.
func NewReplayer(writer WriteReplayer, log *zap.Logger) *Replayer {
	return &Replayer{
		writer: writer,
		log:    log,
	}
}

// Start consumes envelopes and replays their writes until the input closes.
func (r *Replayer) Start(ctx context.Context, in <-chan *Envelope) {
	for {
		select {
		case <-ctx.Done():
			r.log.Info("Replayer shutting down")
			return
		case envelope, ok := <-in:
			if !ok {
				r.log.Info("Replayer input channel closed")
				return
			}
			r.process(ctx, envelope)
		}
	}
}

func (r *Replayer) process(ctx context.Context, envelope *Envelope) {
	payload := envelope.Payload

	if err := r.writer.Replay(ctx, payload); err != nil {
		r.log.Warn("Replay failed; leaving message for redelivery",
			zap.String("tenant_id", payload.TenantID),
			zap.String("message_id", payload.MessageID),
			zap.String("event_type", string(payload.Type)),
			zap.Error(err))
		metrics.ReprocessReplays.WithLabelValues("failed").Inc()
		if err := envelope.Nack(ctx); err != nil {
			r.log.Error("Failed to nack envelope", zap.Error(err))
		}
		return
	}

	r.log.Info("Replayed event write",
		zap.String("tenant_id", payload.TenantID),
		zap.String("message_id", payload.MessageID),
		zap.String("event_type", string(payload.Type)))
	metrics.ReprocessReplays.WithLabelValues("succeeded").Inc()

	if err := envelope.Ack(ctx); err != nil {
		r.log.Error("Failed to ack envelope", zap.Error(err))
	}
}
