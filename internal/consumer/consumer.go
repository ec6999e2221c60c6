package consumer

import (
	"context"
	"sync"

	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"go.uber.org/zap"

	"github.com/cgradwohl/message-log-service/internal/config"
	"github.com/cgradwohl/message-log-service/internal/queue"
)

// Consumer orchestrates a pipeline of stages to reprocess failed event
// writes: receive from SQS, parse into retry payloads, replay the writes.
type Consumer struct {
	receiver *Receiver
	parser   *ParserStage
	replayer *Replayer
}

// NewConsumer creates a new reprocessing consumer.
func NewConsumer(cfg *config.Config, queueConsumer queue.QueueConsumer, writer WriteReplayer, log *zap.Logger) *Consumer {
	receiver := NewReceiver(queueConsumer, ReceiverConfig{
		MaxMessages:     int32(cfg.Consumer.MaxMessages),
		WaitTimeSeconds: int32(cfg.Consumer.WaitTimeSeconds),
		BufferSize:      100,
	}, log)

	parser := NewParserStage(queueConsumer, NewJSONRetryParser(), log)
	replayer := NewReplayer(writer, log)

	return &Consumer{
		receiver: receiver,
		parser:   parser,
		replayer: replayer,
	}
}

// Start begins the consumer pipeline and blocks until all stages exit.
func (c *Consumer) Start(ctx context.Context) error {
	messageChan := make(chan types.Message, 100)
	envelopeChan := make(chan *Envelope, 100)

	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		c.receiver.Start(ctx, messageChan)
	}()

	go func() {
		defer wg.Done()
		c.parser.Start(ctx, messageChan, envelopeChan)
	}()

	go func() {
		defer wg.Done()
		c.replayer.Start(ctx, envelopeChan)
	}()

	wg.Wait()
	return nil
}
