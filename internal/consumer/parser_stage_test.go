package consumer

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/cgradwohl/message-log-service/internal/domain"
	"github.com/cgradwohl/message-log-service/internal/queue"
)

// MockMessageParser is a mock implementation of MessageParser
type MockMessageParser struct {
	mock.Mock
}

func (m *MockMessageParser) Parse(body []byte) (*queue.RetryPayload, error) {
	args := m.Called(body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*queue.RetryPayload), args.Error(1)
}

func TestParserStage_Start_Success(t *testing.T) {
	mockConsumer := new(MockQueueConsumer)
	mockParser := new(MockMessageParser)
	log := zap.NewNop()

	parserStage := NewParserStage(mockConsumer, mockParser, log)

	message := types.Message{
		MessageId:     aws.String("msg-1"),
		Body:          aws.String(`{"tenantId":"tenant-1"}`),
		ReceiptHandle: aws.String("receipt-1"),
	}

	payload := &queue.RetryPayload{
		TenantID:  "tenant-1",
		MessageID: "msg-1",
		Type:      domain.ProviderSent,
		TS:        1723475612000,
	}

	mockParser.On("Parse", []byte(`{"tenantId":"tenant-1"}`)).Return(payload, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	in := make(chan types.Message, 1)
	out := make(chan *Envelope, 1)

	go parserStage.Start(ctx, in, out)

	in <- message
	close(in)

	envelope := <-out

	assert.NotNil(t, envelope)
	assert.Equal(t, "tenant-1", envelope.Payload.TenantID)
	assert.Equal(t, domain.ProviderSent, envelope.Payload.Type)

	mockParser.AssertExpectations(t)
}

func TestParserStage_Start_MalformedMessageIsDeleted(t *testing.T) {
	mockConsumer := new(MockQueueConsumer)
	mockParser := new(MockMessageParser)
	log := zap.NewNop()

	parserStage := NewParserStage(mockConsumer, mockParser, log)

	mockConsumer.On("QueueURL").Return("https://sqs.eu-central-1.amazonaws.com/123/reprocess-queue")
	mockConsumer.On("DeleteMessage", mock.Anything, mock.AnythingOfType("*sqs.DeleteMessageInput")).
		Return(&sqs.DeleteMessageOutput{}, nil)

	mockParser.On("Parse", []byte(`garbage`)).Return(nil, assert.AnError)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	in := make(chan types.Message, 1)
	out := make(chan *Envelope, 1)

	go parserStage.Start(ctx, in, out)

	in <- types.Message{
		MessageId:     aws.String("msg-bad"),
		Body:          aws.String(`garbage`),
		ReceiptHandle: aws.String("receipt-bad"),
	}
	close(in)

	// Out closes without an envelope: malformed messages never go downstream.
	_, ok := <-out
	assert.False(t, ok)

	mockConsumer.AssertCalled(t, "DeleteMessage", mock.Anything, mock.AnythingOfType("*sqs.DeleteMessageInput"))
	mockParser.AssertExpectations(t)
}

func TestParserStage_Start_AckDeletesMessage(t *testing.T) {
	mockConsumer := new(MockQueueConsumer)
	mockParser := new(MockMessageParser)
	log := zap.NewNop()

	parserStage := NewParserStage(mockConsumer, mockParser, log)

	mockConsumer.On("QueueURL").Return("https://sqs.eu-central-1.amazonaws.com/123/reprocess-queue")

	var deleted *sqs.DeleteMessageInput
	mockConsumer.On("DeleteMessage", mock.Anything, mock.AnythingOfType("*sqs.DeleteMessageInput")).
		Run(func(args mock.Arguments) {
			deleted = args.Get(1).(*sqs.DeleteMessageInput)
		}).
		Return(&sqs.DeleteMessageOutput{}, nil)

	mockParser.On("Parse", mock.Anything).Return(&queue.RetryPayload{
		TenantID:  "tenant-1",
		MessageID: "msg-1",
		Type:      domain.ProviderSent,
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	in := make(chan types.Message, 1)
	out := make(chan *Envelope, 1)

	go parserStage.Start(ctx, in, out)

	in <- types.Message{
		MessageId:     aws.String("msg-1"),
		Body:          aws.String(`{}`),
		ReceiptHandle: aws.String("receipt-1"),
	}
	close(in)

	envelope := <-out
	assert.NoError(t, envelope.Ack(ctx))

	assert.NotNil(t, deleted)
	assert.Equal(t, "receipt-1", aws.ToString(deleted.ReceiptHandle))
}

func TestParserStage_Start_NackLeavesMessage(t *testing.T) {
	mockConsumer := new(MockQueueConsumer)
	mockParser := new(MockMessageParser)
	log := zap.NewNop()

	parserStage := NewParserStage(mockConsumer, mockParser, log)

	mockParser.On("Parse", mock.Anything).Return(&queue.RetryPayload{
		TenantID:  "tenant-1",
		MessageID: "msg-1",
		Type:      domain.ProviderSent,
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	in := make(chan types.Message, 1)
	out := make(chan *Envelope, 1)

	go parserStage.Start(ctx, in, out)

	in <- types.Message{
		MessageId:     aws.String("msg-1"),
		Body:          aws.String(`{}`),
		ReceiptHandle: aws.String("receipt-1"),
	}
	close(in)

	var envelope *Envelope
	select {
	case envelope = <-out:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for envelope")
	}

	// Nack is a no-op: the visibility timeout redelivers.
	assert.NoError(t, envelope.Nack(ctx))
	mockConsumer.AssertNotCalled(t, "DeleteMessage")
}
