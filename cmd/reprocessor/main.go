package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/cgradwohl/message-log-service/internal/config"
	"github.com/cgradwohl/message-log-service/internal/consumer"
	"github.com/cgradwohl/message-log-service/internal/diagnostics"
	"github.com/cgradwohl/message-log-service/internal/eventlog"
	"github.com/cgradwohl/message-log-service/internal/logger"
	sqsqueue "github.com/cgradwohl/message-log-service/internal/queue/sqs"
	"github.com/cgradwohl/message-log-service/internal/repository/dynamo"
	s3store "github.com/cgradwohl/message-log-service/internal/repository/s3"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log, err := logger.New(cfg.Service.Environment)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer func(log *zap.Logger) {
		err := log.Sync()
		if err != nil {
			log.Error("Failed to sync logger", zap.Error(err))
		}
	}(log)

	log.Info("Starting reprocessor service",
		zap.String("environment", cfg.Service.Environment))

	ctx := context.Background()

	dynamoClient, err := dynamo.NewClient(ctx, cfg.DynamoDB, log)
	if err != nil {
		log.Fatal("Failed to create DynamoDB client", zap.Error(err))
	}

	blobStore, err := s3store.NewStore(ctx, cfg.S3, log)
	if err != nil {
		log.Fatal("Failed to create S3 store", zap.Error(err))
	}

	sqsClient, err := sqsqueue.NewClient(ctx, cfg.SQS, log)
	if err != nil {
		log.Fatal("Failed to create SQS client", zap.Error(err))
	}

	eventStore := dynamo.NewStore(dynamoClient, log)
	reporter := diagnostics.New(log)

	// The replayer must see write failures, so no retry publisher here:
	// redelivery is the queue's job.
	writer := eventlog.NewStore(eventStore, blobStore, nil, reporter, dynamo.IsRetryable,
		eventlog.StoreConfig{InlineLimitBytes: cfg.EventLog.InlineLimitBytes}, log)

	c := consumer.NewConsumer(cfg, sqsClient, writer, log)

	// Health and metrics endpoint
	go func() {
		mux := http.NewServeMux()
		mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
		mux.Handle("/metrics", promhttp.Handler())

		addr := ":" + cfg.Consumer.HealthCheckPort
		log.Info("Health check server starting", zap.String("address", addr))
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Error("Health check server error", zap.Error(err))
		}
	}()

	consumerCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	log.Info("Reprocessor starting")

	go func() {
		if err := c.Start(consumerCtx); err != nil {
			log.Fatal("Reprocessor error", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Info("Shutting down reprocessor gracefully")
	cancel()
}
