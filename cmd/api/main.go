package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/cgradwohl/message-log-service/internal/config"
	"github.com/cgradwohl/message-log-service/internal/diagnostics"
	"github.com/cgradwohl/message-log-service/internal/eventlog"
	"github.com/cgradwohl/message-log-service/internal/handler"
	"github.com/cgradwohl/message-log-service/internal/history"
	"github.com/cgradwohl/message-log-service/internal/logger"
	"github.com/cgradwohl/message-log-service/internal/messagelog"
	"github.com/cgradwohl/message-log-service/internal/providers"
	sqsqueue "github.com/cgradwohl/message-log-service/internal/queue/sqs"
	"github.com/cgradwohl/message-log-service/internal/repository/dynamo"
	s3store "github.com/cgradwohl/message-log-service/internal/repository/s3"
	"github.com/cgradwohl/message-log-service/internal/service"
	"github.com/cgradwohl/message-log-service/internal/tenants"
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

	log.Info("Starting message log API service",
		zap.String("environment", cfg.Service.Environment),
		zap.String("port", cfg.Service.APIPort))

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

	redisClient := redis.NewClient(&redis.Options{
		Addr: fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
	})

	eventStore := dynamo.NewStore(dynamoClient, log)
	messageStore := dynamo.NewMessageStore(dynamoClient, log)
	tenantStore := dynamo.NewTenantStore(dynamoClient, log)

	reporter := diagnostics.New(log)
	registry := providers.NewRegistry()

	writer := eventlog.NewStore(eventStore, blobStore, sqsClient, reporter, dynamo.IsRetryable,
		eventlog.StoreConfig{InlineLimitBytes: cfg.EventLog.InlineLimitBytes}, log)
	reader := eventlog.NewReader(eventStore, blobStore,
		eventlog.ReaderConfig{TruncateLimitBytes: cfg.EventLog.TruncateLimitBytes}, log)

	retention := tenants.NewResolver(tenantStore, redisClient,
		time.Duration(cfg.Redis.CacheTTLSec)*time.Second, cfg.EventLog.DefaultRetentionDays, log)

	messageLogs := service.NewMessageLogService(writer, reader, history.New(registry),
		messagelog.New(registry), messageStore, retention, log)

	h := handler.NewHandler(messageLogs, log)

	addr := fmt.Sprintf(":%s", cfg.Service.APIPort)
	log.Info("API server starting", zap.String("address", addr))

	if err := http.ListenAndServe(addr, h); err != nil {
		log.Fatal("Failed to start API server", zap.Error(err))
	}
}
