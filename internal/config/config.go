package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Service holds service-level settings.
type Service struct {
	Environment string `envconfig:"SERVICE_ENVIRONMENT" required:"true"`
	APIPort     string `envconfig:"SERVICE_API_PORT" default:"8080"`
}

// DynamoDB holds the event/message/tenant table settings.
type DynamoDB struct {
	Endpoint           string `envconfig:"DYNAMODB_ENDPOINT"`
	Region             string `envconfig:"DYNAMODB_REGION" required:"true"`
	EventsTable        string `envconfig:"DYNAMODB_EVENTS_TABLE" default:"message-event-logs"`
	EventsMessageIndex string `envconfig:"DYNAMODB_EVENTS_MESSAGE_INDEX" default:"messageId-index"`
	MessagesTable      string `envconfig:"DYNAMODB_MESSAGES_TABLE" default:"messages"`
	TenantsTable       string `envconfig:"DYNAMODB_TENANTS_TABLE" default:"tenants"`
}

// S3 holds the externalized-payload bucket settings.
type S3 struct {
	Endpoint string `envconfig:"S3_ENDPOINT"`
	Region   string `envconfig:"S3_REGION" required:"true"`
	Bucket   string `envconfig:"S3_EVENT_PAYLOAD_BUCKET" required:"true"`
}

// SQS holds the reprocessing queue settings.
type SQS struct {
	Endpoint string `envconfig:"SQS_ENDPOINT"`
	QueueURL string `envconfig:"SQS_REPROCESS_QUEUE_URL" required:"true"`
	Region   string `envconfig:"SQS_REGION" required:"true"`
}

// Redis holds the tenant retention cache settings.
type Redis struct {
	Host        string `envconfig:"REDIS_HOST" required:"true"`
	Port        string `envconfig:"REDIS_PORT" default:"6379"`
	CacheTTLSec int    `envconfig:"REDIS_RETENTION_CACHE_TTL_SEC" default:"300"`
}

// EventLog holds write/read tuning for the event log itself.
type EventLog struct {
	InlineLimitBytes     int `envconfig:"EVENTLOG_INLINE_LIMIT_BYTES" default:"1024"`
	TruncateLimitBytes   int `envconfig:"EVENTLOG_TRUNCATE_LIMIT_BYTES" default:"2048"`
	DefaultRetentionDays int `envconfig:"EVENTLOG_DEFAULT_RETENTION_DAYS" default:"90"`
}

// Consumer holds reprocessor pipeline settings.
type Consumer struct {
	MaxMessages     int    `envconfig:"CONSUMER_MAX_MESSAGES" default:"10"`
	WaitTimeSeconds int    `envconfig:"CONSUMER_WAIT_TIME_SEC" default:"20"`
	HealthCheckPort string `envconfig:"CONSUMER_HEALTH_CHECK_PORT" default:"8081"`
}

// Config is the full service configuration, loaded from the environment.
type Config struct {
	Service  Service
	DynamoDB DynamoDB
	S3       S3
	SQS      SQS
	Redis    Redis
	EventLog EventLog
	Consumer Consumer
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
