package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"go.uber.org/zap"

	envConfig "github.com/cgradwohl/message-log-service/internal/config"
)

// Client wraps the DynamoDB connection.
type Client struct {
	client *dynamodb.Client
	config envConfig.DynamoDB
	log    *zap.Logger
}

// NewClient creates a new DynamoDB client with the given configuration.
func NewClient(ctx context.Context, cfg envConfig.DynamoDB, log *zap.Logger) (*Client, error) {
	configOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}

	var clientOpts []func(*dynamodb.Options)

	// Configure for local development with DynamoDB Local
	if cfg.Endpoint != "" {
		log.Info("Configuring DynamoDB for local development",
			zap.String("endpoint", cfg.Endpoint))
		configOpts = append(configOpts,
			awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("dummy", "dummy", "")))

		clientOpts = append(clientOpts, func(o *dynamodb.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		})
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, configOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	log.Info("DynamoDB client created",
		zap.String("region", cfg.Region),
		zap.String("events_table", cfg.EventsTable))

	return &Client{
		client: dynamodb.NewFromConfig(awsCfg, clientOpts...),
		config: cfg,
		log:    log,
	}, nil
}

// Client returns the underlying DynamoDB client.
func (c *Client) Client() *dynamodb.Client {
	return c.client
}
