package s3

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	envConfig "github.com/cgradwohl/message-log-service/internal/config"
)

// Store implements repository.ObjectStore on S3. Externalized event payloads
// are written as standalone JSON objects.
type Store struct {
	client *awss3.Client
	config envConfig.S3
	log    *zap.Logger
}

// NewStore creates a new S3-backed object store.
func NewStore(ctx context.Context, cfg envConfig.S3, log *zap.Logger) (*Store, error) {
	configOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}

	var clientOpts []func(*awss3.Options)

	// Configure for local development with MinIO or LocalStack
	if cfg.Endpoint != "" {
		log.Info("Configuring S3 for local development",
			zap.String("endpoint", cfg.Endpoint))
		configOpts = append(configOpts,
			awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("dummy", "dummy", "")))

		clientOpts = append(clientOpts, func(o *awss3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		})
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, configOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	log.Info("S3 client created",
		zap.String("region", cfg.Region),
		zap.String("bucket", cfg.Bucket))

	return &Store{
		client: awss3.NewFromConfig(awsCfg, clientOpts...),
		config: cfg,
		log:    log,
	}, nil
}

// Put writes a JSON blob at the given path.
func (s *Store) Put(ctx context.Context, path string, body []byte) error {
	_, err := s.client.PutObject(ctx, &awss3.PutObjectInput{
		Bucket:      aws.String(s.config.Bucket),
		Key:         aws.String(path),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to put object %s: %w", path, err)
	}

	return nil
}

// Get reads the JSON blob at the given path.
func (s *Store) Get(ctx context.Context, path string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &awss3.GetObjectInput{
		Bucket: aws.String(s.config.Bucket),
		Key:    aws.String(path),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get object %s: %w", path, err)
	}
	defer func() {
		if err := out.Body.Close(); err != nil {
			s.log.Error("Failed to close object body", zap.Error(err))
		}
	}()

	body, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read object %s: %w", path, err)
	}

	return body, nil
}
