package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"github.com/cgradwohl/message-log-service/internal/repository"
)

// Store implements the event, message, and tenant stores on DynamoDB.
//
// Events live in a table keyed by id with a GSI on messageId; tenant
// isolation is a post-filter in code, since the secondary index is not
// tenant-scoped.
type Store struct {
	client *Client
	log    *zap.Logger
}

// NewStore creates a new DynamoDB-backed store.
func NewStore(client *Client, log *zap.Logger) *Store {
	return &Store{
		client: client,
		log:    log,
	}
}

// Put appends one event record.
func (s *Store) Put(ctx context.Context, item *repository.EventItem) error {
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal event item: %w", err)
	}

	_, err = s.client.Client().PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.client.config.EventsTable),
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("failed to put event item: %w", err)
	}

	return nil
}

// Get fetches one event record by id with a tenant post-filter.
func (s *Store) Get(ctx context.Context, tenantID, id string) (*repository.EventItem, error) {
	out, err := s.client.Client().GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.client.config.EventsTable),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get event item: %w", err)
	}
	if out.Item == nil {
		return nil, repository.ErrItemNotFound
	}

	var item repository.EventItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event item: %w", err)
	}
	if item.TenantID != tenantID {
		return nil, repository.ErrItemNotFound
	}

	return &item, nil
}

// QueryByMessage scans the messageId index, optionally narrowed to one event
// type, and post-filters on tenant.
func (s *Store) QueryByMessage(ctx context.Context, tenantID, messageID, eventType string) ([]*repository.EventItem, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.client.config.EventsTable),
		IndexName:              aws.String(s.client.config.EventsMessageIndex),
		KeyConditionExpression: aws.String("messageId = :messageId"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":messageId": &types.AttributeValueMemberS{Value: messageID},
		},
	}

	if eventType != "" {
		input.FilterExpression = aws.String("#type = :type")
		input.ExpressionAttributeNames = map[string]string{"#type": "type"}
		input.ExpressionAttributeValues[":type"] = &types.AttributeValueMemberS{Value: eventType}
	}

	var items []*repository.EventItem
	paginator := dynamodb.NewQueryPaginator(s.client.Client(), input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to query events by message: %w", err)
		}

		var pageItems []*repository.EventItem
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &pageItems); err != nil {
			return nil, fmt.Errorf("failed to unmarshal event items: %w", err)
		}

		for _, item := range pageItems {
			if item.TenantID != tenantID {
				continue
			}
			items = append(items, item)
		}
	}

	return items, nil
}

// MessageStore implements repository.MessageStore on the messages table.
type MessageStore struct {
	client *Client
	log    *zap.Logger
}

// NewMessageStore creates a message-row store.
func NewMessageStore(client *Client, log *zap.Logger) *MessageStore {
	return &MessageStore{client: client, log: log}
}

// Get fetches one message row with a tenant post-filter.
func (s *MessageStore) Get(ctx context.Context, tenantID, messageID string) (*repository.MessageItem, error) {
	out, err := s.client.Client().GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.client.config.MessagesTable),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: messageID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get message item: %w", err)
	}
	if out.Item == nil {
		return nil, repository.ErrItemNotFound
	}

	var item repository.MessageItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal message item: %w", err)
	}
	if item.TenantID != tenantID {
		return nil, repository.ErrItemNotFound
	}

	return &item, nil
}

// TenantStore implements repository.TenantStore on the tenants table.
type TenantStore struct {
	client *Client
	log    *zap.Logger
}

// NewTenantStore creates a tenant settings store.
func NewTenantStore(client *Client, log *zap.Logger) *TenantStore {
	return &TenantStore{client: client, log: log}
}

// Get fetches one tenant's settings.
func (s *TenantStore) Get(ctx context.Context, tenantID string) (*repository.TenantItem, error) {
	out, err := s.client.Client().GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.client.config.TenantsTable),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: tenantID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get tenant item: %w", err)
	}
	if out.Item == nil {
		return nil, repository.ErrItemNotFound
	}

	var item repository.TenantItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tenant item: %w", err)
	}

	return &item, nil
}
