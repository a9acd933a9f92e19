package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/shijra-api/internal/domain"
	"github.com/shijra-api/internal/pkg/id"
)

// notificationItem is the stored shape of a notification. sort_key feeds the
// tree GSI so a single query returns a tree's events newest first.
type notificationItem struct {
	NotificationID string `dynamodbav:"notification_id"`
	TreeID         string `dynamodbav:"tree_id"`
	SortKey        string `dynamodbav:"sort_key"`
	SenderID       string `dynamodbav:"sender_id"`
	EventType      string `dynamodbav:"event_type"`
	Message        string `dynamodbav:"message"`
	IsRead         bool   `dynamodbav:"is_read"`
	CreatedAt      string `dynamodbav:"created_at"`
}

// NotificationRepo provides typed DynamoDB operations for the notifications table.
type NotificationRepo struct {
	client    API
	tableName string
	users     *UserRepo
	now       func() time.Time
}

func NewNotificationRepo(client API, tableName string, users *UserRepo, opts ...Option) *NotificationRepo {
	o := buildOptions(opts)
	return &NotificationRepo{client: client, tableName: tableName, users: users, now: o.now}
}

// Insert assigns the id and creation time, then writes n. The condition
// guards against overwriting an existing id.
func (r *NotificationRepo) Insert(ctx context.Context, n *domain.Notification) error {
	createdAt := r.now().UTC()
	n.ID = id.NewAt(createdAt)
	n.CreatedAt = createdAt
	n.IsRead = false

	item, err := attributevalue.MarshalMap(toItem(n))
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(notification_id)"),
	})
	if err != nil {
		return fmt.Errorf("put notification: %w", err)
	}
	return nil
}

// ListByTree queries the tree GSI newest first and resolves sender names in
// one batch read. SenderName is empty when no user row matches.
func (r *NotificationRepo) ListByTree(ctx context.Context, treeID string, limit int) ([]domain.NotificationView, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(TreeIndex),
		KeyConditionExpression: aws.String("tree_id = :tid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":tid": &types.AttributeValueMemberS{Value: treeID},
		},
		ScanIndexForward: aws.Bool(false),
		Limit:            aws.Int32(int32(limit)),
	})
	if err != nil {
		return nil, fmt.Errorf("query notifications: %w", err)
	}
	var items []notificationItem
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &items); err != nil {
		return nil, fmt.Errorf("unmarshal notifications: %w", err)
	}

	senderIDs := make([]string, 0, len(items))
	for _, it := range items {
		senderIDs = append(senderIDs, it.SenderID)
	}
	names, err := r.users.FullNames(ctx, senderIDs)
	if err != nil {
		return nil, err
	}

	views := make([]domain.NotificationView, 0, len(items))
	for _, it := range items {
		n, err := it.toDomain()
		if err != nil {
			return nil, err
		}
		views = append(views, domain.NotificationView{Notification: n, SenderName: names[it.SenderID]})
	}
	return views, nil
}

func toItem(n *domain.Notification) notificationItem {
	return notificationItem{
		NotificationID: n.ID,
		TreeID:         n.TreeID,
		SortKey:        sortKey(n.CreatedAt, n.ID),
		SenderID:       n.SenderID,
		EventType:      n.EventType,
		Message:        n.Message,
		IsRead:         n.IsRead,
		CreatedAt:      n.CreatedAt.Format(time.RFC3339Nano),
	}
}

func (it notificationItem) toDomain() (domain.Notification, error) {
	createdAt, err := time.Parse(time.RFC3339Nano, it.CreatedAt)
	if err != nil {
		return domain.Notification{}, fmt.Errorf("parse created_at of %s: %w", it.NotificationID, err)
	}
	return domain.Notification{
		ID:        it.NotificationID,
		TreeID:    it.TreeID,
		SenderID:  it.SenderID,
		EventType: it.EventType,
		Message:   it.Message,
		IsRead:    it.IsRead,
		CreatedAt: createdAt.UTC(),
	}, nil
}
