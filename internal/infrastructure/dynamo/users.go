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
)

// batchGetLimit is the most keys BatchGetItem accepts per request.
const batchGetLimit = 100

// maxUnprocessedRounds bounds how often unprocessed keys are resubmitted.
const maxUnprocessedRounds = 3

// unprocessedBackoff is the first pause before resubmitting unprocessed keys.
// It doubles on every further round.
const unprocessedBackoff = 50 * time.Millisecond

// UserRepo reads display names from the externally owned users table.
type UserRepo struct {
	client    API
	tableName string
	sleep     func(ctx context.Context, d time.Duration) error
}

func NewUserRepo(client API, tableName string) *UserRepo {
	return &UserRepo{client: client, tableName: tableName, sleep: sleepCtx}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (r *UserRepo) Put(ctx context.Context, u *domain.User) error {
	item, err := attributevalue.MarshalMap(u)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

// FullNames resolves user ids to full names. Ids without a user row are
// absent from the result.
func (r *UserRepo) FullNames(ctx context.Context, userIDs []string) (map[string]string, error) {
	ids := dedupe(userIDs)
	names := make(map[string]string, len(ids))
	for start := 0; start < len(ids); start += batchGetLimit {
		end := min(start+batchGetLimit, len(ids))
		keys := make([]map[string]types.AttributeValue, 0, end-start)
		for _, userID := range ids[start:end] {
			keys = append(keys, strKey("user_id", userID))
		}
		if err := r.batchGet(ctx, keys, names); err != nil {
			return nil, err
		}
	}
	return names, nil
}

func (r *UserRepo) batchGet(ctx context.Context, keys []map[string]types.AttributeValue, names map[string]string) error {
	request := map[string]types.KeysAndAttributes{
		r.tableName: {
			Keys:                 keys,
			ProjectionExpression: aws.String("user_id, full_name"),
		},
	}
	backoff := unprocessedBackoff
	for round := 0; round < maxUnprocessedRounds && len(request) > 0; round++ {
		if round > 0 {
			if err := r.sleep(ctx, backoff); err != nil {
				return fmt.Errorf("batch get users: %w", err)
			}
			backoff *= 2
		}
		out, err := r.client.BatchGetItem(ctx, &dynamodb.BatchGetItemInput{RequestItems: request})
		if err != nil {
			return fmt.Errorf("batch get users: %w", err)
		}
		var users []domain.User
		if err := attributevalue.UnmarshalListOfMaps(out.Responses[r.tableName], &users); err != nil {
			return fmt.Errorf("unmarshal users: %w", err)
		}
		for _, u := range users {
			names[u.ID] = u.FullName
		}
		request = out.UnprocessedKeys
	}
	if len(request) > 0 {
		return fmt.Errorf("batch get users: keys left unprocessed")
	}
	return nil
}
