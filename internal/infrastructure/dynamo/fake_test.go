package dynamo

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// fakeDynamo is an in-memory stand-in for the DynamoDB operations the
// repositories use. Tables are keyed by their hash attribute.
type fakeDynamo struct {
	mu         sync.Mutex
	tables     map[string]map[string]map[string]types.AttributeValue
	hashKeys   map[string]string
	queryErr   error
	batchCalls int
	// unprocessRounds makes that many BatchGetItem calls report every key unprocessed.
	unprocessRounds int
}

func newFakeDynamo() *fakeDynamo {
	return &fakeDynamo{
		tables: map[string]map[string]map[string]types.AttributeValue{},
		hashKeys: map[string]string{
			"notifications": "notification_id",
			"users":         "user_id",
		},
	}
}

func str(av types.AttributeValue) string {
	if s, ok := av.(*types.AttributeValueMemberS); ok {
		return s.Value
	}
	return ""
}

func (f *fakeDynamo) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	table := aws.ToString(in.TableName)
	if f.tables[table] == nil {
		f.tables[table] = map[string]map[string]types.AttributeValue{}
	}
	key := str(in.Item[f.hashKeys[table]])
	if _, exists := f.tables[table][key]; exists && in.ConditionExpression != nil {
		return nil, &types.ConditionalCheckFailedException{}
	}
	f.tables[table][key] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) Query(_ context.Context, in *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	if aws.ToString(in.IndexName) != TreeIndex {
		return nil, errors.New("unexpected index")
	}
	treeID := str(in.ExpressionAttributeValues[":tid"])
	var items []map[string]types.AttributeValue
	for _, item := range f.tables[aws.ToString(in.TableName)] {
		if str(item["tree_id"]) == treeID {
			items = append(items, item)
		}
	}
	forward := in.ScanIndexForward == nil || *in.ScanIndexForward
	sort.Slice(items, func(i, j int) bool {
		if forward {
			return str(items[i]["sort_key"]) < str(items[j]["sort_key"])
		}
		return str(items[i]["sort_key"]) > str(items[j]["sort_key"])
	})
	if in.Limit != nil && int(*in.Limit) < len(items) {
		items = items[:*in.Limit]
	}
	return &dynamodb.QueryOutput{Items: items, Count: int32(len(items))}, nil
}

func (f *fakeDynamo) BatchGetItem(_ context.Context, in *dynamodb.BatchGetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.BatchGetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batchCalls++
	if f.unprocessRounds > 0 {
		f.unprocessRounds--
		return &dynamodb.BatchGetItemOutput{UnprocessedKeys: in.RequestItems}, nil
	}
	out := &dynamodb.BatchGetItemOutput{Responses: map[string][]map[string]types.AttributeValue{}}
	for table, ka := range in.RequestItems {
		if len(ka.Keys) > batchGetLimit {
			return nil, errors.New("too many keys")
		}
		for _, key := range ka.Keys {
			if item, ok := f.tables[table][str(key[f.hashKeys[table]])]; ok {
				out.Responses[table] = append(out.Responses[table], item)
			}
		}
	}
	return out, nil
}
