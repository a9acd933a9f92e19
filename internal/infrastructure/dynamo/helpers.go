package dynamo

import (
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// sortKeyLayout is fixed width, so lexical order of sort keys is time order.
const sortKeyLayout = "2006-01-02T15:04:05.000000000Z"

// strKey builds a DynamoDB primary key map with a single string attribute.
func strKey(name, value string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		name: &types.AttributeValueMemberS{Value: value},
	}
}

// sortKey orders notifications within a tree by creation time, then id.
func sortKey(createdAt time.Time, id string) string {
	return createdAt.UTC().Format(sortKeyLayout) + "#" + id
}

// dedupe drops empty and repeated values while keeping first-seen order.
func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// Option customises a repository.
type Option func(*repoOptions)

type repoOptions struct {
	now func() time.Time
}

// WithClock overrides the time source used for store-assigned timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *repoOptions) { o.now = now }
}

func buildOptions(opts []Option) repoOptions {
	o := repoOptions{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
