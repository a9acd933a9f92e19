package dynamo

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/shijra-api/internal/config"
	"go.uber.org/zap"
)

// TreeIndex is the GSI that serves per-tree notification queries.
const TreeIndex = "tree_id-sort_key-index"

// TableCreator is the slice of the DynamoDB API Bootstrap needs.
type TableCreator interface {
	CreateTable(ctx context.Context, params *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error)
}

// Bootstrap creates the users and notifications tables when they are missing.
// Failures are logged; the service still starts against whatever exists.
func Bootstrap(ctx context.Context, client TableCreator, tables config.DynamoTables, log *zap.Logger) {
	for _, in := range tableInputs(tables) {
		name := aws.ToString(in.TableName)
		_, err := client.CreateTable(ctx, in)
		var inUse *types.ResourceInUseException
		switch {
		case err == nil:
			log.Info("created table", zap.String("table", name))
		case errors.As(err, &inUse):
		default:
			log.Warn("could not create table", zap.String("table", name), zap.Error(err))
		}
	}
}

func tableInputs(tables config.DynamoTables) []*dynamodb.CreateTableInput {
	users := &dynamodb.CreateTableInput{
		TableName:            aws.String(tables.Users),
		BillingMode:          types.BillingModePayPerRequest,
		AttributeDefinitions: stringAttrs("user_id"),
		KeySchema:            keySchema("user_id", ""),
	}
	notifications := &dynamodb.CreateTableInput{
		TableName:            aws.String(tables.Notifications),
		BillingMode:          types.BillingModePayPerRequest,
		AttributeDefinitions: stringAttrs("notification_id", "tree_id", "sort_key"),
		KeySchema:            keySchema("notification_id", ""),
		GlobalSecondaryIndexes: []types.GlobalSecondaryIndex{{
			IndexName:  aws.String(TreeIndex),
			KeySchema:  keySchema("tree_id", "sort_key"),
			Projection: &types.Projection{ProjectionType: types.ProjectionTypeAll},
		}},
	}
	return []*dynamodb.CreateTableInput{users, notifications}
}

func stringAttrs(names ...string) []types.AttributeDefinition {
	defs := make([]types.AttributeDefinition, 0, len(names))
	for _, n := range names {
		defs = append(defs, types.AttributeDefinition{AttributeName: aws.String(n), AttributeType: types.ScalarAttributeTypeS})
	}
	return defs
}

// keySchema builds a hash key, plus a range key when rangeKey is set.
func keySchema(hashKey, rangeKey string) []types.KeySchemaElement {
	ks := []types.KeySchemaElement{{AttributeName: aws.String(hashKey), KeyType: types.KeyTypeHash}}
	if rangeKey != "" {
		ks = append(ks, types.KeySchemaElement{AttributeName: aws.String(rangeKey), KeyType: types.KeyTypeRange})
	}
	return ks
}
