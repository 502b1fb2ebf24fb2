package ds

import (
	"context"
	"errors"
	"time"

	"github.com/avast/retry-go"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	pkgerrors "github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/weegigs/wee-visitors-go/metrics"
	"github.com/weegigs/wee-visitors-go/visits"
)

const tracerName = "visitors-store"

// the site has a single counter stored under id 0
const visitorsId = 0

const defaultAttempts = 10

type VisitorsTableName string

func (name VisitorsTableName) String() string {
	return string(name)
}

type DynamoVisitorStore struct {
	db       *dynamodb.Client
	table    string
	attempts uint
}

func NewVisitorStore(db *dynamodb.Client, table VisitorsTableName) *DynamoVisitorStore {
	return &DynamoVisitorStore{db: db, table: string(table), attempts: defaultAttempts}
}

func (ds *DynamoVisitorStore) Current(ctx context.Context) (int64, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "current visitors")
	defer span.End()

	record, _, err := ds.read(ctx)
	if err != nil {
		return 0, err
	}

	return record.Count, nil
}

// Increment counts a visit and returns the new total. Concurrent increments
// are serialised by a conditional write and retried on conflict.
func (ds *DynamoVisitorStore) Increment(ctx context.Context) (int64, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "increment visitors")
	defer span.End()

	var count int64
	err := retry.Do(
		func() error {
			record, exists, err := ds.read(ctx)
			if err != nil {
				return err
			}

			next := visitorRecord{Id: visitorsId, Count: record.Count + 1}
			if err := ds.write(ctx, next, record.Count, exists); err != nil {
				return err
			}

			count = next.Count
			return nil
		},
		retry.RetryIf(isCountConflict),
		retry.OnRetry(func(_ uint, _ error) {
			metrics.CountConflicts.Inc()
		}),
		retry.Attempts(ds.attempts),
		retry.Delay(5*time.Millisecond),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return 0, err
	}

	span.SetAttributes(attribute.Int64("visitors.count", count))
	return count, nil
}

// Reset removes the counter, the next increment starts from one.
func (ds *DynamoVisitorStore) Reset(ctx context.Context) error {
	key, err := visitorsKey()
	if err != nil {
		return err
	}

	_, err = ds.db.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(ds.table),
		Key:       key,
	})

	return pkgerrors.Wrap(err, "failed to reset visitors")
}

// internal

type visitorRecord struct {
	Id    int   `dynamodbav:"id"`
	Count int64 `dynamodbav:"count"`
}

func visitorsKey() (map[string]types.AttributeValue, error) {
	type key struct {
		Id int `dynamodbav:"id"`
	}

	return attributevalue.MarshalMap(key{Id: visitorsId})
}

func (ds *DynamoVisitorStore) read(ctx context.Context) (visitorRecord, bool, error) {
	key, err := visitorsKey()
	if err != nil {
		return visitorRecord{}, false, err
	}

	out, err := ds.db.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(ds.table),
		Key:            key,
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return visitorRecord{}, false, pkgerrors.Wrap(err, "failed to read visitors")
	}

	if len(out.Item) == 0 {
		return visitorRecord{Id: visitorsId}, false, nil
	}

	var record visitorRecord
	if err := attributevalue.UnmarshalMap(out.Item, &record); err != nil {
		return visitorRecord{}, false, pkgerrors.Wrap(err, "failed to unmarshal visitors")
	}

	return record, true, nil
}

func expectedCondition(previous int64, exists bool) expression.ConditionBuilder {
	if !exists {
		return expression.AttributeNotExists(expression.Name("id"))
	}

	return expression.Name("count").Equal(expression.Value(previous))
}

func (ds *DynamoVisitorStore) write(ctx context.Context, record visitorRecord, previous int64, exists bool) error {
	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		return err
	}

	condition, err := expression.NewBuilder().WithCondition(expectedCondition(previous, exists)).Build()
	if err != nil {
		return err
	}

	_, err = ds.db.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                 aws.String(ds.table),
		Item:                      item,
		ConditionExpression:       condition.Condition(),
		ExpressionAttributeNames:  condition.Names(),
		ExpressionAttributeValues: condition.Values(),
	})

	return maybeCountConflict(err)
}

func isCountConflict(err error) bool {
	return err == visits.CountConflict
}

func maybeCountConflict(err error) error {
	if err == nil {
		return nil
	}

	var failed *types.ConditionalCheckFailedException
	if errors.As(err, &failed) {
		return visits.CountConflict
	}

	var api smithy.APIError
	if errors.As(err, &api) && api.ErrorCode() == "ConditionalCheckFailedException" {
		return visits.CountConflict
	}

	return pkgerrors.Wrap(err, "failed to write visitors")
}
