package ds

import (
	"errors"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/google/wire"
	"go.opentelemetry.io/contrib/instrumentation/github.com/aws/aws-sdk-go-v2/otelaws"

	"github.com/weegigs/wee-visitors-go/support"
	"github.com/weegigs/wee-visitors-go/visits"
)

var Live = wire.NewSet(
	support.AWSConfig,
	Client,
	LiveVisitorsTableName,
	NewVisitorStore,
	wire.Bind(new(visits.Counter), new(*DynamoVisitorStore)),
)

var Local = wire.NewSet(
	LocalVisitorStore,
	wire.Bind(new(visits.Counter), new(*DynamoVisitorStore)),
)

const tableNameVariable = "DYNAMODB_VISITORS_TABLE_NAME"

func LiveVisitorsTableName() (VisitorsTableName, error) {
	table := os.Getenv(tableNameVariable)
	if len(table) == 0 {
		return "", errors.New(tableNameVariable + " is not set")
	}

	return VisitorsTableName(table), nil
}

func LocalVisitorsTableName() VisitorsTableName {
	return VisitorsTableName("wee-visitors")
}

func Client(cfg aws.Config) *dynamodb.Client {
	otelaws.AppendMiddlewares(&cfg.APIOptions)
	return dynamodb.NewFromConfig(cfg)
}
