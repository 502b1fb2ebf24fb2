package main

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsapigateway"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsdynamodb"
	"github.com/aws/aws-cdk-go/awscdk/v2/awslambda"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
)

type VisitorsStackProps struct {
	awscdk.StackProps
	// Asset is the directory holding the compiled count-visitor binary.
	Asset         string
	AllowedOrigin string
}

// NewVisitorsStack declares the visitors table, the count-visitor function and
// the REST API that fronts it.
func NewVisitorsStack(scope constructs.Construct, id string, props *VisitorsStackProps) awscdk.Stack {
	stack := awscdk.NewStack(scope, &id, &props.StackProps)

	table := awsdynamodb.NewTable(stack, jsii.String("Visitors"), &awsdynamodb.TableProps{
		PartitionKey: &awsdynamodb.Attribute{
			Name: jsii.String("id"),
			Type: awsdynamodb.AttributeType_NUMBER,
		},
		BillingMode:   awsdynamodb.BillingMode_PAY_PER_REQUEST,
		RemovalPolicy: awscdk.RemovalPolicy_RETAIN,
	})

	function := awslambda.NewFunction(stack, jsii.String("CountVisitor"), &awslambda.FunctionProps{
		Runtime: awslambda.Runtime_GO_1_X(),
		Handler: jsii.String("count-visitor"),
		Code:    awslambda.Code_FromAsset(jsii.String(props.Asset), nil),
		Environment: &map[string]*string{
			"DYNAMODB_VISITORS_TABLE_NAME": table.TableName(),
			"ALLOWED_ORIGIN":               jsii.String(props.AllowedOrigin),
		},
	})

	table.GrantReadWriteData(function)

	api := awsapigateway.NewLambdaRestApi(stack, jsii.String("VisitorsApi"), &awsapigateway.LambdaRestApiProps{
		Handler: function,
		DefaultCorsPreflightOptions: &awsapigateway.CorsOptions{
			AllowOrigins: &[]*string{jsii.String(props.AllowedOrigin)},
			AllowMethods: jsii.Strings("GET"),
		},
	})

	awscdk.NewCfnOutput(stack, jsii.String("VisitorsEndpoint"), &awscdk.CfnOutputProps{
		Value: api.Url(),
	})

	return stack
}
