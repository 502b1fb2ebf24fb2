package support

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/stretchr/testify/assert"
)

func TestLocalAWSConfig(t *testing.T) {
	ctx := context.Background()
	cfg, err := LocalAWSConfig(ctx, "http://localhost:8000")
	if !assert.Nil(t, err) {
		return
	}

	assert.Equal(t, "us-east-1", cfg.Region)

	endpoint, err := cfg.EndpointResolverWithOptions.ResolveEndpoint(dynamodb.ServiceID, cfg.Region)
	if !assert.Nil(t, err) {
		return
	}
	assert.Equal(t, "http://localhost:8000", endpoint.URL)

	credentials, err := cfg.Credentials.Retrieve(ctx)
	if !assert.Nil(t, err) {
		return
	}
	assert.Equal(t, "dummy", credentials.AccessKeyID)
}
