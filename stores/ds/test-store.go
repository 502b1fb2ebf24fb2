package ds

import (
	"context"
	"fmt"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/weegigs/wee-visitors-go/support"
)

// DynamoTestStore starts DynamoDB Local in a container and returns a store
// backed by a fresh table.
func DynamoTestStore(ctx context.Context) (*DynamoVisitorStore, func(), error) {
	db, err := testcontainers.GenericContainer(
		ctx, testcontainers.GenericContainerRequest{
			ContainerRequest: testcontainers.ContainerRequest{
				Image:        "amazon/dynamodb-local",
				ExposedPorts: []string{"8000/tcp"},
				WaitingFor:   wait.ForListeningPort("8000"),
			},
			Started: true,
		},
	)
	if err != nil {
		return nil, nil, err
	}

	teardown := func() {
		if err := db.Terminate(ctx); err != nil {
			panic(err)
		}
	}

	host, err := db.Host(ctx)
	if err != nil {
		teardown()
		return nil, nil, err
	}

	port, err := db.MappedPort(ctx, "8000")
	if err != nil {
		teardown()
		return nil, nil, err
	}

	cfg, err := support.LocalAWSConfig(ctx, fmt.Sprintf("http://%s:%s", host, port.Port()))
	if err != nil {
		teardown()
		return nil, nil, err
	}

	client := Client(cfg)
	if err := createTable(ctx, client, "test-visitors"); err != nil {
		teardown()
		return nil, nil, err
	}

	return NewVisitorStore(client, VisitorsTableName("test-visitors")), teardown, nil
}
