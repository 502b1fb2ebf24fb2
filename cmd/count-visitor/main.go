package main

import (
	"context"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/rs/zerolog/log"

	"github.com/weegigs/wee-visitors-go/telemetry"
)

func main() {
	ctx := context.Background()

	provider, err := telemetry.Install(ctx, telemetry.LiveSettings("count-visitor"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to configure telemetry")
	}

	handler, err := live(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to configure handler")
	}

	lambda.Start(flushing(handler, provider.Flush))
}
