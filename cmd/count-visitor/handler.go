package main

import (
	"context"
	"net/http"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/goccy/go-json"
	"github.com/google/wire"
	"github.com/rs/zerolog/log"

	"github.com/weegigs/wee-visitors-go/metrics"
	"github.com/weegigs/wee-visitors-go/stores/ds"
	"github.com/weegigs/wee-visitors-go/visits"
)

type GatewayHandler = func(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)

type AllowedOrigin string

func LiveAllowedOrigin() AllowedOrigin {
	origin := os.Getenv("ALLOWED_ORIGIN")
	if origin == "" {
		return AllowedOrigin("*")
	}

	return AllowedOrigin(origin)
}

type failure struct {
	Error string `json:"error"`
}

func createHandler(counter visits.Counter, origin AllowedOrigin) GatewayHandler {
	headers := map[string]string{
		"Content-Type":                "application/json",
		"Access-Control-Allow-Origin": string(origin),
	}

	respond := func(status int, body any) (events.APIGatewayProxyResponse, error) {
		encoded, err := json.Marshal(body)
		if err != nil {
			return events.APIGatewayProxyResponse{}, err
		}

		return events.APIGatewayProxyResponse{
			StatusCode:        status,
			Headers:           headers,
			MultiValueHeaders: map[string][]string{},
			Body:              string(encoded),
			IsBase64Encoded:   false,
		}, nil
	}

	return func(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		count, err := counter.Increment(ctx)
		if err != nil {
			log.Error().Err(err).Str("request", event.RequestContext.RequestID).Msg("failed to count visitor")
			return respond(http.StatusInternalServerError, failure{Error: "failed to count visitor"})
		}

		metrics.Visits.WithLabelValues("lambda").Inc()
		log.Info().Str("request", event.RequestContext.RequestID).Int64("count", count).Msg("visitor counted")

		return respond(http.StatusOK, visits.CountResource{Count: count})
	}
}

// flushing exports the spans of each invocation before it returns, while the
// execution environment is still running.
func flushing(handler GatewayHandler, flush func(context.Context) error) GatewayHandler {
	return func(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		response, err := handler(ctx, event)
		if ferr := flush(ctx); ferr != nil {
			log.Warn().Err(ferr).Str("request", event.RequestContext.RequestID).Msg("failed to flush traces")
		}

		return response, err
	}
}

var Live = wire.NewSet(createHandler, LiveAllowedOrigin, ds.Live)
