// Package fetcher retrieves the visitor count and renders it into a page.
package fetcher

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/weegigs/wee-visitors-go/metrics"
	"github.com/weegigs/wee-visitors-go/page"
	"github.com/weegigs/wee-visitors-go/visits"
)

const DefaultEndpoint = "https://25o09dvlk9.execute-api.us-east-1.amazonaws.com/crc-http-lambda-stage/crc-visitors-count"

const tracerName = "visitors-fetcher"

type Option func(fetcher *Fetcher)

func Logger(log *zerolog.Logger) Option {
	return func(fetcher *Fetcher) {
		fetcher.log = log
	}
}

func Client(client *http.Client) Option {
	return func(fetcher *Fetcher) {
		fetcher.client = client
	}
}

// Target overrides the id of the element the count is written to.
func Target(id string) Option {
	return func(fetcher *Fetcher) {
		fetcher.target = id
	}
}

func New(endpoint string, options ...Option) *Fetcher {
	fetcher := &Fetcher{
		endpoint: endpoint,
		target:   page.CountElementID,
		ids:      visits.NewInvocationGenerator(),
	}

	for _, option := range options {
		option(fetcher)
	}

	if fetcher.log == nil {
		fetcher.log = &log.Logger
	}

	if fetcher.client == nil {
		fetcher.client = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	}

	return fetcher
}

type Fetcher struct {
	endpoint string
	target   string
	client   *http.Client
	log      *zerolog.Logger
	ids      *visits.InvocationGenerator
}

// Run fetches the count and writes it into the target element of doc. It
// never fails: a failure is logged once and leaves doc untouched.
func (f *Fetcher) Run(ctx context.Context, doc page.Document) visits.Result {
	result := f.Fetch(ctx)

	if !result.Ok() {
		f.log.Error().
			Err(result.Err).
			Str("invocation", result.Invocation.String()).
			Str("endpoint", f.endpoint).
			Str("outcome", string(result.Outcome())).
			Int("status", result.Status).
			Msg("failed to update visitor count")
		return result
	}

	f.log.Info().
		Str("invocation", result.Invocation.String()).
		Int("status", result.Status).
		RawJSON("payload", result.Response.Payload).
		Msg("visitor count received")

	element, ok := doc.ElementByID(f.target)
	if !ok {
		f.log.Debug().Str("invocation", result.Invocation.String()).Str("target", f.target).Msg("count element not found")
		return result
	}

	element.SetText(result.Response.Count.String())

	return result
}

// Fetch performs the request and validates the payload without rendering it.
// Every call issues a new request.
func (f *Fetcher) Fetch(ctx context.Context) (result visits.Result) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "fetch visitor count")
	defer span.End()

	start := time.Now()
	defer func() {
		metrics.FetchDuration.Observe(time.Since(start).Seconds())
		metrics.Fetches.WithLabelValues(string(result.Outcome())).Inc()
	}()

	invocation := f.ids.Next(start)
	span.SetAttributes(attribute.String("visitors.invocation", invocation.String()))

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, f.endpoint, nil)
	if err != nil {
		return failed(invocation, 0, visits.Unreachable(f.endpoint, err))
	}

	response, err := f.client.Do(request)
	if err != nil {
		return failed(invocation, 0, visits.Unreachable(f.endpoint, err))
	}
	defer response.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", response.StatusCode))

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return failed(invocation, response.StatusCode, visits.Unreachable(f.endpoint, err))
	}

	counter, err := visits.DecodeCounterResponse(body)
	if err != nil {
		return failed(invocation, response.StatusCode, err)
	}

	return visits.Result{
		Invocation: invocation,
		Status:     response.StatusCode,
		Response:   counter,
	}
}

func failed(invocation visits.InvocationID, status int, err error) visits.Result {
	return visits.Result{
		Invocation: invocation,
		Status:     status,
		Err:        err,
	}
}
