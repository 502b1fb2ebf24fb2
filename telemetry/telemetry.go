package telemetry

import (
	"context"
	"os"
	"strings"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	oteltrace "go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc/credentials"
)

type Exporter string

const (
	None    Exporter = "none"
	Console Exporter = "console"
	OTLP    Exporter = "otlp"
	Jaeger  Exporter = "jaeger"
)

const defaultJaegerEndpoint = "http://localhost:14268/api/traces"

type Settings struct {
	Service        string
	Exporter       Exporter
	OTLPEndpoint   string
	OTLPHeaders    map[string]string
	JaegerEndpoint string
}

// LiveSettings reads TELEMETRY_EXPORTER, OTLP_ENDPOINT, OTLP_HEADERS and
// JAEGER_ENDPOINT.
func LiveSettings(service string) Settings {
	exporter := Exporter(strings.ToLower(os.Getenv("TELEMETRY_EXPORTER")))
	if exporter == "" {
		exporter = None
	}

	jaegerEndpoint := os.Getenv("JAEGER_ENDPOINT")
	if jaegerEndpoint == "" {
		jaegerEndpoint = defaultJaegerEndpoint
	}

	return Settings{
		Service:        service,
		Exporter:       exporter,
		OTLPEndpoint:   os.Getenv("OTLP_ENDPOINT"),
		OTLPHeaders:    ParseHeaders(os.Getenv("OTLP_HEADERS")),
		JaegerEndpoint: jaegerEndpoint,
	}
}

// ParseHeaders reads headers in the form key=value,key=value.
func ParseHeaders(value string) map[string]string {
	headers := map[string]string{}
	for _, pair := range strings.Split(value, ",") {
		key, val, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}

		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		headers[key] = strings.TrimSpace(val)
	}

	return headers
}

func ConsoleExporter() (trace.SpanExporter, error) {
	return stdouttrace.New(stdouttrace.WithPrettyPrint())
}

func OTLPExporter(ctx context.Context, endpoint string, headers map[string]string) (*otlptrace.Exporter, error) {
	opts := []otlptracegrpc.Option{
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithHeaders(headers),
		otlptracegrpc.WithTLSCredentials(credentials.NewClientTLSFromCert(nil, "")),
	}

	client := otlptracegrpc.NewClient(opts...)
	return otlptrace.New(ctx, client)
}

func JaegerExporter(endpoint string) (*jaeger.Exporter, error) {
	return jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(endpoint)))
}

func exporter(ctx context.Context, settings Settings) (trace.SpanExporter, error) {
	switch settings.Exporter {
	case Console:
		return ConsoleExporter()
	case OTLP:
		if settings.OTLPEndpoint == "" {
			return nil, errors.New("otlp exporter requires OTLP_ENDPOINT")
		}
		return OTLPExporter(ctx, settings.OTLPEndpoint, settings.OTLPHeaders)
	case Jaeger:
		return JaegerExporter(settings.JaegerEndpoint)
	default:
		return nil, errors.Errorf("unknown telemetry exporter %q", settings.Exporter)
	}
}

// Provider owns the installed tracer provider. A zero Provider has nothing
// to flush.
type Provider struct {
	tracer *trace.TracerProvider
}

// Flush exports every finished span. Functions that are frozen between
// invocations call it before returning.
func (p *Provider) Flush(ctx context.Context) error {
	if p.tracer == nil {
		return nil
	}

	return p.tracer.ForceFlush(ctx)
}

func (p *Provider) Shutdown(ctx context.Context) error {
	if p.tracer == nil {
		return nil
	}

	return p.tracer.Shutdown(ctx)
}

// NewProvider batches spans from service to exp.
func NewProvider(service string, exp trace.SpanExporter) *Provider {
	return &Provider{
		tracer: trace.NewTracerProvider(
			trace.WithBatcher(exp),
			trace.WithResource(resource.NewSchemaless(attribute.String("service.name", service))),
		),
	}
}

func (p *Provider) Tracer(name string) oteltrace.Tracer {
	if p.tracer == nil {
		return oteltrace.NewNoopTracerProvider().Tracer(name)
	}

	return p.tracer.Tracer(name)
}

// Install registers a global tracer provider for settings.
func Install(ctx context.Context, settings Settings) (*Provider, error) {
	if settings.Exporter == None || settings.Exporter == "" {
		return &Provider{}, nil
	}

	exp, err := exporter(ctx, settings)
	if err != nil {
		return nil, err
	}

	provider := NewProvider(settings.Service, exp)
	otel.SetTracerProvider(provider.tracer)

	return provider, nil
}
