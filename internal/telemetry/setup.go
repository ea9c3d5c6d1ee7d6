package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/rocketscienceinc/tictactoe-coordinator/internal/config"
)

// Setup - installs an OTLP/HTTP tracer provider when an endpoint is configured.
//
// Without an endpoint the global provider is returned untouched and shutdown
// does nothing. The returned shutdown flushes pending spans and should be
// deferred by the caller.
func Setup(ctx context.Context, conf config.Telemetry) (trace.TracerProvider, func(context.Context) error, error) {
	noop := func(context.Context) error { return nil }

	if conf.Endpoint == "" {
		return otel.GetTracerProvider(), noop, nil
	}

	exporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(conf.Endpoint))
	if err != nil {
		return nil, noop, fmt.Errorf("could not create otlp exporter: %w", err)
	}

	res, err := resource.New(ctx, resource.WithAttributes(semconv.ServiceName(conf.ServiceName)))
	if err != nil {
		return nil, noop, fmt.Errorf("could not describe service resource: %w", err)
	}

	tp := newProvider(exporter, res)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return tp, tp.Shutdown, nil
}

func newProvider(exporter sdktrace.SpanExporter, res *resource.Resource) *sdktrace.TracerProvider {
	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
}
