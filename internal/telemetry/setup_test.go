package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/rocketscienceinc/tictactoe-coordinator/internal/config"
)

func TestSetup(t *testing.T) {
	ctx := context.Background()

	t.Run("Empty endpoint keeps the global provider", func(t *testing.T) {
		// Given: telemetry without an endpoint
		conf := config.Telemetry{ServiceName: "tictactoe-coordinator"}

		// When: setting it up
		provider, shutdown, err := Setup(ctx, conf)

		// Then: nothing is installed and shutdown is harmless
		require.NoError(t, err)
		assert.Equal(t, otel.GetTracerProvider(), provider)
		assert.NoError(t, shutdown(ctx))
	})

	t.Run("Configured endpoint installs an sdk provider", func(t *testing.T) {
		previous := otel.GetTracerProvider()
		t.Cleanup(func() { otel.SetTracerProvider(previous) })

		provider, shutdown, err := Setup(ctx, config.Telemetry{
			Endpoint:    "http://127.0.0.1:4318",
			ServiceName: "tictactoe-coordinator",
		})

		require.NoError(t, err)
		assert.IsType(t, &sdktrace.TracerProvider{}, provider)
		assert.Equal(t, provider, otel.GetTracerProvider())
		assert.NoError(t, shutdown(ctx))
	})
}

func TestNewProvider(t *testing.T) {
	// Given: a provider exporting to memory
	exporter := tracetest.NewInMemoryExporter()
	res := resource.NewSchemaless(semconv.ServiceName("tictactoe-coordinator"))
	provider := newProvider(exporter, res)
	tracer := NewMoveTracer(provider)

	// When: a move span is ended and the provider is shut down
	_, end := tracer.Start(context.Background(), "room.move", "k2")
	end(nil)
	require.NoError(t, provider.Shutdown(context.Background()))

	// Then: the batched span was flushed with the service resource
	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "room.move", spans[0].Name)
	assert.Contains(t, spans[0].Resource.Attributes(), attribute.String("service.name", "tictactoe-coordinator"))
}
