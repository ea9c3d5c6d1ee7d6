package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/rocketscienceinc/tictactoe-coordinator/internal/apperror"
)

func TestMoveTracer_Start(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	tracer := NewMoveTracer(provider)

	t.Run("Successful operation ends an ok span", func(t *testing.T) {
		_, end := tracer.Start(context.Background(), "room.move", "k2", attribute.String("symbol", "X"))
		end(nil)

		spans := recorder.Ended()
		require.NotEmpty(t, spans)
		span := spans[len(spans)-1]
		assert.Equal(t, "room.move", span.Name())
		assert.Contains(t, span.Attributes(), attribute.String("room.id", "k2"))
		assert.Contains(t, span.Attributes(), attribute.String("symbol", "X"))
		assert.NotEqual(t, codes.Error, span.Status().Code)
	})

	t.Run("Failed operation records the wire code", func(t *testing.T) {
		_, end := tracer.Start(context.Background(), "room.move", "k2")
		end(apperror.ErrDuplicate)

		spans := recorder.Ended()
		span := spans[len(spans)-1]
		assert.Equal(t, codes.Error, span.Status().Code)
		assert.Contains(t, span.Attributes(), attribute.String("error.code", apperror.CodeDuplicate))
	})

	t.Run("Nil tracer is a no-op", func(t *testing.T) {
		var nilTracer *MoveTracer
		ctx, end := nilTracer.Start(context.Background(), "room.move", "k2")
		end(nil)
		assert.NotNil(t, ctx)
	})
}
