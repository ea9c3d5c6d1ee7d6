// Package telemetry wraps move processing in OpenTelemetry spans.
// Spans are advisory: nothing here may change control flow or error semantics.
package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/rocketscienceinc/tictactoe-coordinator/internal/apperror"
)

const instrumentationName = "github.com/rocketscienceinc/tictactoe-coordinator"

type MoveTracer struct {
	tracer trace.Tracer
}

// NewMoveTracer - a nil provider means the global one, which is a no-op until configured.
func NewMoveTracer(provider trace.TracerProvider) *MoveTracer {
	if provider == nil {
		provider = otel.GetTracerProvider()
	}

	return &MoveTracer{
		tracer: provider.Tracer(instrumentationName),
	}
}

// Start opens a span named op for roomID; the returned func closes it with
// the outcome of the operation.
func (that *MoveTracer) Start(ctx context.Context, op, roomID string, attrs ...attribute.KeyValue) (context.Context, func(error)) {
	if that == nil {
		return ctx, func(error) {}
	}

	started := time.Now()
	ctx, span := that.tracer.Start(ctx, op, trace.WithAttributes(
		append([]attribute.KeyValue{attribute.String("room.id", roomID)}, attrs...)...,
	))

	return ctx, func(err error) {
		span.SetAttributes(attribute.Int64("latency.us", time.Since(started).Microseconds()))
		if err != nil {
			span.SetAttributes(attribute.String("error.code", apperror.Code(err)))
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}
}
