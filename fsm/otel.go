package fsm

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// startTransitionSpan creates a span for an applied transition.
// Uses the global tracer initialized by
// github.com/storefront-labs/ui-common/telemetry.
// The caller is responsible for calling span.End().
//
//nolint:spancheck // Span lifecycle managed by caller (factory pattern)
func startTransitionSpan(ctx context.Context, machine string, from, to Kind) (context.Context, trace.Span) {
	tracer := otel.Tracer("fsm")
	ctx, span := tracer.Start(ctx, "fsm.transition")
	span.SetAttributes(
		attribute.String("machine", machine),
		attribute.String("from", string(from)),
		attribute.String("to", string(to)),
	)

	return ctx, span
}
