package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Span names.
const (
	SpanEvaluate = "databind.evaluate"
	SpanUpdate   = "databind.update"
)

// tracer resolves through the global provider, so a provider installed
// after package init is still picked up.
var tracer = otel.Tracer("databind")

// SpanManager opens and closes the spans a Model emits.
// NewSpanManager traces through OpenTelemetry; NoopSpanManager discards.
type SpanManager interface {
	// StartEvalSpan opens a span around one expression evaluation.
	StartEvalSpan(ctx context.Context, modelID, expression string) (context.Context, trace.Span)

	// StartUpdateSpan opens a span around one Update pass over dirty.
	StartUpdateSpan(ctx context.Context, modelID string, dirty []string) (context.Context, trace.Span)

	// EndSpanWithError sets the span status from err and ends it.
	EndSpanWithError(span trace.Span, err error)
}

type otelSpanManager struct{}

// NewSpanManager returns a SpanManager backed by the global OTel tracer
// provider. Install the provider with otel.SetTracerProvider first.
func NewSpanManager() SpanManager {
	return otelSpanManager{}
}

func (otelSpanManager) StartEvalSpan(ctx context.Context, modelID, expression string) (context.Context, trace.Span) {
	return tracer.Start(ctx, SpanEvaluate,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("model.id", modelID),
			attribute.String("expression", expression),
		),
	)
}

func (otelSpanManager) StartUpdateSpan(ctx context.Context, modelID string, dirty []string) (context.Context, trace.Span) {
	return tracer.Start(ctx, SpanUpdate,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("model.id", modelID),
			attribute.Int("dirty.count", len(dirty)),
			attribute.StringSlice("dirty.names", dirty),
		),
	)
}

func (otelSpanManager) EndSpanWithError(span trace.Span, err error) {
	if span == nil {
		return
	}
	defer span.End()
	if err == nil {
		span.SetStatus(codes.Ok, "")
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
