package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// NoopMetrics discards every measurement. It is the Model default.
type NoopMetrics struct{}

var _ MetricsRecorder = NoopMetrics{}

func (NoopMetrics) RecordCompile(context.Context, string, error) {}

func (NoopMetrics) RecordEvaluation(context.Context, string, time.Duration, error) {}

func (NoopMetrics) RecordUpdate(context.Context, string, int) {}

// NoopSpanManager hands out non-recording spans. It is the Model default.
type NoopSpanManager struct{}

var _ SpanManager = NoopSpanManager{}

func (NoopSpanManager) StartEvalSpan(ctx context.Context, _, _ string) (context.Context, trace.Span) {
	return ctx, noop.Span{}
}

func (NoopSpanManager) StartUpdateSpan(ctx context.Context, _ string, _ []string) (context.Context, trace.Span) {
	return ctx, noop.Span{}
}

func (NoopSpanManager) EndSpanWithError(trace.Span, error) {}
