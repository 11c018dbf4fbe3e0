package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// setupTracingTest creates a test tracer provider with an in-memory span recorder.
func setupTracingTest(t *testing.T) (*tracetest.InMemoryExporter, func()) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))

	originalProvider := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	tracer = otel.Tracer("databind")

	cleanup := func() {
		otel.SetTracerProvider(originalProvider)
		if err := tp.Shutdown(context.Background()); err != nil {
			t.Logf("Error shutting down tracer provider: %v", err)
		}
	}
	return exporter, cleanup
}

func TestStartEvalSpan(t *testing.T) {
	exporter, cleanup := setupTracingTest(t)
	defer cleanup()

	sm := NewSpanManager()
	ctx, span := sm.StartEvalSpan(context.Background(), "model-1", "a + b")
	require.NotNil(t, span)
	assert.NotEqual(t, context.Background(), ctx)
	sm.EndSpanWithError(span, nil)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	s := spans[0]
	assert.Equal(t, SpanEvaluate, s.Name)
	assert.Equal(t, codes.Ok, s.Status.Code)

	var modelID, expression string
	for _, attr := range s.Attributes {
		switch attr.Key {
		case "model.id":
			modelID = attr.Value.AsString()
		case "expression":
			expression = attr.Value.AsString()
		}
	}
	assert.Equal(t, "model-1", modelID)
	assert.Equal(t, "a + b", expression)
}

func TestEndSpanWithError(t *testing.T) {
	exporter, cleanup := setupTracingTest(t)
	defer cleanup()

	sm := NewSpanManager()
	_, span := sm.StartEvalSpan(context.Background(), "model-1", "x | nope")
	sm.EndSpanWithError(span, errors.New("unknown transform"))

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status.Code)
	assert.Equal(t, "unknown transform", spans[0].Status.Description)
	require.NotEmpty(t, spans[0].Events)
	assert.Equal(t, "exception", spans[0].Events[0].Name)
}

func TestEndSpanWithError_NilSpan(t *testing.T) {
	assert.NotPanics(t, func() {
		NewSpanManager().EndSpanWithError(nil, errors.New("x"))
	})
}

func TestStartUpdateSpan(t *testing.T) {
	exporter, cleanup := setupTracingTest(t)
	defer cleanup()

	sm := NewSpanManager()
	_, span := sm.StartUpdateSpan(context.Background(), "model-1", []string{"a", "b"})
	sm.EndSpanWithError(span, nil)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	s := spans[0]
	assert.Equal(t, SpanUpdate, s.Name)
	assert.Equal(t, codes.Ok, s.Status.Code)

	attrs := make(map[string]any)
	for _, attr := range s.Attributes {
		attrs[string(attr.Key)] = attr.Value.AsInterface()
	}
	assert.Equal(t, "model-1", attrs["model.id"])
	assert.Equal(t, int64(2), attrs["dirty.count"])
	assert.Equal(t, []string{"a", "b"}, attrs["dirty.names"])
}
