package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records data model metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordCompile records an expression compile and whether it failed.
	RecordCompile(ctx context.Context, modelID string, err error)

	// RecordEvaluation records one program run with its duration and error status.
	RecordEvaluation(ctx context.Context, modelID string, duration time.Duration, err error)

	// RecordUpdate records an update pass and how many roots were dirty.
	RecordUpdate(ctx context.Context, modelID string, dirty int)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	compiles      metric.Int64Counter
	compileErrors metric.Int64Counter
	evaluations   metric.Int64Counter
	evalErrors    metric.Int64Counter
	evalLatency   metric.Float64Histogram
	dirtyCount    metric.Int64Histogram
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics returns the default OTel metrics instance.
// Lazily initializes the metrics on first call.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

// newOtelMetrics creates a new OTel metrics instance.
func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("databind")

	compiles, err := meter.Int64Counter("databind.compile.count",
		metric.WithDescription("Number of expression compiles"),
	)
	if err != nil {
		return nil, err
	}

	compileErrors, err := meter.Int64Counter("databind.compile.errors",
		metric.WithDescription("Number of failed expression compiles"),
	)
	if err != nil {
		return nil, err
	}

	evaluations, err := meter.Int64Counter("databind.eval.count",
		metric.WithDescription("Number of expression evaluations"),
	)
	if err != nil {
		return nil, err
	}

	evalErrors, err := meter.Int64Counter("databind.eval.errors",
		metric.WithDescription("Number of failed expression evaluations"),
	)
	if err != nil {
		return nil, err
	}

	evalLatency, err := meter.Float64Histogram("databind.eval.latency_ms",
		metric.WithDescription("Expression evaluation latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	dirtyCount, err := meter.Int64Histogram("databind.dirty.count",
		metric.WithDescription("Dirty root variables per update"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		compiles:      compiles,
		compileErrors: compileErrors,
		evaluations:   evaluations,
		evalErrors:    evalErrors,
		evalLatency:   evalLatency,
		dirtyCount:    dirtyCount,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordCompile records an expression compile.
func (m *otelMetrics) RecordCompile(ctx context.Context, modelID string, err error) {
	attrs := metric.WithAttributes(attribute.String("model_id", modelID))
	m.compiles.Add(ctx, 1, attrs)
	if err != nil {
		m.compileErrors.Add(ctx, 1, attrs)
	}
}

// RecordEvaluation records an expression evaluation.
func (m *otelMetrics) RecordEvaluation(ctx context.Context, modelID string, duration time.Duration, err error) {
	attrs := metric.WithAttributes(attribute.String("model_id", modelID))
	m.evaluations.Add(ctx, 1, attrs)
	m.evalLatency.Record(ctx, float64(duration.Microseconds())/1000, attrs)
	if err != nil {
		m.evalErrors.Add(ctx, 1, attrs)
	}
}

// RecordUpdate records an update pass.
func (m *otelMetrics) RecordUpdate(ctx context.Context, modelID string, dirty int) {
	m.dirtyCount.Record(ctx, int64(dirty), metric.WithAttributes(attribute.String("model_id", modelID)))
}
