package databind

import (
	"log/slog"
	"os"

	"github.com/randalmurphal/databind/pkg/databind/config"
	"github.com/randalmurphal/databind/pkg/databind/observability"
	"github.com/randalmurphal/databind/pkg/databind/variable"
)

// Option configures a Model.
type Option func(*Model)

// WithLogger sets the logger for diagnostics.
// Default: slog.Default()
//
// The logger is enriched with the model's ID.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Model) {
		m.logger = logger
	}
}

// WithMetrics sets the metrics recorder.
// Default: observability.NoopMetrics{}
//
// Example:
//
//	model := databind.New(databind.WithMetrics(observability.NewMetricsRecorder()))
func WithMetrics(recorder observability.MetricsRecorder) Option {
	return func(m *Model) {
		if recorder != nil {
			m.metrics = recorder
		}
	}
}

// WithSpanManager sets the span manager used for evaluation spans.
// Default: observability.NoopSpanManager{}
func WithSpanManager(spans observability.SpanManager) Option {
	return func(m *Model) {
		if spans != nil {
			m.spans = spans
		}
	}
}

// WithTypes shares a type registry between models.
// Default: a fresh registry per model.
func WithTypes(types *variable.Types) Option {
	return func(m *Model) {
		if types != nil {
			m.types = types
		}
	}
}

// WithoutBuiltinTransforms skips registering to_lower, to_upper, round and format.
func WithoutBuiltinTransforms() Option {
	return func(m *Model) {
		m.builtins = false
	}
}

// WithMaxStackDepth bounds the evaluation value stack.
// Default: 256
func WithMaxStackDepth(n int) Option {
	return func(m *Model) {
		if n > 0 {
			m.maxStackDepth = n
		}
	}
}

// WithSettings applies settings loaded by the config package.
//
// Metrics and Tracing enable the OpenTelemetry recorder and span manager.
// LogLevel only takes effect when no logger is given with WithLogger.
//
// Example:
//
//	cfg, _ := config.FromFile("databind.yaml")
//	settings, _ := config.Load(cfg, "databind")
//	model := databind.New(databind.WithSettings(settings))
func WithSettings(s config.Settings) Option {
	return func(m *Model) {
		if s.MaxStackDepth > 0 {
			m.maxStackDepth = s.MaxStackDepth
		}
		m.builtins = s.BuiltinTransforms
		m.disabled = s.DisabledTransforms
		if s.Metrics {
			m.metrics = observability.NewMetricsRecorder()
		}
		if s.Tracing {
			m.spans = observability.NewSpanManager()
		}
		level := s.Level()
		m.level = &level
	}
}

// defaultLogger returns slog.Default, or a stderr text logger when a level
// was configured.
func defaultLogger(level *slog.Level) *slog.Logger {
	if level == nil {
		return slog.Default()
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: *level}))
}
