// Package observability provides structured logging, metrics and tracing
// for data models.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import (
	"log/slog"
	"time"
)

// EnrichLogger adds model context to a logger.
// Returns a new logger with the model_id field.
func EnrichLogger(logger *slog.Logger, modelID string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(slog.String("model_id", modelID))
}

// LogBind logs a new root binding.
func LogBind(logger *slog.Logger, name, kind string) {
	if logger == nil {
		return
	}
	logger.Debug("variable bound",
		slog.String("name", name),
		slog.String("kind", kind),
	)
}

// LogBindError logs a rejected binding.
func LogBindError(logger *slog.Logger, name string, err error) {
	if logger == nil {
		return
	}
	logger.Error("bind failed",
		slog.String("name", name),
		slog.String("error", err.Error()),
	)
}

// LogCompileError logs an expression that failed to compile.
func LogCompileError(logger *slog.Logger, expression string, err error) {
	if logger == nil {
		return
	}
	logger.Error("expression compile failed",
		slog.String("expression", expression),
		slog.String("error", err.Error()),
	)
}

// LogResolveWarning logs an address that could not be resolved.
// Resolution failures are not fatal; the expression sees an empty value.
func LogResolveWarning(logger *slog.Logger, addr string, err error) {
	if logger == nil {
		return
	}
	logger.Warn("variable not resolved",
		slog.String("address", addr),
		slog.String("error", err.Error()),
	)
}

// LogRuntimeError logs an expression that failed during evaluation.
func LogRuntimeError(logger *slog.Logger, expression string, err error) {
	if logger == nil {
		return
	}
	logger.Error("expression evaluation failed",
		slog.String("expression", expression),
		slog.String("error", err.Error()),
	)
}

// LogUpdate logs an update pass.
func LogUpdate(logger *slog.Logger, dirty []string, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Debug("model updated",
		slog.Any("dirty", dirty),
		slog.Float64("duration_ms", durationMs),
	)
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time in milliseconds.
//
// Example:
//
//	done := TimedOperation()
//	// ... do work ...
//	durationMs := done()
func TimedOperation() func() float64 {
	start := time.Now()
	return func() float64 {
		return float64(time.Since(start).Microseconds()) / 1000
	}
}
