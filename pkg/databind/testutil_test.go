package databind

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/randalmurphal/databind/pkg/databind/variable"
)

// testData mirrors the usual demo struct: an int, a string and an array.
type testData struct {
	I     int
	X     string
	Magic []int
}

func newTestModel(t *testing.T, opts ...Option) (*Model, *testData) {
	t.Helper()
	m := New(opts...)
	h, err := variable.RegisterStruct[testData](m.Types())
	require.NoError(t, err)
	h.Field("i", "I").Field("x", "X").Field("magic", "Magic")

	data := &testData{I: 99, X: "hello", Magic: []int{3, 5, 7, 11, 13}}
	require.NoError(t, m.BindStruct("data", data))
	return m, data
}

func newBufferLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}

// countingMetrics records how often each hook fires.
type countingMetrics struct {
	compiles, compileErrors int
	evals, evalErrors       int
	updates                 []int
}

func (c *countingMetrics) RecordCompile(_ context.Context, _ string, err error) {
	c.compiles++
	if err != nil {
		c.compileErrors++
	}
}

func (c *countingMetrics) RecordEvaluation(_ context.Context, _ string, _ time.Duration, err error) {
	c.evals++
	if err != nil {
		c.evalErrors++
	}
}

func (c *countingMetrics) RecordUpdate(_ context.Context, _ string, dirty int) {
	c.updates = append(c.updates, dirty)
}

// recordingSpans remembers the expressions spans were started for.
type recordingSpans struct {
	started []string
	updates [][]string
	errs    []error
}

func (r *recordingSpans) StartEvalSpan(ctx context.Context, _, expression string) (context.Context, trace.Span) {
	r.started = append(r.started, expression)
	return ctx, noop.Span{}
}

func (r *recordingSpans) StartUpdateSpan(ctx context.Context, _ string, dirty []string) (context.Context, trace.Span) {
	r.updates = append(r.updates, dirty)
	return ctx, noop.Span{}
}

func (r *recordingSpans) EndSpanWithError(_ trace.Span, err error) {
	r.errs = append(r.errs, err)
}
