package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNoopMetrics(t *testing.T) {
	var m MetricsRecorder = NoopMetrics{}
	assert.NotPanics(t, func() {
		m.RecordCompile(context.Background(), "m", errors.New("x"))
		m.RecordEvaluation(context.Background(), "m", time.Second, nil)
		m.RecordUpdate(context.Background(), "m", 3)
	})
}

func TestNoopSpanManager(t *testing.T) {
	var sm SpanManager = NoopSpanManager{}
	ctx := context.Background()

	newCtx, span := sm.StartEvalSpan(ctx, "m", "a")
	assert.Equal(t, ctx, newCtx)
	assert.False(t, span.IsRecording())
	assert.NotPanics(t, func() {
		sm.EndSpanWithError(span, errors.New("x"))
	})

	newCtx, span = sm.StartUpdateSpan(ctx, "m", []string{"a"})
	assert.Equal(t, ctx, newCtx)
	assert.False(t, span.IsRecording())
}
