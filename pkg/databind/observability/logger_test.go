package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testHandler captures log records for testing.
type testHandler struct {
	buf   *bytes.Buffer
	level slog.Level
	attrs []slog.Attr
}

func newTestHandler() *testHandler {
	return &testHandler{
		buf:   &bytes.Buffer{},
		level: slog.LevelDebug,
	}
}

func (h *testHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *testHandler) Handle(_ context.Context, r slog.Record) error {
	data := map[string]any{
		"level": r.Level.String(),
		"msg":   r.Message,
	}
	for _, attr := range h.attrs {
		data[attr.Key] = attr.Value.Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		data[a.Key] = a.Value.Any()
		return true
	})
	return json.NewEncoder(h.buf).Encode(data)
}

func (h *testHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newH := &testHandler{
		buf:   h.buf,
		level: h.level,
		attrs: make([]slog.Attr, len(h.attrs)+len(attrs)),
	}
	copy(newH.attrs, h.attrs)
	copy(newH.attrs[len(h.attrs):], attrs)
	return newH
}

func (h *testHandler) WithGroup(_ string) slog.Handler {
	return h
}

func (h *testHandler) getLastRecord() map[string]any {
	lines := bytes.Split(h.buf.Bytes(), []byte("\n"))
	for i := len(lines) - 1; i >= 0; i-- {
		if len(lines[i]) > 0 {
			var m map[string]any
			if err := json.Unmarshal(lines[i], &m); err == nil {
				return m
			}
		}
	}
	return nil
}

func TestEnrichLogger(t *testing.T) {
	t.Run("adds model_id", func(t *testing.T) {
		h := newTestHandler()
		enriched := EnrichLogger(slog.New(h), "model-123")
		enriched.Info("test message")

		record := h.getLastRecord()
		require.NotNil(t, record)
		assert.Equal(t, "model-123", record["model_id"])
		assert.Equal(t, "test message", record["msg"])
	})

	t.Run("nil logger returns nil", func(t *testing.T) {
		assert.Nil(t, EnrichLogger(nil, "model-123"))
	})
}

func TestLogBind(t *testing.T) {
	h := newTestHandler()
	LogBind(slog.New(h), "data", "struct")

	record := h.getLastRecord()
	require.NotNil(t, record)
	assert.Equal(t, "DEBUG", record["level"])
	assert.Equal(t, "variable bound", record["msg"])
	assert.Equal(t, "data", record["name"])
	assert.Equal(t, "struct", record["kind"])
}

func TestLogBindError(t *testing.T) {
	h := newTestHandler()
	LogBindError(slog.New(h), "data", errors.New("already bound"))

	record := h.getLastRecord()
	require.NotNil(t, record)
	assert.Equal(t, "ERROR", record["level"])
	assert.Equal(t, "data", record["name"])
	assert.Equal(t, "already bound", record["error"])
}

func TestLogCompileError(t *testing.T) {
	h := newTestHandler()
	LogCompileError(slog.New(h), "a +", errors.New("unexpected end"))

	record := h.getLastRecord()
	require.NotNil(t, record)
	assert.Equal(t, "ERROR", record["level"])
	assert.Equal(t, "expression compile failed", record["msg"])
	assert.Equal(t, "a +", record["expression"])
	assert.Equal(t, "unexpected end", record["error"])
}

func TestLogResolveWarning(t *testing.T) {
	h := newTestHandler()
	LogResolveWarning(slog.New(h), "data.missing", errors.New("member not found"))

	record := h.getLastRecord()
	require.NotNil(t, record)
	assert.Equal(t, "WARN", record["level"])
	assert.Equal(t, "variable not resolved", record["msg"])
	assert.Equal(t, "data.missing", record["address"])
}

func TestLogRuntimeError(t *testing.T) {
	h := newTestHandler()
	LogRuntimeError(slog.New(h), "a | nope", errors.New("unknown transform"))

	record := h.getLastRecord()
	require.NotNil(t, record)
	assert.Equal(t, "ERROR", record["level"])
	assert.Equal(t, "a | nope", record["expression"])
}

func TestLogUpdate(t *testing.T) {
	h := newTestHandler()
	LogUpdate(slog.New(h), []string{"a", "b"}, 1.5)

	record := h.getLastRecord()
	require.NotNil(t, record)
	assert.Equal(t, "model updated", record["msg"])
	assert.Equal(t, 1.5, record["duration_ms"])
	assert.Equal(t, []any{"a", "b"}, record["dirty"])
}

func TestLogHelpers_NilLogger(t *testing.T) {
	assert.NotPanics(t, func() {
		LogBind(nil, "a", "scalar")
		LogBindError(nil, "a", errors.New("x"))
		LogCompileError(nil, "a", errors.New("x"))
		LogResolveWarning(nil, "a", errors.New("x"))
		LogRuntimeError(nil, "a", errors.New("x"))
		LogUpdate(nil, nil, 0)
	})
}

func TestTimedOperation(t *testing.T) {
	done := TimedOperation()
	time.Sleep(5 * time.Millisecond)
	assert.GreaterOrEqual(t, done(), 5.0)
}
