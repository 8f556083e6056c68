package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestRequestScopedLogger(t *testing.T) {
	var buf bytes.Buffer
	InitializeWithWriter("info", "json", &buf)
	t.Cleanup(func() { Initialize("info", "text") })

	ctx := NewContext(context.Background(), WithRequestID("req-42"))
	InfoContext(ctx, "Handled request", "status", 200)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "Handled request", line["msg"])
	assert.Equal(t, "req-42", line["request_id"])
	assert.Equal(t, float64(200), line["status"])
}

func TestFromContext_FallsBackToDefault(t *testing.T) {
	var buf bytes.Buffer
	InitializeWithWriter("warn", "json", &buf)
	t.Cleanup(func() { Initialize("info", "text") })

	assert.Same(t, Get(), FromContext(context.Background()))

	InfoContext(context.Background(), "dropped")
	assert.Zero(t, buf.Len())

	WarnContext(context.Background(), "kept")
	assert.Contains(t, buf.String(), `"msg":"kept"`)
}
