package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcostaira/drgestao-admcli/pkg/logger"
)

func newBufferLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(&logger.Handler{
		Handler: slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}),
	})
}

func logLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))

	return line
}

func TestHandlerEnrichesFromContext(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := newBufferLogger(&buf)

	ctx := logger.SetRequestID(context.Background(), "req-123")
	ctx = logger.SetUserID(ctx, "42")
	ctx = logger.SetCommand(ctx, "tenants")

	l.InfoContext(ctx, "api request")

	line := logLine(t, &buf)
	assert.Equal(t, "req-123", line["request_id"])
	assert.Equal(t, "42", line["user_id"])
	assert.Equal(t, "tenants", line["command"])
	assert.Equal(t, "drgestao-admcli", line["origin_service"])
}

func TestHandlerDefaultsWithoutContextValues(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := newBufferLogger(&buf)

	l.InfoContext(context.Background(), "startup")

	line := logLine(t, &buf)
	_, hasRequestID := line["request_id"]
	assert.False(t, hasRequestID)
	assert.Nil(t, line["user_id"])
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, slog.LevelDebug, logger.ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, logger.ParseLevel("WARN"))
	assert.Equal(t, slog.LevelError, logger.ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, logger.ParseLevel("whatever"))
}
