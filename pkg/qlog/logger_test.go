package qlog

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextHandlerIncludesPersistentAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(slog.LevelInfo, FormatText, &buf).With("run_id", "r1")

	logger.Info("user synced", "user_id", "u1", "inserted", 2)

	assert.Equal(t, "INFO  user synced run_id=r1, user_id=u1, inserted=2\n", buf.String())
}

func TestTextHandlerLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(slog.LevelWarn, FormatText, &buf)

	logger.Info("hidden")
	logger.Warn("stream degraded", "stream", "sleep")

	assert.Equal(t, "WARN  stream degraded stream=sleep\n", buf.String())
}

func TestTextHandlerGroupPrefix(t *testing.T) {
	var buf bytes.Buffer
	logger := &Logger{Logger: NewLogger(slog.LevelInfo, FormatText, &buf).WithGroup("fetch")}

	logger.Info("page", "n", 3)

	assert.Equal(t, "INFO  page fetch.n=3\n", buf.String())
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(slog.LevelInfo, FormatJSON, &buf)

	logger.Error("batch failed", "error", "boom")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "batch failed", line["msg"])
	assert.Equal(t, "ERROR", line["level"])
	assert.Equal(t, "boom", line["error"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("nonsense"))
}
