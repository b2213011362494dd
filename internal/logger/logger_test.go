package logger_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtlprog/nexa/internal/logger"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, logger.ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, logger.ParseLevel("warn"))
	assert.Equal(t, slog.LevelError, logger.ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, logger.ParseLevel("info"))
	assert.Equal(t, slog.LevelInfo, logger.ParseLevel("verbose"))
}

func TestSetupWriter(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	logger.SetupWriter(&buf, slog.LevelInfo, logger.FormatJSON)
	slog.Debug("hidden")
	slog.Info("agent created", "agent_id", "a1")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "agent created", entry["msg"])
	assert.Equal(t, "a1", entry["agent_id"])
	assert.Contains(t, entry, "source")

	buf.Reset()
	logger.SetupWriter(&buf, slog.LevelWarn, logger.FormatText)
	slog.Info("hidden")
	slog.Warn("rate limited")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=\"rate limited\"")
}
