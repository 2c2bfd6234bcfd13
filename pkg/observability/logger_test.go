package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/felixgeelhaar/triage/internal/engine/sdk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	t.Run("creates text logger", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(LogConfig{Level: LogLevelInfo, Format: LogFormatText, Output: &buf})
		require.NotNil(t, logger)

		logger.Info("test message", "key", "value")
		output := buf.String()

		assert.Contains(t, output, "test message")
		assert.Contains(t, output, "key=value")
	})

	t.Run("creates JSON logger", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(LogConfig{Level: LogLevelInfo, Format: LogFormatJSON, Output: &buf})

		logger.Info("test message", "key", "value")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "test message", entry["msg"])
		assert.Equal(t, "value", entry["key"])
	})

	t.Run("respects log level", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(LogConfig{Level: LogLevelWarn, Format: LogFormatText, Output: &buf})

		logger.Debug("debug message")
		logger.Info("info message")
		logger.Warn("warn message")
		logger.Error("error message")

		output := buf.String()
		assert.NotContains(t, output, "debug message")
		assert.NotContains(t, output, "info message")
		assert.Contains(t, output, "warn message")
		assert.Contains(t, output, "error message")
	})

	t.Run("adds service attributes", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(LogConfig{
			Level:          LogLevelInfo,
			Format:         LogFormatJSON,
			Output:         &buf,
			ServiceName:    "triage",
			ServiceVersion: "1.2.0",
		})

		logger.Info("test")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "triage", entry["service"])
		assert.Equal(t, "1.2.0", entry["version"])
	})

	t.Run("adds correlation ID from context", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(LogConfig{Level: LogLevelInfo, Format: LogFormatJSON, Output: &buf})

		ctx := sdk.WithCorrelationID(context.Background(), "corr-123")
		logger.With("component", "batch").InfoContext(ctx, "with context")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "corr-123", entry[CorrelationIDKey])
		assert.Equal(t, "batch", entry["component"])
	})

	t.Run("omits correlation ID when absent", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(LogConfig{Level: LogLevelInfo, Format: LogFormatJSON, Output: &buf})

		logger.InfoContext(context.Background(), "no context")
		assert.NotContains(t, buf.String(), CorrelationIDKey)
	})
}

func TestDefaultLogConfig(t *testing.T) {
	cfg := DefaultLogConfig()

	assert.Equal(t, LogLevelWarn, cfg.Level)
	assert.Equal(t, LogFormatText, cfg.Format)
	assert.Equal(t, "triage", cfg.ServiceName)
	assert.False(t, cfg.AddSource)
}

func TestNewLogConfig(t *testing.T) {
	cfg := NewLogConfig("production", "debug", "json", "1.0.0")
	assert.Equal(t, LogLevelDebug, cfg.Level)
	assert.Equal(t, LogFormatJSON, cfg.Format)
	assert.Equal(t, "1.0.0", cfg.ServiceVersion)
	assert.True(t, cfg.AddSource)

	cfg = NewLogConfig("development", "", "", "")
	assert.Equal(t, DefaultLogConfig().Level, cfg.Level)
	assert.Equal(t, "dev", cfg.ServiceVersion)
	assert.False(t, cfg.AddSource)
}

func TestParseSlogLevel(t *testing.T) {
	tests := []struct {
		input    LogLevel
		expected slog.Level
	}{
		{LogLevelDebug, slog.LevelDebug},
		{LogLevelInfo, slog.LevelInfo},
		{LogLevelWarn, slog.LevelWarn},
		{LogLevelError, slog.LevelError},
		{"unknown", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(string(tt.input), func(t *testing.T) {
			assert.Equal(t, tt.expected, parseSlogLevel(tt.input))
		})
	}
}

func TestCorrelationHandler_Enabled(t *testing.T) {
	var buf bytes.Buffer
	handler := &correlationHandler{handler: slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn})}

	assert.False(t, handler.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, handler.Enabled(context.Background(), slog.LevelWarn))
	assert.IsType(t, &correlationHandler{}, handler.WithGroup("g"))
	assert.IsType(t, &correlationHandler{}, handler.WithAttrs(nil))
}
