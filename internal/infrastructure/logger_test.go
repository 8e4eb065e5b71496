package infrastructure

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phrecap/internal/config"
)

func TestInitializeLogger(t *testing.T) {
	t.Run("console output", func(t *testing.T) {
		ResetLoggerForTesting()
		logger, err := InitializeLogger(config.LoggingConfig{Level: "info", Output: "console"})
		require.NoError(t, err)
		require.NotNil(t, logger)
	})

	t.Run("file output creates the log directory", func(t *testing.T) {
		ResetLoggerForTesting()
		path := filepath.Join(t.TempDir(), "logs", "recap.log")
		logger, err := InitializeLogger(config.LoggingConfig{Level: "debug", Output: "file", FilePath: path})
		require.NoError(t, err)

		logger.Info("hello", slog.String("key", "value"))
		require.NoError(t, CloseLogFile())

		data, err := os.ReadFile(path)
		require.NoError(t, err)

		var record map[string]any
		require.NoError(t, json.Unmarshal(data, &record))
		assert.Equal(t, "hello", record["msg"])
		assert.Equal(t, "value", record["key"])
	})

	t.Run("initialization happens once", func(t *testing.T) {
		ResetLoggerForTesting()
		first, err := InitializeLogger(config.LoggingConfig{Output: "console"})
		require.NoError(t, err)
		second, err := InitializeLogger(config.LoggingConfig{Output: "console"})
		require.NoError(t, err)
		assert.Same(t, first, second)
	})
}

func TestRunIDPropagation(t *testing.T) {
	ResetLoggerForTesting()
	path := filepath.Join(t.TempDir(), "recap.log")
	logger, err := InitializeLogger(config.LoggingConfig{Level: "info", Output: "file", FilePath: path})
	require.NoError(t, err)

	ctx := WithRunID(context.Background(), "run-123")
	assert.Equal(t, "run-123", RunID(ctx))
	assert.Empty(t, RunID(context.Background()))

	logger.InfoContext(ctx, "with run id")
	logger.Info("without run id")
	require.NoError(t, CloseLogFile())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := splitLines(data)
	require.Len(t, lines, 2)

	var withID, withoutID map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &withID))
	require.NoError(t, json.Unmarshal(lines[1], &withoutID))
	assert.Equal(t, "run-123", withID["run_id"])
	assert.NotContains(t, withoutID, "run_id")
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLogLevel(tt.in), tt.in)
	}
}

func splitLines(data []byte) [][]byte {
	var lines [][]byte
	start := 0
	for i, b := range data {
		if b == '\n' {
			if i > start {
				lines = append(lines, data[start:i])
			}
			start = i + 1
		}
	}
	if start < len(data) {
		lines = append(lines, data[start:])
	}
	return lines
}
