package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, LevelInfo, cfg.Level)
	assert.Equal(t, FormatJSON, cfg.Format)
	assert.Equal(t, "stdout", cfg.Output)
}

func TestNewLogger_NilConfigUsesDefaults(t *testing.T) {
	logger, err := NewLogger(nil)
	require.NoError(t, err)
	assert.Equal(t, LevelInfo, logger.GetLevel())
}

func TestNewLogger_Formats(t *testing.T) {
	tests := []struct {
		name   string
		format Format
	}{
		{"json", FormatJSON},
		{"console", FormatConsole},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := NewLogger(&Config{
				Level:  LevelInfo,
				Format: tt.format,
				Output: "stderr",
			})
			require.NoError(t, err)
			logger.Info("test message")
		})
	}
}

func TestNewLogger_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")

	logger, err := NewLogger(&Config{
		Level:  LevelInfo,
		Format: FormatJSON,
		Output: path,
	})
	require.NoError(t, err)

	logger.Info("written to file")
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file")
}

func TestNewLogger_InvalidOutputPath(t *testing.T) {
	_, err := NewLogger(&Config{
		Level:  LevelInfo,
		Format: FormatJSON,
		Output: filepath.Join(t.TempDir(), "missing", "app.log"),
	})
	assert.Error(t, err)
}

func TestNewLogger_InitialFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")

	logger, err := NewLogger(&Config{
		Level:  LevelInfo,
		Format: FormatJSON,
		Output: path,
		InitialFields: map[string]interface{}{
			"service": "otel-sample-app",
		},
	})
	require.NoError(t, err)

	logger.Info("with fields")
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"service":"otel-sample-app"`)
}

func TestSetLevel(t *testing.T) {
	logger, err := NewLogger(&Config{Level: LevelInfo, Format: FormatJSON, Output: "stderr"})
	require.NoError(t, err)

	assert.Equal(t, LevelInfo, logger.GetLevel())

	logger.SetLevel(LevelDebug)
	assert.Equal(t, LevelDebug, logger.GetLevel())
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))

	logger.SetLevel(LevelError)
	assert.Equal(t, LevelError, logger.GetLevel())
	assert.False(t, logger.Core().Enabled(zapcore.WarnLevel))
}

func TestSetLevel_SharedWithChildren(t *testing.T) {
	logger, err := NewLogger(&Config{Level: LevelInfo, Format: FormatJSON, Output: "stderr"})
	require.NoError(t, err)

	child := logger.Named("child").With(zap.String("component", "test"))

	logger.SetLevel(LevelError)
	assert.Equal(t, LevelError, child.GetLevel())
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		level Level
		want  zapcore.Level
	}{
		{LevelDebug, zapcore.DebugLevel},
		{LevelInfo, zapcore.InfoLevel},
		{LevelWarn, zapcore.WarnLevel},
		{LevelError, zapcore.ErrorLevel},
		{Level("unknown"), zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(string(tt.level), func(t *testing.T) {
			assert.Equal(t, tt.want, parseLevel(tt.level))
		})
	}
}
