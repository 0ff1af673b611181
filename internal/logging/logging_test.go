package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestInit_WritesToFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "shell.log")

	require.NoError(t, Init(Config{Level: "info", Format: "json", OutputPath: out}))
	t.Cleanup(func() { globalLogger = nil })

	logger, id := ForSession()
	assert.NotEmpty(t, id)
	logger.Info("session started")
	logger.Debug("hidden")
	require.NoError(t, Sync())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "session started")
	assert.Contains(t, string(data), id)
	assert.NotContains(t, string(data), "hidden")
}

func TestInit_UnknownLevelFallsBackToError(t *testing.T) {
	out := filepath.Join(t.TempDir(), "shell.log")

	require.NoError(t, Init(Config{Level: "bogus", OutputPath: out}))
	t.Cleanup(func() { globalLogger = nil })

	assert.Equal(t, zapcore.ErrorLevel, globalLevel.Level())
}

func TestL_NopBeforeInit(t *testing.T) {
	globalLogger = nil
	assert.NotNil(t, L())
	assert.NoError(t, Sync())
}
