package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew_NopWithoutOutputs(t *testing.T) {
	logger, err := New(Options{})
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zap.ErrorLevel))
}

func TestNew_FileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "aquacheck.log")

	logger, err := New(Options{File: path, Level: "debug"})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zap.DebugLevel))

	logger.Info("model trained", zap.Float64("accuracy", 0.67))
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"model trained"`)
	assert.Contains(t, string(data), `"accuracy":0.67`)
}

func TestNew_Level(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.log")
	logger, err := New(Options{File: path, Level: "warn"})
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zap.InfoLevel))
	assert.True(t, logger.Core().Enabled(zap.WarnLevel))

	_, err = New(Options{File: path, Level: "loud"})
	assert.Error(t, err)
}
