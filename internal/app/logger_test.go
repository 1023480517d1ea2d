package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerWritesFile(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "scheduler.log")

	logger := NewLogger("production", logFile)
	logger.Info("slot reserved")
	_ = logger.Sync()

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "slot reserved")
}

func TestNewLoggerStdoutOnly(t *testing.T) {
	logger := NewLogger("development", "")
	assert.NotNil(t, logger)
}
