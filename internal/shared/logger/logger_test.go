package logger

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tvmanager/internal/shared/config"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestInit_JSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tvmanager.log")

	closer, err := Init(&config.LoggerConfig{Level: "info", Format: "json", OutputPath: path})
	require.NoError(t, err)

	NewLogger().Named("store").Infow("client created", "client_id", "cli_1")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"client created"`)
	assert.Contains(t, string(data), `"component":"store"`)
	assert.Contains(t, string(data), `"client_id":"cli_1"`)
}
