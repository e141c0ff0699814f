package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("chatty"))
}

func TestNewWritesJSONToFile(t *testing.T) {
	defer slog.SetDefault(slog.Default())

	var stderr bytes.Buffer
	path := filepath.Join(t.TempDir(), "kitchenflow.log")

	logger, cleanup, err := newLogger(&stderr, "warn", path)
	require.NoError(t, err)

	logger.Info("dropped")
	logger.Warn("kept", "tier", "remote")
	cleanup()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, stderr.String(), string(data))

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(data), &line))
	assert.Equal(t, "kept", line["msg"])
	assert.Equal(t, "remote", line["tier"])
	assert.Equal(t, "kitchenflow", line["app"])
}

func TestNewBadLogFile(t *testing.T) {
	_, _, err := newLogger(&bytes.Buffer{}, "info", filepath.Join(t.TempDir(), "missing", "x.log"))
	assert.Error(t, err)
}
