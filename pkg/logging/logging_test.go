package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/Manu343726/or1kdbg/pkg/or1k"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		text  string
		level slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"", slog.LevelInfo},
		{" warn ", slog.LevelWarn},
		{"error", slog.LevelError},
	}

	for _, test := range tests {
		level, err := ParseLevel(test.text)
		require.NoError(t, err)
		assert.Equal(t, test.level, level)
	}

	_, err := ParseLevel("verbose")
	assert.ErrorIs(t, err, or1k.ErrInvalidArgument)
}

func TestNew_FansOut(t *testing.T) {
	var console, file bytes.Buffer
	logger := New(&console, &file, slog.LevelInfo)

	logger.Debug("hidden")
	logger.Info("halted", "pc", "0x00000100")

	assert.NotContains(t, console.String(), "hidden")
	assert.Contains(t, console.String(), "msg=halted")
	assert.Contains(t, console.String(), "pc=0x00000100")

	var record map[string]any
	require.NoError(t, json.Unmarshal(file.Bytes(), &record))
	assert.Equal(t, "halted", record["msg"])
	assert.Equal(t, "0x00000100", record["pc"])
}

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "or1kdbg.log")
	var console bytes.Buffer

	logger, closer, err := Open("warn", path, &console)
	require.NoError(t, err)

	logger.Warn("retrying")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"retrying"`)
	assert.Contains(t, console.String(), "retrying")

	_, _, err = Open("loud", "", &console)
	assert.ErrorIs(t, err, or1k.ErrInvalidArgument)
}
