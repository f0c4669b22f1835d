package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{
			"positive case - file/info",
			Config{Output: OutputFile, Level: "info", File: filepath.Join(dir, "a.log"), MaxMB: 1, MaxFiles: 1},
			nil,
		},
		{
			"positive case - console/debug",
			Config{Output: OutputConsole, Level: "debug"},
			nil,
		},
		{
			"positive case - stderr/warn",
			Config{Output: OutputStderr, Level: "warn"},
			nil,
		},
		{
			"positive case - json case insensitive",
			Config{Output: OutputJSON, Level: "ERROR"},
			nil,
		},
		{
			"invalid level",
			Config{Output: OutputStderr, Level: "critical"},
			ErrInvalidLogLevel,
		},
		{
			"empty level",
			Config{Output: OutputStderr},
			ErrInvalidLogLevel,
		},
		{
			"invalid output",
			Config{Output: "syslog", Level: "info"},
			ErrInvalidLogOutput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.cfg)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NoError(t, logger.Close())
		})
	}
}

func TestFileOutputWritesJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "pingscope.log")

	logger, err := New(Config{Output: OutputFile, Level: "info", File: path, MaxMB: 1, MaxFiles: 1})
	require.NoError(t, err)

	logger.Info().Str("target", "8.8.8.8").Msg("Starting probe")
	logger.Debug().Msg("filtered out")
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &payload))
	assert.Equal(t, "info", payload["level"])
	assert.Equal(t, "8.8.8.8", payload["target"])
	assert.Equal(t, "Starting probe", payload["message"])
	assert.NotEmpty(t, payload["time"])
}

func TestFileOutputNeedsPath(t *testing.T) {
	_, err := New(Config{Output: OutputFile, Level: "info"})
	assert.Error(t, err)
}

func TestNopClose(t *testing.T) {
	assert.NoError(t, Nop().Close())
}
