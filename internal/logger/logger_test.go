package logger

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// readEntries decodes the JSON lines written by the file core.
func readEntries(t *testing.T, path string) []map[string]any {
	t.Helper()

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var entries []map[string]any
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var entry map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &entry), "line %q", scanner.Text())
		entries = append(entries, entry)
	}
	require.NoError(t, scanner.Err())
	return entries
}

func TestLogLevels(t *testing.T) {
	tests := []struct {
		level    string
		expected []string
	}{
		{level: "error", expected: []string{"error"}},
		{level: "warn", expected: []string{"warn", "error"}},
		{level: "info", expected: []string{"info", "warn", "error"}},
		{level: "debug", expected: []string{"debug", "info", "warn", "error"}},
		{level: "bogus", expected: []string{"info", "warn", "error"}},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logFile := filepath.Join(t.TempDir(), tt.level+".log")
			cfg := FileConfig{Path: logFile, MaxSizeMB: 1, MaxBackups: 1, MaxAgeDays: 1}
			require.NoError(t, InitWithFileConfig(tt.level, cfg, false))

			Debug("debug message")
			Info("info message")
			Log.Warn("warn message")
			Error("error message")
			Sync()

			var levels []string
			for _, entry := range readEntries(t, logFile) {
				levels = append(levels, entry["level"].(string))
			}
			assert.Equal(t, tt.expected, levels)
		})
	}
}

func TestNamedCarriesComponentAndFields(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "named.log")
	require.NoError(t, InitWithFileConfig("debug", DefaultFileConfig(logFile), false))

	Named("scene").Warn("material not found", zap.String("material", "Ghost"), zap.Int("line", 7))
	Sync()

	entries := readEntries(t, logFile)
	require.Len(t, entries, 1)
	assert.Equal(t, "scene", entries[0]["logger"])
	assert.Equal(t, "Ghost", entries[0]["material"])
	assert.EqualValues(t, 7, entries[0]["line"])
}

func TestOr(t *testing.T) {
	own := zap.NewExample()
	assert.Same(t, own, Or(own, "ignored"))
	assert.NotNil(t, Or(nil, "fallback"))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, ParseLevel("warn"))
	assert.Equal(t, zapcore.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel(""))
}

func TestDefaultFileConfig(t *testing.T) {
	cfg := DefaultFileConfig("/tmp/sandbox.log")

	assert.Equal(t, "/tmp/sandbox.log", cfg.Path)
	assert.Equal(t, 20, cfg.MaxSizeMB)
	assert.Equal(t, 3, cfg.MaxBackups)
	assert.Equal(t, 7, cfg.MaxAgeDays)
	assert.True(t, cfg.Compress)
}
