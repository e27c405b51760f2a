package iologger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gnames/geopephub/pkg/config"
	"github.com/gnames/geopephub/pkg/errcode"
	"github.com/gnames/gn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		level slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.level, parseLevel(tt.input), tt.input)
	}
}

func TestHandlerFormat(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(newHandler(&buf, config.LogConfig{Format: "json", Level: "info"}))
	WithRunID(l, "run-1").Info("Cycle queued", "cycle", 3)
	l.Debug("hidden")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "Cycle queued", rec["msg"])
	assert.Equal(t, "run-1", rec["run_id"])
	assert.InDelta(t, 3, rec["cycle"], 0)

	buf.Reset()
	l = slog.New(newHandler(&buf, config.LogConfig{Format: "text", Level: "debug"}))
	l.Debug("visible", "gse", "GSE1")
	assert.Contains(t, buf.String(), "gse=GSE1")
}

func TestNewFile(t *testing.T) {
	dir := t.TempDir()
	cfg := config.LogConfig{Format: "text", Level: "info", Destination: "file"}

	l, err := New(dir, cfg, false)
	require.NoError(t, err)
	l.Info("first")

	l, err = New(dir, cfg, true)
	require.NoError(t, err)
	l.Info("second")

	content, err := os.ReadFile(filepath.Join(dir, LogFile))
	require.NoError(t, err)
	assert.Contains(t, string(content), "first")
	assert.Contains(t, string(content), "second")

	_, err = New(filepath.Join(dir, "missing"), cfg, false)
	require.Error(t, err)
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok, "error should be *gn.Error")
	assert.Equal(t, errcode.CreateLogFileError, gnErr.Code)
}
