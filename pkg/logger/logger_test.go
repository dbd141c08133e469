package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{" warn ", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestNew_ConsoleOnly(t *testing.T) {
	var console bytes.Buffer
	log, closeFn, err := New(Options{Level: "info", Console: &console})
	require.NoError(t, err)
	defer closeFn()

	log.Debug("hidden")
	log.Info("shown", "file", "a.pdf")

	out := console.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "file=a.pdf")
}

func TestNew_DebugFile(t *testing.T) {
	var console bytes.Buffer
	path := filepath.Join(t.TempDir(), "logs", "debug.log")

	log, closeFn, err := New(Options{Level: "warn", Console: &console, File: path, MaxSizeMB: 1, MaxAgeDays: 7})
	require.NoError(t, err)

	log.With("run", "r1").Debug("row rejected", "row", 3)
	log.Warn("file missing")
	require.NoError(t, closeFn())

	assert.NotContains(t, console.String(), "row rejected")
	assert.Contains(t, console.String(), "file missing")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)

	var first map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "row rejected", first["msg"])
	assert.Equal(t, "DEBUG", first["level"])
	assert.Equal(t, "r1", first["run"])
	assert.EqualValues(t, 3, first["row"])
}

func TestFanout_Groups(t *testing.T) {
	var a, b bytes.Buffer
	h := Fanout(
		slog.NewTextHandler(&a, nil),
		slog.NewTextHandler(&b, &slog.HandlerOptions{Level: slog.LevelError}),
	)
	log := slog.New(h).WithGroup("pdf")

	log.Info("page", "n", 2)

	assert.Contains(t, a.String(), "pdf.n=2")
	assert.Empty(t, b.String())
}
