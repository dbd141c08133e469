package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/extrato-pdf/internal/domain/export"
	"github.com/FACorreiaa/extrato-pdf/internal/domain/statement"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, key := range []string{
		"EXTRATO_INPUT_DIR", "EXTRATO_OUTPUT_DIR", "EXTRATO_OUTPUT_NAME",
		"EXTRATO_OUTPUT_FORMAT", "EXTRATO_MODE", "LOG_LEVEL",
		"LOG_MAX_SIZE_MB", "LOG_MAX_AGE_DAYS", "METRICS_TEXTFILE", "EXTRATO_SCHEDULE",
	} {
		t.Setenv(key, "")
	}

	cfg, err := FromEnv()

	require.NoError(t, err)
	assert.Equal(t, "input", cfg.Paths.InputDir)
	assert.Equal(t, "output", cfg.Paths.OutputDir)
	assert.Equal(t, export.DefaultFileName, cfg.Output.FileName)
	assert.Equal(t, export.FormatCSV, cfg.Output.Format)
	assert.Equal(t, statement.StrategyFixedSchema, cfg.Mode)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 1, cfg.Log.MaxSizeMB)
	assert.Equal(t, 7, cfg.Log.MaxAgeDays)
	assert.Empty(t, cfg.Metrics.TextfilePath)
	assert.Empty(t, cfg.Schedule)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("EXTRATO_INPUT_DIR", "/data/in")
	t.Setenv("EXTRATO_MODE", "dynamic-header")
	t.Setenv("EXTRATO_OUTPUT_FORMAT", "xlsx")
	t.Setenv("LOG_FILE", "")
	t.Setenv("LOG_MAX_SIZE_MB", "5")
	t.Setenv("EXTRATO_SCHEDULE", "@every 1h")

	cfg, err := FromEnv()

	require.NoError(t, err)
	assert.Equal(t, "/data/in", cfg.Paths.InputDir)
	assert.Equal(t, statement.StrategyDynamicHeader, cfg.Mode)
	assert.Equal(t, export.FormatXLSX, cfg.Output.Format)
	assert.Equal(t, "", cfg.Log.File)
	assert.Equal(t, 5, cfg.Log.MaxSizeMB)
	assert.Equal(t, "@every 1h", cfg.Schedule)
}

func TestFromEnv_Invalid(t *testing.T) {
	t.Run("mode", func(t *testing.T) {
		t.Setenv("EXTRATO_MODE", "sideways")
		_, err := FromEnv()
		assert.Error(t, err)
	})

	t.Run("format", func(t *testing.T) {
		t.Setenv("EXTRATO_MODE", "")
		t.Setenv("EXTRATO_OUTPUT_FORMAT", "ods")
		_, err := FromEnv()
		assert.Error(t, err)
	})
}
