package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/FACorreiaa/extrato-pdf/internal/domain/export"
	"github.com/FACorreiaa/extrato-pdf/internal/domain/statement"
)

// Config holds all application configuration
type Config struct {
	Paths   PathsConfig
	Output  OutputConfig
	Log     LogConfig
	Metrics MetricsConfig
	Mode    statement.Strategy
	// Schedule, when set, keeps the process running and repeats the
	// conversion on this cron spec.
	Schedule string
}

type PathsConfig struct {
	InputDir  string
	OutputDir string
}

type OutputConfig struct {
	FileName string
	Format   export.Format
}

type LogConfig struct {
	Level      string
	File       string // empty disables the debug log file
	MaxSizeMB  int
	MaxAgeDays int
}

type MetricsConfig struct {
	// TextfilePath, when set, receives the run's counters in the
	// node-exporter textfile format.
	TextfilePath string
}

// Load reads configuration from environment variables. Values from a .env
// file in the working directory, when present, are used for variables that
// are not already set.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() (*Config, error) {
	mode, err := statement.ParseStrategy(getEnv("EXTRATO_MODE", statement.StrategyFixedSchema.String()))
	if err != nil {
		return nil, err
	}

	format, err := export.ParseFormat(getEnv("EXTRATO_OUTPUT_FORMAT", string(export.FormatCSV)))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Paths: PathsConfig{
			InputDir:  getEnv("EXTRATO_INPUT_DIR", "input"),
			OutputDir: getEnv("EXTRATO_OUTPUT_DIR", "output"),
		},
		Output: OutputConfig{
			FileName: getEnv("EXTRATO_OUTPUT_NAME", export.DefaultFileName),
			Format:   format,
		},
		Log: LogConfig{
			Level:      getEnv("LOG_LEVEL", "info"),
			File:       lookupEnv("LOG_FILE", "logs/debug.log"),
			MaxSizeMB:  getEnvAsInt("LOG_MAX_SIZE_MB", 1),
			MaxAgeDays: getEnvAsInt("LOG_MAX_AGE_DAYS", 7),
		},
		Metrics: MetricsConfig{
			TextfilePath: getEnv("METRICS_TEXTFILE", ""),
		},
		Mode:     mode,
		Schedule: getEnv("EXTRATO_SCHEDULE", ""),
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// lookupEnv is like getEnv but an explicitly empty variable is kept.
func lookupEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}
