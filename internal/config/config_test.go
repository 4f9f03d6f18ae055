package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Detection thresholds
	assert.Equal(t, 2, cfg.Detect.MinRepeats)
	assert.Equal(t, 5, cfg.Detect.MinComplexity)
	assert.Equal(t, 25, cfg.Detect.MaxCandidates)

	// Pipeline limits
	assert.Equal(t, 2, cfg.Pipeline.Workers)
	assert.Equal(t, 500*time.Millisecond, cfg.Pipeline.Timeout)

	// Logging config
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Logging.Development)
}

func TestLoadOrDefault(t *testing.T) {
	// Should return default values when no env vars set
	cfg := LoadOrDefault()

	assert.NotNil(t, cfg)
	assert.Equal(t, 2, cfg.Detect.MinRepeats)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadWithEnvironmentVariables(t *testing.T) {
	envVars := map[string]string{
		"DETECT_MIN_REPEATS":    "3",
		"DETECT_MIN_COMPLEXITY": "8",
		"DETECT_MAX_CANDIDATES": "50",
		"PIPELINE_WORKERS":      "4",
		"PIPELINE_TIMEOUT":      "2s",
		"LOG_LEVEL":             "debug",
		"LOG_DEV":               "true",
	}

	for key, value := range envVars {
		err := os.Setenv(key, value)
		require.NoError(t, err)
		defer os.Unsetenv(key)
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Detect.MinRepeats)
	assert.Equal(t, 8, cfg.Detect.MinComplexity)
	assert.Equal(t, 50, cfg.Detect.MaxCandidates)

	assert.Equal(t, 4, cfg.Pipeline.Workers)
	assert.Equal(t, 2*time.Second, cfg.Pipeline.Timeout)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Development)
}

func TestLoadWithPartialEnvironmentVariables(t *testing.T) {
	err := os.Setenv("DETECT_MAX_CANDIDATES", "10")
	require.NoError(t, err)
	defer os.Unsetenv("DETECT_MAX_CANDIDATES")

	err = os.Setenv("LOG_LEVEL", "warn")
	require.NoError(t, err)
	defer os.Unsetenv("LOG_LEVEL")

	cfg, err := Load()
	require.NoError(t, err)

	// Overridden values
	assert.Equal(t, 10, cfg.Detect.MaxCandidates)
	assert.Equal(t, "warn", cfg.Logging.Level)

	// Defaults still apply elsewhere
	assert.Equal(t, 2, cfg.Detect.MinRepeats)
	assert.Equal(t, 500*time.Millisecond, cfg.Pipeline.Timeout)
}
