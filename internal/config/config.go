package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all engine configuration.
type Config struct {
	Detect   DetectConfig
	Pipeline PipelineConfig
	Logging  LogConfig
}

// DetectConfig holds pattern-detection thresholds.
type DetectConfig struct {
	MinRepeats    int `envconfig:"DETECT_MIN_REPEATS" default:"2"`
	MinComplexity int `envconfig:"DETECT_MIN_COMPLEXITY" default:"5"`
	MaxCandidates int `envconfig:"DETECT_MAX_CANDIDATES" default:"25"`
}

// PipelineConfig holds custom-processor execution limits.
type PipelineConfig struct {
	Workers int           `envconfig:"PIPELINE_WORKERS" default:"2"`
	Timeout time.Duration `envconfig:"PIPELINE_TIMEOUT" default:"500ms"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Detect: DetectConfig{
			MinRepeats:    2,
			MinComplexity: 5,
			MaxCandidates: 25,
		},
		Pipeline: PipelineConfig{
			Workers: 2,
			Timeout: 500 * time.Millisecond,
		},
		Logging: LogConfig{
			Level: "info",
		},
	}
}
