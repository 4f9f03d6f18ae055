// Package config provides 12-factor configuration for the engine.
//
// Configuration is loaded from environment variables with sensible
// defaults; CLI flags can override individual values.
//
// Configuration Sections:
//   - Detect: pattern-detection thresholds
//   - Pipeline: custom-processor worker count and timeout
//   - Logging: log level and output format
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	cands := detect.Detect(doc.Root(), detect.Options{
//		MinRepeats:    cfg.Detect.MinRepeats,
//		MinComplexity: cfg.Detect.MinComplexity,
//		MaxCandidates: cfg.Detect.MaxCandidates,
//	})
//
// Environment Variables:
//   - DETECT_MIN_REPEATS, DETECT_MIN_COMPLEXITY, DETECT_MAX_CANDIDATES
//   - PIPELINE_WORKERS, PIPELINE_TIMEOUT
//   - LOG_LEVEL, LOG_DEV
package config
