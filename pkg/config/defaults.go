package config

import (
	"veritas-ml/aequitas/pkg/bias"
	"veritas-ml/aequitas/pkg/telemetry/metrics"
)

// DefaultConfig returns a configuration with every field at its
// default.
func DefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills zero-valued fields with defaults. Explicitly set
// values are left untouched.
func ApplyDefaults(cfg *Config) {
	if cfg.Bias.RepresentationDisparityThreshold == 0 {
		cfg.Bias.RepresentationDisparityThreshold = bias.DefaultConfig().RepresentationDisparityThreshold
	}
	applyFairnessDefaults(cfg)

	if cfg.Accountability.Backend == "" {
		cfg.Accountability.Backend = BackendMemory
	}

	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = metrics.DefaultConfig().Namespace
	}
	if cfg.Metrics.Subsystem == "" {
		cfg.Metrics.Subsystem = metrics.DefaultConfig().Subsystem
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
}

func applyFairnessDefaults(cfg *Config) {
	defaults := bias.DefaultConfig().Fairness
	f := &cfg.Bias.Fairness
	if f.ParityRatioLow == 0 {
		f.ParityRatioLow = defaults.ParityRatioLow
	}
	if f.ParityRatioHigh == 0 {
		f.ParityRatioHigh = defaults.ParityRatioHigh
	}
	if f.OddsMaxDiff == 0 {
		f.OddsMaxDiff = defaults.OddsMaxDiff
	}
	if f.MinGroupSampleSize == 0 {
		f.MinGroupSampleSize = defaults.MinGroupSampleSize
	}
	if f.CalibrationBins == 0 {
		f.CalibrationBins = defaults.CalibrationBins
	}
}
