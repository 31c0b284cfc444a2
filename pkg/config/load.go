package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified
// path. It applies default values and validates the result. The
// configuration is not modified by environment variables; use
// LoadConfigWithEnvOverrides for that.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and
// applies environment variable overrides. Environment variables follow
// the naming convention AEQUITAS_SECTION_FIELD
// (e.g., AEQUITAS_FAIRNESS_PARITY_RATIO_LOW) and always take precedence
// over file-based configuration.
//
// The loading sequence is:
// 1. Load YAML from file
// 2. Apply default values
// 3. Apply environment variable overrides
// 4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the
// configuration.
func applyEnvOverrides(cfg *Config) {
	// Fairness thresholds
	if val := os.Getenv("AEQUITAS_FAIRNESS_PARITY_RATIO_LOW"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Bias.Fairness.ParityRatioLow = f
		}
	}
	if val := os.Getenv("AEQUITAS_FAIRNESS_PARITY_RATIO_HIGH"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Bias.Fairness.ParityRatioHigh = f
		}
	}
	if val := os.Getenv("AEQUITAS_FAIRNESS_ODDS_MAX_DIFF"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Bias.Fairness.OddsMaxDiff = f
		}
	}
	if val := os.Getenv("AEQUITAS_FAIRNESS_MIN_GROUP_SAMPLE_SIZE"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Bias.Fairness.MinGroupSampleSize = i
		}
	}
	if val := os.Getenv("AEQUITAS_FAIRNESS_CALIBRATION_BINS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Bias.Fairness.CalibrationBins = i
		}
	}
	if val := os.Getenv("AEQUITAS_FAIRNESS_PRIVILEGED_GROUP"); val != "" {
		cfg.Bias.Fairness.PrivilegedGroup = val
	}

	// Detector overrides
	if val := os.Getenv("AEQUITAS_BIAS_REPRESENTATION_DISPARITY_THRESHOLD"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Bias.RepresentationDisparityThreshold = f
		}
	}
	if val := os.Getenv("AEQUITAS_BIAS_BATCH_PREDICTION"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Bias.BatchPrediction = b
		}
	}

	// Accountability overrides
	if val := os.Getenv("AEQUITAS_ACCOUNTABILITY_BACKEND"); val != "" {
		cfg.Accountability.Backend = val
	}
	if val := os.Getenv("AEQUITAS_ACCOUNTABILITY_SQLITE_PATH"); val != "" {
		cfg.Accountability.SQLitePath = val
	}
	if val := os.Getenv("AEQUITAS_ACCOUNTABILITY_ARCHIVE_PATH"); val != "" {
		cfg.Accountability.ArchivePath = val
	}
	if val := os.Getenv("AEQUITAS_ACCOUNTABILITY_PROTECTED_ATTRIBUTE_KEYS"); val != "" {
		keys := strings.Split(val, ",")
		for i := range keys {
			keys[i] = strings.TrimSpace(keys[i])
		}
		cfg.Accountability.ProtectedAttributeKeys = keys
	}

	// Metrics overrides
	if val := os.Getenv("AEQUITAS_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Metrics.Enabled = b
		}
	}
	if val := os.Getenv("AEQUITAS_METRICS_NAMESPACE"); val != "" {
		cfg.Metrics.Namespace = val
	}
	if val := os.Getenv("AEQUITAS_METRICS_SUBSYSTEM"); val != "" {
		cfg.Metrics.Subsystem = val
	}

	// Logging overrides
	if val := os.Getenv("AEQUITAS_LOGGING_LEVEL"); val != "" {
		cfg.Logging.Level = val
	}
	if val := os.Getenv("AEQUITAS_LOGGING_FORMAT"); val != "" {
		cfg.Logging.Format = val
	}
}
