package config

import (
	"time"
)

// Loader handles loading configuration from multiple sources
type Loader struct {
	config *Config
}

// NewLoader creates a new configuration loader
func NewLoader() *Loader {
	return &Loader{
		config: NewConfig(),
	}
}

// Load loads configuration using the cascading strategy:
// 1. Start with defaults
// 2. Override with environment variables
// 3. Override with command line flags (handled by cobra)
func (l *Loader) Load() (*Config, error) {
	if err := l.config.LoadFromEnvironment(); err != nil {
		return nil, err
	}

	if err := l.config.Validate(); err != nil {
		return nil, err
	}

	return l.config, nil
}

// LoadWithOverrides loads configuration and applies command line overrides
func (l *Loader) LoadWithOverrides(overrides *ConfigOverrides) (*Config, error) {
	config, err := l.Load()
	if err != nil {
		return nil, err
	}

	if overrides != nil {
		l.applyOverrides(config, overrides)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// ConfigOverrides holds command line flag overrides
type ConfigOverrides struct {
	// Database overrides
	DBDir      *string
	DBFilename *string

	// Detection overrides
	MinGapDuration           *time.Duration
	DuplicateOverlapRatio    *float64
	HighSeverityRatio        *float64
	MediumSeverityRatio      *float64
	LabelSimilarityThreshold *float64
	RepairSessionLength      *time.Duration

	// Display overrides
	TimeFormat *string
	DateOnly   *bool

	// Application overrides
	Timeout *time.Duration
	Verbose *bool
}

// applyOverrides applies command line overrides to the configuration
func (l *Loader) applyOverrides(config *Config, overrides *ConfigOverrides) {
	if overrides.DBDir != nil {
		config.Database.Dir = *overrides.DBDir
	}
	if overrides.DBFilename != nil {
		config.Database.Filename = *overrides.DBFilename
	}

	if overrides.MinGapDuration != nil {
		config.Detection.MinGapDuration = *overrides.MinGapDuration
	}
	if overrides.DuplicateOverlapRatio != nil {
		config.Detection.DuplicateOverlapRatio = *overrides.DuplicateOverlapRatio
	}
	if overrides.HighSeverityRatio != nil {
		config.Detection.HighSeverityRatio = *overrides.HighSeverityRatio
	}
	if overrides.MediumSeverityRatio != nil {
		config.Detection.MediumSeverityRatio = *overrides.MediumSeverityRatio
	}
	if overrides.LabelSimilarityThreshold != nil {
		config.Detection.LabelSimilarityThreshold = *overrides.LabelSimilarityThreshold
	}
	if overrides.RepairSessionLength != nil {
		config.Detection.RepairSessionLength = *overrides.RepairSessionLength
	}

	if overrides.TimeFormat != nil {
		config.Display.TimeFormat = *overrides.TimeFormat
	}
	if overrides.DateOnly != nil {
		config.Display.DateOnly = *overrides.DateOnly
	}

	if overrides.Timeout != nil {
		config.Application.Timeout = *overrides.Timeout
	}
	if overrides.Verbose != nil {
		config.Application.Verbose = *overrides.Verbose
	}
}
