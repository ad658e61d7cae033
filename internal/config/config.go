package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config holds all configuration options for the reconciliation engine
type Config struct {
	Database    DatabaseConfig
	Detection   DetectionConfig
	Display     DisplayConfig
	Application ApplicationConfig
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Dir            string        `env:"TTR_DB_DIR"`
	Filename       string        `env:"TTR_DB_FILENAME"`
	QueryTimeout   time.Duration `env:"TTR_DB_QUERY_TIMEOUT"`
	WriteTimeout   time.Duration `env:"TTR_DB_WRITE_TIMEOUT"`
	DirPermissions uint32        `env:"TTR_DB_DIR_PERMISSIONS"`
}

// DetectionConfig holds the reconciliation thresholds. The ratio cutoffs are
// heuristics, deliberately configurable rather than hardcoded.
type DetectionConfig struct {
	// MinGapDuration is the smallest untracked span reported as a gap.
	MinGapDuration time.Duration `env:"TTR_DETECT_MIN_GAP"`

	// DuplicateOverlapRatio is the overlap ratio at or above which two
	// same-source intervals with similar labels count as duplicates.
	DuplicateOverlapRatio float64 `env:"TTR_DETECT_DUPLICATE_RATIO"`

	// HighSeverityRatio and MediumSeverityRatio grade conflicts.
	HighSeverityRatio   float64 `env:"TTR_DETECT_HIGH_SEVERITY_RATIO"`
	MediumSeverityRatio float64 `env:"TTR_DETECT_MEDIUM_SEVERITY_RATIO"`

	// LabelSimilarityThreshold is the minimum label similarity score for
	// duplicate classification (1.0 exact match, 0.8 containment).
	LabelSimilarityThreshold float64 `env:"TTR_DETECT_LABEL_SIMILARITY"`

	// RepairSessionLength is the end time written when repairing a
	// completed session that lost its end timestamp.
	RepairSessionLength time.Duration `env:"TTR_DETECT_REPAIR_SESSION_LENGTH"`
}

// DisplayConfig holds display formatting configuration
type DisplayConfig struct {
	TimeFormat string `env:"TTR_TIME_DISPLAY_FORMAT"`
	DateOnly   bool   `env:"TTR_DISPLAY_DATE_ONLY"`
}

// ApplicationConfig holds application-level configuration
type ApplicationConfig struct {
	Timeout time.Duration `env:"TTR_APP_TIMEOUT"`
	Verbose bool          `env:"TTR_APP_VERBOSE"`
}

// NewConfig creates a new configuration with sensible defaults
func NewConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	defaultDBDir := filepath.Join(homeDir, ".ttr")

	return &Config{
		Database: DatabaseConfig{
			Dir:            defaultDBDir,
			Filename:       "ttr.db",
			QueryTimeout:   10 * time.Second,
			WriteTimeout:   5 * time.Second,
			DirPermissions: 0755,
		},
		Detection: DetectionConfig{
			MinGapDuration:           15 * time.Minute,
			DuplicateOverlapRatio:    0.95,
			HighSeverityRatio:        0.75,
			MediumSeverityRatio:      0.25,
			LabelSimilarityThreshold: 0.8,
			RepairSessionLength:      25 * time.Minute,
		},
		Display: DisplayConfig{
			TimeFormat: "2006-01-02 15:04:05",
			DateOnly:   false,
		},
		Application: ApplicationConfig{
			Timeout: 60 * time.Second,
			Verbose: false,
		},
	}
}

// GetDatabasePath returns the full path to the database file
func (c *Config) GetDatabasePath() string {
	return filepath.Join(c.Database.Dir, c.Database.Filename)
}

// LoadFromEnvironment loads configuration from environment variables
func (c *Config) LoadFromEnvironment() error {
	// Database configuration
	if dir := os.Getenv("TTR_DB_DIR"); dir != "" {
		c.Database.Dir = dir
	}
	if filename := os.Getenv("TTR_DB_FILENAME"); filename != "" {
		c.Database.Filename = filename
	}
	if timeout := os.Getenv("TTR_DB_QUERY_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			c.Database.QueryTimeout = d
		}
	}
	if timeout := os.Getenv("TTR_DB_WRITE_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			c.Database.WriteTimeout = d
		}
	}
	if perms := os.Getenv("TTR_DB_DIR_PERMISSIONS"); perms != "" {
		if p, err := strconv.ParseUint(perms, 8, 32); err == nil {
			c.Database.DirPermissions = uint32(p)
		}
	}

	// Detection configuration
	if minGap := os.Getenv("TTR_DETECT_MIN_GAP"); minGap != "" {
		if d, err := time.ParseDuration(minGap); err == nil {
			c.Detection.MinGapDuration = d
		}
	}
	if ratio := os.Getenv("TTR_DETECT_DUPLICATE_RATIO"); ratio != "" {
		if f, err := strconv.ParseFloat(ratio, 64); err == nil {
			c.Detection.DuplicateOverlapRatio = f
		}
	}
	if ratio := os.Getenv("TTR_DETECT_HIGH_SEVERITY_RATIO"); ratio != "" {
		if f, err := strconv.ParseFloat(ratio, 64); err == nil {
			c.Detection.HighSeverityRatio = f
		}
	}
	if ratio := os.Getenv("TTR_DETECT_MEDIUM_SEVERITY_RATIO"); ratio != "" {
		if f, err := strconv.ParseFloat(ratio, 64); err == nil {
			c.Detection.MediumSeverityRatio = f
		}
	}
	if threshold := os.Getenv("TTR_DETECT_LABEL_SIMILARITY"); threshold != "" {
		if f, err := strconv.ParseFloat(threshold, 64); err == nil {
			c.Detection.LabelSimilarityThreshold = f
		}
	}
	if length := os.Getenv("TTR_DETECT_REPAIR_SESSION_LENGTH"); length != "" {
		if d, err := time.ParseDuration(length); err == nil {
			c.Detection.RepairSessionLength = d
		}
	}

	// Display configuration
	if format := os.Getenv("TTR_TIME_DISPLAY_FORMAT"); format != "" {
		c.Display.TimeFormat = format
	}
	if dateOnly := os.Getenv("TTR_DISPLAY_DATE_ONLY"); dateOnly != "" {
		if b, err := strconv.ParseBool(dateOnly); err == nil {
			c.Display.DateOnly = b
		}
	}

	// Application configuration
	if timeout := os.Getenv("TTR_APP_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			c.Application.Timeout = d
		}
	}
	if verbose := os.Getenv("TTR_APP_VERBOSE"); verbose != "" {
		if b, err := strconv.ParseBool(verbose); err == nil {
			c.Application.Verbose = b
		}
	}

	return nil
}

// Validate validates the configuration and returns any errors
func (c *Config) Validate() error {
	if c.Database.Dir == "" {
		return &ConfigError{Field: "database.dir", Message: "database directory cannot be empty"}
	}
	if c.Database.Filename == "" {
		return &ConfigError{Field: "database.filename", Message: "database filename cannot be empty"}
	}
	if c.Database.QueryTimeout <= 0 {
		return &ConfigError{Field: "database.query_timeout", Message: "query timeout must be positive"}
	}
	if c.Database.WriteTimeout <= 0 {
		return &ConfigError{Field: "database.write_timeout", Message: "write timeout must be positive"}
	}

	if c.Detection.MinGapDuration <= 0 {
		return &ConfigError{Field: "detection.min_gap_duration", Message: "minimum gap duration must be positive"}
	}
	if c.Detection.DuplicateOverlapRatio <= 0 || c.Detection.DuplicateOverlapRatio > 1 {
		return &ConfigError{Field: "detection.duplicate_overlap_ratio", Message: "duplicate overlap ratio must be in (0, 1]"}
	}
	if c.Detection.HighSeverityRatio <= 0 || c.Detection.HighSeverityRatio > 1 {
		return &ConfigError{Field: "detection.high_severity_ratio", Message: "high severity ratio must be in (0, 1]"}
	}
	if c.Detection.MediumSeverityRatio <= 0 || c.Detection.MediumSeverityRatio >= c.Detection.HighSeverityRatio {
		return &ConfigError{Field: "detection.medium_severity_ratio", Message: "medium severity ratio must be positive and below the high ratio"}
	}
	if c.Detection.LabelSimilarityThreshold <= 0 || c.Detection.LabelSimilarityThreshold > 1 {
		return &ConfigError{Field: "detection.label_similarity_threshold", Message: "label similarity threshold must be in (0, 1]"}
	}
	if c.Detection.RepairSessionLength <= 0 {
		return &ConfigError{Field: "detection.repair_session_length", Message: "repair session length must be positive"}
	}

	if c.Display.TimeFormat == "" {
		return &ConfigError{Field: "display.time_format", Message: "time format cannot be empty"}
	}

	if c.Application.Timeout <= 0 {
		return &ConfigError{Field: "application.timeout", Message: "application timeout must be positive"}
	}

	return nil
}

// ConfigError represents a configuration validation error
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error in %s: %s", e.Field, e.Message)
}
