package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DirName is the per-workspace directory holding config, templates and data.
const DirName = ".relay"

// Default values for Config.
const (
	DefaultMinIntentLength = 20
	DefaultDriftWindow     = 500
	DefaultStallThreshold  = 3
	DefaultLogLevel        = "warn"
	DefaultFilePath        = "projects"
	DefaultSQLitePath      = "relay.db"
)

// DefaultDriftKeywords are feature categories commonly excluded by briefs.
var DefaultDriftKeywords = []string{"oauth", "role-based", "email", "sms", "mfa", "multi-factor"}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		Validation: Validation{
			MinIntentLength: DefaultMinIntentLength,
		},
		Drift: Drift{
			Enabled:         true,
			ScopeKeywords:   true,
			IntentCheck:     true,
			Window:          DefaultDriftWindow,
			MinIntentLength: DefaultMinIntentLength,
			Keywords:        append([]string(nil), DefaultDriftKeywords...),
		},
		Storage: Storage{
			Backend: BackendFile,
		},
		History: History{
			StallThreshold: DefaultStallThreshold,
		},
		Logging: Logging{
			Level: DefaultLogLevel,
		},
	}
}

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
}

// Dir returns the .relay directory under basePath.
func Dir(basePath string) string {
	return filepath.Join(basePath, DirName)
}

// LoadConfig reads and parses .relay/config.yaml from the given base path.
// If the file doesn't exist, returns default config.
// Applies defaults for any missing fields.
func LoadConfig(basePath string) (*Config, error) {
	configPath := filepath.Join(Dir(basePath), "config.yaml")

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := DefaultConfig()
			return &cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := ValidateConfig(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// ValidateConfig checks that all config values are valid.
func ValidateConfig(cfg *Config) error {
	if cfg.Validation.MinIntentLength <= 0 {
		return ValidationError{Field: "validation.min_intent_length", Message: "must be positive"}
	}
	if cfg.Drift.Window <= 0 {
		return ValidationError{Field: "drift.window", Message: "must be positive"}
	}
	if cfg.Drift.MinIntentLength <= 0 {
		return ValidationError{Field: "drift.min_intent_length", Message: "must be positive"}
	}
	for i, kw := range cfg.Drift.Keywords {
		if strings.TrimSpace(kw) == "" {
			return ValidationError{Field: fmt.Sprintf("drift.keywords[%d]", i), Message: "must not be empty"}
		}
	}
	switch cfg.Storage.Backend {
	case BackendFile, BackendSQLite:
	default:
		return ValidationError{Field: "storage.backend", Message: fmt.Sprintf("must be %q or %q", BackendFile, BackendSQLite)}
	}
	if cfg.History.StallThreshold <= 0 {
		return ValidationError{Field: "history.stall_threshold", Message: "must be positive"}
	}
	switch strings.ToLower(cfg.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return ValidationError{Field: "logging.level", Message: "must be one of debug, info, warn, error"}
	}
	return nil
}

// StoragePath returns the absolute storage location for cfg under basePath.
func StoragePath(basePath string, cfg *Config) string {
	p := cfg.Storage.Path
	if p == "" {
		p = DefaultFilePath
		if cfg.Storage.Backend == BackendSQLite {
			p = DefaultSQLitePath
		}
	}
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(Dir(basePath), p)
}

// IsValidationError checks if an error is a ValidationError.
func IsValidationError(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}
