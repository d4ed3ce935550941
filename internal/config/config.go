// Package config holds the run Configuration built from the command line and
// the Settings loaded from the user's config file and environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	// AppName names the config and cache directories
	AppName = "migration-analysis"

	// EnvPrefix prefixes every environment override, e.g. MIGRATION_ANALYSIS_LOGGING_LEVEL
	EnvPrefix = "MIGRATION_ANALYSIS"

	// EnvConfigFile points at an explicit settings file
	EnvConfigFile = EnvPrefix + "_CONFIG"
)

// Settings represents the user-level configuration file structure
type Settings struct {
	Version int            `mapstructure:"version" yaml:"version"`
	Report  ReportSettings `mapstructure:"report" yaml:"report"`
	Scanner ScannerConfig  `mapstructure:"scanner" yaml:"scanner"`
	Logging LoggingConfig  `mapstructure:"logging" yaml:"logging"`
}

// ReportSettings holds report-related settings
type ReportSettings struct {
	DefaultOutputTypes []string `mapstructure:"default_output_types" yaml:"default_output_types"`
	ArchiveExtensions  []string `mapstructure:"archive_extensions" yaml:"archive_extensions"`
}

// ScannerConfig holds scanner-related settings
type ScannerConfig struct {
	IncludeHidden bool     `mapstructure:"include_hidden" yaml:"include_hidden"`
	IgnoreDirs    []string `mapstructure:"ignore_dirs" yaml:"ignore_dirs"`
}

// LoggingConfig holds logging-related settings
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	JSON   bool   `mapstructure:"json" yaml:"json"`
	ToFile bool   `mapstructure:"to_file" yaml:"to_file"`
}

// DefaultSettings returns the settings used when no file or override is present
func DefaultSettings() Settings {
	return Settings{
		Version: 1,
		Report: ReportSettings{
			DefaultOutputTypes: []string{"json"},
			ArchiveExtensions:  []string{".ear", ".war", ".jar", ".rar", ".sar"},
		},
		Scanner: ScannerConfig{
			IncludeHidden: false,
			IgnoreDirs:    []string{".git", "node_modules", "target"},
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// DefaultSettingsPath returns the platform-appropriate settings file location
func DefaultSettingsPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		// Fallback to home directory if config dir unavailable
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, AppName, "config.yml"), nil
}

// LoadSettings reads settings with precedence env > file > defaults.
// An empty path selects DefaultSettingsPath. A missing file is not an error.
func LoadSettings(path string) (*Settings, error) {
	v := viper.New()

	defaults := DefaultSettings()
	v.SetDefault("version", defaults.Version)
	v.SetDefault("report.default_output_types", defaults.Report.DefaultOutputTypes)
	v.SetDefault("report.archive_extensions", defaults.Report.ArchiveExtensions)
	v.SetDefault("scanner.include_hidden", defaults.Scanner.IncludeHidden)
	v.SetDefault("scanner.ignore_dirs", defaults.Scanner.IgnoreDirs)
	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("logging.json", defaults.Logging.JSON)
	v.SetDefault("logging.to_file", defaults.Logging.ToFile)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		defaultPath, err := DefaultSettingsPath()
		if err != nil {
			return nil, fmt.Errorf("failed to determine settings path: %w", err)
		}
		path = defaultPath
	}

	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read settings file %s: %w", path, err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to decode settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks settings that would otherwise fail late in a run
func (s *Settings) Validate() error {
	if len(s.Report.ArchiveExtensions) == 0 {
		return &FieldError{Field: "report.archive_extensions", Message: "at least one extension is required"}
	}
	switch strings.ToLower(s.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return &FieldError{Field: "logging.level", Message: fmt.Sprintf("unknown level %q", s.Logging.Level)}
	}
	return nil
}
