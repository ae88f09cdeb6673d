package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/roach88/dbattr/internal/quality"
)

const (
	configFileName = "dbattr"
	configFileType = "yaml"
	envPrefix      = "DBATTR"

	cfgKeyDatabase   = "database"
	cfgKeyQualities  = "qualities"
	cfgKeyLogLevel   = "log_level"
	cfgKeyExpireDays = "expire_days"

	defaultDatabase   = "dbattr.db"
	defaultLogLevel   = "info"
	defaultExpireDays = 7
)

// Config holds the settings shared by all commands.
type Config struct {
	// Database is the SQLite file path.
	Database string `mapstructure:"database"`

	// Qualities is a CUE registry file. Empty selects the built-in catalog.
	Qualities string `mapstructure:"qualities"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `mapstructure:"log_level"`

	// ExpireDays is how long series metadata stays fresh.
	ExpireDays int `mapstructure:"expire_days"`
}

// Load reads configuration from path, the environment and defaults, in
// decreasing precedence: DBATTR_* variables, then the file, then defaults.
//
// When path is empty, dbattr.yaml is looked up in the working directory.
// A missing config file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault(cfgKeyDatabase, defaultDatabase)
	v.SetDefault(cfgKeyQualities, "")
	v.SetDefault(cfgKeyLogLevel, defaultLogLevel)
	v.SetDefault(cfgKeyExpireDays, defaultExpireDays)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := readConfigFile(v, path); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func readConfigFile(v *viper.Viper, path string) error {
	if path == "" {
		v.SetConfigName(configFileName)
		v.SetConfigType(configFileType)
		v.AddConfigPath(".")
	} else {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			slog.Debug("config file not found, using defaults", "path", path)
			return nil
		}
		v.SetConfigFile(path)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}

	slog.Debug("loaded config", "path", v.ConfigFileUsed())
	return nil
}

// Validate checks field values that viper cannot type-check.
func (c *Config) Validate() error {
	if c.Database == "" {
		return fmt.Errorf("config: %s must not be empty", cfgKeyDatabase)
	}
	if c.ExpireDays <= 0 {
		return fmt.Errorf("config: %s must be positive, got %d", cfgKeyExpireDays, c.ExpireDays)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel parses LogLevel.
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("config: %s: %w", cfgKeyLogLevel, err)
	}
	return level, nil
}

// ExpireInterval is ExpireDays as a duration.
func (c *Config) ExpireInterval() time.Duration {
	return time.Duration(c.ExpireDays) * 24 * time.Hour
}

// Registry loads the configured quality registry.
func (c *Config) Registry() (*quality.Set, error) {
	if c.Qualities == "" {
		return quality.Default(), nil
	}
	return quality.LoadFile(c.Qualities)
}
