package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds settings shared by the sentinel binaries.
type Config struct {
	// ListenAddress is the address the HTTP server binds to.
	ListenAddress string `yaml:"listen_addr"`
	// DatabaseURL is the connection string for the backing store.
	// The DATABASE_URL environment variable takes precedence.
	DatabaseURL string `yaml:"database_url"`
	// Timeout bounds individual HTTP requests and outbound calls.
	Timeout time.Duration `yaml:"timeout"`
	// DefaultRecordsLimit is used when a detail request omits records_limit.
	DefaultRecordsLimit int `yaml:"default_records_limit"`
	// MaxRecordsLimit caps records_limit to keep response sizes bounded.
	MaxRecordsLimit int `yaml:"max_records_limit"`
	// LogLevel is the minimum level for log output (debug, info, warn, error, fatal).
	LogLevel string `yaml:"log_level"`
}

const (
	// DefaultConfigFilename is the default filename for server settings.
	DefaultConfigFilename = "sentinel-settings.yaml"

	// DefaultListenAddress is used when no listen address is configured.
	DefaultListenAddress = ":8000"

	// DefaultTimeout is the default duration for network operations.
	DefaultTimeout = 5 * time.Second

	// DefaultRecordsLimit is the records_limit applied when a request omits it.
	DefaultRecordsLimit = 10

	// DefaultMaxRecordsLimit is the cap applied to requested records_limit values.
	DefaultMaxRecordsLimit = 100

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errDatabaseURLRequired is returned when no connection string is available
	// from either the settings file or the environment.
	errDatabaseURLRequired = errors.New("database URL must be provided")
)

// Load reads configuration from the provided path, applies environment
// overrides and validates essential fields. A missing settings file is not an
// error: the environment alone can carry a complete configuration.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	var cfg Config

	contents, err := os.ReadFile(filepath.Clean(path))
	switch {
	case err == nil:
		if err = yaml.Unmarshal(contents, &cfg); err != nil {
			return nil, fmt.Errorf("unmarshal settings: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
		// Fall through to environment and defaults.
	default:
		return nil, fmt.Errorf("read settings: %w", err)
	}

	applyEnv(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the configuration to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions: the file may carry a connection string with credentials.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the provided settings for required fields and fills defaults.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.DatabaseURL == "" {
		return errDatabaseURLRequired
	}

	if cfg.ListenAddress == "" {
		cfg.ListenAddress = DefaultListenAddress
	}

	if _, err := net.ResolveTCPAddr("tcp", cfg.ListenAddress); err != nil {
		return fmt.Errorf("invalid listen address: %w", err)
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	if cfg.DefaultRecordsLimit <= 0 {
		cfg.DefaultRecordsLimit = DefaultRecordsLimit
	}

	if cfg.MaxRecordsLimit <= 0 {
		cfg.MaxRecordsLimit = DefaultMaxRecordsLimit
	}

	if cfg.MaxRecordsLimit < cfg.DefaultRecordsLimit {
		return fmt.Errorf("max records limit %d is below the default %d",
			cfg.MaxRecordsLimit, cfg.DefaultRecordsLimit)
	}

	return nil
}

// applyEnv overlays environment variables on top of file settings.
func applyEnv(cfg *Config) {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}

	if v := os.Getenv("SENTINEL_LISTEN_ADDR"); v != "" {
		cfg.ListenAddress = v
	}

	if v := os.Getenv("SENTINEL_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}
