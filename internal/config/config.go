// Package config loads the process configuration for the HttpFS client.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	connhttp "github.com/nucleus/httpfs/internal/connector/http"
	"github.com/nucleus/httpfs/internal/connector/httpfs"
)

// Config represents the complete client configuration.
//
// Configuration sources (in order of precedence):
//  1. Environment variables (HTTPFS_*)
//  2. Configuration file (YAML or TOML)
//  3. Default values
//
// The value returned by Load is treated as read-only for the rest of the
// process lifetime.
type Config struct {
	// Gateway identifies the HttpFS endpoint
	Gateway GatewayConfig `mapstructure:"gateway" yaml:"gateway"`

	// HTTP tunes the outbound transport
	HTTP HTTPConfig `mapstructure:"http" yaml:"http"`

	// Logging controls log output behavior
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`

	// Metrics toggles Prometheus collection
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics"`

	// Transfer configures the object store used by import/export
	Transfer TransferConfig `mapstructure:"transfer" yaml:"transfer"`
}

// GatewayConfig holds the HttpFS connection settings.
type GatewayConfig struct {
	// RootURL is prepended verbatim to every HDFS path
	// (e.g. http://namenode:14000/webhdfs/v1)
	RootURL string `mapstructure:"root_url" yaml:"root_url" validate:"required,url"`

	// Username is sent as user.name when set
	Username string `mapstructure:"username" yaml:"username"`

	// Debug traces create-file requests and redirects
	Debug bool `mapstructure:"debug" yaml:"debug"`

	// MaxRedirects bounds the redirect chain of a file write
	MaxRedirects int `mapstructure:"max_redirects" yaml:"max_redirects" validate:"gte=0"`
}

// HTTPConfig tunes the outbound HTTP client.
type HTTPConfig struct {
	// Timeout applies to each HTTP exchange, not to a whole redirect chain
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout" validate:"gt=0"`

	// RateLimit is requests per second; 0 disables limiting
	RateLimit float64 `mapstructure:"rate_limit" yaml:"rate_limit" validate:"gte=0"`

	// RateBurst is the limiter burst size
	RateBurst int `mapstructure:"rate_burst" yaml:"rate_burst" validate:"gte=1"`

	// UserAgent is sent with every request
	UserAgent string `mapstructure:"user_agent" yaml:"user_agent"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	// Level is the minimum log level to output
	// Valid values: DEBUG, INFO, WARN, ERROR (case-insensitive, normalized to uppercase)
	Level string `mapstructure:"level" yaml:"level" validate:"required,oneof=DEBUG INFO WARN ERROR"`
}

// MetricsConfig toggles metrics collection.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
}

// TransferConfig configures the object store side of import/export.
type TransferConfig struct {
	// MinIO holds the object store connection, decoded by the minio connector
	MinIO map[string]any `mapstructure:"minio" yaml:"minio"`
}

// Load loads configuration from file, environment, and defaults.
//
// An empty configPath searches $XDG_CONFIG_HOME/httpfs (or ~/.config/httpfs)
// for config.yaml, and a missing file there is not an error. An explicit
// configPath must exist.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setupViper(v, configPath)
	setDefaults(v)

	if err := readConfigFile(v, configPath != ""); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	normalize(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// GatewayConfig converts the gateway section for httpfs.New.
func (c *Config) GatewayConfig() httpfs.Config {
	return httpfs.Config{
		RootURL:      c.Gateway.RootURL,
		Username:     c.Gateway.Username,
		Debug:        c.Gateway.Debug,
		MaxRedirects: c.Gateway.MaxRedirects,
	}
}

// ClientConfig converts the http section for connhttp.NewClient.
func (c *Config) ClientConfig() *connhttp.ClientConfig {
	return &connhttp.ClientConfig{
		Timeout:   c.HTTP.Timeout,
		RateLimit: c.HTTP.RateLimit,
		RateBurst: c.HTTP.RateBurst,
		UserAgent: c.HTTP.UserAgent,
	}
}

// setupViper configures env variable support and the config file search.
func setupViper(v *viper.Viper, configPath string) {
	// Example: HTTPFS_GATEWAY_ROOT_URL=http://namenode:14000/webhdfs/v1
	v.SetEnvPrefix("HTTPFS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		return
	}

	v.AddConfigPath(getConfigDir())
	v.SetConfigName("config")
	v.SetConfigType("yaml")
}

// readConfigFile reads the configuration file. A file missing from the
// search path is skipped; an explicit path that is missing is an error.
func readConfigFile(v *viper.Viper, explicit bool) error {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !explicit && (errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}

// normalize canonicalises values after unmarshalling.
func normalize(cfg *Config) {
	cfg.Logging.Level = strings.ToUpper(strings.TrimSpace(cfg.Logging.Level))
	cfg.Gateway.RootURL = strings.TrimSpace(cfg.Gateway.RootURL)

	// gateway.debug implies verbose logging everywhere.
	if cfg.Gateway.Debug {
		cfg.Logging.Level = "DEBUG"
	}
	if cfg.Transfer.MinIO == nil {
		cfg.Transfer.MinIO = make(map[string]any)
	}
}

// getConfigDir returns the configuration directory path.
func getConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "httpfs")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "httpfs")
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() string {
	return filepath.Join(getConfigDir(), "config.yaml")
}
