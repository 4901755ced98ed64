package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	connhttp "github.com/nucleus/httpfs/internal/connector/http"
	"github.com/nucleus/httpfs/internal/connector/httpfs"
)

// ErrConfigExists is returned by WriteDefault when the target file exists
// and force is not set.
var ErrConfigExists = errors.New("config file already exists")

const defaultRootURL = "http://localhost:14000/webhdfs/v1"

// setDefaults registers default values with viper.
//
// Defaults are registered rather than applied after unmarshalling so that an
// explicit zero (for example max_redirects: 0) is preserved.
func setDefaults(v *viper.Viper) {
	v.SetDefault("gateway.root_url", "")
	v.SetDefault("gateway.username", "")
	v.SetDefault("gateway.debug", false)
	v.SetDefault("gateway.max_redirects", httpfs.DefaultMaxRedirects)

	v.SetDefault("http.timeout", connhttp.DefaultTimeout)
	v.SetDefault("http.rate_limit", connhttp.DefaultRateLimit)
	v.SetDefault("http.rate_burst", connhttp.DefaultRateBurst)
	v.SetDefault("http.user_agent", connhttp.DefaultUserAgent)

	v.SetDefault("logging.level", "INFO")
	v.SetDefault("metrics.enabled", false)
}

// GetDefaultConfig returns a Config with all default values applied and a
// placeholder gateway URL.
func GetDefaultConfig() *Config {
	return &Config{
		Gateway: GatewayConfig{
			RootURL:      defaultRootURL,
			MaxRedirects: httpfs.DefaultMaxRedirects,
		},
		HTTP: HTTPConfig{
			Timeout:   connhttp.DefaultTimeout,
			RateLimit: connhttp.DefaultRateLimit,
			RateBurst: connhttp.DefaultRateBurst,
			UserAgent: connhttp.DefaultUserAgent,
		},
		Logging: LoggingConfig{Level: "INFO"},
		Transfer: TransferConfig{
			MinIO: map[string]any{
				"endpoint_url":      "http://localhost:9000",
				"region":            "us-east-1",
				"access_key_id":     "",
				"secret_access_key": "",
			},
		},
	}
}

// WriteDefault renders the default configuration as YAML to path, creating
// parent directories as needed. An empty path uses GetDefaultConfigPath.
func WriteDefault(path string, force bool) (string, error) {
	if path == "" {
		path = GetDefaultConfigPath()
	}

	if !force {
		if _, err := os.Stat(path); err == nil {
			return path, fmt.Errorf("%w: %s", ErrConfigExists, path)
		}
	}

	data, err := yaml.Marshal(GetDefaultConfig())
	if err != nil {
		return path, fmt.Errorf("failed to render config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return path, fmt.Errorf("failed to create config directory: %w", err)
	}

	content := append([]byte(configHeader), data...)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		return path, fmt.Errorf("failed to write config file: %w", err)
	}
	return path, nil
}

const configHeader = `# HttpFS client configuration
#
# Every key can be overridden with an HTTPFS_ environment variable,
# e.g. HTTPFS_GATEWAY_ROOT_URL or HTTPFS_HTTP_TIMEOUT.

`
