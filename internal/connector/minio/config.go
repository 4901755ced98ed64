// Package minio connects the transfer commands to a MinIO/S3 object store.
package minio

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/mitchellh/mapstructure"
)

const defaultRegion = "us-east-1"

// Config captures the transfer.minio configuration section.
type Config struct {
	EndpointURL     string `mapstructure:"endpoint_url"`
	Region          string `mapstructure:"region"`
	UseSSL          bool   `mapstructure:"use_ssl"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
}

// ParseConfig decodes a Config from the loose configuration map.
func ParseConfig(params map[string]any) (*Config, error) {
	var cfg Config
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}
	if err := decoder.Decode(params); err != nil {
		return nil, fmt.Errorf("failed to decode minio config: %w", err)
	}
	cfg.normalizeDefaults()
	return &cfg, nil
}

// Validate enforces required fields.
func (c *Config) Validate() error {
	if c.EndpointURL == "" {
		return wrapError(CodeEndpointUnreachable, false, fmt.Errorf("endpoint_url is required"))
	}

	u, err := url.Parse(c.EndpointURL)
	if err != nil {
		return wrapError(CodeEndpointUnreachable, false, err)
	}
	if u.Scheme == "file" {
		return nil
	}

	if c.AccessKeyID == "" || c.SecretAccessKey == "" {
		return wrapError(CodeAuthInvalid, false, fmt.Errorf("access_key_id and secret_access_key are required"))
	}
	return nil
}

func (c *Config) normalizeDefaults() {
	c.EndpointURL = strings.TrimSpace(c.EndpointURL)
	if c.Region == "" {
		c.Region = defaultRegion
	}
}

// localRoot returns the directory backing a file:// endpoint, or "".
func (c *Config) localRoot() string {
	if !strings.HasPrefix(c.EndpointURL, "file://") {
		return ""
	}
	u, err := url.Parse(c.EndpointURL)
	if err != nil {
		return ""
	}
	return u.Path
}

func sanitizePath(raw string) string {
	replacer := strings.NewReplacer(":", "_", "/", "_", "\\", "_")
	return replacer.Replace(raw)
}
