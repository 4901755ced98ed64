// Package metrics provides Prometheus metrics collection for the gateway
// client.
//
// All metrics are optional - if the registry is not initialized,
// constructors return nil and consumers fall back to their no-op
// implementations.
//
// Usage:
//
//	metrics.InitRegistry()
//	client, err := httpfs.New(cfg, httpfs.WithMetrics(metrics.NewHTTPFSMetrics()))
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// registry is the global Prometheus registry, written once by InitRegistry
	registry     *prometheus.Registry
	registryOnce sync.Once
)

// InitRegistry initializes the global Prometheus registry. Subsequent calls
// are ignored.
func InitRegistry() {
	registryOnce.Do(func() {
		registry = prometheus.NewRegistry()
	})
}

// GetRegistry returns the global Prometheus registry, or nil when metrics
// are disabled.
func GetRegistry() *prometheus.Registry {
	return registry
}

// IsEnabled returns true if InitRegistry has been called.
func IsEnabled() bool {
	return GetRegistry() != nil
}
