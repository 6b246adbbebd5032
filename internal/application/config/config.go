package config

import (
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"
)

const (
	// defaultEngineHost is the engine endpoint used when none is configured.
	defaultEngineHost = "unix:///var/run/docker.sock"
	// defaultRequestTimeout bounds every engine round trip.
	defaultRequestTimeout = 30 * time.Second
	// defaultEndpointRetries is how often endpoint resolution is retried
	// while the engine has not yet published a host port.
	defaultEndpointRetries = 5
	// defaultEndpointRetryDelay is the base delay between endpoint
	// resolution attempts; it grows exponentially up to its cap.
	defaultEndpointRetryDelay = 200 * time.Millisecond
)

// Config holds the agent configuration loaded from a YAML file.
type Config struct {
	// EngineHost is the container engine endpoint URI, e.g.
	// "tcp://docker.example.com:2376" or "unix:///var/run/docker.sock".
	EngineHost string `yaml:"engine_host"`
	// TLSVerify enables TLS verification when talking to the engine.
	TLSVerify bool `yaml:"tls_verify"`
	// CertPath is the directory holding ca.pem, cert.pem and key.pem for
	// TLS connections. Handed to the engine client as-is.
	CertPath string `yaml:"cert_path,omitempty"`
	// APIVersion pins the engine API version; empty negotiates.
	APIVersion string `yaml:"api_version,omitempty"`

	// Registry credentials, handed opaquely to the engine client for
	// image pulls from private registries.
	RegistryURL      string `yaml:"registry_url,omitempty"`
	RegistryUser     string `yaml:"registry_user,omitempty"`
	RegistryPassword string `yaml:"registry_password,omitempty"`
	RegistryEmail    string `yaml:"registry_email,omitempty"`

	// PublishAllPorts publishes every exposed port of a container instead
	// of only the declared one. Security-relevant deviation; off by
	// default and logged as a warning when enabled.
	PublishAllPorts bool `yaml:"publish_all_ports,omitempty"`

	// RequestTimeout bounds each engine round trip.
	RequestTimeout time.Duration `yaml:"request_timeout,omitempty"`
	// EndpointRetries bounds endpoint resolution attempts.
	EndpointRetries int `yaml:"endpoint_retries,omitempty"`
	// EndpointRetryDelay is the base backoff delay between attempts.
	EndpointRetryDelay time.Duration `yaml:"endpoint_retry_delay,omitempty"`

	// LogLevel specifies the minimum log level (debug, info, warn, error).
	LogLevel string `yaml:"log_level,omitempty"`
}

// prepareConfig ensures the configuration is valid by applying defaults.
func prepareConfig(cfg *Config) {
	if cfg.EngineHost == "" {
		cfg.EngineHost = defaultEngineHost
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultRequestTimeout
	}
	if cfg.EndpointRetries <= 0 {
		cfg.EndpointRetries = defaultEndpointRetries
	}
	if cfg.EndpointRetryDelay <= 0 {
		cfg.EndpointRetryDelay = defaultEndpointRetryDelay
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
}

// LoadConfig reads the configuration from the given path. A missing file is
// not an error: the defaults describe a local engine socket.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// Fall through to defaults.
	case err != nil:
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	prepareConfig(cfg)
	return cfg, nil
}
