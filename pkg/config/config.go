// Package config loads CLI/client configuration from YAML with ${ENV}
// expansion and optional .env files. The client library itself is
// configured programmatically; this package serves the CLI and other
// embedding applications.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration.
type Config struct {
	// Endpoint is the agent's JSON-RPC endpoint URL.
	Endpoint string `yaml:"endpoint"`

	// Timeout bounds single-response calls. Zero means the client default.
	Timeout Duration `yaml:"timeout,omitempty"`

	Auth AuthConfig `yaml:"auth,omitempty"`
	Log  LogConfig  `yaml:"log,omitempty"`
}

// AuthConfig selects and parameterizes a credential capability.
type AuthConfig struct {
	// Scheme: "", "bearer", "apiKey", or "challenge".
	Scheme string `yaml:"scheme,omitempty"`

	// Bearer token (scheme: bearer).
	Token string `yaml:"token,omitempty"`

	// API key and optional header name (scheme: apiKey).
	APIKey string `yaml:"api_key,omitempty"`
	Header string `yaml:"header,omitempty"`

	// Challenge signing (scheme: challenge): issuer identity, PEM or JWK
	// key file, and signing algorithm (e.g. ES256, EdDSA).
	Issuer    string `yaml:"issuer,omitempty"`
	KeyFile   string `yaml:"key_file,omitempty"`
	Algorithm string `yaml:"algorithm,omitempty"`
}

// LogConfig configures the slog setup.
type LogConfig struct {
	Level  string `yaml:"level,omitempty"`  // debug, info, warn, error
	Format string `yaml:"format,omitempty"` // text, json
}

// Load reads and validates a YAML config file. Environment variables in
// the form ${VAR} or ${VAR:-default} are expanded in all string values,
// after .env files next to the config have been applied.
func Load(path string) (*Config, error) {
	LoadDotEnvForConfig(path)

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	expanded := expandEnvVars(string(raw))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks cross-field consistency.
func (c *Config) Validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("config: endpoint is required")
	}

	switch c.Auth.Scheme {
	case "", "bearer", "apiKey":
	case "challenge":
		if c.Auth.KeyFile == "" {
			return fmt.Errorf("config: auth.key_file is required for challenge auth")
		}
		if c.Auth.Issuer == "" {
			return fmt.Errorf("config: auth.issuer is required for challenge auth")
		}
	default:
		return fmt.Errorf("config: unknown auth scheme %q", c.Auth.Scheme)
	}

	return nil
}
