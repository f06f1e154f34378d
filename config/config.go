// Package config provides configuration loading and management for kudos.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete kudos configuration
type Config struct {
	API       APIConfig   `yaml:"api"`
	Retry     RetryConfig `yaml:"retry"`
	Fallbacks []string    `yaml:"fallbacks,omitempty"`
}

// APIConfig configures the completion API settings
type APIConfig struct {
	// Key is the API key. Usually supplied via the OPENAI_API_KEY
	// environment variable rather than the config file.
	Key string `yaml:"key,omitempty"`
	// Org is the optional organization identifier (OPENAI_ORG)
	Org string `yaml:"org,omitempty"`
	// Endpoint is the API base URL (default: https://api.openai.com/v1)
	Endpoint string `yaml:"endpoint"`
	// Model is the model identifier sent on the wire
	Model string `yaml:"model"`
	// Timeout bounds a single network attempt
	Timeout Duration `yaml:"timeout"`
	// MaxTokens bounds the completion length
	MaxTokens int `yaml:"max_tokens"`
}

// RetryConfig configures the retry policy
type RetryConfig struct {
	// MaxAttempts is the attempt limit per request (must be >= 1)
	MaxAttempts int `yaml:"max_attempts"`
	// BaseDelay is the backoff unit; attempt k waits k * BaseDelay
	BaseDelay Duration `yaml:"base_delay"`
}

// Duration wraps time.Duration with yaml support for strings like "20s".
type Duration time.Duration

// UnmarshalYAML parses a duration string.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("duration must be a string like \"2s\": %w", err)
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML renders the duration as a string.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			Endpoint:  "https://api.openai.com/v1",
			Model:     "gpt-3.5-turbo",
			Timeout:   Duration(20 * time.Second),
			MaxTokens: 50,
		},
		Retry: RetryConfig{
			MaxAttempts: 3,
			BaseDelay:   Duration(2 * time.Second),
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.API.Endpoint == "" {
		return fmt.Errorf("api.endpoint is required")
	}
	if c.API.Model == "" {
		return fmt.Errorf("api.model is required")
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive")
	}
	if c.API.MaxTokens <= 0 {
		return fmt.Errorf("api.max_tokens must be positive")
	}
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("retry.max_attempts must be at least 1")
	}
	if c.Retry.BaseDelay < 0 {
		return fmt.Errorf("retry.base_delay must not be negative")
	}
	for i, f := range c.Fallbacks {
		if strings.TrimSpace(f) == "" {
			return fmt.Errorf("fallbacks[%d] must not be blank", i)
		}
	}
	return nil
}

// Merge overlays non-zero fields from other onto c
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}
	if other.API.Key != "" {
		c.API.Key = other.API.Key
	}
	if other.API.Org != "" {
		c.API.Org = other.API.Org
	}
	if other.API.Endpoint != "" {
		c.API.Endpoint = other.API.Endpoint
	}
	if other.API.Model != "" {
		c.API.Model = other.API.Model
	}
	if other.API.Timeout > 0 {
		c.API.Timeout = other.API.Timeout
	}
	if other.API.MaxTokens > 0 {
		c.API.MaxTokens = other.API.MaxTokens
	}
	if other.Retry.MaxAttempts > 0 {
		c.Retry.MaxAttempts = other.Retry.MaxAttempts
	}
	if other.Retry.BaseDelay > 0 {
		c.Retry.BaseDelay = other.Retry.BaseDelay
	}
	if len(other.Fallbacks) > 0 {
		c.Fallbacks = other.Fallbacks
	}
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := &Config{}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
