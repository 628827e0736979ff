/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/forattini-dev/s3db/pkg/codec"
	"github.com/forattini-dev/s3db/pkg/resolver"
	"github.com/forattini-dev/s3db/pkg/schema"
)

// Config represents the s3db configuration
type Config struct {
	DataDir  string   `yaml:"data_dir"`
	Metadata Metadata `yaml:"metadata"`
	Secrets  Secrets  `yaml:"secrets"`
	Logging  Logging  `yaml:"logging"`
}

// Metadata contains the size arithmetic of the target backend and the
// default policy applied when a record exceeds it
type Metadata struct {
	Limit            int             `yaml:"limit"`
	PerFieldOverhead int             `yaml:"per_field_overhead"`
	DefaultBehavior  schema.Behavior `yaml:"default_behavior"`
}

// Secrets contains key material for secret-typed attributes
type Secrets struct {
	Passphrase string `yaml:"passphrase"`
	Iterations int    `yaml:"iterations"`
}

// Logging contains logging configuration
type Logging struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		DataDir: "./data",
		Metadata: Metadata{
			Limit:           resolver.DefaultMetadataLimit,
			DefaultBehavior: schema.BehaviorUserManaged,
		},
		Secrets: Secrets{
			Passphrase: "auto",
			Iterations: codec.DefaultIterations,
		},
		Logging: Logging{
			Level: "info",
		},
	}
}

// Limits returns the size arithmetic configured for the backend
func (c *Config) Limits() resolver.Limits {
	return resolver.Limits{
		MetadataLimit:    c.Metadata.Limit,
		PerFieldOverhead: c.Metadata.PerFieldOverhead,
	}
}

// Validate checks the configuration for values the engine would reject
func (c *Config) Validate() error {
	if c.Metadata.Limit <= 0 {
		return fmt.Errorf("metadata limit must be positive, got %d", c.Metadata.Limit)
	}
	if c.Metadata.PerFieldOverhead < 0 {
		return fmt.Errorf("per-field overhead must not be negative, got %d", c.Metadata.PerFieldOverhead)
	}
	if !c.Metadata.DefaultBehavior.Valid() {
		return fmt.Errorf("unknown default behavior %q", c.Metadata.DefaultBehavior)
	}
	if c.Secrets.Iterations < 0 {
		return fmt.Errorf("KDF iterations must not be negative, got %d", c.Secrets.Iterations)
	}
	return nil
}

// LoadConfig loads configuration from the specified path
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	// Validate path to prevent directory traversal
	if !filepath.IsAbs(configPath) {
		absPath, err := filepath.Abs(configPath)
		if err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		configPath = absPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return config, nil
}

// SaveConfig saves the configuration to the specified path with secure permissions
func SaveConfig(config *Config, configPath string) error {
	// Ensure config directory exists
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Write with secure permissions (0600); the file may carry a passphrase
	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GenerateSecureKey generates a cryptographically secure random key
func GenerateSecureKey(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate secure key: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

// BootstrapConfig creates a new configuration with a generated passphrase
// and writes it to configPath
func BootstrapConfig(configPath string, dataDir string) (*Config, error) {
	config := DefaultConfig()
	if dataDir != "" {
		config.DataDir = dataDir
	}

	passphrase, err := GenerateSecureKey(32) // 256 bits
	if err != nil {
		return nil, fmt.Errorf("failed to generate passphrase: %w", err)
	}
	config.Secrets.Passphrase = passphrase

	// Save the configuration
	if err := SaveConfig(config, configPath); err != nil {
		return nil, fmt.Errorf("failed to save bootstrap config: %w", err)
	}

	return config, nil
}

// GetDefaultConfigPath returns the default configuration path for the current platform
func GetDefaultConfigPath() string {
	// Use OS-specific default locations
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./s3db.yaml"
	}

	// For Linux/macOS, use ~/.config/s3db/config.yaml
	configDir := filepath.Join(homeDir, ".config", "s3db")
	return filepath.Join(configDir, "config.yaml")
}

// ConfigExists checks if a configuration file exists
func ConfigExists(configPath string) bool {
	_, err := os.Stat(configPath)
	return !os.IsNotExist(err)
}
