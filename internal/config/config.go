package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the caddex tool configuration
type Config struct {
	DataDir        string `yaml:"data_dir"`        // root for generated proxy config
	CaddyBin       string `yaml:"caddy_bin"`       // proxy binary name or path
	AdminAddress   string `yaml:"admin_address"`   // base URL of the proxy admin API
	ServiceName    string `yaml:"service_name"`    // service unit managed by systemctl
	ServerIP       string `yaml:"server_ip"`       // public IP for path-based project URLs
	APIPort        int    `yaml:"api_port"`        // control-plane API listening port
	CommandTimeout int    `yaml:"command_timeout"` // seconds before a child process is killed
}

// configDir is the default config directory
const configDir = ".config/caddex"
const configFile = "config.yaml"

// New creates a new Config with default values
func New() *Config {
	return &Config{
		DataDir:        "/var/lib/caddex",
		CaddyBin:       "caddy",
		AdminAddress:   "http://localhost:2019",
		ServiceName:    "caddy",
		APIPort:        8080,
		CommandTimeout: 30,
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, configDir), nil
}

// ConfigPath returns the config file path
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFile), nil
}

// Load reads the config from disk
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	// If config doesn't exist, return default config
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return New(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := New()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to disk
func (c *Config) Save() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}

	// Create config directory if it doesn't exist
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	path, err := ConfigPath()
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
