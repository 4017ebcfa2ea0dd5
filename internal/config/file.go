package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/dwtools/dwcli/internal/constants"
)

// ConfigFileName is the name of the config file
const ConfigFileName = "config.yaml"

// FileConfig represents the configuration file structure
type FileConfig struct {
	Endpoint string `yaml:"endpoint,omitempty"`
	HostID   string `yaml:"host_id,omitempty"`
	Cabinet  string `yaml:"cabinet,omitempty"`
	IDField  string `yaml:"id_field,omitempty"`

	Retry *RetryConfig `yaml:"retry,omitempty"`

	Defaults *DefaultsConfig `yaml:"defaults,omitempty"`
}

// RetryConfig holds retry policy overrides
type RetryConfig struct {
	MaxAttempts   int     `yaml:"max_attempts,omitempty"`
	BaseSeconds   float64 `yaml:"base_seconds,omitempty"`
	JitterMinSecs float64 `yaml:"jitter_min_seconds,omitempty"`
	JitterMaxSecs float64 `yaml:"jitter_max_seconds,omitempty"`
}

// DefaultsConfig holds default flag values
type DefaultsConfig struct {
	Render  bool `yaml:"render,omitempty"`
	Verbose bool `yaml:"verbose,omitempty"`
}

// GetConfigPaths returns the paths to check for config files (in order of priority)
func GetConfigPaths() []string {
	var paths []string

	// 1. Current directory
	paths = append(paths, filepath.Join(".", ".dwcli", ConfigFileName))

	// 2. User config directory
	if configDir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(configDir, "dwcli", ConfigFileName))
	}

	// 3. Home directory
	if homeDir, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(homeDir, ".config", "dwcli", ConfigFileName))
	}

	return paths
}

// LoadConfigFile attempts to load configuration from a file
func LoadConfigFile() (*FileConfig, error) {
	for _, path := range GetConfigPaths() {
		if _, err := os.Stat(path); err == nil {
			return loadConfigFromPath(path)
		}
	}

	// No config file found, return empty config
	return &FileConfig{}, nil
}

func loadConfigFromPath(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return &cfg, nil
}

// ApplyFileConfig applies file configuration to the main Config.
// File config has lower priority than environment variables and CLI flags,
// so values already set are left alone.
func (c *Config) ApplyFileConfig(fc *FileConfig) {
	if fc == nil {
		return
	}

	if c.Endpoint == "" && fc.Endpoint != "" {
		c.Endpoint = fc.Endpoint
	}
	if c.HostID == "" && fc.HostID != "" {
		c.HostID = fc.HostID
	}
	if c.Cabinet == "" && fc.Cabinet != "" {
		c.Cabinet = fc.Cabinet
	}
	if c.IDField == "" && fc.IDField != "" {
		c.IDField = fc.IDField
	}

	if fc.Retry != nil {
		if fc.Retry.MaxAttempts > 0 && c.Retry.MaxAttempts == constants.DefaultRetryMax {
			c.Retry.MaxAttempts = fc.Retry.MaxAttempts
		}
		if fc.Retry.BaseSeconds > 0 && c.Retry.BaseSeconds == constants.DefaultRetryBase.Seconds() {
			c.Retry.BaseSeconds = fc.Retry.BaseSeconds
		}
		if fc.Retry.JitterMinSecs > 0 && c.Retry.JitterMinSecs == constants.DefaultRetryJitterMin.Seconds() {
			c.Retry.JitterMinSecs = fc.Retry.JitterMinSecs
		}
		if fc.Retry.JitterMaxSecs > 0 && c.Retry.JitterMaxSecs == constants.DefaultRetryJitterMax.Seconds() {
			c.Retry.JitterMaxSecs = fc.Retry.JitterMaxSecs
		}
	}

	if fc.Defaults != nil {
		if fc.Defaults.Render {
			c.Render = true
		}
		if fc.Defaults.Verbose {
			c.Verbose = true
		}
	}
}
