package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
// It is loaded from ~/.config/scorecard/config.yaml and must never be
// committed with real credentials.
type Config struct {
	API APIConfig `yaml:"api" json:"api"`
	Log LogConfig `yaml:"log" json:"log"`
}

// APIConfig holds the scorecard service connection details.
type APIConfig struct {
	// BaseURL is the root of the scorecard API, without a trailing slash.
	BaseURL string `yaml:"base_url" json:"base_url"`

	// Token is the bearer credential for the session. The login flow that
	// issues tokens is outside this tool; paste or template the value in.
	Token string `yaml:"token" json:"token"`

	// Timeout bounds each individual HTTP request. Defaults to 30s.
	Timeout time.Duration `yaml:"timeout" json:"timeout"`
}

// LogConfig controls diagnostic output.
type LogConfig struct {
	// Level is a zerolog level name: debug, info, warn, error.
	Level string `yaml:"level" json:"level"`
}

// Loader is the interface for reading Config from disk.
// Default implementation reads from ~/.config/scorecard/config.yaml.
type Loader interface {
	// Load reads, parses, and validates the configuration file.
	Load() (*Config, error)

	// ConfigPath returns the absolute path to the configuration file.
	ConfigPath() string
}

// DefaultLoader reads the config file from the user's config directory,
// with SCORECARD_API_URL and SCORECARD_TOKEN environment overrides.
type DefaultLoader struct {
	// Path overrides the default config location when non-empty.
	Path string
}

// ConfigPath implements Loader.
func (l *DefaultLoader) ConfigPath() string {
	if l.Path != "" {
		return l.Path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(home, ".config", "scorecard", "config.yaml")
}

// Load implements Loader. A missing file is not an error: the environment
// or the caller's own overrides may supply the connection details, so
// callers validate BaseURL after applying theirs.
func (l *DefaultLoader) Load() (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(l.ConfigPath())
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", l.ConfigPath(), err)
		}
	case os.IsNotExist(err):
		// fall through to environment
	default:
		return nil, fmt.Errorf("read %s: %w", l.ConfigPath(), err)
	}

	if url := os.Getenv("SCORECARD_API_URL"); url != "" {
		cfg.API.BaseURL = url
	}
	if token := os.Getenv("SCORECARD_TOKEN"); token != "" {
		cfg.API.Token = token
	}

	if cfg.API.Timeout <= 0 {
		cfg.API.Timeout = 30 * time.Second
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	return cfg, nil
}
