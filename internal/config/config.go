package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yourusername/mousetrap/internal/state"
	"github.com/yourusername/mousetrap/internal/types"
)

const (
	DefaultConfigDir  = ".config/mousetrap"
	DefaultConfigFile = "config.yaml"

	// DefaultMarkerName is created in the system temp directory
	DefaultMarkerName = "mousetrap.pid"

	DefaultNotifyTimeout = 2400 * time.Millisecond
	DefaultPollInterval  = 300 * time.Microsecond
)

// Settings is the fully resolved configuration used at runtime
type Settings struct {
	Offsets       types.Offsets
	Notify        bool
	NotifyTimeout time.Duration
	PollInterval  time.Duration
	MarkerPath    string
	SessionPath   string
}

// Defaults returns the built-in settings
func Defaults() Settings {
	return Settings{
		Offsets:       types.DefaultOffsets(),
		Notify:        true,
		NotifyTimeout: DefaultNotifyTimeout,
		PollInterval:  DefaultPollInterval,
		MarkerPath:    DefaultMarkerPath(),
		SessionPath:   state.GetSessionPath(),
	}
}

// DefaultMarkerPath returns the well-known marker location in the temp directory
func DefaultMarkerPath() string {
	return filepath.Join(os.TempDir(), DefaultMarkerName)
}

// LoadConfig loads configuration from the specified path or default location.
// If path is empty, ~/.config/mousetrap/config.yaml (then config.json) is
// tried and a missing file yields an empty Config.
// An explicit path must exist.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("cannot determine home directory: %w", err)
		}
		// Try YAML first, then JSON
		yamlPath := filepath.Join(home, DefaultConfigDir, DefaultConfigFile)
		jsonPath := filepath.Join(home, DefaultConfigDir, "config.json")

		if _, err := os.Stat(yamlPath); err == nil {
			path = yamlPath
		} else if _, err := os.Stat(jsonPath); err == nil {
			path = jsonPath
		} else {
			return &Config{}, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	return LoadConfigFromBytes(data, ext)
}

// LoadConfigFromBytes loads configuration from raw bytes
// format should be "yaml" or "json"
func LoadConfigFromBytes(data []byte, format string) (*Config, error) {
	var cfg Config

	switch format {
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	case "json":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format: %s", format)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// Resolve layers the file's values over Defaults
func (c *Config) Resolve() (Settings, error) {
	s := Defaults()

	offsets, err := ParseOffsets(c.Offsets, s.Offsets)
	if err != nil {
		return s, fmt.Errorf("offsets: %w", err)
	}
	s.Offsets = offsets

	if c.Notify != nil {
		s.Notify = *c.Notify
	}
	if c.NotifyTimeout != "" {
		d, err := time.ParseDuration(c.NotifyTimeout)
		if err != nil {
			return s, fmt.Errorf("notifyTimeout: %w", err)
		}
		s.NotifyTimeout = d
	}
	if c.PollInterval != "" {
		d, err := time.ParseDuration(c.PollInterval)
		if err != nil {
			return s, fmt.Errorf("pollInterval: %w", err)
		}
		s.PollInterval = d
	}
	if c.MarkerPath != "" {
		s.MarkerPath = c.MarkerPath
	}
	if c.SessionPath != "" {
		s.SessionPath = c.SessionPath
	}

	return s, nil
}
