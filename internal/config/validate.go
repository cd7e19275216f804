package config

import (
	"fmt"
	"path/filepath"
)

// Validate checks the configuration for errors
func (c *Config) Validate() error {
	s, err := c.Resolve()
	if err != nil {
		return err
	}
	return s.Validate()
}

// Validate checks resolved settings, including values set from flags
func (s Settings) Validate() error {
	if err := s.Offsets.Validate(); err != nil {
		return fmt.Errorf("offsets: %w", err)
	}
	if s.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive, got %s", s.PollInterval)
	}
	if s.NotifyTimeout < 0 {
		return fmt.Errorf("notify timeout cannot be negative")
	}
	if s.MarkerPath == "" {
		return fmt.Errorf("marker path cannot be empty")
	}
	if s.SessionPath != "" && filepath.Clean(s.SessionPath) == filepath.Clean(s.MarkerPath) {
		return fmt.Errorf("session path must differ from marker path")
	}
	return nil
}
