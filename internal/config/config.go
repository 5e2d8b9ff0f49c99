package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultURL is the calendar export fetched when nothing else is configured.
const DefaultURL = "https://metalab.at/calendar/export/ical/"

// Config is the top-level application configuration.
type Config struct {
	// URL is the ICS feed endpoint.
	URL string `yaml:"url" json:"url"`

	// Timeout bounds the feed request, written as a duration string
	// ("30s", "1m30s"). Zero means no timeout.
	Timeout time.Duration `yaml:"timeout" json:"timeout"`

	// StrictTimestamps makes a malformed DTSTART/DTEND abort the run instead
	// of leaving the field null.
	StrictTimestamps bool `yaml:"strict_timestamps" json:"strict_timestamps"`

	// Pretty indents the JSON output.
	Pretty bool `yaml:"pretty" json:"pretty"`

	// LogLevel is one of "debug", "info", "error".
	LogLevel string `yaml:"log_level" json:"log_level"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		URL:      DefaultURL,
		LogLevel: "info",
	}
}

// Normalize fills in missing/zero values with sensible defaults so that
// partially-filled configs still behave correctly.
func (c *Config) Normalize() {
	if c.URL == "" {
		c.URL = DefaultURL
	}
	if c.Timeout < 0 {
		c.Timeout = 0
	}
	switch c.LogLevel {
	case "debug", "info", "error":
		// ok
	default:
		c.LogLevel = "info"
	}
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - Empty path or missing file: defaults, no error. Nothing is written.
//   - Existing file: unmarshal YAML over the defaults, then normalize.
func Load(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.Normalize()

	return cfg, nil
}
