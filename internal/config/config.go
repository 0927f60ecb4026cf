// ABOUTME: Configuration loading and parsing for hass-mcp-gateway
// ABOUTME: Supports YAML files with environment variable expansion and duration parsing

package config

import (
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values applied when neither the config file nor the environment
// provides a setting. The base URL default matches the hostname Home Assistant
// resolves to inside a supervised installation.
const (
	DefaultHTTPAddr = ":8080"
	DefaultBaseURL  = "http://homeassistant:8123"
	DefaultTimeout  = 30 * time.Second
)

// Config represents the complete hass-mcp-gateway configuration
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	HomeAssistant HomeAssistantConfig `yaml:"homeassistant"`
	Logging       LoggingConfig       `yaml:"logging"`
}

// ServerConfig holds server address configuration
type ServerConfig struct {
	HTTPAddr string `yaml:"http_addr"`
}

// HomeAssistantConfig holds upstream Home Assistant API configuration
type HomeAssistantConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"-"`

	// Raw string value for YAML unmarshaling
	TimeoutRaw string `yaml:"timeout"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads a configuration file from the given path and returns a parsed Config.
// Environment variables in the format ${VAR_NAME} are expanded.
// Duration strings are parsed into time.Duration values.
//
// A missing config file is not an error: the gateway is normally deployed in
// a container with only HA_BASE_URL set, so defaults plus environment
// overrides produce a complete configuration.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err == nil {
		// Expand environment variables in the raw YAML content
		expandedData := expandEnvVars(string(data))

		if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Parse duration fields
	if err := parseDurations(&cfg); err != nil {
		return nil, fmt.Errorf("parsing durations: %w", err)
	}

	cfg.applyDefaults()

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding environment variable values.
// If the environment variable is not set, it is replaced with an empty string.
func expandEnvVars(s string) string {
	// Match ${VAR_NAME} pattern
	re := regexp.MustCompile(`\$\{([^}]+)\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		// Extract variable name from ${VAR_NAME}
		varName := re.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

// applyDefaults fills unset fields from the environment and the package defaults.
func (c *Config) applyDefaults() {
	if c.Server.HTTPAddr == "" {
		c.Server.HTTPAddr = DefaultHTTPAddr
	}
	if c.HomeAssistant.BaseURL == "" {
		c.HomeAssistant.BaseURL = os.Getenv("HA_BASE_URL")
	}
	if c.HomeAssistant.BaseURL == "" {
		c.HomeAssistant.BaseURL = DefaultBaseURL
	}
	c.HomeAssistant.BaseURL = strings.TrimRight(c.HomeAssistant.BaseURL, "/")
	if c.HomeAssistant.Timeout == 0 {
		c.HomeAssistant.Timeout = DefaultTimeout
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
}

// Validate checks that all required configuration fields are present and valid.
// Returns an error describing the first validation failure encountered.
func (c *Config) Validate() error {
	if c.Server.HTTPAddr == "" {
		return fmt.Errorf("server.http_addr is required")
	}

	u, err := url.Parse(c.HomeAssistant.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("homeassistant.base_url %q is not a valid URL", c.HomeAssistant.BaseURL)
	}

	if c.HomeAssistant.Timeout < 0 {
		return fmt.Errorf("homeassistant.timeout must not be negative")
	}

	return nil
}

// parseDurations converts the raw duration strings into time.Duration values
func parseDurations(cfg *Config) error {
	var err error

	if cfg.HomeAssistant.TimeoutRaw != "" {
		cfg.HomeAssistant.Timeout, err = time.ParseDuration(cfg.HomeAssistant.TimeoutRaw)
		if err != nil {
			return fmt.Errorf("parsing timeout %q: %w", cfg.HomeAssistant.TimeoutRaw, err)
		}
	}

	return nil
}
