// ABOUTME: Tests for configuration loading and parsing
// ABOUTME: Covers YAML loading, env var expansion, defaults, and duration parsing

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_ValidConfig(t *testing.T) {
	// Create a temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "gateway.yaml")

	configContent := `
server:
  http_addr: "0.0.0.0:9090"

homeassistant:
  base_url: "http://ha.local:8123"
  timeout: "45s"

logging:
  level: "debug"
  format: "json"
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("writing config file: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.HTTPAddr != "0.0.0.0:9090" {
		t.Errorf("expected http_addr 0.0.0.0:9090, got %s", cfg.Server.HTTPAddr)
	}
	if cfg.HomeAssistant.BaseURL != "http://ha.local:8123" {
		t.Errorf("expected base_url http://ha.local:8123, got %s", cfg.HomeAssistant.BaseURL)
	}
	if cfg.HomeAssistant.Timeout != 45*time.Second {
		t.Errorf("expected timeout 45s, got %v", cfg.HomeAssistant.Timeout)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level debug, got %s", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("expected log format json, got %s", cfg.Logging.Format)
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.HTTPAddr != DefaultHTTPAddr {
		t.Errorf("expected default http_addr %s, got %s", DefaultHTTPAddr, cfg.Server.HTTPAddr)
	}
	if cfg.HomeAssistant.BaseURL != DefaultBaseURL {
		t.Errorf("expected default base_url %s, got %s", DefaultBaseURL, cfg.HomeAssistant.BaseURL)
	}
	if cfg.HomeAssistant.Timeout != DefaultTimeout {
		t.Errorf("expected default timeout %v, got %v", DefaultTimeout, cfg.HomeAssistant.Timeout)
	}
}

func TestLoad_EnvFallbackBaseURL(t *testing.T) {
	t.Setenv("HA_BASE_URL", "http://192.168.1.10:8123/")

	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// Trailing slash is trimmed so path joining stays predictable
	if cfg.HomeAssistant.BaseURL != "http://192.168.1.10:8123" {
		t.Errorf("expected env base_url without trailing slash, got %s", cfg.HomeAssistant.BaseURL)
	}
}

func TestLoad_EnvVarExpansion(t *testing.T) {
	t.Setenv("TEST_HA_URL", "http://expanded.local:8123")

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "gateway.yaml")
	configContent := `
homeassistant:
  base_url: "${TEST_HA_URL}"
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("writing config file: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.HomeAssistant.BaseURL != "http://expanded.local:8123" {
		t.Errorf("expected expanded base_url, got %s", cfg.HomeAssistant.BaseURL)
	}
}

func TestLoad_InvalidDuration(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "gateway.yaml")
	configContent := `
homeassistant:
  timeout: "not-a-duration"
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("writing config file: %v", err)
	}

	_, err := Load(configPath)
	if err == nil {
		t.Fatal("expected error for invalid duration")
	}
	if !strings.Contains(err.Error(), "timeout") {
		t.Errorf("expected timeout parse error, got: %v", err)
	}
}

func TestLoad_InvalidBaseURL(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "gateway.yaml")
	configContent := `
homeassistant:
  base_url: "not a url"
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("writing config file: %v", err)
	}

	_, err := Load(configPath)
	if err == nil {
		t.Fatal("expected error for invalid base_url")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "gateway.yaml")
	if err := os.WriteFile(configPath, []byte("server: [not: valid"), 0644); err != nil {
		t.Fatalf("writing config file: %v", err)
	}

	_, err := Load(configPath)
	if err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}
