// Package config handles configuration loading for hass-mcp-gateway.
//
// # Overview
//
// Configuration is loaded from YAML files with environment variable expansion.
// The package provides validation and sensible defaults, and falls back to a
// pure environment-variable configuration when no file exists, which is how
// the gateway usually runs inside a container.
//
// # Configuration File
//
// Default locations (in order):
//
//  1. Path from HASS_MCP_CONFIG environment variable
//  2. ./gateway.yaml (current directory)
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	homeassistant:
//	  base_url: "${HA_BASE_URL}"
//
// Syntax: ${VAR_NAME}
//
// # Duration Parsing
//
// Duration values use Go's time.ParseDuration syntax:
//
//	homeassistant:
//	  timeout: "30s"
//
// Supported units: ns, us, ms, s, m, h
//
// # Configuration Sections
//
// Server settings:
//
//	server:
//	  http_addr: "0.0.0.0:8080"
//
// Home Assistant upstream:
//
//	homeassistant:
//	  base_url: "http://homeassistant:8123"
//	  timeout: "30s"
//
// Logging:
//
//	logging:
//	  level: "info"   # debug, info, warn, error
//	  format: "text"  # text, json
//
// # Environment Fallbacks
//
// When the config file is absent:
//
//   - HA_BASE_URL sets homeassistant.base_url
//   - all other settings use package defaults
//
// # Usage
//
// Load configuration:
//
//	cfg, err := config.Load("gateway.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
