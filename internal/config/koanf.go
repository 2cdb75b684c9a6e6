// Docgate - Document Access Gateway for the Talentfolio Platform
// Copyright 2026 Talentfolio
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/talentfolio/docgate

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists where config files are searched, in order.
// The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/docgate/config.yaml",
	"/etc/docgate/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config with all default values. The defaults
// layer is loaded first, then overridden by file and environment.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        8470,
			Timeout:     30 * time.Second,
			Environment: "development",
		},
		Auth: AuthConfig{
			JWTSecret:            "",
			TokenIssuer:          "",
			RequireVerifiedEmail: true,
			RoleFallback:         "deny",
		},
		Storage: StorageConfig{
			Path:       "/data/docgate",
			InMemory:   false,
			GCInterval: 10 * time.Minute,
		},
		Security: SecurityConfig{
			RateLimitReqs:     100,
			RateLimitWindow:   1 * time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"*"},
			TrustedProxies:    []string{},
			Casbin: CasbinConfig{
				ModelPath:      "",
				PolicyPath:     "",
				AutoReload:     false,
				ReloadInterval: 30 * time.Second,
			},
		},
		Audit: AuditConfig{
			BufferSize:    1000,
			RetentionDays: 90,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Load builds the configuration from layered sources:
//  1. built-in defaults
//  2. optional YAML config file
//  3. environment variables (highest priority)
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first existing config file path, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths lists config paths parsed as comma-separated slices
// when they arrive from the environment as plain strings.
var sliceConfigPaths = []string{
	"security.cors_origins",
	"security.trusted_proxies",
}

// processSliceFields converts comma-separated env strings to slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}
		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}

		strVal, ok := val.(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envTransformFunc maps environment variable names to koanf config paths.
// Unmapped variables are skipped so unrelated environment does not
// pollute the configuration.
//
// Examples:
//   - HTTP_PORT -> server.port
//   - JWT_SECRET -> auth.jwt_secret
//   - AUTH_ROLE_FALLBACK -> auth.role_fallback
func envTransformFunc(key string) string {
	key = strings.ToLower(key)

	envMappings := map[string]string{
		// Server mappings
		"http_host":    "server.host",
		"http_port":    "server.port",
		"http_timeout": "server.timeout",
		"environment":  "server.environment",

		// Auth mappings
		"jwt_secret":                  "auth.jwt_secret",
		"token_issuer":                "auth.token_issuer",
		"auth_require_verified_email": "auth.require_verified_email",
		"auth_role_fallback":          "auth.role_fallback",

		// Storage mappings
		"storage_path":        "storage.path",
		"storage_in_memory":   "storage.in_memory",
		"storage_gc_interval": "storage.gc_interval",

		// Security mappings
		"rate_limit_requests": "security.rate_limit_reqs",
		"rate_limit_window":   "security.rate_limit_window",
		"disable_rate_limit":  "security.rate_limit_disabled",
		"cors_origins":        "security.cors_origins",
		"trusted_proxies":     "security.trusted_proxies",

		// Casbin mappings
		"casbin_model_path":      "security.casbin.model_path",
		"casbin_policy_path":     "security.casbin.policy_path",
		"casbin_auto_reload":     "security.casbin.auto_reload",
		"casbin_reload_interval": "security.casbin.reload_interval",

		// Audit mappings
		"audit_buffer_size":    "audit.buffer_size",
		"audit_retention_days": "audit.retention_days",

		// Logging mappings
		"log_level":  "logging.level",
		"log_format": "logging.format",
		"log_caller": "logging.caller",
	}

	if mapped, ok := envMappings[key]; ok {
		return mapped
	}
	return ""
}
