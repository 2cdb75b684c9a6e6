// Docgate - Document Access Gateway for the Talentfolio Platform
// Copyright 2026 Talentfolio
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/talentfolio/docgate

// Package config loads docgate configuration from layered sources:
// built-in defaults, an optional YAML file, and environment variables,
// with environment taking the highest precedence.
package config

import (
	"fmt"
	"time"

	"github.com/talentfolio/docgate/internal/validation"
)

// Config is the root configuration for docgate.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Auth     AuthConfig     `koanf:"auth"`
	Storage  StorageConfig  `koanf:"storage"`
	Security SecurityConfig `koanf:"security"`
	Audit    AuditConfig    `koanf:"audit"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `koanf:"host" validate:"required"`
	Port int    `koanf:"port" validate:"min=1,max=65535"`

	// Timeout applies to reads, writes, and graceful shutdown.
	Timeout time.Duration `koanf:"timeout"`

	// Environment is "development" or "production". Production enforces
	// stricter validation (JWT secret strength, non-wildcard CORS).
	Environment string `koanf:"environment" validate:"oneof=development production"`
}

// AuthConfig holds principal resolution settings.
type AuthConfig struct {
	// JWTSecret signs and verifies bearer tokens (HS256).
	JWTSecret string `koanf:"jwt_secret"`

	// TokenIssuer is the expected iss claim. Empty disables the check.
	TokenIssuer string `koanf:"token_issuer"`

	// RequireVerifiedEmail rejects principals whose token carries
	// email_verified=false.
	RequireVerifiedEmail bool `koanf:"require_verified_email"`

	// RoleFallback controls what happens when a user record carries
	// neither role nor activeRole. "deny" rejects the request;
	// "student" restores the legacy permissive default.
	RoleFallback string `koanf:"role_fallback" validate:"oneof=deny student"`
}

// StorageConfig holds Badger settings.
type StorageConfig struct {
	// Path is the Badger data directory. Ignored when InMemory is set.
	Path string `koanf:"path"`

	// InMemory runs Badger without disk persistence. Tests only.
	InMemory bool `koanf:"in_memory"`

	// GCInterval is how often value-log garbage collection runs.
	GCInterval time.Duration `koanf:"gc_interval"`
}

// SecurityConfig holds HTTP hardening settings.
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs" validate:"min=0"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	TrustedProxies    []string      `koanf:"trusted_proxies"`
	Casbin            CasbinConfig  `koanf:"casbin"`
}

// CasbinConfig holds admin RBAC enforcer settings.
type CasbinConfig struct {
	// ModelPath overrides the embedded model file.
	ModelPath string `koanf:"model_path"`

	// PolicyPath overrides the embedded policy file.
	PolicyPath string `koanf:"policy_path"`

	AutoReload     bool          `koanf:"auto_reload"`
	ReloadInterval time.Duration `koanf:"reload_interval"`
}

// AuditConfig holds access audit settings.
type AuditConfig struct {
	// BufferSize is the async audit channel capacity. Entries beyond
	// it are dropped rather than blocking the request path.
	BufferSize int `koanf:"buffer_size" validate:"min=1"`

	// RetentionDays bounds how long persisted audit entries are kept.
	// Zero keeps entries indefinitely.
	RetentionDays int `koanf:"retention_days" validate:"min=0"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// minJWTSecretLen is the minimum secret length accepted in production.
const minJWTSecretLen = 32

// Validate checks the loaded configuration.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}

	if c.Server.Environment == "production" {
		if len(c.Auth.JWTSecret) < minJWTSecretLen {
			return fmt.Errorf("auth.jwt_secret must be at least %d characters in production", minJWTSecretLen)
		}
		for _, origin := range c.Security.CORSOrigins {
			if origin == "*" {
				return fmt.Errorf("security.cors_origins must not contain a wildcard in production")
			}
		}
		if c.Storage.InMemory {
			return fmt.Errorf("storage.in_memory is not allowed in production")
		}
	}

	return nil
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}
