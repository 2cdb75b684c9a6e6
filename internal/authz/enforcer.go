// Docgate - Document Access Gateway for the Talentfolio Platform
// Copyright 2026 Talentfolio
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/talentfolio/docgate

// Package authz guards the admin verification routes with Casbin RBAC.
//
// The document access matrix itself lives in internal/policy; this
// package covers only the /api/v1/admin surface, where path-based
// policies and per-user role grants are worth a real policy engine.
//
// The model matches roles with inheritance and key-pattern objects:
//
//	[matchers]
//	m = g(r.sub, p.sub) && keyMatch(r.obj, p.obj) && r.act == p.act
//
// Policies ship embedded; deployments can override both model and
// policy with files and enable auto-reload.
package authz

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	fileadapter "github.com/casbin/casbin/v2/persist/file-adapter"
)

//go:embed model.conf
var embeddedModel string

//go:embed policy.csv
var embeddedPolicy string

// EnforcerConfig configures the Casbin enforcer.
type EnforcerConfig struct {
	// ModelPath overrides the embedded model when set and present.
	ModelPath string

	// PolicyPath overrides the embedded policy when set and present.
	PolicyPath string

	// AutoReload re-reads a file-based policy periodically.
	AutoReload bool

	// ReloadInterval is the auto-reload period.
	ReloadInterval time.Duration

	// CacheTTL is how long enforcement decisions are cached. Zero
	// disables the cache. Disabled by default: access decisions must
	// reflect role changes immediately.
	CacheTTL time.Duration
}

// DefaultEnforcerConfig returns production defaults.
func DefaultEnforcerConfig() *EnforcerConfig {
	return &EnforcerConfig{
		AutoReload:     true,
		ReloadInterval: 30 * time.Second,
	}
}

// Enforcer wraps a synced Casbin enforcer with decision caching.
type Enforcer struct {
	config   *EnforcerConfig
	enforcer *casbin.SyncedEnforcer
	cache    *decisionCache
}

// NewEnforcer builds an enforcer from the embedded or configured
// model and policy.
func NewEnforcer(config *EnforcerConfig) (*Enforcer, error) {
	if config == nil {
		config = DefaultEnforcerConfig()
	}

	var m model.Model
	var err error
	if config.ModelPath != "" && fileExists(config.ModelPath) {
		m, err = model.NewModelFromFile(config.ModelPath)
	} else {
		m, err = model.NewModelFromString(embeddedModel)
	}
	if err != nil {
		return nil, fmt.Errorf("load casbin model: %w", err)
	}

	var enforcer *casbin.SyncedEnforcer
	if config.PolicyPath != "" && fileExists(config.PolicyPath) {
		adapter := fileadapter.NewAdapter(config.PolicyPath)
		enforcer, err = casbin.NewSyncedEnforcer(m, adapter)
	} else {
		enforcer, err = casbin.NewSyncedEnforcer(m)
		if err == nil {
			err = loadEmbeddedPolicy(enforcer, embeddedPolicy)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("create casbin enforcer: %w", err)
	}

	if config.AutoReload && config.PolicyPath != "" {
		enforcer.StartAutoLoadPolicy(config.ReloadInterval)
	}

	e := &Enforcer{config: config, enforcer: enforcer}
	if config.CacheTTL > 0 {
		e.cache = newDecisionCache(config.CacheTTL)
	}
	return e, nil
}

// loadEmbeddedPolicy parses the embedded policy CSV.
func loadEmbeddedPolicy(enforcer *casbin.SyncedEnforcer, policy string) error {
	for _, line := range strings.Split(policy, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Split(line, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}

		switch parts[0] {
		case "p":
			if len(parts) >= 4 {
				if _, err := enforcer.AddPolicy(parts[1], parts[2], parts[3]); err != nil {
					return fmt.Errorf("add policy %v: %w", parts[1:], err)
				}
			}
		case "g":
			if len(parts) >= 3 {
				if _, err := enforcer.AddGroupingPolicy(parts[1], parts[2]); err != nil {
					return fmt.Errorf("add grouping policy %v: %w", parts[1:], err)
				}
			}
		}
	}
	return nil
}

// Enforce checks whether subject may perform act on obj.
func (e *Enforcer) Enforce(subject, object, action string) (bool, error) {
	if e.cache != nil {
		if allowed, ok := e.cache.get(subject, object, action); ok {
			return allowed, nil
		}
	}

	allowed, err := e.enforcer.Enforce(subject, object, action)
	if err != nil {
		return false, fmt.Errorf("enforcement failed: %w", err)
	}

	if e.cache != nil {
		e.cache.set(subject, object, action, allowed)
	}
	return allowed, nil
}

// EnforceAny checks the subject and each of its roles; the first
// allow wins. Per-user grants added with AddRoleForUser take effect
// through the uid subject.
func (e *Enforcer) EnforceAny(uid string, roles []string, object, action string) (bool, error) {
	if allowed, err := e.Enforce(uid, object, action); err != nil || allowed {
		return allowed, err
	}
	for _, role := range roles {
		if allowed, err := e.Enforce(role, object, action); err != nil || allowed {
			return allowed, err
		}
	}
	return false, nil
}

// AddRoleForUser grants a casbin role to a specific uid.
func (e *Enforcer) AddRoleForUser(uid, role string) error {
	if _, err := e.enforcer.AddGroupingPolicy(uid, role); err != nil {
		return fmt.Errorf("add role: %w", err)
	}
	if e.cache != nil {
		e.cache.invalidateSubject(uid)
	}
	return nil
}

// DeleteRoleForUser revokes a casbin role from a uid.
func (e *Enforcer) DeleteRoleForUser(uid, role string) error {
	if _, err := e.enforcer.RemoveGroupingPolicy(uid, role); err != nil {
		return fmt.Errorf("remove role: %w", err)
	}
	if e.cache != nil {
		e.cache.invalidateSubject(uid)
	}
	return nil
}

// GetRolesForUser returns the casbin roles granted to a uid.
func (e *Enforcer) GetRolesForUser(uid string) ([]string, error) {
	return e.enforcer.GetRolesForUser(uid)
}

// Close stops auto-reload and the cache janitor.
func (e *Enforcer) Close() {
	e.enforcer.StopAutoLoadPolicy()
	if e.cache != nil {
		e.cache.stop()
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
