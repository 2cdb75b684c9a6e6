// Docgate - Document Access Gateway for the Talentfolio Platform
// Copyright 2026 Talentfolio
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/talentfolio/docgate

package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// RoleSource looks up the stored role fields for a user.
// A missing user record returns empty strings with a nil error so the
// configured fallback applies; store failures return an error and the
// request fails closed.
type RoleSource interface {
	UserRoles(ctx context.Context, uid string) (role, activeRole string, err error)
}

// ResolverConfig configures principal resolution.
type ResolverConfig struct {
	// RequireVerifiedEmail rejects tokens with email_verified=false.
	RequireVerifiedEmail bool

	// RoleFallback applies when the user record carries neither role
	// nor activeRole. RoleUnknown denies the request; RoleStudent
	// restores the legacy permissive default.
	RoleFallback Role
}

// Resolver turns an HTTP request into a Principal.
type Resolver struct {
	verifier        TokenVerifier
	roles           RoleSource
	requireVerified bool
	fallback        Role
}

// NewResolver creates a principal resolver.
func NewResolver(verifier TokenVerifier, roles RoleSource, cfg ResolverConfig) *Resolver {
	return &Resolver{
		verifier:        verifier,
		roles:           roles,
		requireVerified: cfg.RequireVerifiedEmail,
		fallback:        cfg.RoleFallback,
	}
}

// Resolve authenticates the request and resolves the caller's role.
//
// The role is taken from the user record's role field, then its
// activeRole field, then the configured fallback. A role string
// outside the closed set resolves to RoleUnknown rather than failing,
// so the downstream deny is attributed to a principal in the audit log.
func (r *Resolver) Resolve(ctx context.Context, req *http.Request) (*Principal, error) {
	tokenString := extractBearerToken(req)
	if tokenString == "" {
		return nil, ErrNoCredentials
	}

	identity, err := r.verifier.Verify(ctx, tokenString)
	if err != nil {
		return nil, err
	}
	if r.requireVerified && !identity.EmailVerified {
		return nil, ErrEmailNotVerified
	}

	roleStr, activeRoleStr, err := r.roles.UserRoles(ctx, identity.UID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user roles: %w", err)
	}

	role, err := r.resolveRole(roleStr, activeRoleStr)
	if err != nil {
		return nil, err
	}

	return &Principal{
		UID:   identity.UID,
		Role:  role,
		Email: identity.Email,
	}, nil
}

// resolveRole applies the role, activeRole, fallback chain.
func (r *Resolver) resolveRole(roleStr, activeRoleStr string) (Role, error) {
	for _, s := range []string{roleStr, activeRoleStr} {
		if s == "" {
			continue
		}
		role, err := ParseRole(s)
		if err != nil {
			// Out-of-set role string: resolve as unknown so the
			// policy engine denies with an audit trail.
			return RoleUnknown, nil
		}
		return role, nil
	}

	if r.fallback == RoleUnknown {
		return RoleUnknown, ErrRoleUnresolved
	}
	return r.fallback, nil
}

// tokenCookieName is the fallback cookie consulted when no
// Authorization header is present.
const tokenCookieName = "token"

// extractBearerToken pulls the bearer token from the Authorization
// header, falling back to the token cookie.
func extractBearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			if token := strings.TrimSpace(parts[1]); token != "" {
				return token
			}
		}
	}

	cookie, err := r.Cookie(tokenCookieName)
	if err == nil && cookie.Value != "" {
		return cookie.Value
	}
	return ""
}
