// Docgate - Document Access Gateway for the Talentfolio Platform
// Copyright 2026 Talentfolio
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/talentfolio/docgate

// Package auth resolves HTTP requests to authenticated principals.
// A bearer token is verified, the user record is consulted for the
// role, and the resulting Principal travels in the request context.
package auth

import (
	"context"
	"errors"
)

// Standard authentication errors.
var (
	// ErrNoCredentials indicates no bearer token was provided.
	ErrNoCredentials = errors.New("no credentials provided")

	// ErrInvalidCredentials indicates the token failed verification.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrExpiredCredentials indicates the token has expired.
	ErrExpiredCredentials = errors.New("credentials expired")

	// ErrEmailNotVerified indicates the token's email is unverified.
	ErrEmailNotVerified = errors.New("email not verified")

	// ErrRoleUnresolved indicates the user record carries no role and
	// the fallback policy is deny.
	ErrRoleUnresolved = errors.New("no role assigned")
)

// Principal is an authenticated caller.
type Principal struct {
	// UID is the unique user identifier (token subject).
	UID string `json:"uid"`

	// Role is the normalized platform role. RoleUnknown when the
	// stored role string is outside the closed set.
	Role Role `json:"role"`

	// Email is the principal's email address, when the token carries one.
	Email string `json:"email,omitempty"`
}

// IsAdmin reports whether the principal holds the admin role.
func (p *Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// contextKey is the private type for context keys in this package.
type contextKey string

// principalContextKey is the context key for the resolved Principal.
const principalContextKey contextKey = "principal"

// ContextWithPrincipal returns a context carrying the principal.
func ContextWithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, p)
}

// PrincipalFromContext retrieves the principal from the context.
// Returns nil when the request was not authenticated.
func PrincipalFromContext(ctx context.Context) *Principal {
	p, ok := ctx.Value(principalContextKey).(*Principal)
	if !ok {
		return nil
	}
	return p
}
