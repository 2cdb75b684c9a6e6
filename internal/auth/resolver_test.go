// Docgate - Document Access Gateway for the Talentfolio Platform
// Copyright 2026 Talentfolio
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/talentfolio/docgate

package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

// fakeVerifier returns a fixed identity or error.
type fakeVerifier struct {
	identity *Identity
	err      error
}

func (f *fakeVerifier) Verify(_ context.Context, _ string) (*Identity, error) {
	return f.identity, f.err
}

// fakeRoleSource returns fixed role fields or an error.
type fakeRoleSource struct {
	role       string
	activeRole string
	err        error
}

func (f *fakeRoleSource) UserRoles(_ context.Context, _ string) (string, string, error) {
	return f.role, f.activeRole, f.err
}

func TestResolve(t *testing.T) {
	verified := &Identity{UID: "u1", Email: "u1@example.com", EmailVerified: true}

	tests := []struct {
		name     string
		verifier TokenVerifier
		roles    RoleSource
		cfg      ResolverConfig
		token    string
		wantRole Role
		wantErr  error
	}{
		{
			name:     "role field wins",
			verifier: &fakeVerifier{identity: verified},
			roles:    &fakeRoleSource{role: "consultant", activeRole: "student"},
			cfg:      ResolverConfig{RequireVerifiedEmail: true},
			token:    "Bearer tok",
			wantRole: RoleConsultant,
		},
		{
			name:     "activeRole fallback",
			verifier: &fakeVerifier{identity: verified},
			roles:    &fakeRoleSource{activeRole: "employer"},
			cfg:      ResolverConfig{RequireVerifiedEmail: true},
			token:    "Bearer tok",
			wantRole: RoleEmployer,
		},
		{
			name:     "recruiter normalizes to employer",
			verifier: &fakeVerifier{identity: verified},
			roles:    &fakeRoleSource{role: "recruiter"},
			cfg:      ResolverConfig{RequireVerifiedEmail: true},
			token:    "Bearer tok",
			wantRole: RoleEmployer,
		},
		{
			name:     "no role denies by default",
			verifier: &fakeVerifier{identity: verified},
			roles:    &fakeRoleSource{},
			cfg:      ResolverConfig{RequireVerifiedEmail: true},
			token:    "Bearer tok",
			wantErr:  ErrRoleUnresolved,
		},
		{
			name:     "legacy student fallback",
			verifier: &fakeVerifier{identity: verified},
			roles:    &fakeRoleSource{},
			cfg:      ResolverConfig{RequireVerifiedEmail: true, RoleFallback: RoleStudent},
			token:    "Bearer tok",
			wantRole: RoleStudent,
		},
		{
			name:     "out of set role resolves unknown",
			verifier: &fakeVerifier{identity: verified},
			roles:    &fakeRoleSource{role: "superuser"},
			cfg:      ResolverConfig{RequireVerifiedEmail: true},
			token:    "Bearer tok",
			wantRole: RoleUnknown,
		},
		{
			name:     "missing token",
			verifier: &fakeVerifier{identity: verified},
			roles:    &fakeRoleSource{role: "student"},
			cfg:      ResolverConfig{},
			token:    "",
			wantErr:  ErrNoCredentials,
		},
		{
			name:     "unverified email rejected",
			verifier: &fakeVerifier{identity: &Identity{UID: "u1", EmailVerified: false}},
			roles:    &fakeRoleSource{role: "student"},
			cfg:      ResolverConfig{RequireVerifiedEmail: true},
			token:    "Bearer tok",
			wantErr:  ErrEmailNotVerified,
		},
		{
			name:     "unverified email allowed when not required",
			verifier: &fakeVerifier{identity: &Identity{UID: "u1", EmailVerified: false}},
			roles:    &fakeRoleSource{role: "student"},
			cfg:      ResolverConfig{RequireVerifiedEmail: false},
			token:    "Bearer tok",
			wantRole: RoleStudent,
		},
		{
			name:     "verifier failure propagates",
			verifier: &fakeVerifier{err: ErrInvalidCredentials},
			roles:    &fakeRoleSource{role: "student"},
			cfg:      ResolverConfig{},
			token:    "Bearer tok",
			wantErr:  ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolver(tt.verifier, tt.roles, tt.cfg)

			req := httptest.NewRequest("GET", "/api/v1/documents", nil)
			if tt.token != "" {
				req.Header.Set("Authorization", tt.token)
			}

			p, err := r.Resolve(req.Context(), req)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p.UID != "u1" {
				t.Errorf("UID = %q, want u1", p.UID)
			}
			if p.Role != tt.wantRole {
				t.Errorf("Role = %q, want %q", p.Role, tt.wantRole)
			}
		})
	}
}

func TestResolveFailsClosedOnStoreError(t *testing.T) {
	r := NewResolver(
		&fakeVerifier{identity: &Identity{UID: "u1", EmailVerified: true}},
		&fakeRoleSource{err: errors.New("store down")},
		ResolverConfig{},
	)

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer tok")

	if _, err := r.Resolve(req.Context(), req); err == nil {
		t.Fatal("expected error when role lookup fails")
	}
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		cookie string
		want   string
	}{
		{"bearer header", "Bearer abc123", "", "abc123"},
		{"case insensitive scheme", "bearer abc123", "", "abc123"},
		{"missing", "", "", ""},
		{"wrong scheme", "Basic dXNlcjpwYXNz", "", ""},
		{"empty token after scheme", "Bearer ", "", ""},
		{"cookie fallback", "", "cookie-token", "cookie-token"},
		{"header beats cookie", "Bearer abc123", "cookie-token", "abc123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: tokenCookieName, Value: tt.cookie})
			}
			if got := extractBearerToken(req); got != tt.want {
				t.Errorf("extractBearerToken() = %q, want %q", got, tt.want)
			}
		})
	}
}
