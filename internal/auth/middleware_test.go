// Docgate - Document Access Gateway for the Talentfolio Platform
// Copyright 2026 Talentfolio
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/talentfolio/docgate

package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
)

func newTestMiddleware(verifier TokenVerifier, roles RoleSource, cfg ResolverConfig) *Middleware {
	return NewMiddleware(NewResolver(verifier, roles, cfg))
}

func TestAuthenticateAttachesPrincipal(t *testing.T) {
	m := newTestMiddleware(
		&fakeVerifier{identity: &Identity{UID: "u1", Email: "u1@example.com", EmailVerified: true}},
		&fakeRoleSource{role: "student"},
		ResolverConfig{RequireVerifiedEmail: true},
	)

	var got *Principal
	handler := m.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = PrincipalFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/api/v1/documents", nil)
	req.Header.Set("Authorization", "Bearer tok")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got == nil {
		t.Fatal("principal missing from context")
	}
	if got.UID != "u1" || got.Role != RoleStudent {
		t.Errorf("principal = %+v", got)
	}
}

func TestAuthenticateErrors(t *testing.T) {
	tests := []struct {
		name       string
		verifier   TokenVerifier
		roles      RoleSource
		cfg        ResolverConfig
		withToken  bool
		wantStatus int
		wantBody   map[string]string
	}{
		{
			name:       "missing token",
			verifier:   &fakeVerifier{},
			roles:      &fakeRoleSource{role: "student"},
			withToken:  false,
			wantStatus: http.StatusUnauthorized,
			wantBody:   map[string]string{"error": "Authentication required"},
		},
		{
			name:       "invalid token",
			verifier:   &fakeVerifier{err: ErrInvalidCredentials},
			roles:      &fakeRoleSource{role: "student"},
			withToken:  true,
			wantStatus: http.StatusUnauthorized,
			wantBody:   map[string]string{"error": "Authentication required"},
		},
		{
			name:       "expired token",
			verifier:   &fakeVerifier{err: ErrExpiredCredentials},
			roles:      &fakeRoleSource{role: "student"},
			withToken:  true,
			wantStatus: http.StatusUnauthorized,
			wantBody:   map[string]string{"error": "Authentication required"},
		},
		{
			name:       "unverified email",
			verifier:   &fakeVerifier{identity: &Identity{UID: "u1", EmailVerified: false}},
			roles:      &fakeRoleSource{role: "student"},
			cfg:        ResolverConfig{RequireVerifiedEmail: true},
			withToken:  true,
			wantStatus: http.StatusUnauthorized,
			wantBody: map[string]string{
				"error":   "Authentication required",
				"message": "Email address must be verified",
			},
		},
		{
			name:       "role unresolved",
			verifier:   &fakeVerifier{identity: &Identity{UID: "u1", EmailVerified: true}},
			roles:      &fakeRoleSource{},
			withToken:  true,
			wantStatus: http.StatusForbidden,
			wantBody: map[string]string{
				"error":   "Access denied",
				"message": "No role assigned to this account",
				"code":    "ROLE_UNRESOLVED",
			},
		},
		{
			name:       "store failure fails closed",
			verifier:   &fakeVerifier{identity: &Identity{UID: "u1", EmailVerified: true}},
			roles:      &fakeRoleSource{err: errStoreDown},
			withToken:  true,
			wantStatus: http.StatusInternalServerError,
			wantBody: map[string]string{
				"error":   "Internal server error",
				"message": "Security check failed",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMiddleware(tt.verifier, tt.roles, tt.cfg)

			called := false
			handler := m.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
			}))

			req := httptest.NewRequest("GET", "/api/v1/documents", nil)
			if tt.withToken {
				req.Header.Set("Authorization", "Bearer tok")
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if called {
				t.Fatal("handler must not run on auth failure")
			}
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
				t.Errorf("Content-Type = %q", ct)
			}

			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid JSON body: %v", err)
			}
			for k, want := range tt.wantBody {
				if body[k] != want {
					t.Errorf("body[%q] = %q, want %q", k, body[k], want)
				}
			}
		})
	}
}

var errStoreDown = &storeDownError{}

type storeDownError struct{}

func (*storeDownError) Error() string { return "store down" }
