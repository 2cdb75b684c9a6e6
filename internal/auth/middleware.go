// Docgate - Document Access Gateway for the Talentfolio Platform
// Copyright 2026 Talentfolio
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/talentfolio/docgate

package auth

import (
	"errors"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/talentfolio/docgate/internal/logging"
)

// Middleware enforces authentication and attaches the Principal to the
// request context.
type Middleware struct {
	resolver *Resolver
}

// NewMiddleware creates the authentication middleware.
func NewMiddleware(resolver *Resolver) *Middleware {
	return &Middleware{resolver: resolver}
}

// Authenticate resolves the principal or rejects the request.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, err := m.resolver.Resolve(r.Context(), r)
		if err != nil {
			m.handleAuthError(w, r, err)
			return
		}

		ctx := ContextWithPrincipal(r.Context(), principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// handleAuthError maps resolution failures to HTTP responses.
// Any unexpected failure denies the request.
func (m *Middleware) handleAuthError(w http.ResponseWriter, r *http.Request, err error) {
	log := logging.Ctx(r.Context())

	switch {
	case errors.Is(err, ErrNoCredentials),
		errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrExpiredCredentials):
		log.Debug().Err(err).Msg("authentication failed")
		writeJSON(w, http.StatusUnauthorized, map[string]string{
			"error": "Authentication required",
		})

	case errors.Is(err, ErrEmailNotVerified):
		log.Debug().Err(err).Msg("authentication rejected for unverified email")
		writeJSON(w, http.StatusUnauthorized, map[string]string{
			"error":   "Authentication required",
			"message": "Email address must be verified",
		})

	case errors.Is(err, ErrRoleUnresolved):
		log.Warn().Err(err).Msg("principal has no resolvable role")
		writeJSON(w, http.StatusForbidden, map[string]string{
			"error":   "Access denied",
			"message": "No role assigned to this account",
			"code":    "ROLE_UNRESOLVED",
		})

	default:
		log.Error().Err(err).Msg("principal resolution failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error":   "Internal server error",
			"message": "Security check failed",
		})
	}
}

// writeJSON encodes a response body. Encoding failures are logged and
// otherwise ignored; headers are already written.
func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Error().Err(err).Msg("failed to encode auth error response")
	}
}
