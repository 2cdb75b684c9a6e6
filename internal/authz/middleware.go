// Docgate - Document Access Gateway for the Talentfolio Platform
// Copyright 2026 Talentfolio
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/talentfolio/docgate

package authz

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/talentfolio/docgate/internal/audit"
	"github.com/talentfolio/docgate/internal/auth"
	"github.com/talentfolio/docgate/internal/logging"
)

// Middleware enforces admin RBAC on a route group. Every request
// through it is audited, allowed and denied alike.
type Middleware struct {
	enforcer *Enforcer
	auditor  *audit.Logger
}

// NewMiddleware creates the admin gate.
func NewMiddleware(enforcer *Enforcer, auditor *audit.Logger) *Middleware {
	return &Middleware{enforcer: enforcer, auditor: auditor}
}

// Require authorizes the request's principal against the casbin
// policy for the request path and method.
func (m *Middleware) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := auth.PrincipalFromContext(r.Context())
		if p == nil {
			// Authenticate must run before this gate.
			writeAdminJSON(w, http.StatusUnauthorized, map[string]string{
				"error": "Authentication required",
			})
			return
		}

		allowed, err := m.enforcer.EnforceAny(p.UID, []string{p.Role.String()}, r.URL.Path, r.Method)
		if err != nil {
			logging.Ctx(r.Context()).Error().
				Err(err).
				Str("uid", p.UID).
				Str("path", r.URL.Path).
				Msg("Admin policy enforcement failed")
			writeAdminJSON(w, http.StatusInternalServerError, map[string]string{
				"error":   "Internal server error",
				"message": "Security check failed",
			})
			return
		}

		m.record(r, p, allowed)

		if !allowed {
			writeAdminJSON(w, http.StatusForbidden, map[string]string{
				"error":   "Access denied",
				"message": "Administrator access required",
				"code":    "ADMIN_ONLY",
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (m *Middleware) record(r *http.Request, p *auth.Principal, allowed bool) {
	outcome := audit.OutcomeAllowed
	reason := "ADMIN_ACCESS"
	if !allowed {
		outcome = audit.OutcomeDenied
		reason = "ADMIN_ONLY"
	}
	m.auditor.Record(&audit.Entry{
		RequestID: logging.RequestIDFromContext(r.Context()),
		ActorUID:  p.UID,
		ActorRole: p.Role.String(),
		Method:    r.Method,
		Path:      r.URL.Path,
		Outcome:   outcome,
		Reason:    reason,
		RemoteIP:  r.RemoteAddr,
		UserAgent: r.UserAgent(),
	})
}

func writeAdminJSON(w http.ResponseWriter, status int, body map[string]string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Error().Err(err).Msg("Failed to encode admin authz response")
	}
}
