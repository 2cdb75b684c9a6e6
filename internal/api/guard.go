// Docgate - Document Access Gateway for the Talentfolio Platform
// Copyright 2026 Talentfolio
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/talentfolio/docgate

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/talentfolio/docgate/internal/audit"
	"github.com/talentfolio/docgate/internal/auth"
	"github.com/talentfolio/docgate/internal/booking"
	"github.com/talentfolio/docgate/internal/logging"
	"github.com/talentfolio/docgate/internal/ownership"
	"github.com/talentfolio/docgate/internal/policy"
)

// Guard is the coarse document access gate. It resolves the target
// user from the route, runs the access matrix with a live booking
// lookup when one is needed, audits the outcome, and writes the
// legacy denial shapes. Decisions are never cached.
type Guard struct {
	bookings booking.Store
	auditor  *audit.Logger
}

// NewGuard creates the gate.
func NewGuard(bookings booking.Store, auditor *audit.Logger) *Guard {
	return &Guard{bookings: bookings, auditor: auditor}
}

// GuardUser gates the /users/{userID} route group. The path parameter
// is the document owner, so the coarse decision here is exact, not
// just a fast path.
func (g *Guard) GuardUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := auth.PrincipalFromContext(r.Context())
		if p == nil {
			WriteAuthRequired(w)
			return
		}

		targetUID := chi.URLParam(r, "userID")
		start := time.Now()

		in := policy.Input{TargetUID: targetUID}
		relationshipChecked := false
		if policy.NeedsRelationship(p, targetUID) {
			relationshipChecked = true
			has, err := g.bookings.HasActiveRelationship(r.Context(), p.UID, targetUID)
			if err != nil {
				policy.RecordCheckError("booking_lookup")
				logging.Ctx(r.Context()).Error().
					Err(err).
					Str("consultant_uid", p.UID).
					Str("student_uid", targetUID).
					Msg("Booking relationship lookup failed")
				g.record(r, p, targetUID, "", audit.OutcomeDenied, "SECURITY_CHECK_FAILED")
				WriteSecurityFailure(w)
				return
			}
			in.HasRelationship = has
		}

		d := policy.Decide(p, in)
		policy.RecordDecision(p.Role.String(), d, time.Since(start), relationshipChecked)

		outcome := audit.OutcomeAllowed
		if !d.Allowed() {
			outcome = audit.OutcomeDenied
		}
		g.record(r, p, targetUID, "", outcome, string(d.Reason))

		if !d.Allowed() {
			message, code := denyShape(p, d.Reason)
			WriteAccessDenied(w, message, code)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// AuthorizeRecord is the ownership verifier for record-addressed
// routes, run after the document is loaded. It audits and answers the
// request itself on denial; the handler proceeds only on true.
func (g *Guard) AuthorizeRecord(w http.ResponseWriter, r *http.Request, resourceID, ownerUID string) bool {
	p := auth.PrincipalFromContext(r.Context())
	if p == nil {
		WriteAuthRequired(w)
		return false
	}

	// The employer block holds on record routes too, before any
	// ownership reasoning.
	if p.Role == auth.RoleEmployer {
		d := policy.Decision{Outcome: policy.Deny, Reason: policy.ReasonEmployerBlocked}
		policy.RecordDecision(p.Role.String(), d, 0, false)
		g.record(r, p, ownerUID, resourceID, audit.OutcomeDenied, string(d.Reason))
		message, code := denyShape(p, d.Reason)
		WriteAccessDenied(w, message, code)
		return false
	}

	if err := ownership.Verify(p, ownerUID); err != nil {
		d := policy.Decision{Outcome: policy.Deny, Reason: policy.ReasonOwnershipMismatch}
		policy.RecordDecision(p.Role.String(), d, 0, false)
		g.record(r, p, ownerUID, resourceID, audit.OutcomeDenied, string(d.Reason))
		message, code := denyShape(p, d.Reason)
		WriteAccessDenied(w, message, code)
		return false
	}

	reason := policy.ReasonOwnerSelfAccess
	if p.Role == auth.RoleAdmin {
		reason = policy.ReasonAdminOverride
	}
	policy.RecordDecision(p.Role.String(), policy.Decision{Outcome: policy.Allow, Reason: reason}, 0, false)
	g.record(r, p, ownerUID, resourceID, audit.OutcomeAllowed, string(reason))
	return true
}

func (g *Guard) record(r *http.Request, p *auth.Principal, ownerUID, resourceID string, outcome audit.Outcome, reason string) {
	g.auditor.Record(&audit.Entry{
		RequestID:  logging.RequestIDFromContext(r.Context()),
		ActorUID:   p.UID,
		ActorRole:  p.Role.String(),
		OwnerUID:   ownerUID,
		ResourceID: resourceID,
		Method:     r.Method,
		Path:       r.URL.Path,
		Outcome:    outcome,
		Reason:     reason,
		RemoteIP:   r.RemoteAddr,
		UserAgent:  r.UserAgent(),
	})
}

// denyShape maps a denial reason to the legacy response body.
func denyShape(p *auth.Principal, reason policy.ReasonCode) (message, code string) {
	switch reason {
	case policy.ReasonEmployerBlocked:
		return "Employers cannot access student private documents", string(reason)
	case policy.ReasonConsultantDenied:
		return "Consultants can only access documents of students they have bookings with", string(reason)
	case policy.ReasonOwnershipMismatch:
		if p != nil && p.Role.Valid() {
			return "You can only access your own documents", string(reason)
		}
		return "Insufficient permissions to access documents", string(reason)
	default:
		return "Insufficient permissions to access documents", string(reason)
	}
}
