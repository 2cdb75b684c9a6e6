// Docgate - Document Access Gateway for the Talentfolio Platform
// Copyright 2026 Talentfolio
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/talentfolio/docgate

// Package policy decides whether a principal may access another user's
// documents. The decision function is pure: role, target, and the
// already-resolved relationship go in, an outcome and reason come out.
// All I/O (relationship lookup, auditing, response writing) happens in
// the callers.
package policy

import "github.com/talentfolio/docgate/internal/auth"

// Outcome is the result of an access decision.
type Outcome string

const (
	// Allow grants access.
	Allow Outcome = "allow"

	// Deny refuses access.
	Deny Outcome = "deny"
)

// ReasonCode explains a decision. Every decision carries exactly one.
type ReasonCode string

const (
	// ReasonOwnerSelfAccess - the principal is the target user.
	ReasonOwnerSelfAccess ReasonCode = "OWNER_SELF_ACCESS"

	// ReasonAdminOverride - admins access everything.
	ReasonAdminOverride ReasonCode = "ADMIN_OVERRIDE"

	// ReasonConsultantDenied - consultant with no qualifying booking.
	ReasonConsultantDenied ReasonCode = "CONSULTANT_ACCESS_DENIED"

	// ReasonConsultantRelationship - consultant with a confirmed or
	// completed booking with the target student.
	ReasonConsultantRelationship ReasonCode = "CONSULTANT_RELATIONSHIP"

	// ReasonEmployerBlocked - employers never reach student documents.
	ReasonEmployerBlocked ReasonCode = "EMPLOYER_BLOCKED"

	// ReasonOwnershipMismatch - the record belongs to someone else.
	ReasonOwnershipMismatch ReasonCode = "OWNERSHIP_MISMATCH"
)

// Input carries the facts a decision is made from.
type Input struct {
	// TargetUID is the user whose documents are being accessed.
	TargetUID string

	// HasRelationship is the live booking check result. Only
	// consulted when the principal is a consultant.
	HasRelationship bool
}

// Decision is the outcome of evaluating a principal against an input.
type Decision struct {
	Outcome Outcome
	Reason  ReasonCode
}

// Allowed reports whether the decision grants access.
func (d Decision) Allowed() bool {
	return d.Outcome == Allow
}

// Decide evaluates the access matrix.
//
// Precedence: admin override, then self access, then role rules.
// Employers are blocked from student document routes unconditionally;
// they have no student documents of their own, so self access cannot
// apply to them here. Unknown roles deny.
func Decide(p *auth.Principal, in Input) Decision {
	if p == nil {
		return Decision{Outcome: Deny, Reason: ReasonOwnershipMismatch}
	}

	if p.Role == auth.RoleAdmin {
		return Decision{Outcome: Allow, Reason: ReasonAdminOverride}
	}

	if p.Role == auth.RoleEmployer {
		return Decision{Outcome: Deny, Reason: ReasonEmployerBlocked}
	}

	// Roles outside the closed set deny everything, self access included.
	if !p.Role.Valid() {
		return Decision{Outcome: Deny, Reason: ReasonOwnershipMismatch}
	}

	if p.UID != "" && p.UID == in.TargetUID {
		return Decision{Outcome: Allow, Reason: ReasonOwnerSelfAccess}
	}

	switch p.Role {
	case auth.RoleConsultant:
		if in.HasRelationship {
			return Decision{Outcome: Allow, Reason: ReasonConsultantRelationship}
		}
		return Decision{Outcome: Deny, Reason: ReasonConsultantDenied}
	default:
		return Decision{Outcome: Deny, Reason: ReasonOwnershipMismatch}
	}
}

// NeedsRelationship reports whether a relationship lookup is required
// before deciding: only consultants accessing another user need it.
func NeedsRelationship(p *auth.Principal, targetUID string) bool {
	if p == nil {
		return false
	}
	return p.Role == auth.RoleConsultant && p.UID != targetUID
}
