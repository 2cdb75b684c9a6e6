// Docgate - Document Access Gateway for the Talentfolio Platform
// Copyright 2026 Talentfolio
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/talentfolio/docgate

package auth

import "errors"

// Role is the closed set of platform roles a principal can hold.
type Role string

const (
	// RoleStudent is a learner who owns resumes and documents.
	RoleStudent Role = "student"

	// RoleConsultant coaches students through bookings.
	RoleConsultant Role = "consultant"

	// RoleEmployer browses candidates. The legacy "recruiter" name
	// normalizes to this role.
	RoleEmployer Role = "employer"

	// RoleAdmin has unrestricted access and verifies documents.
	RoleAdmin Role = "admin"

	// RoleUnknown marks a role string outside the closed set.
	// Principals resolve with it so the resulting deny is auditable.
	RoleUnknown Role = ""
)

// ErrUnknownRole indicates a role string outside the closed set.
var ErrUnknownRole = errors.New("unknown role")

// ParseRole normalizes a stored role string to a Role.
// "recruiter" is the legacy spelling of employer.
func ParseRole(s string) (Role, error) {
	switch s {
	case "student":
		return RoleStudent, nil
	case "consultant":
		return RoleConsultant, nil
	case "employer", "recruiter":
		return RoleEmployer, nil
	case "admin":
		return RoleAdmin, nil
	default:
		return RoleUnknown, ErrUnknownRole
	}
}

// String returns the canonical role name.
func (r Role) String() string {
	if r == RoleUnknown {
		return "unknown"
	}
	return string(r)
}

// Valid reports whether the role is in the closed set.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleConsultant, RoleEmployer, RoleAdmin:
		return true
	default:
		return false
	}
}
