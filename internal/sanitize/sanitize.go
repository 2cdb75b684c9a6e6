// Docgate - Document Access Gateway for the Talentfolio Platform
// Copyright 2026 Talentfolio
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/talentfolio/docgate

// Package sanitize reduces resume payloads to an employer-safe view.
//
// The transform is a pure function applied at the serialization
// boundary, not a per-endpoint opt-in: every employer-facing response
// passes through Apply before it is encoded, so an endpoint added
// later cannot leak the restricted fields by forgetting a call.
package sanitize

import "github.com/talentfolio/docgate/internal/auth"

// Redact returns an employer-safe copy of r. The input is never
// mutated. Redacting an already redacted resume yields an identical
// result.
func Redact(r Resume) Resume {
	out := r

	out.PersonalInfo = PersonalInfo{Name: r.PersonalInfo.Name}

	if r.Experience != nil {
		out.Experience = make([]Experience, len(r.Experience))
		for i, e := range r.Experience {
			out.Experience[i] = Experience{Title: e.Title, Company: e.Company}
		}
	}

	if r.Education != nil {
		out.Education = make([]Education, len(r.Education))
		for i, e := range r.Education {
			out.Education[i] = Education{Degree: e.Degree, Institution: e.Institution}
		}
	}

	out.BackgroundInformation = ""
	out.Certifications = nil
	out.AuthorizationDocuments = nil
	out.WorkRestrictions = nil
	out.TransportationStatus = ""
	out.WorkAuthorized = nil
	out.WorkEligibilityChecklist = nil

	// The raw resume file contains every field removed above.
	out.ResumeFileURL = ""
	out.ResumeFilePublicID = ""
	out.SalaryExpectation = nil
	out.ExternalProfiles = nil

	return out
}

// ForRole applies Redact when role is employer and passes every other
// role's payload through untouched.
func ForRole(role auth.Role, r Resume) Resume {
	if role != auth.RoleEmployer {
		return r
	}
	return Redact(r)
}

// Apply is the serialization-boundary transform. It recognizes resume
// payloads in the shapes handlers actually produce and redacts them
// for employer principals; anything else passes through unchanged.
func Apply(role auth.Role, payload any) any {
	if role != auth.RoleEmployer {
		return payload
	}
	switch v := payload.(type) {
	case Resume:
		return Redact(v)
	case *Resume:
		if v == nil {
			return v
		}
		out := Redact(*v)
		return &out
	case []Resume:
		out := make([]Resume, len(v))
		for i := range v {
			out[i] = Redact(v[i])
		}
		return out
	case []*Resume:
		out := make([]*Resume, len(v))
		for i, r := range v {
			if r == nil {
				continue
			}
			red := Redact(*r)
			out[i] = &red
		}
		return out
	default:
		return payload
	}
}
