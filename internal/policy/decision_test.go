// Docgate - Document Access Gateway for the Talentfolio Platform
// Copyright 2026 Talentfolio
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/talentfolio/docgate

package policy

import (
	"testing"

	"github.com/talentfolio/docgate/internal/auth"
)

func TestDecide(t *testing.T) {
	tests := []struct {
		name        string
		principal   *auth.Principal
		in          Input
		wantOutcome Outcome
		wantReason  ReasonCode
	}{
		{
			name:        "student self access",
			principal:   &auth.Principal{UID: "s1", Role: auth.RoleStudent},
			in:          Input{TargetUID: "s1"},
			wantOutcome: Allow,
			wantReason:  ReasonOwnerSelfAccess,
		},
		{
			name:        "student cross access denied",
			principal:   &auth.Principal{UID: "s1", Role: auth.RoleStudent},
			in:          Input{TargetUID: "s2"},
			wantOutcome: Deny,
			wantReason:  ReasonOwnershipMismatch,
		},
		{
			name:        "admin override",
			principal:   &auth.Principal{UID: "a1", Role: auth.RoleAdmin},
			in:          Input{TargetUID: "s1"},
			wantOutcome: Allow,
			wantReason:  ReasonAdminOverride,
		},
		{
			name:        "employer blocked",
			principal:   &auth.Principal{UID: "e1", Role: auth.RoleEmployer},
			in:          Input{TargetUID: "s1"},
			wantOutcome: Deny,
			wantReason:  ReasonEmployerBlocked,
		},
		{
			name:        "employer blocked even on self-shaped target",
			principal:   &auth.Principal{UID: "e1", Role: auth.RoleEmployer},
			in:          Input{TargetUID: "e1"},
			wantOutcome: Deny,
			wantReason:  ReasonEmployerBlocked,
		},
		{
			name:        "consultant with relationship",
			principal:   &auth.Principal{UID: "c1", Role: auth.RoleConsultant},
			in:          Input{TargetUID: "s1", HasRelationship: true},
			wantOutcome: Allow,
			wantReason:  ReasonConsultantRelationship,
		},
		{
			name:        "consultant without relationship",
			principal:   &auth.Principal{UID: "c1", Role: auth.RoleConsultant},
			in:          Input{TargetUID: "s1", HasRelationship: false},
			wantOutcome: Deny,
			wantReason:  ReasonConsultantDenied,
		},
		{
			name:        "consultant self access",
			principal:   &auth.Principal{UID: "c1", Role: auth.RoleConsultant},
			in:          Input{TargetUID: "c1"},
			wantOutcome: Allow,
			wantReason:  ReasonOwnerSelfAccess,
		},
		{
			name:        "unknown role denies",
			principal:   &auth.Principal{UID: "u1", Role: auth.RoleUnknown},
			in:          Input{TargetUID: "s1"},
			wantOutcome: Deny,
			wantReason:  ReasonOwnershipMismatch,
		},
		{
			name:        "unknown role denies even on self",
			principal:   &auth.Principal{UID: "u1", Role: auth.RoleUnknown},
			in:          Input{TargetUID: "u1", HasRelationship: true},
			wantOutcome: Deny,
			wantReason:  ReasonOwnershipMismatch,
		},
		{
			name:        "nil principal denies",
			principal:   nil,
			in:          Input{TargetUID: "s1"},
			wantOutcome: Deny,
			wantReason:  ReasonOwnershipMismatch,
		},
		{
			name:        "empty uid never matches empty target",
			principal:   &auth.Principal{UID: "", Role: auth.RoleStudent},
			in:          Input{TargetUID: ""},
			wantOutcome: Deny,
			wantReason:  ReasonOwnershipMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decide(tt.principal, tt.in)
			if got.Outcome != tt.wantOutcome {
				t.Errorf("Outcome = %q, want %q", got.Outcome, tt.wantOutcome)
			}
			if got.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", got.Reason, tt.wantReason)
			}
		})
	}
}

func TestDecideIsPure(t *testing.T) {
	p := &auth.Principal{UID: "c1", Role: auth.RoleConsultant}
	in := Input{TargetUID: "s1", HasRelationship: true}

	first := Decide(p, in)
	for i := 0; i < 100; i++ {
		if got := Decide(p, in); got != first {
			t.Fatalf("Decide not deterministic: %+v != %+v", got, first)
		}
	}
}

func TestNeedsRelationship(t *testing.T) {
	tests := []struct {
		name      string
		principal *auth.Principal
		target    string
		want      bool
	}{
		{"consultant cross", &auth.Principal{UID: "c1", Role: auth.RoleConsultant}, "s1", true},
		{"consultant self", &auth.Principal{UID: "c1", Role: auth.RoleConsultant}, "c1", false},
		{"student", &auth.Principal{UID: "s1", Role: auth.RoleStudent}, "s2", false},
		{"admin", &auth.Principal{UID: "a1", Role: auth.RoleAdmin}, "s1", false},
		{"employer", &auth.Principal{UID: "e1", Role: auth.RoleEmployer}, "s1", false},
		{"nil", nil, "s1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NeedsRelationship(tt.principal, tt.target); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}
