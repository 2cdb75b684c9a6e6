// Docgate - Document Access Gateway for the Talentfolio Platform
// Copyright 2026 Talentfolio
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/talentfolio/docgate

// Package ownership is the fine-grained backstop behind the coarse
// policy gate: once a record has been loaded, its stored owner is
// compared with the principal. Route parameters can be spoofed; the
// loaded record's owner field cannot.
package ownership

import (
	"errors"

	"github.com/talentfolio/docgate/internal/auth"
)

// ErrOwnershipMismatch indicates the record belongs to another user.
var ErrOwnershipMismatch = errors.New("record owned by another user")

// Verify checks that the principal may touch a record owned by
// ownerUID. Admins pass unconditionally; everyone else must be the
// owner. A nil principal or empty owner fails closed.
func Verify(p *auth.Principal, ownerUID string) error {
	if p == nil || ownerUID == "" {
		return ErrOwnershipMismatch
	}
	if p.Role == auth.RoleAdmin {
		return nil
	}
	if p.UID == ownerUID {
		return nil
	}
	return ErrOwnershipMismatch
}
