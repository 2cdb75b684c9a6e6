// Docgate - Document Access Gateway for the Talentfolio Platform
// Copyright 2026 Talentfolio
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/talentfolio/docgate

// Package audit records every access attempt against the secured
// document routes, allowed and denied alike. Entries are append-only;
// the package exposes no update or delete operation besides
// retention-driven purging.
package audit

import (
	"context"
	"time"
)

// Outcome is the terminal result of an access attempt.
type Outcome string

const (
	OutcomeAllowed Outcome = "allowed"
	OutcomeDenied  Outcome = "denied"
)

// Entry is one immutable access log record.
type Entry struct {
	// ID uniquely identifies the entry.
	ID string `json:"id"`

	// Timestamp is when the decision was made.
	Timestamp time.Time `json:"timestamp"`

	// RequestID links the entry to an HTTP request.
	RequestID string `json:"requestId,omitempty"`

	// ActorUID is the authenticated principal.
	ActorUID string `json:"actorUid"`

	// ActorRole is the resolved role used for the decision.
	ActorRole string `json:"actorRole,omitempty"`

	// OwnerUID is the identity whose resources were targeted.
	OwnerUID string `json:"ownerUid,omitempty"`

	// ResourceID is the specific document or resume, when known.
	ResourceID string `json:"resourceId,omitempty"`

	// Method and Path identify the attempted operation.
	Method string `json:"method"`
	Path   string `json:"path"`

	// Outcome records whether access was allowed or denied.
	Outcome Outcome `json:"outcome"`

	// Reason is the decision reason code.
	Reason string `json:"reason,omitempty"`

	// RemoteIP is the client address.
	RemoteIP string `json:"remoteIp,omitempty"`

	// UserAgent is the client's user agent string.
	UserAgent string `json:"userAgent,omitempty"`
}

// Allowed reports whether the entry records a granted access.
func (e *Entry) Allowed() bool {
	return e.Outcome == OutcomeAllowed
}

// QueryFilter narrows a Query call. Zero values match everything.
type QueryFilter struct {
	ActorUID string
	OwnerUID string
	Outcome  Outcome
	Since    time.Time
	Until    time.Time
	Limit    int
}

// Store persists audit entries. Save must tolerate concurrent callers;
// the async logger is the only writer in production but tests write
// directly.
type Store interface {
	// Save appends one entry.
	Save(ctx context.Context, entry *Entry) error

	// Query returns entries matching the filter, most recent first.
	Query(ctx context.Context, filter QueryFilter) ([]Entry, error)

	// Purge removes entries older than cutoff and reports how many
	// were removed. This is retention enforcement, not an exposed
	// delete operation.
	Purge(ctx context.Context, cutoff time.Time) (int, error)
}
