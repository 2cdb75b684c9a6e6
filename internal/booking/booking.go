// Docgate - Document Access Gateway for the Talentfolio Platform
// Copyright 2026 Talentfolio
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/talentfolio/docgate

// Package booking tracks consultant-student bookings and answers the
// relationship question the access policy depends on.
package booking

import (
	"context"
	"time"
)

// Status is the lifecycle state of a booking.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Valid reports whether the status is a known lifecycle state.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

// Qualifies reports whether a booking in this status establishes a
// consultant-student relationship for document access.
func (s Status) Qualifies() bool {
	return s == StatusConfirmed || s == StatusCompleted
}

// Booking is a coaching session between a consultant and a student.
type Booking struct {
	ID           string    `json:"id"`
	ConsultantID string    `json:"consultantId"`
	StudentID    string    `json:"studentId"`
	Status       Status    `json:"status"`
	Topic        string    `json:"topic,omitempty"`
	ScheduledAt  time.Time `json:"scheduledAt"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Store persists bookings and answers relationship checks.
//
// HasActiveRelationship must hit the store on every call. Relationship
// state is never cached: a cancelled booking revokes access on the
// next request.
type Store interface {
	// Put creates or updates a booking.
	Put(ctx context.Context, b *Booking) error

	// Get loads a booking by id.
	Get(ctx context.Context, id string) (*Booking, error)

	// HasActiveRelationship reports whether at least one booking
	// between the consultant and the student is confirmed or
	// completed. It short-circuits at the first qualifying booking.
	HasActiveRelationship(ctx context.Context, consultantID, studentID string) (bool, error)
}
