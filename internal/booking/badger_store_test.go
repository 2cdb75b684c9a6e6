// Docgate - Document Access Gateway for the Talentfolio Platform
// Copyright 2026 Talentfolio
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/talentfolio/docgate

package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/talentfolio/docgate/internal/store"
)

func newTestStore(t *testing.T) *BadgerStore {
	t.Helper()
	db, err := store.OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewBadgerStore(db)
}

func TestPutAndGet(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	b := &Booking{
		ID:           "b1",
		ConsultantID: "c1",
		StudentID:    "s1",
		Status:       StatusConfirmed,
		ScheduledAt:  time.Now().Add(time.Hour),
	}
	if err := s.Put(ctx, b); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := s.Get(ctx, "b1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ConsultantID != "c1" || got.StudentID != "s1" || got.Status != StatusConfirmed {
		t.Errorf("got %+v", got)
	}
}

func TestGetMissing(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Get(context.Background(), "nope"); !errors.Is(err, ErrBookingNotFound) {
		t.Fatalf("err = %v, want ErrBookingNotFound", err)
	}
}

func TestPutValidation(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	tests := []struct {
		name string
		b    *Booking
	}{
		{"nil", nil},
		{"missing id", &Booking{ConsultantID: "c1", StudentID: "s1", Status: StatusPending}},
		{"missing consultant", &Booking{ID: "b1", StudentID: "s1", Status: StatusPending}},
		{"missing student", &Booking{ID: "b1", ConsultantID: "c1", Status: StatusPending}},
		{"bad status", &Booking{ID: "b1", ConsultantID: "c1", StudentID: "s1", Status: "scheduled"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := s.Put(ctx, tt.b); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestHasActiveRelationship(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		bookings []Booking
		want     bool
	}{
		{
			name: "confirmed booking qualifies",
			bookings: []Booking{
				{ID: "b1", ConsultantID: "c1", StudentID: "s1", Status: StatusConfirmed},
			},
			want: true,
		},
		{
			name: "completed booking qualifies",
			bookings: []Booking{
				{ID: "b1", ConsultantID: "c1", StudentID: "s1", Status: StatusCompleted},
			},
			want: true,
		},
		{
			name: "pending does not qualify",
			bookings: []Booking{
				{ID: "b1", ConsultantID: "c1", StudentID: "s1", Status: StatusPending},
			},
			want: false,
		},
		{
			name: "cancelled does not qualify",
			bookings: []Booking{
				{ID: "b1", ConsultantID: "c1", StudentID: "s1", Status: StatusCancelled},
			},
			want: false,
		},
		{
			name: "one qualifying among many",
			bookings: []Booking{
				{ID: "b1", ConsultantID: "c1", StudentID: "s1", Status: StatusCancelled},
				{ID: "b2", ConsultantID: "c1", StudentID: "s1", Status: StatusPending},
				{ID: "b3", ConsultantID: "c1", StudentID: "s1", Status: StatusCompleted},
			},
			want: true,
		},
		{
			name: "other pair does not leak",
			bookings: []Booking{
				{ID: "b1", ConsultantID: "c1", StudentID: "s2", Status: StatusConfirmed},
				{ID: "b2", ConsultantID: "c2", StudentID: "s1", Status: StatusConfirmed},
			},
			want: false,
		},
		{
			name:     "no bookings",
			bookings: nil,
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(t)
			for i := range tt.bookings {
				if err := s.Put(ctx, &tt.bookings[i]); err != nil {
					t.Fatal(err)
				}
			}
			got, err := s.HasActiveRelationship(ctx, "c1", "s1")
			if err != nil {
				t.Fatalf("HasActiveRelationship: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRelationshipReflectsStatusChange(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	b := &Booking{ID: "b1", ConsultantID: "c1", StudentID: "s1", Status: StatusConfirmed}
	if err := s.Put(ctx, b); err != nil {
		t.Fatal(err)
	}

	got, err := s.HasActiveRelationship(ctx, "c1", "s1")
	if err != nil || !got {
		t.Fatalf("expected relationship, got %v err %v", got, err)
	}

	// Cancel and recheck: access must be revoked on the next call.
	b.Status = StatusCancelled
	if err := s.Put(ctx, b); err != nil {
		t.Fatal(err)
	}
	got, err = s.HasActiveRelationship(ctx, "c1", "s1")
	if err != nil {
		t.Fatal(err)
	}
	if got {
		t.Error("cancelled booking should not qualify")
	}
}

func TestHasActiveRelationshipEmptyIDs(t *testing.T) {
	s := newTestStore(t)
	got, err := s.HasActiveRelationship(context.Background(), "", "s1")
	if err != nil {
		t.Fatal(err)
	}
	if got {
		t.Error("empty consultant id must not match")
	}
}
