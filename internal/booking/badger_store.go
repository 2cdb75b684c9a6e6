// Docgate - Document Access Gateway for the Talentfolio Platform
// Copyright 2026 Talentfolio
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/talentfolio/docgate

package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/talentfolio/docgate/internal/store"
)

// Key prefixes. The relationship index makes HasActiveRelationship a
// prefix scan over one consultant-student pair instead of a full scan.
const (
	bookingKeyPrefix = "booking:"
	relKeyPrefix     = "bookingrel:"
)

// ErrBookingNotFound is returned when no booking exists for an id.
var ErrBookingNotFound = errors.New("booking not found")

// BadgerStore implements Store on the shared Badger database.
type BadgerStore struct {
	db *store.DB
}

// NewBadgerStore creates a booking store.
func NewBadgerStore(db *store.DB) *BadgerStore {
	return &BadgerStore{db: db}
}

func bookingKey(id string) []byte {
	return []byte(bookingKeyPrefix + id)
}

func relKey(consultantID, studentID, bookingID string) []byte {
	return []byte(relKeyPrefix + consultantID + ":" + studentID + ":" + bookingID)
}

func relPrefix(consultantID, studentID string) []byte {
	return []byte(relKeyPrefix + consultantID + ":" + studentID + ":")
}

// Put creates or updates a booking and its relationship index entry.
// The index value carries the status so relationship checks read the
// index alone.
func (s *BadgerStore) Put(_ context.Context, b *Booking) error {
	if b == nil || b.ID == "" {
		return fmt.Errorf("booking requires an id")
	}
	if b.ConsultantID == "" || b.StudentID == "" {
		return fmt.Errorf("booking %s requires consultant and student ids", b.ID)
	}
	if !b.Status.Valid() {
		return fmt.Errorf("booking %s has invalid status %q", b.ID, b.Status)
	}

	now := time.Now().UTC()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now

	data, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("marshal booking: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(bookingKey(b.ID), data); err != nil {
			return err
		}
		return txn.Set(relKey(b.ConsultantID, b.StudentID, b.ID), []byte(b.Status))
	})
}

// Get loads a booking by id. Returns ErrBookingNotFound when absent.
func (s *BadgerStore) Get(_ context.Context, id string) (*Booking, error) {
	var b Booking

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(bookingKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrBookingNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &b)
		})
	})
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// HasActiveRelationship scans the relationship index for the pair and
// stops at the first confirmed or completed booking.
func (s *BadgerStore) HasActiveRelationship(ctx context.Context, consultantID, studentID string) (bool, error) {
	if consultantID == "" || studentID == "" {
		return false, nil
	}

	found := false
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		opts.Prefix = relPrefix(consultantID, studentID)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var qualifies bool
			err := it.Item().Value(func(val []byte) error {
				qualifies = Status(val).Qualifies()
				return nil
			})
			if err != nil {
				return err
			}
			if qualifies {
				found = true
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("scan bookings for %s/%s: %w", consultantID, studentID, err)
	}
	return found, nil
}
