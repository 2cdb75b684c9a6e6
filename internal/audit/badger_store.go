// Docgate - Document Access Gateway for the Talentfolio Platform
// Copyright 2026 Talentfolio
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/talentfolio/docgate

package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/talentfolio/docgate/internal/store"
)

// auditKeyPrefix namespaces audit entries. Keys embed a zero-padded
// nanosecond timestamp so lexical order is chronological order.
const auditKeyPrefix = "audit:"

// BadgerStore implements Store on the shared Badger database.
type BadgerStore struct {
	db *store.DB
}

// NewBadgerStore creates a Badger-backed audit store.
func NewBadgerStore(db *store.DB) *BadgerStore {
	return &BadgerStore{db: db}
}

func auditKey(ts time.Time, id string) []byte {
	return []byte(fmt.Sprintf("%s%020d:%s", auditKeyPrefix, ts.UnixNano(), id))
}

// Save appends one entry.
func (s *BadgerStore) Save(_ context.Context, entry *Entry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal audit entry: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(auditKey(entry.Timestamp, entry.ID), data)
	})
}

// Query returns matching entries, most recent first. Badger iterates
// the audit prefix in reverse so Limit short-circuits the scan.
func (s *BadgerStore) Query(ctx context.Context, filter QueryFilter) ([]Entry, error) {
	var results []Entry

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(auditKeyPrefix)
		opts.Reverse = true
		it := txn.NewIterator(opts)
		defer it.Close()

		// Reverse iteration needs a seek key past the whole prefix.
		seek := append([]byte(auditKeyPrefix), 0xFF)
		for it.Seek(seek); it.ValidForPrefix([]byte(auditKeyPrefix)); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			var e Entry
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &e)
			})
			if err != nil {
				return fmt.Errorf("unmarshal audit entry: %w", err)
			}

			if !matchesFilter(&e, &filter) {
				continue
			}
			results = append(results, e)
			if filter.Limit > 0 && len(results) >= filter.Limit {
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// Purge removes entries older than cutoff in a single transaction.
func (s *BadgerStore) Purge(ctx context.Context, cutoff time.Time) (int, error) {
	// Keys older than the cutoff sort strictly below this bound.
	bound := fmt.Sprintf("%s%020d:", auditKeyPrefix, cutoff.UnixNano())

	var keys [][]byte
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(auditKeyPrefix)
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			key := it.Item().KeyCopy(nil)
			if string(key) >= bound {
				break
			}
			keys = append(keys, key)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	if len(keys) == 0 {
		return 0, nil
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		for _, key := range keys {
			if err := txn.Delete(key); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(keys), nil
}
