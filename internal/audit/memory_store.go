// Docgate - Document Access Gateway for the Talentfolio Platform
// Copyright 2026 Talentfolio
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/talentfolio/docgate

package audit

import (
	"context"
	"sync"
	"time"
)

// MemoryStore implements Store in memory. Suitable for development
// and tests; entries are lost on restart.
type MemoryStore struct {
	mu      sync.RWMutex
	entries []Entry
	maxLen  int
}

// NewMemoryStore creates an in-memory audit store holding at most
// maxLen entries. Oldest entries are evicted past the cap.
func NewMemoryStore(maxLen int) *MemoryStore {
	if maxLen <= 0 {
		maxLen = 10000
	}
	return &MemoryStore{
		entries: make([]Entry, 0, maxLen),
		maxLen:  maxLen,
	}
}

// Save appends one entry.
func (s *MemoryStore) Save(_ context.Context, entry *Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.entries) >= s.maxLen {
		drop := s.maxLen / 10
		if drop < 1 {
			drop = 1
		}
		s.entries = s.entries[drop:]
	}
	s.entries = append(s.entries, *entry)
	return nil
}

// Query returns matching entries, most recent first.
func (s *MemoryStore) Query(_ context.Context, filter QueryFilter) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var results []Entry
	for i := len(s.entries) - 1; i >= 0; i-- {
		e := s.entries[i]
		if !matchesFilter(&e, &filter) {
			continue
		}
		results = append(results, e)
		if filter.Limit > 0 && len(results) >= filter.Limit {
			break
		}
	}
	return results, nil
}

// Purge removes entries older than cutoff.
func (s *MemoryStore) Purge(_ context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.entries[:0]
	removed := 0
	for _, e := range s.entries {
		if e.Timestamp.Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	s.entries = kept
	return removed, nil
}

// Len reports how many entries are stored.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func matchesFilter(e *Entry, f *QueryFilter) bool {
	if f.ActorUID != "" && e.ActorUID != f.ActorUID {
		return false
	}
	if f.OwnerUID != "" && e.OwnerUID != f.OwnerUID {
		return false
	}
	if f.Outcome != "" && e.Outcome != f.Outcome {
		return false
	}
	if !f.Since.IsZero() && e.Timestamp.Before(f.Since) {
		return false
	}
	if !f.Until.IsZero() && e.Timestamp.After(f.Until) {
		return false
	}
	return true
}
