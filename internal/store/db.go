// Docgate - Document Access Gateway for the Talentfolio Platform
// Copyright 2026 Talentfolio
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/talentfolio/docgate

// Package store provides the Badger-backed persistence layer shared by
// the user, booking, document, and audit stores.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/talentfolio/docgate/internal/config"
	"github.com/talentfolio/docgate/internal/logging"
)

// ErrClosed is returned for operations on a closed database.
var ErrClosed = errors.New("store is closed")

// DB wraps a Badger database with lifecycle management.
type DB struct {
	db *badger.DB

	mu     sync.RWMutex
	closed bool

	gcInterval time.Duration
	gcStop     chan struct{}
	gcDone     chan struct{}
}

// Open opens (or creates) the Badger database described by cfg and
// starts the value-log GC loop.
func Open(cfg config.StorageConfig) (*DB, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if cfg.Path == "" {
			return nil, fmt.Errorf("storage path is required")
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}

	d := &DB{
		db:         db,
		gcInterval: cfg.GCInterval,
		gcStop:     make(chan struct{}),
		gcDone:     make(chan struct{}),
	}

	if !cfg.InMemory && d.gcInterval > 0 {
		go d.gcLoop()
	} else {
		close(d.gcDone)
	}

	logging.Info().
		Str("path", cfg.Path).
		Bool("in_memory", cfg.InMemory).
		Msg("store opened")
	return d, nil
}

// OpenInMemory opens a throwaway in-memory database for tests.
func OpenInMemory() (*DB, error) {
	return Open(config.StorageConfig{InMemory: true})
}

// gcLoop periodically reclaims value-log space.
func (d *DB) gcLoop() {
	defer close(d.gcDone)
	ticker := time.NewTicker(d.gcInterval)
	defer ticker.Stop()

	for {
		select {
		case <-d.gcStop:
			return
		case <-ticker.C:
			if err := d.RunGC(); err != nil {
				logging.Warn().Err(err).Msg("badger GC failed")
			}
		}
	}
}

// RunGC runs value-log garbage collection until no more space can be
// reclaimed.
func (d *DB) RunGC() error {
	d.mu.RLock()
	if d.closed {
		d.mu.RUnlock()
		return ErrClosed
	}
	d.mu.RUnlock()

	for {
		err := d.db.RunValueLogGC(0.5)
		if errors.Is(err, badger.ErrNoRewrite) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("run value log GC: %w", err)
		}
	}
}

// Badger exposes the underlying database to package-level stores.
func (d *DB) Badger() *badger.DB {
	return d.db
}

// Update runs fn inside a read-write transaction.
func (d *DB) Update(fn func(txn *badger.Txn) error) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return ErrClosed
	}
	return d.db.Update(fn)
}

// View runs fn inside a read-only transaction.
func (d *DB) View(fn func(txn *badger.Txn) error) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return ErrClosed
	}
	return d.db.View(fn)
}

// Close stops the GC loop and closes the database.
func (d *DB) Close() error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	d.mu.Unlock()

	close(d.gcStop)

	select {
	case <-d.gcDone:
	case <-time.After(5 * time.Second):
		logging.Warn().Msg("timed out waiting for GC loop to stop")
	}

	return d.db.Close()
}

// Healthy reports whether the database accepts reads.
func (d *DB) Healthy(_ context.Context) error {
	return d.View(func(_ *badger.Txn) error { return nil })
}
