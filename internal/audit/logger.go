// Docgate - Document Access Gateway for the Talentfolio Platform
// Copyright 2026 Talentfolio
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/talentfolio/docgate

package audit

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/talentfolio/docgate/internal/logging"
)

// LoggerConfig configures the async audit logger.
type LoggerConfig struct {
	// BufferSize is the size of the async entry buffer. Entries are
	// dropped, never blocked on, when the buffer is full.
	BufferSize int

	// WriteTimeout bounds a single store write.
	WriteTimeout time.Duration
}

// DefaultLoggerConfig returns production defaults.
func DefaultLoggerConfig() LoggerConfig {
	return LoggerConfig{
		BufferSize:   1000,
		WriteTimeout: 5 * time.Second,
	}
}

// Logger records access attempts asynchronously. Record never blocks
// and never returns an error: auditing is best-effort and must not
// become an availability dependency for the request path. Store
// failures are logged locally and counted, nothing more.
type Logger struct {
	store    Store
	config   LoggerConfig
	entries  chan *Entry
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewLogger creates an audit logger writing to store and starts its
// worker. Callers must Close it to flush buffered entries.
func NewLogger(store Store, config LoggerConfig) *Logger {
	if config.BufferSize <= 0 {
		config.BufferSize = 1000
	}
	if config.WriteTimeout <= 0 {
		config.WriteTimeout = 5 * time.Second
	}

	l := &Logger{
		store:    store,
		config:   config,
		entries:  make(chan *Entry, config.BufferSize),
		stopChan: make(chan struct{}),
	}

	l.wg.Add(1)
	go l.processEntries()

	return l
}

// Record queues an entry for persistence. Fire-and-forget: the entry
// is dropped if the buffer is full or the logger is closed.
func (l *Logger) Record(entry *Entry) {
	if l == nil || entry == nil {
		return
	}

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	select {
	case l.entries <- entry:
	default:
		droppedTotal.Inc()
		logging.Warn().
			Str("actor_uid", entry.ActorUID).
			Str("path", entry.Path).
			Msg("Audit buffer full, entry dropped")
	}
}

// processEntries is the single writer goroutine.
func (l *Logger) processEntries() {
	defer l.wg.Done()

	for {
		select {
		case <-l.stopChan:
			l.drain()
			return
		case entry := <-l.entries:
			l.write(entry)
		}
	}
}

// drain flushes whatever is buffered at shutdown.
func (l *Logger) drain() {
	for {
		select {
		case entry := <-l.entries:
			l.write(entry)
		default:
			return
		}
	}
}

func (l *Logger) write(entry *Entry) {
	ctx, cancel := context.WithTimeout(context.Background(), l.config.WriteTimeout)
	defer cancel()

	if err := l.store.Save(ctx, entry); err != nil {
		writeErrorsTotal.Inc()
		logging.Error().
			Err(err).
			Str("audit_id", entry.ID).
			Msg("Failed to persist audit entry")
		return
	}

	entriesTotal.WithLabelValues(string(entry.Outcome)).Inc()

	evt := logging.Info()
	if !entry.Allowed() {
		evt = logging.Warn()
	}
	evt.
		Str("event_type", "document_access").
		Str("audit_id", entry.ID).
		Str("request_id", entry.RequestID).
		Str("actor_uid", entry.ActorUID).
		Str("actor_role", entry.ActorRole).
		Str("owner_uid", entry.OwnerUID).
		Str("resource_id", entry.ResourceID).
		Str("method", entry.Method).
		Str("path", entry.Path).
		Str("outcome", string(entry.Outcome)).
		Str("reason", entry.Reason).
		Msg("Document access")
}

// BufferUsed reports how many entries are queued, for health checks.
func (l *Logger) BufferUsed() int {
	if l == nil {
		return 0
	}
	return len(l.entries)
}

// Close stops the worker after flushing buffered entries. Record
// calls racing Close may be dropped.
func (l *Logger) Close() {
	if l == nil {
		return
	}
	l.stopOnce.Do(func() {
		close(l.stopChan)
	})
	l.wg.Wait()
}
