// Docgate - Document Access Gateway for the Talentfolio Platform
// Copyright 2026 Talentfolio
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/talentfolio/docgate

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/talentfolio/docgate/internal/sanitize"
)

// resumeKeyPrefix namespaces resume records. One resume per user.
const resumeKeyPrefix = "resume:"

// ErrResumeNotFound is returned when a user has no resume.
var ErrResumeNotFound = errors.New("resume not found")

// ResumeStore persists resumes keyed by owner uid.
type ResumeStore struct {
	db *DB
}

// NewResumeStore creates a resume store on the shared database.
func NewResumeStore(db *DB) *ResumeStore {
	return &ResumeStore{db: db}
}

func resumeKey(userID string) []byte {
	return []byte(resumeKeyPrefix + userID)
}

// Put writes a resume, stamping UpdatedAt.
func (s *ResumeStore) Put(_ context.Context, r *sanitize.Resume) error {
	if r == nil || r.UserID == "" {
		return fmt.Errorf("resume requires a userId")
	}
	now := time.Now().UTC()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	r.UpdatedAt = now

	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal resume: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(resumeKey(r.UserID), data)
	})
}

// GetByUserID loads a user's resume. Returns ErrResumeNotFound when absent.
func (s *ResumeStore) GetByUserID(_ context.Context, userID string) (*sanitize.Resume, error) {
	var r sanitize.Resume

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(resumeKey(userID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrResumeNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &r)
		})
	})
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// SetAuthorizationDocuments replaces the resume's document reference
// list. A missing resume is not an error: document uploads may precede
// profile completion, the reference list is then dropped.
func (s *ResumeStore) SetAuthorizationDocuments(ctx context.Context, userID string, documentIDs []string) error {
	r, err := s.GetByUserID(ctx, userID)
	if errors.Is(err, ErrResumeNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	r.AuthorizationDocuments = documentIDs
	return s.Put(ctx, r)
}

// Delete removes a user's resume. Deleting an absent resume is not an error.
func (s *ResumeStore) Delete(_ context.Context, userID string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete(resumeKey(userID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		return err
	})
}
