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
)

// userKeyPrefix namespaces user records.
const userKeyPrefix = "user:"

// ErrUserNotFound is returned when no record exists for a uid.
var ErrUserNotFound = errors.New("user not found")

// UserRecord is the stored user profile.
//
// Role and ActiveRole are loose strings exactly as written by the
// legacy platform; normalization to the closed role set happens at
// principal resolution, not here.
type UserRecord struct {
	UID         string    `json:"uid"`
	Email       string    `json:"email,omitempty"`
	DisplayName string    `json:"displayName,omitempty"`
	Role        string    `json:"role,omitempty"`
	ActiveRole  string    `json:"activeRole,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// UserStore persists user records.
type UserStore struct {
	db *DB
}

// NewUserStore creates a user store on the shared database.
func NewUserStore(db *DB) *UserStore {
	return &UserStore{db: db}
}

func userKey(uid string) []byte {
	return []byte(userKeyPrefix + uid)
}

// Put writes a user record, stamping UpdatedAt.
func (s *UserStore) Put(_ context.Context, user *UserRecord) error {
	if user == nil || user.UID == "" {
		return fmt.Errorf("user record requires a uid")
	}
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(userKey(user.UID), data)
	})
}

// Get loads a user record. Returns ErrUserNotFound when absent.
func (s *UserStore) Get(_ context.Context, uid string) (*UserRecord, error) {
	var user UserRecord

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(userKey(uid))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrUserNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &user)
		})
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UserRoles returns the stored role fields for principal resolution.
// A missing record returns empty strings so the resolver's fallback
// applies; other failures propagate and the request fails closed.
func (s *UserStore) UserRoles(ctx context.Context, uid string) (string, string, error) {
	user, err := s.Get(ctx, uid)
	if errors.Is(err, ErrUserNotFound) {
		return "", "", nil
	}
	if err != nil {
		return "", "", fmt.Errorf("get user %s: %w", uid, err)
	}
	return user.Role, user.ActiveRole, nil
}

// Delete removes a user record. Deleting an absent record is not an error.
func (s *UserStore) Delete(_ context.Context, uid string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete(userKey(uid))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		return err
	})
}
