// Docgate - Document Access Gateway for the Talentfolio Platform
// Copyright 2026 Talentfolio
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/talentfolio/docgate

package document

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/talentfolio/docgate/internal/store"
)

// Key layout:
//
//	document:<id>              full record
//	docowner:<ownerUID>:<id>   owner index, empty value
//	docstatus:<status>:<id>    status index, empty value
const (
	docKeyPrefix    = "document:"
	ownerKeyPrefix  = "docowner:"
	statusKeyPrefix = "docstatus:"
)

// BadgerStore persists documents with owner and status indexes.
type BadgerStore struct {
	db *store.DB
}

// NewBadgerStore creates a document store on the shared database.
func NewBadgerStore(db *store.DB) *BadgerStore {
	return &BadgerStore{db: db}
}

func docKey(id string) []byte {
	return []byte(docKeyPrefix + id)
}

func ownerKey(ownerUID, id string) []byte {
	return []byte(ownerKeyPrefix + ownerUID + ":" + id)
}

func statusKey(status Status, id string) []byte {
	return []byte(statusKeyPrefix + string(status) + ":" + id)
}

// Put upserts a document and keeps both indexes consistent in one
// transaction.
func (s *BadgerStore) Put(_ context.Context, doc *Document) error {
	if doc == nil || doc.ID == "" || doc.OwnerUID == "" {
		return fmt.Errorf("document requires id and ownerUid")
	}
	if !doc.Status.Valid() {
		return ErrInvalidStatus
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		// Drop the old status index entry on a status change.
		if old, err := getInTxn(txn, doc.ID); err == nil && old.Status != doc.Status {
			if err := txn.Delete(statusKey(old.Status, doc.ID)); err != nil {
				return err
			}
		} else if err != nil && !errors.Is(err, ErrDocumentNotFound) {
			return err
		}

		if err := txn.Set(docKey(doc.ID), data); err != nil {
			return err
		}
		if err := txn.Set(ownerKey(doc.OwnerUID, doc.ID), nil); err != nil {
			return err
		}
		return txn.Set(statusKey(doc.Status, doc.ID), nil)
	})
}

func getInTxn(txn *badger.Txn, id string) (*Document, error) {
	item, err := txn.Get(docKey(id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrDocumentNotFound
	}
	if err != nil {
		return nil, err
	}
	var doc Document
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &doc)
	})
	if err != nil {
		return nil, fmt.Errorf("unmarshal document: %w", err)
	}
	return &doc, nil
}

// Get loads a document by id. Returns ErrDocumentNotFound when absent.
func (s *BadgerStore) Get(_ context.Context, id string) (*Document, error) {
	var doc *Document
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		doc, err = getInTxn(txn, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// ListByOwner returns a user's documents, newest upload first.
func (s *BadgerStore) ListByOwner(ctx context.Context, ownerUID string) ([]Document, error) {
	docs, err := s.collect(ctx, []byte(ownerKeyPrefix+ownerUID+":"))
	if err != nil {
		return nil, err
	}
	sort.Slice(docs, func(i, j int) bool {
		return docs[i].UploadedAt.After(docs[j].UploadedAt)
	})
	return docs, nil
}

// ListByStatus returns all documents in a status, oldest upload first
// so the admin review queue is FIFO.
func (s *BadgerStore) ListByStatus(ctx context.Context, status Status) ([]Document, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	docs, err := s.collect(ctx, []byte(statusKeyPrefix+string(status)+":"))
	if err != nil {
		return nil, err
	}
	sort.Slice(docs, func(i, j int) bool {
		return docs[i].UploadedAt.Before(docs[j].UploadedAt)
	})
	return docs, nil
}

// collect walks an index prefix and loads the referenced documents.
func (s *BadgerStore) collect(ctx context.Context, prefix []byte) ([]Document, error) {
	var docs []Document
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			key := it.Item().Key()
			id := string(key[len(prefix):])
			doc, err := getInTxn(txn, id)
			if errors.Is(err, ErrDocumentNotFound) {
				// Stale index entry, skip.
				continue
			}
			if err != nil {
				return err
			}
			docs = append(docs, *doc)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return docs, nil
}

// Delete removes a document and its index entries.
func (s *BadgerStore) Delete(_ context.Context, id string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		doc, err := getInTxn(txn, id)
		if err != nil {
			return err
		}
		if err := txn.Delete(docKey(id)); err != nil {
			return err
		}
		if err := txn.Delete(ownerKey(doc.OwnerUID, id)); err != nil {
			return err
		}
		return txn.Delete(statusKey(doc.Status, id))
	})
}
