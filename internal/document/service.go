// Docgate - Document Access Gateway for the Talentfolio Platform
// Copyright 2026 Talentfolio
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/talentfolio/docgate

package document

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/talentfolio/docgate/internal/store"
	"github.com/talentfolio/docgate/internal/validation"
)

// Service implements the document operations behind the API. It keeps
// the owner's resume document reference list in sync with uploads and
// deletions, matching the legacy platform's behavior.
type Service struct {
	docs    *BadgerStore
	resumes *store.ResumeStore
}

// NewService creates a document service.
func NewService(docs *BadgerStore, resumes *store.ResumeStore) *Service {
	return &Service{docs: docs, resumes: resumes}
}

// Create stores a new upload in pending status and links it to the
// owner's resume.
func (s *Service) Create(ctx context.Context, ownerUID string, in *Input) (*Document, error) {
	if ownerUID == "" {
		return nil, fmt.Errorf("owner uid is required")
	}
	if err := validation.ValidateStruct(in); err != nil {
		return nil, err
	}
	if !in.Type.Valid() {
		return nil, ErrInvalidType
	}

	doc := &Document{
		ID:           uuid.New().String(),
		OwnerUID:     ownerUID,
		Type:         in.Type,
		FileName:     in.FileName,
		FileURL:      in.FileURL,
		FilePublicID: in.FilePublicID,
		FileSize:     in.FileSize,
		MimeType:     in.MimeType,
		UploadedAt:   time.Now().UTC(),
		ExpiresAt:    in.ExpiresAt,
		Status:       StatusPending,
		Notes:        in.Notes,
	}

	if err := s.docs.Put(ctx, doc); err != nil {
		return nil, err
	}
	if err := s.addResumeRef(ctx, ownerUID, doc.ID); err != nil {
		return nil, err
	}
	return doc, nil
}

// GetByID loads a document.
func (s *Service) GetByID(ctx context.Context, id string) (*Document, error) {
	return s.docs.Get(ctx, id)
}

// ListByOwner returns a user's documents, newest first.
func (s *Service) ListByOwner(ctx context.Context, ownerUID string) ([]Document, error) {
	return s.docs.ListByOwner(ctx, ownerUID)
}

// Delete removes a document and its resume reference.
func (s *Service) Delete(ctx context.Context, id string) error {
	doc, err := s.docs.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.removeResumeRef(ctx, doc.OwnerUID, id); err != nil {
		return err
	}
	return s.docs.Delete(ctx, id)
}

// StatsByOwner counts a user's documents per status.
func (s *Service) StatsByOwner(ctx context.Context, ownerUID string) (*Stats, error) {
	docs, err := s.docs.ListByOwner(ctx, ownerUID)
	if err != nil {
		return nil, err
	}
	stats := &Stats{Total: len(docs)}
	for _, doc := range docs {
		switch doc.Status {
		case StatusPending:
			stats.Pending++
		case StatusVerified:
			stats.Verified++
		case StatusRejected:
			stats.Rejected++
		case StatusExpired:
			stats.Expired++
		}
	}
	return stats, nil
}

// ListPending returns the admin review queue, oldest upload first.
func (s *Service) ListPending(ctx context.Context) ([]Document, error) {
	return s.docs.ListByStatus(ctx, StatusPending)
}

// UpdateStatus moves a document to verified, rejected, or expired and
// records who reviewed it. Rejections must carry a reason the student
// can act on.
func (s *Service) UpdateStatus(ctx context.Context, id string, status Status, verifiedBy, rejectionReason string) (*Document, error) {
	if !status.Valid() || status == StatusPending {
		return nil, ErrInvalidStatus
	}
	if status == StatusRejected && rejectionReason == "" {
		return nil, ErrRejectionReasonRequired
	}
	if verifiedBy == "" {
		return nil, fmt.Errorf("verifiedBy is required")
	}

	doc, err := s.docs.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	doc.Status = status
	doc.VerifiedBy = verifiedBy
	doc.VerifiedAt = &now
	if status == StatusRejected {
		doc.RejectionReason = rejectionReason
	} else {
		doc.RejectionReason = ""
	}

	if err := s.docs.Put(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// ExpireOverdue flips verified documents past their expiry date to
// expired and reports how many changed.
func (s *Service) ExpireOverdue(ctx context.Context) (int, error) {
	docs, err := s.docs.ListByStatus(ctx, StatusVerified)
	if err != nil {
		return 0, err
	}

	now := time.Now().UTC()
	expired := 0
	for i := range docs {
		doc := &docs[i]
		if doc.ExpiresAt == nil || doc.ExpiresAt.After(now) {
			continue
		}
		doc.Status = StatusExpired
		if err := s.docs.Put(ctx, doc); err != nil {
			return expired, err
		}
		expired++
	}
	return expired, nil
}

func (s *Service) addResumeRef(ctx context.Context, ownerUID, docID string) error {
	r, err := s.resumes.GetByUserID(ctx, ownerUID)
	if errors.Is(err, store.ErrResumeNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	for _, id := range r.AuthorizationDocuments {
		if id == docID {
			return nil
		}
	}
	refs := append(r.AuthorizationDocuments, docID)
	return s.resumes.SetAuthorizationDocuments(ctx, ownerUID, refs)
}

func (s *Service) removeResumeRef(ctx context.Context, ownerUID, docID string) error {
	r, err := s.resumes.GetByUserID(ctx, ownerUID)
	if errors.Is(err, store.ErrResumeNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	refs := make([]string, 0, len(r.AuthorizationDocuments))
	for _, id := range r.AuthorizationDocuments {
		if id != docID {
			refs = append(refs, id)
		}
	}
	return s.resumes.SetAuthorizationDocuments(ctx, ownerUID, refs)
}
