// Docgate - Document Access Gateway for the Talentfolio Platform
// Copyright 2026 Talentfolio
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/talentfolio/docgate

// Package document manages work authorization documents: student
// uploads, the admin verification workflow, and expiry tracking.
package document

import (
	"errors"
	"time"
)

// Type classifies an authorization document.
type Type string

const (
	TypeWorkPermit    Type = "work-permit"
	TypeVisa          Type = "visa"
	TypeResidenceCard Type = "residence-card"
	TypeOther         Type = "other"
)

// Valid reports whether t is a known document type.
func (t Type) Valid() bool {
	switch t {
	case TypeWorkPermit, TypeVisa, TypeResidenceCard, TypeOther:
		return true
	}
	return false
}

// Status is the verification state of a document.
type Status string

const (
	StatusPending  Status = "pending"
	StatusVerified Status = "verified"
	StatusRejected Status = "rejected"
	StatusExpired  Status = "expired"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusVerified, StatusRejected, StatusExpired:
		return true
	}
	return false
}

var (
	// ErrDocumentNotFound is returned when no document exists for an id.
	ErrDocumentNotFound = errors.New("document not found")

	// ErrInvalidType is returned for a document type outside the known set.
	ErrInvalidType = errors.New("invalid document type")

	// ErrInvalidStatus is returned for a status outside the known set.
	ErrInvalidStatus = errors.New("invalid document status")

	// ErrRejectionReasonRequired is returned when a rejection carries
	// no reason for the student.
	ErrRejectionReasonRequired = errors.New("rejection requires a reason")
)

// Document is one stored authorization document. File content lives
// in external object storage; only the reference is kept here.
type Document struct {
	ID              string     `json:"id"`
	OwnerUID        string     `json:"ownerUid"`
	Type            Type       `json:"documentType"`
	FileName        string     `json:"fileName"`
	FileURL         string     `json:"fileUrl"`
	FilePublicID    string     `json:"filePublicId,omitempty"`
	FileSize        int64      `json:"fileSize"`
	MimeType        string     `json:"mimeType"`
	UploadedAt      time.Time  `json:"uploadedAt"`
	ExpiresAt       *time.Time `json:"expiresAt,omitempty"`
	Status          Status     `json:"status"`
	VerifiedBy      string     `json:"verifiedBy,omitempty"`
	VerifiedAt      *time.Time `json:"verifiedAt,omitempty"`
	RejectionReason string     `json:"rejectionReason,omitempty"`
	Notes           string     `json:"notes,omitempty"`
}

// Input carries the client-supplied fields of an upload.
type Input struct {
	Type         Type       `json:"documentType" validate:"required"`
	FileName     string     `json:"fileName" validate:"required"`
	FileURL      string     `json:"fileUrl" validate:"required,url"`
	FilePublicID string     `json:"filePublicId,omitempty"`
	FileSize     int64      `json:"fileSize" validate:"gte=0"`
	MimeType     string     `json:"mimeType" validate:"required"`
	ExpiresAt    *time.Time `json:"expiresAt,omitempty"`
	Notes        string     `json:"notes,omitempty"`
}

// Stats counts a user's documents per status.
type Stats struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Verified int `json:"verified"`
	Rejected int `json:"rejected"`
	Expired  int `json:"expired"`
}
