// Docgate - Document Access Gateway for the Talentfolio Platform
// Copyright 2026 Talentfolio
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/talentfolio/docgate

package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/talentfolio/docgate/internal/auth"
	"github.com/talentfolio/docgate/internal/document"
	"github.com/talentfolio/docgate/internal/logging"
	"github.com/talentfolio/docgate/internal/sanitize"
	"github.com/talentfolio/docgate/internal/store"
	"github.com/talentfolio/docgate/internal/validation"
)

// Handlers implements the secured document endpoints.
type Handlers struct {
	documents *document.Service
	resumes   *store.ResumeStore
	guard     *Guard
}

// NewHandlers creates the handler set.
func NewHandlers(documents *document.Service, resumes *store.ResumeStore, guard *Guard) *Handlers {
	return &Handlers{documents: documents, resumes: resumes, guard: guard}
}

// ListUserDocuments handles GET /users/{userID}/documents.
// The coarse gate has already authorized access to this user.
func (h *Handlers) ListUserDocuments(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	userID := chi.URLParam(r, "userID")

	docs, err := h.documents.ListByOwner(r.Context(), userID)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Str("owner_uid", userID).Msg("Failed to list documents")
		rw.InternalError("Failed to load documents")
		return
	}
	rw.Success(docs)
}

// UserDocumentStats handles GET /users/{userID}/documents/stats.
func (h *Handlers) UserDocumentStats(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	userID := chi.URLParam(r, "userID")

	stats, err := h.documents.StatsByOwner(r.Context(), userID)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Str("owner_uid", userID).Msg("Failed to compute document stats")
		rw.InternalError("Failed to load document stats")
		return
	}
	rw.Success(stats)
}

// GetUserResume handles GET /users/{userID}/resume. The payload
// passes the sanitization boundary unconditionally; it is a no-op for
// every role but employer.
func (h *Handlers) GetUserResume(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	userID := chi.URLParam(r, "userID")

	resume, err := h.resumes.GetByUserID(r.Context(), userID)
	if errors.Is(err, store.ErrResumeNotFound) {
		rw.NotFound("Resume not found")
		return
	}
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Str("owner_uid", userID).Msg("Failed to load resume")
		rw.InternalError("Failed to load resume")
		return
	}

	role := auth.RoleUnknown
	if p := auth.PrincipalFromContext(r.Context()); p != nil {
		role = p.Role
	}
	rw.Success(sanitize.Apply(role, resume))
}

// CreateDocument handles POST /documents. Uploads are always for the
// authenticated principal; the record gate enforces that employers
// cannot create student documents.
func (h *Handlers) CreateDocument(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	p := auth.PrincipalFromContext(r.Context())
	if p == nil {
		WriteAuthRequired(w)
		return
	}
	if !h.guard.AuthorizeRecord(w, r, "", p.UID) {
		return
	}

	var in document.Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		rw.BadRequest("Invalid request body")
		return
	}

	doc, err := h.documents.Create(r.Context(), p.UID, &in)
	if err != nil {
		var verrs *validation.Errors
		if errors.As(err, &verrs) {
			rw.ValidationError("Invalid document", verrs.Fields())
			return
		}
		if errors.Is(err, document.ErrInvalidType) {
			rw.BadRequest("Unknown document type")
			return
		}
		logging.Ctx(r.Context()).Error().Err(err).Str("owner_uid", p.UID).Msg("Failed to create document")
		rw.InternalError("Failed to create document")
		return
	}
	rw.Created(doc)
}

// GetDocument handles GET /documents/{documentID}. Ownership is
// verified against the loaded record.
func (h *Handlers) GetDocument(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	documentID := chi.URLParam(r, "documentID")

	doc, err := h.documents.GetByID(r.Context(), documentID)
	if errors.Is(err, document.ErrDocumentNotFound) {
		rw.NotFound("Document not found")
		return
	}
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Str("document_id", documentID).Msg("Failed to load document")
		rw.InternalError("Failed to load document")
		return
	}

	if !h.guard.AuthorizeRecord(w, r, doc.ID, doc.OwnerUID) {
		return
	}
	rw.Success(doc)
}

// DeleteDocument handles DELETE /documents/{documentID}.
func (h *Handlers) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	documentID := chi.URLParam(r, "documentID")

	doc, err := h.documents.GetByID(r.Context(), documentID)
	if errors.Is(err, document.ErrDocumentNotFound) {
		rw.NotFound("Document not found")
		return
	}
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Str("document_id", documentID).Msg("Failed to load document")
		rw.InternalError("Failed to load document")
		return
	}

	if !h.guard.AuthorizeRecord(w, r, doc.ID, doc.OwnerUID) {
		return
	}

	if err := h.documents.Delete(r.Context(), documentID); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Str("document_id", documentID).Msg("Failed to delete document")
		rw.InternalError("Failed to delete document")
		return
	}
	rw.NoContent()
}

// AdminListPending handles GET /admin/documents/pending.
func (h *Handlers) AdminListPending(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	docs, err := h.documents.ListPending(r.Context())
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to list pending documents")
		rw.InternalError("Failed to load pending documents")
		return
	}
	rw.Success(docs)
}

// statusUpdateRequest is the body of PUT /admin/documents/{documentID}/status.
type statusUpdateRequest struct {
	Status          document.Status `json:"status"`
	RejectionReason string          `json:"rejectionReason,omitempty"`
}

// AdminUpdateStatus handles PUT /admin/documents/{documentID}/status.
func (h *Handlers) AdminUpdateStatus(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	p := auth.PrincipalFromContext(r.Context())
	if p == nil {
		WriteAuthRequired(w)
		return
	}
	documentID := chi.URLParam(r, "documentID")

	var req statusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rw.BadRequest("Invalid request body")
		return
	}

	doc, err := h.documents.UpdateStatus(r.Context(), documentID, req.Status, p.UID, req.RejectionReason)
	switch {
	case errors.Is(err, document.ErrDocumentNotFound):
		rw.NotFound("Document not found")
	case errors.Is(err, document.ErrInvalidStatus):
		rw.BadRequest("Status must be verified, rejected, or expired")
	case errors.Is(err, document.ErrRejectionReasonRequired):
		rw.BadRequest("Rejections require a reason")
	case err != nil:
		logging.Ctx(r.Context()).Error().Err(err).Str("document_id", documentID).Msg("Failed to update document status")
		rw.InternalError("Failed to update document status")
	default:
		rw.Success(doc)
	}
}
