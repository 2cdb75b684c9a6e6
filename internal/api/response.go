// Docgate - Document Access Gateway for the Talentfolio Platform
// Copyright 2026 Talentfolio
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/talentfolio/docgate

// Package api exposes the secured document routes: the chi router,
// the coarse access gate, the ownership-verified record handlers, and
// the employer sanitization boundary.
package api

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/talentfolio/docgate/internal/logging"
)

// APIResponse is the envelope for non-security responses.
type APIResponse struct {
	// Success indicates whether the request succeeded.
	Success bool `json:"success"`

	// Data contains the response payload (null on error).
	Data interface{} `json:"data,omitempty"`

	// Error contains error details (null on success).
	Error *APIError `json:"error,omitempty"`

	// Meta contains optional response metadata.
	Meta *APIMeta `json:"meta,omitempty"`
}

// APIError is a machine-readable error.
type APIError struct {
	Code      string      `json:"code"`
	Message   string      `json:"message"`
	Details   interface{} `json:"details,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
}

// APIMeta carries tracing metadata.
type APIMeta struct {
	RequestID string    `json:"request_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Error codes for envelope responses.
const (
	ErrCodeBadRequest       = "BAD_REQUEST"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeValidationFailed = "VALIDATION_FAILED"
	ErrCodeInternalError    = "INTERNAL_ERROR"
)

// ResponseWriter writes enveloped responses for one request.
type ResponseWriter struct {
	w http.ResponseWriter
	r *http.Request
}

// NewResponseWriter creates a response writer for the request.
func NewResponseWriter(w http.ResponseWriter, r *http.Request) *ResponseWriter {
	return &ResponseWriter{w: w, r: r}
}

func (rw *ResponseWriter) writeJSON(status int, resp *APIResponse) {
	if resp.Meta == nil {
		resp.Meta = &APIMeta{}
	}
	resp.Meta.RequestID = logging.RequestIDFromContext(rw.r.Context())
	resp.Meta.Timestamp = time.Now().UTC()

	rw.w.Header().Set("Content-Type", "application/json")
	rw.w.WriteHeader(status)
	if err := json.NewEncoder(rw.w).Encode(resp); err != nil {
		logging.Ctx(rw.r.Context()).Error().Err(err).Msg("Failed to encode response")
	}
}

// Success writes a 200 with data.
func (rw *ResponseWriter) Success(data interface{}) {
	rw.writeJSON(http.StatusOK, &APIResponse{Success: true, Data: data})
}

// Created writes a 201 with data.
func (rw *ResponseWriter) Created(data interface{}) {
	rw.writeJSON(http.StatusCreated, &APIResponse{Success: true, Data: data})
}

// NoContent writes a 204.
func (rw *ResponseWriter) NoContent() {
	rw.w.WriteHeader(http.StatusNoContent)
}

// Error writes an enveloped error.
func (rw *ResponseWriter) Error(status int, code, message string) {
	rw.writeJSON(status, &APIResponse{
		Success: false,
		Error: &APIError{
			Code:      code,
			Message:   message,
			RequestID: logging.RequestIDFromContext(rw.r.Context()),
		},
	})
}

// BadRequest writes a 400.
func (rw *ResponseWriter) BadRequest(message string) {
	rw.Error(http.StatusBadRequest, ErrCodeBadRequest, message)
}

// NotFound writes a 404.
func (rw *ResponseWriter) NotFound(message string) {
	rw.Error(http.StatusNotFound, ErrCodeNotFound, message)
}

// ValidationError writes a 400 with field details.
func (rw *ResponseWriter) ValidationError(message string, details interface{}) {
	rw.writeJSON(http.StatusBadRequest, &APIResponse{
		Success: false,
		Error: &APIError{
			Code:      ErrCodeValidationFailed,
			Message:   message,
			Details:   details,
			RequestID: logging.RequestIDFromContext(rw.r.Context()),
		},
	})
}

// InternalError writes a 500.
func (rw *ResponseWriter) InternalError(message string) {
	rw.Error(http.StatusInternalServerError, ErrCodeInternalError, message)
}

// The security surfaces below keep the legacy platform's exact wire
// shapes. Clients match on these bodies; do not envelope them.

func writeSecurityJSON(w http.ResponseWriter, status int, body map[string]string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Error().Err(err).Msg("Failed to encode security response")
	}
}

// WriteAuthRequired writes the 401 unauthenticated shape.
func WriteAuthRequired(w http.ResponseWriter) {
	writeSecurityJSON(w, http.StatusUnauthorized, map[string]string{
		"error": "Authentication required",
	})
}

// WriteAccessDenied writes the 403 denial shape with a reason code.
func WriteAccessDenied(w http.ResponseWriter, message, code string) {
	body := map[string]string{
		"error":   "Access denied",
		"message": message,
	}
	if code != "" {
		body["code"] = code
	}
	writeSecurityJSON(w, http.StatusForbidden, body)
}

// WriteSecurityFailure writes the 500 fail-closed shape used when a
// security check itself errors.
func WriteSecurityFailure(w http.ResponseWriter) {
	writeSecurityJSON(w, http.StatusInternalServerError, map[string]string{
		"error":   "Internal server error",
		"message": "Security check failed",
	})
}
