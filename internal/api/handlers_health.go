// Docgate - Document Access Gateway for the Talentfolio Platform
// Copyright 2026 Talentfolio
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/talentfolio/docgate

package api

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/talentfolio/docgate/internal/audit"
	"github.com/talentfolio/docgate/internal/store"
)

// HealthHandler reports process and store health.
type HealthHandler struct {
	db      *store.DB
	auditor *audit.Logger
	started time.Time
}

// NewHealthHandler creates the health endpoint.
func NewHealthHandler(db *store.DB, auditor *audit.Logger) *HealthHandler {
	return &HealthHandler{db: db, auditor: auditor, started: time.Now()}
}

type healthResponse struct {
	Status          string `json:"status"`
	UptimeSeconds   int64  `json:"uptime_seconds"`
	StoreHealthy    bool   `json:"store_healthy"`
	AuditBufferUsed int    `json:"audit_buffer_used"`
}

// Healthz handles GET /healthz.
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:          "ok",
		UptimeSeconds:   int64(time.Since(h.started).Seconds()),
		StoreHealthy:    true,
		AuditBufferUsed: h.auditor.BufferUsed(),
	}

	status := http.StatusOK
	if err := h.db.Healthy(r.Context()); err != nil {
		resp.Status = "degraded"
		resp.StoreHealthy = false
		status = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
