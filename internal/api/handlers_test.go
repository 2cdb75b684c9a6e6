// Docgate - Document Access Gateway for the Talentfolio Platform
// Copyright 2026 Talentfolio
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/talentfolio/docgate

package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/talentfolio/docgate/internal/document"
)

func (e *testEnv) createDocument(t *testing.T, ownerUID string) *document.Document {
	t.Helper()
	doc, err := e.docs.Create(context.Background(), ownerUID, &document.Input{
		Type:     document.TypeWorkPermit,
		FileName: "permit.pdf",
		FileURL:  "https://cdn.example.com/permit.pdf",
		MimeType: "application/pdf",
	})
	if err != nil {
		t.Fatalf("failed to seed document: %v", err)
	}
	return doc
}

func TestCreateDocumentEndpoint(t *testing.T) {
	env := newTestEnv(t)

	body := strings.NewReader(`{
		"documentType": "work-permit",
		"fileName": "permit.pdf",
		"fileUrl": "https://cdn.example.com/permit.pdf",
		"fileSize": 2048,
		"mimeType": "application/pdf"
	}`)
	rec := env.request(t, http.MethodPost, "/api/v1/documents", "stu-1", body)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	resp := decodeJSON(t, rec)
	data, _ := resp["data"].(map[string]interface{})
	if data["ownerUid"] != "stu-1" {
		t.Errorf("expected owner stu-1, got %v", data["ownerUid"])
	}
	if data["status"] != "pending" {
		t.Errorf("new documents start pending, got %v", data["status"])
	}
}

func TestCreateDocumentValidation(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		body string
	}{
		{"missing file name", `{"documentType":"visa","fileUrl":"https://cdn.example.com/v.pdf","mimeType":"application/pdf"}`},
		{"bad url", `{"documentType":"visa","fileName":"v.pdf","fileUrl":"not a url","mimeType":"application/pdf"}`},
		{"malformed json", `{"documentType":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.request(t, http.MethodPost, "/api/v1/documents", "stu-1", strings.NewReader(tt.body))
			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestGetDocumentOwnership(t *testing.T) {
	env := newTestEnv(t)
	doc := env.createDocument(t, "stu-1")
	path := "/api/v1/documents/" + doc.ID

	t.Run("owner reads own document", func(t *testing.T) {
		rec := env.request(t, http.MethodGet, path, "stu-1", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("another student is denied", func(t *testing.T) {
		rec := env.request(t, http.MethodGet, path, "stu-2", nil)
		assertDenied(t, rec, "You can only access your own documents", "OWNERSHIP_MISMATCH")
	})

	t.Run("employer is blocked before ownership", func(t *testing.T) {
		rec := env.request(t, http.MethodGet, path, "emp-1", nil)
		assertDenied(t, rec, "Employers cannot access student private documents", "EMPLOYER_BLOCKED")
	})

	t.Run("admin overrides ownership", func(t *testing.T) {
		rec := env.request(t, http.MethodGet, path, "adm-1", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200 for admin, got %d", rec.Code)
		}
	})

	t.Run("missing document is 404", func(t *testing.T) {
		rec := env.request(t, http.MethodGet, "/api/v1/documents/no-such-id", "stu-1", nil)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestDeleteDocumentEndpoint(t *testing.T) {
	env := newTestEnv(t)
	doc := env.createDocument(t, "stu-1")
	path := "/api/v1/documents/" + doc.ID

	rec := env.request(t, http.MethodDelete, path, "stu-2", nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-owner delete, got %d", rec.Code)
	}

	rec = env.request(t, http.MethodDelete, path, "stu-1", nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = env.request(t, http.MethodGet, path, "stu-1", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", rec.Code)
	}
}

func TestListUserDocumentsEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.createDocument(t, "stu-1")
	env.createDocument(t, "stu-1")

	rec := env.request(t, http.MethodGet, "/api/v1/users/stu-1/documents", "stu-1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	resp := decodeJSON(t, rec)
	docs, _ := resp["data"].([]interface{})
	if len(docs) != 2 {
		t.Errorf("expected 2 documents, got %d", len(docs))
	}
}

func TestUserDocumentStatsEndpoint(t *testing.T) {
	env := newTestEnv(t)
	doc := env.createDocument(t, "stu-1")
	env.createDocument(t, "stu-1")
	if _, err := env.docs.UpdateStatus(context.Background(), doc.ID, document.StatusVerified, "adm-1", ""); err != nil {
		t.Fatalf("failed to verify document: %v", err)
	}

	rec := env.request(t, http.MethodGet, "/api/v1/users/stu-1/documents/stats", "stu-1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	resp := decodeJSON(t, rec)
	stats, _ := resp["data"].(map[string]interface{})
	if stats["total"] != float64(2) || stats["verified"] != float64(1) || stats["pending"] != float64(1) {
		t.Errorf("unexpected stats: %v", stats)
	}
}

func TestAdminRoutesRequireAdminRole(t *testing.T) {
	env := newTestEnv(t)

	rec := env.request(t, http.MethodGet, "/api/v1/admin/documents/pending", "stu-1", nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for student on admin route, got %d", rec.Code)
	}
	body := decodeJSON(t, rec)
	if body["code"] != "ADMIN_ONLY" {
		t.Errorf("expected code ADMIN_ONLY, got %v", body["code"])
	}
}

func TestAdminVerificationWorkflow(t *testing.T) {
	env := newTestEnv(t)
	doc := env.createDocument(t, "stu-1")

	rec := env.request(t, http.MethodGet, "/api/v1/admin/documents/pending", "adm-1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	resp := decodeJSON(t, rec)
	pending, _ := resp["data"].([]interface{})
	if len(pending) != 1 {
		t.Fatalf("expected 1 pending document, got %d", len(pending))
	}

	statusPath := fmt.Sprintf("/api/v1/admin/documents/%s/status", doc.ID)
	rec = env.request(t, http.MethodPut, statusPath, "adm-1", strings.NewReader(`{"status":"verified"}`))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	resp = decodeJSON(t, rec)
	data, _ := resp["data"].(map[string]interface{})
	if data["status"] != "verified" {
		t.Errorf("expected verified status, got %v", data["status"])
	}
	if data["verifiedBy"] != "adm-1" {
		t.Errorf("expected verifiedBy adm-1, got %v", data["verifiedBy"])
	}

	rec = env.request(t, http.MethodGet, "/api/v1/admin/documents/pending", "adm-1", nil)
	resp = decodeJSON(t, rec)
	pending, _ = resp["data"].([]interface{})
	if len(pending) != 0 {
		t.Errorf("expected empty pending queue, got %d", len(pending))
	}
}

func TestAdminStatusUpdateRejectionRules(t *testing.T) {
	env := newTestEnv(t)
	doc := env.createDocument(t, "stu-1")
	statusPath := fmt.Sprintf("/api/v1/admin/documents/%s/status", doc.ID)

	rec := env.request(t, http.MethodPut, statusPath, "adm-1", strings.NewReader(`{"status":"rejected"}`))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("rejection without reason should be 400, got %d", rec.Code)
	}

	rec = env.request(t, http.MethodPut, statusPath, "adm-1", strings.NewReader(`{"status":"archived"}`))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown status should be 400, got %d", rec.Code)
	}

	rec = env.request(t, http.MethodPut, statusPath, "adm-1",
		strings.NewReader(`{"status":"rejected","rejectionReason":"document is illegible"}`))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = env.request(t, http.MethodPut, "/api/v1/admin/documents/no-such-id/status", "adm-1",
		strings.NewReader(`{"status":"verified"}`))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing document, got %d", rec.Code)
	}
}

func TestHealthzEndpoint(t *testing.T) {
	env := newTestEnv(t)

	rec := env.request(t, http.MethodGet, "/healthz", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decodeJSON(t, rec)
	if body["status"] != "ok" {
		t.Errorf("expected ok status, got %v", body["status"])
	}
	if body["store_healthy"] != true {
		t.Errorf("expected healthy store, got %v", body["store_healthy"])
	}
}
