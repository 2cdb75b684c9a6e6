// Docgate - Document Access Gateway for the Talentfolio Platform
// Copyright 2026 Talentfolio
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/talentfolio/docgate

package document

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/talentfolio/docgate/internal/sanitize"
	"github.com/talentfolio/docgate/internal/store"
)

func newTestService(t *testing.T) (*Service, *store.ResumeStore) {
	t.Helper()
	db, err := store.OpenInMemory()
	if err != nil {
		t.Fatalf("open in-memory store: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("close store: %v", err)
		}
	})
	resumes := store.NewResumeStore(db)
	return NewService(NewBadgerStore(db), resumes), resumes
}

func validInput() *Input {
	return &Input{
		Type:     TypeWorkPermit,
		FileName: "permit.pdf",
		FileURL:  "https://cdn.example.com/permit.pdf",
		FileSize: 52340,
		MimeType: "application/pdf",
	}
}

func TestCreateStartsPending(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	doc, err := svc.Create(ctx, "stu-1", validInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if doc.ID == "" {
		t.Error("document ID not generated")
	}
	if doc.Status != StatusPending {
		t.Errorf("status = %s, want pending", doc.Status)
	}
	if doc.OwnerUID != "stu-1" {
		t.Errorf("owner = %s, want stu-1", doc.OwnerUID)
	}
	if doc.UploadedAt.IsZero() {
		t.Error("uploadedAt not set")
	}

	got, err := svc.GetByID(ctx, doc.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.FileName != "permit.pdf" {
		t.Errorf("fileName = %s", got.FileName)
	}
}

func TestCreateValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		owner  string
		mutate func(*Input)
	}{
		{name: "missing owner", owner: "", mutate: func(*Input) {}},
		{name: "missing file name", owner: "stu-1", mutate: func(in *Input) { in.FileName = "" }},
		{name: "bad url", owner: "stu-1", mutate: func(in *Input) { in.FileURL = "not a url" }},
		{name: "missing mime type", owner: "stu-1", mutate: func(in *Input) { in.MimeType = "" }},
		{name: "unknown type", owner: "stu-1", mutate: func(in *Input) { in.Type = "passport" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(in)
			if _, err := svc.Create(ctx, tt.owner, in); err == nil {
				t.Error("Create succeeded, want error")
			}
		})
	}
}

func TestCreateLinksResume(t *testing.T) {
	svc, resumes := newTestService(t)
	ctx := context.Background()

	err := resumes.Put(ctx, &sanitize.Resume{
		ID:           "res-1",
		UserID:       "stu-1",
		PersonalInfo: sanitize.PersonalInfo{Name: "Ada"},
	})
	if err != nil {
		t.Fatalf("seed resume: %v", err)
	}

	doc, err := svc.Create(ctx, "stu-1", validInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	r, err := resumes.GetByUserID(ctx, "stu-1")
	if err != nil {
		t.Fatalf("load resume: %v", err)
	}
	if len(r.AuthorizationDocuments) != 1 || r.AuthorizationDocuments[0] != doc.ID {
		t.Errorf("resume refs = %v, want [%s]", r.AuthorizationDocuments, doc.ID)
	}

	if err := svc.Delete(ctx, doc.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	r, err = resumes.GetByUserID(ctx, "stu-1")
	if err != nil {
		t.Fatalf("reload resume: %v", err)
	}
	if len(r.AuthorizationDocuments) != 0 {
		t.Errorf("resume refs after delete = %v, want empty", r.AuthorizationDocuments)
	}

	if _, err := svc.GetByID(ctx, doc.ID); !errors.Is(err, ErrDocumentNotFound) {
		t.Errorf("GetByID after delete = %v, want ErrDocumentNotFound", err)
	}
}

func TestCreateWithoutResumeSucceeds(t *testing.T) {
	svc, _ := newTestService(t)
	if _, err := svc.Create(context.Background(), "stu-1", validInput()); err != nil {
		t.Fatalf("Create without resume: %v", err)
	}
}

func TestListByOwnerNewestFirst(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 3; i++ {
		doc, err := svc.Create(ctx, "stu-1", validInput())
		if err != nil {
			t.Fatalf("Create %d: %v", i, err)
		}
		ids = append(ids, doc.ID)
		time.Sleep(2 * time.Millisecond)
	}
	if _, err := svc.Create(ctx, "stu-2", validInput()); err != nil {
		t.Fatalf("Create for stu-2: %v", err)
	}

	docs, err := svc.ListByOwner(ctx, "stu-1")
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if len(docs) != 3 {
		t.Fatalf("got %d documents, want 3", len(docs))
	}
	if docs[0].ID != ids[2] || docs[2].ID != ids[0] {
		t.Errorf("order = %s .. %s, want newest first", docs[0].ID, docs[2].ID)
	}
}

func TestUpdateStatus(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	doc, err := svc.Create(ctx, "stu-1", validInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := svc.UpdateStatus(ctx, doc.ID, StatusVerified, "adm-1", "")
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if got.Status != StatusVerified {
		t.Errorf("status = %s, want verified", got.Status)
	}
	if got.VerifiedBy != "adm-1" || got.VerifiedAt == nil {
		t.Errorf("reviewer not recorded: by=%s at=%v", got.VerifiedBy, got.VerifiedAt)
	}

	pending, err := svc.ListPending(ctx)
	if err != nil {
		t.Fatalf("ListPending: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("pending queue = %d entries, want 0", len(pending))
	}
}

func TestUpdateStatusRules(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	doc, err := svc.Create(ctx, "stu-1", validInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	tests := []struct {
		name    string
		id      string
		status  Status
		by      string
		reason  string
		wantErr error
	}{
		{name: "back to pending", id: doc.ID, status: StatusPending, by: "adm-1", wantErr: ErrInvalidStatus},
		{name: "unknown status", id: doc.ID, status: "archived", by: "adm-1", wantErr: ErrInvalidStatus},
		{name: "rejection without reason", id: doc.ID, status: StatusRejected, by: "adm-1", wantErr: ErrRejectionReasonRequired},
		{name: "missing document", id: "nope", status: StatusVerified, by: "adm-1", wantErr: ErrDocumentNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.UpdateStatus(ctx, tt.id, tt.status, tt.by, tt.reason)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}

	got, err := svc.UpdateStatus(ctx, doc.ID, StatusRejected, "adm-1", "document is illegible")
	if err != nil {
		t.Fatalf("UpdateStatus rejected: %v", err)
	}
	if got.RejectionReason != "document is illegible" {
		t.Errorf("rejectionReason = %q", got.RejectionReason)
	}
}

func TestListPendingOldestFirst(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 3; i++ {
		doc, err := svc.Create(ctx, "stu-1", validInput())
		if err != nil {
			t.Fatalf("Create %d: %v", i, err)
		}
		ids = append(ids, doc.ID)
		time.Sleep(2 * time.Millisecond)
	}

	pending, err := svc.ListPending(ctx)
	if err != nil {
		t.Fatalf("ListPending: %v", err)
	}
	if len(pending) != 3 {
		t.Fatalf("got %d pending, want 3", len(pending))
	}
	if pending[0].ID != ids[0] {
		t.Errorf("first = %s, want oldest %s", pending[0].ID, ids[0])
	}
}

func TestStatsByOwner(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 4; i++ {
		doc, err := svc.Create(ctx, "stu-1", validInput())
		if err != nil {
			t.Fatalf("Create %d: %v", i, err)
		}
		ids = append(ids, doc.ID)
	}
	if _, err := svc.UpdateStatus(ctx, ids[0], StatusVerified, "adm-1", ""); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.UpdateStatus(ctx, ids[1], StatusRejected, "adm-1", "blurry scan"); err != nil {
		t.Fatal(err)
	}

	stats, err := svc.StatsByOwner(ctx, "stu-1")
	if err != nil {
		t.Fatalf("StatsByOwner: %v", err)
	}
	want := Stats{Total: 4, Pending: 2, Verified: 1, Rejected: 1}
	if *stats != want {
		t.Errorf("stats = %+v, want %+v", *stats, want)
	}
}

func TestExpireOverdue(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	past := time.Now().UTC().Add(-24 * time.Hour)
	future := time.Now().UTC().Add(24 * time.Hour)

	inPast := validInput()
	inPast.ExpiresAt = &past
	overdue, err := svc.Create(ctx, "stu-1", inPast)
	if err != nil {
		t.Fatal(err)
	}
	inFuture := validInput()
	inFuture.ExpiresAt = &future
	current, err := svc.Create(ctx, "stu-1", inFuture)
	if err != nil {
		t.Fatal(err)
	}
	for _, id := range []string{overdue.ID, current.ID} {
		if _, err := svc.UpdateStatus(ctx, id, StatusVerified, "adm-1", ""); err != nil {
			t.Fatal(err)
		}
	}

	expired, err := svc.ExpireOverdue(ctx)
	if err != nil {
		t.Fatalf("ExpireOverdue: %v", err)
	}
	if expired != 1 {
		t.Errorf("expired %d, want 1", expired)
	}

	got, err := svc.GetByID(ctx, overdue.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != StatusExpired {
		t.Errorf("overdue status = %s, want expired", got.Status)
	}
	got, err = svc.GetByID(ctx, current.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != StatusVerified {
		t.Errorf("current status = %s, want verified", got.Status)
	}
}
