package services

import (
	"context"
	"testing"

	"financeiro/internal/models"
	"financeiro/internal/testutil"
)

func TestAuditLog(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewAuditService(NewStores(db))

	svc.Log(context.Background(), 7, "DELETE_USER", "user", 42, "127.0.0.1", map[string]interface{}{"email": "x@example.com"})

	var entries []models.AuditLog
	db.Find(&entries)
	if len(entries) != 1 {
		t.Fatalf("expected 1 audit entry, got %d", len(entries))
	}
	entry := entries[0]
	if entry.UserID != 7 || entry.Action != "DELETE_USER" || entry.ResourceType != "user" || entry.ResourceID != 42 {
		t.Errorf("unexpected audit entry %+v", entry)
	}
	if entry.Changes != `{"email":"x@example.com"}` {
		t.Errorf("unexpected changes %q", entry.Changes)
	}
}

func TestAuditLog_FailureIsSwallowed(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewAuditService(NewStores(db))
	testutil.TeardownTestDB(t, db)

	// must not panic on a closed database
	svc.Log(context.Background(), 1, "CREATE_ROLE", "role", 1, "", nil)
}
