package audit_test

import (
	"testing"
	"time"

	"github.com/dalemusser/campushub/internal/app/store/audit"
	"github.com/dalemusser/campushub/internal/testutil"
)

func TestStore_LogAndQuery(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	base := time.Now().UTC().Add(-time.Hour)
	events := []audit.Event{
		{Category: audit.CategoryAuth, EventType: audit.EventLoginSuccess, Actor: "a1", Success: true, Timestamp: base},
		{Category: audit.CategoryAuth, EventType: audit.EventLoginFailed, Actor: "a2", Timestamp: base.Add(time.Minute)},
		{Category: audit.CategoryContent, EventType: audit.EventClassCreated, Actor: "a1", Success: true, Timestamp: base.Add(2 * time.Minute)},
	}
	for _, e := range events {
		if err := store.Log(ctx, e); err != nil {
			t.Fatalf("Log failed: %v", err)
		}
	}

	all, err := store.Query(ctx, audit.QueryFilter{})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 events, got %d", len(all))
	}
	if all[0].EventType != audit.EventClassCreated {
		t.Errorf("expected newest first, got %q", all[0].EventType)
	}
	if all[0].ID.IsZero() {
		t.Error("expected generated id")
	}

	mine, err := store.Query(ctx, audit.QueryFilter{Actor: "a1"})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(mine) != 2 {
		t.Errorf("expected 2 events for a1, got %d", len(mine))
	}

	n, err := store.Count(ctx, audit.QueryFilter{Category: audit.CategoryAuth})
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 auth events, got %d", n)
	}
}

func TestStore_FailedLogins(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	now := time.Now().UTC()
	_ = store.Log(ctx, audit.Event{Category: audit.CategoryAuth, EventType: audit.EventLoginFailed, Timestamp: now})
	_ = store.Log(ctx, audit.Event{Category: audit.CategoryAuth, EventType: audit.EventLoginRateLimited, Timestamp: now})
	_ = store.Log(ctx, audit.Event{Category: audit.CategoryAuth, EventType: audit.EventLoginFailed, Timestamp: now.Add(-48 * time.Hour)})
	_ = store.Log(ctx, audit.Event{Category: audit.CategoryAuth, EventType: audit.EventLoginSuccess, Timestamp: now})

	n, err := store.FailedLogins(ctx, now.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("FailedLogins failed: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 failed logins in the last day, got %d", n)
	}
}

func TestStore_DeleteBefore(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	now := time.Now().UTC()
	_ = store.Log(ctx, audit.Event{Category: audit.CategoryAuth, EventType: audit.EventLogout, Timestamp: now.Add(-100 * 24 * time.Hour)})
	_ = store.Log(ctx, audit.Event{Category: audit.CategoryAuth, EventType: audit.EventLogout, Timestamp: now})

	n, err := store.DeleteBefore(ctx, now.Add(-90*24*time.Hour))
	if err != nil {
		t.Fatalf("DeleteBefore failed: %v", err)
	}
	if n != 1 {
		t.Errorf("deleted %d events, want 1", n)
	}
	if left, _ := store.Count(ctx, audit.QueryFilter{}); left != 1 {
		t.Errorf("%d events left, want 1", left)
	}
}
