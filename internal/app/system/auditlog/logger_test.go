package auditlog_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/campushub/internal/app/store/audit"
	"github.com/dalemusser/campushub/internal/app/system/auditlog"
	"github.com/dalemusser/campushub/internal/testutil"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogger_NilIsNoop(t *testing.T) {
	var l *auditlog.Logger
	l.LoginSuccess(context.Background(), httptest.NewRequest("POST", "/", nil), "admin", "admin", "admin")
}

func TestLogger_LogOnlyWritesZap(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	core, logs := observer.New(zap.InfoLevel)
	l := auditlog.New(store, zap.New(core), auditlog.Config{Auth: auditlog.Log, Content: auditlog.Off})

	ctx, cancel := testutil.TestContext()
	defer cancel()

	req := httptest.NewRequest("POST", "/teacher-portal/login", nil)
	req.Header.Set("X-Forwarded-For", "10.0.0.5, 10.0.0.1")
	l.LoginFailed(ctx, req, "teacher", "t@school.org", "invalid credentials")
	l.Content(ctx, req, "teacher", audit.EventClassCreated, "t1", "c1", nil)

	if logs.Len() != 1 {
		t.Fatalf("expected 1 zap entry, got %d", logs.Len())
	}
	entry := logs.All()[0]
	if got := entry.ContextMap()["ip"]; got != "10.0.0.5" {
		t.Errorf("ip = %v, want 10.0.0.5", got)
	}
	if n, _ := store.Count(ctx, audit.QueryFilter{}); n != 0 {
		t.Errorf("expected nothing stored, got %d", n)
	}
}

func TestLogger_AllWritesStore(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	l := auditlog.New(store, zap.NewNop(), auditlog.Config{})

	ctx, cancel := testutil.TestContext()
	defer cancel()

	req := httptest.NewRequest("POST", "/password-reset/confirm", nil)
	l.PasswordReset(ctx, req, errors.New("reset link is invalid or has expired"))
	l.Content(ctx, req, "teacher", audit.EventSubmissionGraded, "t1", "s1", map[string]string{"grade": "A"})

	events, err := store.Query(ctx, audit.QueryFilter{})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 stored events, got %d", len(events))
	}
	var reset audit.Event
	for _, e := range events {
		if e.EventType == audit.EventPasswordResetFailed {
			reset = e
		}
	}
	if reset.Success || reset.FailureReason == "" {
		t.Errorf("unexpected reset event: %+v", reset)
	}
}
