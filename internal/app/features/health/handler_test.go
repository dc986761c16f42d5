package health_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dalemusser/campushub/internal/app/features/health"
	"github.com/dalemusser/campushub/internal/testutil"
	"go.uber.org/zap"
)

func TestServe_DatabaseConnected(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := health.NewHandler(db.Client(), "poll", zap.NewNop())

	req := httptest.NewRequest("GET", "/health", nil)
	rec := httptest.NewRecorder()

	handler.Serve(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("Content-Type: got %q, want application/json", ct)
	}

	var response struct {
		Status   string `json:"status"`
		Database string `json:"database"`
		Live     string `json:"live"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if response.Status != "ok" {
		t.Errorf("status: got %q, want %q", response.Status, "ok")
	}
	if response.Database != "connected" {
		t.Errorf("database: got %q, want %q", response.Database, "connected")
	}
	if response.Live != "poll" {
		t.Errorf("live: got %q, want %q", response.Live, "poll")
	}
}

func TestRoutes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	r := health.Routes(health.NewHandler(db.Client(), "changestream", zap.NewNop()))

	for _, tc := range []struct{ method, path string }{
		{"GET", "/"},
		{"HEAD", "/"},
		{"GET", "/live"},
	} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
		if rec.Code != http.StatusOK {
			t.Errorf("%s %s: status %d, want %d", tc.method, tc.path, rec.Code, http.StatusOK)
		}
	}
}

func TestServeLive_NoDatabase(t *testing.T) {
	// A nil client would panic if ServeLive pinged.
	handler := health.NewHandler(nil, "poll", zap.NewNop())

	rec := httptest.NewRecorder()
	handler.ServeLive(rec, httptest.NewRequest("GET", "/health/live", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"live":"poll"`) {
		t.Errorf("body = %s", rec.Body.String())
	}
}
