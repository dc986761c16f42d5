package errors_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	uierrors "github.com/dalemusser/campushub/internal/app/features/errors"
	"github.com/dalemusser/campushub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return body.Error
}

func TestErrorLogger_ServerError(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	el := uierrors.NewErrorLogger(zap.New(core))

	user := testutil.TeacherUser(primitive.NewObjectID())
	req := testutil.NewAuthenticatedRequest(http.MethodPost, "/teacher-portal/classes", user)
	rec := httptest.NewRecorder()

	el.LogServerError(rec, req, "create class failed", fmt.Errorf("boom"), "Failed to create class.")

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	if got := decodeError(t, rec); got != "Failed to create class." {
		t.Errorf("error = %q", got)
	}
	if logs.Len() != 1 {
		t.Fatalf("expected one log entry, got %d", logs.Len())
	}
	e := logs.All()[0]
	if e.Level != zapcore.ErrorLevel {
		t.Errorf("level = %v, want error", e.Level)
	}
	ctx := e.ContextMap()
	if ctx["path"] != "/teacher-portal/classes" || ctx["user_id"] != user.ID {
		t.Errorf("missing request fields: %v", ctx)
	}
}

func TestErrorLogger_StatusMapping(t *testing.T) {
	el := uierrors.NewErrorLogger(zap.NewNop())
	tests := []struct {
		name string
		call func(w http.ResponseWriter, r *http.Request)
		want int
	}{
		{"bad request", func(w http.ResponseWriter, r *http.Request) { el.LogBadRequest(w, r, "m", nil, "u") }, http.StatusBadRequest},
		{"not found", func(w http.ResponseWriter, r *http.Request) { el.LogNotFound(w, r, "m", nil, "u") }, http.StatusNotFound},
		{"forbidden", func(w http.ResponseWriter, r *http.Request) { el.LogForbidden(w, r, "m", "u") }, http.StatusForbidden},
		{"conflict", func(w http.ResponseWriter, r *http.Request) { el.LogConflict(w, r, "m", nil, "u") }, http.StatusConflict},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tc.call(rec, httptest.NewRequest(http.MethodGet, "/", nil))
			if rec.Code != tc.want {
				t.Errorf("status = %d, want %d", rec.Code, tc.want)
			}
			if got := decodeError(t, rec); got != "u" {
				t.Errorf("error = %q, want u", got)
			}
		})
	}
}

func TestHandler_NotFound(t *testing.T) {
	rec := httptest.NewRecorder()
	uierrors.NewHandler().NotFound(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
