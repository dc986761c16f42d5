package profile_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	studentstore "github.com/dalemusser/campushub/internal/app/store/students"
	"github.com/dalemusser/campushub/internal/app/system/auth"
	"github.com/dalemusser/campushub/internal/app/system/profile"
	"github.com/dalemusser/campushub/internal/domain/models"
	"github.com/dalemusser/campushub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func newSessions(t *testing.T) *auth.SessionManager {
	t.Helper()
	sm, err := auth.NewSessionManager("profile-test-session-key-32-chars!!", "s", "", time.Hour, false, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	return sm
}

func TestRequireStudent_AttachesProfile(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	id := primitive.NewObjectID()
	if _, err := studentstore.New(db).Create(ctx, models.Student{ID: id, FullName: "Sam"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	loader := profile.NewLoader(db, newSessions(t), zap.NewNop())
	var got models.Student
	h := loader.RequireStudent(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = profile.StudentFrom(r.Context())
	}))

	req := auth.WithTestUser(httptest.NewRequest("GET", "/student-portal/dashboard", nil),
		&auth.SessionUser{ID: id.Hex(), Role: auth.RoleStudent})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got.FullName != "Sam" {
		t.Errorf("expected profile attached, got %+v (status %d)", got, rec.Code)
	}
}

func TestRequireTeacher_MissingProfile_SignsOutAndRedirects(t *testing.T) {
	db := testutil.SetupTestDB(t)
	loader := profile.NewLoader(db, newSessions(t), zap.NewNop())

	called := false
	h := loader.RequireTeacher(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := auth.WithTestUser(httptest.NewRequest("GET", "/teacher-portal/dashboard", nil),
		&auth.SessionUser{ID: primitive.NewObjectID().Hex(), Role: auth.RoleTeacher})
	req.Header.Set("Accept", "text/html")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if called {
		t.Error("handler should not run without a profile")
	}
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/teacher-portal/login" {
		t.Errorf("expected 303 to /teacher-portal/login, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
	if c := rec.Result().Cookies(); len(c) == 0 || c[0].MaxAge >= 0 {
		t.Error("expected session cookie to be cleared")
	}
}
