package login_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	uierrors "github.com/dalemusser/campushub/internal/app/features/errors"
	"github.com/dalemusser/campushub/internal/app/features/login"
	accountstore "github.com/dalemusser/campushub/internal/app/store/accounts"
	"github.com/dalemusser/campushub/internal/app/system/auth"
	"github.com/dalemusser/campushub/internal/app/system/identity"
	"github.com/dalemusser/campushub/internal/app/system/mailer"
	"github.com/dalemusser/campushub/internal/app/system/profile"
	"github.com/dalemusser/campushub/internal/app/system/ratelimit"
	"github.com/dalemusser/campushub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type outbox struct{ sent []mailer.Email }

func (o *outbox) Send(_ context.Context, e mailer.Email) error {
	o.sent = append(o.sent, e)
	return nil
}

func newTestHandler(t *testing.T, db *mongo.Database, role, home string, box *outbox) *login.Handler {
	t.Helper()
	logger := zap.NewNop()

	sm, err := auth.NewSessionManager("login-test-session-key-32-chars!!!", "test-session", "", 24*time.Hour, false, logger)
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}
	ident := identity.New(accountstore.New(db), box, identity.Config{
		Secret:  []byte("login-test-reset-secret-32-chars!!"),
		SiteURL: "https://campus.example.com",
	}, logger)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	return login.NewHandler(role, home, ident, sm,
		profile.NewLoader(db, sm, logger),
		ratelimit.NewLoginLimiter(ctx),
		nil,
		uierrors.NewErrorLogger(logger),
		logger)
}

func postLogin(h *login.Handler, form url.Values) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.HandleLoginPost(rec, testutil.NewFormRequest(http.MethodPost, "/login", form))
	return rec
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == "test-session" {
			return c
		}
	}
	return nil
}

func TestLogin_TeacherSuccess(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	testutil.NewFixtures(t, db).CreateTeacher(ctx, "Ada Park", "ada@school.org")

	h := newTestHandler(t, db, auth.RoleTeacher, "/teacher-portal/dashboard", &outbox{})
	rec := postLogin(h, url.Values{
		"email":    {"ADA@school.org"},
		"password": {testutil.DefaultPassword},
		"remember": {"on"},
	})

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303 (body %s)", rec.Code, rec.Body.String())
	}
	if loc := rec.Header().Get("Location"); loc != "/teacher-portal/dashboard" {
		t.Errorf("Location = %q", loc)
	}
	c := sessionCookie(rec)
	if c == nil {
		t.Fatal("expected a session cookie")
	}
	if c.MaxAge <= 0 {
		t.Errorf("remembered session should persist, MaxAge = %d", c.MaxAge)
	}
}

func TestLogin_WithoutRememberIsBrowserSession(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	testutil.NewFixtures(t, db).CreateTeacher(ctx, "Ada Park", "ada@school.org")

	h := newTestHandler(t, db, auth.RoleTeacher, "/teacher-portal/dashboard", &outbox{})
	rec := postLogin(h, url.Values{"email": {"ada@school.org"}, "password": {testutil.DefaultPassword}})

	c := sessionCookie(rec)
	if c == nil {
		t.Fatal("expected a session cookie")
	}
	if c.MaxAge != 0 || !c.Expires.IsZero() {
		t.Errorf("expected a browser-session cookie, got MaxAge=%d Expires=%v", c.MaxAge, c.Expires)
	}
}

func TestLogin_StudentWithoutProfileRedirectsToLogin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	// An account with valid credentials but no student document.
	testutil.NewFixtures(t, db).CreateAccount(ctx, "ghost@school.org")

	h := newTestHandler(t, db, auth.RoleStudent, "/student-portal/dashboard", &outbox{})
	rec := postLogin(h, url.Values{"email": {"ghost@school.org"}, "password": {testutil.DefaultPassword}})

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/student-portal/login" {
		t.Errorf("Location = %q, want /student-portal/login", loc)
	}
	if c := sessionCookie(rec); c != nil && c.MaxAge >= 0 {
		t.Errorf("expected no live session, got cookie MaxAge=%d", c.MaxAge)
	}
}

func TestLogin_TeacherAccountCannotUseStudentPortal(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	testutil.NewFixtures(t, db).CreateTeacher(ctx, "Ada Park", "ada@school.org")

	h := newTestHandler(t, db, auth.RoleStudent, "/student-portal/dashboard", &outbox{})
	rec := postLogin(h, url.Values{"email": {"ada@school.org"}, "password": {testutil.DefaultPassword}})

	if loc := rec.Header().Get("Location"); loc != "/student-portal/login" {
		t.Errorf("Location = %q, want /student-portal/login", loc)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	testutil.NewFixtures(t, db).CreateStudent(ctx, "Sam Lee", "sam@school.org")

	h := newTestHandler(t, db, auth.RoleStudent, "/student-portal/dashboard", &outbox{})
	rec := postLogin(h, url.Values{"email": {"sam@school.org"}, "password": {"nope"}})

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
	if sessionCookie(rec) != nil {
		t.Error("no cookie should be set on failure")
	}
}

func TestLogin_MissingFields(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newTestHandler(t, db, auth.RoleStudent, "/student-portal/dashboard", &outbox{})

	rec := httptest.NewRecorder()
	h.HandleLoginPost(rec, testutil.NewJSONRequest(http.MethodPost, "/login", `{"email":"sam@school.org"}`))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestLogin_RateLimited(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newTestHandler(t, db, auth.RoleTeacher, "/teacher-portal/dashboard", &outbox{})

	form := url.Values{"email": {"nobody@school.org"}, "password": {"x"}}
	var last int
	for i := 0; i < 6; i++ {
		last = postLogin(h, form).Code
	}
	if last != http.StatusTooManyRequests {
		t.Errorf("sixth attempt status = %d, want 429", last)
	}
}

func TestServeLogin_SignedIn(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newTestHandler(t, db, auth.RoleTeacher, "/teacher-portal/dashboard", &outbox{})

	rec := testutil.NewRecorder()
	req := testutil.NewAuthenticatedRequest(http.MethodGet, "/teacher-portal/login", testutil.TeacherUser(primitive.NewObjectID()))
	h.ServeLogin(rec, req)

	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"signed_in":true`)
	rec.AssertContains(t, `"next":"/teacher-portal/dashboard"`)
}

func TestPasswordReset_AlwaysSucceeds(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	testutil.NewFixtures(t, db).CreateStudent(ctx, "Sam Lee", "sam@school.org")

	box := &outbox{}
	h := newTestHandler(t, db, auth.RoleStudent, "/student-portal/dashboard", box)

	for _, email := range []string{"sam@school.org", "unknown@school.org"} {
		rec := testutil.NewRecorder()
		h.HandlePasswordReset(rec, testutil.NewFormRequest(http.MethodPost, "/password-reset", url.Values{"email": {email}}))
		rec.AssertStatus(t, http.StatusOK)
	}
	if len(box.sent) != 1 {
		t.Errorf("expected exactly one email, got %d", len(box.sent))
	}
}

func TestPasswordReset_InvalidEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newTestHandler(t, db, auth.RoleStudent, "/student-portal/dashboard", &outbox{})

	rec := testutil.NewRecorder()
	h.HandlePasswordReset(rec, testutil.NewFormRequest(http.MethodPost, "/password-reset", url.Values{"email": {"not-an-email"}}))
	rec.AssertStatus(t, http.StatusBadRequest)
}
