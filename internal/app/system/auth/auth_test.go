package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/campushub/internal/app/system/auth"
	"go.uber.org/zap"
)

func newTestSessionManager(t *testing.T) *auth.SessionManager {
	t.Helper()
	sm, err := auth.NewSessionManager(
		"test-session-key-must-be-32-chars-long",
		"test-session",
		"",
		24*time.Hour,
		false,
		zap.NewNop(),
	)
	if err != nil {
		t.Fatalf("failed to create session manager: %v", err)
	}
	return sm
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestNewSessionManager_EmptyKey(t *testing.T) {
	if _, err := auth.NewSessionManager("", "s", "", time.Hour, false, zap.NewNop()); err == nil {
		t.Error("expected error for empty session key")
	}
}

func TestGuard_NoUser_RedirectsToRoleLogin(t *testing.T) {
	sm := newTestSessionManager(t)

	tests := []struct {
		role string
		path string
		want string
	}{
		{auth.RoleAdmin, "/admin", "/admin/login"},
		{auth.RoleTeacher, "/teacher-portal/dashboard", "/teacher-portal/login"},
		{auth.RoleStudent, "/student-portal/dashboard", "/student-portal/login"},
	}
	for _, tc := range tests {
		t.Run(tc.role, func(t *testing.T) {
			req := httptest.NewRequest("GET", tc.path, nil)
			req.Header.Set("Accept", "text/html")
			rec := httptest.NewRecorder()

			sm.Guard(tc.role)(okHandler()).ServeHTTP(rec, req)

			if rec.Code != http.StatusSeeOther {
				t.Errorf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
			}
			if loc := rec.Header().Get("Location"); loc != tc.want {
				t.Errorf("expected redirect to %q, got %q", tc.want, loc)
			}
		})
	}
}

func TestGuard_WrongRole_RedirectsToLogin(t *testing.T) {
	sm := newTestSessionManager(t)

	req := httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Accept", "text/html")
	req = withTestUser(req, auth.RoleTeacher)
	rec := httptest.NewRecorder()

	sm.Guard(auth.RoleAdmin)(okHandler()).ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/admin/login" {
		t.Errorf("expected 303 to /admin/login, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
}

func TestGuard_API_Returns401(t *testing.T) {
	sm := newTestSessionManager(t)

	req := httptest.NewRequest("GET", "/teacher-portal/classes", nil)
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()

	sm.Guard(auth.RoleTeacher)(okHandler()).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
}

func TestGuard_HTMX_ReturnsHXRedirect(t *testing.T) {
	sm := newTestSessionManager(t)

	req := httptest.NewRequest("GET", "/student-portal/dashboard", nil)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()

	sm.Guard(auth.RoleStudent)(okHandler()).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
	if hx := rec.Header().Get("HX-Redirect"); hx != "/student-portal/login" {
		t.Errorf("expected HX-Redirect to /student-portal/login, got %q", hx)
	}
}

func TestGuard_CorrectRole_CaseInsensitive(t *testing.T) {
	sm := newTestSessionManager(t)

	called := false
	h := sm.Guard(auth.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	req := withTestUser(httptest.NewRequest("GET", "/admin", nil), "ADMIN")
	h.ServeHTTP(httptest.NewRecorder(), req)

	if !called {
		t.Error("expected handler to be called")
	}
}

func TestSignIn_RoundTripsThroughLoadSessionUser(t *testing.T) {
	sm := newTestSessionManager(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/teacher-portal/login", nil)
	user := auth.SessionUser{ID: "507f1f77bcf86cd799439011", Name: "Ms. Lee", Email: "lee@example.com", Role: auth.RoleTeacher}
	if err := sm.SignIn(rec, req, user, true); err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected one cookie, got %d", len(cookies))
	}
	if cookies[0].MaxAge <= 0 {
		t.Errorf("remembered cookie should carry a max age, got %d", cookies[0].MaxAge)
	}

	next := httptest.NewRequest("GET", "/teacher-portal/dashboard", nil)
	next.AddCookie(cookies[0])
	var got *auth.SessionUser
	sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = auth.CurrentUser(r)
	})).ServeHTTP(httptest.NewRecorder(), next)

	if got == nil || *got != user {
		t.Errorf("expected %+v, got %+v", user, got)
	}
}

func TestSignIn_WithoutRemember_IsBrowserSession(t *testing.T) {
	sm := newTestSessionManager(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/student-portal/login", nil)
	if err := sm.SignIn(rec, req, auth.SessionUser{ID: "x", Role: auth.RoleStudent}, false); err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}
	c := rec.Result().Cookies()[0]
	if c.MaxAge != 0 || !c.Expires.IsZero() {
		t.Errorf("expected session cookie, got MaxAge=%d Expires=%v", c.MaxAge, c.Expires)
	}
}

func TestSignOut_ExpiresCookie(t *testing.T) {
	sm := newTestSessionManager(t)

	rec := httptest.NewRecorder()
	if err := sm.SignOut(rec, httptest.NewRequest("POST", "/admin/logout", nil)); err != nil {
		t.Fatalf("SignOut failed: %v", err)
	}
	c := rec.Result().Cookies()[0]
	if c.MaxAge >= 0 {
		t.Errorf("expected expired cookie, got MaxAge=%d", c.MaxAge)
	}
}

func TestCurrentUser_NoUser(t *testing.T) {
	user, ok := auth.CurrentUser(httptest.NewRequest("GET", "/", nil))
	if ok || user != nil {
		t.Error("expected no user in context")
	}
}

func TestLoginPath_Unknown(t *testing.T) {
	if got := auth.LoginPath("guest"); got != "/" {
		t.Errorf("LoginPath(guest) = %q, want /", got)
	}
}

// withTestUser simulates what LoadSessionUser does.
func withTestUser(r *http.Request, role string) *http.Request {
	return auth.WithTestUser(r, &auth.SessionUser{
		ID:    "507f1f77bcf86cd799439011",
		Name:  "Test User",
		Email: "test@example.com",
		Role:  role,
	})
}
