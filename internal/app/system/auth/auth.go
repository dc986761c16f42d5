package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/campushub/internal/app/system/respond"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| Roles & session keys                                                        |
*─────────────────────────────────────────────────────────────────────────────*/

const (
	RoleAdmin   = "admin"
	RoleTeacher = "teacher"
	RoleStudent = "student"
)

const (
	isAuthKey = "is_authenticated"
	userIDKey = "user_id"
	userName  = "user_name"
	userEmail = "user_email"
	userRole  = "user_role"
)

// LoginPath is where each portal sends callers that are not signed in.
func LoginPath(role string) string {
	switch role {
	case RoleAdmin:
		return "/admin/login"
	case RoleTeacher:
		return "/teacher-portal/login"
	case RoleStudent:
		return "/student-portal/login"
	}
	return "/"
}

/*─────────────────────────────────────────────────────────────────────────────*
| Current-User helper                                                        |
*─────────────────────────────────────────────────────────────────────────────*/

// SessionUser is what we cache in the session & inject into r.Context().
type SessionUser struct {
	ID    string
	Name  string
	Email string
	Role  string
}

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the user & "found?" flag.
func CurrentUser(r *http.Request) (*SessionUser, bool) {
	u, ok := r.Context().Value(currentUserKey).(*SessionUser)
	return u, ok
}

// WithTestUser attaches u to the request context as LoadSessionUser would.
func WithTestUser(r *http.Request, u *SessionUser) *http.Request {
	return withUser(r, u)
}

/*─────────────────────────────────────────────────────────────────────────────*
| SessionManager                                                              |
*─────────────────────────────────────────────────────────────────────────────*/

// SessionManager owns the cookie store. One is built at startup and handed
// to every feature that reads or writes the session.
type SessionManager struct {
	store *sessions.CookieStore
	name  string
	log   *zap.Logger
}

// NewSessionManager builds the cookie store. The secure flag controls the
// Secure attribute and the SameSite mode (None over HTTPS, Lax in dev).
func NewSessionManager(sessionKey, name, domain string, maxAge time.Duration, secure bool, logger *zap.Logger) (*SessionManager, error) {
	if sessionKey == "" {
		return nil, fmt.Errorf("session key is empty; provide ≥32 random chars")
	}
	if len(sessionKey) < 32 {
		logger.Warn("session key is short; 32+ chars recommended",
			zap.Int("length", len(sessionKey)))
	}
	if name == "" {
		name = "campushub-session"
	}

	store := sessions.NewCookieStore([]byte(sessionKey))
	opts := &sessions.Options{
		Domain:   domain,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		Secure:   secure,
		HttpOnly: true,
	}
	if secure {
		opts.SameSite = http.SameSiteNoneMode
	} else {
		opts.SameSite = http.SameSiteLaxMode
	}
	store.Options = opts

	logger.Info("session store initialized",
		zap.String("name", name),
		zap.Bool("secure", secure),
		zap.String("domain", domain),
		zap.Duration("max_age", maxAge))

	return &SessionManager{store: store, name: name, log: logger}, nil
}

// Name is the session cookie name.
func (m *SessionManager) Name() string { return m.name }

// LoadSessionUser injects the user into context if they are logged in.
func (m *SessionManager) LoadSessionUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := m.store.Get(r, m.name)
		if err != nil {
			// Tampered or stale cookie; treat as signed out.
			next.ServeHTTP(w, r)
			return
		}
		if isAuth, _ := sess.Values[isAuthKey].(bool); isAuth {
			r = withUser(r, &SessionUser{
				ID:    getString(sess, userIDKey),
				Name:  getString(sess, userName),
				Email: getString(sess, userEmail),
				Role:  getString(sess, userRole),
			})
		}
		next.ServeHTTP(w, r)
	})
}

// SignIn writes the session cookie. Without remember the cookie lasts for
// the browser session only.
func (m *SessionManager) SignIn(w http.ResponseWriter, r *http.Request, u SessionUser, remember bool) error {
	if u.ID == "" || u.Role == "" {
		return errors.New("sign in: user id and role are required")
	}
	sess, _ := m.store.Get(r, m.name)
	sess.Values[isAuthKey] = true
	sess.Values[userIDKey] = u.ID
	sess.Values[userName] = u.Name
	sess.Values[userEmail] = u.Email
	sess.Values[userRole] = u.Role

	opts := *m.store.Options
	if !remember {
		opts.MaxAge = 0
	}
	sess.Options = &opts
	return sess.Save(r, w)
}

// SignOut expires the session cookie.
func (m *SessionManager) SignOut(w http.ResponseWriter, r *http.Request) error {
	sess, _ := m.store.Get(r, m.name)
	for k := range sess.Values {
		delete(sess.Values, k)
	}
	opts := *m.store.Options
	opts.MaxAge = -1
	sess.Options = &opts
	return sess.Save(r, w)
}

// Guard protects a portal. Callers with no session, or with a session for a
// different role, are sent to that portal's login route:
//   - HTMX: HX-Redirect with 401
//   - HTML: 303 redirect
//   - API:  401 JSON error
func (m *SessionManager) Guard(role string) func(http.Handler) http.Handler {
	want := strings.ToLower(strings.TrimSpace(role))
	login := LoginPath(want)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if u, ok := CurrentUser(r); ok && strings.ToLower(u.Role) == want {
				next.ServeHTTP(w, r)
				return
			}
			m.log.Debug("portal guard redirect",
				zap.String("path", r.URL.Path),
				zap.String("role", want))
			RedirectToLogin(w, r, login)
		})
	}
}

// RedirectToLogin sends the caller to login using the HTMX/HTML/API split.
func RedirectToLogin(w http.ResponseWriter, r *http.Request, login string) {
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", login)
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	if wantsHTML(r) {
		http.Redirect(w, r, login, http.StatusSeeOther)
		return
	}
	respond.Error(w, http.StatusUnauthorized, "unauthorized")
}

// helpers

func withUser(r *http.Request, u *SessionUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

func getString(s *sessions.Session, key string) string {
	if v, ok := s.Values[key].(string); ok {
		return v
	}
	return ""
}

func wantsHTML(r *http.Request) bool {
	if r.Header.Get("HX-Request") == "true" {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}
