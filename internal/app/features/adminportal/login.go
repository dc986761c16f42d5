package adminportal

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/dalemusser/campushub/internal/app/system/auth"
	"github.com/dalemusser/campushub/internal/app/system/formutil"
	"github.com/dalemusser/campushub/internal/app/system/respond"
	"go.uber.org/zap"
)

type loginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ServeLogin handles GET /admin/login.
func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	signedIn := false
	if u, ok := auth.CurrentUser(r); ok && u.Role == auth.RoleAdmin {
		signedIn = true
	}
	respond.JSON(w, http.StatusOK, map[string]any{
		"portal":    auth.RoleAdmin,
		"action":    auth.LoginPath(auth.RoleAdmin),
		"signed_in": signedIn,
	})
}

// matches compares both fields in constant time. Both comparisons always
// run so timing does not reveal which one failed.
func (h *Handler) matches(username, password string) bool {
	u := subtle.ConstantTimeCompare([]byte(username), []byte(h.creds.Username))
	p := subtle.ConstantTimeCompare([]byte(password), []byte(h.creds.Password))
	return u&p == 1
}

// HandleLoginPost handles POST /admin/login. The configured pair signs in
// with the admin role and lands on /admin; anything else is a 401 with an
// inline error and no session cookie.
func (h *Handler) HandleLoginPost(w http.ResponseWriter, r *http.Request) {
	var in loginInput
	if err := formutil.Decode(r, &in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "admin login: decode body", err, "Invalid form data.")
		return
	}
	in.Username = strings.TrimSpace(in.Username)

	if ok, reason := h.Limiter.Check(r, "admin:"+in.Username); !ok {
		h.AuditLog.LoginRateLimited(r.Context(), r, auth.RoleAdmin, in.Username)
		respond.Error(w, http.StatusTooManyRequests, reason)
		return
	}

	if in.Username == "" || in.Password == "" || !h.matches(in.Username, in.Password) {
		h.AuditLog.LoginFailed(r.Context(), r, auth.RoleAdmin, in.Username, "invalid credentials")
		respond.Error(w, http.StatusUnauthorized, "Invalid username or password.")
		return
	}

	user := auth.SessionUser{ID: in.Username, Name: "Administrator", Role: auth.RoleAdmin}
	if err := h.SessionMgr.SignIn(w, r, user, false); err != nil {
		h.ErrLog.LogServerError(w, r, "admin login: save session", err, "A server error occurred.")
		return
	}
	h.Limiter.Succeeded("admin:" + in.Username)
	h.AuditLog.LoginSuccess(r.Context(), r, auth.RoleAdmin, in.Username, in.Username)
	h.Log.Info("admin signed in", zap.String("ip", r.RemoteAddr))

	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}
