// internal/app/features/login/handler.go
package login

// Sign-in and password-reset requests for the teacher and student portals.
// Each portal gets its own Handler bound to its role; sign-out lives in
// features/logout.

import (
	"context"
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/campushub/internal/app/features/errors"
	"github.com/dalemusser/campushub/internal/app/system/auditlog"
	"github.com/dalemusser/campushub/internal/app/system/auth"
	"github.com/dalemusser/campushub/internal/app/system/formutil"
	"github.com/dalemusser/campushub/internal/app/system/identity"
	"github.com/dalemusser/campushub/internal/app/system/inputval"
	"github.com/dalemusser/campushub/internal/app/system/profile"
	"github.com/dalemusser/campushub/internal/app/system/ratelimit"
	"github.com/dalemusser/campushub/internal/app/system/respond"
	"github.com/dalemusser/campushub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// Handler serves one portal's credential endpoints.
type Handler struct {
	Role       string
	Home       string // where a successful sign-in lands
	Identity   *identity.Provider
	SessionMgr *auth.SessionManager
	Profiles   *profile.Loader
	Limiter    *ratelimit.LoginLimiter
	AuditLog   *auditlog.Logger
	ErrLog     *uierrors.ErrorLogger
	Log        *zap.Logger
}

func NewHandler(
	role, home string,
	ident *identity.Provider,
	sessionMgr *auth.SessionManager,
	profiles *profile.Loader,
	limiter *ratelimit.LoginLimiter,
	audit *auditlog.Logger,
	errLog *uierrors.ErrorLogger,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		Role:       role,
		Home:       home,
		Identity:   ident,
		SessionMgr: sessionMgr,
		Profiles:   profiles,
		Limiter:    limiter,
		AuditLog:   audit,
		ErrLog:     errLog,
		Log:        logger,
	}
}

type loginView struct {
	Portal   string `json:"portal"`
	Action   string `json:"action"`
	SignedIn bool   `json:"signed_in"`
	Next     string `json:"next,omitempty"`
}

// ServeLogin handles GET {portal}/login. Callers already signed in to this
// portal are told where to go.
func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	v := loginView{Portal: h.Role, Action: auth.LoginPath(h.Role)}
	if u, ok := auth.CurrentUser(r); ok && u.Role == h.Role {
		v.SignedIn = true
		v.Next = h.Home
	}
	respond.JSON(w, http.StatusOK, v)
}

type loginInput struct {
	Email    string `json:"email" validate:"required,max=254"`
	Password string `json:"password" validate:"required"`
	Remember bool   `json:"remember"`
}

// HandleLoginPost handles POST {portal}/login.
//
// Valid credentials with no profile for this portal clear the session and
// redirect back to the login route, the same as a guarded page would.
func (h *Handler) HandleLoginPost(w http.ResponseWriter, r *http.Request) {
	var in loginInput
	if err := formutil.Decode(r, &in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "login: decode body", err, "Invalid form data.")
		return
	}
	in.Email = strings.TrimSpace(in.Email)
	if res := inputval.Validate(in); res.HasErrors() {
		respond.ErrorDetails(w, http.StatusBadRequest, res.First(), res.Errors)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if ok, reason := h.Limiter.Check(r, in.Email); !ok {
		h.AuditLog.LoginRateLimited(ctx, r, h.Role, in.Email)
		respond.Error(w, http.StatusTooManyRequests, reason)
		return
	}

	acct, err := h.Identity.SignIn(ctx, in.Email, in.Password)
	switch {
	case errors.Is(err, identity.ErrInvalidCredentials):
		h.AuditLog.LoginFailed(ctx, r, h.Role, in.Email, "invalid credentials")
		respond.Error(w, http.StatusUnauthorized, "Invalid email or password.")
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "login: sign in", err, "A server error occurred.")
		return
	}

	accountID := acct.ID.Hex()
	name, err := h.profileName(ctx, accountID)
	if err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			h.AuditLog.LoginNoProfile(ctx, r, h.Role, accountID)
		} else {
			h.Log.Warn("login: profile lookup failed",
				zap.String("role", h.Role),
				zap.String("account_id", accountID),
				zap.Error(err))
		}
		if err := h.SessionMgr.SignOut(w, r); err != nil {
			h.Log.Error("login: clear session", zap.Error(err))
		}
		http.Redirect(w, r, auth.LoginPath(h.Role), http.StatusSeeOther)
		return
	}

	user := auth.SessionUser{ID: accountID, Name: name, Email: acct.Email, Role: h.Role}
	if err := h.SessionMgr.SignIn(w, r, user, in.Remember); err != nil {
		h.ErrLog.LogServerError(w, r, "login: save session", err, "A server error occurred.")
		return
	}
	h.Limiter.Succeeded(in.Email)
	h.AuditLog.LoginSuccess(ctx, r, h.Role, accountID, acct.Email)

	http.Redirect(w, r, h.Home, http.StatusSeeOther)
}

func (h *Handler) profileName(ctx context.Context, accountID string) (string, error) {
	switch h.Role {
	case auth.RoleTeacher:
		t, err := h.Profiles.Teacher(ctx, accountID)
		return t.FullName, err
	case auth.RoleStudent:
		st, err := h.Profiles.Student(ctx, accountID)
		return st.FullName, err
	}
	return "", profile.ErrNotFound
}

type resetInput struct {
	Email string `json:"email" validate:"required,email,max=254"`
}

// HandlePasswordReset handles POST {portal}/password-reset. The response
// is the same whether or not the address has an account.
func (h *Handler) HandlePasswordReset(w http.ResponseWriter, r *http.Request) {
	var in resetInput
	if err := formutil.Decode(r, &in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "password reset: decode body", err, "Invalid form data.")
		return
	}
	in.Email = strings.TrimSpace(in.Email)
	if res := inputval.Validate(in); res.HasErrors() {
		respond.ErrorDetails(w, http.StatusBadRequest, res.First(), res.Errors)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Identity.RequestPasswordReset(ctx, in.Email); err != nil {
		h.ErrLog.LogServerError(w, r, "password reset: request", err, "Could not send the reset email. Please try again.")
		return
	}
	h.AuditLog.PasswordResetRequested(ctx, r, h.Role, in.Email)

	respond.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "If an account exists for that email, a reset link is on its way.",
	})
}
