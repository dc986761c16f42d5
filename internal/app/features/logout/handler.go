// internal/app/features/logout/handler.go
package logout

import (
	"net/http"

	"github.com/dalemusser/campushub/internal/app/system/auditlog"
	"github.com/dalemusser/campushub/internal/app/system/auth"
	"go.uber.org/zap"
)

// Handler signs the caller out of one portal and sends them to its login.
type Handler struct {
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	Audit      *auditlog.Logger
	Role       string
}

func NewHandler(role string, sessionMgr *auth.SessionManager, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Log:        logger,
		SessionMgr: sessionMgr,
		Audit:      audit,
		Role:       role,
	}
}

// ServeLogout handles POST {portal}/logout.
func (h *Handler) ServeLogout(w http.ResponseWriter, r *http.Request) {
	actor := ""
	if u, ok := auth.CurrentUser(r); ok {
		actor = u.ID
	}

	if err := h.SessionMgr.SignOut(w, r); err != nil {
		h.Log.Error("logout: save session", zap.String("role", h.Role), zap.Error(err))
	}
	if actor != "" {
		h.Audit.Logout(r.Context(), r, h.Role, actor)
	}

	login := auth.LoginPath(h.Role)

	// HTMX handling: use HX-Redirect to force a client-side navigation.
	if r.Header.Get("HX-Request") != "" {
		w.Header().Set("HX-Redirect", login)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, login, http.StatusSeeOther)
}
