package passwordreset

import (
	"context"
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/campushub/internal/app/features/errors"
	"github.com/dalemusser/campushub/internal/app/system/auditlog"
	"github.com/dalemusser/campushub/internal/app/system/formutil"
	"github.com/dalemusser/campushub/internal/app/system/identity"
	"github.com/dalemusser/campushub/internal/app/system/inputval"
	"github.com/dalemusser/campushub/internal/app/system/respond"
	"github.com/dalemusser/campushub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// Handler confirms password resets started from any portal's
// POST /password-reset.
type Handler struct {
	Identity *identity.Provider
	AuditLog *auditlog.Logger
	ErrLog   *uierrors.ErrorLogger
	Log      *zap.Logger
}

func NewHandler(id *identity.Provider, auditLog *auditlog.Logger, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{Identity: id, AuditLog: auditLog, ErrLog: errLog, Log: logger}
}

type confirmInput struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,max=128"`
}

// HandleConfirm handles POST /password-reset/confirm.
func (h *Handler) HandleConfirm(w http.ResponseWriter, r *http.Request) {
	var in confirmInput
	if err := formutil.Decode(r, &in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "password reset confirm: decode body", err, "Invalid form data.")
		return
	}
	in.Token = strings.TrimSpace(in.Token)
	if res := inputval.Validate(in); res.HasErrors() {
		respond.ErrorDetails(w, http.StatusBadRequest, res.First(), res.Errors)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	err := h.Identity.ResetPassword(ctx, in.Token, in.Password)
	switch {
	case errors.Is(err, identity.ErrWeakPassword):
		// Not audited; the token was never checked.
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, identity.ErrInvalidToken):
		h.AuditLog.PasswordReset(ctx, r, err)
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "password reset confirm", err, "Could not reset the password. Please try again.")
		return
	}
	h.AuditLog.PasswordReset(ctx, r, nil)

	respond.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Your password has been reset. You can sign in now.",
	})
}
