// internal/app/features/errors/errors.go
package errors

import (
	"net/http"

	"github.com/dalemusser/campushub/internal/app/system/auth"
	"github.com/dalemusser/campushub/internal/app/system/respond"
	"go.uber.org/zap"
)

// ErrorLogger logs a failure with request context and writes the matching
// JSON error. Every portal reports failed reads and writes through it.
type ErrorLogger struct {
	log *zap.Logger
}

// NewErrorLogger wraps logger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{log: logger}
}

func (e *ErrorLogger) fields(r *http.Request, err error) []zap.Field {
	fields := []zap.Field{
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	}
	if u, ok := auth.CurrentUser(r); ok {
		fields = append(fields, zap.String("user_id", u.ID), zap.String("role", u.Role))
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	return fields
}

// LogServerError logs at error level and writes 500 with userMsg.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg string) {
	e.log.Error(msg, e.fields(r, err)...)
	respond.Error(w, http.StatusInternalServerError, userMsg)
}

// LogBadRequest logs at warn level and writes 400 with userMsg.
func (e *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg string) {
	e.log.Warn(msg, e.fields(r, err)...)
	respond.Error(w, http.StatusBadRequest, userMsg)
}

// LogNotFound logs at info level and writes 404 with userMsg.
func (e *ErrorLogger) LogNotFound(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg string) {
	e.log.Info(msg, e.fields(r, err)...)
	respond.Error(w, http.StatusNotFound, userMsg)
}

// LogForbidden logs at warn level and writes 403 with userMsg.
func (e *ErrorLogger) LogForbidden(w http.ResponseWriter, r *http.Request, msg string, userMsg string) {
	e.log.Warn(msg, e.fields(r, nil)...)
	respond.Error(w, http.StatusForbidden, userMsg)
}

// LogConflict logs at info level and writes 409 with userMsg.
func (e *ErrorLogger) LogConflict(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg string) {
	e.log.Info(msg, e.fields(r, err)...)
	respond.Error(w, http.StatusConflict, userMsg)
}
