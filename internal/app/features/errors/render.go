// internal/app/features/errors/render.go
package errors

import (
	"net/http"

	"github.com/dalemusser/campushub/internal/app/system/respond"
)

// Handler serves the router-level fallbacks.
type Handler struct{}

// NewHandler constructs an errors Handler.
func NewHandler() *Handler {
	return &Handler{}
}

// NotFound answers unmatched routes.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	respond.Error(w, http.StatusNotFound, "Not found.")
}

// MethodNotAllowed answers a known route called with the wrong method.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	respond.Error(w, http.StatusMethodNotAllowed, "Method not allowed.")
}
