// internal/app/features/calendarevent/routes.go
package calendarevent

import "github.com/go-chi/chi/v5"

// Routes mounts at /api.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/create-calendar-event", h.HandleCreate)
	return r
}
