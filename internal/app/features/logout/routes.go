// internal/app/features/logout/routes.go
package logout

import "github.com/go-chi/chi/v5"

// Routes serves POST / and is mounted under each portal's /logout.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.ServeLogout)
	return r
}
