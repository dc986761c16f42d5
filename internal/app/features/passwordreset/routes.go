package passwordreset

import "github.com/go-chi/chi/v5"

// Routes is mounted at /password-reset.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/confirm", h.HandleConfirm)
	return r
}
