// internal/app/features/studentportal/routes.go
package studentportal

import (
	"net/http"

	"github.com/dalemusser/campushub/internal/app/features/login"
	"github.com/dalemusser/campushub/internal/app/features/logout"
	"github.com/dalemusser/campushub/internal/app/system/auth"
	"github.com/dalemusser/campushub/internal/app/system/profile"
	"github.com/go-chi/chi/v5"
)

// Routes mounts at /student-portal.
func Routes(h *Handler, in *login.Handler, out *logout.Handler, sm *auth.SessionManager, profiles *profile.Loader) chi.Router {
	r := chi.NewRouter()

	r.Get("/login", in.ServeLogin)
	r.Post("/login", in.HandleLoginPost)
	r.Post("/password-reset", in.HandlePasswordReset)
	r.Mount("/logout", logout.Routes(out))

	r.Group(func(pr chi.Router) {
		pr.Use(sm.Guard(auth.RoleStudent))
		pr.Use(profiles.RequireStudent)

		pr.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/student-portal/dashboard", http.StatusSeeOther)
		})
		pr.Get("/dashboard", h.ServeDashboard)
		pr.Get("/settings", h.ServeSettings)
		pr.Get("/calendar", h.ServeCalendar)

		pr.Get("/classes/{id}/stream", h.ServeStream)
		pr.Post("/assignments/{id}/submit", h.HandleSubmit)
		pr.Get("/submissions", h.ServeSubmissions)

		pr.Get("/live/assignments", h.LiveAssignments)
		pr.Get("/live/posts", h.LivePosts)
		pr.Get("/live/submissions", h.LiveSubmissions)
		pr.Get("/live/classes/{id}/stream", h.LiveStream)
	})

	return r
}
