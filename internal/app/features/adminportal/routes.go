// internal/app/features/adminportal/routes.go
package adminportal

import (
	"github.com/dalemusser/campushub/internal/app/features/logout"
	"github.com/dalemusser/campushub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes serves the admin portal; mount it at /admin.
func Routes(h *Handler, out *logout.Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Get("/login", h.ServeLogin)
	r.Post("/login", h.HandleLoginPost)
	r.Mount("/logout", logout.Routes(out))

	r.Group(func(pr chi.Router) {
		pr.Use(sm.Guard(auth.RoleAdmin))
		pr.Get("/", h.ServeDashboard)
		pr.Get("/teachers", h.ServeTeachers)
		pr.Get("/students", h.ServeStudents)
		pr.Get("/classes", h.ServeClasses)
		pr.Get("/audit", h.ServeAudit)
	})

	return r
}
