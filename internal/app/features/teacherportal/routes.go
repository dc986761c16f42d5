// internal/app/features/teacherportal/routes.go
package teacherportal

import (
	"net/http"

	"github.com/dalemusser/campushub/internal/app/features/login"
	"github.com/dalemusser/campushub/internal/app/features/logout"
	"github.com/dalemusser/campushub/internal/app/system/auth"
	"github.com/dalemusser/campushub/internal/app/system/profile"
	"github.com/go-chi/chi/v5"
)

// Routes mounts at /teacher-portal.
func Routes(h *Handler, in *login.Handler, out *logout.Handler, sm *auth.SessionManager, profiles *profile.Loader) chi.Router {
	r := chi.NewRouter()

	r.Get("/login", in.ServeLogin)
	r.Post("/login", in.HandleLoginPost)
	r.Post("/password-reset", in.HandlePasswordReset)
	r.Mount("/logout", logout.Routes(out))

	r.Group(func(pr chi.Router) {
		pr.Use(sm.Guard(auth.RoleTeacher))
		pr.Use(profiles.RequireTeacher)

		pr.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/teacher-portal/dashboard", http.StatusSeeOther)
		})
		pr.Get("/dashboard", h.ServeDashboard)
		pr.Get("/settings", h.ServeSettings)

		// CLASSES
		pr.Get("/classes", h.ServeClasses)
		pr.Post("/classes", h.HandleCreateClass)
		pr.Get("/classes/{id}", h.ServeClass)
		pr.Post("/classes/{id}", h.HandleUpdateClass)
		pr.Delete("/classes/{id}", h.HandleDeleteClass)

		// POSTS + STREAM
		pr.Get("/classes/{id}/posts", h.ServePosts)
		pr.Post("/classes/{id}/posts", h.HandleCreatePost)
		pr.Delete("/posts/{id}", h.HandleDeletePost)
		pr.Get("/classes/{id}/stream", h.ServeStream)

		// ASSIGNMENTS
		pr.Get("/assignments", h.ServeAssignments)
		pr.Post("/assignments", h.HandleCreateAssignment)
		pr.Post("/assignments/{id}", h.HandleUpdateAssignment)
		pr.Delete("/assignments/{id}", h.HandleDeleteAssignment)
		pr.Get("/assignments/{id}/submissions", h.ServeSubmissions)
		pr.Post("/submissions/{id}/grade", h.HandleGrade)

		// MEETINGS + CALENDAR
		pr.Post("/meetings", h.HandleCreateMeeting)
		pr.Delete("/meetings/{id}", h.HandleDeleteMeeting)
		pr.Get("/calendar", h.ServeCalendar)

		// LIVE (WebSocket)
		pr.Get("/live/classes", h.LiveClasses)
		pr.Get("/live/assignments", h.LiveAssignments)
		pr.Get("/live/classes/{id}/posts", h.LivePosts)
		pr.Get("/live/classes/{id}/stream", h.LiveStream)
		pr.Get("/live/assignments/{id}/submissions", h.LiveSubmissions)
	})

	return r
}
