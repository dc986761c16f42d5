package home

import (
	"net/http"

	"github.com/dalemusser/campushub/internal/app/system/auth"
	"github.com/dalemusser/campushub/internal/app/system/respond"
	"go.uber.org/zap"
)

// Handler serves the public landing document.
type Handler struct {
	SiteName string
	Log      *zap.Logger
}

func NewHandler(siteName string, logger *zap.Logger) *Handler {
	if siteName == "" {
		siteName = "CampusHub"
	}
	return &Handler{SiteName: siteName, Log: logger}
}

type portalLink struct {
	Name  string `json:"name"`
	Path  string `json:"path"`
	Login string `json:"login"`
}

type landing struct {
	Name     string       `json:"name"`
	Portals  []portalLink `json:"portals"`
	SignedIn *signedIn    `json:"signed_in,omitempty"`
}

type signedIn struct {
	Name string `json:"name"`
	Role string `json:"role"`
	Home string `json:"home"`
}

var portals = []portalLink{
	{Name: "Admin", Path: "/admin", Login: auth.LoginPath(auth.RoleAdmin)},
	{Name: "Teacher", Path: "/teacher-portal", Login: auth.LoginPath(auth.RoleTeacher)},
	{Name: "Student", Path: "/student-portal", Login: auth.LoginPath(auth.RoleStudent)},
}

func portalHome(role string) string {
	switch role {
	case auth.RoleAdmin:
		return "/admin"
	case auth.RoleTeacher:
		return "/teacher-portal/dashboard"
	case auth.RoleStudent:
		return "/student-portal/dashboard"
	}
	return "/"
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET / – landing                                                             |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeRoot(w http.ResponseWriter, r *http.Request) {
	out := landing{Name: h.SiteName, Portals: portals}
	if u, ok := auth.CurrentUser(r); ok {
		out.SignedIn = &signedIn{Name: u.Name, Role: u.Role, Home: portalHome(u.Role)}
	}
	respond.JSON(w, http.StatusOK, out)
}
