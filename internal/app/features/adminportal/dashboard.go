package adminportal

import (
	"context"
	"net/http"
	"time"

	metricsstore "github.com/dalemusser/campushub/internal/app/store/metrics"
	"github.com/dalemusser/campushub/internal/app/system/respond"
	"github.com/dalemusser/campushub/internal/app/system/timeouts"
)

type dashboardData struct {
	Title        string              `json:"title"`
	Counts       metricsstore.Counts `json:"counts"`
	FailedLogins int64               `json:"failed_logins_24h"`
	GeneratedAt  time.Time           `json:"generated_at"`
}

// ServeDashboard handles GET /admin.
func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	now := time.Now().UTC()
	data := dashboardData{
		Title:       "Admin Dashboard",
		Counts:      metricsstore.FetchDashboardCounts(ctx, h.DB, now, h.Log),
		GeneratedAt: now,
	}
	if n, err := h.events.FailedLogins(ctx, now.Add(-24*time.Hour)); err == nil {
		data.FailedLogins = n
	}

	respond.JSON(w, http.StatusOK, data)
}
