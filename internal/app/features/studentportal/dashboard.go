// internal/app/features/studentportal/dashboard.go
package studentportal

import (
	"context"
	"net/http"

	"github.com/dalemusser/campushub/internal/app/system/calendarview"
	"github.com/dalemusser/campushub/internal/app/system/profile"
	"github.com/dalemusser/campushub/internal/app/system/respond"
	"github.com/dalemusser/campushub/internal/app/system/timeouts"
	"github.com/dalemusser/campushub/internal/domain/models"
)

type assignmentView struct {
	models.Assignment
	ClassName string `json:"class_name"`
}

func withClassNames(as []models.Assignment, names models.ClassNames) []assignmentView {
	out := make([]assignmentView, 0, len(as))
	for _, a := range as {
		out = append(out, assignmentView{Assignment: a, ClassName: names.Name(a.ClassID)})
	}
	return out
}

type dashboardData struct {
	Title         string                     `json:"title"`
	Profile       models.Student             `json:"profile"`
	Classes       []models.Class             `json:"classes"`
	Assignments   []assignmentView           `json:"assignments"`
	TodayMeetings []calendarview.MeetingView `json:"today_meetings"`
}

// ServeDashboard handles GET /student-portal/dashboard.
func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	student, _ := profile.StudentFrom(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	classes, err := h.classes.ListByIDs(ctx, student.ClassIDs)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "student dashboard: list classes", err, "Failed to load classes.")
		return
	}
	assignments, err := h.assignments.ListByClasses(ctx, student.ClassIDs)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "student dashboard: list assignments", err, "Failed to load assignments.")
		return
	}
	meetings, err := h.meetings.ListAll(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "student dashboard: list meetings", err, "Failed to load meetings.")
		return
	}

	org := calendarview.NewOrganizers(h.teachers, h.Log)
	today := calendarview.Today(visibleMeetings(student, meetings), h.Now())
	respond.JSON(w, http.StatusOK, dashboardData{
		Title:         "Student Dashboard",
		Profile:       student,
		Classes:       classes,
		Assignments:   withClassNames(assignments, models.NewClassNames(classes)),
		TodayMeetings: calendarview.Resolve(ctx, today, org),
	})
}

// ServeSettings handles GET /student-portal/settings.
func (h *Handler) ServeSettings(w http.ResponseWriter, r *http.Request) {
	student, _ := profile.StudentFrom(r.Context())
	respond.JSON(w, http.StatusOK, map[string]any{
		"title":   "Settings",
		"profile": student,
	})
}

// ServeCalendar handles GET /student-portal/calendar?year=&month=.
func (h *Handler) ServeCalendar(w http.ResponseWriter, r *http.Request) {
	student, _ := profile.StudentFrom(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	meetings, err := h.meetings.ListAll(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "student calendar: list meetings", err, "Failed to load meetings.")
		return
	}
	now := h.Now()
	month := calendarview.ParseMonth(r.URL.Query(), now)
	org := calendarview.NewOrganizers(h.teachers, h.Log)
	respond.JSON(w, http.StatusOK, calendarview.BuildMonth(ctx, visibleMeetings(student, meetings), month, now, org))
}
