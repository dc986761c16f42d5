// internal/app/features/teacherportal/dashboard.go
package teacherportal

import (
	"context"
	"net/http"

	"github.com/dalemusser/campushub/internal/app/system/calendarview"
	"github.com/dalemusser/campushub/internal/app/system/profile"
	"github.com/dalemusser/campushub/internal/app/system/respond"
	"github.com/dalemusser/campushub/internal/app/system/timeouts"
	"github.com/dalemusser/campushub/internal/domain/models"
)

// assignmentView is an assignment with its class name resolved.
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
	Profile       models.Teacher             `json:"profile"`
	Classes       []models.Class             `json:"classes"`
	Assignments   []assignmentView           `json:"assignments"`
	TodayMeetings []calendarview.MeetingView `json:"today_meetings"`
}

// ServeDashboard handles GET /teacher-portal/dashboard.
func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	teacher, _ := profile.TeacherFrom(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	classes, err := h.classes.ListByTeacher(ctx, teacher.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "teacher dashboard: list classes", err, "Failed to load classes.")
		return
	}
	assignments, err := h.assignments.ListByTeacher(ctx, teacher.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "teacher dashboard: list assignments", err, "Failed to load assignments.")
		return
	}
	meetings, err := h.meetings.ListAll(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "teacher dashboard: list meetings", err, "Failed to load meetings.")
		return
	}

	org := calendarview.NewOrganizers(h.teachers, h.Log)
	respond.JSON(w, http.StatusOK, dashboardData{
		Title:         "Teacher Dashboard",
		Profile:       teacher,
		Classes:       classes,
		Assignments:   withClassNames(assignments, models.NewClassNames(classes)),
		TodayMeetings: calendarview.Resolve(ctx, calendarview.Today(meetings, h.Now()), org),
	})
}

// ServeSettings handles GET /teacher-portal/settings.
func (h *Handler) ServeSettings(w http.ResponseWriter, r *http.Request) {
	teacher, _ := profile.TeacherFrom(r.Context())
	respond.JSON(w, http.StatusOK, map[string]any{
		"title":   "Settings",
		"profile": teacher,
	})
}

// ServeCalendar handles GET /teacher-portal/calendar?year=&month=.
func (h *Handler) ServeCalendar(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	meetings, err := h.meetings.ListAll(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "teacher calendar: list meetings", err, "Failed to load meetings.")
		return
	}
	now := h.Now()
	month := calendarview.ParseMonth(r.URL.Query(), now)
	org := calendarview.NewOrganizers(h.teachers, h.Log)
	respond.JSON(w, http.StatusOK, calendarview.BuildMonth(ctx, meetings, month, now, org))
}
