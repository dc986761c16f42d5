// internal/app/features/teacherportal/meetings.go
package teacherportal

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	auditstore "github.com/dalemusser/campushub/internal/app/store/audit"
	meetingstore "github.com/dalemusser/campushub/internal/app/store/meetings"
	"github.com/dalemusser/campushub/internal/app/system/auth"
	"github.com/dalemusser/campushub/internal/app/system/formutil"
	"github.com/dalemusser/campushub/internal/app/system/inputval"
	"github.com/dalemusser/campushub/internal/app/system/profile"
	"github.com/dalemusser/campushub/internal/app/system/respond"
	"github.com/dalemusser/campushub/internal/app/system/timeouts"
	"github.com/dalemusser/campushub/internal/domain/models"
)

// createMeetingInput records a meeting, usually one the calendar bridge
// just created upstream. ClassID is optional.
type createMeetingInput struct {
	Title       string    `json:"title" validate:"required,max=200"`
	ClassID     string    `json:"class_id" validate:"omitempty,len=24,hexadecimal"`
	ScheduledAt time.Time `json:"scheduled_at" validate:"required"`
	Link        string    `json:"link" validate:"omitempty,url,max=500"`
	Description string    `json:"description" validate:"max=5000"`
}

// HandleCreateMeeting handles POST /teacher-portal/meetings.
func (h *Handler) HandleCreateMeeting(w http.ResponseWriter, r *http.Request) {
	teacher, _ := profile.TeacherFrom(r.Context())

	var in createMeetingInput
	if err := formutil.Decode(r, &in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "create meeting: decode body", err, "Invalid form data.")
		return
	}
	if res := inputval.Validate(in); res.HasErrors() {
		respond.ErrorDetails(w, http.StatusBadRequest, res.First(), res.Errors)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	m := models.Meeting{
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		ScheduledAt: in.ScheduledAt,
		CreatedBy:   teacher.ID.Hex(),
		Link:        strings.TrimSpace(in.Link),
	}
	if in.ClassID != "" {
		classID, ok := h.ownsClassID(ctx, w, r, in.ClassID, teacher.ID)
		if !ok {
			return
		}
		m.ClassID = &classID
	}

	m, err := h.meetings.Create(ctx, m)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "create meeting", err, "Failed to save meeting.")
		return
	}
	h.AuditLog.Content(ctx, r, auth.RoleTeacher, auditstore.EventMeetingCreated, teacher.ID.Hex(), m.DocID,
		map[string]string{"scheduled_at": m.ScheduledAt.Format(time.RFC3339)})

	reply(w, r, http.StatusCreated, "/teacher-portal/calendar", m)
}

// HandleDeleteMeeting handles DELETE /teacher-portal/meetings/{id}. Only
// the organizer may delete a meeting.
func (h *Handler) HandleDeleteMeeting(w http.ResponseWriter, r *http.Request) {
	teacher, _ := profile.TeacherFrom(r.Context())

	id, ok := formutil.ObjectID(r, "id")
	if !ok {
		respond.Error(w, http.StatusBadRequest, "Bad meeting id.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	m, err := h.meetings.Get(ctx, id)
	if errors.Is(err, meetingstore.ErrNotFound) {
		h.ErrLog.LogNotFound(w, r, "delete meeting: not found", err, "Meeting not found.")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "delete meeting: get", err, "A database error occurred.")
		return
	}
	if m.CreatedBy != teacher.ID.Hex() {
		h.ErrLog.LogForbidden(w, r, "delete meeting: not organizer", "Only the organizer can delete this meeting.")
		return
	}
	if _, err := h.meetings.Delete(ctx, m.ID); err != nil {
		h.ErrLog.LogServerError(w, r, "delete meeting", err, "Failed to delete meeting.")
		return
	}
	h.AuditLog.Content(ctx, r, auth.RoleTeacher, auditstore.EventMeetingDeleted, teacher.ID.Hex(), m.DocID, nil)

	respond.JSON(w, http.StatusOK, map[string]any{"success": true, "id": m.DocID})
}
