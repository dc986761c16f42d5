// internal/app/features/teacherportal/submissions.go
package teacherportal

import (
	"context"
	"errors"
	"net/http"
	"strings"

	auditstore "github.com/dalemusser/campushub/internal/app/store/audit"
	studentstore "github.com/dalemusser/campushub/internal/app/store/students"
	submissionstore "github.com/dalemusser/campushub/internal/app/store/submissions"
	"github.com/dalemusser/campushub/internal/app/system/auth"
	"github.com/dalemusser/campushub/internal/app/system/formutil"
	"github.com/dalemusser/campushub/internal/app/system/inputval"
	"github.com/dalemusser/campushub/internal/app/system/profile"
	"github.com/dalemusser/campushub/internal/app/system/respond"
	"github.com/dalemusser/campushub/internal/app/system/timeouts"
	"github.com/dalemusser/campushub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type submissionView struct {
	models.Submission
	StudentName string `json:"student_name"`
}

// withStudentNames resolves each distinct student once. Missing profiles
// show the raw id.
func (h *Handler) withStudentNames(ctx context.Context, subs []models.Submission) []submissionView {
	names := make(map[primitive.ObjectID]string)
	out := make([]submissionView, 0, len(subs))
	for _, s := range subs {
		name, ok := names[s.StudentID]
		if !ok {
			st, err := h.students.Get(ctx, s.StudentID)
			switch {
			case err == nil:
				name = st.FullName
			case !errors.Is(err, studentstore.ErrNotFound):
				h.Log.Warn("student lookup failed", zap.String("student_id", s.StudentID.Hex()), zap.Error(err))
			}
			if name == "" {
				name = s.StudentID.Hex()
			}
			names[s.StudentID] = name
		}
		out = append(out, submissionView{Submission: s, StudentName: name})
	}
	return out
}

// ServeSubmissions handles GET /teacher-portal/assignments/{id}/submissions.
func (h *Handler) ServeSubmissions(w http.ResponseWriter, r *http.Request) {
	teacher, _ := profile.TeacherFrom(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	a, ok := h.ownedAssignment(ctx, w, r, teacher.ID)
	if !ok {
		return
	}
	subs, err := h.submissions.ListByAssignment(ctx, a.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list submissions", err, "Failed to load submissions.")
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{
		"assignment":  a,
		"submissions": h.withStudentNames(ctx, subs),
	})
}

type gradeInput struct {
	Grade    string `json:"grade" validate:"required,max=20"`
	Feedback string `json:"feedback" validate:"max=5000"`
}

// HandleGrade handles POST /teacher-portal/submissions/{id}/grade. Only
// the teacher who set the assignment may grade it.
func (h *Handler) HandleGrade(w http.ResponseWriter, r *http.Request) {
	teacher, _ := profile.TeacherFrom(r.Context())

	id, ok := formutil.ObjectID(r, "id")
	if !ok {
		respond.Error(w, http.StatusBadRequest, "Bad submission id.")
		return
	}
	var in gradeInput
	if err := formutil.Decode(r, &in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "grade: decode body", err, "Invalid form data.")
		return
	}
	in.Grade = strings.TrimSpace(in.Grade)
	if res := inputval.Validate(in); res.HasErrors() {
		respond.ErrorDetails(w, http.StatusBadRequest, res.First(), res.Errors)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	sub, err := h.submissions.Get(ctx, id)
	if errors.Is(err, submissionstore.ErrNotFound) {
		h.ErrLog.LogNotFound(w, r, "grade: submission not found", err, "Submission not found.")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "grade: get submission", err, "A database error occurred.")
		return
	}
	a, err := h.assignments.Get(ctx, sub.AssignmentID)
	if err != nil || a.TeacherID != teacher.ID {
		h.ErrLog.LogNotFound(w, r, "grade: assignment missing or not owned", err, "Submission not found.")
		return
	}

	if err := h.submissions.Grade(ctx, sub.ID, in.Grade, strings.TrimSpace(in.Feedback)); err != nil {
		h.ErrLog.LogServerError(w, r, "grade submission", err, "Failed to save the grade.")
		return
	}
	h.AuditLog.Content(ctx, r, auth.RoleTeacher, auditstore.EventSubmissionGraded, teacher.ID.Hex(), sub.DocID,
		map[string]string{"assignment_id": a.DocID, "grade": in.Grade})

	graded, err := h.submissions.Get(ctx, sub.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "grade: reload", err, "Failed to load submission.")
		return
	}
	reply(w, r, http.StatusOK, assignmentsPath+"/"+a.DocID+"/submissions", graded)
}
