// internal/app/features/studentportal/coursework.go
package studentportal

import (
	"context"
	"errors"
	"net/http"
	"strings"

	assignmentstore "github.com/dalemusser/campushub/internal/app/store/assignments"
	auditstore "github.com/dalemusser/campushub/internal/app/store/audit"
	classstore "github.com/dalemusser/campushub/internal/app/store/classes"
	submissionstore "github.com/dalemusser/campushub/internal/app/store/submissions"
	"github.com/dalemusser/campushub/internal/app/system/auth"
	"github.com/dalemusser/campushub/internal/app/system/feed"
	"github.com/dalemusser/campushub/internal/app/system/formutil"
	"github.com/dalemusser/campushub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/campushub/internal/app/system/inputval"
	"github.com/dalemusser/campushub/internal/app/system/profile"
	"github.com/dalemusser/campushub/internal/app/system/respond"
	"github.com/dalemusser/campushub/internal/app/system/timeouts"
	"github.com/dalemusser/campushub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// enrolledClass loads the {id} class when the student is enrolled in it.
// A class the student is not enrolled in is reported as missing.
func (h *Handler) enrolledClass(ctx context.Context, w http.ResponseWriter, r *http.Request, st models.Student) (models.Class, bool) {
	id, ok := formutil.ObjectID(r, "id")
	if !ok {
		respond.Error(w, http.StatusBadRequest, "Bad class id.")
		return models.Class{}, false
	}
	if !enrolled(st, id) {
		h.ErrLog.LogNotFound(w, r, "class not in enrollment", nil, "Class not found.")
		return models.Class{}, false
	}
	c, err := h.classes.Get(ctx, id)
	if errors.Is(err, classstore.ErrNotFound) {
		h.ErrLog.LogNotFound(w, r, "enrolled class missing", err, "Class not found.")
		return models.Class{}, false
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "get class", err, "A database error occurred.")
		return models.Class{}, false
	}
	return c, true
}

type streamData struct {
	Class   models.Class `json:"class"`
	Entries []feed.Entry `json:"entries"`
}

// ServeStream handles GET /student-portal/classes/{id}/stream.
func (h *Handler) ServeStream(w http.ResponseWriter, r *http.Request) {
	student, _ := profile.StudentFrom(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	c, ok := h.enrolledClass(ctx, w, r, student)
	if !ok {
		return
	}
	posts, err := h.posts.ListByClass(ctx, c.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "stream: list posts", err, "Failed to load posts.")
		return
	}
	meetings, err := h.meetings.ListAll(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "stream: list meetings", err, "Failed to load meetings.")
		return
	}
	respond.JSON(w, http.StatusOK, streamData{Class: c, Entries: feed.Compose(posts, meetings, c.ID, h.Now())})
}

type submitInput struct {
	Content string `json:"content" validate:"required,max=50000"`
}

// HandleSubmit handles POST /student-portal/assignments/{id}/submit. A
// student hands in each assignment once.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	student, _ := profile.StudentFrom(r.Context())

	id, ok := formutil.ObjectID(r, "id")
	if !ok {
		respond.Error(w, http.StatusBadRequest, "Bad assignment id.")
		return
	}
	var in submitInput
	if err := formutil.Decode(r, &in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "submit: decode body", err, "Invalid form data.")
		return
	}
	in.Content = strings.TrimSpace(in.Content)
	if res := inputval.Validate(in); res.HasErrors() {
		respond.ErrorDetails(w, http.StatusBadRequest, res.First(), res.Errors)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	a, err := h.assignments.Get(ctx, id)
	if errors.Is(err, assignmentstore.ErrNotFound) || (err == nil && !enrolled(student, a.ClassID)) {
		h.ErrLog.LogNotFound(w, r, "submit: assignment not available", err, "Assignment not found.")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "submit: get assignment", err, "A database error occurred.")
		return
	}

	sub, err := h.submissions.Create(ctx, models.Submission{
		AssignmentID: a.ID,
		StudentID:    student.ID,
		Content:      htmlsanitize.Prepare(in.Content),
	})
	if errors.Is(err, submissionstore.ErrAlreadySubmitted) {
		h.ErrLog.LogConflict(w, r, "submit: duplicate", err, "You already submitted this assignment.")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "submit", err, "Failed to submit.")
		return
	}
	h.AuditLog.Content(ctx, r, auth.RoleStudent, auditstore.EventSubmissionCreated, student.ID.Hex(), sub.DocID,
		map[string]string{"assignment_id": a.DocID})

	if formutil.IsJSON(r) {
		respond.JSON(w, http.StatusCreated, sub)
		return
	}
	formutil.Redirect(w, r, "/student-portal/submissions")
}

type submissionView struct {
	models.Submission
	AssignmentTitle string `json:"assignment_title,omitempty"`
}

func withTitles(subs []models.Submission, titles map[primitive.ObjectID]string) []submissionView {
	out := make([]submissionView, 0, len(subs))
	for _, s := range subs {
		out = append(out, submissionView{Submission: s, AssignmentTitle: titles[s.AssignmentID]})
	}
	return out
}

func titlesOf(as []models.Assignment) map[primitive.ObjectID]string {
	m := make(map[primitive.ObjectID]string, len(as))
	for _, a := range as {
		m[a.ID] = a.Title
	}
	return m
}

// ServeSubmissions handles GET /student-portal/submissions.
func (h *Handler) ServeSubmissions(w http.ResponseWriter, r *http.Request) {
	student, _ := profile.StudentFrom(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	subs, err := h.submissions.ListByStudent(ctx, student.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list submissions", err, "Failed to load submissions.")
		return
	}
	assignments, err := h.assignments.ListByClasses(ctx, student.ClassIDs)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list submissions: assignments", err, "Failed to load assignments.")
		return
	}
	views := withTitles(subs, titlesOf(assignments))
	respond.JSON(w, http.StatusOK, map[string]any{"submissions": views, "count": len(views)})
}
