// internal/app/features/teacherportal/assignments.go
package teacherportal

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	assignmentstore "github.com/dalemusser/campushub/internal/app/store/assignments"
	auditstore "github.com/dalemusser/campushub/internal/app/store/audit"
	"github.com/dalemusser/campushub/internal/app/system/auth"
	"github.com/dalemusser/campushub/internal/app/system/formutil"
	"github.com/dalemusser/campushub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/campushub/internal/app/system/inputval"
	"github.com/dalemusser/campushub/internal/app/system/profile"
	"github.com/dalemusser/campushub/internal/app/system/respond"
	"github.com/dalemusser/campushub/internal/app/system/timeouts"
	"github.com/dalemusser/campushub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const assignmentsPath = "/teacher-portal/assignments"

type createAssignmentInput struct {
	Title       string     `json:"title" validate:"required,max=200"`
	ClassID     string     `json:"class_id" validate:"required,len=24,hexadecimal"`
	Subject     string     `json:"subject" validate:"max=100"`
	DueAt       *time.Time `json:"due_at"`
	Status      string     `json:"status" validate:"max=40"`
	Priority    string     `json:"priority" validate:"max=40"`
	Material    string     `json:"material" validate:"max=500"`
	Description string     `json:"description" validate:"max=20000"`
	Points      *int       `json:"points" validate:"omitempty,gte=0"`
}

type updateAssignmentInput struct {
	Title       *string    `json:"title" validate:"omitempty,max=200"`
	ClassID     *string    `json:"class_id" validate:"omitempty,len=24,hexadecimal"`
	Subject     *string    `json:"subject" validate:"omitempty,max=100"`
	DueAt       *time.Time `json:"due_at"`
	Status      *string    `json:"status" validate:"omitempty,max=40"`
	Priority    *string    `json:"priority" validate:"omitempty,max=40"`
	Material    *string    `json:"material" validate:"omitempty,max=500"`
	Description *string    `json:"description" validate:"omitempty,max=20000"`
	Points      *int       `json:"points" validate:"omitempty,gte=0"`
}

// ownsClassID reports whether the teacher owns the class named by hex. A
// bad id or a class owned by someone else writes 400.
func (h *Handler) ownsClassID(ctx context.Context, w http.ResponseWriter, r *http.Request, hex string, teacherID primitive.ObjectID) (primitive.ObjectID, bool) {
	classID, err := primitive.ObjectIDFromHex(strings.TrimSpace(hex))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "Bad class id.")
		return primitive.NilObjectID, false
	}
	owner, err := h.classes.IsOwner(ctx, classID, teacherID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "check class owner", err, "A database error occurred.")
		return primitive.NilObjectID, false
	}
	if !owner {
		h.ErrLog.LogBadRequest(w, r, "assignment for class not owned", nil, "Choose one of your classes.")
		return primitive.NilObjectID, false
	}
	return classID, true
}

// ownedAssignment loads the {id} assignment when the teacher set it.
func (h *Handler) ownedAssignment(ctx context.Context, w http.ResponseWriter, r *http.Request, teacherID primitive.ObjectID) (models.Assignment, bool) {
	id, ok := formutil.ObjectID(r, "id")
	if !ok {
		respond.Error(w, http.StatusBadRequest, "Bad assignment id.")
		return models.Assignment{}, false
	}
	a, err := h.assignments.Get(ctx, id)
	if errors.Is(err, assignmentstore.ErrNotFound) {
		h.ErrLog.LogNotFound(w, r, "assignment not found", err, "Assignment not found.")
		return models.Assignment{}, false
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "get assignment", err, "A database error occurred.")
		return models.Assignment{}, false
	}
	if a.TeacherID != teacherID {
		h.ErrLog.LogNotFound(w, r, "assignment not owned by teacher", nil, "Assignment not found.")
		return models.Assignment{}, false
	}
	return a, true
}

// ServeAssignments handles GET /teacher-portal/assignments.
func (h *Handler) ServeAssignments(w http.ResponseWriter, r *http.Request) {
	teacher, _ := profile.TeacherFrom(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	assignments, err := h.assignments.ListByTeacher(ctx, teacher.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list assignments", err, "Failed to load assignments.")
		return
	}
	classes, err := h.classes.ListByTeacher(ctx, teacher.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list assignments: classes", err, "Failed to load classes.")
		return
	}
	views := withClassNames(assignments, models.NewClassNames(classes))
	respond.JSON(w, http.StatusOK, map[string]any{"assignments": views, "count": len(views)})
}

// HandleCreateAssignment handles POST /teacher-portal/assignments.
func (h *Handler) HandleCreateAssignment(w http.ResponseWriter, r *http.Request) {
	teacher, _ := profile.TeacherFrom(r.Context())

	var in createAssignmentInput
	if err := formutil.Decode(r, &in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "create assignment: decode body", err, "Invalid form data.")
		return
	}
	if res := inputval.Validate(in); res.HasErrors() {
		respond.ErrorDetails(w, http.StatusBadRequest, res.First(), res.Errors)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	classID, ok := h.ownsClassID(ctx, w, r, in.ClassID, teacher.ID)
	if !ok {
		return
	}
	a, err := h.assignments.Create(ctx, models.Assignment{
		Title:       in.Title,
		Subject:     strings.TrimSpace(in.Subject),
		DueAt:       in.DueAt,
		Status:      strings.TrimSpace(in.Status),
		Priority:    strings.TrimSpace(in.Priority),
		Material:    strings.TrimSpace(in.Material),
		Description: htmlsanitize.Prepare(in.Description),
		Points:      in.Points,
		TeacherID:   teacher.ID,
		ClassID:     classID,
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "create assignment", err, "Failed to create assignment.")
		return
	}
	h.AuditLog.Content(ctx, r, auth.RoleTeacher, auditstore.EventAssignmentCreated, teacher.ID.Hex(), a.DocID,
		map[string]string{"class_id": classID.Hex(), "title": a.Title})

	reply(w, r, http.StatusCreated, assignmentsPath, a)
}

// HandleUpdateAssignment handles POST /teacher-portal/assignments/{id}.
func (h *Handler) HandleUpdateAssignment(w http.ResponseWriter, r *http.Request) {
	teacher, _ := profile.TeacherFrom(r.Context())

	var in updateAssignmentInput
	if err := formutil.Decode(r, &in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "update assignment: decode body", err, "Invalid form data.")
		return
	}
	if res := inputval.Validate(in); res.HasErrors() {
		respond.ErrorDetails(w, http.StatusBadRequest, res.First(), res.Errors)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	a, ok := h.ownedAssignment(ctx, w, r, teacher.ID)
	if !ok {
		return
	}

	u := assignmentstore.Update{
		Title:    in.Title,
		Subject:  in.Subject,
		DueAt:    in.DueAt,
		Status:   in.Status,
		Priority: in.Priority,
		Material: in.Material,
		Points:   in.Points,
	}
	if in.Description != nil {
		desc := htmlsanitize.Prepare(*in.Description)
		u.Description = &desc
	}
	if in.ClassID != nil {
		classID, ok := h.ownsClassID(ctx, w, r, *in.ClassID, teacher.ID)
		if !ok {
			return
		}
		u.ClassID = &classID
	}

	err := h.assignments.Update(ctx, a.ID, u)
	if errors.Is(err, assignmentstore.ErrNotFound) {
		h.ErrLog.LogNotFound(w, r, "update assignment: gone", err, "Assignment not found.")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "update assignment", err, "Failed to update assignment.")
		return
	}
	h.AuditLog.Content(ctx, r, auth.RoleTeacher, auditstore.EventAssignmentUpdated, teacher.ID.Hex(), a.DocID, nil)

	updated, err := h.assignments.Get(ctx, a.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "update assignment: reload", err, "Failed to load assignment.")
		return
	}
	reply(w, r, http.StatusOK, assignmentsPath, updated)
}

// HandleDeleteAssignment handles DELETE /teacher-portal/assignments/{id}.
// Submissions for it are kept.
func (h *Handler) HandleDeleteAssignment(w http.ResponseWriter, r *http.Request) {
	teacher, _ := profile.TeacherFrom(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	a, ok := h.ownedAssignment(ctx, w, r, teacher.ID)
	if !ok {
		return
	}
	if _, err := h.assignments.Delete(ctx, a.ID); err != nil {
		h.ErrLog.LogServerError(w, r, "delete assignment", err, "Failed to delete assignment.")
		return
	}
	h.AuditLog.Content(ctx, r, auth.RoleTeacher, auditstore.EventAssignmentDeleted, teacher.ID.Hex(), a.DocID,
		map[string]string{"title": a.Title})

	respond.JSON(w, http.StatusOK, map[string]any{"success": true, "id": a.DocID})
}
