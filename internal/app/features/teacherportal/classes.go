// internal/app/features/teacherportal/classes.go
package teacherportal

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"strconv"

	auditstore "github.com/dalemusser/campushub/internal/app/store/audit"
	classstore "github.com/dalemusser/campushub/internal/app/store/classes"
	"github.com/dalemusser/campushub/internal/app/system/auth"
	"github.com/dalemusser/campushub/internal/app/system/formutil"
	"github.com/dalemusser/campushub/internal/app/system/inputval"
	"github.com/dalemusser/campushub/internal/app/system/mutate"
	"github.com/dalemusser/campushub/internal/app/system/profile"
	"github.com/dalemusser/campushub/internal/app/system/respond"
	"github.com/dalemusser/campushub/internal/app/system/timeouts"
	"github.com/dalemusser/campushub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const classesPath = "/teacher-portal/classes"

type createClassInput struct {
	Name     string `json:"name" validate:"required,max=200"`
	Capacity int    `json:"capacity" validate:"gte=0,lte=1000"`
}

type updateClassInput struct {
	Name         *string `json:"name" validate:"omitempty,max=200"`
	Capacity     *int    `json:"capacity" validate:"omitempty,gte=0,lte=1000"`
	StudentCount *int    `json:"student_count" validate:"omitempty,gte=0"`
	Version      *int64  `json:"version"`
}

// ownedClass loads the {id} class and checks the teacher owns it. On
// failure the response has been written.
func (h *Handler) ownedClass(ctx context.Context, w http.ResponseWriter, r *http.Request, teacherID primitive.ObjectID) (models.Class, bool) {
	id, ok := formutil.ObjectID(r, "id")
	if !ok {
		respond.Error(w, http.StatusBadRequest, "Bad class id.")
		return models.Class{}, false
	}
	c, err := h.classes.Get(ctx, id)
	if errors.Is(err, classstore.ErrNotFound) {
		h.ErrLog.LogNotFound(w, r, "class not found", err, "Class not found.")
		return models.Class{}, false
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "get class", err, "A database error occurred.")
		return models.Class{}, false
	}
	if !slices.Contains(c.TeacherIDs, teacherID) {
		h.ErrLog.LogNotFound(w, r, "class not owned by teacher", nil, "Class not found.")
		return models.Class{}, false
	}
	return c, true
}

// ServeClasses handles GET /teacher-portal/classes.
func (h *Handler) ServeClasses(w http.ResponseWriter, r *http.Request) {
	teacher, _ := profile.TeacherFrom(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	classes, err := h.classes.ListByTeacher(ctx, teacher.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list classes", err, "Failed to load classes.")
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{"classes": classes, "count": len(classes)})
}

// ServeClass handles GET /teacher-portal/classes/{id}.
func (h *Handler) ServeClass(w http.ResponseWriter, r *http.Request) {
	teacher, _ := profile.TeacherFrom(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	c, ok := h.ownedClass(ctx, w, r, teacher.ID)
	if !ok {
		return
	}
	respond.JSON(w, http.StatusOK, c)
}

// HandleCreateClass handles POST /teacher-portal/classes. The creating
// teacher becomes the class's first owner.
func (h *Handler) HandleCreateClass(w http.ResponseWriter, r *http.Request) {
	teacher, _ := profile.TeacherFrom(r.Context())

	var in createClassInput
	if err := formutil.Decode(r, &in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "create class: decode body", err, "Invalid form data.")
		return
	}
	if res := inputval.Validate(in); res.HasErrors() {
		respond.ErrorDetails(w, http.StatusBadRequest, res.First(), res.Errors)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	c, err := h.classes.Create(ctx, models.Class{
		Name:       in.Name,
		Capacity:   in.Capacity,
		TeacherIDs: []primitive.ObjectID{teacher.ID},
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "create class", err, "Failed to create class.")
		return
	}
	h.AuditLog.Content(ctx, r, auth.RoleTeacher, auditstore.EventClassCreated, teacher.ID.Hex(), c.DocID,
		map[string]string{"name": c.Name})
	h.Log.Info("class created", zap.String("class_id", c.DocID), zap.String("teacher_id", teacher.ID.Hex()))

	reply(w, r, http.StatusCreated, classesPath+"/"+c.DocID, c)
}

// HandleUpdateClass handles POST /teacher-portal/classes/{id}. When the
// caller sends version the write only lands if nobody else changed the
// class since it was read.
func (h *Handler) HandleUpdateClass(w http.ResponseWriter, r *http.Request) {
	teacher, _ := profile.TeacherFrom(r.Context())

	var in updateClassInput
	if err := formutil.Decode(r, &in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "update class: decode body", err, "Invalid form data.")
		return
	}
	if res := inputval.Validate(in); res.HasErrors() {
		respond.ErrorDetails(w, http.StatusBadRequest, res.First(), res.Errors)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	c, ok := h.ownedClass(ctx, w, r, teacher.ID)
	if !ok {
		return
	}

	u := classstore.Update{Name: in.Name, Capacity: in.Capacity, StudentCount: in.StudentCount}
	var err error
	if in.Version != nil {
		err = h.classes.UpdateVersion(ctx, c.ID, *in.Version, u)
	} else {
		err = h.classes.Update(ctx, c.ID, u)
	}
	switch {
	case errors.Is(err, mutate.ErrVersionConflict):
		h.ErrLog.LogConflict(w, r, "update class: version conflict", err,
			"This class was changed by someone else. Reload and try again.")
		return
	case errors.Is(err, classstore.ErrNotFound):
		h.ErrLog.LogNotFound(w, r, "update class: gone", err, "Class not found.")
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "update class", err, "Failed to update class.")
		return
	}

	details := map[string]string{}
	if in.Version != nil {
		details["version"] = strconv.FormatInt(*in.Version, 10)
	}
	h.AuditLog.Content(ctx, r, auth.RoleTeacher, auditstore.EventClassUpdated, teacher.ID.Hex(), c.DocID, details)

	updated, err := h.classes.Get(ctx, c.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "update class: reload", err, "Failed to load class.")
		return
	}
	reply(w, r, http.StatusOK, classesPath+"/"+c.DocID, updated)
}

// HandleDeleteClass handles DELETE /teacher-portal/classes/{id}.
// Assignments and posts for the class are kept.
func (h *Handler) HandleDeleteClass(w http.ResponseWriter, r *http.Request) {
	teacher, _ := profile.TeacherFrom(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	c, ok := h.ownedClass(ctx, w, r, teacher.ID)
	if !ok {
		return
	}
	if _, err := h.classes.Delete(ctx, c.ID); err != nil {
		h.ErrLog.LogServerError(w, r, "delete class", err, "Failed to delete class.")
		return
	}
	h.AuditLog.Content(ctx, r, auth.RoleTeacher, auditstore.EventClassDeleted, teacher.ID.Hex(), c.DocID,
		map[string]string{"name": c.Name})

	respond.JSON(w, http.StatusOK, map[string]any{"success": true, "id": c.DocID})
}
