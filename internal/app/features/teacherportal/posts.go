// internal/app/features/teacherportal/posts.go
package teacherportal

import (
	"context"
	"errors"
	"net/http"

	auditstore "github.com/dalemusser/campushub/internal/app/store/audit"
	poststore "github.com/dalemusser/campushub/internal/app/store/posts"
	"github.com/dalemusser/campushub/internal/app/system/auth"
	"github.com/dalemusser/campushub/internal/app/system/feed"
	"github.com/dalemusser/campushub/internal/app/system/formutil"
	"github.com/dalemusser/campushub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/campushub/internal/app/system/inputval"
	"github.com/dalemusser/campushub/internal/app/system/profile"
	"github.com/dalemusser/campushub/internal/app/system/respond"
	"github.com/dalemusser/campushub/internal/app/system/timeouts"
	"github.com/dalemusser/campushub/internal/domain/models"
)

type createPostInput struct {
	Title   string `json:"title" validate:"required,max=200"`
	Message string `json:"message" validate:"required,max=20000"`
	Type    string `json:"type" validate:"omitempty,oneof=announcement general"`
}

// ServePosts handles GET /teacher-portal/classes/{id}/posts.
func (h *Handler) ServePosts(w http.ResponseWriter, r *http.Request) {
	teacher, _ := profile.TeacherFrom(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	c, ok := h.ownedClass(ctx, w, r, teacher.ID)
	if !ok {
		return
	}
	posts, err := h.posts.ListByClass(ctx, c.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list posts", err, "Failed to load posts.")
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{"class": c, "posts": posts})
}

// HandleCreatePost handles POST /teacher-portal/classes/{id}/posts.
// Plain-text messages are converted to paragraphs; HTML is sanitized.
func (h *Handler) HandleCreatePost(w http.ResponseWriter, r *http.Request) {
	teacher, _ := profile.TeacherFrom(r.Context())

	var in createPostInput
	if err := formutil.Decode(r, &in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "create post: decode body", err, "Invalid form data.")
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
	p, err := h.posts.Create(ctx, models.Post{
		ClassID:   c.ID,
		Title:     in.Title,
		Message:   htmlsanitize.Prepare(in.Message),
		Type:      in.Type,
		TeacherID: teacher.ID,
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "create post", err, "Failed to create post.")
		return
	}
	h.AuditLog.Content(ctx, r, auth.RoleTeacher, auditstore.EventPostCreated, teacher.ID.Hex(), p.DocID,
		map[string]string{"class_id": c.DocID, "type": p.Type})

	reply(w, r, http.StatusCreated, classesPath+"/"+c.DocID+"/posts", p)
}

// HandleDeletePost handles DELETE /teacher-portal/posts/{id}. The author
// or any owner of the post's class may delete it.
func (h *Handler) HandleDeletePost(w http.ResponseWriter, r *http.Request) {
	teacher, _ := profile.TeacherFrom(r.Context())

	id, ok := formutil.ObjectID(r, "id")
	if !ok {
		respond.Error(w, http.StatusBadRequest, "Bad post id.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	p, err := h.posts.Get(ctx, id)
	if errors.Is(err, poststore.ErrNotFound) {
		h.ErrLog.LogNotFound(w, r, "delete post: not found", err, "Post not found.")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "delete post: get", err, "A database error occurred.")
		return
	}
	if p.TeacherID != teacher.ID {
		owner, err := h.classes.IsOwner(ctx, p.ClassID, teacher.ID)
		if err != nil {
			h.ErrLog.LogServerError(w, r, "delete post: check owner", err, "A database error occurred.")
			return
		}
		if !owner {
			h.ErrLog.LogNotFound(w, r, "delete post: not permitted", nil, "Post not found.")
			return
		}
	}

	if _, err := h.posts.Delete(ctx, p.ID); err != nil {
		h.ErrLog.LogServerError(w, r, "delete post", err, "Failed to delete post.")
		return
	}
	h.AuditLog.Content(ctx, r, auth.RoleTeacher, auditstore.EventPostDeleted, teacher.ID.Hex(), p.DocID,
		map[string]string{"class_id": p.ClassID.Hex()})

	respond.JSON(w, http.StatusOK, map[string]any{"success": true, "id": p.DocID})
}

type streamData struct {
	Class   models.Class `json:"class"`
	Entries []feed.Entry `json:"entries"`
}

// ServeStream handles GET /teacher-portal/classes/{id}/stream.
func (h *Handler) ServeStream(w http.ResponseWriter, r *http.Request) {
	teacher, _ := profile.TeacherFrom(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	c, ok := h.ownedClass(ctx, w, r, teacher.ID)
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
