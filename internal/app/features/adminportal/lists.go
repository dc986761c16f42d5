package adminportal

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dalemusser/campushub/internal/app/store/audit"
	"github.com/dalemusser/campushub/internal/app/system/paging"
	"github.com/dalemusser/campushub/internal/app/system/respond"
	"github.com/dalemusser/campushub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/query"
)

// ServeTeachers handles GET /admin/teachers.
func (h *Handler) ServeTeachers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	teachers, err := h.teachers.List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "admin: list teachers", err, "Failed to load teachers.")
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{"teachers": teachers, "count": len(teachers)})
}

// ServeStudents handles GET /admin/students.
func (h *Handler) ServeStudents(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	students, err := h.students.List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "admin: list students", err, "Failed to load students.")
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{"students": students, "count": len(students)})
}

// ServeClasses handles GET /admin/classes. With ?paged=1, ?after= or
// ?before= it returns one page and the cursors around it.
func (h *Handler) ServeClasses(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if req, ok := paging.FromRequest(r); ok {
		page, err := h.classes.ListPage(ctx, req)
		if err != nil {
			h.ErrLog.LogServerError(w, r, "admin: page classes", err, "Failed to load classes.")
			return
		}
		respond.JSON(w, http.StatusOK, map[string]any{
			"classes":     page.Classes,
			"count":       len(page.Classes),
			"has_prev":    page.HasPrev,
			"has_next":    page.HasNext,
			"prev_cursor": page.Prev,
			"next_cursor": page.Next,
		})
		return
	}

	classes, err := h.classes.ListAll(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "admin: list classes", err, "Failed to load classes.")
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{"classes": classes, "count": len(classes)})
}

// ServeAudit handles GET /admin/audit?category=&type=&actor=&limit=.
func (h *Handler) ServeAudit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	filter := audit.QueryFilter{
		Category:  query.Get(r, "category"),
		EventType: query.Get(r, "type"),
		Actor:     query.Get(r, "actor"),
	}
	if n, err := strconv.ParseInt(query.Get(r, "limit"), 10, 64); err == nil && n > 0 && n <= 500 {
		filter.Limit = n
	}

	events, err := h.events.Query(ctx, filter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "admin: query audit", err, "Failed to load audit events.")
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{"events": events, "count": len(events)})
}
