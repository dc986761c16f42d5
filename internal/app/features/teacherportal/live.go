// internal/app/features/teacherportal/live.go
package teacherportal

import (
	"context"
	"net/http"
	"sync"

	"github.com/dalemusser/campushub/internal/app/system/feed"
	"github.com/dalemusser/campushub/internal/app/system/livepush"
	"github.com/dalemusser/campushub/internal/app/system/livequery"
	"github.com/dalemusser/campushub/internal/app/system/profile"
	"github.com/dalemusser/campushub/internal/app/system/timeouts"
	"github.com/dalemusser/campushub/internal/domain/models"
)

// All live views follow the same shape: authorization and any one-shot
// reads happen on the plain HTTP request, then the socket is upgraded and
// the view's subscriptions are started. Closing the socket stops them.

// LiveClasses pushes "classes" frames with the teacher's classes.
func (h *Handler) LiveClasses(w http.ResponseWriter, r *http.Request) {
	teacher, _ := profile.TeacherFrom(r.Context())
	q := h.classes.TeacherQuery(teacher.ID)

	h.Live.Serve(w, r, "teacher.classes", func(ctx context.Context, push livepush.Push, subs *livequery.Group) error {
		sub, err := livequery.Subscribe(ctx, h.Notifier, q, func(cs []models.Class) {
			push("classes", cs)
		}, h.Log)
		if err != nil {
			return err
		}
		subs.Add(sub)
		return nil
	})
}

// LiveAssignments pushes "assignments" frames. Class names follow renames
// because the teacher's classes are watched alongside.
func (h *Handler) LiveAssignments(w http.ResponseWriter, r *http.Request) {
	teacher, _ := profile.TeacherFrom(r.Context())
	classQ := h.classes.TeacherQuery(teacher.ID)
	assignQ := h.assignments.TeacherQuery(teacher.ID)

	h.Live.Serve(w, r, "teacher.assignments", func(ctx context.Context, push livepush.Push, subs *livequery.Group) error {
		var (
			mu          sync.Mutex
			names       = models.ClassNames{}
			assignments []models.Assignment
			loaded      bool
		)
		emit := func() {
			if loaded {
				push("assignments", withClassNames(assignments, names))
			}
		}

		cs, err := livequery.Subscribe(ctx, h.Notifier, classQ, func(classes []models.Class) {
			mu.Lock()
			defer mu.Unlock()
			names = models.NewClassNames(classes)
			emit()
		}, h.Log)
		if err != nil {
			return err
		}
		subs.Add(cs)

		as, err := livequery.Subscribe(ctx, h.Notifier, assignQ, func(list []models.Assignment) {
			mu.Lock()
			defer mu.Unlock()
			assignments, loaded = list, true
			emit()
		}, h.Log)
		if err != nil {
			return err
		}
		subs.Add(as)
		return nil
	})
}

// LivePosts pushes "posts" frames for one owned class.
func (h *Handler) LivePosts(w http.ResponseWriter, r *http.Request) {
	teacher, _ := profile.TeacherFrom(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	c, ok := h.ownedClass(ctx, w, r, teacher.ID)
	cancel()
	if !ok {
		return
	}
	q := h.posts.ClassQuery(c.ID)

	h.Live.Serve(w, r, "teacher.posts", func(ctx context.Context, push livepush.Push, subs *livequery.Group) error {
		sub, err := livequery.Subscribe(ctx, h.Notifier, q, func(posts []models.Post) {
			push("posts", posts)
		}, h.Log)
		if err != nil {
			return err
		}
		subs.Add(sub)
		return nil
	})
}

// LiveStream pushes "stream" frames for one owned class. Meetings and the
// cut-off time are read once when the stream opens; every change to the
// class's posts recomposes against them.
func (h *Handler) LiveStream(w http.ResponseWriter, r *http.Request) {
	teacher, _ := profile.TeacherFrom(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	c, ok := h.ownedClass(ctx, w, r, teacher.ID)
	if !ok {
		cancel()
		return
	}
	meetings, err := h.meetings.ListAll(ctx)
	cancel()
	if err != nil {
		h.ErrLog.LogServerError(w, r, "live stream: list meetings", err, "Failed to load meetings.")
		return
	}
	now := h.Now()
	q := h.posts.ClassQuery(c.ID)

	h.Live.Serve(w, r, "teacher.stream", func(ctx context.Context, push livepush.Push, subs *livequery.Group) error {
		sub, err := livequery.Subscribe(ctx, h.Notifier, q, func(posts []models.Post) {
			push("stream", feed.Compose(posts, meetings, c.ID, now))
		}, h.Log)
		if err != nil {
			return err
		}
		subs.Add(sub)
		return nil
	})
}

// LiveSubmissions pushes "submissions" frames for one owned assignment.
func (h *Handler) LiveSubmissions(w http.ResponseWriter, r *http.Request) {
	teacher, _ := profile.TeacherFrom(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	a, ok := h.ownedAssignment(ctx, w, r, teacher.ID)
	cancel()
	if !ok {
		return
	}
	q := h.submissions.AssignmentQuery(a.ID)

	h.Live.Serve(w, r, "teacher.submissions", func(ctx context.Context, push livepush.Push, subs *livequery.Group) error {
		sub, err := livequery.Subscribe(ctx, h.Notifier, q, func(list []models.Submission) {
			lookupCtx, cancel := context.WithTimeout(ctx, timeouts.Short())
			defer cancel()
			push("submissions", h.withStudentNames(lookupCtx, list))
		}, h.Log)
		if err != nil {
			return err
		}
		subs.Add(sub)
		return nil
	})
}
