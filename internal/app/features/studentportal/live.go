// internal/app/features/studentportal/live.go
package studentportal

import (
	"context"
	"net/http"

	"github.com/dalemusser/campushub/internal/app/system/feed"
	"github.com/dalemusser/campushub/internal/app/system/livepush"
	"github.com/dalemusser/campushub/internal/app/system/livequery"
	"github.com/dalemusser/campushub/internal/app/system/profile"
	"github.com/dalemusser/campushub/internal/app/system/timeouts"
	"github.com/dalemusser/campushub/internal/domain/models"
)

// LiveAssignments pushes "assignments" frames for the enrolled classes.
// Enrollment is read once when the socket opens.
func (h *Handler) LiveAssignments(w http.ResponseWriter, r *http.Request) {
	student, _ := profile.StudentFrom(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	classes, err := h.classes.ListByIDs(ctx, student.ClassIDs)
	cancel()
	if err != nil {
		h.ErrLog.LogServerError(w, r, "live assignments: list classes", err, "Failed to load classes.")
		return
	}
	names := models.NewClassNames(classes)
	q := h.assignments.ClassesQuery(student.ClassIDs)

	h.Live.Serve(w, r, "student.assignments", func(ctx context.Context, push livepush.Push, subs *livequery.Group) error {
		sub, err := livequery.Subscribe(ctx, h.Notifier, q, func(as []models.Assignment) {
			push("assignments", withClassNames(as, names))
		}, h.Log)
		if err != nil {
			return err
		}
		subs.Add(sub)
		return nil
	})
}

// LivePosts pushes "posts" frames merging every enrolled class's posts,
// newest first. Each class has its own subscription; all of them are
// released together when the socket closes.
func (h *Handler) LivePosts(w http.ResponseWriter, r *http.Request) {
	student, _ := profile.StudentFrom(r.Context())
	classIDs := student.ClassIDs

	h.Live.Serve(w, r, "student.posts", func(ctx context.Context, push livepush.Push, subs *livequery.Group) error {
		merger := livequery.NewMerger(func(a, b models.Post) bool {
			return a.CreatedAt.After(b.CreatedAt)
		}, func(posts []models.Post) {
			push("posts", posts)
		})
		if len(classIDs) == 0 {
			push("posts", []models.Post{})
			return nil
		}
		for _, id := range classIDs {
			key := id.Hex()
			sub, err := livequery.Subscribe(ctx, h.Notifier, h.posts.ClassQuery(id), func(posts []models.Post) {
				merger.Set(key, posts)
			}, h.Log)
			if err != nil {
				return err
			}
			subs.Add(sub)
		}
		return nil
	})
}

// LiveSubmissions pushes "submissions" frames with the student's hand-ins.
func (h *Handler) LiveSubmissions(w http.ResponseWriter, r *http.Request) {
	student, _ := profile.StudentFrom(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	assignments, err := h.assignments.ListByClasses(ctx, student.ClassIDs)
	cancel()
	if err != nil {
		h.ErrLog.LogServerError(w, r, "live submissions: list assignments", err, "Failed to load assignments.")
		return
	}
	titles := titlesOf(assignments)
	q := h.submissions.StudentQuery(student.ID)

	h.Live.Serve(w, r, "student.submissions", func(ctx context.Context, push livepush.Push, subs *livequery.Group) error {
		sub, err := livequery.Subscribe(ctx, h.Notifier, q, func(list []models.Submission) {
			push("submissions", withTitles(list, titles))
		}, h.Log)
		if err != nil {
			return err
		}
		subs.Add(sub)
		return nil
	})
}

// LiveStream pushes "stream" frames for one enrolled class. Meetings and
// the cut-off time are fixed when the socket opens.
func (h *Handler) LiveStream(w http.ResponseWriter, r *http.Request) {
	student, _ := profile.StudentFrom(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	c, ok := h.enrolledClass(ctx, w, r, student)
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

	h.Live.Serve(w, r, "student.stream", func(ctx context.Context, push livepush.Push, subs *livequery.Group) error {
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
