// internal/app/system/feed/feed.go
// Package feed composes a class stream: the class's posts interleaved with
// upcoming meetings, newest first.
package feed

import (
	"sort"
	"time"

	"github.com/dalemusser/campushub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	KindPost    = "post"
	KindMeeting = "meeting"

	StyleAnnouncement = "announcement"
	StyleGeneral      = "general"
	StyleMeeting      = "meeting"
)

// Entry is one item on the stream. Exactly one of Post and Meeting is set.
type Entry struct {
	Kind    string          `json:"kind"`
	Style   string          `json:"style"`
	At      *time.Time      `json:"at,omitempty"`
	Post    *models.Post    `json:"post,omitempty"`
	Meeting *models.Meeting `json:"meeting,omitempty"`

	ts int64
}

// Compose returns the stream for classID. Every post appears once. A
// meeting appears when it is scheduled at or after now and belongs to
// classID or to no class. Entries are ordered by effective time
// descending (posts by created_at, meetings by scheduled time); entries
// with no time sort last. Ties keep input order.
func Compose(posts []models.Post, meetings []models.Meeting, classID primitive.ObjectID, now time.Time) []Entry {
	out := make([]Entry, 0, len(posts)+len(meetings))

	for i := range posts {
		p := posts[i]
		e := Entry{Kind: KindPost, Style: postStyle(p.Type), Post: &p}
		if !p.CreatedAt.IsZero() {
			at := p.CreatedAt
			e.At = &at
			e.ts = at.UnixNano()
		}
		out = append(out, e)
	}

	for i := range meetings {
		m := meetings[i]
		if m.ScheduledAt.IsZero() || m.ScheduledAt.Before(now) {
			continue
		}
		if m.ClassID != nil && *m.ClassID != classID {
			continue
		}
		at := m.ScheduledAt
		out = append(out, Entry{Kind: KindMeeting, Style: StyleMeeting, At: &at, Meeting: &m, ts: at.UnixNano()})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].ts > out[j].ts })
	return out
}

func postStyle(t string) string {
	if t == models.PostAnnouncement {
		return StyleAnnouncement
	}
	return StyleGeneral
}
