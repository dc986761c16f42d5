package metricsstore

import (
	"context"
	"time"

	classstore "github.com/dalemusser/campushub/internal/app/store/classes"
	meetingstore "github.com/dalemusser/campushub/internal/app/store/meetings"
	studentstore "github.com/dalemusser/campushub/internal/app/store/students"
	teacherstore "github.com/dalemusser/campushub/internal/app/store/teachers"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Counts is the set of totals shown on the admin dashboard.
type Counts struct {
	Teachers         int64 `json:"teachers"`
	Students         int64 `json:"students"`
	Classes          int64 `json:"classes"`
	Meetings         int64 `json:"meetings"`
	UpcomingMeetings int64 `json:"upcoming_meetings"`
}

// FetchDashboardCounts returns the high-level counts for the admin
// dashboard. Upcoming meetings are those scheduled at or after now.
// Intentionally tolerant: on error it logs and returns 0 for that counter.
func FetchDashboardCounts(ctx context.Context, db *mongo.Database, now time.Time, logger *zap.Logger) Counts {
	var out Counts
	meetings := meetingstore.New(db)

	for _, c := range []struct {
		name  string
		count func(context.Context) (int64, error)
		dst   *int64
	}{
		{"teachers", teacherstore.New(db).Count, &out.Teachers},
		{"students", studentstore.New(db).Count, &out.Students},
		{"classes", classstore.New(db).Count, &out.Classes},
		{"meetings", meetings.Count, &out.Meetings},
		{"upcoming_meetings", func(ctx context.Context) (int64, error) {
			return meetings.CountUpcoming(ctx, now)
		}, &out.UpcomingMeetings},
	} {
		n, err := c.count(ctx)
		if err != nil {
			logger.Warn("dashboard count failed", zap.String("counter", c.name), zap.Error(err))
			continue
		}
		*c.dst = n
	}

	return out
}
