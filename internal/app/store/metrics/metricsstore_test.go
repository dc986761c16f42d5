package metricsstore_test

import (
	"testing"
	"time"

	metricsstore "github.com/dalemusser/campushub/internal/app/store/metrics"
	"github.com/dalemusser/campushub/internal/testutil"
	"go.uber.org/zap"
)

func TestFetchDashboardCounts_Empty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	counts := metricsstore.FetchDashboardCounts(ctx, db, time.Now(), zap.NewNop())

	if counts != (metricsstore.Counts{}) {
		t.Errorf("expected all zero counts, got %+v", counts)
	}
}

func TestFetchDashboardCounts_WithData(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	now := time.Now().UTC()

	t1 := fixtures.CreateTeacher(ctx, "Teacher One", "t1@example.com")
	fixtures.CreateTeacher(ctx, "Teacher Two", "t2@example.com")

	class := fixtures.CreateClass(ctx, "Algebra", t1.ID)
	fixtures.CreateClass(ctx, "Biology", t1.ID)
	fixtures.CreateClass(ctx, "Chemistry")

	fixtures.CreateStudent(ctx, "Student One", "s1@example.com", class.ID)
	fixtures.CreateStudent(ctx, "Student Two", "s2@example.com")
	fixtures.CreateStudent(ctx, "Student Three", "s3@example.com")
	fixtures.CreateStudent(ctx, "Student Four", "s4@example.com")

	fixtures.CreateMeeting(ctx, "Past", nil, t1.ID.Hex(), now.Add(-time.Hour))
	fixtures.CreateMeeting(ctx, "Soon", &class.ID, t1.ID.Hex(), now.Add(time.Hour))
	fixtures.CreateMeeting(ctx, "Later", nil, t1.ID.Hex(), now.Add(48*time.Hour))

	counts := metricsstore.FetchDashboardCounts(ctx, db, now, zap.NewNop())

	want := metricsstore.Counts{Teachers: 2, Students: 4, Classes: 3, Meetings: 3, UpcomingMeetings: 2}
	if counts != want {
		t.Errorf("counts = %+v, want %+v", counts, want)
	}
}
