package calendarview

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/dalemusser/campushub/internal/domain/models"
	"go.uber.org/zap"
)

func meetingAt(title string, at time.Time) models.Meeting {
	return models.Meeting{Title: title, ScheduledAt: at, CreatedBy: "t1"}
}

func TestToday_CalendarDayMatch(t *testing.T) {
	loc := time.FixedZone("EST", -5*3600)
	now := time.Date(2026, 3, 10, 23, 30, 0, 0, loc)

	meetings := []models.Meeting{
		meetingAt("late", time.Date(2026, 3, 10, 23, 59, 0, 0, loc)),
		meetingAt("early", time.Date(2026, 3, 10, 0, 5, 0, 0, loc)),
		meetingAt("tomorrow-soon", time.Date(2026, 3, 11, 0, 10, 0, 0, loc)), // within 24h, other day
		meetingAt("yesterday", time.Date(2026, 3, 9, 23, 45, 0, 0, loc)),
		meetingAt("next-year", time.Date(2027, 3, 10, 12, 0, 0, 0, loc)),
		{Title: "unscheduled"},
	}

	got := Today(meetings, now)
	if len(got) != 2 {
		t.Fatalf("got %d meetings, want 2: %+v", len(got), got)
	}
	if got[0].Title != "early" || got[1].Title != "late" {
		t.Errorf("unexpected order: %q, %q", got[0].Title, got[1].Title)
	}
}

func TestToday_UsesNowLocation(t *testing.T) {
	// 02:00 UTC on the 11th is still the 10th in New York.
	ny := time.FixedZone("EDT", -4*3600)
	now := time.Date(2026, 6, 10, 20, 0, 0, 0, ny)
	m := meetingAt("evening", time.Date(2026, 6, 11, 2, 0, 0, 0, time.UTC))

	if got := Today([]models.Meeting{m}, now); len(got) != 1 {
		t.Errorf("expected meeting to count as today in %s", ny)
	}
}

func TestMonth_NextPrevAcrossYear(t *testing.T) {
	dec := Month{Year: 2025, Month: time.December}
	if got := dec.Next(); got != (Month{2026, time.January}) {
		t.Errorf("Next = %+v", got)
	}
	jan := Month{Year: 2026, Month: time.January}
	if got := jan.Prev(); got != dec {
		t.Errorf("Prev = %+v", got)
	}
	if (Month{2024, time.February}).Days() != 29 || (Month{2026, time.February}).Days() != 28 {
		t.Error("February length wrong")
	}
}

func TestParseMonth(t *testing.T) {
	now := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	tests := []struct {
		query string
		want  Month
	}{
		{"", Month{2026, time.October}},
		{"year=2026&month=2", Month{2026, time.February}},
		{"year=2026&month=13", Month{2026, time.October}},
		{"year=abc&month=3", Month{2026, time.October}},
		{"month=3", Month{2026, time.October}},
	}
	for _, tc := range tests {
		q, _ := url.ParseQuery(tc.query)
		if got := ParseMonth(q, now); got != tc.want {
			t.Errorf("ParseMonth(%q) = %+v, want %+v", tc.query, got, tc.want)
		}
	}
}

func TestByDay(t *testing.T) {
	march := Month{2026, time.March}
	meetings := []models.Meeting{
		meetingAt("a", time.Date(2026, 3, 5, 15, 0, 0, 0, time.UTC)),
		meetingAt("b", time.Date(2026, 3, 5, 9, 0, 0, 0, time.UTC)),
		meetingAt("c", time.Date(2026, 3, 31, 9, 0, 0, 0, time.UTC)),
		meetingAt("april", time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)),
	}
	got := ByDay(meetings, march, time.UTC)
	if len(got) != 2 {
		t.Fatalf("got %d days, want 2", len(got))
	}
	if len(got[5]) != 2 || got[5][0].Title != "b" {
		t.Errorf("day 5: %+v", got[5])
	}
	if len(got[31]) != 1 {
		t.Errorf("day 31: %+v", got[31])
	}
}

type countingLookup struct {
	calls map[string]int
	names map[string]string
	fail  bool
}

func (c *countingLookup) FullName(_ context.Context, id string) (string, bool, error) {
	c.calls[id]++
	if c.fail {
		return "", false, errors.New("db down")
	}
	n, ok := c.names[id]
	return n, ok, nil
}

func TestOrganizers_MemoizesHitsAndMisses(t *testing.T) {
	lookup := &countingLookup{calls: map[string]int{}, names: map[string]string{"t1": "Ms. Rivera"}}
	org := NewOrganizers(lookup, zap.NewNop())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if got := org.Name(ctx, "t1"); got != "Ms. Rivera" {
			t.Errorf("Name(t1) = %q", got)
		}
		if got := org.Name(ctx, "ghost"); got != "ghost" {
			t.Errorf("Name(ghost) = %q, want raw id", got)
		}
	}
	if lookup.calls["t1"] != 1 || lookup.calls["ghost"] != 1 {
		t.Errorf("expected one lookup per id, got %v", lookup.calls)
	}
}

func TestOrganizers_ErrorNotCached(t *testing.T) {
	lookup := &countingLookup{calls: map[string]int{}, fail: true}
	org := NewOrganizers(lookup, zap.NewNop())

	_ = org.Name(context.Background(), "t1")
	_ = org.Name(context.Background(), "t1")
	if lookup.calls["t1"] != 2 {
		t.Errorf("failed lookups should be retried, got %d calls", lookup.calls["t1"])
	}
}

func TestBuildMonth(t *testing.T) {
	lookup := &countingLookup{calls: map[string]int{}, names: map[string]string{"t1": "Mr. Okafor"}}
	now := time.Date(2026, 3, 18, 10, 0, 0, 0, time.UTC)
	meetings := []models.Meeting{meetingAt("standup", time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC))}

	v := BuildMonth(context.Background(), meetings, MonthOf(now), now, NewOrganizers(lookup, zap.NewNop()))
	if v.Today != 18 || v.Days != 31 || v.FirstWeekday != time.Sunday {
		t.Errorf("unexpected header: %+v", v)
	}
	if len(v.ByDay[2]) != 1 || v.ByDay[2][0].Organizer != "Mr. Okafor" {
		t.Errorf("day 2: %+v", v.ByDay[2])
	}
}
