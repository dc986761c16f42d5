package calendarview

import (
	"context"
	"time"

	"github.com/dalemusser/campushub/internal/domain/models"
)

// MeetingView is a meeting with its organizer resolved.
type MeetingView struct {
	models.Meeting
	Organizer string `json:"organizer"`
}

// MonthView is the JSON model for the calendar page.
type MonthView struct {
	Month
	MonthName    string                `json:"month_name"`
	Days         int                   `json:"days"`
	FirstWeekday time.Weekday          `json:"first_weekday"`
	Prev         Month                 `json:"prev"`
	Next         Month                 `json:"next"`
	Today        int                   `json:"today,omitempty"` // day of month when viewing the current month
	ByDay        map[int][]MeetingView `json:"by_day"`
}

// Resolve attaches organizer names to meetings.
func Resolve(ctx context.Context, meetings []models.Meeting, org *Organizers) []MeetingView {
	out := make([]MeetingView, 0, len(meetings))
	for _, m := range meetings {
		out = append(out, MeetingView{Meeting: m, Organizer: org.Name(ctx, m.CreatedBy)})
	}
	return out
}

// BuildMonth assembles the calendar for month in now's location.
func BuildMonth(ctx context.Context, meetings []models.Meeting, month Month, now time.Time, org *Organizers) MonthView {
	loc := now.Location()
	v := MonthView{
		Month:        month,
		MonthName:    month.Month.String(),
		Days:         month.Days(),
		FirstWeekday: month.First(loc).Weekday(),
		Prev:         month.Prev(),
		Next:         month.Next(),
		ByDay:        make(map[int][]MeetingView),
	}
	if MonthOf(now) == month {
		v.Today = now.Day()
	}
	for day, ms := range ByDay(meetings, month, loc) {
		v.ByDay[day] = Resolve(ctx, ms, org)
	}
	return v
}
