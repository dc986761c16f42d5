// internal/app/system/calendarview/calendarview.go
// Package calendarview groups meetings for the dashboards and the month
// calendar: today's meetings, meetings by day of a month, and organizer
// names.
package calendarview

import (
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/dalemusser/campushub/internal/domain/models"
)

// Today returns the meetings on now's calendar day, in now's location,
// ordered by time. The match is on year, month and day, not a rolling
// 24-hour window.
func Today(meetings []models.Meeting, now time.Time) []models.Meeting {
	y, m, d := now.Date()
	loc := now.Location()
	out := make([]models.Meeting, 0)
	for _, mt := range meetings {
		if mt.ScheduledAt.IsZero() {
			continue
		}
		my, mm, md := mt.ScheduledAt.In(loc).Date()
		if my == y && mm == m && md == d {
			out = append(out, mt)
		}
	}
	sortByTime(out)
	return out
}

// Month is the calendar cursor.
type Month struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
}

// MonthOf returns the month containing t.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// ParseMonth reads ?year=&month= (month 1-12). Missing or invalid values
// fall back to the month containing now.
func ParseMonth(q url.Values, now time.Time) Month {
	cur := MonthOf(now)
	y, yerr := strconv.Atoi(q.Get("year"))
	m, merr := strconv.Atoi(q.Get("month"))
	if yerr != nil || merr != nil || m < 1 || m > 12 || y < 1 {
		return cur
	}
	return Month{Year: y, Month: time.Month(m)}
}

func (m Month) First(loc *time.Location) time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, loc)
}

func (m Month) Next() Month { return MonthOf(m.First(time.UTC).AddDate(0, 1, 0)) }
func (m Month) Prev() Month { return MonthOf(m.First(time.UTC).AddDate(0, -1, 0)) }

// Days is the number of days in the month.
func (m Month) Days() int {
	return m.Next().First(time.UTC).AddDate(0, 0, -1).Day()
}

// ByDay buckets the meetings that fall in month (in loc) by day of month.
// Each bucket is ordered by time.
func ByDay(meetings []models.Meeting, month Month, loc *time.Location) map[int][]models.Meeting {
	out := make(map[int][]models.Meeting)
	for _, mt := range meetings {
		if mt.ScheduledAt.IsZero() {
			continue
		}
		at := mt.ScheduledAt.In(loc)
		if at.Year() != month.Year || at.Month() != month.Month {
			continue
		}
		out[at.Day()] = append(out[at.Day()], mt)
	}
	for _, bucket := range out {
		sortByTime(bucket)
	}
	return out
}

func sortByTime(ms []models.Meeting) {
	sort.SliceStable(ms, func(i, j int) bool {
		return ms[i].ScheduledAt.Before(ms[j].ScheduledAt)
	})
}
