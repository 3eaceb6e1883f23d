package models

import (
	"fmt"
	"time"
)

// Period is the granularity of a usage summary
type Period string

const (
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

// ParsePeriod maps a period token onto a known Period. Matching is exact,
// so anything other than "week" or "month" is treated as a day.
func ParsePeriod(s string) Period {
	switch Period(s) {
	case PeriodWeek:
		return PeriodWeek
	case PeriodMonth:
		return PeriodMonth
	default:
		return PeriodDay
	}
}

// DateWindow is an inclusive range of calendar dates.
// Start and End are midnight UTC values carrying only the civil date.
type DateWindow struct {
	Start time.Time
	End   time.Time
	Days  uint
}

// Contains reports whether day lies within the window, bounds included
func (w DateWindow) Contains(day time.Time) bool {
	return !day.Before(w.Start) && !day.After(w.End)
}

// Dates returns every date in the window in ascending order
func (w DateWindow) Dates() []time.Time {
	dates := make([]time.Time, 0, w.Days)
	for d := w.Start; !d.After(w.End); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}

// String renders the window as "start..end"
func (w DateWindow) String() string {
	return fmt.Sprintf("%s..%s", FormatDate(w.Start), FormatDate(w.End))
}

// CalendarDate strips the clock from t as observed in loc
func CalendarDate(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses an ISO calendar date (YYYY-MM-DD)
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// FormatDate renders a calendar date as YYYY-MM-DD
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
