package domain

import (
	"fmt"
	"time"
)

// DateLayout is the civil-date layout used for storage, fixtures and flags.
const DateLayout = "2006-01-02"

const secondsPerDay = 24 * 60 * 60

// CivilDate drops the time-of-day from t, keeping t's calendar day, and
// returns it as midnight UTC. All engine date math runs on civil dates.
func CivilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// AddDays returns the civil date n days after t.
func AddDays(t time.Time, n int) time.Time {
	return CivilDate(t).AddDate(0, 0, n)
}

// DaysBetween returns the number of civil days from a to b (negative when b
// is earlier than a).
func DaysBetween(a, b time.Time) int {
	return int((CivilDate(b).Unix() - CivilDate(a).Unix()) / secondsPerDay)
}

// DayOfWeekOffset returns the day's offset inside an ISO week: Monday=0 .. Sunday=6.
func DayOfWeekOffset(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// WeekStart returns the Monday of t's week as a civil date.
func WeekStart(t time.Time) time.Time {
	return AddDays(t, -DayOfWeekOffset(t))
}

// WeekEnd returns the Sunday of t's week as a civil date.
func WeekEnd(t time.Time) time.Time {
	return AddDays(WeekStart(t), 6)
}

// ParseDate parses a YYYY-MM-DD string into a civil date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", s)
	}
	return t, nil
}

// FormatDate renders a civil date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
