package geometry

import (
	"time"

	"github.com/alexanderramin/gantry/internal/domain"
)

// Visible window: 365 days split 30/70 around today.
const (
	VisibleRangeDays = 365
	DaysBeforeToday  = VisibleRangeDays * 3 / 10
	DaysAfterToday   = VisibleRangeDays * 7 / 10
)

// DateRange is the inclusive span of dates the timeline renders.
type DateRange struct {
	Start    time.Time
	End      time.Time
	RawStart time.Time
	RawEnd   time.Time
	Unit     domain.ViewUnit
}

// ComputeVisibleRange returns the window around today. In week view the
// start extends back to Monday and the end forward to Sunday.
func ComputeVisibleRange(today time.Time, unit domain.ViewUnit) DateRange {
	if !unit.Valid() {
		reportInput(&InputError{Op: "ComputeVisibleRange", Date: today, Unit: string(unit), Reason: "unknown view unit"})
		unit = domain.ViewDay
	}
	rawStart := domain.AddDays(today, -DaysBeforeToday)
	rawEnd := domain.AddDays(today, DaysAfterToday)
	r := DateRange{Start: rawStart, End: rawEnd, RawStart: rawStart, RawEnd: rawEnd, Unit: unit}
	if unit == domain.ViewWeek {
		r.Start = domain.WeekStart(rawStart)
		r.End = domain.WeekEnd(rawEnd)
	}
	return r
}

// Days is the number of calendar days in the range, both ends included.
func (r DateRange) Days() int {
	if r.End.Before(r.Start) {
		return 0
	}
	return domain.DaysBetween(r.Start, r.End) + 1
}

func (r DateRange) Contains(date time.Time) bool {
	c := domain.CivilDate(date)
	return !c.Before(r.Start) && !c.After(r.End)
}

// Width is the total pixel width of the range at the given cell width.
func (r DateRange) Width(cellWidth int) int {
	return r.Days() * cellWidth
}

// GenerateVisibleDates lists the grid ticks: every day in day view, every
// Monday in week view.
func GenerateVisibleDates(r DateRange, unit domain.ViewUnit) []time.Time {
	if r.Start.IsZero() || r.End.Before(r.Start) {
		return nil
	}
	step := 1
	cur := domain.CivilDate(r.Start)
	if unit == domain.ViewWeek {
		step = 7
		cur = domain.WeekStart(r.Start)
	}
	out := make([]time.Time, 0, r.Days()/step+1)
	for !cur.After(r.End) {
		out = append(out, cur)
		cur = domain.AddDays(cur, step)
	}
	return out
}

// Tick is one header cell.
type Tick struct {
	Date           time.Time
	X              int
	Width          int
	IsToday        bool
	IsWeekend      bool
	IsFirstOfMonth bool
	IsFirstOfWeek  bool
	Week           int
}

// Ticks builds header cells for the range with their pixel extents. In week
// view a tick spans the whole week and IsToday marks the week containing today.
func Ticks(r DateRange, unit domain.ViewUnit, cellWidth int, today time.Time) []Tick {
	dates := GenerateVisibleDates(r, unit)
	if len(dates) == 0 || cellWidth <= 0 {
		return nil
	}
	today = domain.CivilDate(today)
	width := cellWidth
	if unit == domain.ViewWeek {
		width = cellWidth * 7
	}
	ticks := make([]Tick, 0, len(dates))
	for _, dt := range dates {
		_, wk := dt.ISOWeek()
		t := Tick{
			Date:           dt,
			X:              DatePosition(dt, r.Start, cellWidth, unit),
			Width:          width,
			IsFirstOfMonth: dt.Day() == 1,
			IsFirstOfWeek:  dt.Weekday() == time.Monday,
			Week:           wk,
		}
		if unit == domain.ViewWeek {
			t.IsToday = domain.WeekStart(today).Equal(dt)
			t.IsFirstOfMonth = dt.Day() <= 7
		} else {
			t.IsToday = today.Equal(dt)
			t.IsWeekend = dt.Weekday() == time.Saturday || dt.Weekday() == time.Sunday
		}
		ticks = append(ticks, t)
	}
	return ticks
}
