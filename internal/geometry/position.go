package geometry

import (
	"math"
	"time"

	"github.com/alexanderramin/gantry/internal/domain"
)

func validGrid(op string, date, rangeStart time.Time, cellWidth int, unit domain.ViewUnit) bool {
	var reason string
	switch {
	case date.IsZero():
		reason = "zero date"
	case rangeStart.IsZero():
		reason = "zero range start"
	case cellWidth <= 0:
		reason = "non-positive cell width"
	case !unit.Valid():
		reason = "unknown view unit"
	default:
		return true
	}
	reportInput(&InputError{Op: op, Date: date, Start: rangeStart, CellWidth: cellWidth, Unit: string(unit), Reason: reason})
	return false
}

// DatePosition returns the horizontal pixel offset of date's cell relative
// to rangeStart.
//
// Day view: whole days between the two civil dates times cellWidth.
// Week view: whole weeks between the Monday of each date times 7·cellWidth,
// plus the day-of-week offset (Monday=0) times cellWidth.
//
// Malformed input yields 0 and an InputError log record.
func DatePosition(date, rangeStart time.Time, cellWidth int, unit domain.ViewUnit) int {
	if !validGrid("DatePosition", date, rangeStart, cellWidth, unit) {
		return 0
	}
	if unit == domain.ViewWeek {
		weeks := domain.DaysBetween(domain.WeekStart(rangeStart), domain.WeekStart(date)) / 7
		return weeks*cellWidth*7 + domain.DayOfWeekOffset(date)*cellWidth
	}
	return domain.DaysBetween(rangeStart, date) * cellWidth
}

// DateFromPosition maps a pixel offset back to the civil date whose cell
// contains it. It is the inverse of DatePosition on cell boundaries.
func DateFromPosition(x int, rangeStart time.Time, cellWidth int, unit domain.ViewUnit) time.Time {
	if !validGrid("DateFromPosition", rangeStart, rangeStart, cellWidth, unit) {
		return time.Time{}
	}
	origin := domain.CivilDate(rangeStart)
	if unit == domain.ViewWeek {
		origin = domain.WeekStart(rangeStart)
	}
	return domain.AddDays(origin, floorDiv(x, cellWidth))
}

// DayDelta converts a horizontal pointer displacement into whole days.
// Week view moves in whole weeks.
func DayDelta(pixelDelta, cellWidth int, unit domain.ViewUnit) int {
	if cellWidth <= 0 || !unit.Valid() {
		reportInput(&InputError{Op: "DayDelta", CellWidth: cellWidth, Unit: string(unit), Reason: "invalid grid"})
		return 0
	}
	if unit == domain.ViewWeek {
		return int(math.Round(float64(pixelDelta)/float64(cellWidth*7))) * 7
	}
	return int(math.Round(float64(pixelDelta) / float64(cellWidth)))
}

// Snap aligns a date to the grid: the civil day in day view, the Monday of
// its week in week view. Snap(Snap(d)) == Snap(d).
func Snap(date time.Time, unit domain.ViewUnit) time.Time {
	if unit == domain.ViewWeek {
		return domain.WeekStart(date)
	}
	return domain.CivilDate(date)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
