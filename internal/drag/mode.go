// Package drag implements pointer-driven rescheduling of a single task bar:
// move, resize-start and resize-end, with grid snapping and date validation.
package drag

import (
	"time"

	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/alexanderramin/gantry/internal/geometry"
)

type Mode string

const (
	ModeMove        Mode = "move"
	ModeResizeStart Mode = "resize-start"
	ModeResizeEnd   Mode = "resize-end"
)

// Valid reports whether m is a known drag mode.
func (m Mode) Valid() bool {
	return m == ModeMove || m == ModeResizeStart || m == ModeResizeEnd
}

const (
	DefaultHandleWidth         = 8
	DefaultThreshold           = 10
	DefaultMaxDisplacementDays = 365
)

// DetectMode picks the drag mode from where the pointer went down on the bar.
// The left handle wins when the bar is too narrow for both.
func DetectMode(offsetX, barWidth, handleWidth int) Mode {
	switch {
	case offsetX <= handleWidth:
		return ModeResizeStart
	case offsetX >= barWidth-handleWidth:
		return ModeResizeEnd
	default:
		return ModeMove
	}
}

// OffsetForMode returns a pointer offset on a bar of the given width that
// DetectMode maps back to mode.
func OffsetForMode(mode Mode, barWidth, handleWidth int) int {
	switch mode {
	case ModeResizeStart:
		return 0
	case ModeResizeEnd:
		return barWidth - 1
	default:
		return barWidth / 2
	}
}

type Dates struct {
	Start time.Time
	Due   time.Time
}

func (d Dates) Equal(o Dates) bool {
	return d.Start.Equal(o.Start) && d.Due.Equal(o.Due)
}

func (d Dates) Patch() domain.DatePatch {
	return domain.DatePatch{StartDate: d.Start, DueDate: d.Due}
}

func datesOf(t domain.Task) Dates {
	return Dates{Start: domain.CivilDate(t.StartDate), Due: domain.CivilDate(t.DueDate)}
}

// ProposeDates applies a whole-day delta to the original dates under mode.
// Resize modes change only their own date. Move snaps the start and keeps
// the original duration, so the due date follows exactly.
func ProposeDates(orig Dates, mode Mode, days int, unit domain.ViewUnit) Dates {
	switch mode {
	case ModeResizeStart:
		return Dates{Start: geometry.Snap(domain.AddDays(orig.Start, days), unit), Due: orig.Due}
	case ModeResizeEnd:
		return Dates{Start: orig.Start, Due: geometry.Snap(domain.AddDays(orig.Due, days), unit)}
	default:
		duration := domain.DaysBetween(orig.Start, orig.Due)
		start := geometry.Snap(domain.AddDays(orig.Start, days), unit)
		return Dates{Start: start, Due: domain.AddDays(start, duration)}
	}
}
