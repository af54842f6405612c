package geometry

import (
	"time"

	"github.com/alexanderramin/gantry/internal/domain"
)

const (
	MinBarWidth  = 80
	MinBarHeight = 20
)

// Bar is the pixel geometry of a task bar relative to the range start.
type Bar struct {
	Left   int
	Width  int
	Height int
}

// Right is the x just past the bar's last pixel.
func (b Bar) Right() int {
	return b.Left + b.Width
}

// Contains reports whether x falls on the bar.
func (b Bar) Contains(x int) bool {
	return x >= b.Left && x < b.Right()
}

// TaskBar computes the bar for a task spanning start..due at a given level.
// The bar covers the due date's cell and is never narrower than MinBarWidth;
// nested bars shrink by 2px per level down to MinBarHeight.
func TaskBar(start, due time.Time, level int, rangeStart time.Time, m CellMetrics, unit domain.ViewUnit) Bar {
	left := DatePosition(start, rangeStart, m.CellWidth, unit)
	right := DatePosition(due, rangeStart, m.CellWidth, unit)
	width := right - left + m.CellWidth
	if width < MinBarWidth {
		width = MinBarWidth
	}
	height := m.TaskBarHeight - level*2
	if height < MinBarHeight {
		height = MinBarHeight
	}
	return Bar{Left: left, Width: width, Height: height}
}
