package geometry

import (
	"math"

	"github.com/alexanderramin/gantry/internal/domain"
)

// MinCellWidth is the narrowest grid cell produced at any zoom.
const MinCellWidth = 5

var baseCellWidth = map[domain.ViewUnit]int{
	domain.ViewDay:  30,
	domain.ViewWeek: 20,
}

// Row heights and bar height at 100% zoom.
const (
	baseProjectRowHeight = 32
	baseTaskRowHeight    = 48
	baseSubtaskRowHeight = 40
	baseTaskBarHeight    = 32
)

type RowHeights struct {
	Project int
	Task    int
	Subtask int
}

type FontSizes struct {
	Base  int
	Small int
	Large int
	Week  int
}

// CellMetrics is the zoom-derived sizing of one timeline view.
type CellMetrics struct {
	CellWidth     int
	RowHeights    RowHeights
	FontSizes     FontSizes
	TaskBarHeight int
	ZoomRatio     float64
	ZoomLevel     int
	Unit          domain.ViewUnit
}

// ComputeCellMetrics derives cell width, row heights, fonts and bar height
// for a zoom level (clamped to 10..200) and grid unit. An unknown unit is
// reported and treated as day.
func ComputeCellMetrics(zoomLevel int, unit domain.ViewUnit) CellMetrics {
	if !unit.Valid() {
		reportInput(&InputError{Op: "ComputeCellMetrics", Unit: string(unit), Reason: "unknown view unit"})
		unit = domain.ViewDay
	}
	zoom := domain.ClampZoom(zoomLevel)
	ratio := float64(zoom) / 100

	cw := scale(baseCellWidth[unit], ratio)
	if cw < MinCellWidth {
		cw = MinCellWidth
	}

	return CellMetrics{
		CellWidth: cw,
		RowHeights: RowHeights{
			Project: scale(baseProjectRowHeight, ratio),
			Task:    scale(baseTaskRowHeight, ratio),
			Subtask: scale(baseSubtaskRowHeight, ratio),
		},
		FontSizes:     FontSizesFor(zoom),
		TaskBarHeight: scale(baseTaskBarHeight, ratio),
		ZoomRatio:     ratio,
		ZoomLevel:     zoom,
		Unit:          unit,
	}
}

// RowHeightForLevel returns the task row height for a hierarchy level:
// roots use the task height, nested tasks the subtask height.
func (m CellMetrics) RowHeightForLevel(level int) int {
	if level > 0 {
		return m.RowHeights.Subtask
	}
	return m.RowHeights.Task
}

// FontSizesFor returns the stepped font sizes for a zoom level.
func FontSizesFor(zoom int) FontSizes {
	switch {
	case zoom <= 30:
		return FontSizes{Base: 8, Small: 7, Large: 9, Week: 8}
	case zoom <= 50:
		return FontSizes{Base: 10, Small: 9, Large: 11, Week: 10}
	case zoom <= 80:
		return FontSizes{Base: 12, Small: 11, Large: 13, Week: 12}
	case zoom <= 120:
		return FontSizes{Base: 14, Small: 12, Large: 16, Week: 13}
	case zoom <= 150:
		return FontSizes{Base: 16, Small: 14, Large: 18, Week: 15}
	default:
		return FontSizes{Base: 18, Small: 16, Large: 20, Week: 17}
	}
}

func scale(base int, ratio float64) int {
	return int(math.Round(float64(base) * ratio))
}
