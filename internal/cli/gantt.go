package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/alexanderramin/gantry/internal/cli/formatter"
	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/alexanderramin/gantry/internal/geometry"
	"github.com/alexanderramin/gantry/internal/timeline"
)

const (
	ganttColWidth   = 2
	ganttLabelWidth = 28
)

// gridWindow is the run of day columns shown in a character grid. Column
// c spans pixels [c·cellWidth, (c+1)·cellWidth) of the timeline content.
type gridWindow struct {
	First int
	Cols  int
}

func totalColumns(v *timeline.View) int {
	cw := v.Metrics().CellWidth
	if cw <= 0 {
		return 0
	}
	return v.ContentWidth() / cw
}

// windowAt returns the window of up to cols columns starting at the column
// under scrollLeft, clamped to the content.
func windowAt(v *timeline.View, scrollLeft, cols int) gridWindow {
	total := totalColumns(v)
	if cols > total {
		cols = total
	}
	if cols < 0 {
		cols = 0
	}
	first := scrollLeft / max(v.Metrics().CellWidth, 1)
	if first > total-cols {
		first = total - cols
	}
	if first < 0 {
		first = 0
	}
	return gridWindow{First: first, Cols: cols}
}

// columnDate is the civil date shown in day column col.
func columnDate(v *timeline.View, col int) time.Time {
	m := v.Metrics()
	return geometry.DateFromPosition(col*m.CellWidth, v.Range().Start, m.CellWidth, v.State().ViewUnit)
}

// columnOf maps a content x to its day column.
func columnOf(v *timeline.View, x int) int {
	cw := max(v.Metrics().CellWidth, 1)
	q := x / cw
	if x%cw != 0 && x < 0 {
		q--
	}
	return q
}

func ganttTicks(v *timeline.View, w gridWindow) []formatter.GanttTick {
	today := v.Today()
	week := v.State().ViewUnit == domain.ViewWeek
	ticks := make([]formatter.GanttTick, w.Cols)
	for j := range ticks {
		d := columnDate(v, w.First+j)
		t := formatter.GanttTick{
			Today:        d.Equal(today),
			Weekend:      d.Weekday() == time.Saturday || d.Weekday() == time.Sunday,
			FirstOfMonth: d.Day() == 1,
		}
		if d.Day() == 1 || j == 0 {
			t.Month = d.Format("Jan 2006")
		}
		switch {
		case !week:
			t.Day = strconv.Itoa(d.Day())
		case d.Weekday() == time.Monday:
			_, wk := d.ISOWeek()
			t.Day = fmt.Sprintf("W%02d", wk)
		}
		ticks[j] = t
	}
	return ticks
}

// ganttFromView lays the view's rows onto the window. cursorID marks the
// row under the keyboard cursor, if any.
func ganttFromView(v *timeline.View, w gridWindow, cursorID string) formatter.Gantt {
	cw := max(v.Metrics().CellWidth, 1)
	zoom := v.State().ZoomLevel
	g := formatter.Gantt{
		LabelWidth: ganttLabelWidth,
		ColWidth:   ganttColWidth,
		Ticks:      ganttTicks(v, w),
	}
	for _, r := range v.Rows() {
		gr := formatter.GanttRow{
			Label:  r.Name,
			Color:  r.Color,
			Badge:  r.Badge,
			Cursor: cursorID != "" && r.ID == cursorID,
		}
		if r.Kind == timeline.RowProject {
			gr.Header = true
			gr.Collapsed = r.Collapsed
			g.Rows = append(g.Rows, gr)
			continue
		}
		gr.Level = r.Level + 1
		gr.Collapsed = r.Collapsed && r.Badge > 0
		gr.HasBar = true
		gr.Start = columnOf(v, r.Bar.Left) - w.First
		gr.End = (r.Bar.Right()+cw-1)/cw - w.First
		if !r.Milestone {
			gr.BarText = geometry.DisplayText(r.Name, zoom, (gr.End-gr.Start)*ganttColWidth-2)
		}
		gr.Status = r.Status
		gr.Milestone = r.Milestone
		gr.Selected = r.Selected
		gr.InBand = r.InBand
		gr.Dragging = r.Dragging
		gr.Warning = r.Warning
		g.Rows = append(g.Rows, gr)
	}
	return g
}
