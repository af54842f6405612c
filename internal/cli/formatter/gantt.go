package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// GanttTick is one header column of a rendered chart.
type GanttTick struct {
	Month        string
	Day          string
	Today        bool
	Weekend      bool
	FirstOfMonth bool
}

// GanttRow is one chart line. Start and End are column indexes into the
// tick slice, End exclusive; either may fall outside the window and is
// clipped.
type GanttRow struct {
	Label     string
	Header    bool
	Color     string
	Level     int
	Badge     int
	Collapsed bool

	HasBar    bool
	Start     int
	End       int
	BarText   string
	Status    domain.TaskStatus
	Milestone bool
	Selected  bool
	InBand    bool
	Dragging  bool
	Warning   bool
	Cursor    bool
}

// Gantt is a character-grid rendering of the timeline. ColWidth is the
// number of characters per tick (2 when unset).
type Gantt struct {
	LabelWidth int
	ColWidth   int
	Ticks      []GanttTick
	Rows       []GanttRow
}

const defaultLabelWidth = 24

func (g Gantt) colWidth() int {
	if g.ColWidth <= 0 {
		return 2
	}
	return g.ColWidth
}

func (g Gantt) labelWidth() int {
	if g.LabelWidth <= 0 {
		return defaultLabelWidth
	}
	return g.LabelWidth
}

// RenderGantt renders the header (month then day line) followed by one line
// per row.
func RenderGantt(g Gantt) string {
	var b strings.Builder
	b.WriteString(renderMonthLine(g))
	b.WriteString("\n")
	b.WriteString(renderDayLine(g))
	b.WriteString("\n")
	for _, r := range g.Rows {
		b.WriteString(RenderGanttRow(g, r))
		b.WriteString("\n")
	}
	return b.String()
}

func renderMonthLine(g Gantt) string {
	cw := g.colWidth()
	line := []rune(strings.Repeat(" ", len(g.Ticks)*cw))
	for i, t := range g.Ticks {
		if t.Month == "" || (!t.FirstOfMonth && i != 0) {
			continue
		}
		for j, r := range []rune(t.Month) {
			if pos := i*cw + j; pos < len(line) {
				line[pos] = r
			}
		}
	}
	return strings.Repeat(" ", g.labelWidth()+1) + StyleHeader.Render(strings.TrimRight(string(line), " "))
}

func renderDayLine(g Gantt) string {
	cw := g.colWidth()
	line := []rune(strings.Repeat(" ", len(g.Ticks)*cw))
	for i, t := range g.Ticks {
		for j, r := range []rune(t.Day) {
			if pos := i*cw + j; pos < len(line) {
				line[pos] = r
			}
		}
	}

	var b strings.Builder
	b.WriteString(strings.Repeat(" ", g.labelWidth()+1))
	for i, t := range g.Ticks {
		cell := string(line[i*cw : (i+1)*cw])
		switch {
		case t.Today:
			b.WriteString(StyleYellowBold.Render(cell))
		case t.Weekend:
			b.WriteString(StyleDim.Render(cell))
		default:
			b.WriteString(StyleFg.Render(cell))
		}
	}
	return b.String()
}

// RenderGanttRow renders a single row: the label column then the grid.
func RenderGanttRow(g Gantt, r GanttRow) string {
	var b strings.Builder
	b.WriteString(renderLabel(g, r))
	b.WriteString(" ")
	if r.Header {
		b.WriteString(StyleDim.Render(strings.Repeat("┈", len(g.Ticks)*g.colWidth())))
		return b.String()
	}
	b.WriteString(renderGrid(g, r))
	return b.String()
}

func renderLabel(g Gantt, r GanttRow) string {
	width := g.labelWidth()
	var marker string
	switch {
	case r.Collapsed:
		marker = "▸ "
	case r.Badge > 0 || r.Header:
		marker = "▾ "
	default:
		marker = "  "
	}
	indent := strings.Repeat("  ", r.Level)
	text := r.Label
	if r.Collapsed && r.Badge > 0 {
		text += fmt.Sprintf(" +%d", r.Badge)
	}
	room := width - lipgloss.Width(indent+marker)
	label := PadRight(indent+marker+Truncate(text, room), width)

	style := StyleFg
	switch {
	case r.Header:
		style = ProjectStyle(r.Color).Bold(true)
	case r.Status == domain.TaskCompleted:
		style = StyleDim
	}
	if r.Cursor {
		style = style.Reverse(true)
	}
	return style.Render(label)
}

func renderGrid(g Gantt, r GanttRow) string {
	cw := g.colWidth()
	barStyle := ProjectStyle(r.Color)
	switch {
	case r.Warning:
		barStyle = StyleRed
	case r.Dragging:
		barStyle = StyleYellowBold
	case r.Status == domain.TaskCompleted:
		barStyle = StyleDim
	}
	if r.Selected || r.InBand {
		barStyle = barStyle.Reverse(true)
	}

	var b strings.Builder
	for i, t := range g.Ticks {
		inBar := r.HasBar && i >= r.Start && i < r.End
		switch {
		case inBar && r.Milestone:
			b.WriteString(barStyle.Render(PadRight("◆", cw)))
		case inBar:
			b.WriteString(barStyle.Render(barCell(i, r, cw)))
		case t.Today:
			b.WriteString(StyleYellow.Render(PadRight("│", cw)))
		case r.InBand:
			b.WriteString(StyleBand.Render(strings.Repeat(" ", cw)))
		case t.Weekend:
			b.WriteString(StyleDim.Render(PadRight("·", cw)))
		default:
			b.WriteString(strings.Repeat(" ", cw))
		}
	}
	return b.String()
}

// barCell marks the first and last bar columns with half blocks and writes
// BarText over the interior, starting one character in.
func barCell(i int, r GanttRow, cw int) string {
	cell := []rune(strings.Repeat("█", cw))
	if r.End-r.Start > 1 {
		if i == r.Start {
			cell[0] = '▐'
		}
		if i == r.End-1 {
			cell[cw-1] = '▌'
		}
	}
	if r.BarText == "" {
		return string(cell)
	}
	interior := (r.End-r.Start)*cw - 2
	text := []rune(Truncate(r.BarText, interior))
	for j := range cell {
		pos := (i-r.Start)*cw + j - 1
		if pos >= 0 && pos < len(text) && pos < interior {
			cell[j] = text[pos]
		}
	}
	return string(cell)
}
