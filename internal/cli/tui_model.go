package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/gantry/internal/cli/formatter"
	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/alexanderramin/gantry/internal/drag"
	"github.com/alexanderramin/gantry/internal/selection"
	"github.com/alexanderramin/gantry/internal/timeline"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Screen layout: a title line and the two Gantt header lines on top, the
// status and help lines at the bottom, rows in between.
const (
	tuiHeaderLines = 3
	tuiFooterLines = 2
)

// commitDoneMsg carries the updater's result for a released drag.
type commitDoneMsg struct {
	req drag.CommitRequest
	err error
}

// persistDoneMsg reports the result of a collapse or shift write.
type persistDoneMsg struct {
	what string
	err  error
}

// press is the pointer gesture in progress: the grid column and content
// coordinates it started at.
type press struct {
	col int
	x   int
	y   int
}

// timelineModel is the bubbletea model of the interactive timeline. Mouse
// cells are mapped to content pixels: rows to their vertical centre and
// grid columns to their cell, with a bar's end columns mapped onto its
// resize handles.
type timelineModel struct {
	app  *App
	ctx  context.Context
	view *timeline.View
	keys timelineKeyMap
	help help.Model

	width     int
	height    int
	sized     bool
	rowOffset int
	cursor    int
	press     *press
	status    string
	quitting  bool
}

func newTimelineModel(ctx context.Context, app *App, v *timeline.View) timelineModel {
	return timelineModel{
		app:    app,
		ctx:    ctx,
		view:   v,
		keys:   defaultTimelineKeyMap(),
		help:   help.New(),
		width:  80,
		height: 24,
	}
}

func (m timelineModel) Init() tea.Cmd {
	return nil
}

func (m timelineModel) gridCols() int {
	return max((m.width-ganttLabelWidth-1)/ganttColWidth, 1)
}

func (m timelineModel) bodyLines() int {
	return max(m.height-tuiHeaderLines-tuiFooterLines, 1)
}

func (m timelineModel) window() gridWindow {
	return windowAt(m.view, m.view.State().ScrollLeft, m.gridCols())
}

func (m *timelineModel) clampCursor() {
	n := len(m.view.Rows())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor < m.rowOffset {
		m.rowOffset = m.cursor
	}
	if m.cursor >= m.rowOffset+m.bodyLines() {
		m.rowOffset = m.cursor - m.bodyLines() + 1
	}
	m.clampRowOffset()
}

func (m *timelineModel) clampRowOffset() {
	limit := len(m.view.Rows()) - m.bodyLines()
	if m.rowOffset > limit {
		m.rowOffset = limit
	}
	if m.rowOffset < 0 {
		m.rowOffset = 0
	}
}

func (m timelineModel) cursorRow() (timeline.Row, bool) {
	rows := m.view.Rows()
	if m.cursor < 0 || m.cursor >= len(rows) {
		return timeline.Row{}, false
	}
	return rows[m.cursor], true
}

// keepScrollOnRescale rescales the horizontal offset after a grid change
// so the same date stays at the left edge.
func (m *timelineModel) keepScrollOnRescale(oldCell int) {
	newCell := m.view.Metrics().CellWidth
	if oldCell > 0 && newCell != oldCell {
		m.view.SetScrollLeft(m.view.State().ScrollLeft * newCell / oldCell)
	}
}

func (m timelineModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		if !m.sized {
			m.sized = true
			m.view.ScrollToToday(m.gridCols()*m.view.Metrics().CellWidth, todayFraction)
		}
		m.clampCursor()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case commitDoneMsg:
		m.view.FinishCommit(msg.err)
		if msg.err != nil {
			m.status = formatter.StyleRed.Render("save failed: " + msg.err.Error())
		} else {
			task, _ := m.view.Task(msg.req.TaskID)
			m.status = fmt.Sprintf("Saved %s: %s → %s", task.Name,
				domain.FormatDate(msg.req.Proposed.Start), domain.FormatDate(msg.req.Proposed.Due))
		}
		return m, nil

	case persistDoneMsg:
		if msg.err != nil {
			m.status = formatter.StyleRed.Render(msg.what + " failed: " + msg.err.Error())
		} else {
			m.status = msg.what
		}
		return m, nil
	}
	return m, nil
}

func (m timelineModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	v := m.view
	oldCell := v.Metrics().CellWidth

	switch {
	case key.Matches(msg, m.keys.Quit):
		v.Unmount()
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Escape):
		v.Escape()
		m.press = nil
		m.status = ""
	case key.Matches(msg, m.keys.Up):
		m.cursor--
		m.clampCursor()
	case key.Matches(msg, m.keys.Down):
		m.cursor++
		m.clampCursor()
	case key.Matches(msg, m.keys.Left):
		v.ScrollBy(-7 * oldCell)
	case key.Matches(msg, m.keys.Right):
		v.ScrollBy(7 * oldCell)
	case key.Matches(msg, m.keys.Today):
		v.ScrollToToday(m.gridCols()*oldCell, todayFraction)
	case key.Matches(msg, m.keys.ZoomIn):
		v.ZoomIn()
		m.keepScrollOnRescale(oldCell)
	case key.Matches(msg, m.keys.ZoomOut):
		v.ZoomOut()
		m.keepScrollOnRescale(oldCell)
	case key.Matches(msg, m.keys.ZoomReset):
		v.ResetZoom()
		m.keepScrollOnRescale(oldCell)
	case key.Matches(msg, m.keys.DayView):
		v.SetViewUnit(domain.ViewDay)
		m.keepScrollOnRescale(oldCell)
	case key.Matches(msg, m.keys.WeekView):
		v.SetViewUnit(domain.ViewWeek)
		m.keepScrollOnRescale(oldCell)
	case key.Matches(msg, m.keys.Toggle):
		if row, ok := m.cursorRow(); ok {
			return m, m.toggleRow(row)
		}
	case key.Matches(msg, m.keys.Select):
		if row, ok := m.cursorRow(); ok && row.Kind == timeline.RowTask {
			v.Click(row.ID, selection.Modifiers{Ctrl: true})
		}
	case key.Matches(msg, m.keys.SelectAll):
		v.SelectAll()
	case key.Matches(msg, m.keys.ExpandAll):
		return m, m.collapseAll(false)
	case key.Matches(msg, m.keys.CollapseAll):
		return m, m.collapseAll(true)
	case key.Matches(msg, m.keys.ShiftEarly):
		return m, m.shiftSelection(-1)
	case key.Matches(msg, m.keys.ShiftLate):
		return m, m.shiftSelection(1)
	}
	return m, nil
}

// toggleRow flips a project or task and persists the new flag.
func (m *timelineModel) toggleRow(row timeline.Row) tea.Cmd {
	svc := m.app.Timeline
	ctx := m.ctx
	if row.Kind == timeline.RowProject {
		collapsed, err := m.view.ToggleProject(row.ID)
		if err != nil {
			m.status = formatter.StyleRed.Render(err.Error())
			return nil
		}
		m.clampCursor()
		id, name := row.ID, row.Name
		return func() tea.Msg {
			return persistDoneMsg{what: collapseVerb(collapsed) + " " + name, err: svc.SetProjectCollapsed(ctx, id, collapsed)}
		}
	}
	if row.Badge == 0 {
		return nil
	}
	collapsed, err := m.view.ToggleCollapse(row.ID)
	if err != nil {
		m.status = formatter.StyleRed.Render(err.Error())
		return nil
	}
	m.clampCursor()
	id, name := row.ID, row.Name
	return func() tea.Msg {
		return persistDoneMsg{what: collapseVerb(collapsed) + " " + name, err: svc.SetTaskCollapsed(ctx, id, collapsed)}
	}
}

func collapseVerb(collapsed bool) string {
	if collapsed {
		return "Collapsed"
	}
	return "Expanded"
}

func (m *timelineModel) collapseAll(collapse bool) tea.Cmd {
	var ids []string
	if collapse {
		ids = m.view.CollapseAll()
	} else {
		ids = m.view.ExpandAll()
	}
	m.clampCursor()
	if len(ids) == 0 {
		return nil
	}
	svc, ctx := m.app.Timeline, m.ctx
	what := fmt.Sprintf("%s %d tasks", collapseVerb(collapse), len(ids))
	return func() tea.Msg {
		return persistDoneMsg{what: what, err: svc.SetTasksCollapsed(ctx, ids, collapse)}
	}
}

// shiftSelection moves every selected task by days. Nothing is written when
// any task is blocked.
func (m *timelineModel) shiftSelection(days int) tea.Cmd {
	plan := m.view.PlanShift(nil, timeline.ShiftBoth, days)
	if len(plan.Items) == 0 {
		m.status = "Select tasks to shift (x, a or drag on rows)"
		return nil
	}
	if blocked := plan.Blocked(); len(blocked) > 0 {
		first := blocked[0]
		m.status = formatter.StyleRed.Render(fmt.Sprintf("%s: %s",
			first.Name, strings.Join(violationMessages(first.Validation.Errors), "; ")))
		return nil
	}
	changes := plan.Changes()
	if err := m.view.ApplyShift(plan); err != nil {
		m.status = formatter.StyleRed.Render(err.Error())
		return nil
	}
	svc, ctx := m.app.Timeline, m.ctx
	what := fmt.Sprintf("Shifted %d tasks by %+d days", len(changes), days)
	return func() tea.Msg {
		return persistDoneMsg{what: what, err: svc.ShiftTasks(ctx, changes)}
	}
}

// ── Mouse ───────────────────────────────────────────────────────────────────

func (m timelineModel) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	cw := m.view.Metrics().CellWidth
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.rowOffset--
		m.clampRowOffset()
		return m, nil
	case tea.MouseButtonWheelDown:
		m.rowOffset++
		m.clampRowOffset()
		return m, nil
	case tea.MouseButtonWheelLeft:
		m.view.ScrollBy(-cw)
		return m, nil
	case tea.MouseButtonWheelRight:
		m.view.ScrollBy(cw)
		return m, nil
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			return m.pointerDown(msg)
		}
	case tea.MouseActionMotion:
		if m.press != nil {
			return m.pointerMove(msg)
		}
	case tea.MouseActionRelease:
		if m.press != nil {
			return m.pointerUp()
		}
	}
	return m, nil
}

// rowAtLine returns the row index drawn on screen line y.
func (m timelineModel) rowAtLine(y int) (int, bool) {
	line := y - tuiHeaderLines
	if line < 0 || line >= m.bodyLines() {
		return 0, false
	}
	idx := m.rowOffset + line
	if idx >= len(m.view.Rows()) {
		return 0, false
	}
	return idx, true
}

// columnAt maps a screen x to an absolute day column; x left of the grid
// gives columns before the window.
func (m timelineModel) columnAt(x int) int {
	rel := x - ganttLabelWidth - 1
	col := rel / ganttColWidth
	if rel < 0 && rel%ganttColWidth != 0 {
		col--
	}
	return m.window().First + col
}

// barX maps a press in column col of row to a content x: the bar's first
// column to its left edge, its last column to its right edge and
// anything else to the cell centre.
func (m timelineModel) barX(row timeline.Row, col int) int {
	cw := max(m.view.Metrics().CellWidth, 1)
	first := columnOf(m.view, row.Bar.Left)
	last := columnOf(m.view, row.Bar.Right()-1)
	switch col {
	case first:
		return row.Bar.Left
	case last:
		return row.Bar.Right() - 1
	}
	return col*cw + cw/2
}

func mouseModifiers(msg tea.MouseMsg) selection.Modifiers {
	return selection.Modifiers{Ctrl: msg.Ctrl, Meta: msg.Alt, Shift: msg.Shift}
}

func (m timelineModel) pointerDown(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	idx, ok := m.rowAtLine(msg.Y)
	if !ok {
		return m, nil
	}
	row := m.view.Rows()[idx]
	m.cursor = idx

	if msg.X <= ganttLabelWidth {
		if row.Kind == timeline.RowProject {
			return m, m.toggleRow(row)
		}
		m.view.Click(row.ID, mouseModifiers(msg))
		return m, nil
	}
	if row.Kind != timeline.RowTask {
		return m, nil
	}

	col := m.columnAt(msg.X)
	x := m.barX(row, col)
	y := row.Top + row.Height/2
	if err := m.view.PointerDown(x, y, mouseModifiers(msg)); err != nil {
		m.status = formatter.StyleRed.Render(err.Error())
		return m, nil
	}
	m.press = &press{col: col, x: x, y: y}
	return m, nil
}

func (m timelineModel) pointerMove(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	x := m.press.x + (m.columnAt(msg.X)-m.press.col)*m.view.Metrics().CellWidth
	y := m.press.y
	rows := m.view.Rows()
	line := msg.Y - tuiHeaderLines
	switch idx := m.rowOffset + line; {
	case line < 0:
		if len(rows) > 0 {
			y = rows[max(m.rowOffset, 0)].Top
		}
	case idx >= len(rows):
		if len(rows) > 0 {
			y = rows[len(rows)-1].Bottom() - 1
		}
	default:
		y = rows[idx].Top + rows[idx].Height/2
	}

	val, err := m.view.PointerMove(x, y)
	if err != nil {
		m.status = formatter.StyleRed.Render(err.Error())
		return m, nil
	}
	if p, ok := m.view.DragPreview(); ok && p.Mode != "" {
		if !val.OK() {
			m.status = formatter.StyleRed.Render(val.Err(p.TaskID).Error())
		} else {
			m.status = fmt.Sprintf("%s: %s → %s", p.Mode,
				domain.FormatDate(p.Dates.Start), domain.FormatDate(p.Dates.Due))
		}
	}
	return m, nil
}

func (m timelineModel) pointerUp() (tea.Model, tea.Cmd) {
	m.press = nil
	out, err := m.view.PointerUp()
	if err != nil {
		m.status = formatter.StyleRed.Render(err.Error())
		return m, nil
	}
	if out.Release != nil {
		rel := out.Release
		switch rel.Kind {
		case drag.ReleaseCommit:
			req := *rel.Commit
			m.status = "Saving…"
			svc, ctx := m.app.Timeline, m.ctx
			return m, func() tea.Msg {
				return commitDoneMsg{req: req, err: req.Execute(ctx, svc)}
			}
		case drag.ReleaseBlocked:
			m.status = formatter.StyleRed.Render(rel.Validation.Err(rel.TaskID).Error())
			return m, nil
		case drag.ReleaseNoChange:
			m.status = ""
			return m, nil
		}
	}
	if out.SelectionChanged {
		m.status = fmt.Sprintf("%d selected", len(m.view.Selection()))
	}
	return m, nil
}

// ── View ────────────────────────────────────────────────────────────────────

func (m timelineModel) View() string {
	if m.quitting {
		return ""
	}
	v := m.view
	st := v.State()

	title := formatter.StyleHeader.Render("GANTRY") + formatter.Dim(fmt.Sprintf("  %s view · zoom %d%%", st.ViewUnit, st.ZoomLevel))
	if n := len(v.Selection()); n > 0 {
		title += formatter.StyleBlue.Render(fmt.Sprintf(" · %d selected", n))
	}

	cursorID := ""
	if row, ok := m.cursorRow(); ok {
		cursorID = row.ID
	}
	g := ganttFromView(v, m.window(), cursorID)
	if m.rowOffset < len(g.Rows) {
		g.Rows = g.Rows[m.rowOffset:min(len(g.Rows), m.rowOffset+m.bodyLines())]
	} else {
		g.Rows = nil
	}

	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n")
	chart := strings.TrimRight(formatter.RenderGantt(g), "\n")
	b.WriteString(chart)
	drawn := strings.Count(chart, "\n") + 1 - (tuiHeaderLines - 1)
	if len(v.Rows()) == 0 {
		b.WriteString("\n" + formatter.Dim("No projects yet. Load some with 'gantry seed FILE'."))
		drawn++
	}
	for i := drawn; i < m.bodyLines(); i++ {
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.status)
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}
