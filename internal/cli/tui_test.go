package cli

import (
	"context"
	"testing"

	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/alexanderramin/gantry/internal/teatest"
	"github.com/alexanderramin/gantry/internal/timeline"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Screen geometry of the seeded fixture at 100x20 with today on 2024-01-03:
// the window opens on day column 100 (2023-12-25), so Design (columns
// 111..116) is drawn at x 51..62 on line 4. Rows start on line 3:
//
//	3 Website relaunch   4 Design   5 Specs   6 Mockups   7 Build
//	8 Docs               9 Write guide
const (
	tuiWidth  = 100
	tuiHeight = 20

	lineWebsite = 3
	lineDesign  = 4
	lineBuild   = 7

	designFirstX  = 51
	designMiddleX = 55
	designLastX   = 61
)

func newTUIDriver(t *testing.T) (*teatest.Driver, *App) {
	t.Helper()
	app := seededApp(t)
	app.fillDefaults()
	v, err := loadView(context.Background(), app)
	require.NoError(t, err)
	d := teatest.New(t, newTimelineModel(context.Background(), app, v), teatest.WithSize(tuiWidth, tuiHeight))
	d.DrainInit()
	return d, app
}

func tuiView(t *testing.T, d *teatest.Driver) *timeline.View {
	t.Helper()
	m, ok := d.Model.(timelineModel)
	require.True(t, ok)
	return m.view
}

func tuiModel(t *testing.T, d *teatest.Driver) timelineModel {
	t.Helper()
	m, ok := d.Model.(timelineModel)
	require.True(t, ok)
	return m
}

func TestTUI_OpensOnToday(t *testing.T) {
	d, _ := newTUIDriver(t)
	m := tuiModel(t, d)

	assert.Equal(t, 35, m.gridCols())
	assert.Equal(t, 100, m.window().First)
	assert.Equal(t, domain.FormatDate(testToday), domain.FormatDate(columnDate(m.view, m.window().First+9)))

	out := stripANSI(d.View())
	assert.Contains(t, out, "GANTRY")
	assert.Contains(t, out, "day view · zoom 100%")
	assert.Contains(t, out, "Website relaunch")
	assert.Contains(t, out, "Dec 2023")
	assert.Contains(t, out, "Jan 2024")
}

func TestTUI_BarEdgesMapToHandles(t *testing.T) {
	d, _ := newTUIDriver(t)
	m := tuiModel(t, d)
	row, ok := findRow(m.view, taskIDByName(t, m.view, "Design"))
	require.True(t, ok)

	assert.Equal(t, row.Bar.Left, m.barX(row, m.columnAt(designFirstX)))
	assert.Equal(t, row.Bar.Right()-1, m.barX(row, m.columnAt(designLastX)))
	assert.Equal(t, 113*30+15, m.barX(row, m.columnAt(designMiddleX)))
}

func TestTUI_DragMovesTask(t *testing.T) {
	d, app := newTUIDriver(t)

	d.Drag(designMiddleX, lineDesign, designMiddleX+6, lineDesign)

	assertDates(t, taskByName(t, app, "Design"), "2024-01-08", "2024-01-13")
	m := tuiModel(t, d)
	assert.Contains(t, m.status, "Saved Design")
	assert.Nil(t, m.press)
}

func TestTUI_DragRightHandleResizesEnd(t *testing.T) {
	d, app := newTUIDriver(t)

	d.Drag(designLastX, lineDesign, designLastX+4, lineDesign)

	assertDates(t, taskByName(t, app, "Design"), "2024-01-05", "2024-01-12")
}

func TestTUI_DragIntoThePastIsBlocked(t *testing.T) {
	d, app := newTUIDriver(t)

	d.Press(designFirstX, lineDesign)
	d.Move(designFirstX-2, lineDesign)
	d.Move(designFirstX-4, lineDesign)
	d.Move(designFirstX-6, lineDesign)
	assert.Contains(t, stripANSI(tuiModel(t, d).status), "before today")
	d.Release(designFirstX-6, lineDesign)

	// Start may move back to 2024-01-03 (today) but no further.
	assertDates(t, taskByName(t, app, "Design"), "2024-01-03", "2024-01-10")
}

func TestTUI_EscapeCancelsDrag(t *testing.T) {
	d, app := newTUIDriver(t)

	d.Press(designMiddleX, lineDesign)
	d.Move(designMiddleX+4, lineDesign)
	_, dragging := tuiView(t, d).DragPreview()
	assert.True(t, dragging)

	d.PressEsc()
	d.Release(designMiddleX+4, lineDesign)

	assertDates(t, taskByName(t, app, "Design"), "2024-01-05", "2024-01-10")
}

func TestTUI_BandSelection(t *testing.T) {
	d, _ := newTUIDriver(t)

	// Column 100 is empty on every row, so the press lands on the row background.
	d.Drag(29, lineDesign, 29, lineBuild)

	v := tuiView(t, d)
	assert.Len(t, v.Selection(), 4)
	assert.Contains(t, stripANSI(d.View()), "4 selected")

	d.PressEsc()
	assert.Empty(t, v.Selection())
}

func TestTUI_ClickLabelsSelectAndCollapse(t *testing.T) {
	d, app := newTUIDriver(t)
	v := tuiView(t, d)

	d.Click(4, lineDesign)
	assert.Equal(t, []string{taskIDByName(t, v, "Design")}, v.Selection())

	d.Click(4, lineBuild, teatest.WithCtrl())
	assert.Len(t, v.Selection(), 2)

	d.Click(2, lineWebsite)
	assert.True(t, projectByName(t, app, "Website relaunch").Collapsed)
	assert.Len(t, v.Rows(), 3)
}

func TestTUI_KeyboardCollapseAndShift(t *testing.T) {
	d, app := newTUIDriver(t)
	v := tuiView(t, d)

	d.PressDown()
	d.PressDown()
	d.PressUp()
	assert.Equal(t, 1, tuiModel(t, d).cursor)
	d.PressSpace()
	assert.True(t, taskByName(t, app, "Design").Collapsed)
	d.PressSpace()
	assert.False(t, taskByName(t, app, "Design").Collapsed)

	d.PressKey('x')
	require.Len(t, v.Selection(), 1)
	d.PressKey(']')
	assertDates(t, taskByName(t, app, "Design"), "2024-01-06", "2024-01-11")

	d.PressKey('C')
	assert.True(t, taskByName(t, app, "Design").Collapsed)
	d.PressKey('E')
	assert.False(t, taskByName(t, app, "Mockups").Collapsed)
}

func TestTUI_ShiftBlockedLeavesStoreAlone(t *testing.T) {
	d, app := newTUIDriver(t)

	d.PressDown()
	d.PressKey('x')
	for i := 0; i < 3; i++ {
		d.PressKey('[')
	}
	// The third shift would move Design's start to 2024-01-02.
	assertDates(t, taskByName(t, app, "Design"), "2024-01-03", "2024-01-08")
	assert.Contains(t, stripANSI(tuiModel(t, d).status), "Design")
}

func TestTUI_ZoomAndUnitKeys(t *testing.T) {
	d, _ := newTUIDriver(t)
	v := tuiView(t, d)
	first := tuiModel(t, d).window().First

	d.PressKey('+')
	assert.Equal(t, 110, v.State().ZoomLevel)
	assert.Equal(t, first, tuiModel(t, d).window().First)
	d.PressKey('0')
	assert.Equal(t, 100, v.State().ZoomLevel)

	d.PressKey('l')
	assert.Equal(t, first+7, tuiModel(t, d).window().First)
	d.PressKey('t')
	assert.Equal(t, first, tuiModel(t, d).window().First)

	d.PressKey('w')
	assert.Equal(t, domain.ViewWeek, v.State().ViewUnit)
	assert.Contains(t, stripANSI(d.View()), "week view")
	d.PressKey('d')
	assert.Equal(t, domain.ViewDay, v.State().ViewUnit)
}

func TestTUI_WheelScrollsRows(t *testing.T) {
	d, _ := newTUIDriver(t)
	d.Send(tea.WindowSizeMsg{Width: tuiWidth, Height: 9})
	m := tuiModel(t, d)
	require.Equal(t, 4, m.bodyLines())

	d.Wheel(40, 5, tea.MouseButtonWheelDown)
	d.Wheel(40, 5, tea.MouseButtonWheelDown)
	d.Wheel(40, 5, tea.MouseButtonWheelDown)
	d.Wheel(40, 5, tea.MouseButtonWheelDown)
	// Seven rows, four visible.
	assert.Equal(t, 3, tuiModel(t, d).rowOffset)

	d.Wheel(40, 5, tea.MouseButtonWheelUp)
	assert.Equal(t, 2, tuiModel(t, d).rowOffset)
}

func TestTUI_HelpAndQuit(t *testing.T) {
	d, _ := newTUIDriver(t)

	assert.NotContains(t, stripANSI(d.View()), "expand all")
	d.PressKey('?')
	assert.Contains(t, stripANSI(d.View()), "expand all")

	d.PressKey('q')
	assert.True(t, d.Quitting)
}

func TestTUI_CtrlCQuitsMidDrag(t *testing.T) {
	d, app := newTUIDriver(t)

	d.Press(designMiddleX, lineDesign)
	d.Type("jj")
	d.Move(designMiddleX+4, lineDesign)
	d.PressCtrlC()

	assert.True(t, d.Quitting)
	assert.Equal(t, "", d.View())
	assertDates(t, taskByName(t, app, "Design"), "2024-01-05", "2024-01-10")
}

func taskIDByName(t *testing.T, v *timeline.View, name string) string {
	t.Helper()
	id, err := resolveTaskID(v, name)
	require.NoError(t, err)
	return id
}
