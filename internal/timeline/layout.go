package timeline

import (
	"time"

	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/alexanderramin/gantry/internal/geometry"
	"github.com/alexanderramin/gantry/internal/hierarchy"
	"github.com/alexanderramin/gantry/internal/selection"
)

type RowKind int

const (
	RowProject RowKind = iota
	RowTask
)

// Row is one laid-out line of the timeline.
type Row struct {
	Kind      RowKind
	ID        string
	ProjectID string
	Name      string
	Color     string
	Level     int
	Top       int
	Height    int
	Indent    int
	Badge     int
	Collapsed bool

	// Task rows only. Start and Due reflect an in-flight drag preview.
	Start     time.Time
	Due       time.Time
	Bar       geometry.Bar
	Status    domain.TaskStatus
	Completed bool
	Milestone bool
	Selected  bool
	InBand    bool
	Dragging  bool
	Warning   bool
}

func (r Row) Bottom() int {
	return r.Top + r.Height
}

// NoProjectID labels the group of tasks whose project is not in the snapshot.
const NoProjectID = ""

// Rows lays out project headers and visible task rows top to bottom and
// registers each task row with the selection registry.
func (v *View) Rows() []Row {
	if v.dirty || v.hasLiveOverlay() {
		v.layout()
	}
	return v.rows
}

// ContentHeight is the total height of all rows.
func (v *View) ContentHeight() int {
	rows := v.Rows()
	if len(rows) == 0 {
		return 0
	}
	return rows[len(rows)-1].Bottom()
}

// RowAt returns the row under y.
func (v *View) RowAt(y int) (Row, bool) {
	for _, r := range v.Rows() {
		if y >= r.Top && y < r.Bottom() {
			return r, true
		}
	}
	return Row{}, false
}

func (v *View) hasLiveOverlay() bool {
	_, dragging := v.drag.Preview()
	return dragging || v.sel.State() != selection.StateIdle
}

func (v *View) layout() {
	v.dirty = false
	v.rows = make([]Row, 0, len(v.rows))
	v.registry.Reset()

	known := make(map[string]bool, len(v.projects))
	top := 0
	for _, p := range v.projects {
		known[p.ID] = true
		top = v.layoutGroup(top, p, v.flatten(p.ID))
	}

	var orphans []hierarchy.Row
	for _, r := range v.flatten("") {
		if !known[r.Task.ProjectID] {
			orphans = append(orphans, r)
		}
	}
	if len(orphans) > 0 {
		v.layoutGroup(top, domain.Project{ID: NoProjectID, Name: "No project"}, orphans)
	}
}

func (v *View) flatten(projectID string) []hierarchy.Row {
	return v.tree.Flatten(hierarchy.FlattenOptions{
		ProjectID:     projectID,
		ShowCompleted: v.opts.ShowCompleted,
		SortByDue:     v.opts.SortByDue,
	})
}

func (v *View) layoutGroup(top int, p domain.Project, tasks []hierarchy.Row) int {
	v.rows = append(v.rows, Row{
		Kind:      RowProject,
		ID:        p.ID,
		ProjectID: p.ID,
		Name:      p.Name,
		Color:     p.DisplayColor(),
		Top:       top,
		Height:    v.metrics.RowHeights.Project,
		Badge:     len(tasks),
		Collapsed: p.Collapsed,
	})
	top += v.metrics.RowHeights.Project
	if p.Collapsed {
		return top
	}

	preview, dragging := v.drag.Preview()
	for _, hr := range tasks {
		t := hr.Task
		row := Row{
			Kind:      RowTask,
			ID:        t.ID,
			ProjectID: p.ID,
			Name:      t.Name,
			Color:     p.DisplayColor(),
			Level:     t.Level,
			Top:       top,
			Height:    v.metrics.RowHeightForLevel(t.Level),
			Indent:    hierarchy.Indent(t.Level, v.metrics.ZoomRatio),
			Badge:     hr.Badge,
			Collapsed: t.Collapsed,
			Start:     t.StartDate,
			Due:       t.DueDate,
			Status:    t.Status(v.today),
			Completed: t.Completed,
			Milestone: t.Milestone,
			Selected:  v.sel.IsSelected(t.ID),
			InBand:    v.sel.InPreview(t.ID),
		}
		if dragging && preview.TaskID == t.ID && preview.Mode != "" {
			row.Start = preview.Dates.Start
			row.Due = preview.Dates.Due
			row.Dragging = true
			row.Warning = len(preview.Warnings) > 0
		}
		row.Bar = geometry.TaskBar(row.Start, row.Due, t.Level, v.rng.Start, v.metrics, v.state.ViewUnit)
		v.rows = append(v.rows, row)
		v.registry.Register(t.ID, selection.Rect{Top: row.Top, Height: row.Height})
		top += row.Height
	}
	return top
}
