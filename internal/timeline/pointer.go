package timeline

import (
	"time"

	"github.com/alexanderramin/gantry/internal/drag"
	"github.com/alexanderramin/gantry/internal/interaction"
	"github.com/alexanderramin/gantry/internal/selection"
)

// TargetAt hit-tests a content coordinate against task bars and rows.
func (v *View) TargetAt(x, y int) interaction.Target {
	row, ok := v.RowAt(y)
	if !ok || row.Kind != RowTask {
		return interaction.Target{}
	}
	task, ok := v.tree.Task(row.ID)
	if !ok {
		return interaction.Target{}
	}
	if row.Bar.Contains(x) {
		return interaction.Target{
			Kind:     interaction.TargetBar,
			Task:     task,
			OffsetX:  x - row.Bar.Left,
			BarWidth: row.Bar.Width,
		}
	}
	return interaction.Target{Kind: interaction.TargetRow, Task: task}
}

func (v *View) PointerDown(x, y int, mods selection.Modifiers) error {
	v.Rows()
	return v.arb.PointerDown(v.TargetAt(x, y), x, y, mods)
}

func (v *View) PointerMove(x, y int) (drag.Validation, error) {
	return v.arb.PointerMove(x, y)
}

// PointerUp ends the current session. A commit request is applied to the
// working copy right away; the caller executes it against its updater and
// reports the result through FinishCommit.
func (v *View) PointerUp() (interaction.Outcome, error) {
	out, err := v.arb.PointerUp()
	if err != nil {
		return out, err
	}
	if out.Release != nil && out.Release.Commit != nil {
		req := out.Release.Commit
		if err := v.tree.ApplyDates(req.TaskID, req.Patch(), time.Now().UTC()); err != nil {
			v.logger.Warn("timeline_optimistic_apply_failed", "task_id", req.TaskID, "error", err.Error())
		}
	}
	v.dirty = true
	return out, nil
}

// FinishCommit hands the updater's result back to the drag controller.
func (v *View) FinishCommit(err error) {
	v.drag.Finish(err)
}

func (v *View) Escape() {
	v.arb.Escape()
	v.dirty = true
}

func (v *View) Unmount() {
	v.arb.Unmount()
	v.dirty = true
}

func (v *View) Session() interaction.Session {
	return v.arb.Current()
}

func (v *View) DragState() drag.State {
	return v.drag.State()
}

func (v *View) DragPreview() (drag.Preview, bool) {
	return v.drag.Preview()
}

// Click applies a keyboard or programmatic click to a task row.
func (v *View) Click(id string, mods selection.Modifiers) {
	v.Rows()
	v.sel.Click(id, mods)
	v.dirty = true
}

func (v *View) Selection() []string {
	v.Rows()
	return v.sel.Selected()
}

func (v *View) PreviewSelection() []string {
	return v.sel.PreviewIDs()
}

func (v *View) SelectAll() {
	v.Rows()
	v.sel.SelectAll()
	v.dirty = true
}

func (v *View) ClearSelection() {
	v.sel.Clear()
	v.dirty = true
}

func (v *View) Anchor() string {
	return v.sel.Anchor()
}
