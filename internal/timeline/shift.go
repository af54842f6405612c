package timeline

import (
	"fmt"
	"time"

	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/alexanderramin/gantry/internal/drag"
)

type ShiftKind string

const (
	ShiftBoth  ShiftKind = "both"
	ShiftStart ShiftKind = "start"
	ShiftDue   ShiftKind = "due"
)

func ParseShiftKind(s string) (ShiftKind, error) {
	switch ShiftKind(s) {
	case ShiftBoth, ShiftStart, ShiftDue:
		return ShiftKind(s), nil
	}
	return "", fmt.Errorf("invalid shift type %q (expected both, start or due)", s)
}

func (k ShiftKind) mode() drag.Mode {
	switch k {
	case ShiftStart:
		return drag.ModeResizeStart
	case ShiftDue:
		return drag.ModeResizeEnd
	default:
		return drag.ModeMove
	}
}

type ShiftItem struct {
	TaskID     string
	Name       string
	Original   drag.Dates
	Proposed   drag.Dates
	Validation drag.Validation
}

// ShiftPlan is the validated outcome of shifting several tasks at once.
type ShiftPlan struct {
	Kind    ShiftKind
	Days    int
	Items   []ShiftItem
	Missing []string
}

// Changes returns the accepted date changes in plan order.
func (p ShiftPlan) Changes() []domain.DateChange {
	var out []domain.DateChange
	for _, it := range p.Items {
		if it.Validation.OK() && !it.Proposed.Equal(it.Original) {
			out = append(out, domain.DateChange{TaskID: it.TaskID, Patch: it.Proposed.Patch()})
		}
	}
	return out
}

// Blocked returns the items rejected by an enabled rule.
func (p ShiftPlan) Blocked() []ShiftItem {
	var out []ShiftItem
	for _, it := range p.Items {
		if !it.Validation.OK() {
			out = append(out, it)
		}
	}
	return out
}

// Warnings counts advisory violations across accepted items.
func (p ShiftPlan) Warnings() int {
	n := 0
	for _, it := range p.Items {
		if it.Validation.OK() {
			n += len(it.Validation.Warnings)
		}
	}
	return n
}

// PlanShift moves the given tasks by days (negative moves backward) and
// validates each result with the view's rules. Ids default to the current
// selection.
func (v *View) PlanShift(ids []string, kind ShiftKind, days int) ShiftPlan {
	if len(ids) == 0 {
		ids = v.Selection()
	}
	plan := ShiftPlan{Kind: kind, Days: days}
	for _, id := range ids {
		t, ok := v.tree.Task(id)
		if !ok {
			plan.Missing = append(plan.Missing, id)
			continue
		}
		orig := drag.Dates{Start: domain.CivilDate(t.StartDate), Due: domain.CivilDate(t.DueDate)}
		proposed := drag.ProposeDates(orig, kind.mode(), days, domain.ViewDay)
		plan.Items = append(plan.Items, ShiftItem{
			TaskID:     id,
			Name:       t.Name,
			Original:   orig,
			Proposed:   proposed,
			Validation: drag.Validate(orig, proposed, v.today, v.opts.Rules),
		})
	}
	return plan
}

// ApplyShift writes a plan's accepted changes into the working copy.
func (v *View) ApplyShift(p ShiftPlan) error {
	now := time.Now().UTC()
	for _, c := range p.Changes() {
		if err := v.tree.ApplyDates(c.TaskID, c.Patch, now); err != nil {
			return fmt.Errorf("applying shift: %w", err)
		}
	}
	v.dirty = true
	return nil
}
