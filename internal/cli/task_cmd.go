package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/gantry/internal/cli/formatter"
	"github.com/alexanderramin/gantry/internal/drag"
	"github.com/alexanderramin/gantry/internal/selection"
	"github.com/alexanderramin/gantry/internal/timeline"
	"github.com/spf13/cobra"
)

var errNeedsConfirmation = errors.New("change has warnings; re-run with --yes to apply")

func newTaskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Reschedule, shift, collapse and complete tasks",
	}

	cmd.AddCommand(
		newTaskRescheduleCmd(app),
		newTaskShiftCmd(app),
		newTaskCollapseCmd(app, true),
		newTaskCollapseCmd(app, false),
		newTaskCollapseAllCmd(app, true),
		newTaskCollapseAllCmd(app, false),
		newTaskCompleteCmd(app, true),
		newTaskCompleteCmd(app, false),
	)

	return cmd
}

func parseEdge(s string) (drag.Mode, error) {
	switch s {
	case "move", "":
		return drag.ModeMove, nil
	case "start":
		return drag.ModeResizeStart, nil
	case "end", "due":
		return drag.ModeResizeEnd, nil
	}
	return "", fmt.Errorf("invalid --edge %q (expected move, start or end)", s)
}

// confirmWarnings decides whether a change that carries warnings goes ahead:
// --yes accepts, an interactive terminal asks, anything else refuses.
func confirmWarnings(app *App, title string, warnings []string, yes bool) (bool, error) {
	if len(warnings) == 0 || yes {
		return true, nil
	}
	if !app.IsInteractive() {
		return false, fmt.Errorf("%w: %s", errNeedsConfirmation, strings.Join(warnings, "; "))
	}
	return app.Confirm(title, strings.Join(warnings, "\n"))
}

func violationMessages(vs []drag.Violation) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = v.Message
	}
	return out
}

func newTaskRescheduleCmd(app *App) *cobra.Command {
	var cells, px int
	var edge string
	var yes bool

	cmd := &cobra.Command{
		Use:   "reschedule TASK",
		Short: "Drag a task bar by a number of grid cells or pixels",
		Long: `Reschedule replays a pointer drag on the task's bar. --edge picks
where the bar is grabbed: its middle moves both dates, its left handle
moves the start date and its right handle moves the due date.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			mode, err := parseEdge(edge)
			if err != nil {
				return err
			}
			v, err := loadView(ctx, app)
			if err != nil {
				return err
			}
			id, err := resolveTaskID(v, args[0])
			if err != nil {
				return err
			}
			row, ok := findRow(v, id)
			if !ok {
				return fmt.Errorf("task %q is hidden; expand its project and parents first", args[0])
			}

			dx := cells * v.Metrics().CellWidth
			if cmd.Flags().Changed("px") {
				dx = px
			}
			x := row.Bar.Left + drag.OffsetForMode(mode, row.Bar.Width, app.Config.Drag.HandleWidth)
			y := row.Top + row.Height/2

			if err := v.PointerDown(x, y, selection.Modifiers{}); err != nil {
				return err
			}
			val, err := v.PointerMove(x+dx, y)
			if err != nil {
				return err
			}
			if !val.OK() {
				v.Escape()
				return val.Err(id)
			}
			outcome, err := v.PointerUp()
			if err != nil {
				return err
			}

			rel := outcome.Release
			out := cmd.OutOrStdout()
			switch {
			case rel == nil || rel.Kind == drag.ReleaseClick:
				return fmt.Errorf("a %dpx drag does not pass the %dpx threshold", dx, app.Config.Drag.Threshold)
			case rel.Kind == drag.ReleaseNoChange:
				fmt.Fprintln(out, formatter.Dim("No change."))
				return nil
			case rel.Kind == drag.ReleaseBlocked:
				return rel.Validation.Err(id)
			}

			req := rel.Commit
			ok, err = confirmWarnings(app, fmt.Sprintf("Reschedule %s?", row.Name), violationMessages(req.Warnings), yes)
			if err != nil {
				return err
			}
			if !ok {
				v.Unmount()
				fmt.Fprintln(out, "Cancelled.")
				return nil
			}

			err = req.Execute(ctx, app.Timeline)
			v.FinishCommit(err)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Rescheduled %s (%s)\n", formatter.Bold(row.Name), req.Mode)
			fmt.Fprintf(out, "  start %s\n", formatter.DateChange(req.Original.Start, req.Proposed.Start))
			fmt.Fprintf(out, "  due   %s\n", formatter.DateChange(req.Original.Due, req.Proposed.Due))
			for _, w := range req.Warnings {
				fmt.Fprintf(out, "  %s %s\n", formatter.StyleYellow.Render("warning:"), w.Message)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&cells, "cells", 0, "grid cells to drag by (negative is left)")
	cmd.Flags().IntVar(&px, "px", 0, "pixels to drag by; overrides --cells")
	cmd.Flags().StringVar(&edge, "edge", "move", "where to grab the bar: move, start or end")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "apply without asking when the change has warnings")
	return cmd
}

func newTaskShiftCmd(app *App) *cobra.Command {
	var days int
	var kind string
	var dryRun, yes bool

	cmd := &cobra.Command{
		Use:   "shift TASK...",
		Short: "Move the dates of several tasks by a number of days",
		Long: `Shift validates every task against the reschedule rules and writes
all accepted changes in one transaction. If any task is blocked nothing
is written.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			k, err := timeline.ParseShiftKind(kind)
			if err != nil {
				return err
			}
			if days == 0 {
				return fmt.Errorf("--days must be non-zero")
			}
			v, err := loadView(ctx, app)
			if err != nil {
				return err
			}
			ids := make([]string, 0, len(args))
			for _, a := range args {
				id, err := resolveTaskID(v, a)
				if err != nil {
					return err
				}
				ids = append(ids, id)
			}

			plan := v.PlanShift(ids, k, days)
			out := cmd.OutOrStdout()
			fmt.Fprint(out, renderShiftPlan(plan))

			if blocked := plan.Blocked(); len(blocked) > 0 {
				return fmt.Errorf("%d of %d tasks blocked; nothing was changed", len(blocked), len(plan.Items))
			}
			changes := plan.Changes()
			if len(changes) == 0 {
				fmt.Fprintln(out, formatter.Dim("No change."))
				return nil
			}
			if dryRun {
				fmt.Fprintln(out, formatter.Dim("Dry run: nothing was changed."))
				return nil
			}

			var warnings []string
			for _, it := range plan.Items {
				for _, w := range it.Validation.Warnings {
					warnings = append(warnings, it.Name+": "+w.Message)
				}
			}
			ok, err := confirmWarnings(app, fmt.Sprintf("Shift %d tasks?", len(changes)), warnings, yes)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(out, "Cancelled.")
				return nil
			}

			if err := app.Timeline.ShiftTasks(ctx, changes); err != nil {
				return err
			}
			if err := v.ApplyShift(plan); err != nil {
				return err
			}
			fmt.Fprintf(out, "Shifted %d tasks by %+d days.\n", len(changes), days)
			return nil
		},
	}

	cmd.Flags().IntVarP(&days, "days", "d", 0, "days to shift by (negative is earlier)")
	cmd.Flags().StringVar(&kind, "type", string(timeline.ShiftBoth), "dates to shift: both, start or due")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "validate and print the plan without writing")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "apply without asking when the shift has warnings")
	return cmd
}

func renderShiftPlan(plan timeline.ShiftPlan) string {
	rows := make([][]string, 0, len(plan.Items))
	for _, it := range plan.Items {
		status := formatter.StyleGreen.Render("ok")
		switch {
		case !it.Validation.OK():
			status = formatter.StyleRed.Render("blocked: " + strings.Join(violationMessages(it.Validation.Errors), "; "))
		case len(it.Validation.Warnings) > 0:
			status = formatter.StyleYellow.Render("warning: " + strings.Join(violationMessages(it.Validation.Warnings), "; "))
		}
		rows = append(rows, []string{
			it.Name,
			formatter.DateChange(it.Original.Start, it.Proposed.Start),
			formatter.DateChange(it.Original.Due, it.Proposed.Due),
			status,
		})
	}
	return formatter.RenderTable([]string{"TASK", "START", "DUE", "STATUS"}, rows)
}

func newTaskCollapseCmd(app *App, collapse bool) *cobra.Command {
	use, short := "expand TASK|PROJECT", "Show the children of a task or the tasks of a project"
	if collapse {
		use, short = "collapse TASK|PROJECT", "Hide the children of a task or the tasks of a project"
	}

	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			v, err := loadView(ctx, app)
			if err != nil {
				return err
			}
			verb := "Expanded"
			if collapse {
				verb = "Collapsed"
			}

			if id, err := resolveTaskID(v, args[0]); err == nil {
				task, _ := v.Task(id)
				if collapse && !v.Tree().HasChildren(id) {
					return fmt.Errorf("task %q has no children to collapse", task.Name)
				}
				if err := app.Timeline.SetTaskCollapsed(ctx, id, collapse); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", verb, formatter.Bold(task.Name))
				return nil
			}

			id, err := resolveProjectID(v, args[0])
			if err != nil {
				return fmt.Errorf("no task or project matches %q", args[0])
			}
			if err := app.Timeline.SetProjectCollapsed(ctx, id, collapse); err != nil {
				return err
			}
			for _, p := range v.Projects() {
				if p.ID == id {
					fmt.Fprintf(cmd.OutOrStdout(), "%s project %s\n", verb, formatter.Bold(p.Name))
				}
			}
			return nil
		},
	}
}

func newTaskCollapseAllCmd(app *App, collapse bool) *cobra.Command {
	use, short := "expand-all", "Expand every task"
	if collapse {
		use, short = "collapse-all", "Collapse every task that has children"
	}

	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			v, err := loadView(ctx, app)
			if err != nil {
				return err
			}
			var changed []string
			if collapse {
				changed = v.CollapseAll()
			} else {
				changed = v.ExpandAll()
			}
			if len(changed) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("No change."))
				return nil
			}
			if err := app.Timeline.SetTasksCollapsed(ctx, changed, collapse); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %d tasks.\n", len(changed))
			return nil
		},
	}
}

func newTaskCompleteCmd(app *App, completed bool) *cobra.Command {
	use, short, verb := "reopen TASK", "Mark a completed task as open again", "Reopened"
	if completed {
		use, short, verb = "complete TASK", "Mark a task as completed", "Completed"
	}

	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			v, err := loadView(ctx, app)
			if err != nil {
				return err
			}
			id, err := resolveTaskID(v, args[0])
			if err != nil {
				return err
			}
			task, _ := v.Task(id)
			if task.Completed == completed {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("No change."))
				return nil
			}
			if err := app.Timeline.SetTaskCompleted(ctx, id, completed); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", verb, formatter.Bold(task.Name))
			return nil
		},
	}
}
