package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/alexanderramin/gantry/internal/cli/formatter"
	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/alexanderramin/gantry/internal/geometry"
	"github.com/alexanderramin/gantry/internal/hierarchy"
	"github.com/alexanderramin/gantry/internal/timeline"
	"github.com/spf13/cobra"
)

// todayFraction is where today's column sits when a window opens on today.
const todayFraction = 0.25

func newShowCmd(app *App) *cobra.Command {
	var from string
	var cols int

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Render the timeline as a Gantt chart",
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := loadView(cmd.Context(), app)
			if err != nil {
				return err
			}
			if cols <= 0 {
				return fmt.Errorf("--cols must be positive, got %d", cols)
			}
			m := v.Metrics()
			if from != "" {
				d, err := domain.ParseDate(from)
				if err != nil {
					return fmt.Errorf("invalid --from date: %w", err)
				}
				if !v.Range().Contains(d) {
					return fmt.Errorf("--from %s is outside the visible range %s..%s",
						from, domain.FormatDate(v.Range().Start), domain.FormatDate(v.Range().End))
				}
				v.SetScrollLeft(geometry.DatePosition(d, v.Range().Start, m.CellWidth, v.State().ViewUnit))
			} else {
				v.ScrollToToday(cols*m.CellWidth, todayFraction)
			}

			w := windowAt(v, v.State().ScrollLeft, cols)
			if len(v.Rows()) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("No projects yet. Load some with 'gantry seed FILE'."))
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.RenderGantt(ganttFromView(v, w, "")))
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "first date shown (YYYY-MM-DD, default a little before today)")
	cmd.Flags().IntVar(&cols, "cols", 42, "number of day columns")
	return cmd
}

func newGeometryCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "geometry",
		Short: "Print the pixel layout of every row and bar",
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := loadView(cmd.Context(), app)
			if err != nil {
				return err
			}
			m := v.Metrics()
			rng := v.Range()
			out := cmd.OutOrStdout()

			fmt.Fprintln(out, formatter.Header("Grid"))
			fmt.Fprint(out, formatter.RenderTable(
				[]string{"UNIT", "ZOOM", "CELL", "BAR", "RANGE", "WIDTH", "TODAY X"},
				[][]string{{
					string(m.Unit),
					fmt.Sprintf("%d%%", m.ZoomLevel),
					fmt.Sprintf("%dpx", m.CellWidth),
					fmt.Sprintf("%dpx", m.TaskBarHeight),
					domain.FormatDate(rng.Start) + " → " + domain.FormatDate(rng.End),
					strconv.Itoa(v.ContentWidth()),
					strconv.Itoa(v.TodayX()),
				}},
			))
			fmt.Fprintln(out)

			rows := v.Rows()
			table := make([][]string, 0, len(rows))
			for _, r := range rows {
				line := []string{shortID(r.ID), r.Name, strconv.Itoa(r.Top), strconv.Itoa(r.Height)}
				if r.Kind == timeline.RowProject {
					line = append(line, "-", "-", "-", "-", "-")
				} else {
					line = append(line,
						strconv.Itoa(r.Indent),
						strconv.Itoa(r.Bar.Left),
						strconv.Itoa(r.Bar.Width),
						domain.FormatDate(r.Start),
						domain.FormatDate(r.Due),
					)
				}
				table = append(table, line)
			}
			fmt.Fprintln(out, formatter.Header("Rows"))
			fmt.Fprint(out, formatter.RenderTableAligned(
				[]string{"ID", "NAME", "TOP", "HEIGHT", "INDENT", "LEFT", "WIDTH", "START", "DUE"},
				table,
				[]formatter.Align{
					formatter.AlignLeft, formatter.AlignLeft,
					formatter.AlignRight, formatter.AlignRight, formatter.AlignRight,
					formatter.AlignRight, formatter.AlignRight,
				},
			))
			fmt.Fprintf(out, "%s\n", formatter.Dim(fmt.Sprintf("content height %dpx", v.ContentHeight())))
			return nil
		},
	}
}

func newTasksCmd(app *App) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List tasks as a tree, grouped by project",
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := loadView(cmd.Context(), app)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			opts := hierarchy.FlattenOptions{
				ShowCompleted: app.Config.ShowCompleted,
				SortByDue:     app.Config.SortByDue,
				IncludeHidden: all,
			}

			known := make(map[string]bool)
			printed := 0
			for _, p := range v.Projects() {
				known[p.ID] = true
				opts.ProjectID = p.ID
				rows := v.Tree().Flatten(opts)
				title := fmt.Sprintf("%s %s", p.Name, formatter.TruncID(p.ID))
				if p.Collapsed {
					title += formatter.Dim(" (collapsed)")
				}
				fmt.Fprintln(out, formatter.ProjectStyle(p.DisplayColor()).Bold(true).Render("■ ")+title)
				fmt.Fprint(out, formatter.RenderTree(treeItems(rows, v.Today())))
				printed++
			}

			opts.ProjectID = ""
			var orphans []hierarchy.Row
			for _, r := range v.Tree().Flatten(opts) {
				if !known[r.Task.ProjectID] {
					orphans = append(orphans, r)
				}
			}
			if len(orphans) > 0 {
				fmt.Fprintln(out, formatter.Dim("■ No project"))
				fmt.Fprint(out, formatter.RenderTree(treeItems(orphans, v.Today())))
				printed++
			}

			if printed == 0 {
				fmt.Fprintln(out, formatter.Dim("No tasks."))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "include tasks under collapsed parents")
	return cmd
}

func treeItems(rows []hierarchy.Row, today time.Time) []formatter.TreeItem {
	items := make([]formatter.TreeItem, len(rows))
	for i, r := range rows {
		title := r.Task.Name
		if r.Task.Milestone {
			title = "◆ " + title
		}
		items[i] = formatter.TreeItem{
			Title:     title,
			Status:    r.Task.Status(today),
			Level:     r.Depth,
			IsLast:    isLastSibling(rows, i),
			Children:  r.Badge,
			Collapsed: r.Task.Collapsed,
			Hidden:    !r.Visible,
			Detail:    domain.FormatDate(r.Task.StartDate) + " → " + domain.FormatDate(r.Task.DueDate),
		}
	}
	return items
}

// isLastSibling reports whether no later row at the same depth follows
// before the parent's subtree ends.
func isLastSibling(rows []hierarchy.Row, i int) bool {
	d := rows[i].Depth
	for j := i + 1; j < len(rows); j++ {
		switch {
		case rows[j].Depth == d:
			return false
		case rows[j].Depth < d:
			return true
		}
	}
	return true
}
