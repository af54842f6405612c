package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/alexanderramin/gantry/internal/config"
	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/alexanderramin/gantry/internal/drag"
	"github.com/alexanderramin/gantry/internal/repository"
	"github.com/alexanderramin/gantry/internal/service"
	"github.com/alexanderramin/gantry/internal/testutil"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const websiteSnapshot = "../snapshot/testdata/website.yaml"

var testToday = time.Date(2024, 1, 3, 9, 30, 0, 0, time.UTC)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

// testApp wires a full App backed by an in-memory DB for CLI integration tests.
func testApp(t *testing.T) *App {
	t.Helper()
	database := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(database)

	return &App{
		Timeline: service.NewTimelineService(
			repository.NewSQLiteProjectRepo(database),
			repository.NewSQLiteTaskRepo(database),
			uow,
		),
		Seed:   service.NewSeedService(uow),
		Config: config.Default(),
		Now:    func() time.Time { return testToday },
	}
}

// seededApp is testApp with the website fixture loaded.
func seededApp(t *testing.T) *App {
	t.Helper()
	app := testApp(t)
	_, err := executeCmd(t, app, "seed", websiteSnapshot)
	require.NoError(t, err)
	return app
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return stripANSI(buf.String()), err
}

func taskByName(t *testing.T, app *App, name string) domain.Task {
	t.Helper()
	snap, err := app.Timeline.Snapshot(context.Background())
	require.NoError(t, err)
	for _, task := range snap.Tasks {
		if task.Name == name {
			return task
		}
	}
	t.Fatalf("task %q not found", name)
	return domain.Task{}
}

func projectByName(t *testing.T, app *App, name string) domain.Project {
	t.Helper()
	snap, err := app.Timeline.Snapshot(context.Background())
	require.NoError(t, err)
	for _, p := range snap.Projects {
		if p.Name == name {
			return p
		}
	}
	t.Fatalf("project %q not found", name)
	return domain.Project{}
}

func assertDates(t *testing.T, task domain.Task, start, due string) {
	t.Helper()
	assert.Equal(t, start, domain.FormatDate(task.StartDate), "%s start", task.Name)
	assert.Equal(t, due, domain.FormatDate(task.DueDate), "%s due", task.Name)
}

// --- seed / validate / config ---

func TestSeedCmd(t *testing.T) {
	app := testApp(t)
	out, err := executeCmd(t, app, "seed", websiteSnapshot)
	require.NoError(t, err)
	assert.Contains(t, out, "Seeded 2 projects and 6 tasks")

	_, err = executeCmd(t, app, "seed", "does-not-exist.yaml")
	assert.Error(t, err)
}

func TestValidateCmd(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "validate", websiteSnapshot)
	require.NoError(t, err)
	assert.Contains(t, out, "is valid")

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte(`version: 1
projects:
  - name: Broken
    tasks:
      - name: Sometime
        start: next week
        due: 2024-01-10
`), 0o644))

	out, err = executeCmd(t, app, "validate", bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "snapshot validation failed")
	assert.Contains(t, out, "error:")
	assert.Contains(t, out, "projects.0.tasks.0.start")
}

func TestConfigCmd(t *testing.T) {
	app := testApp(t)
	out, err := executeCmd(t, app, "config")
	require.NoError(t, err)
	assert.Contains(t, out, `view_unit = "day"`)
	assert.Contains(t, out, "zoom = 100")
}

func TestBootstrapSeesParsedFlags(t *testing.T) {
	app := testApp(t)
	home := t.TempDir()
	app.Bootstrap = func(cmd *cobra.Command, app *App) error {
		cfg, err := config.Load(config.Options{
			Home:    home,
			WorkDir: home,
			Getenv:  func(string) string { return "" },
			Flags:   cmd.Flags(),
		})
		if err != nil {
			return err
		}
		app.Config = *cfg
		return nil
	}

	out, err := executeCmd(t, app, "config", "--zoom", "150", "--unit", "week")
	require.NoError(t, err)
	assert.Contains(t, out, "zoom = 150")
	assert.Contains(t, out, `view_unit = "week"`)

	_, err = executeCmd(t, app, "config", "--unit", "month")
	assert.Error(t, err)
}

// --- read-only views ---

func TestTasksCmd(t *testing.T) {
	app := seededApp(t)

	out, err := executeCmd(t, app, "tasks")
	require.NoError(t, err)
	assert.Contains(t, out, "Website relaunch")
	assert.Contains(t, out, "▾ Design")
	assert.Contains(t, out, "▸ Mockups +1")
	assert.Contains(t, out, "[ 2024-01-05 → 2024-01-10 ]")
	assert.NotContains(t, out, "Review")
	assert.Contains(t, out, "✔ Write guide")

	out, err = executeCmd(t, app, "tasks", "--all")
	require.NoError(t, err)
	assert.Contains(t, out, "◆ Review (hidden)")
}

func TestTasksCmd_HidesCompletedWhenConfigured(t *testing.T) {
	app := seededApp(t)
	app.Config.ShowCompleted = false

	out, err := executeCmd(t, app, "tasks")
	require.NoError(t, err)
	assert.NotContains(t, out, "Write guide")
}

func TestGanttBarTextFollowsZoom(t *testing.T) {
	app := seededApp(t)

	cases := []struct {
		zoom int
		want string
	}{
		{100, "Design"},
		{40, "Des…"},
		{20, ""},
	}
	for _, tc := range cases {
		app.Config.Zoom = tc.zoom
		v, err := loadView(context.Background(), app)
		require.NoError(t, err)

		g := ganttFromView(v, windowAt(v, 0, totalColumns(v)), "")
		var found bool
		for _, r := range g.Rows {
			if r.Label == "Design" {
				found = true
				assert.Equal(t, tc.want, r.BarText, "zoom %d", tc.zoom)
			}
		}
		require.True(t, found)
	}
}

func TestShowCmd(t *testing.T) {
	app := seededApp(t)

	out, err := executeCmd(t, app, "show", "--from", "2024-01-01", "--cols", "21")
	require.NoError(t, err)
	assert.Contains(t, out, "Jan 2024")
	assert.Contains(t, out, "Website relaunch")
	assert.Contains(t, out, "Design")
	assert.Contains(t, out, "▐")

	_, err = executeCmd(t, app, "show", "--from", "2030-01-01")
	assert.Error(t, err)
	_, err = executeCmd(t, app, "show", "--cols", "0")
	assert.Error(t, err)
}

func TestShowCmd_Empty(t *testing.T) {
	out, err := executeCmd(t, testApp(t), "show")
	require.NoError(t, err)
	assert.Contains(t, out, "No projects yet")
}

func TestGeometryCmd(t *testing.T) {
	app := seededApp(t)

	out, err := executeCmd(t, app, "geometry")
	require.NoError(t, err)
	assert.Contains(t, out, "30px")
	// Range starts 109 days before today; Design starts two days after it.
	assert.Contains(t, out, "3330")
	assert.Contains(t, out, "180")
	assert.Contains(t, out, "content height")
}

// --- reschedule ---

func TestTaskReschedule_Move(t *testing.T) {
	app := seededApp(t)

	out, err := executeCmd(t, app, "task", "reschedule", "Design", "--cells", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "Rescheduled Design (move)")
	assert.Contains(t, out, "2024-01-05 → 2024-01-08")

	assertDates(t, taskByName(t, app, "Design"), "2024-01-08", "2024-01-13")
	assertDates(t, taskByName(t, app, "Specs"), "2024-01-05", "2024-01-07")
}

func TestTaskReschedule_Edges(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		wantStart string
		wantDue   string
	}{
		{"resize end by cells", []string{"--edge", "end", "--cells", "2"}, "2024-01-11", "2024-01-22"},
		{"resize start by pixels", []string{"--edge", "start", "--px", "-60"}, "2024-01-09", "2024-01-20"},
		{"move by rounded pixels", []string{"--px", "44"}, "2024-01-12", "2024-01-21"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := seededApp(t)
			args := append([]string{"task", "reschedule", "Build"}, tt.args...)
			_, err := executeCmd(t, app, args...)
			require.NoError(t, err)
			assertDates(t, taskByName(t, app, "Build"), tt.wantStart, tt.wantDue)
		})
	}
}

func TestTaskReschedule_BlockedIntoThePast(t *testing.T) {
	app := seededApp(t)

	_, err := executeCmd(t, app, "task", "reschedule", "Design", "--cells", "-3")
	require.Error(t, err)
	var ve *drag.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.True(t, ve.Has(drag.RulePastDate))

	assertDates(t, taskByName(t, app, "Design"), "2024-01-05", "2024-01-10")
}

func TestTaskReschedule_BelowThreshold(t *testing.T) {
	app := seededApp(t)
	_, err := executeCmd(t, app, "task", "reschedule", "Design", "--px", "3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "threshold")
}

func TestTaskReschedule_Errors(t *testing.T) {
	app := seededApp(t)

	_, err := executeCmd(t, app, "task", "reschedule", "Nope", "--cells", "1")
	assert.ErrorContains(t, err, "not found")

	_, err = executeCmd(t, app, "task", "reschedule", "Design", "--edge", "middle")
	assert.ErrorContains(t, err, "invalid --edge")

	// Review sits under the collapsed Mockups task.
	_, err = executeCmd(t, app, "task", "reschedule", "Review", "--cells", "1")
	assert.ErrorContains(t, err, "hidden")
}

func TestTaskReschedule_WarningsNeedConfirmation(t *testing.T) {
	app := seededApp(t)
	app.Config.Drag.PreventPastDates = false

	_, err := executeCmd(t, app, "task", "reschedule", "Design", "--cells", "-3")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errNeedsConfirmation))
	assertDates(t, taskByName(t, app, "Design"), "2024-01-05", "2024-01-10")

	out, err := executeCmd(t, app, "task", "reschedule", "Design", "--cells", "-3", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "warning:")
	assertDates(t, taskByName(t, app, "Design"), "2024-01-02", "2024-01-07")
}

func TestTaskReschedule_InteractiveConfirm(t *testing.T) {
	for _, answer := range []bool{false, true} {
		app := seededApp(t)
		app.Config.Drag.PreventPastDates = false
		app.IsInteractive = func() bool { return true }
		var asked string
		app.Confirm = func(title, description string) (bool, error) {
			asked = title
			return answer, nil
		}

		out, err := executeCmd(t, app, "task", "reschedule", "Design", "--cells", "-3")
		require.NoError(t, err)
		assert.Equal(t, "Reschedule Design?", asked)

		design := taskByName(t, app, "Design")
		if answer {
			assertDates(t, design, "2024-01-02", "2024-01-07")
		} else {
			assert.Contains(t, out, "Cancelled.")
			assertDates(t, design, "2024-01-05", "2024-01-10")
		}
	}
}

// --- shift ---

func TestTaskShift(t *testing.T) {
	app := seededApp(t)

	out, err := executeCmd(t, app, "task", "shift", "Design", "Build", "--days", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Shifted 2 tasks by +2 days.")

	assertDates(t, taskByName(t, app, "Design"), "2024-01-07", "2024-01-12")
	assertDates(t, taskByName(t, app, "Build"), "2024-01-13", "2024-01-22")
}

func TestTaskShift_BlockedWritesNothing(t *testing.T) {
	app := seededApp(t)

	out, err := executeCmd(t, app, "task", "shift", "Design", "Build", "--days", "-3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 tasks blocked")
	assert.Contains(t, out, "blocked:")

	assertDates(t, taskByName(t, app, "Design"), "2024-01-05", "2024-01-10")
	assertDates(t, taskByName(t, app, "Build"), "2024-01-11", "2024-01-20")
}

func TestTaskShift_DryRunAndKinds(t *testing.T) {
	app := seededApp(t)

	out, err := executeCmd(t, app, "task", "shift", "Build", "--days", "5", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "Dry run")
	assertDates(t, taskByName(t, app, "Build"), "2024-01-11", "2024-01-20")

	_, err = executeCmd(t, app, "task", "shift", "Build", "--days", "5", "--type", "due")
	require.NoError(t, err)
	assertDates(t, taskByName(t, app, "Build"), "2024-01-11", "2024-01-25")

	_, err = executeCmd(t, app, "task", "shift", "Build", "--days", "1", "--type", "sideways")
	assert.Error(t, err)
	_, err = executeCmd(t, app, "task", "shift", "Build")
	assert.Error(t, err)
}

// --- collapse ---

func TestTaskCollapse(t *testing.T) {
	app := seededApp(t)

	out, err := executeCmd(t, app, "task", "collapse", "Design")
	require.NoError(t, err)
	assert.Contains(t, out, "Collapsed Design")
	assert.True(t, taskByName(t, app, "Design").Collapsed)

	_, err = executeCmd(t, app, "task", "expand", "Mockups")
	require.NoError(t, err)
	assert.False(t, taskByName(t, app, "Mockups").Collapsed)

	_, err = executeCmd(t, app, "task", "collapse", "Specs")
	assert.ErrorContains(t, err, "no children")

	out, err = executeCmd(t, app, "task", "collapse", "Docs")
	require.NoError(t, err)
	assert.Contains(t, out, "Collapsed project Docs")
	assert.True(t, projectByName(t, app, "Docs").Collapsed)

	_, err = executeCmd(t, app, "task", "collapse", "Nothing")
	assert.ErrorContains(t, err, "no task or project")
}

func TestTaskCollapseAll_ExpandAll(t *testing.T) {
	app := seededApp(t)

	out, err := executeCmd(t, app, "task", "collapse-all")
	require.NoError(t, err)
	// Mockups is already collapsed; Design is the only change.
	assert.Contains(t, out, "Updated 1 tasks.")
	assert.True(t, taskByName(t, app, "Design").Collapsed)

	out, err = executeCmd(t, app, "task", "expand-all")
	require.NoError(t, err)
	assert.Contains(t, out, "Updated 2 tasks.")
	assert.False(t, taskByName(t, app, "Mockups").Collapsed)

	out, err = executeCmd(t, app, "task", "expand-all")
	require.NoError(t, err)
	assert.Contains(t, out, "No change.")
}

func TestTaskCompleteAndReopen(t *testing.T) {
	app := seededApp(t)

	out, err := executeCmd(t, app, "task", "complete", "Build")
	require.NoError(t, err)
	assert.Contains(t, out, "Completed Build")
	assert.True(t, taskByName(t, app, "Build").Completed)

	out, err = executeCmd(t, app, "task", "complete", "Build")
	require.NoError(t, err)
	assert.Contains(t, out, "No change.")

	// Completed tasks stay addressable when they are hidden from the chart.
	app.Config.ShowCompleted = false
	out, err = executeCmd(t, app, "task", "reopen", "Write guide")
	require.NoError(t, err)
	assert.Contains(t, out, "Reopened Write guide")
	assert.False(t, taskByName(t, app, "Write guide").Completed)

	_, err = executeCmd(t, app, "task", "complete", "Nothing")
	assert.ErrorContains(t, err, "not found")
}

func TestTUICmd_RequiresTerminal(t *testing.T) {
	app := seededApp(t)
	_, err := executeCmd(t, app, "tui")
	assert.ErrorContains(t, err, "interactive terminal")

	app.IsInteractive = func() bool { return true }
	ran := false
	app.RunProgram = func(m tea.Model) error {
		ran = true
		_, ok := m.(timelineModel)
		assert.True(t, ok)
		return nil
	}
	_, err = executeCmd(t, app, "tui")
	require.NoError(t, err)
	assert.True(t, ran)
}
