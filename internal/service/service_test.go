package service

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/alexanderramin/gantry/internal/drag"
	"github.com/alexanderramin/gantry/internal/repository"
	"github.com/alexanderramin/gantry/internal/snapshot"
	"github.com/alexanderramin/gantry/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ drag.Updater = (TimelineService)(nil)

type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (o *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

func (o *recordingObserver) last() UseCaseEvent {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.events[len(o.events)-1]
}

type fixture struct {
	svc      TimelineService
	seed     SeedService
	tasks    *repository.SQLiteTaskRepo
	observer *recordingObserver
	refs     map[string]string
}

func setup(t *testing.T) *fixture {
	t.Helper()
	database := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(database)
	obs := &recordingObserver{}
	f := &fixture{
		svc:      NewTimelineService(repository.NewSQLiteProjectRepo(database), repository.NewSQLiteTaskRepo(database), uow, obs),
		seed:     NewSeedService(uow, obs),
		tasks:    repository.NewSQLiteTaskRepo(database),
		observer: obs,
	}

	file, err := snapshot.Load("../snapshot/testdata/website.yaml")
	require.NoError(t, err)
	res, err := f.seed.Seed(context.Background(), file)
	require.NoError(t, err)
	f.refs = res.Refs
	return f
}

func TestSeed_InsertsSnapshot(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	snap, err := f.svc.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Projects, 2)
	require.Len(t, snap.Tasks, 6)
	assert.Equal(t, "Website relaunch", snap.Projects[0].Name)

	e := f.observer.last()
	assert.Equal(t, "seed", e.Name)
	assert.True(t, e.Success)
	assert.Equal(t, 6, e.Fields["tasks"])
}

func TestSeed_AppendsAfterExistingProjects(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	file := &snapshot.File{Projects: []snapshot.ProjectImport{{Name: "Later"}}}
	res, err := f.seed.Seed(ctx, file)
	require.NoError(t, err)
	assert.Equal(t, 1, res.ProjectCount)

	snap, err := f.svc.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Projects, 3)
	assert.Equal(t, "Later", snap.Projects[2].Name)
	assert.Equal(t, 2, snap.Projects[2].OrderIndex)
}

func TestSeed_InvalidSnapshotWritesNothing(t *testing.T) {
	database := testutil.NewTestDB(t)
	seed := NewSeedService(testutil.NewTestUoW(database))

	file := &snapshot.File{Projects: []snapshot.ProjectImport{{Name: "P", Tasks: []snapshot.TaskImport{{Name: "T", Start: "nope", Due: "2024-01-01"}}}}}
	_, err := seed.Seed(context.Background(), file)
	assert.ErrorContains(t, err, "snapshot validation failed")

	projects, err := repository.NewSQLiteProjectRepo(database).List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, projects)
}

func TestSeed_RollsBackOnWriteFailure(t *testing.T) {
	database := testutil.NewTestDB(t)
	boom := errors.New("disk full")
	seed := NewSeedService(&testutil.FailOnNthExecUoW{DB: database, FailOn: 3, Err: boom})

	file, err := snapshot.Load("../snapshot/testdata/website.yaml")
	require.NoError(t, err)
	_, err = seed.Seed(context.Background(), file)
	require.ErrorIs(t, err, boom)

	projects, err := repository.NewSQLiteProjectRepo(database).List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, projects)
}

func TestSeed_ReturnsWarnings(t *testing.T) {
	database := testutil.NewTestDB(t)
	seed := NewSeedService(testutil.NewTestUoW(database))

	file := &snapshot.File{Projects: []snapshot.ProjectImport{{Name: "P", Tasks: []snapshot.TaskImport{{Name: "T", Start: "2024-01-05", Due: "2024-01-01"}}}}}
	res, err := seed.Seed(context.Background(), file)
	require.NoError(t, err)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0].Message, "after due")
}

func TestUpdateTask(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	id := f.refs["build"]

	patch := domain.DatePatch{StartDate: testutil.Date("2024-01-14"), DueDate: testutil.Date("2024-01-23")}
	require.NoError(t, f.svc.UpdateTask(ctx, id, patch))

	got, err := f.tasks.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, patch.StartDate, got.StartDate)
	assert.Equal(t, patch.DueDate, got.DueDate)

	e := f.observer.last()
	assert.Equal(t, "update-task", e.Name)
	assert.Equal(t, "2024-01-14", e.Fields["start"])
}

func TestUpdateTask_Errors(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	patch := domain.DatePatch{StartDate: testutil.Date("2024-01-14"), DueDate: testutil.Date("2024-01-23")}

	err := f.svc.UpdateTask(ctx, "ghost", patch)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.False(t, f.observer.last().Success)

	err = f.svc.UpdateTask(ctx, f.refs["build"], domain.DatePatch{StartDate: patch.StartDate})
	assert.ErrorIs(t, err, ErrInvalidPatch)
}

func TestUpdateTask_AsDragUpdater(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	id := f.refs["design"]

	req := drag.CommitRequest{
		TaskID:   id,
		Mode:     drag.ModeMove,
		Proposed: drag.Dates{Start: testutil.Date("2024-01-08"), Due: testutil.Date("2024-01-13")},
	}
	require.NoError(t, req.Execute(ctx, f.svc))

	got, err := f.tasks.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, testutil.Date("2024-01-08"), got.StartDate)
}

func TestShiftTasks_AllOrNothing(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	changes := []domain.DateChange{
		{TaskID: f.refs["design"], Patch: domain.DatePatch{StartDate: testutil.Date("2024-01-06"), DueDate: testutil.Date("2024-01-11")}},
		{TaskID: "ghost", Patch: domain.DatePatch{StartDate: testutil.Date("2024-01-06"), DueDate: testutil.Date("2024-01-11")}},
	}
	err := f.svc.ShiftTasks(ctx, changes)
	require.ErrorIs(t, err, repository.ErrNotFound)

	got, err := f.tasks.GetByID(ctx, f.refs["design"])
	require.NoError(t, err)
	assert.Equal(t, testutil.Date("2024-01-05"), got.StartDate, "rolled back")

	require.NoError(t, f.svc.ShiftTasks(ctx, changes[:1]))
	got, err = f.tasks.GetByID(ctx, f.refs["design"])
	require.NoError(t, err)
	assert.Equal(t, testutil.Date("2024-01-06"), got.StartDate)
	assert.Equal(t, 1, f.observer.last().Fields["count"])
}

func TestCollapse(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	require.NoError(t, f.svc.SetTaskCollapsed(ctx, f.refs["design"], true))
	require.NoError(t, f.svc.SetTasksCollapsed(ctx, []string{f.refs["mockups"], f.refs["design"]}, false))
	require.NoError(t, f.svc.SetProjectCollapsed(ctx, f.refs["web"], true))

	snap, err := f.svc.Snapshot(ctx)
	require.NoError(t, err)
	assert.True(t, snap.Projects[0].Collapsed)
	for _, task := range snap.Tasks {
		assert.False(t, task.Collapsed, task.Name)
	}

	assert.ErrorIs(t, f.svc.SetProjectCollapsed(ctx, "ghost", true), repository.ErrNotFound)
}

func TestSetTaskCompleted(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	require.NoError(t, f.svc.SetTaskCompleted(ctx, f.refs["build"], true))
	build, err := f.tasks.GetByID(ctx, f.refs["build"])
	require.NoError(t, err)
	assert.True(t, build.Completed)
	assert.Equal(t, "set-completed", f.observer.last().Name)

	require.NoError(t, f.svc.SetTaskCompleted(ctx, f.refs["build"], false))
	build, err = f.tasks.GetByID(ctx, f.refs["build"])
	require.NoError(t, err)
	assert.False(t, build.Completed)

	assert.ErrorIs(t, f.svc.SetTaskCompleted(ctx, "ghost", true), repository.ErrNotFound)
	assert.False(t, f.observer.last().Success)
}

func TestLogUseCaseObserver(t *testing.T) {
	var buf bytes.Buffer
	obs := NewLogUseCaseObserver(slog.New(slog.NewTextHandler(&buf, nil)))

	obs.ObserveUseCase(context.Background(), UseCaseEvent{Name: "seed", Success: true, Fields: map[string]any{"tasks": 3}})
	assert.Contains(t, buf.String(), "msg=service_use_case")
	assert.Contains(t, buf.String(), "use_case=seed")
	assert.Contains(t, buf.String(), "tasks=3")

	buf.Reset()
	obs.ObserveUseCase(context.Background(), UseCaseEvent{Name: "shift-tasks", Err: errors.New("boom")})
	assert.Contains(t, buf.String(), "level=ERROR")
	assert.Contains(t, buf.String(), "error=boom")

	assert.IsType(t, NoopUseCaseObserver{}, NewLogUseCaseObserver(nil))
}
