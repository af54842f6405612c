package service

import (
	"context"

	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/alexanderramin/gantry/internal/snapshot"
)

// Snapshot is everything the timeline needs to render: all projects in
// display order and all tasks in insertion order.
type Snapshot struct {
	Projects []domain.Project
	Tasks    []domain.Task
}

// TimelineService is the persistence side of the timeline. UpdateTask
// satisfies drag.Updater.
type TimelineService interface {
	Snapshot(ctx context.Context) (*Snapshot, error)
	UpdateTask(ctx context.Context, taskID string, patch domain.DatePatch) error
	ShiftTasks(ctx context.Context, changes []domain.DateChange) error
	SetTaskCollapsed(ctx context.Context, taskID string, collapsed bool) error
	SetTasksCollapsed(ctx context.Context, taskIDs []string, collapsed bool) error
	SetProjectCollapsed(ctx context.Context, projectID string, collapsed bool) error
	SetTaskCompleted(ctx context.Context, taskID string, completed bool) error
}

// SeedResult holds the outcome of loading a snapshot into the store.
type SeedResult struct {
	ProjectCount int
	TaskCount    int
	Refs         map[string]string
	Warnings     []snapshot.Issue
}

type SeedService interface {
	Seed(ctx context.Context, f *snapshot.File) (*SeedResult, error)
}
