package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/gantry/internal/db"
	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/alexanderramin/gantry/internal/repository"
)

var ErrInvalidPatch = errors.New("invalid date patch")

type timelineService struct {
	projects repository.ProjectRepo
	tasks    repository.TaskRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewTimelineService(
	projects repository.ProjectRepo,
	tasks repository.TaskRepo,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) TimelineService {
	return &timelineService{
		projects: projects,
		tasks:    tasks,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *timelineService) Snapshot(ctx context.Context) (*Snapshot, error) {
	projects, err := s.projects.List(ctx)
	if err != nil {
		return nil, err
	}
	tasks, err := s.tasks.List(ctx)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{
		Projects: make([]domain.Project, 0, len(projects)),
		Tasks:    make([]domain.Task, 0, len(tasks)),
	}
	for _, p := range projects {
		snap.Projects = append(snap.Projects, *p)
	}
	for _, t := range tasks {
		snap.Tasks = append(snap.Tasks, *t)
	}
	return snap, nil
}

// UpdateTask persists a committed reschedule. Rule checks happen before the
// commit request is built, so only structural problems are rejected here.
func (s *timelineService) UpdateTask(ctx context.Context, taskID string, patch domain.DatePatch) (err error) {
	defer s.observe(ctx, "update-task", time.Now().UTC(), map[string]any{
		"task_id": taskID,
		"start":   domain.FormatDate(patch.StartDate),
		"due":     domain.FormatDate(patch.DueDate),
	}, &err)

	if err = checkPatch(taskID, patch); err != nil {
		return err
	}
	return s.tasks.UpdateDates(ctx, taskID, patch)
}

// ShiftTasks applies all changes in one transaction; any failure leaves
// every task untouched.
func (s *timelineService) ShiftTasks(ctx context.Context, changes []domain.DateChange) (err error) {
	defer s.observe(ctx, "shift-tasks", time.Now().UTC(), map[string]any{"count": len(changes)}, &err)

	for _, c := range changes {
		if err = checkPatch(c.TaskID, c.Patch); err != nil {
			return err
		}
	}
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txTasks := repository.NewSQLiteTaskRepo(tx)
		for _, c := range changes {
			if err := txTasks.UpdateDates(ctx, c.TaskID, c.Patch); err != nil {
				return fmt.Errorf("shifting %s: %w", c.TaskID, err)
			}
		}
		return nil
	})
}

func (s *timelineService) SetTaskCollapsed(ctx context.Context, taskID string, collapsed bool) error {
	return s.tasks.SetCollapsed(ctx, taskID, collapsed)
}

func (s *timelineService) SetTasksCollapsed(ctx context.Context, taskIDs []string, collapsed bool) (err error) {
	defer s.observe(ctx, "set-collapsed", time.Now().UTC(), map[string]any{
		"count":     len(taskIDs),
		"collapsed": collapsed,
	}, &err)

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txTasks := repository.NewSQLiteTaskRepo(tx)
		for _, id := range taskIDs {
			if err := txTasks.SetCollapsed(ctx, id, collapsed); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *timelineService) SetProjectCollapsed(ctx context.Context, projectID string, collapsed bool) error {
	return s.projects.SetCollapsed(ctx, projectID, collapsed)
}

func (s *timelineService) SetTaskCompleted(ctx context.Context, taskID string, completed bool) (err error) {
	defer s.observe(ctx, "set-completed", time.Now().UTC(), map[string]any{
		"task_id":   taskID,
		"completed": completed,
	}, &err)

	return s.tasks.SetCompleted(ctx, taskID, completed)
}

func (s *timelineService) observe(ctx context.Context, name string, startedAt time.Time, fields map[string]any, errp *error) {
	s.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      name,
		StartedAt: startedAt,
		Duration:  time.Since(startedAt),
		Success:   *errp == nil,
		Err:       *errp,
		Fields:    fields,
	})
}

func checkPatch(taskID string, p domain.DatePatch) error {
	if taskID == "" {
		return fmt.Errorf("%w: empty task id", ErrInvalidPatch)
	}
	if p.StartDate.IsZero() || p.DueDate.IsZero() {
		return fmt.Errorf("%w: task %s needs both dates", ErrInvalidPatch, taskID)
	}
	return nil
}
