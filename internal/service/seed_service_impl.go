package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/gantry/internal/db"
	"github.com/alexanderramin/gantry/internal/repository"
	"github.com/alexanderramin/gantry/internal/snapshot"
)

type seedService struct {
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewSeedService(uow db.UnitOfWork, observers ...UseCaseObserver) SeedService {
	return &seedService{uow: uow, observer: useCaseObserverOrNoop(observers)}
}

// Seed validates f and inserts it after any existing projects in a single
// transaction. Validation warnings are returned, not enforced.
func (s *seedService) Seed(ctx context.Context, f *snapshot.File) (result *SeedResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"projects": len(f.Projects)}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "seed",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	report := snapshot.Validate(f)
	if err = report.Err(); err != nil {
		return nil, err
	}

	var converted *snapshot.Converted
	converted, err = snapshot.Convert(f, startedAt)
	if err != nil {
		return nil, fmt.Errorf("converting snapshot: %w", err)
	}
	fields["tasks"] = len(converted.Tasks)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txProjects := repository.NewSQLiteProjectRepo(tx)
		txTasks := repository.NewSQLiteTaskRepo(tx)

		offset, err := txProjects.NextOrderIndex(ctx)
		if err != nil {
			return err
		}
		for i := range converted.Projects {
			p := &converted.Projects[i]
			p.OrderIndex += offset
			if err := txProjects.Create(ctx, p); err != nil {
				return fmt.Errorf("creating project %q: %w", p.Name, err)
			}
		}
		// Convert emits parents before their children.
		for i := range converted.Tasks {
			t := &converted.Tasks[i]
			if err := txTasks.Create(ctx, t); err != nil {
				return fmt.Errorf("creating task %q: %w", t.Name, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &SeedResult{
		ProjectCount: len(converted.Projects),
		TaskCount:    len(converted.Tasks),
		Refs:         converted.Refs,
		Warnings:     report.Warnings,
	}, nil
}
