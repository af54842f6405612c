package repository

import (
	"context"
	"errors"

	"github.com/alexanderramin/gantry/internal/domain"
)

// ErrNotFound is wrapped by every lookup or write that matches no row.
var ErrNotFound = errors.New("not found")

type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	SetCollapsed(ctx context.Context, id string, collapsed bool) error
	Delete(ctx context.Context, id string) error
	NextOrderIndex(ctx context.Context) (int, error)
}

type TaskRepo interface {
	Create(ctx context.Context, t *domain.Task) error
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	List(ctx context.Context) ([]*domain.Task, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Task, error)
	UpdateDates(ctx context.Context, id string, patch domain.DatePatch) error
	SetCollapsed(ctx context.Context, id string, collapsed bool) error
	SetCompleted(ctx context.Context, id string, completed bool) error
	Delete(ctx context.Context, id string) error
}
