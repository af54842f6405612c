package testutil

import (
	"time"

	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/google/uuid"
)

// Date parses a YYYY-MM-DD literal and panics on a malformed one.
func Date(s string) time.Time {
	t, err := domain.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return t
}

// Project options
type ProjectOption func(*domain.Project)

func WithColor(c string) ProjectOption {
	return func(p *domain.Project) {
		p.Color = c
	}
}

func WithProjectCollapsed() ProjectOption {
	return func(p *domain.Project) {
		p.Collapsed = true
	}
}

func WithProjectOrder(i int) ProjectOption {
	return func(p *domain.Project) {
		p.OrderIndex = i
	}
}

func NewTestProject(name string, opts ...ProjectOption) *domain.Project {
	now := time.Now().UTC()
	p := &domain.Project{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Task options
type TaskOption func(*domain.Task)

func WithDates(start, due string) TaskOption {
	return func(t *domain.Task) {
		t.StartDate = Date(start)
		t.DueDate = Date(due)
	}
}

// WithParent nests the task under parent and sets its level accordingly.
func WithParent(parent *domain.Task) TaskOption {
	return func(t *domain.Task) {
		id := parent.ID
		t.ParentID = &id
		t.Level = parent.Level + 1
	}
}

func WithTaskID(id string) TaskOption {
	return func(t *domain.Task) {
		t.ID = id
	}
}

func WithCollapsed() TaskOption {
	return func(t *domain.Task) {
		t.Collapsed = true
	}
}

func WithCompleted() TaskOption {
	return func(t *domain.Task) {
		t.Completed = true
	}
}

func WithMilestone() TaskOption {
	return func(t *domain.Task) {
		t.Milestone = true
	}
}

func WithOrder(i int) TaskOption {
	return func(t *domain.Task) {
		t.OrderIndex = i
	}
}

// NewTestTask builds a one-week root task starting 2024-01-08.
func NewTestTask(projectID, name string, opts ...TaskOption) *domain.Task {
	now := time.Now().UTC()
	t := &domain.Task{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Name:      name,
		StartDate: Date("2024-01-08"),
		DueDate:   Date("2024-01-14"),
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}
