package snapshot

import (
	"fmt"
	"time"

	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/google/uuid"
)

// Converted is a snapshot flattened into domain values. Refs maps every
// non-empty ref to the generated id; on duplicates the last one wins.
type Converted struct {
	Projects []domain.Project
	Tasks    []domain.Task
	Refs     map[string]string
}

// Convert assigns fresh ids and flattens nested tasks depth-first. A task's
// level is its nesting depth, so parent and level always agree. Call
// Validate first; Convert only fails on unparsable dates.
func Convert(f *File, now time.Time) (*Converted, error) {
	now = now.UTC()
	out := &Converted{Refs: make(map[string]string)}

	for pi, p := range f.Projects {
		proj := domain.Project{
			ID:         uuid.New().String(),
			Name:       p.Name,
			Color:      p.Color,
			Collapsed:  p.Collapsed,
			OrderIndex: pi,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if p.Ref != "" {
			out.Refs[p.Ref] = proj.ID
		}
		out.Projects = append(out.Projects, proj)

		order := 0
		var walk func(tasks []TaskImport, parent *string, level int) error
		walk = func(tasks []TaskImport, parent *string, level int) error {
			for _, ti := range tasks {
				start, err := domain.ParseDate(ti.Start)
				if err != nil {
					return fmt.Errorf("task %q start: %w", ti.Name, err)
				}
				due, err := domain.ParseDate(ti.Due)
				if err != nil {
					return fmt.Errorf("task %q due: %w", ti.Name, err)
				}
				t := domain.Task{
					ID:         uuid.New().String(),
					ProjectID:  proj.ID,
					ParentID:   parent,
					Name:       ti.Name,
					Level:      level,
					StartDate:  start,
					DueDate:    due,
					Collapsed:  ti.Collapsed,
					Completed:  ti.Completed,
					Milestone:  ti.Milestone,
					OrderIndex: order,
					CreatedAt:  now,
					UpdatedAt:  now,
				}
				order++
				if ti.Ref != "" {
					out.Refs[ti.Ref] = t.ID
				}
				out.Tasks = append(out.Tasks, t)

				id := t.ID
				if err := walk(ti.Children, &id, level+1); err != nil {
					return err
				}
			}
			return nil
		}
		if err := walk(p.Tasks, nil, 0); err != nil {
			return nil, fmt.Errorf("project %q: %w", p.Name, err)
		}
	}
	return out, nil
}
