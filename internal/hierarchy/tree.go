package hierarchy

import (
	"fmt"
	"sort"
	"time"

	"github.com/alexanderramin/gantry/internal/domain"
)

// Tree is a flat arena over a copy of the caller's snapshot. Collapse and
// date changes apply to the copy; caller slices are never touched.
type Tree struct {
	tasks map[string]*domain.Task
	order []string
	rel   RelationMap
}

func NewTree(tasks []domain.Task) *Tree {
	t := &Tree{
		tasks: make(map[string]*domain.Task, len(tasks)),
		order: make([]string, 0, len(tasks)),
	}
	copied := make([]domain.Task, 0, len(tasks))
	for _, task := range tasks {
		if _, dup := t.tasks[task.ID]; dup {
			continue
		}
		if task.ParentID != nil {
			pid := *task.ParentID
			task.ParentID = &pid
		}
		copied = append(copied, task)
		t.tasks[task.ID] = &copied[len(copied)-1]
		t.order = append(t.order, task.ID)
	}
	t.rel = BuildRelationMap(copied)
	return t
}

func (t *Tree) Len() int {
	return len(t.order)
}

func (t *Tree) Relations() RelationMap {
	return t.rel
}

// Task returns a copy of the task with the given id.
func (t *Tree) Task(id string) (domain.Task, bool) {
	task, ok := t.tasks[id]
	if !ok {
		return domain.Task{}, false
	}
	return *task, true
}

// Tasks returns copies of all tasks in input order.
func (t *Tree) Tasks() []domain.Task {
	out := make([]domain.Task, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, *t.tasks[id])
	}
	return out
}

func (t *Tree) lookup(id string) (domain.Task, bool) {
	return t.Task(id)
}

func (t *Tree) IsVisible(id string) bool {
	return IsVisible(id, t.lookup, t.rel)
}

func (t *Tree) BadgeCount(id string) int {
	return t.rel.BadgeCount(id)
}

func (t *Tree) HasChildren(id string) bool {
	return t.rel.BadgeCount(id) > 0
}

// ToggleCollapse flips the collapsed flag of one task and returns the new
// value. Descendants keep their own flags.
func (t *Tree) ToggleCollapse(id string) (bool, error) {
	task, ok := t.tasks[id]
	if !ok {
		return false, fmt.Errorf("toggle %s: %w", id, ErrUnknownTask)
	}
	task.Collapsed = !task.Collapsed
	return task.Collapsed, nil
}

func (t *Tree) SetCollapsed(id string, collapsed bool) error {
	task, ok := t.tasks[id]
	if !ok {
		return fmt.Errorf("collapse %s: %w", id, ErrUnknownTask)
	}
	task.Collapsed = collapsed
	return nil
}

// ExpandAll clears the collapsed flag everywhere and returns the ids that changed.
func (t *Tree) ExpandAll() []string {
	return t.setAll(false, func(string) bool { return true })
}

// CollapseAll collapses every task that has children and returns the ids
// that changed. Leaves are left alone.
func (t *Tree) CollapseAll() []string {
	return t.setAll(true, t.HasChildren)
}

func (t *Tree) setAll(collapsed bool, eligible func(string) bool) []string {
	var changed []string
	for _, id := range t.order {
		task := t.tasks[id]
		if task.Collapsed == collapsed || !eligible(id) {
			continue
		}
		task.Collapsed = collapsed
		changed = append(changed, id)
	}
	return changed
}

// ApplyDates updates the working copy after an optimistic commit.
func (t *Tree) ApplyDates(id string, p domain.DatePatch, now time.Time) error {
	task, ok := t.tasks[id]
	if !ok {
		return fmt.Errorf("apply dates %s: %w", id, ErrUnknownTask)
	}
	task.Apply(p, now)
	return nil
}

// FlattenOptions controls row order and filtering.
type FlattenOptions struct {
	// ProjectID restricts rows to one project when non-empty.
	ProjectID string
	// ShowCompleted keeps completed tasks; otherwise completed tasks and
	// their subtrees are dropped.
	ShowCompleted bool
	// SortByDue orders siblings by due date, then start date, then input order.
	SortByDue bool
	// IncludeHidden emits rows under collapsed ancestors too.
	IncludeHidden bool
}

// Row is one task in display order.
type Row struct {
	Task    domain.Task
	Depth   int
	Badge   int
	Visible bool
}

// Flatten walks the tree depth-first from the roots. Tasks whose parent is
// missing from the snapshot are treated as roots; tasks caught in a parent
// cycle are unreachable and never emitted.
func (t *Tree) Flatten(opts FlattenOptions) []Row {
	var roots []string
	for _, id := range t.order {
		task := t.tasks[id]
		if opts.ProjectID != "" && task.ProjectID != opts.ProjectID {
			continue
		}
		pid, ok := t.rel.Parent[id]
		if !ok {
			roots = append(roots, id)
			continue
		}
		if _, exists := t.tasks[pid]; !exists {
			roots = append(roots, id)
		}
	}

	rows := make([]Row, 0, len(t.order))
	var walk func(ids []string, depth int, visible bool)
	walk = func(ids []string, depth int, visible bool) {
		if opts.SortByDue {
			ids = t.sortedByDue(ids)
		}
		for _, id := range ids {
			task := t.tasks[id]
			if !opts.ShowCompleted && task.Completed {
				continue
			}
			if !visible && !opts.IncludeHidden {
				continue
			}
			rows = append(rows, Row{
				Task:    *task,
				Depth:   depth,
				Badge:   t.rel.BadgeCount(id),
				Visible: visible,
			})
			walk(t.rel.Children[id], depth+1, visible && !task.Collapsed)
		}
	}
	walk(roots, 0, true)
	return rows
}

func (t *Tree) sortedByDue(ids []string) []string {
	out := make([]string, len(ids))
	copy(out, ids)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := t.tasks[out[i]], t.tasks[out[j]]
		if !a.DueDate.Equal(b.DueDate) {
			return a.DueDate.Before(b.DueDate)
		}
		return a.StartDate.Before(b.StartDate)
	})
	return out
}
