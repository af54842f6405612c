package hierarchy

import (
	"errors"
	"fmt"
)

var (
	ErrCycle         = errors.New("parent cycle")
	ErrLevelMismatch = errors.New("level does not follow parent")
	ErrMissingParent = errors.New("parent not in snapshot")
	ErrUnknownTask   = errors.New("task not in snapshot")
)

// Check reports structural problems in the snapshot: tasks whose parent chain
// loops, tasks whose level is not parent.Level+1 (or 0 for roots), and tasks
// that reference a parent the snapshot does not contain.
func (t *Tree) Check() []error {
	var errs []error
	for _, id := range t.order {
		task := t.tasks[id]
		if !task.HasParent() {
			if task.Level != 0 {
				errs = append(errs, fmt.Errorf("task %s: root at level %d: %w", id, task.Level, ErrLevelMismatch))
			}
			continue
		}
		parent, ok := t.tasks[*task.ParentID]
		if !ok {
			errs = append(errs, fmt.Errorf("task %s: parent %s: %w", id, *task.ParentID, ErrMissingParent))
			continue
		}
		if t.inCycle(id) {
			errs = append(errs, fmt.Errorf("task %s: %w", id, ErrCycle))
			continue
		}
		if task.Level != parent.Level+1 {
			errs = append(errs, fmt.Errorf("task %s: level %d under parent level %d: %w", id, task.Level, parent.Level, ErrLevelMismatch))
		}
	}
	return errs
}

func (t *Tree) inCycle(id string) bool {
	seen := map[string]bool{}
	cur := id
	for {
		if seen[cur] {
			return true
		}
		seen[cur] = true
		p, ok := t.rel.Parent[cur]
		if !ok {
			return false
		}
		if _, exists := t.tasks[p]; !exists {
			return false
		}
		cur = p
	}
}
