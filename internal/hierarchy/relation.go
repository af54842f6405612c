// Package hierarchy builds parent/child relations over a flat task snapshot
// and answers visibility, indentation and collapse questions about it.
package hierarchy

import (
	"math"

	"github.com/alexanderramin/gantry/internal/domain"
)

// RelationMap holds both directions of the parent relation. Children lists
// keep the order in which tasks appeared in the input.
type RelationMap struct {
	Children map[string][]string
	Parent   map[string]string
}

// BuildRelationMap indexes tasks in a single pass.
func BuildRelationMap(tasks []domain.Task) RelationMap {
	m := RelationMap{
		Children: make(map[string][]string),
		Parent:   make(map[string]string),
	}
	for i := range tasks {
		t := &tasks[i]
		if !t.HasParent() {
			continue
		}
		pid := *t.ParentID
		m.Parent[t.ID] = pid
		m.Children[pid] = append(m.Children[pid], t.ID)
	}
	return m
}

// ChildrenOf returns the direct children of id. The slice must not be modified.
func (m RelationMap) ChildrenOf(id string) []string {
	return m.Children[id]
}

// BadgeCount is the number of direct children shown on a parent's badge.
func (m RelationMap) BadgeCount(id string) int {
	return len(m.Children[id])
}

// Ancestors walks the parent chain from id's parent up to the root. The walk
// stops at the first repeated id so a cyclic snapshot cannot loop forever.
func (m RelationMap) Ancestors(id string) []string {
	var out []string
	seen := map[string]bool{id: true}
	cur, ok := m.Parent[id]
	for ok {
		if seen[cur] {
			break
		}
		seen[cur] = true
		out = append(out, cur)
		cur, ok = m.Parent[cur]
	}
	return out
}

// Lookup resolves a task id against the caller's snapshot.
type Lookup func(id string) (domain.Task, bool)

// IsVisible reports whether no ancestor of the task is collapsed. Ancestors
// missing from the snapshot end the walk.
func IsVisible(taskID string, lookup Lookup, m RelationMap) bool {
	for _, aid := range m.Ancestors(taskID) {
		a, ok := lookup(aid)
		if !ok {
			return true
		}
		if a.Collapsed {
			return false
		}
	}
	return true
}

const (
	baseIndentStep = 32
	minIndentStep  = 20
)

// Indent is the horizontal inset of a row at the given level.
func Indent(level int, zoomRatio float64) int {
	if level <= 0 {
		return 0
	}
	step := int(math.Round(baseIndentStep * zoomRatio))
	if step < minIndentStep {
		step = minIndentStep
	}
	return level * step
}
