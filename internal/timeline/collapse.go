package timeline

import (
	"errors"
	"fmt"
)

var ErrUnknownProject = errors.New("project not in snapshot")

func (v *View) ToggleCollapse(taskID string) (bool, error) {
	collapsed, err := v.tree.ToggleCollapse(taskID)
	if err != nil {
		return false, err
	}
	v.dirty = true
	return collapsed, nil
}

// ToggleProject collapses or expands a whole project group.
func (v *View) ToggleProject(projectID string) (bool, error) {
	for i := range v.projects {
		if v.projects[i].ID == projectID {
			v.projects[i].Collapsed = !v.projects[i].Collapsed
			v.dirty = true
			return v.projects[i].Collapsed, nil
		}
	}
	return false, fmt.Errorf("project %s: %w", projectID, ErrUnknownProject)
}

func (v *View) ExpandAll() []string {
	v.dirty = true
	return v.tree.ExpandAll()
}

func (v *View) CollapseAll() []string {
	v.dirty = true
	return v.tree.CollapseAll()
}
