package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/alexanderramin/gantry/internal/timeline"
)

var errNoTimeline = errors.New("timeline service is not configured")

// loadView reads the stored snapshot into a fresh timeline view configured
// from app.Config.
func loadView(ctx context.Context, app *App) (*timeline.View, error) {
	if app.Timeline == nil {
		return nil, errNoTimeline
	}
	snap, err := app.Timeline.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading timeline: %w", err)
	}
	cfg := app.Config
	v := timeline.New(timeline.Options{
		Today:         app.Now,
		State:         cfg.ViewState(),
		Rules:         cfg.Rules(),
		HandleWidth:   cfg.Drag.HandleWidth,
		DragThreshold: cfg.Drag.Threshold,
		ShowCompleted: cfg.ShowCompleted,
		SortByDue:     cfg.SortByDue,
		Logger:        app.Logger,
	})
	v.Load(snap.Projects, snap.Tasks)
	return v, nil
}

// resolveTaskID matches input against task IDs, then unique ID prefixes,
// then task names (case-insensitive).
func resolveTaskID(v *timeline.View, input string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("task ID is required")
	}
	tasks := v.Tasks()
	ids := make([]string, len(tasks))
	names := make([]string, len(tasks))
	for i, t := range tasks {
		ids[i], names[i] = t.ID, t.Name
	}
	id, err := resolve(ids, names, input)
	if err != nil {
		return "", fmt.Errorf("task %w", err)
	}
	return id, nil
}

func resolveProjectID(v *timeline.View, input string) (string, error) {
	projects := v.Projects()
	ids := make([]string, len(projects))
	names := make([]string, len(projects))
	for i, p := range projects {
		ids[i], names[i] = p.ID, p.Name
	}
	id, err := resolve(ids, names, input)
	if err != nil {
		return "", fmt.Errorf("project %w", err)
	}
	return id, nil
}

func resolve(ids, names []string, input string) (string, error) {
	// 1. Exact ID match
	for _, id := range ids {
		if id == input {
			return id, nil
		}
	}

	// 2. ID prefix match
	var matches []string
	for _, id := range ids {
		if strings.HasPrefix(id, input) {
			matches = append(matches, id)
		}
	}

	// 3. Name match (case-insensitive)
	if len(matches) == 0 {
		for i, name := range names {
			if strings.EqualFold(name, input) {
				matches = append(matches, ids[i])
			}
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%q is ambiguous (%d matches)", input, len(matches))
	}
}

// findRow returns the laid-out row for a task or project id.
func findRow(v *timeline.View, id string) (timeline.Row, bool) {
	for _, r := range v.Rows() {
		if r.ID == id {
			return r, true
		}
	}
	return timeline.Row{}, false
}

func shortID(id string) string {
	p := domain.Project{ID: id}
	return p.DisplayID()
}
