package domain

import "fmt"

type ViewUnit string

const (
	ViewDay  ViewUnit = "day"
	ViewWeek ViewUnit = "week"
)

// Valid reports whether u is one of the supported grid units.
func (u ViewUnit) Valid() bool {
	return u == ViewDay || u == ViewWeek
}

// ParseViewUnit accepts "day"/"week" and the short forms "d"/"w".
func ParseViewUnit(s string) (ViewUnit, error) {
	switch s {
	case "day", "d", "days":
		return ViewDay, nil
	case "week", "w", "weeks":
		return ViewWeek, nil
	}
	return "", fmt.Errorf("invalid view unit %q (expected day or week)", s)
}

type TaskStatus string

const (
	TaskNotStarted TaskStatus = "not_started"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
	TaskOverdue    TaskStatus = "overdue"
)

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ValidThemes is the canonical set of accepted theme strings.
var ValidThemes = map[string]bool{
	"light": true, "dark": true,
}
