package domain

import "time"

// Task is one schedulable bar in the timeline. Start and due dates are
// civil dates; ParentID is nil for root tasks and Level is 0 for roots and
// parent.Level+1 otherwise.
type Task struct {
	ID         string
	ProjectID  string
	ParentID   *string
	Name       string
	Level      int
	StartDate  time.Time
	DueDate    time.Time
	Collapsed  bool
	Completed  bool
	Milestone  bool
	OrderIndex int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// DatePatch is the partial update emitted by a committed reschedule or shift.
type DatePatch struct {
	StartDate time.Time
	DueDate   time.Time
}

// HasParent reports whether the task is nested under another task.
func (t *Task) HasParent() bool {
	return t.ParentID != nil && *t.ParentID != ""
}

// ParentRef returns the parent id or "" for roots.
func (t *Task) ParentRef() string {
	if t.ParentID == nil {
		return ""
	}
	return *t.ParentID
}

// DurationDays is the inclusive-exclusive span between start and due.
func (t *Task) DurationDays() int {
	return DaysBetween(t.StartDate, t.DueDate)
}

// Status derives the display status relative to today.
func (t *Task) Status(today time.Time) TaskStatus {
	today = CivilDate(today)
	switch {
	case t.Completed:
		return TaskCompleted
	case CivilDate(t.DueDate).Before(today):
		return TaskOverdue
	case !CivilDate(t.StartDate).After(today):
		return TaskInProgress
	default:
		return TaskNotStarted
	}
}

// Apply copies the patch dates onto the task.
func (t *Task) Apply(p DatePatch, now time.Time) {
	t.StartDate = CivilDate(p.StartDate)
	t.DueDate = CivilDate(p.DueDate)
	t.UpdatedAt = now
}

// DateChange pairs a task id with the dates it should take.
type DateChange struct {
	TaskID string
	Patch  DatePatch
}
