package drag

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexanderramin/gantry/internal/domain"
)

var (
	ErrBusy      = errors.New("a reschedule is already in progress")
	ErrNoSession = errors.New("no reschedule in progress")
)

// Updater persists a date change. It is the single external collaborator of
// the controller; the call happens outside the controller's state.
type Updater interface {
	UpdateTask(ctx context.Context, taskID string, patch domain.DatePatch) error
}

// UpdaterFunc adapts a function to Updater.
type UpdaterFunc func(ctx context.Context, taskID string, patch domain.DatePatch) error

func (f UpdaterFunc) UpdateTask(ctx context.Context, taskID string, patch domain.DatePatch) error {
	return f(ctx, taskID, patch)
}

// CommitRequest is the date change produced by a completed drag.
type CommitRequest struct {
	TaskID   string
	Mode     Mode
	Original Dates
	Proposed Dates
	Warnings []Violation
}

func (r CommitRequest) Patch() domain.DatePatch {
	return r.Proposed.Patch()
}

// Execute sends the patch to the updater. Failures are wrapped in *CommitError.
func (r CommitRequest) Execute(ctx context.Context, u Updater) error {
	if u == nil {
		return &CommitError{TaskID: r.TaskID, Err: errors.New("no updater configured")}
	}
	if err := u.UpdateTask(ctx, r.TaskID, r.Patch()); err != nil {
		return &CommitError{TaskID: r.TaskID, Err: err}
	}
	return nil
}

// CommitError wraps a failure returned by the updater.
type CommitError struct {
	TaskID string
	Err    error
}

func (e *CommitError) Error() string {
	return fmt.Sprintf("committing reschedule of %s: %v", e.TaskID, e.Err)
}

func (e *CommitError) Unwrap() error {
	return e.Err
}
