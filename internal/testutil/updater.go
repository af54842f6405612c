package testutil

import (
	"context"
	"sync"

	"github.com/alexanderramin/gantry/internal/domain"
)

// UpdateCall is one recorded UpdateTask invocation.
type UpdateCall struct {
	TaskID string
	Patch  domain.DatePatch
}

// RecordingUpdater records every UpdateTask call and returns Err, if set.
type RecordingUpdater struct {
	Err error

	mu    sync.Mutex
	calls []UpdateCall
}

func (u *RecordingUpdater) UpdateTask(_ context.Context, taskID string, patch domain.DatePatch) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.calls = append(u.calls, UpdateCall{TaskID: taskID, Patch: patch})
	return u.Err
}

func (u *RecordingUpdater) Calls() []UpdateCall {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]UpdateCall(nil), u.calls...)
}
