// Package interaction arbitrates between the reschedule and selection
// gestures so that at most one pointer session exists at a time.
package interaction

import (
	"errors"
	"log/slog"

	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/alexanderramin/gantry/internal/drag"
	"github.com/alexanderramin/gantry/internal/selection"
)

var ErrSessionActive = errors.New("another pointer session is active")

// ListenerHost attaches the global pointer-move/pointer-up listeners a
// session needs while the pointer is captured. The returned function
// detaches them.
type ListenerHost interface {
	AttachGlobal() (dispose func())
}

// ListenerHostFunc adapts a function to ListenerHost.
type ListenerHostFunc func() func()

func (f ListenerHostFunc) AttachGlobal() func() {
	return f()
}

type noopHost struct{}

func (noopHost) AttachGlobal() func() { return func() {} }

type TargetKind int

const (
	TargetNone TargetKind = iota
	TargetBar
	TargetRow
)

// Target describes what lies under the pointer at pointer-down.
type Target struct {
	Kind     TargetKind
	Task     domain.Task
	OffsetX  int
	BarWidth int
}

type Kind int

const (
	KindIdle Kind = iota
	KindArmedReschedule
	KindActiveReschedule
	KindArmedSelection
	KindActiveSelection
)

func (k Kind) String() string {
	switch k {
	case KindIdle:
		return "idle"
	case KindArmedReschedule:
		return "armed_reschedule"
	case KindActiveReschedule:
		return "active_reschedule"
	case KindArmedSelection:
		return "armed_selection"
	case KindActiveSelection:
		return "active_selection"
	}
	return "unknown"
}

// Session is the current pointer session. Its concrete type is one of
// Idle, Reschedule or Selection.
type Session interface {
	Kind() Kind
	session()
}

type Idle struct{}

func (Idle) Kind() Kind {
	return KindIdle
}

func (Idle) session() {}

type Reschedule struct {
	TaskID  string
	Active  bool
	mods    selection.Modifiers
	dispose func()
}

func (r *Reschedule) Kind() Kind {
	if r.Active {
		return KindActiveReschedule
	}
	return KindArmedReschedule
}

func (*Reschedule) session() {}

type Selection struct {
	Active  bool
	dispose func()
}

func (s *Selection) Kind() Kind {
	if s.Active {
		return KindActiveSelection
	}
	return KindArmedSelection
}

func (*Selection) session() {}

// Outcome reports what pointer-up produced.
type Outcome struct {
	// Release is set when a reschedule session ended.
	Release *drag.Release
	// Clicked is the task id when a press on a bar ended as a row click.
	Clicked string
	// SelectionChanged is set when a selection session ended.
	SelectionChanged bool
}

type Option func(*Arbiter)

func WithListenerHost(h ListenerHost) Option {
	return func(a *Arbiter) {
		if h != nil {
			a.host = h
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(a *Arbiter) {
		if l != nil {
			a.logger = l
		}
	}
}

type Arbiter struct {
	drag   *drag.Controller
	sel    *selection.Controller
	host   ListenerHost
	logger *slog.Logger
	cur    Session
}

func NewArbiter(d *drag.Controller, s *selection.Controller, opts ...Option) *Arbiter {
	a := &Arbiter{
		drag:   d,
		sel:    s,
		host:   noopHost{},
		logger: slog.New(slog.DiscardHandler),
		cur:    Idle{},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Arbiter) Current() Session {
	return a.cur
}

// PointerDown opens a session for the target. A press on a bar arms a
// reschedule and suppresses selection; a press on a row background arms a
// selection. Anything else is ignored.
func (a *Arbiter) PointerDown(t Target, x, y int, mods selection.Modifiers) error {
	if a.cur.Kind() != KindIdle {
		return ErrSessionActive
	}
	switch t.Kind {
	case TargetBar:
		if err := a.drag.PointerDown(t.Task, x, t.OffsetX, t.BarWidth); err != nil {
			return err
		}
		a.cur = &Reschedule{TaskID: t.Task.ID, mods: mods, dispose: a.host.AttachGlobal()}
	case TargetRow:
		if err := a.sel.PointerDown(y, mods); err != nil {
			return err
		}
		a.cur = &Selection{dispose: a.host.AttachGlobal()}
	default:
		return nil
	}
	a.logger.Debug("pointer_session_opened", "kind", a.cur.Kind().String())
	return nil
}

// PointerMove forwards the move to the session's controller. The returned
// validation is non-empty only for reschedule sessions.
func (a *Arbiter) PointerMove(x, y int) (drag.Validation, error) {
	switch s := a.cur.(type) {
	case *Reschedule:
		v, err := a.drag.PointerMove(x)
		if err != nil {
			return v, err
		}
		s.Active = a.drag.State() == drag.StateActive
		return v, nil
	case *Selection:
		a.sel.PointerMove(y)
		s.Active = a.sel.State() == selection.StateDragging
	}
	return drag.Validation{}, nil
}

// PointerUp closes the session. Listeners are released on every path.
func (a *Arbiter) PointerUp() (Outcome, error) {
	switch s := a.cur.(type) {
	case *Reschedule:
		a.release()
		rel, err := a.drag.PointerUp()
		if err != nil {
			return Outcome{}, err
		}
		out := Outcome{Release: &rel}
		if rel.Kind == drag.ReleaseClick {
			a.sel.Click(rel.TaskID, s.mods)
			out.Clicked = rel.TaskID
			out.SelectionChanged = true
		}
		return out, nil
	case *Selection:
		a.release()
		a.sel.PointerUp()
		return Outcome{SelectionChanged: true}, nil
	}
	return Outcome{}, nil
}

// Escape cancels a reschedule in progress; otherwise it clears the selection.
func (a *Arbiter) Escape() {
	if _, ok := a.cur.(*Reschedule); ok {
		a.release()
		a.drag.Cancel()
		return
	}
	a.release()
	a.sel.Clear()
}

// Unmount tears down any session without changing the committed selection.
func (a *Arbiter) Unmount() {
	a.release()
	a.drag.Cancel()
	a.sel.CancelDrag()
}

func (a *Arbiter) release() {
	var dispose func()
	switch s := a.cur.(type) {
	case *Reschedule:
		dispose, s.dispose = s.dispose, nil
	case *Selection:
		dispose, s.dispose = s.dispose, nil
	}
	if dispose != nil {
		dispose()
	}
	if a.cur.Kind() != KindIdle {
		a.logger.Debug("pointer_session_closed", "kind", a.cur.Kind().String())
	}
	a.cur = Idle{}
}
