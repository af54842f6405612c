package drag

import (
	"log/slog"
	"time"

	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/alexanderramin/gantry/internal/geometry"
)

type State int

const (
	StateIdle State = iota
	StateArmed
	StateActive
	StateCommitting
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateArmed:
		return "armed"
	case StateActive:
		return "active"
	case StateCommitting:
		return "committing"
	}
	return "unknown"
}

type Config struct {
	HandleWidth int
	Threshold   int
	Rules       Rules
	CellWidth   int
	Unit        domain.ViewUnit
	Today       func() time.Time
	Logger      *slog.Logger
}

func (c Config) withDefaults() Config {
	if c.HandleWidth <= 0 {
		c.HandleWidth = DefaultHandleWidth
	}
	if c.Threshold <= 0 {
		c.Threshold = DefaultThreshold
	}
	if !c.Unit.Valid() {
		c.Unit = domain.ViewDay
	}
	if c.CellWidth <= 0 {
		c.CellWidth = geometry.ComputeCellMetrics(domain.DefaultZoom, c.Unit).CellWidth
	}
	if c.Today == nil {
		c.Today = func() time.Time { return time.Now() }
	}
	if c.Logger == nil {
		c.Logger = slog.New(slog.DiscardHandler)
	}
	return c
}

type ReleaseKind int

const (
	// ReleaseClick: the pointer never passed the threshold. The caller
	// treats the gesture as a click on the task row.
	ReleaseClick ReleaseKind = iota + 1
	ReleaseNoChange
	ReleaseBlocked
	ReleaseCommit
)

func (k ReleaseKind) String() string {
	switch k {
	case ReleaseClick:
		return "click"
	case ReleaseNoChange:
		return "no_change"
	case ReleaseBlocked:
		return "blocked"
	case ReleaseCommit:
		return "commit"
	}
	return "unknown"
}

// Release is the outcome of pointer-up.
type Release struct {
	Kind       ReleaseKind
	TaskID     string
	Commit     *CommitRequest
	Validation Validation
}

// Preview is what the rendering surface draws while a drag is in progress.
type Preview struct {
	TaskID   string
	Mode     Mode
	Original Dates
	Dates    Dates
	Warnings []Violation
	// Rejected holds the errors of the most recent move that was refused;
	// Dates stays at the last valid proposal.
	Rejected []Violation
}

// Controller runs one reschedule gesture at a time:
// Idle -> Armed -> Active -> Committing -> Idle.
type Controller struct {
	cfg    Config
	logger *slog.Logger

	state    State
	task     domain.Task
	original Dates
	startX   int
	offsetX  int
	barWidth int
	mode     Mode
	preview  Dates
	warnings []Violation
	rejected []Violation
	pending  string
}

func NewController(cfg Config) *Controller {
	cfg = cfg.withDefaults()
	return &Controller{cfg: cfg, logger: cfg.Logger}
}

func (c *Controller) State() State {
	return c.state
}

// SetGrid follows zoom and view-unit changes.
func (c *Controller) SetGrid(cellWidth int, unit domain.ViewUnit) {
	if cellWidth > 0 {
		c.cfg.CellWidth = cellWidth
	}
	if unit.Valid() {
		c.cfg.Unit = unit
	}
}

func (c *Controller) SetRules(r Rules) {
	c.cfg.Rules = r
}

func (c *Controller) Rules() Rules {
	return c.cfg.Rules
}

func (c *Controller) HandleWidth() int {
	return c.cfg.HandleWidth
}

// PointerDown arms a reschedule of task. x is the pointer position; offsetX is
// its distance from the bar's left edge and barWidth the bar's rendered width.
func (c *Controller) PointerDown(task domain.Task, x, offsetX, barWidth int) error {
	if c.state != StateIdle {
		return ErrBusy
	}
	c.state = StateArmed
	c.task = task
	c.original = datesOf(task)
	c.preview = c.original
	c.startX = x
	c.offsetX = offsetX
	c.barWidth = barWidth
	c.mode = ""
	c.warnings = nil
	c.rejected = nil
	return nil
}

// PointerMove updates the gesture. While armed it only watches the
// threshold. While active it recomputes the proposal; a proposal that fails
// an enabled rule leaves the preview at the last valid dates and its
// validation is returned.
func (c *Controller) PointerMove(x int) (Validation, error) {
	switch c.state {
	case StateArmed:
		if abs(x-c.startX) <= c.cfg.Threshold {
			return Validation{}, nil
		}
		c.state = StateActive
		c.mode = DetectMode(c.offsetX, c.barWidth, c.cfg.HandleWidth)
		c.logger.Debug("reschedule_started", "task_id", c.task.ID, "mode", string(c.mode))
	case StateActive:
	default:
		return Validation{}, ErrNoSession
	}

	days := geometry.DayDelta(x-c.startX, c.cfg.CellWidth, c.cfg.Unit)
	proposed := ProposeDates(c.original, c.mode, days, c.cfg.Unit)
	v := Validate(c.original, proposed, c.cfg.Today(), c.cfg.Rules)
	if !v.OK() {
		c.rejected = v.Errors
		c.logger.Debug("reschedule_preview_rejected",
			"task_id", c.task.ID,
			"error", v.Err(c.task.ID).Error(),
		)
		return v, nil
	}
	c.preview = proposed
	c.warnings = v.Warnings
	c.rejected = nil
	return v, nil
}

// PointerUp ends the gesture. A commit leaves the controller in Committing
// until Finish is called with the updater's result.
func (c *Controller) PointerUp() (Release, error) {
	switch c.state {
	case StateArmed:
		id := c.task.ID
		c.reset()
		return Release{Kind: ReleaseClick, TaskID: id}, nil
	case StateActive:
	default:
		return Release{}, ErrNoSession
	}

	id := c.task.ID
	v := Validate(c.original, c.preview, c.cfg.Today(), c.cfg.Rules)
	if !v.OK() {
		c.logger.Info("reschedule_blocked", "task_id", id, "error", v.Err(id).Error())
		c.reset()
		return Release{Kind: ReleaseBlocked, TaskID: id, Validation: v}, nil
	}
	if c.preview.Equal(c.original) {
		c.reset()
		return Release{Kind: ReleaseNoChange, TaskID: id, Validation: v}, nil
	}

	req := &CommitRequest{
		TaskID:   id,
		Mode:     c.mode,
		Original: c.original,
		Proposed: c.preview,
		Warnings: v.Warnings,
	}
	c.reset()
	c.state = StateCommitting
	c.pending = id
	return Release{Kind: ReleaseCommit, TaskID: id, Commit: req, Validation: v}, nil
}

// Finish records the updater's result. Failures are logged once; the
// controller never retries and never reverts the caller's optimistic state.
func (c *Controller) Finish(err error) {
	id := c.pending
	if c.state == StateCommitting {
		c.state = StateIdle
		c.pending = ""
	}
	if err != nil {
		c.logger.Error("reschedule_commit_failed", "task_id", id, "error", err.Error())
		return
	}
	c.logger.Info("reschedule_committed", "task_id", id)
}

// Cancel discards any gesture, from any state, without committing.
func (c *Controller) Cancel() bool {
	if c.state == StateIdle {
		return false
	}
	c.logger.Debug("reschedule_cancelled", "task_id", c.task.ID, "state", c.state.String())
	c.reset()
	c.pending = ""
	return true
}

// Preview returns the in-flight proposal while armed or active.
func (c *Controller) Preview() (Preview, bool) {
	if c.state != StateArmed && c.state != StateActive {
		return Preview{}, false
	}
	return Preview{
		TaskID:   c.task.ID,
		Mode:     c.mode,
		Original: c.original,
		Dates:    c.preview,
		Warnings: append([]Violation(nil), c.warnings...),
		Rejected: append([]Violation(nil), c.rejected...),
	}, true
}

func (c *Controller) reset() {
	c.state = StateIdle
	c.task = domain.Task{}
	c.original = Dates{}
	c.preview = Dates{}
	c.mode = ""
	c.warnings = nil
	c.rejected = nil
	c.startX, c.offsetX, c.barWidth = 0, 0, 0
}
