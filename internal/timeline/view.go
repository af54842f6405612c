// Package timeline composes the coordinate, hierarchy, drag and selection
// engines into one view over a project/task snapshot. All pointer
// coordinates are content coordinates: x includes the horizontal scroll
// offset and y is measured from the top of the first row.
package timeline

import (
	"log/slog"
	"time"

	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/alexanderramin/gantry/internal/drag"
	"github.com/alexanderramin/gantry/internal/geometry"
	"github.com/alexanderramin/gantry/internal/hierarchy"
	"github.com/alexanderramin/gantry/internal/interaction"
	"github.com/alexanderramin/gantry/internal/selection"
)

type Options struct {
	Today           func() time.Time
	State           domain.TimelineViewState
	Rules           drag.Rules
	HandleWidth     int
	DragThreshold   int
	SelectThreshold int
	ShowCompleted   bool
	SortByDue       bool
	Host            interaction.ListenerHost
	Logger          *slog.Logger
}

type View struct {
	opts   Options
	logger *slog.Logger

	state    domain.TimelineViewState
	today    time.Time
	metrics  geometry.CellMetrics
	rng      geometry.DateRange
	projects []domain.Project
	tree     *hierarchy.Tree

	registry *selection.Registry
	drag     *drag.Controller
	sel      *selection.Controller
	arb      *interaction.Arbiter

	rows  []Row
	dirty bool
}

func New(opts Options) *View {
	if opts.Today == nil {
		opts.Today = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	state := opts.State
	if state.ZoomLevel == 0 {
		state.ZoomLevel = domain.DefaultZoom
	}
	state.SetZoom(state.ZoomLevel)
	if !state.ViewUnit.Valid() {
		state.ViewUnit = domain.ViewDay
	}

	v := &View{
		opts:     opts,
		logger:   opts.Logger,
		state:    state,
		tree:     hierarchy.NewTree(nil),
		registry: selection.NewRegistry(),
	}
	v.drag = drag.NewController(drag.Config{
		HandleWidth: opts.HandleWidth,
		Threshold:   opts.DragThreshold,
		Rules:       opts.Rules,
		Unit:        state.ViewUnit,
		Today:       opts.Today,
		Logger:      opts.Logger,
	})
	v.sel = selection.NewController(v.registry,
		selection.WithThreshold(opts.SelectThreshold),
		selection.WithLogger(opts.Logger),
	)
	v.arb = interaction.NewArbiter(v.drag, v.sel,
		interaction.WithListenerHost(opts.Host),
		interaction.WithLogger(opts.Logger),
	)
	v.recompute()
	return v
}

// Load replaces the snapshot. Selected ids that no longer exist are dropped.
func (v *View) Load(projects []domain.Project, tasks []domain.Task) {
	v.projects = append([]domain.Project(nil), projects...)
	v.tree = hierarchy.NewTree(tasks)
	for _, err := range v.tree.Check() {
		v.logger.Warn("timeline_snapshot_issue", "error", err.Error())
	}
	v.sel.Prune(func(id string) bool {
		_, ok := v.tree.Task(id)
		return ok
	})
	v.dirty = true
}

func (v *View) State() domain.TimelineViewState {
	return v.state
}

func (v *View) Metrics() geometry.CellMetrics {
	return v.metrics
}

func (v *View) Range() geometry.DateRange {
	return v.rng
}

func (v *View) Today() time.Time {
	return v.today
}

func (v *View) Ticks() []geometry.Tick {
	return geometry.Ticks(v.rng, v.state.ViewUnit, v.metrics.CellWidth, v.today)
}

// TodayX is the x of today's cell.
func (v *View) TodayX() int {
	return geometry.DatePosition(v.today, v.rng.Start, v.metrics.CellWidth, v.state.ViewUnit)
}

// ContentWidth is the pixel width of the whole visible range.
func (v *View) ContentWidth() int {
	return v.rng.Width(v.metrics.CellWidth)
}

func (v *View) Task(id string) (domain.Task, bool) {
	return v.tree.Task(id)
}

func (v *View) Tasks() []domain.Task {
	return v.tree.Tasks()
}

func (v *View) Projects() []domain.Project {
	return append([]domain.Project(nil), v.projects...)
}

func (v *View) Tree() *hierarchy.Tree {
	return v.tree
}

func (v *View) SetZoom(z int) {
	v.state.SetZoom(z)
	v.recompute()
}

func (v *View) ZoomIn() {
	v.state.ZoomIn()
	v.recompute()
}

func (v *View) ZoomOut() {
	v.state.ZoomOut()
	v.recompute()
}

func (v *View) ResetZoom() {
	v.state.ResetZoom()
	v.recompute()
}

func (v *View) SetViewUnit(u domain.ViewUnit) bool {
	if !v.state.SetViewUnit(u) {
		return false
	}
	v.recompute()
	return true
}

func (v *View) SetScrollLeft(x int) {
	v.state.SetScrollLeft(x)
}

func (v *View) ScrollBy(dx int) {
	v.state.ScrollBy(dx)
}

// ScrollToToday places today's cell at the given fraction of a viewport
// of width px.
func (v *View) ScrollToToday(viewport int, fraction float64) {
	v.state.SetScrollLeft(v.TodayX() - int(float64(viewport)*fraction))
}

func (v *View) SetRules(r drag.Rules) {
	v.opts.Rules = r
	v.drag.SetRules(r)
}

func (v *View) SetShowCompleted(show bool) {
	v.opts.ShowCompleted = show
	v.dirty = true
}

// recompute refreshes date-dependent geometry after a zoom, unit or day change.
func (v *View) recompute() {
	v.today = domain.CivilDate(v.opts.Today())
	v.metrics = geometry.ComputeCellMetrics(v.state.ZoomLevel, v.state.ViewUnit)
	v.rng = geometry.ComputeVisibleRange(v.today, v.state.ViewUnit)
	v.drag.SetGrid(v.metrics.CellWidth, v.state.ViewUnit)
	v.dirty = true
}
