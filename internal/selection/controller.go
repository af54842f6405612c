package selection

import (
	"errors"
	"log/slog"
	"sort"
)

// DefaultThreshold is the vertical travel that turns a row press into a band.
const DefaultThreshold = 10

var ErrNoRow = errors.New("no row under pointer")

type Modifiers struct {
	Ctrl  bool
	Meta  bool
	Shift bool
}

// Toggle reports whether the modifiers request toggle semantics.
func (m Modifiers) Toggle() bool {
	return m.Ctrl || m.Meta
}

type State int

const (
	StateIdle State = iota
	StateArmed
	StateDragging
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateArmed:
		return "armed"
	case StateDragging:
		return "dragging"
	}
	return "unknown"
}

// RangeResolver returns the ids between anchor and target, inclusive, in the
// order the caller displays them.
type RangeResolver func(anchor, target string) []string

type Option func(*Controller)

func WithThreshold(px int) Option {
	return func(c *Controller) {
		if px > 0 {
			c.threshold = px
		}
	}
}

func WithRangeResolver(fn RangeResolver) Option {
	return func(c *Controller) {
		c.resolve = fn
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// Controller owns the selected set and the band gesture.
type Controller struct {
	reg       *Registry
	threshold int
	resolve   RangeResolver
	logger    *slog.Logger

	selected map[string]struct{}
	anchor   string

	state    State
	startY   int
	startRow string
	mods     Modifiers
	preview  []string
}

func NewController(reg *Registry, opts ...Option) *Controller {
	c := &Controller{
		reg:       reg,
		threshold: DefaultThreshold,
		logger:    slog.New(slog.DiscardHandler),
		selected:  make(map[string]struct{}),
	}
	c.resolve = reg.Between
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) State() State {
	return c.state
}

func (c *Controller) Anchor() string {
	return c.anchor
}

// Click applies a single-row click: plain replaces the selection, ctrl/meta
// toggles one row, shift selects the range from the anchor.
func (c *Controller) Click(id string, mods Modifiers) {
	switch {
	case mods.Shift && c.anchor != "":
		ids := c.resolve(c.anchor, id)
		if len(ids) == 0 {
			ids = []string{id}
		}
		c.replace(ids)
	case mods.Toggle():
		if _, ok := c.selected[id]; ok {
			delete(c.selected, id)
			if len(c.selected) == 0 {
				c.anchor = ""
			}
		} else {
			c.selected[id] = struct{}{}
			c.anchor = id
		}
	default:
		c.replace([]string{id})
		c.anchor = id
	}
	c.logger.Debug("selection_click", "task_id", id, "shift", mods.Shift, "toggle", mods.Toggle(), "count", len(c.selected))
}

// PointerDown arms a band gesture on the row under y.
func (c *Controller) PointerDown(y int, mods Modifiers) error {
	row, ok := c.reg.HitTest(y)
	if !ok {
		return ErrNoRow
	}
	c.state = StateArmed
	c.startY = y
	c.startRow = row
	c.mods = mods
	c.preview = nil
	return nil
}

// PointerMove recomputes the band once the pointer has travelled past the
// threshold.
func (c *Controller) PointerMove(y int) {
	switch c.state {
	case StateArmed:
		if abs(y-c.startY) <= c.threshold {
			return
		}
		c.state = StateDragging
	case StateDragging:
	default:
		return
	}
	c.preview = c.reg.RowsInBand(c.startY, y)
}

// PointerUp ends the gesture. A press that never became a band is a click
// on the row it started on.
func (c *Controller) PointerUp() {
	switch c.state {
	case StateArmed:
		row, mods := c.startRow, c.mods
		c.endGesture()
		c.Click(row, mods)
	case StateDragging:
		if c.mods.Toggle() {
			for _, id := range c.preview {
				c.selected[id] = struct{}{}
			}
		} else {
			c.replace(c.preview)
		}
		if len(c.selected) > 0 {
			c.anchor = c.startRow
		} else {
			c.anchor = ""
		}
		c.logger.Debug("selection_band", "count", len(c.preview), "additive", c.mods.Toggle())
		c.endGesture()
	}
}

// CancelDrag abandons a band gesture and keeps the committed selection.
func (c *Controller) CancelDrag() {
	c.endGesture()
}

// Clear empties the selection from any state.
func (c *Controller) Clear() {
	c.endGesture()
	c.selected = make(map[string]struct{})
	c.anchor = ""
}

// SelectAll selects ids, or every registered row when ids is empty.
func (c *Controller) SelectAll(ids ...string) {
	if len(ids) == 0 {
		ids = c.reg.Ordered()
	}
	c.replace(ids)
	if len(ids) > 0 {
		c.anchor = ids[0]
	}
}

func (c *Controller) Deselect(id string) {
	delete(c.selected, id)
	if c.anchor == id {
		c.anchor = ""
	}
}

// Prune drops selected ids that keep reports false, e.g. after a reload.
func (c *Controller) Prune(keep func(id string) bool) {
	for id := range c.selected {
		if !keep(id) {
			delete(c.selected, id)
		}
	}
	if c.anchor != "" && !keep(c.anchor) {
		c.anchor = ""
	}
}

func (c *Controller) IsSelected(id string) bool {
	_, ok := c.selected[id]
	return ok
}

// Selected returns the selection in visual order; ids without a registered
// row follow, sorted.
func (c *Controller) Selected() []string {
	out := make([]string, 0, len(c.selected))
	seen := make(map[string]bool, len(c.selected))
	for _, id := range c.reg.Ordered() {
		if _, ok := c.selected[id]; ok {
			out = append(out, id)
			seen[id] = true
		}
	}
	var rest []string
	for id := range c.selected {
		if !seen[id] {
			rest = append(rest, id)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}

func (c *Controller) Count() int {
	return len(c.selected)
}

// PreviewIDs is the band's current row set while dragging.
func (c *Controller) PreviewIDs() []string {
	if c.state != StateDragging {
		return nil
	}
	return append([]string(nil), c.preview...)
}

// InPreview reports whether id is inside the current band.
func (c *Controller) InPreview(id string) bool {
	if c.state != StateDragging {
		return false
	}
	for _, p := range c.preview {
		if p == id {
			return true
		}
	}
	return false
}

// Band returns the band's vertical extent while dragging.
func (c *Controller) Band() (startY int, ok bool) {
	return c.startY, c.state == StateDragging
}

func (c *Controller) replace(ids []string) {
	c.selected = make(map[string]struct{}, len(ids))
	for _, id := range ids {
		c.selected[id] = struct{}{}
	}
}

func (c *Controller) endGesture() {
	c.state = StateIdle
	c.startY = 0
	c.startRow = ""
	c.mods = Modifiers{}
	c.preview = nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
