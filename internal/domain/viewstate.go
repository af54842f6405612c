package domain

const (
	MinZoom     = 10
	MaxZoom     = 200
	DefaultZoom = 100
	ZoomStep    = 10
)

// TimelineViewState is the per-view presentation state the engine reads.
type TimelineViewState struct {
	ZoomLevel  int
	ViewUnit   ViewUnit
	ScrollLeft int
	Theme      Theme
}

func NewViewState() TimelineViewState {
	return TimelineViewState{
		ZoomLevel: DefaultZoom,
		ViewUnit:  ViewDay,
		Theme:     ThemeLight,
	}
}

// ClampZoom bounds z to [MinZoom, MaxZoom].
func ClampZoom(z int) int {
	if z < MinZoom {
		return MinZoom
	}
	if z > MaxZoom {
		return MaxZoom
	}
	return z
}

// ZoomRatio is the zoom level as a multiplier of the 100% layout.
func (v *TimelineViewState) ZoomRatio() float64 {
	return float64(ClampZoom(v.ZoomLevel)) / 100
}

func (v *TimelineViewState) SetZoom(z int) {
	v.ZoomLevel = ClampZoom(z)
}

func (v *TimelineViewState) ZoomIn() {
	v.SetZoom(v.ZoomLevel + ZoomStep)
}

func (v *TimelineViewState) ZoomOut() {
	v.SetZoom(v.ZoomLevel - ZoomStep)
}

func (v *TimelineViewState) ResetZoom() {
	v.ZoomLevel = DefaultZoom
}

// SetScrollLeft sets the horizontal scroll offset; negative values clamp to 0.
func (v *TimelineViewState) SetScrollLeft(x int) {
	if x < 0 {
		x = 0
	}
	v.ScrollLeft = x
}

func (v *TimelineViewState) ScrollBy(dx int) {
	v.SetScrollLeft(v.ScrollLeft + dx)
}

// SetViewUnit switches the grid unit. Unknown units are ignored.
func (v *TimelineViewState) SetViewUnit(u ViewUnit) bool {
	if !u.Valid() {
		return false
	}
	v.ViewUnit = u
	return true
}
