// Package selection tracks which task rows are selected and runs the
// click / ctrl-click / shift-click / drag-band gestures that change it.
package selection

import (
	"math"
	"sort"
)

// Rect is a row's current vertical extent in content coordinates.
type Rect struct {
	Top    int
	Height int
}

func (r Rect) Bottom() int {
	return r.Top + r.Height
}

// CenterY is the vertical middle of the row.
func (r Rect) CenterY() float64 {
	return float64(r.Top) + float64(r.Height)/2
}

func (r Rect) contains(y int) bool {
	return y >= r.Top && y < r.Bottom()
}

// Registry maps row ids to their current geometry. The rendering surface
// registers every task row it lays out; hit tests and bands read positions
// from here, never from data order.
type Registry struct {
	rows map[string]Rect
}

func NewRegistry() *Registry {
	return &Registry{rows: make(map[string]Rect)}
}

func (r *Registry) Register(id string, rect Rect) {
	r.rows[id] = rect
}

func (r *Registry) Unregister(id string) {
	delete(r.rows, id)
}

// Reset drops every row, typically before a fresh layout pass.
func (r *Registry) Reset() {
	r.rows = make(map[string]Rect)
}

func (r *Registry) Len() int {
	return len(r.rows)
}

func (r *Registry) Rect(id string) (Rect, bool) {
	rect, ok := r.rows[id]
	return rect, ok
}

// HitTest returns the row containing y. When y falls between or outside
// rows, the row whose center is closest wins.
func (r *Registry) HitTest(y int) (string, bool) {
	if len(r.rows) == 0 {
		return "", false
	}
	best := ""
	bestDist := math.Inf(1)
	for _, id := range r.Ordered() {
		rect := r.rows[id]
		if rect.contains(y) {
			return id, true
		}
		if d := math.Abs(rect.CenterY() - float64(y)); d < bestDist {
			best, bestDist = id, d
		}
	}
	return best, true
}

// RowsInBand returns the rows whose center lies in [minY, maxY], in visual order.
func (r *Registry) RowsInBand(minY, maxY int) []string {
	if minY > maxY {
		minY, maxY = maxY, minY
	}
	var out []string
	for _, id := range r.Ordered() {
		c := r.rows[id].CenterY()
		if c >= float64(minY) && c <= float64(maxY) {
			out = append(out, id)
		}
	}
	return out
}

// Ordered lists row ids top to bottom.
func (r *Registry) Ordered() []string {
	ids := make([]string, 0, len(r.rows))
	for id := range r.rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := r.rows[ids[i]], r.rows[ids[j]]
		if a.Top != b.Top {
			return a.Top < b.Top
		}
		return ids[i] < ids[j]
	})
	return ids
}

// Between returns the rows from a to b inclusive in visual order, in
// either direction. Unknown ids yield nil.
func (r *Registry) Between(a, b string) []string {
	ordered := r.Ordered()
	ia, ib := -1, -1
	for i, id := range ordered {
		if id == a {
			ia = i
		}
		if id == b {
			ib = i
		}
	}
	if ia < 0 || ib < 0 {
		return nil
	}
	if ia > ib {
		ia, ib = ib, ia
	}
	return append([]string(nil), ordered[ia:ib+1]...)
}
