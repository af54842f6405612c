package selection

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// five rows of height 40 centered at 100, 140, 180, 220, 260
func fiveRows() *Registry {
	reg := NewRegistry()
	for i, id := range []string{"r1", "r2", "r3", "r4", "r5"} {
		reg.Register(id, Rect{Top: 80 + i*40, Height: 40})
	}
	return reg
}

func TestRegistry_HitTest(t *testing.T) {
	reg := fiveRows()
	id, ok := reg.HitTest(81)
	require.True(t, ok)
	assert.Equal(t, "r1", id)

	id, _ = reg.HitTest(199)
	assert.Equal(t, "r3", id)

	id, _ = reg.HitTest(10)
	assert.Equal(t, "r1", id, "above all rows: closest center")

	id, _ = reg.HitTest(900)
	assert.Equal(t, "r5", id)

	_, ok = NewRegistry().HitTest(10)
	assert.False(t, ok)
}

func TestRegistry_HitTestGap(t *testing.T) {
	reg := NewRegistry()
	reg.Register("a", Rect{Top: 0, Height: 20})
	reg.Register("b", Rect{Top: 100, Height: 20})
	id, _ := reg.HitTest(45)
	assert.Equal(t, "a", id)
	id, _ = reg.HitTest(80)
	assert.Equal(t, "b", id)
}

func TestRegistry_OrderFollowsPositionNotInsertion(t *testing.T) {
	reg := NewRegistry()
	reg.Register("late", Rect{Top: 200, Height: 40})
	reg.Register("early", Rect{Top: 0, Height: 40})
	reg.Register("mid", Rect{Top: 100, Height: 40})
	assert.Equal(t, []string{"early", "mid", "late"}, reg.Ordered())
	assert.Equal(t, []string{"early", "mid", "late"}, reg.Between("late", "early"))
	assert.Nil(t, reg.Between("late", "nope"))

	reg.Register("late", Rect{Top: -50, Height: 40})
	assert.Equal(t, []string{"late", "early", "mid"}, reg.Ordered(), "re-registration moves the row")
	reg.Unregister("mid")
	assert.Equal(t, 2, reg.Len())
}

func TestBand_RangeSelection(t *testing.T) {
	reg := fiveRows()
	c := NewController(reg)

	require.NoError(t, c.PointerDown(100, Modifiers{}))
	c.PointerMove(230)
	assert.Equal(t, StateDragging, c.State())
	assert.Equal(t, []string{"r1", "r2", "r3", "r4"}, c.PreviewIDs())
	assert.True(t, c.InPreview("r4"))
	assert.False(t, c.InPreview("r5"))

	c.PointerUp()
	assert.Equal(t, StateIdle, c.State())
	assert.Equal(t, []string{"r1", "r2", "r3", "r4"}, c.Selected())
	assert.Equal(t, "r1", c.Anchor())
	assert.Nil(t, c.PreviewIDs())
}

func TestBand_UpwardDrag(t *testing.T) {
	c := NewController(fiveRows())
	require.NoError(t, c.PointerDown(262, Modifiers{}))
	c.PointerMove(170)
	c.PointerUp()
	assert.Equal(t, []string{"r3", "r4", "r5"}, c.Selected())
}

func TestBand_SubThresholdIsClick(t *testing.T) {
	c := NewController(fiveRows())
	c.Click("r1", Modifiers{})
	c.Click("r2", Modifiers{Ctrl: true})

	require.NoError(t, c.PointerDown(183, Modifiers{}))
	c.PointerMove(193)
	assert.Equal(t, StateArmed, c.State(), "10px is not past the threshold")
	c.PointerUp()
	assert.Equal(t, []string{"r3"}, c.Selected())
	assert.Equal(t, "r3", c.Anchor())
}

func TestBand_CtrlDragAddsToSelection(t *testing.T) {
	c := NewController(fiveRows())
	c.Click("r5", Modifiers{})
	require.NoError(t, c.PointerDown(100, Modifiers{Ctrl: true}))
	c.PointerMove(150)
	c.PointerUp()
	assert.Equal(t, []string{"r1", "r2", "r5"}, c.Selected())
}

func TestBand_CancelKeepsSelection(t *testing.T) {
	c := NewController(fiveRows())
	c.Click("r5", Modifiers{})
	require.NoError(t, c.PointerDown(100, Modifiers{}))
	c.PointerMove(230)
	c.CancelDrag()
	assert.Equal(t, StateIdle, c.State())
	assert.Equal(t, []string{"r5"}, c.Selected())
}

func TestClick_Modes(t *testing.T) {
	c := NewController(fiveRows())

	c.Click("r2", Modifiers{})
	assert.Equal(t, []string{"r2"}, c.Selected())

	c.Click("r4", Modifiers{Shift: true})
	assert.Equal(t, []string{"r2", "r3", "r4"}, c.Selected())
	assert.Equal(t, "r2", c.Anchor(), "shift keeps the anchor")

	c.Click("r1", Modifiers{Shift: true})
	assert.Equal(t, []string{"r1", "r2"}, c.Selected())

	c.Click("r5", Modifiers{Meta: true})
	assert.Equal(t, []string{"r1", "r2", "r5"}, c.Selected())
	assert.Equal(t, "r5", c.Anchor())

	c.Click("r5", Modifiers{Ctrl: true})
	assert.Equal(t, []string{"r1", "r2"}, c.Selected())

	c.Click("r3", Modifiers{})
	assert.Equal(t, []string{"r3"}, c.Selected())
}

func TestClick_ShiftWithoutAnchorIsPlain(t *testing.T) {
	c := NewController(fiveRows())
	c.Click("r3", Modifiers{Shift: true})
	assert.Equal(t, []string{"r3"}, c.Selected())
	assert.Equal(t, "r3", c.Anchor())
}

func TestClick_CustomRangeResolver(t *testing.T) {
	c := NewController(fiveRows(), WithRangeResolver(func(a, b string) []string {
		return []string{a, "r5", b}
	}))
	c.Click("r1", Modifiers{})
	c.Click("r2", Modifiers{Shift: true})
	assert.ElementsMatch(t, []string{"r1", "r2", "r5"}, c.Selected())
}

func TestClearSelectAllPrune(t *testing.T) {
	reg := fiveRows()
	c := NewController(reg)
	c.SelectAll()
	assert.Equal(t, 5, c.Count())

	require.NoError(t, c.PointerDown(100, Modifiers{}))
	c.PointerMove(200)
	c.Clear()
	assert.Equal(t, StateIdle, c.State())
	assert.Zero(t, c.Count())
	assert.Equal(t, "", c.Anchor())

	c.SelectAll("r2", "r9")
	c.Prune(func(id string) bool {
		_, ok := reg.Rect(id)
		return ok
	})
	assert.Equal(t, []string{"r2"}, c.Selected())

	c.Deselect("r2")
	assert.Equal(t, "", c.Anchor())
}

func TestPointerDown_EmptyRegistry(t *testing.T) {
	c := NewController(NewRegistry())
	assert.ErrorIs(t, c.PointerDown(10, Modifiers{}), ErrNoRow)
	assert.Equal(t, StateIdle, c.State())
}

// Band membership always equals the set of rows whose current center lies
// in the band, whatever order rows were registered in.
func TestProperty_BandMatchesCenters(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	for trial := 0; trial < 200; trial++ {
		reg := NewRegistry()
		n := 1 + rng.Intn(20)
		rects := map[string]Rect{}
		top := 0
		perm := rng.Perm(n)
		for _, i := range perm {
			id := fmt.Sprintf("row%02d", i)
			h := 20 + rng.Intn(40)
			rects[id] = Rect{Top: top, Height: h}
			top += h
		}
		for id, r := range rects {
			reg.Register(id, r)
		}

		c := NewController(reg)
		startY := rng.Intn(top + 1)
		endY := rng.Intn(top + 1)
		if abs(endY-startY) <= DefaultThreshold {
			continue
		}
		require.NoError(t, c.PointerDown(startY, Modifiers{}))
		c.PointerMove(endY)

		lo, hi := startY, endY
		if lo > hi {
			lo, hi = hi, lo
		}
		var want []string
		for _, id := range reg.Ordered() {
			cy := rects[id].CenterY()
			if cy >= float64(lo) && cy <= float64(hi) {
				want = append(want, id)
			}
		}
		require.Equal(t, want, c.PreviewIDs(), "trial %d", trial)
	}
}
