package interaction

import (
	"math"
	"testing"

	"github.com/user/journalpage/pkg/geometry"
	"github.com/user/journalpage/pkg/journal"
)

// displayWidth shows the page at half scale, so display = canonical / 2.
const displayWidth = geometry.PageWidth / 2

func newFixture(t *testing.T, elements ...journal.ImageElement) (*journal.Store, *Controller) {
	t.Helper()
	store := journal.NewStore(journal.DocumentState{
		Mode:   journal.ModeFreeflow,
		Images: elements,
	})
	return store, NewController(store, displayWidth)
}

func element(x, y, w, h float64) journal.ImageElement {
	el := journal.NewImageElement(nil, w/h)
	el.Position = geometry.Position{X: x, Y: y, Width: w, Height: h}
	return el
}

// toDisplay converts canonical coordinates to the fixture's display space.
func toDisplay(v float64) float64 { return v / 2 }

func TestSelectAndDeselect(t *testing.T) {
	el := element(100, 100, 400, 400)
	_, c := newFixture(t, el)

	c.PointerDown(1, toDisplay(300), toDisplay(300))
	if c.SelectedID() != el.ID {
		t.Fatalf("expected %s selected, got %q", el.ID, c.SelectedID())
	}
	if c.State() != StateDragging {
		t.Errorf("press on element must arm a drag, state %s", c.State())
	}

	c.PointerUp(1)
	if c.State() != StateSelected {
		t.Errorf("release must return to selected, state %s", c.State())
	}

	// Tap on empty background deselects.
	c.PointerDown(2, toDisplay(1500), toDisplay(2500))
	if c.SelectedID() != "" || c.State() != StateIdle {
		t.Errorf("background tap must deselect, id %q state %s", c.SelectedID(), c.State())
	}
}

func TestSelectionIsExclusive(t *testing.T) {
	a := element(0, 0, 200, 200)
	b := element(1000, 1000, 200, 200)
	_, c := newFixture(t, a, b)

	c.PointerDown(1, toDisplay(100), toDisplay(100))
	c.PointerUp(1)
	c.PointerDown(2, toDisplay(1100), toDisplay(1100))
	if c.SelectedID() != b.ID {
		t.Errorf("expected %s selected, got %q", b.ID, c.SelectedID())
	}
}

func TestDragMovesWithPointer(t *testing.T) {
	el := element(100, 100, 400, 400)
	store, c := newFixture(t, el)

	// Press 50,50 inside the element (canonical), drag by 200,300.
	c.PointerDown(1, toDisplay(150), toDisplay(150))
	c.PointerMove(1, toDisplay(350), toDisplay(450))
	c.PointerUp(1)

	got := store.Snapshot().Images[0].Position
	if got.X != 300 || got.Y != 400 {
		t.Errorf("expected origin (300,400), got (%v,%v)", got.X, got.Y)
	}
}

func TestDragClampsAtEdges(t *testing.T) {
	el := element(100, 100, 400, 400)
	store, c := newFixture(t, el)

	c.PointerDown(1, toDisplay(300), toDisplay(300))
	c.PointerMove(1, toDisplay(-2000), toDisplay(-2000))

	got := store.Snapshot().Images[0].Position
	if !got.Valid() {
		t.Errorf("drag left the element out of bounds: %+v", got)
	}
	if got.X != 0 || got.Y != 0 {
		t.Errorf("expected clamp to the top-left corner, got (%v,%v)", got.X, got.Y)
	}
}

func TestPinchResizePreservesAspect(t *testing.T) {
	el := element(400, 400, 600, 400) // aspect 1.5
	store, c := newFixture(t, el)

	c.PointerDown(1, toDisplay(500), toDisplay(500))
	c.PointerDown(2, toDisplay(700), toDisplay(500))
	if c.State() != StateResizing {
		t.Fatalf("second pointer must start a resize, state %s", c.State())
	}

	// Double the distance between the pointers.
	c.PointerMove(2, toDisplay(900), toDisplay(500))

	got := store.Snapshot().Images[0].Position
	if math.Abs(got.Width-1200) > 1e-6 || math.Abs(got.Height-800) > 1e-6 {
		t.Errorf("expected 1200x800, got %vx%v", got.Width, got.Height)
	}
	if math.Abs(got.AspectRatio()-1.5) > 1e-9 {
		t.Errorf("aspect ratio broken: %v", got.AspectRatio())
	}
	if !got.Valid() {
		t.Errorf("resize ended out of bounds: %+v", got)
	}

	c.PointerUp(2)
	if c.State() != StateSelected {
		t.Errorf("ending the pinch must return to selected, state %s", c.State())
	}
}

func TestPinchShrinkClampsToMinimum(t *testing.T) {
	el := element(400, 400, 600, 400)
	store, c := newFixture(t, el)

	c.PointerDown(1, toDisplay(500), toDisplay(500))
	c.PointerDown(2, toDisplay(900), toDisplay(500))
	// Collapse the pinch to 2% of the start distance.
	c.PointerMove(2, toDisplay(508), toDisplay(500))

	got := store.Snapshot().Images[0].Position
	if got.Width < geometry.MinDimension || got.Height < geometry.MinDimension {
		t.Errorf("minimum size not enforced: %+v", got)
	}
	if math.Abs(got.AspectRatio()-1.5) > 1e-6 {
		t.Errorf("aspect ratio broken at minimum: %v", got.AspectRatio())
	}
}

func TestSecondPointerOnOtherElementDoesNotRetarget(t *testing.T) {
	a := element(0, 0, 300, 300)
	b := element(1200, 1200, 300, 300)
	store, c := newFixture(t, a, b)

	c.PointerDown(1, toDisplay(100), toDisplay(100))
	// Second pointer lands on element b; the gesture must stay on a.
	c.PointerDown(2, toDisplay(1300), toDisplay(1300))
	c.PointerMove(2, toDisplay(1500), toDisplay(1500))

	if c.SelectedID() != a.ID {
		t.Errorf("gesture retargeted to %q", c.SelectedID())
	}
	doc := store.Snapshot()
	if got := doc.ImageByID(b.ID).Position.X; got != 1200 {
		t.Errorf("element b moved during a's gesture: x=%v", got)
	}
}

func TestThirdPointerDoesNotDisturbPinch(t *testing.T) {
	el := element(400, 400, 600, 400)
	store, c := newFixture(t, el)
	want := store.Snapshot().Images[0].Position

	c.PointerDown(1, toDisplay(500), toDisplay(500))
	c.PointerDown(2, toDisplay(700), toDisplay(500))
	if c.State() != StateResizing {
		t.Fatalf("second pointer must start a resize, state %s", c.State())
	}

	// A stray third finger lands far from the pinch and wanders. The two
	// pinch pointers never move, so the element must not change.
	c.PointerDown(3, toDisplay(1800), toDisplay(2500))
	c.PointerMove(3, toDisplay(100), toDisplay(100))
	c.PointerMove(3, toDisplay(1700), toDisplay(200))

	got := store.Snapshot().Images[0].Position
	if got != want {
		t.Errorf("third pointer changed the element: %+v, want %+v", got, want)
	}

	// Lifting the stray finger leaves the pinch running.
	c.PointerUp(3)
	if c.State() != StateResizing {
		t.Errorf("lifting a stray finger ended the pinch, state %s", c.State())
	}

	// The pinch still works from its own two pointers.
	c.PointerMove(2, toDisplay(900), toDisplay(500))
	got = store.Snapshot().Images[0].Position
	if math.Abs(got.Width-1200) > 1e-6 || math.Abs(got.Height-800) > 1e-6 {
		t.Errorf("expected 1200x800 after the real pinch, got %vx%v", got.Width, got.Height)
	}

	// Lifting a pinch pointer ends the resize.
	c.PointerUp(1)
	if c.State() != StateSelected {
		t.Errorf("lifting a pinch pointer must end the resize, state %s", c.State())
	}
}

func TestRotate90Wraps(t *testing.T) {
	el := element(100, 100, 300, 300)
	store, c := newFixture(t, el)

	c.PointerDown(1, toDisplay(200), toDisplay(200))
	c.PointerUp(1)

	for i := 0; i < 5; i++ {
		c.Rotate90()
	}
	got := store.Snapshot().Images[0].Position.RotationDegrees
	if got != 90 {
		t.Errorf("expected 90 after five quarter turns, got %v", got)
	}
}

func TestDeleteClearsSelection(t *testing.T) {
	el := element(100, 100, 300, 300)
	store, c := newFixture(t, el)

	c.PointerDown(1, toDisplay(200), toDisplay(200))
	c.PointerUp(1)
	c.Delete()

	if c.SelectedID() != "" || c.State() != StateIdle {
		t.Errorf("delete must clear selection, id %q state %s", c.SelectedID(), c.State())
	}
	if len(store.Snapshot().Images) != 0 {
		t.Error("element not removed from the document")
	}
	if _, _, _, _, ok := c.SelectionOutline(); ok {
		t.Error("outline reported for a removed element")
	}
}

func TestAllOperationsEndValid(t *testing.T) {
	el := element(100, 100, 400, 400)
	store, c := newFixture(t, el)

	// A messy gesture sequence: drag out of bounds, pinch huge, pinch tiny.
	c.PointerDown(1, toDisplay(300), toDisplay(300))
	c.PointerMove(1, toDisplay(5000), toDisplay(5000))
	c.PointerDown(2, toDisplay(5100), toDisplay(5000))
	c.PointerMove(2, toDisplay(9000), toDisplay(5000))
	c.PointerMove(2, toDisplay(5101), toDisplay(5000))
	c.PointerUp(2)
	c.PointerUp(1)

	got := store.Snapshot().Images[0].Position
	if !got.Valid() {
		t.Errorf("element ended the gesture out of bounds: %+v", got)
	}
}

func TestSelectionOutlineInDisplaySpace(t *testing.T) {
	el := element(200, 400, 600, 800)
	_, c := newFixture(t, el)

	c.PointerDown(1, toDisplay(300), toDisplay(500))
	c.PointerUp(1)

	x, y, w, h, ok := c.SelectionOutline()
	if !ok {
		t.Fatal("expected an outline for the selection")
	}
	if x != 100 || y != 200 || w != 300 || h != 400 {
		t.Errorf("outline not converted to display space: (%v,%v,%v,%v)", x, y, w, h)
	}
}
