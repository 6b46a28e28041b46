// Package interaction translates pointer gesture streams into document
// mutations: drag, pinch resize, discrete rotation and deletion of image
// elements.
//
// Gesture coordinates arrive in on-screen pixel space and are converted to
// canonical page units before any mutation, so manipulation stays correct
// whatever the responsive display scale. Every operation ends with the
// element in a valid position: violations are clamped, never rejected.
package interaction

import (
	"github.com/user/journalpage/pkg/geometry"
	"github.com/user/journalpage/pkg/journal"
)

// State is the controller's gesture state for the selected element.
type State int

const (
	StateIdle State = iota
	StateSelected
	StateDragging
	StateResizing
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSelected:
		return "selected"
	case StateDragging:
		return "dragging"
	case StateResizing:
		return "resizing"
	default:
		return "unknown"
	}
}

// pointer tracks one active touch/pointer in canonical space.
type pointer struct {
	x, y float64
}

// Controller is the per-document gesture state machine. It mutates the
// document through the store so every gesture repaints subscribers live.
// All methods are UI-thread-synchronous.
type Controller struct {
	store     *journal.Store
	transform geometry.Transform

	state      State
	selectedID string

	// Gesture bookkeeping. The target element and the participating
	// pointer ids are latched at gesture start and never reevaluated
	// mid-gesture, so a pointer landing on another element, or a stray
	// extra finger, cannot corrupt an in-progress drag or pinch.
	dragOffsetX float64
	dragOffsetY float64
	dragPointer int
	pointers    map[int]pointer
	pinchA      int
	pinchB      int
	pinchStart  float64
	pinchBase   geometry.Position
}

// NewController creates a controller over the given store. displayedWidth is
// the on-screen pixel width of the page.
func NewController(store *journal.Store, displayedWidth float64) *Controller {
	return &Controller{
		store:     store,
		transform: geometry.NewTransform(displayedWidth),
		state:     StateIdle,
		pointers:  map[int]pointer{},
	}
}

// SetDisplayedWidth updates the display transform after a viewport resize.
func (c *Controller) SetDisplayedWidth(width float64) {
	c.transform = geometry.NewTransform(width)
}

// State returns the current gesture state.
func (c *Controller) State() State {
	return c.state
}

// SelectedID returns the selected element's id, or "" when nothing is
// selected.
func (c *Controller) SelectedID() string {
	return c.selectedID
}

// PointerDown handles a pointer press at display coordinates.
//
// The first pointer selects the element under it (or deselects on empty
// background) and arms a drag. A second pointer while an element is held
// switches to pinch resizing.
func (c *Controller) PointerDown(pointerID int, displayX, displayY float64) {
	x, y := c.transform.ToCanonical(displayX, displayY)
	c.pointers[pointerID] = pointer{x: x, y: y}

	switch len(c.pointers) {
	case 1:
		c.firstPointerDown(pointerID, x, y)
	case 2:
		c.secondPointerDown(pointerID)
	default:
		// Additional pointers are tracked but take no part in the
		// gesture; the latched pointer ids own the element.
	}
}

func (c *Controller) firstPointerDown(pointerID int, x, y float64) {
	doc := c.store.Snapshot()
	hit := hitTest(doc, x, y)
	if hit == nil {
		// Tap on empty background: deselect.
		c.selectedID = ""
		c.state = StateIdle
		return
	}

	// Selection is exclusive; selecting one element deselects any other.
	c.selectedID = hit.ID
	c.state = StateDragging
	c.dragPointer = pointerID
	c.dragOffsetX = x - hit.Position.X
	c.dragOffsetY = y - hit.Position.Y
}

func (c *Controller) secondPointerDown(pointerID int) {
	if c.selectedID == "" || (c.state != StateDragging && c.state != StateSelected) {
		return
	}
	doc := c.store.Snapshot()
	el := doc.ImageByID(c.selectedID)
	if el == nil {
		return
	}
	other, ok := c.otherPointer(pointerID)
	if !ok {
		return
	}
	c.pinchA, c.pinchB = other, pointerID
	c.pinchStart = c.pointerDistance()
	if c.pinchStart <= 0 {
		return
	}
	c.pinchBase = el.Position
	c.state = StateResizing
}

// PointerMove handles pointer movement at display coordinates. Every move
// event updates the model immediately; there is no debounce, the live
// surface repaints per event.
func (c *Controller) PointerMove(pointerID int, displayX, displayY float64) {
	if _, ok := c.pointers[pointerID]; !ok {
		return
	}
	x, y := c.transform.ToCanonical(displayX, displayY)
	c.pointers[pointerID] = pointer{x: x, y: y}

	switch c.state {
	case StateDragging:
		if pointerID == c.dragPointer {
			c.drag(x, y)
		}
	case StateResizing:
		if pointerID == c.pinchA || pointerID == c.pinchB {
			c.pinch()
		}
	}
}

func (c *Controller) drag(x, y float64) {
	id := c.selectedID
	offX, offY := c.dragOffsetX, c.dragOffsetY
	c.store.Update(func(doc *journal.DocumentState) {
		el := doc.ImageByID(id)
		if el == nil {
			return
		}
		pos := el.Position
		pos.X = x - offX
		pos.Y = y - offY
		el.Position = geometry.ClampToPage(pos)
	})
}

func (c *Controller) pinch() {
	if c.pinchStart <= 0 {
		return
	}
	factor := c.pointerDistance() / c.pinchStart
	if factor <= 0 {
		return
	}
	id := c.selectedID
	base := c.pinchBase
	c.store.Update(func(doc *journal.DocumentState) {
		el := doc.ImageByID(id)
		if el == nil {
			return
		}
		pos := geometry.ScaleAspectPreservingWidth(base, base.Width*factor)
		// Keep the element centered where the pinch started.
		pos.X = base.X + (base.Width-pos.Width)/2
		pos.Y = base.Y + (base.Height-pos.Height)/2
		el.Position = geometry.ClampToPage(pos)
	})
}

// PointerUp handles pointer release. Releasing the gesture returns to
// selected; deselection requires an explicit background tap.
func (c *Controller) PointerUp(pointerID int) {
	delete(c.pointers, pointerID)

	switch c.state {
	case StateResizing:
		// Only a latched pinch pointer ends the resize; an extra finger
		// lifting changes nothing.
		if pointerID == c.pinchA || pointerID == c.pinchB {
			if c.selectedID != "" {
				c.state = StateSelected
			} else {
				c.state = StateIdle
			}
		}
	case StateDragging:
		if pointerID == c.dragPointer {
			c.state = StateSelected
		}
	}
}

// Rotate90 rotates the selected element by 90 degrees, modulo 360.
func (c *Controller) Rotate90() {
	if c.selectedID == "" {
		return
	}
	id := c.selectedID
	c.store.Update(func(doc *journal.DocumentState) {
		el := doc.ImageByID(id)
		if el == nil {
			return
		}
		deg := el.Position.RotationDegrees + 90
		for deg >= 360 {
			deg -= 360
		}
		el.Position.RotationDegrees = deg
	})
}

// Delete removes the selected element and clears the selection.
func (c *Controller) Delete() {
	if c.selectedID == "" {
		return
	}
	id := c.selectedID
	c.store.Update(func(doc *journal.DocumentState) {
		doc.RemoveImage(id)
	})
	c.selectedID = ""
	c.state = StateIdle
	c.pointers = map[int]pointer{}
}

// SelectionOutline returns the selected element's bounds in display pixels
// for drawing the interactive outline, and false when nothing is selected.
func (c *Controller) SelectionOutline() (x, y, w, h float64, ok bool) {
	if c.selectedID == "" {
		return 0, 0, 0, 0, false
	}
	doc := c.store.Snapshot()
	el := doc.ImageByID(c.selectedID)
	if el == nil {
		return 0, 0, 0, 0, false
	}
	x, y = c.transform.ToDisplay(el.Position.X, el.Position.Y)
	w, h = c.transform.ToDisplay(el.Position.Width, el.Position.Height)
	return x, y, w, h, true
}

// pointerDistance returns the distance between the two latched pinch
// pointers, or 0 when either is no longer down.
func (c *Controller) pointerDistance() float64 {
	a, okA := c.pointers[c.pinchA]
	b, okB := c.pointers[c.pinchB]
	if !okA || !okB {
		return 0
	}
	return geometry.Distance(a.x, a.y, b.x, b.y)
}

// otherPointer returns the id of the one tracked pointer that is not
// pointerID.
func (c *Controller) otherPointer(pointerID int) (int, bool) {
	for id := range c.pointers {
		if id != pointerID {
			return id, true
		}
	}
	return 0, false
}

// hitTest returns the topmost element under the point, by descending paint
// order. Rotation is ignored for hit testing; the touch editors select on
// the unrotated bounds.
func hitTest(doc journal.DocumentState, x, y float64) *journal.ImageElement {
	var hit *journal.ImageElement
	for i := range doc.Images {
		el := &doc.Images[i]
		p := el.Position
		if x >= p.X && x <= p.X+p.Width && y >= p.Y && y <= p.Y+p.Height {
			if hit == nil || el.ZOrder >= hit.ZOrder {
				hit = el
			}
		}
	}
	return hit
}
