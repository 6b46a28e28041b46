// Package geometry defines the canonical page coordinate space shared by the
// layout engine, the interaction controller and the render surface.
//
// All element positions are expressed in canonical units. The on-screen
// pixel size is a derived display transform and is never stored.
package geometry

import "math"

const (
	// PageWidth and PageHeight are the fixed virtual page dimensions in
	// canonical units, approximating an A-series aspect ratio.
	PageWidth  = 1860.0
	PageHeight = 2620.0

	// MinDimension is the smallest width or height an element may have.
	MinDimension = 50.0
)

// Position describes where an element sits on the canonical page.
type Position struct {
	X               float64 `json:"x"`
	Y               float64 `json:"y"`
	Width           float64 `json:"width"`
	Height          float64 `json:"height"`
	RotationDegrees float64 `json:"rotation"`
}

// Valid reports whether the position satisfies the page invariants.
func (p Position) Valid() bool {
	return p.X >= 0 && p.Y >= 0 &&
		p.Width >= MinDimension && p.Height >= MinDimension &&
		p.X+p.Width <= PageWidth && p.Y+p.Height <= PageHeight
}

// AspectRatio returns width/height, or 0 for a degenerate height.
func (p Position) AspectRatio() float64 {
	if p.Height == 0 {
		return 0
	}
	return p.Width / p.Height
}

// ClampToPage forces a position into the page bounds. Dimensions are shrunk
// before the origin is translated, so an oversized element fits the page
// instead of merely sliding until one edge touches.
func ClampToPage(p Position) Position {
	aspect := p.AspectRatio()

	if p.Width > PageWidth {
		p = ScaleAspectPreservingWidth(p, PageWidth)
	}
	if p.Height > PageHeight {
		p = ScaleAspectPreservingHeight(p, PageHeight)
	}
	if p.Width < MinDimension {
		p.Width = MinDimension
		if aspect > 0 {
			p.Height = p.Width / aspect
		}
	}
	if p.Height < MinDimension {
		p.Height = MinDimension
		if aspect > 0 {
			p.Width = p.Height * aspect
		}
	}

	if p.X < 0 {
		p.X = 0
	}
	if p.Y < 0 {
		p.Y = 0
	}
	if p.X+p.Width > PageWidth {
		p.X = PageWidth - p.Width
	}
	if p.Y+p.Height > PageHeight {
		p.Y = PageHeight - p.Height
	}
	return p
}

// ScaleAspectPreservingWidth resizes to the given width, keeping the aspect
// ratio and the origin.
func ScaleAspectPreservingWidth(p Position, width float64) Position {
	aspect := p.AspectRatio()
	p.Width = width
	if aspect > 0 {
		p.Height = width / aspect
	}
	return p
}

// ScaleAspectPreservingHeight resizes to the given height, keeping the
// aspect ratio and the origin.
func ScaleAspectPreservingHeight(p Position, height float64) Position {
	aspect := p.AspectRatio()
	p.Height = height
	if aspect > 0 {
		p.Width = height * aspect
	}
	return p
}

// Rect is an axis-aligned rectangle in canonical units.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// FitWithin returns the largest position with the given aspect ratio that
// fits inside r, centered.
func FitWithin(r Rect, aspect float64) Position {
	if aspect <= 0 {
		aspect = 1
	}
	w := r.Width
	h := w / aspect
	if h > r.Height {
		h = r.Height
		w = h * aspect
	}
	return Position{
		X:      r.X + (r.Width-w)/2,
		Y:      r.Y + (r.Height-h)/2,
		Width:  w,
		Height: h,
	}
}

// FracRect is a rectangle expressed as fractions of the page dimensions, so
// layout regions stay resolution independent.
type FracRect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Resolve converts a fractional rectangle to canonical units.
func (f FracRect) Resolve() Rect {
	return Rect{
		X:      f.X * PageWidth,
		Y:      f.Y * PageHeight,
		Width:  f.Width * PageWidth,
		Height: f.Height * PageHeight,
	}
}

// MirrorX flips the rectangle to the opposite horizontal side of the page,
// leaving its dimensions unchanged.
func (f FracRect) MirrorX() FracRect {
	f.X = 1 - f.X - f.Width
	return f
}

// Transform converts between on-screen display pixels and canonical units.
// Gesture coordinates arrive in display space and every model mutation goes
// through ToCanonical first; outlines drawn over the live surface go back
// through ToDisplay.
type Transform struct {
	Scale float64
}

// NewTransform derives the transform from the displayed page width.
func NewTransform(displayedWidth float64) Transform {
	if displayedWidth <= 0 {
		return Transform{Scale: 1}
	}
	return Transform{Scale: displayedWidth / PageWidth}
}

// ToCanonical converts a display-space point to canonical units.
func (t Transform) ToCanonical(x, y float64) (float64, float64) {
	if t.Scale == 0 {
		return x, y
	}
	return x / t.Scale, y / t.Scale
}

// ToDisplay converts a canonical point to display pixels.
func (t Transform) ToDisplay(x, y float64) (float64, float64) {
	return x * t.Scale, y * t.Scale
}

// Distance returns the Euclidean distance between two points.
func Distance(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return math.Sqrt(dx*dx + dy*dy)
}
