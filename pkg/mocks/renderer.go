// Package mocks provides hand-written mock implementations of the ports for
// testing.
package mocks

import (
	"image"
	"image/color"

	"github.com/user/journalpage/pkg/ports"
)

// Renderer is a mock implementation of ports.Renderer.
type Renderer struct {
	CreateCanvasFunc func(width, height int, bg color.Color) ports.Canvas
	DecodeImageFunc  func(data []byte, format ports.ImageFormat) (image.Image, error)
	EncodeImageFunc  func(img image.Image, format ports.ImageFormat, quality int) ([]byte, error)
	ResizeImageFunc  func(img image.Image, width, height int) image.Image

	// Canvases records every canvas handed out, in creation order.
	Canvases []*Canvas
}

func (m *Renderer) CreateCanvas(width, height int, bg color.Color) ports.Canvas {
	if m.CreateCanvasFunc != nil {
		return m.CreateCanvasFunc(width, height, bg)
	}
	c := &Canvas{Width: width, Height: height, Background: bg}
	m.Canvases = append(m.Canvases, c)
	return c
}

func (m *Renderer) DecodeImage(data []byte, format ports.ImageFormat) (image.Image, error) {
	if m.DecodeImageFunc != nil {
		return m.DecodeImageFunc(data, format)
	}
	return image.NewRGBA(image.Rect(0, 0, 100, 100)), nil
}

func (m *Renderer) EncodeImage(img image.Image, format ports.ImageFormat, quality int) ([]byte, error) {
	if m.EncodeImageFunc != nil {
		return m.EncodeImageFunc(img, format, quality)
	}
	return []byte{}, nil
}

func (m *Renderer) ResizeImage(img image.Image, width, height int) image.Image {
	if m.ResizeImageFunc != nil {
		return m.ResizeImageFunc(img, width, height)
	}
	return image.NewRGBA(image.Rect(0, 0, width, height))
}

var _ ports.Renderer = (*Renderer)(nil)

// CanvasOp records one drawing call on the mock canvas.
type CanvasOp struct {
	Op      string
	X, Y    int
	W, H    int
	Degrees float64
	Text    string
	Style   ports.TextStyle
	Color   color.Color
}

// Canvas is a mock implementation of ports.Canvas that records operations.
type Canvas struct {
	Width      int
	Height     int
	Background color.Color
	Ops        []CanvasOp

	// WrapTextFunc overrides the naive one-line wrap when set.
	WrapTextFunc func(text string, width int, style ports.TextStyle) []string

	// CharWidth is the fixed advance MeasureText reports per rune.
	CharWidth  float64
	LineHeight float64
}

func (m *Canvas) record(op CanvasOp) {
	m.Ops = append(m.Ops, op)
}

func (m *Canvas) DrawImage(img image.Image, x, y int) {
	m.record(CanvasOp{Op: "image", X: x, Y: y})
}

func (m *Canvas) DrawImageScaled(img image.Image, x, y, width, height int) {
	m.record(CanvasOp{Op: "imageScaled", X: x, Y: y, W: width, H: height})
}

func (m *Canvas) DrawImageRotated(img image.Image, x, y, width, height int, degrees float64) {
	m.record(CanvasOp{Op: "imageRotated", X: x, Y: y, W: width, H: height, Degrees: degrees})
}

func (m *Canvas) DrawRect(x, y, w, h int, c color.Color) {
	m.record(CanvasOp{Op: "rect", X: x, Y: y, W: w, H: h, Color: c})
}

func (m *Canvas) DrawRectStroke(x, y, w, h int, c color.Color, strokeWidth float64) {
	m.record(CanvasOp{Op: "rectStroke", X: x, Y: y, W: w, H: h, Color: c})
}

func (m *Canvas) DrawText(text string, x, y int, style ports.TextStyle) {
	m.record(CanvasOp{Op: "text", X: x, Y: y, Text: text, Style: style})
}

func (m *Canvas) DrawTextWrapped(text string, x, y, width int, lineSpacing float64, style ports.TextStyle) {
	m.record(CanvasOp{Op: "textWrapped", X: x, Y: y, W: width, Text: text, Style: style})
}

func (m *Canvas) WrapText(text string, width int, style ports.TextStyle) []string {
	if m.WrapTextFunc != nil {
		return m.WrapTextFunc(text, width, style)
	}
	return []string{text}
}

func (m *Canvas) MeasureText(text string, style ports.TextStyle) (float64, float64) {
	cw := m.CharWidth
	if cw == 0 {
		cw = 10
	}
	lh := m.LineHeight
	if lh == 0 {
		lh = 20
	}
	return float64(len([]rune(text))) * cw, lh
}

func (m *Canvas) DrawLine(x1, y1, x2, y2 int, c color.Color, width float64) {
	m.record(CanvasOp{Op: "line", X: x1, Y: y1, W: x2 - x1, H: y2 - y1, Color: c})
}

func (m *Canvas) ToImage() image.Image {
	return image.NewRGBA(image.Rect(0, 0, m.Width, m.Height))
}

// OpsNamed returns the recorded operations with the given name.
func (m *Canvas) OpsNamed(name string) []CanvasOp {
	var out []CanvasOp
	for _, op := range m.Ops {
		if op.Op == name {
			out = append(out, op)
		}
	}
	return out
}

var _ ports.Canvas = (*Canvas)(nil)
