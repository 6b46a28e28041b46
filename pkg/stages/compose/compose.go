// Package compose implements the render surface: a deterministic paint of
// the document state at a given display scale.
package compose

import (
	"context"
	"image"
	"image/color"
	"sort"

	"github.com/user/journalpage/pkg/geometry"
	"github.com/user/journalpage/pkg/journal"
	"github.com/user/journalpage/pkg/pipeline"
	"github.com/user/journalpage/pkg/ports"
)

// Canonical text metrics, scaled at paint time.
const (
	locationFontFrac  = 0.65 // of the location strip height
	paragraphFontSize = 48.0
	lineSpacing       = 1.4
	shadowOffset      = 3.0
	handleSize        = 28.0
	outlineWidth      = 3.0
)

// Theme holds the page chrome colors.
type Theme struct {
	Background  color.Color
	Placeholder color.Color
	Selection   color.Color
	Caret       color.Color
}

// DefaultTheme returns the default page theme.
func DefaultTheme() Theme {
	return Theme{
		Background:  color.RGBA{R: 248, G: 246, B: 240, A: 255},
		Placeholder: color.RGBA{R: 200, G: 196, B: 188, A: 255},
		Selection:   color.RGBA{R: 34, G: 120, B: 220, A: 255},
		Caret:       color.RGBA{R: 30, G: 30, B: 30, A: 255},
	}
}

// Stage paints documents onto canvases.
type Stage struct {
	renderer ports.Renderer
	sink     ports.DebugSink
	logger   ports.Logger
	theme    Theme

	// template, when set, is drawn stretched over the page background.
	template image.Image

	// fontPath is handed to the canvas text calls; empty uses the
	// renderer's built-in face.
	fontPath string
}

// NewStage creates a compose stage.
func NewStage(renderer ports.Renderer, sink ports.DebugSink, logger ports.Logger) *Stage {
	return &Stage{
		renderer: renderer,
		sink:     sink,
		logger:   logger.WithComponent("compose"),
		theme:    DefaultTheme(),
	}
}

// SetTemplate sets the decorative background template image.
func (s *Stage) SetTemplate(img image.Image) {
	s.template = img
}

// SetFontPath sets the font used for all page text.
func (s *Stage) SetFontPath(path string) {
	s.fontPath = path
}

// SetTheme overrides the page chrome colors.
func (s *Stage) SetTheme(theme Theme) {
	s.theme = theme
}

// Execute paints the document and returns the finished image.
func (s *Stage) Execute(ctx context.Context, input pipeline.ComposeInput) (pipeline.ComposeResult, error) {
	canvas := s.Paint(input)
	result := pipeline.ComposeResult{Image: canvas.ToImage()}

	if s.sink.Enabled() {
		s.sink.SaveComposedPage(result.Image)
	}
	return result, nil
}

// Paint renders the document onto a fresh canvas. It is deterministic in
// (document, scale, options) and is the single paint routine shared by the
// live surface and the export pipeline.
func (s *Stage) Paint(input pipeline.ComposeInput) ports.Canvas {
	scale := input.Scale
	if scale <= 0 {
		scale = 1
	}
	width := scaled(geometry.PageWidth, scale)
	height := scaled(geometry.PageHeight, scale)

	canvas := s.renderer.CreateCanvas(width, height, s.theme.Background)

	if s.template != nil {
		canvas.DrawImageScaled(s.template, 0, 0, width, height)
	}

	for _, rect := range input.Placeholders {
		canvas.DrawRectStroke(
			scaled(rect.X, scale), scaled(rect.Y, scale),
			scaled(rect.Width, scale), scaled(rect.Height, scale),
			s.theme.Placeholder, 2,
		)
	}

	s.paintText(canvas, input, scale)
	s.paintImages(canvas, input.Document, scale)

	if input.Overlay && input.SelectedID != "" {
		s.paintOverlay(canvas, input.Document, input.SelectedID, scale)
	}
	return canvas
}

func (s *Stage) paintText(canvas ports.Canvas, input pipeline.ComposeInput, scale float64) {
	for i, block := range input.Document.TextBlocks {
		style := s.styleFor(block, scale)
		x := scaled(block.Position.X, scale)
		y := scaled(block.Position.Y, scale)
		w := scaled(block.Position.Width, scale)

		// Shadow first, offset down-right, then the primary on top.
		if block.ShadowColor != "" {
			shadow := style
			shadow.Color = parseHex(block.ShadowColor, color.Gray{Y: 128})
			off := scaled(shadowOffset, scale)
			s.drawBlock(canvas, block, x+off, y+off, w, shadow)
		}
		s.drawBlock(canvas, block, x, y, w, style)

		if input.Caret != nil && input.Caret.BlockIndex == i {
			s.paintCaret(canvas, block, *input.Caret, x, y, w, style)
		}
	}
}

func (s *Stage) drawBlock(canvas ports.Canvas, block journal.TextBlock, x, y, w int, style ports.TextStyle) {
	if block.Kind == journal.KindLocation {
		// The location strip is a single line; anchor inside the strip.
		canvas.DrawText(block.Content, x, y+int(style.FontSize), style)
		return
	}
	canvas.DrawTextWrapped(block.Content, x, y, w, lineSpacing, style)
}

// paintCaret draws the blinking-cursor glyph at the character offset. It
// wraps with the same WrapText the paragraph painter uses, so the caret
// lands exactly where the glyphs are, not at an approximation.
func (s *Stage) paintCaret(canvas ports.Canvas, block journal.TextBlock, caret pipeline.Caret, x, y, w int, style ports.TextStyle) {
	lines := []string{block.Content}
	if block.Kind == journal.KindParagraph {
		lines = canvas.WrapText(block.Content, w, style)
	}

	remaining := caret.RuneOffset
	lineIdx := 0
	column := ""
	for i, line := range lines {
		runes := []rune(line)
		if remaining <= len(runes) {
			lineIdx = i
			column = string(runes[:remaining])
			break
		}
		// The wrap consumed one separator between lines.
		remaining -= len(runes) + 1
		lineIdx = i + 1
	}
	if lineIdx >= len(lines) {
		lineIdx = len(lines) - 1
		if lineIdx < 0 {
			lineIdx = 0
			column = ""
		} else {
			column = lines[lineIdx]
		}
	}

	prefixWidth, lineHeight := canvas.MeasureText(column, style)
	if column == "" {
		_, lineHeight = canvas.MeasureText("M", style)
	}

	caretX := x + int(prefixWidth)
	caretY := y + int(float64(lineIdx)*lineHeight*lineSpacing)
	canvas.DrawLine(caretX, caretY, caretX, caretY+int(lineHeight), s.theme.Caret, 2)
}

func (s *Stage) paintImages(canvas ports.Canvas, doc journal.DocumentState, scale float64) {
	ordered := make([]journal.ImageElement, len(doc.Images))
	copy(ordered, doc.Images)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].ZOrder < ordered[j].ZOrder
	})

	for _, el := range ordered {
		if len(el.Source) == 0 {
			continue
		}
		img, err := s.renderer.DecodeImage(el.Source, ports.FormatAuto)
		if err != nil {
			// Unreadable photo: skip it and keep painting the rest.
			s.logger.Warn("Skipping undecodable image %s: %s", el.ID, err)
			continue
		}
		canvas.DrawImageRotated(img,
			scaled(el.Position.X, scale), scaled(el.Position.Y, scale),
			scaled(el.Position.Width, scale), scaled(el.Position.Height, scale),
			el.Position.RotationDegrees,
		)
	}
}

// paintOverlay draws the selection outline, corner handles and the delete
// affordance. The export pipeline never requests it.
func (s *Stage) paintOverlay(canvas ports.Canvas, doc journal.DocumentState, selectedID string, scale float64) {
	el := doc.ImageByID(selectedID)
	if el == nil {
		return
	}
	x := scaled(el.Position.X, scale)
	y := scaled(el.Position.Y, scale)
	w := scaled(el.Position.Width, scale)
	h := scaled(el.Position.Height, scale)

	canvas.DrawRectStroke(x, y, w, h, s.theme.Selection, outlineWidth)

	hs := scaled(handleSize, scale)
	for _, corner := range [][2]int{{x, y}, {x + w, y}, {x, y + h}, {x + w, y + h}} {
		canvas.DrawRect(corner[0]-hs/2, corner[1]-hs/2, hs, hs, s.theme.Selection)
	}

	// Delete affordance above the top-right handle.
	dx := x + w - hs/2
	dy := y - hs*2
	canvas.DrawRect(dx, dy, hs, hs, s.theme.Selection)
	canvas.DrawLine(dx+hs/4, dy+hs/4, dx+hs*3/4, dy+hs*3/4, color.White, 2)
	canvas.DrawLine(dx+hs*3/4, dy+hs/4, dx+hs/4, dy+hs*3/4, color.White, 2)
}

func (s *Stage) styleFor(block journal.TextBlock, scale float64) ports.TextStyle {
	size := paragraphFontSize
	if block.Kind == journal.KindLocation {
		size = block.Position.Height * locationFontFrac
	}
	return ports.TextStyle{
		FontSize: size * scale,
		FontPath: s.fontPath,
		Color:    parseHex(block.Color, color.RGBA{R: 40, G: 40, B: 40, A: 255}),
		Align:    ports.AlignLeft,
	}
}

func scaled(v, scale float64) int {
	return int(v*scale + 0.5)
}

// parseHex parses #rrggbb, falling back when the value is empty or invalid.
func parseHex(hex string, fallback color.Color) color.Color {
	if len(hex) != 7 || hex[0] != '#' {
		return fallback
	}
	var r, g, b uint8
	read := func(hi, lo byte) (uint8, bool) {
		h, ok1 := hexNibble(hi)
		l, ok2 := hexNibble(lo)
		return h<<4 | l, ok1 && ok2
	}
	var ok bool
	if r, ok = read(hex[1], hex[2]); !ok {
		return fallback
	}
	if g, ok = read(hex[3], hex[4]); !ok {
		return fallback
	}
	if b, ok = read(hex[5], hex[6]); !ok {
		return fallback
	}
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

func hexNibble(c byte) (uint8, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	default:
		return 0, false
	}
}
