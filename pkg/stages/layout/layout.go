// Package layout implements the page layout stage.
package layout

import (
	"context"
	"math"

	"github.com/user/journalpage/pkg/geometry"
	"github.com/user/journalpage/pkg/journal"
	"github.com/user/journalpage/pkg/pipeline"
)

// Stage assigns positions to text blocks and images.
// This is a pure function with no external dependencies.
type Stage struct{}

// NewStage creates a new layout stage.
func NewStage() *Stage {
	return &Stage{}
}

// Execute computes the layout for the document's layout mode.
func (s *Stage) Execute(ctx context.Context, input pipeline.LayoutInput) (pipeline.LayoutResult, error) {
	return ComputeLayout(input.Document), nil
}

// Freeflow placement constants: new images land near the page center with a
// deterministic spread so sequential uploads fan out instead of stacking.
const (
	freeflowSpreadX   = 300.0
	freeflowSpreadY   = 200.0
	freeflowLongEdge  = 600.0
	deterministicMax  = 3 // image slots in standard/mirrored modes
	extraBlockGapFrac = 0.02
)

// Named regions for the standard mode, as fractions of the page. Image and
// text slots alternate sides row by row; the mirrored mode flips every
// region to the opposite horizontal side.
var (
	locationRegion = geometry.FracRect{X: 0.05, Y: 0.08, Width: 0.90, Height: 0.06}

	imageRegions = []geometry.FracRect{
		{X: 0.07, Y: 0.18, Width: 0.40, Height: 0.22},
		{X: 0.53, Y: 0.44, Width: 0.40, Height: 0.22},
		{X: 0.07, Y: 0.70, Width: 0.40, Height: 0.22},
	}

	textRegions = []geometry.FracRect{
		{X: 0.53, Y: 0.18, Width: 0.40, Height: 0.22},
		{X: 0.07, Y: 0.44, Width: 0.40, Height: 0.22},
		{X: 0.53, Y: 0.70, Width: 0.40, Height: 0.22},
	}
)

// Regions returns the deterministic regions for a mode. The mirrored mode
// swaps the horizontal side of every region while leaving widths and heights
// unchanged; the location strip is symmetric so it maps onto itself.
func Regions(mode journal.LayoutMode) (location geometry.Rect, images, texts []geometry.Rect) {
	flip := mode == journal.ModeMirrored

	resolve := func(f geometry.FracRect) geometry.Rect {
		if flip {
			f = f.MirrorX()
		}
		return f.Resolve()
	}

	location = resolve(locationRegion)
	for _, f := range imageRegions {
		images = append(images, resolve(f))
	}
	for _, f := range textRegions {
		texts = append(texts, resolve(f))
	}
	return location, images, texts
}

// ComputeLayout assigns concrete positions for the document's mode.
//
// Deterministic modes rebuild every text block from the raw body text and
// override stored image positions with slot placements. Freeflow assigns a
// position only to elements that do not have one yet, so switching into
// freeflow never discards what the user arranged.
func ComputeLayout(doc journal.DocumentState) pipeline.LayoutResult {
	// Positions are assigned through the slice, so work on a copy: the
	// caller's document and earlier results must not change under it.
	doc.Images = append([]journal.ImageElement(nil), doc.Images...)

	if doc.Mode == journal.ModeFreeflow {
		return computeFreeflow(doc)
	}
	return computeDeterministic(doc)
}

func computeDeterministic(doc journal.DocumentState) pipeline.LayoutResult {
	location, imageSlots, textSlots := Regions(doc.Mode)

	doc.TextBlocks = buildTextBlocks(doc, location, textSlots)

	placeholders := []geometry.Rect{}
	for i := range doc.Images {
		if i >= deterministicMax {
			// Beyond the fixed slots the deterministic modes have no
			// home; overflow images get the freeflow spread.
			doc.Images[i].Position = PlaceNewImage(i-deterministicMax, doc.Images[i].NaturalAspectRatio)
		} else {
			doc.Images[i].Position = geometry.FitWithin(imageSlots[i], doc.Images[i].NaturalAspectRatio)
		}
		doc.Images[i].ZOrder = i
	}
	for i := len(doc.Images); i < len(imageSlots); i++ {
		placeholders = append(placeholders, imageSlots[i])
	}

	return pipeline.LayoutResult{Document: doc, Placeholders: placeholders}
}

func computeFreeflow(doc journal.DocumentState) pipeline.LayoutResult {
	location, _, textSlots := Regions(journal.ModeStandard)

	// Blocks that already carry a position are user-arranged; keep them.
	existing := map[int]geometry.Position{}
	for _, b := range doc.TextBlocks {
		if b.Kind == journal.KindParagraph && b.Position != (geometry.Position{}) {
			existing[b.Index] = b.Position
		}
	}

	doc.TextBlocks = buildTextBlocks(doc, location, textSlots)
	for i := range doc.TextBlocks {
		b := &doc.TextBlocks[i]
		if pos, ok := existing[b.Index]; ok && b.Kind == journal.KindParagraph {
			b.Position = pos
		}
	}

	placed := 0
	for i := range doc.Images {
		if doc.Images[i].Position == (geometry.Position{}) {
			doc.Images[i].Position = PlaceNewImage(placed, doc.Images[i].NaturalAspectRatio)
		}
		doc.Images[i].ZOrder = i
		placed++
	}

	// Freeflow has no placeholders; empty slots simply do not exist.
	return pipeline.LayoutResult{Document: doc, Placeholders: []geometry.Rect{}}
}

// buildTextBlocks regenerates all text blocks from the document's raw text.
func buildTextBlocks(doc journal.DocumentState, location geometry.Rect, textSlots []geometry.Rect) []journal.TextBlock {
	blocks := []journal.TextBlock{{
		Kind:        journal.KindLocation,
		Content:     doc.Location,
		Color:       doc.Colors.Location,
		ShadowColor: doc.Colors.LocationShadow,
		Position: geometry.Position{
			X: location.X, Y: location.Y,
			Width: location.Width, Height: location.Height,
		},
	}}

	paragraphs := journal.SplitParagraphs(doc.Body)
	gap := extraBlockGapFrac * geometry.PageHeight
	for i, content := range paragraphs {
		var rect geometry.Rect
		if i < len(textSlots) {
			rect = textSlots[i]
		} else {
			// Extra paragraphs stack below the last slot.
			last := textSlots[len(textSlots)-1]
			over := float64(i - len(textSlots) + 1)
			rect = geometry.Rect{
				X:      last.X,
				Y:      last.Y + over*(last.Height+gap),
				Width:  last.Width,
				Height: last.Height,
			}
			if rect.Y+rect.Height > geometry.PageHeight {
				rect.Y = geometry.PageHeight - rect.Height
			}
		}
		blocks = append(blocks, journal.TextBlock{
			Kind:        journal.KindParagraph,
			Content:     content,
			Index:       i,
			Color:       doc.Colors.Location,
			ShadowColor: doc.Colors.LocationShadow,
			Position: geometry.Position{
				X: rect.X, Y: rect.Y,
				Width: rect.Width, Height: rect.Height,
			},
		})
	}
	return blocks
}

// PlaceNewImage returns the freeflow position for the n-th inserted image:
// centered on the page with a deterministic offset spread, scaled so the
// long edge equals the target dimension while preserving aspect ratio.
func PlaceNewImage(n int, aspect float64) geometry.Position {
	if aspect <= 0 {
		aspect = 1
	}
	w := freeflowLongEdge
	h := w / aspect
	if h > w {
		h = freeflowLongEdge
		w = h * aspect
	}

	offsetX := float64(n%3-1) * freeflowSpreadX
	offsetY := math.Floor(float64(n)/3) * freeflowSpreadY

	pos := geometry.Position{
		X:      geometry.PageWidth/2 - w/2 + offsetX,
		Y:      geometry.PageHeight/2 - h/2 + offsetY,
		Width:  w,
		Height: h,
	}
	return geometry.ClampToPage(pos)
}
