package pipeline

import (
	"image"

	"github.com/user/journalpage/pkg/geometry"
	"github.com/user/journalpage/pkg/journal"
)

// =============================================================================
// Ingest Stage Types
// =============================================================================

// IngestInput contains the raw uploaded photo files.
type IngestInput struct {
	Files [][]byte

	// MaxBoundingDim is the longest edge kept after compression (pixels).
	MaxBoundingDim int

	// ByteBudget is the target encoded size per photo. Compression steps
	// quality down until the photo fits or falls back uncompressed.
	ByteBudget int
}

// DefaultIngestInput returns IngestInput with default limits.
func DefaultIngestInput() IngestInput {
	return IngestInput{
		MaxBoundingDim: 1600,
		ByteBudget:     500 * 1024,
	}
}

// IngestResult contains the decoded, compressed image elements.
// Unreadable files are skipped, not reported as errors.
type IngestResult struct {
	Elements []journal.ImageElement
	Skipped  int
}

// =============================================================================
// Layout Stage Types
// =============================================================================

// LayoutInput carries the document to lay out.
type LayoutInput struct {
	Document journal.DocumentState
}

// LayoutResult is the document with positions assigned plus the regions left
// empty, which deterministic modes render as placeholders.
type LayoutResult struct {
	Document     journal.DocumentState
	Placeholders []geometry.Rect
}

// =============================================================================
// Compose Stage Types
// =============================================================================

// Caret identifies where the text cursor should be painted.
type Caret struct {
	BlockIndex int // index into Document.TextBlocks
	RuneOffset int // offset into the block's content
}

// ComposeInput describes one paint of the render surface.
type ComposeInput struct {
	Document journal.DocumentState

	// Scale multiplies canonical units to output pixels. 1.0 paints the
	// page at its natural size; export tiers pass large multipliers.
	Scale float64

	// Overlay draws selection chrome for SelectedID. Never set on the
	// export path.
	Overlay    bool
	SelectedID string

	// Caret, when non-nil, draws the text cursor.
	Caret *Caret

	// Placeholders are empty regions drawn as outlines in deterministic
	// layout modes.
	Placeholders []geometry.Rect
}

// ComposeResult is the painted page.
type ComposeResult struct {
	Image image.Image
}

// =============================================================================
// Export Stage Types
// =============================================================================

// RasterFormat is the encoding of a finished raster export.
type RasterFormat int

const (
	RasterPNG RasterFormat = iota
	RasterJPEG
)

// ExportInput describes one export request.
type ExportInput struct {
	Document     journal.DocumentState
	Placeholders []geometry.Rect
}

// ExportResult is the finished artifact with a suggested filename.
type ExportResult struct {
	Data     []byte
	Format   RasterFormat
	Filename string

	// Tier records which attempt in the retry chain produced the result
	// (1 is the primary, highest-fidelity attempt).
	Tier int
}

// PDFResult is the finished PDF with page accounting.
type PDFResult struct {
	Data      []byte
	PageCount int
	Filename  string
}
