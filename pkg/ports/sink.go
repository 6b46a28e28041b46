package ports

import (
	"image"
)

// DebugSink abstracts debug output for intermediate results.
// It allows saving intermediate processing results for debugging purposes.
type DebugSink interface {
	// Enabled returns true if debug output is enabled.
	Enabled() bool

	// SaveLayoutJSON saves the layout calculation result as JSON.
	SaveLayoutJSON(data []byte) error

	// SavePaletteJSON saves the extracted palette as JSON.
	SavePaletteJSON(data []byte) error

	// SaveDocumentJSON saves the document state as JSON.
	SaveDocumentJSON(data []byte) error

	// SaveComposedPage saves a composed page image.
	SaveComposedPage(img image.Image) error

	// SaveRasterAttempt saves the raster produced by one export tier.
	SaveRasterAttempt(tier int, data []byte) error
}
