package ports

// PDFWriter abstracts multi-page PDF assembly.
//
// The export pipeline produces one tall raster and tiles it across pages by
// placing the same image on every page with an increasing negative vertical
// offset, so the writer only needs page creation and image placement.
type PDFWriter interface {
	// Begin initializes a document with the given page size in millimeters.
	Begin(pageWidthMM, pageHeightMM float64) error

	// AddImagePage appends a page and places the image on it.
	// Coordinates and dimensions are in millimeters; yMM may be negative to
	// show a lower slice of a tall image.
	AddImagePage(imageData []byte, format ImageFormat, xMM, yMM, widthMM, heightMM float64) error

	// End finalizes the document and returns the PDF bytes.
	End() ([]byte, error)
}
