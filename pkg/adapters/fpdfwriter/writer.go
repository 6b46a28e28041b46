// Package fpdfwriter implements ports.PDFWriter on top of go-pdf/fpdf.
package fpdfwriter

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/user/journalpage/pkg/ports"
)

// Writer assembles a PDF document page by page. A Writer is single-use:
// after End it cannot be reused.
type Writer struct {
	pdf        *fpdf.Fpdf
	pageWidth  float64
	pageHeight float64
	images     int
}

// New creates an unstarted writer; Begin must be called before pages are
// added.
func New() *Writer {
	return &Writer{}
}

// Begin initializes the document with a custom page size in millimeters.
func (w *Writer) Begin(pageWidthMM, pageHeightMM float64) error {
	if w.pdf != nil {
		return errors.New("writer already started")
	}
	if pageWidthMM <= 0 || pageHeightMM <= 0 {
		return fmt.Errorf("invalid page size %vx%vmm", pageWidthMM, pageHeightMM)
	}
	w.pageWidth = pageWidthMM
	w.pageHeight = pageHeightMM
	w.pdf = fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: pageWidthMM, Ht: pageHeightMM},
	})
	// Image slices deliberately run past the page edge; fpdf must not
	// auto-insert pages for them.
	w.pdf.SetAutoPageBreak(false, 0)
	return nil
}

// AddImagePage appends a page and places the image at the given offset.
// Placing the same tall image with increasingly negative y offsets tiles it
// across pages.
func (w *Writer) AddImagePage(imageData []byte, format ports.ImageFormat, xMM, yMM, widthMM, heightMM float64) error {
	if w.pdf == nil {
		return errors.New("writer not started")
	}

	imageType, err := imageTypeName(format)
	if err != nil {
		return err
	}

	w.images++
	name := fmt.Sprintf("page-image-%d", w.images)
	options := fpdf.ImageOptions{ImageType: imageType}

	w.pdf.AddPage()
	w.pdf.RegisterImageOptionsReader(name, options, bytes.NewReader(imageData))
	w.pdf.ImageOptions(name, xMM, yMM, widthMM, heightMM, false, options, 0, "")

	if err := w.pdf.Error(); err != nil {
		return fmt.Errorf("place image: %w", err)
	}
	return nil
}

// End finalizes the document and returns the PDF bytes.
func (w *Writer) End() ([]byte, error) {
	if w.pdf == nil {
		return nil, errors.New("writer not started")
	}
	var buf bytes.Buffer
	if err := w.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("finalize PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func imageTypeName(format ports.ImageFormat) (string, error) {
	switch format {
	case ports.FormatJPEG:
		return "JPG", nil
	case ports.FormatPNG:
		return "PNG", nil
	default:
		return "", fmt.Errorf("unsupported image format: %d", format)
	}
}

var _ ports.PDFWriter = (*Writer)(nil)
