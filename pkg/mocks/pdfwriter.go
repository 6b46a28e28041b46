package mocks

import (
	"github.com/user/journalpage/pkg/ports"
)

// PDFPage records one AddImagePage call on the mock writer.
type PDFPage struct {
	DataLen  int
	Format   ports.ImageFormat
	X, Y     float64
	W, H     float64
}

// PDFWriter is a mock implementation of ports.PDFWriter.
type PDFWriter struct {
	PageWidthMM  float64
	PageHeightMM float64
	Pages        []PDFPage

	BeginFunc func(w, h float64) error
	EndFunc   func() ([]byte, error)
}

func (m *PDFWriter) Begin(pageWidthMM, pageHeightMM float64) error {
	if m.BeginFunc != nil {
		return m.BeginFunc(pageWidthMM, pageHeightMM)
	}
	m.PageWidthMM = pageWidthMM
	m.PageHeightMM = pageHeightMM
	return nil
}

func (m *PDFWriter) AddImagePage(imageData []byte, format ports.ImageFormat, xMM, yMM, widthMM, heightMM float64) error {
	m.Pages = append(m.Pages, PDFPage{
		DataLen: len(imageData),
		Format:  format,
		X:       xMM, Y: yMM,
		W: widthMM, H: heightMM,
	})
	return nil
}

func (m *PDFWriter) End() ([]byte, error) {
	if m.EndFunc != nil {
		return m.EndFunc()
	}
	return []byte("%PDF-mock"), nil
}

var _ ports.PDFWriter = (*PDFWriter)(nil)
