package mocks

import (
	"image"

	"github.com/user/journalpage/pkg/ports"
)

// Sink is a mock implementation of ports.DebugSink that records what was
// saved.
type Sink struct {
	EnabledValue bool

	LayoutJSON   [][]byte
	PaletteJSON  [][]byte
	DocumentJSON [][]byte
	Pages        []image.Image
	Rasters      map[int][]byte
}

// NewSink creates an enabled mock sink.
func NewSink() *Sink {
	return &Sink{EnabledValue: true, Rasters: map[int][]byte{}}
}

func (m *Sink) Enabled() bool { return m.EnabledValue }

func (m *Sink) SaveLayoutJSON(data []byte) error {
	m.LayoutJSON = append(m.LayoutJSON, data)
	return nil
}

func (m *Sink) SavePaletteJSON(data []byte) error {
	m.PaletteJSON = append(m.PaletteJSON, data)
	return nil
}

func (m *Sink) SaveDocumentJSON(data []byte) error {
	m.DocumentJSON = append(m.DocumentJSON, data)
	return nil
}

func (m *Sink) SaveComposedPage(img image.Image) error {
	m.Pages = append(m.Pages, img)
	return nil
}

func (m *Sink) SaveRasterAttempt(tier int, data []byte) error {
	if m.Rasters == nil {
		m.Rasters = map[int][]byte{}
	}
	m.Rasters[tier] = data
	return nil
}

var _ ports.DebugSink = (*Sink)(nil)
