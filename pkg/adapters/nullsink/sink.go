// Package nullsink provides a no-op debug sink implementation.
package nullsink

import (
	"image"

	"github.com/user/journalpage/pkg/ports"
)

// Sink is a no-op implementation of ports.DebugSink.
// It discards all debug output.
type Sink struct{}

// New creates a new NullSink.
func New() *Sink {
	return &Sink{}
}

// Enabled returns false as this sink discards all output.
func (s *Sink) Enabled() bool {
	return false
}

// SaveLayoutJSON does nothing.
func (s *Sink) SaveLayoutJSON(data []byte) error {
	return nil
}

// SavePaletteJSON does nothing.
func (s *Sink) SavePaletteJSON(data []byte) error {
	return nil
}

// SaveDocumentJSON does nothing.
func (s *Sink) SaveDocumentJSON(data []byte) error {
	return nil
}

// SaveComposedPage does nothing.
func (s *Sink) SaveComposedPage(img image.Image) error {
	return nil
}

// SaveRasterAttempt does nothing.
func (s *Sink) SaveRasterAttempt(tier int, data []byte) error {
	return nil
}

// Ensure Sink implements ports.DebugSink
var _ ports.DebugSink = (*Sink)(nil)
