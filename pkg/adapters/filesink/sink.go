// Package filesink provides a file-based debug sink implementation.
package filesink

import (
	"fmt"
	"image"
	"path/filepath"

	"github.com/user/journalpage/pkg/ports"
)

// Sink saves debug output to files.
type Sink struct {
	baseDir  string
	fs       ports.FileSystem
	renderer ports.Renderer
}

// New creates a new FileSink.
func New(baseDir string, fs ports.FileSystem, renderer ports.Renderer) *Sink {
	return &Sink{
		baseDir:  baseDir,
		fs:       fs,
		renderer: renderer,
	}
}

// Enabled returns true as this sink saves output.
func (s *Sink) Enabled() bool {
	return true
}

// SaveLayoutJSON saves the layout calculation result as JSON.
func (s *Sink) SaveLayoutJSON(data []byte) error {
	path := filepath.Join(s.baseDir, "layout.json")
	return s.fs.WriteFile(path, data)
}

// SavePaletteJSON saves the extracted palette as JSON.
func (s *Sink) SavePaletteJSON(data []byte) error {
	path := filepath.Join(s.baseDir, "palette.json")
	return s.fs.WriteFile(path, data)
}

// SaveDocumentJSON saves the document state as JSON.
func (s *Sink) SaveDocumentJSON(data []byte) error {
	path := filepath.Join(s.baseDir, "document.json")
	return s.fs.WriteFile(path, data)
}

// SaveComposedPage saves a composed page image.
func (s *Sink) SaveComposedPage(img image.Image) error {
	data, err := s.renderer.EncodeImage(img, ports.FormatPNG, 0)
	if err != nil {
		return fmt.Errorf("encode composed page: %w", err)
	}
	path := filepath.Join(s.baseDir, "page.png")
	return s.fs.WriteFile(path, data)
}

// SaveRasterAttempt saves the raster produced by one export tier.
func (s *Sink) SaveRasterAttempt(tier int, data []byte) error {
	dir := filepath.Join(s.baseDir, "rasters")
	if err := s.fs.MkdirAll(dir); err != nil {
		return err
	}
	path := filepath.Join(dir, fmt.Sprintf("tier-%02d.bin", tier))
	return s.fs.WriteFile(path, data)
}

// Ensure Sink implements ports.DebugSink
var _ ports.DebugSink = (*Sink)(nil)
