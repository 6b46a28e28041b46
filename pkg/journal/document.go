// Package journal defines the document aggregate that the layout engine,
// interaction controller, render surface and export pipeline all operate on.
package journal

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"

	"github.com/user/journalpage/pkg/geometry"
)

// LayoutMode selects how element positions are determined.
type LayoutMode string

const (
	// ModeStandard assigns text and images to fixed regions.
	ModeStandard LayoutMode = "standard"
	// ModeMirrored is ModeStandard with every region flipped to the
	// opposite horizontal side of the page.
	ModeMirrored LayoutMode = "mirrored"
	// ModeFreeflow disables deterministic slotting; every position is
	// user-controlled.
	ModeFreeflow LayoutMode = "freeflow"
)

// TextBlockKind distinguishes the location line from body paragraphs.
type TextBlockKind string

const (
	KindLocation  TextBlockKind = "location"
	KindParagraph TextBlockKind = "paragraph"
)

// TextBlock is one positioned run of text on the page. Blocks are
// regenerated from the raw body text whenever it changes; they are not
// independently persisted in deterministic layout modes.
type TextBlock struct {
	Kind        TextBlockKind     `json:"kind"`
	Content     string            `json:"content"`
	Index       int               `json:"index"`
	Color       string            `json:"color"`
	ShadowColor string            `json:"shadowColor"`
	Position    geometry.Position `json:"position"`
}

// ImageElement is one photograph placed on the page.
type ImageElement struct {
	ID                 string            `json:"id"`
	Source             []byte            `json:"source"`
	Position           geometry.Position `json:"position"`
	NaturalAspectRatio float64           `json:"naturalAspectRatio"`
	ZOrder             int               `json:"zOrder"`
}

// NewImageElement creates an element with a fresh identity.
func NewImageElement(source []byte, aspect float64) ImageElement {
	return ImageElement{
		ID:                 uuid.NewString(),
		Source:             source,
		NaturalAspectRatio: aspect,
	}
}

// TextColors is the foreground/shadow pair applied to the location line.
type TextColors struct {
	Location       string `json:"locationColor"`
	LocationShadow string `json:"locationShadowColor"`
}

// DocumentState is the aggregate handed to persistence and export.
// There is exactly one per session; all mutation is UI-thread-synchronous.
type DocumentState struct {
	Date       string         `json:"date"`
	Location   string         `json:"location"`
	Body       string         `json:"body"`
	TextBlocks []TextBlock    `json:"textBlocks"`
	Images     []ImageElement `json:"images"`
	Colors     TextColors     `json:"textColors"`
	Mode       LayoutMode     `json:"layoutMode"`
}

// Clone returns a deep copy. The export pipeline snapshots the document this
// way so an in-flight drag never races a rasterization pass.
func (d DocumentState) Clone() DocumentState {
	out := d
	out.TextBlocks = make([]TextBlock, len(d.TextBlocks))
	copy(out.TextBlocks, d.TextBlocks)
	out.Images = make([]ImageElement, len(d.Images))
	for i, img := range d.Images {
		cp := img
		cp.Source = make([]byte, len(img.Source))
		copy(cp.Source, img.Source)
		out.Images[i] = cp
	}
	return out
}

// ImageByID returns a pointer into the Images slice, or nil.
func (d *DocumentState) ImageByID(id string) *ImageElement {
	for i := range d.Images {
		if d.Images[i].ID == id {
			return &d.Images[i]
		}
	}
	return nil
}

// RemoveImage deletes the element with the given id and reports whether it
// existed.
func (d *DocumentState) RemoveImage(id string) bool {
	for i := range d.Images {
		if d.Images[i].ID == id {
			d.Images = append(d.Images[:i], d.Images[i+1:]...)
			return true
		}
	}
	return false
}

// Marshal serializes the document for persistence.
func (d DocumentState) Marshal() ([]byte, error) {
	return json.Marshal(d)
}

// Unmarshal restores a document from its serialized form.
func Unmarshal(data []byte) (DocumentState, error) {
	var d DocumentState
	err := json.Unmarshal(data, &d)
	return d, err
}

// StripImagePayloads returns a copy with image bytes removed, keeping the
// geometry. Used when a save hits the storage quota.
func (d DocumentState) StripImagePayloads() DocumentState {
	out := d.Clone()
	for i := range out.Images {
		out.Images[i].Source = nil
	}
	return out
}

// SplitParagraphs derives paragraph strings from raw body text by splitting
// on blank-line boundaries. Runs of blank lines collapse; there are no empty
// paragraphs in the result.
func SplitParagraphs(body string) []string {
	normalized := strings.ReplaceAll(body, "\r\n", "\n")
	parts := strings.Split(normalized, "\n\n")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.Trim(part, "\n")
		if strings.TrimSpace(trimmed) == "" {
			continue
		}
		out = append(out, trimmed)
	}
	return out
}
