// Package ingest decodes and compresses uploaded photos into image elements.
package ingest

import (
	"context"
	"image"

	"github.com/disintegration/imaging"

	"github.com/user/journalpage/pkg/journal"
	"github.com/user/journalpage/pkg/pipeline"
	"github.com/user/journalpage/pkg/ports"
)

// Quality steps tried while re-encoding under the byte budget.
var qualitySteps = []int{85, 75, 65, 60}

// Stage turns raw uploaded files into compressed ImageElements.
type Stage struct {
	renderer ports.Renderer
	logger   ports.Logger
}

// NewStage creates an ingest stage.
func NewStage(renderer ports.Renderer, logger ports.Logger) *Stage {
	return &Stage{
		renderer: renderer,
		logger:   logger.WithComponent("ingest"),
	}
}

// Execute processes every file independently. An unreadable file is skipped
// and counted, never surfaced as a hard failure; a compression failure falls
// back to a plain resized copy and finally to the original bytes, so an
// upload that decodes is never rejected.
func (s *Stage) Execute(ctx context.Context, input pipeline.IngestInput) (pipeline.IngestResult, error) {
	result := pipeline.IngestResult{}

	maxDim := input.MaxBoundingDim
	if maxDim <= 0 {
		maxDim = pipeline.DefaultIngestInput().MaxBoundingDim
	}
	budget := input.ByteBudget
	if budget <= 0 {
		budget = pipeline.DefaultIngestInput().ByteBudget
	}

	for i, file := range input.Files {
		img, err := s.renderer.DecodeImage(file, ports.FormatAuto)
		if err != nil {
			s.logger.Warn("Skipping unreadable photo %d: %s", i, err)
			result.Skipped++
			continue
		}

		bounds := img.Bounds()
		aspect := 1.0
		if bounds.Dy() > 0 {
			aspect = float64(bounds.Dx()) / float64(bounds.Dy())
		}

		source := s.compress(img, file, maxDim, budget)
		element := journal.NewImageElement(source, aspect)
		element.ZOrder = len(result.Elements)
		result.Elements = append(result.Elements, element)
	}

	s.logger.Debug("Ingested %d photos, skipped %d", len(result.Elements), result.Skipped)
	return result, nil
}

// compress bounds the photo's long edge and re-encodes it stepping JPEG
// quality down until the byte budget holds. Every failure degrades to a
// simpler copy instead of erroring out.
func (s *Stage) compress(img image.Image, original []byte, maxDim, budget int) []byte {
	bounds := img.Bounds()
	resized := img
	if bounds.Dx() > maxDim || bounds.Dy() > maxDim {
		resized = imaging.Fit(img, maxDim, maxDim, imaging.Lanczos)
	}

	var smallest []byte
	for _, quality := range qualitySteps {
		data, err := s.renderer.EncodeImage(resized, ports.FormatJPEG, quality)
		if err != nil {
			break
		}
		if smallest == nil || len(data) < len(smallest) {
			smallest = data
		}
		if len(data) <= budget {
			return data
		}
	}
	if smallest != nil {
		// Over budget at the lowest step: ship the smallest attempt rather
		// than rejecting the upload.
		return smallest
	}

	// Encoding failed outright; fall back to a plain resized copy.
	fallback := s.renderer.ResizeImage(img, resized.Bounds().Dx(), resized.Bounds().Dy())
	if data, err := s.renderer.EncodeImage(fallback, ports.FormatJPEG, qualitySteps[0]); err == nil {
		return data
	}
	s.logger.Warn("Photo compression failed, keeping the original bytes")
	return original
}
