// Package export implements the high-resolution export pipeline: a tiered
// raster retry chain and A4 page tiling for PDF output.
package export

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math"
	"time"

	"github.com/user/journalpage/pkg/pipeline"
	"github.com/user/journalpage/pkg/ports"
)

// ErrExportExhausted is returned after every raster tier has failed. It is
// the pipeline's only user-visible failure; the caller should suggest a
// manual screenshot as the last resort.
var ErrExportExhausted = errors.New("all export quality tiers failed")

// Tier multipliers for the raster retry chain. The primary attempt is the
// extreme "ultra" tier; each retry degrades fidelity instead of aborting.
var defaultTiers = []float64{40, 14, 12, 10, 2}

const (
	jpegQuality = 92

	// pdfMultiplier balances quality against latency; PDF rasterizes once
	// rather than walking the retry chain.
	pdfMultiplier = 4

	// A4 page in millimeters.
	pdfPageWidthMM  = 210.0
	pdfPageHeightMM = 297.0

	defaultTierTimeout = 90 * time.Second
)

// Stage runs exports against the compose stage's paint routine.
type Stage struct {
	composeStage pipeline.Stage[pipeline.ComposeInput, pipeline.ComposeResult]
	renderer     ports.Renderer
	sink         ports.DebugSink
	logger       ports.Logger

	// newPDF creates a fresh writer per document; a writer cannot be
	// reused after End.
	newPDF func() ports.PDFWriter

	tiers       []float64
	tierTimeout time.Duration
}

// NewStage creates an export stage.
func NewStage(
	composeStage pipeline.Stage[pipeline.ComposeInput, pipeline.ComposeResult],
	renderer ports.Renderer,
	newPDF func() ports.PDFWriter,
	sink ports.DebugSink,
	logger ports.Logger,
) *Stage {
	return &Stage{
		composeStage: composeStage,
		renderer:     renderer,
		newPDF:       newPDF,
		sink:         sink,
		logger:       logger.WithComponent("export"),
		tiers:        defaultTiers,
		tierTimeout:  defaultTierTimeout,
	}
}

// SetTiers overrides the raster tier multipliers.
func (s *Stage) SetTiers(tiers []float64) {
	if len(tiers) > 0 {
		s.tiers = tiers
	}
}

// SetTierTimeout overrides the per-tier rasterization timeout.
func (s *Stage) SetTierTimeout(d time.Duration) {
	s.tierTimeout = d
}

// Execute runs the raster retry chain and returns the first tier that
// produces an artifact. Tier 1 encodes lossless PNG; the degraded retries
// encode high-quality JPEG.
func (s *Stage) Execute(ctx context.Context, input pipeline.ExportInput) (pipeline.ExportResult, error) {
	// Snapshot the document so a drag in progress on the live state cannot
	// race the rasterization pass.
	doc := input.Document.Clone()

	var lastErr error
	for i, multiplier := range s.tiers {
		tier := i + 1
		img, err := s.rasterize(ctx, pipeline.ComposeInput{
			Document:     doc,
			Scale:        multiplier,
			Placeholders: input.Placeholders,
		})
		if err != nil {
			s.logger.Warn("Raster tier %d at %.0fx failed: %s", tier, multiplier, err)
			lastErr = err
			continue
		}

		format := pipeline.RasterJPEG
		encoding := ports.FormatJPEG
		if tier == 1 {
			format = pipeline.RasterPNG
			encoding = ports.FormatPNG
		}
		data, err := s.renderer.EncodeImage(img, encoding, jpegQuality)
		if err != nil {
			s.logger.Warn("Encoding tier %d failed: %s", tier, err)
			lastErr = err
			continue
		}

		if s.sink.Enabled() {
			s.sink.SaveRasterAttempt(tier, data)
		}
		s.logger.Info("Export succeeded at tier %d (%.0fx, %d bytes)", tier, multiplier, len(data))
		return pipeline.ExportResult{
			Data:     data,
			Format:   format,
			Filename: Filename(doc.Date, format),
			Tier:     tier,
		}, nil
	}

	if lastErr != nil {
		return pipeline.ExportResult{}, fmt.Errorf("%w: %s", ErrExportExhausted, lastErr)
	}
	return pipeline.ExportResult{}, ErrExportExhausted
}

// ExportPDF rasterizes once at a fixed multiplier and tiles the tall image
// across as many A4 pages as it covers, using an increasing negative
// vertical offset per page. This is page-splitting of one raster, not true
// multi-page layout.
func (s *Stage) ExportPDF(ctx context.Context, input pipeline.ExportInput) (pipeline.PDFResult, error) {
	doc := input.Document.Clone()

	img, err := s.rasterize(ctx, pipeline.ComposeInput{
		Document:     doc,
		Scale:        pdfMultiplier,
		Placeholders: input.Placeholders,
	})
	if err != nil {
		return pipeline.PDFResult{}, fmt.Errorf("rasterize for PDF: %w", err)
	}
	data, err := s.renderer.EncodeImage(img, ports.FormatJPEG, jpegQuality)
	if err != nil {
		return pipeline.PDFResult{}, fmt.Errorf("encode for PDF: %w", err)
	}

	bounds := img.Bounds()
	imageHeightMM := float64(bounds.Dy()) * pdfPageWidthMM / float64(bounds.Dx())
	pageCount := int(math.Ceil(imageHeightMM / pdfPageHeightMM))
	if pageCount < 1 {
		pageCount = 1
	}

	writer := s.newPDF()
	if err := writer.Begin(pdfPageWidthMM, pdfPageHeightMM); err != nil {
		return pipeline.PDFResult{}, fmt.Errorf("begin PDF: %w", err)
	}
	for page := 0; page < pageCount; page++ {
		offsetMM := -float64(page) * pdfPageHeightMM
		if err := writer.AddImagePage(data, ports.FormatJPEG, 0, offsetMM, pdfPageWidthMM, imageHeightMM); err != nil {
			return pipeline.PDFResult{}, fmt.Errorf("add PDF page %d: %w", page+1, err)
		}
	}
	out, err := writer.End()
	if err != nil {
		return pipeline.PDFResult{}, fmt.Errorf("finalize PDF: %w", err)
	}

	s.logger.Info("PDF exported: %d pages, %d bytes", pageCount, len(out))
	return pipeline.PDFResult{
		Data:      out,
		PageCount: pageCount,
		Filename:  pdfFilename(doc.Date),
	}, nil
}

// rasterize paints one tier under a timeout, converting panics from
// oversized allocations into ordinary errors so the chain can degrade.
func (s *Stage) rasterize(ctx context.Context, input pipeline.ComposeInput) (img image.Image, err error) {
	tierCtx, cancel := context.WithTimeout(ctx, s.tierTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			img = nil
			err = fmt.Errorf("rasterization panic: %v", r)
		}
	}()

	result, err := s.composeStage.Execute(tierCtx, input)
	if err != nil {
		return nil, err
	}
	if err := tierCtx.Err(); err != nil {
		return nil, err
	}
	if result.Image == nil {
		return nil, errors.New("compose produced no image")
	}
	return result.Image, nil
}

// Filename returns the date-stamped download name for a raster export.
func Filename(date string, format pipeline.RasterFormat) string {
	ext := "jpg"
	if format == pipeline.RasterPNG {
		ext = "png"
	}
	return fmt.Sprintf("journal-%s.%s", datePart(date), ext)
}

func pdfFilename(date string) string {
	return fmt.Sprintf("journal-%s.pdf", datePart(date))
}

func datePart(date string) string {
	if date != "" {
		return date
	}
	return time.Now().Format("2006-01-02")
}
