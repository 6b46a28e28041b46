// Package orchestrator coordinates all pipeline stages.
package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"image"

	"github.com/ideamans/go-l10n"

	"github.com/user/journalpage/pkg/journal"
	"github.com/user/journalpage/pkg/palette"
	"github.com/user/journalpage/pkg/pipeline"
	"github.com/user/journalpage/pkg/ports"
)

// Config contains all configuration for the orchestrator.
type Config struct {
	// Document content
	Date     string
	Location string
	Body     string
	Mode     journal.LayoutMode

	// Colors. An explicit LocationColor wins; otherwise the palette is
	// extracted from the uploaded photos and its first entry is used.
	LocationColor string
	PaletteSize   int

	// Ingest limits
	MaxPhotoDim     int
	PhotoByteBudget int

	// Output
	OutputPath string // empty uses the date-stamped filename
	PDF        bool
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	ingest := pipeline.DefaultIngestInput()
	return Config{
		Mode:            journal.ModeStandard,
		PaletteSize:     6,
		MaxPhotoDim:     ingest.MaxBoundingDim,
		PhotoByteBudget: ingest.ByteBudget,
	}
}

// Exporter is the export stage surface the orchestrator drives: the tiered
// raster chain plus the PDF path.
type Exporter interface {
	Execute(ctx context.Context, input pipeline.ExportInput) (pipeline.ExportResult, error)
	ExportPDF(ctx context.Context, input pipeline.ExportInput) (pipeline.PDFResult, error)
}

// Orchestrator coordinates the execution of all pipeline stages.
type Orchestrator struct {
	ingestStage pipeline.Stage[pipeline.IngestInput, pipeline.IngestResult]
	layoutStage pipeline.Stage[pipeline.LayoutInput, pipeline.LayoutResult]
	exporter    Exporter
	renderer    ports.Renderer
	fs          ports.FileSystem
	sink        ports.DebugSink
	logger      ports.Logger
}

// New creates a new Orchestrator.
func New(
	ingestStage pipeline.Stage[pipeline.IngestInput, pipeline.IngestResult],
	layoutStage pipeline.Stage[pipeline.LayoutInput, pipeline.LayoutResult],
	exporter Exporter,
	renderer ports.Renderer,
	fs ports.FileSystem,
	sink ports.DebugSink,
	logger ports.Logger,
) *Orchestrator {
	return &Orchestrator{
		ingestStage: ingestStage,
		layoutStage: layoutStage,
		exporter:    exporter,
		renderer:    renderer,
		fs:          fs,
		sink:        sink,
		logger:      logger,
	}
}

// Run executes the complete pipeline: ingest photos, pick colors, lay the
// page out and export it.
func (o *Orchestrator) Run(ctx context.Context, config Config, photos [][]byte) (RunResult, error) {
	o.logger.Info(l10n.T("Starting pipeline"))

	// 1. Ingest photos
	ingested, err := o.ingestStage.Execute(ctx, pipeline.IngestInput{
		Files:          photos,
		MaxBoundingDim: config.MaxPhotoDim,
		ByteBudget:     config.PhotoByteBudget,
	})
	if err != nil {
		return RunResult{}, fmt.Errorf("ingest stage: %w", err)
	}

	doc := journal.DocumentState{
		Date:     config.Date,
		Location: config.Location,
		Body:     config.Body,
		Mode:     config.Mode,
		Images:   ingested.Elements,
	}

	// 2. Pick the location colors
	colors := o.pickColors(config, ingested.Elements)
	doc.Colors = journal.TextColors{
		Location:       colors.primary,
		LocationShadow: colors.shadow,
	}

	// 3. Layout calculation
	o.logger.Info(l10n.T("Calculating layout"))
	layout, err := o.layoutStage.Execute(ctx, pipeline.LayoutInput{Document: doc})
	if err != nil {
		return RunResult{}, fmt.Errorf("layout stage: %w", err)
	}
	doc = layout.Document
	o.logger.Info(l10n.F("Layout calculated: %d blocks, %d images", len(doc.TextBlocks), len(doc.Images)))

	// Save layout debug output
	if o.sink.Enabled() {
		if data, err := json.MarshalIndent(layout.Placeholders, "", "  "); err == nil {
			o.sink.SaveLayoutJSON(data)
		}
		if data, err := json.MarshalIndent(doc.StripImagePayloads(), "", "  "); err == nil {
			o.sink.SaveDocumentJSON(data)
		}
	}

	// 4. Export
	exportInput := pipeline.ExportInput{
		Document:     doc,
		Placeholders: layout.Placeholders,
	}

	result := RunResult{
		PhotoCount:    len(doc.Images),
		SkippedPhotos: ingested.Skipped,
		Palette:       colors.palette,
	}
	var data []byte
	var filename string

	if config.PDF {
		pdf, err := o.exporter.ExportPDF(ctx, exportInput)
		if err != nil {
			o.logger.Error(l10n.F("Failed to export PDF: %s", err))
			return RunResult{}, fmt.Errorf("export stage: %w", err)
		}
		data, filename = pdf.Data, pdf.Filename
		result.PageCount = pdf.PageCount
		result.Format = "pdf"
	} else {
		raster, err := o.exporter.Execute(ctx, exportInput)
		if err != nil {
			o.logger.Error(l10n.F("Failed to render: %s", err))
			return RunResult{}, fmt.Errorf("export stage: %w", err)
		}
		data, filename = raster.Data, raster.Filename
		result.Tier = raster.Tier
		result.Format = "png"
		if raster.Format == pipeline.RasterJPEG {
			result.Format = "jpg"
		}
	}

	// 5. Write output file
	outputPath := config.OutputPath
	if outputPath == "" {
		outputPath = filename
	}
	if err := o.fs.WriteFile(outputPath, data); err != nil {
		o.logger.Error(l10n.F("Failed to write output: %s", err))
		return RunResult{}, fmt.Errorf("write output: %w", err)
	}
	o.logger.Info(l10n.F("Output saved to %s", outputPath))
	o.logger.Info(l10n.T("Pipeline completed successfully"))

	result.OutputPath = outputPath
	result.FileSize = len(data)
	return result, nil
}

type pickedColors struct {
	primary string
	shadow  string
	palette []string
}

// pickColors resolves the location color pair: an explicit configuration
// value wins over palette extraction from the photos.
func (o *Orchestrator) pickColors(config Config, elements []journal.ImageElement) pickedColors {
	if config.LocationColor != "" {
		return pickedColors{
			primary: config.LocationColor,
			shadow:  palette.ShadowColor(config.LocationColor, 0.7),
		}
	}

	var images []image.Image
	for _, el := range elements {
		img, err := o.renderer.DecodeImage(el.Source, ports.FormatAuto)
		if err != nil {
			continue
		}
		images = append(images, img)
	}

	size := config.PaletteSize
	if size <= 0 {
		size = DefaultConfig().PaletteSize
	}
	extracted := palette.ExtractPalette(images, size)

	if o.sink.Enabled() {
		if data, err := json.MarshalIndent(extracted, "", "  "); err == nil {
			o.sink.SavePaletteJSON(data)
		}
	}

	primary := palette.DefaultPalette[0]
	if len(extracted) > 0 {
		primary = extracted[0]
	}
	return pickedColors{
		primary: primary,
		shadow:  palette.ShadowColor(primary, 0.7),
		palette: extracted,
	}
}

// RunResult contains the results of a pipeline run for summary generation.
type RunResult struct {
	OutputPath string
	Format     string
	FileSize   int

	// Raster exports record the tier that succeeded; PDF exports record the
	// page count.
	Tier      int
	PageCount int

	PhotoCount    int
	SkippedPhotos int
	Palette       []string
}
