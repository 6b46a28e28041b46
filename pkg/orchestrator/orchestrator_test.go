package orchestrator

import (
	"context"
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/user/journalpage/pkg/journal"
	"github.com/user/journalpage/pkg/mocks"
	"github.com/user/journalpage/pkg/pipeline"
	"github.com/user/journalpage/pkg/ports"
)

type fakeExporter struct {
	rasterErr error
	pdfErr    error
	lastInput pipeline.ExportInput
	pdfCalled bool
}

func (f *fakeExporter) Execute(ctx context.Context, input pipeline.ExportInput) (pipeline.ExportResult, error) {
	f.lastInput = input
	if f.rasterErr != nil {
		return pipeline.ExportResult{}, f.rasterErr
	}
	return pipeline.ExportResult{
		Data:     []byte{1, 2, 3},
		Format:   pipeline.RasterPNG,
		Filename: "journal-2025-06-01.png",
		Tier:     1,
	}, nil
}

func (f *fakeExporter) ExportPDF(ctx context.Context, input pipeline.ExportInput) (pipeline.PDFResult, error) {
	f.pdfCalled = true
	f.lastInput = input
	if f.pdfErr != nil {
		return pipeline.PDFResult{}, f.pdfErr
	}
	return pipeline.PDFResult{Data: []byte("%PDF"), PageCount: 2, Filename: "journal-2025-06-01.pdf"}, nil
}

func passthroughIngest(elements ...journal.ImageElement) pipeline.Stage[pipeline.IngestInput, pipeline.IngestResult] {
	return pipeline.StageFunc[pipeline.IngestInput, pipeline.IngestResult](
		func(ctx context.Context, input pipeline.IngestInput) (pipeline.IngestResult, error) {
			return pipeline.IngestResult{Elements: elements, Skipped: 1}, nil
		})
}

func passthroughLayout(seen *pipeline.LayoutInput) pipeline.Stage[pipeline.LayoutInput, pipeline.LayoutResult] {
	return pipeline.StageFunc[pipeline.LayoutInput, pipeline.LayoutResult](
		func(ctx context.Context, input pipeline.LayoutInput) (pipeline.LayoutResult, error) {
			if seen != nil {
				*seen = input
			}
			return pipeline.LayoutResult{Document: input.Document}, nil
		})
}

func newOrchestrator(exporter Exporter, fs *mocks.FileSystem, layoutSeen *pipeline.LayoutInput) *Orchestrator {
	renderer := &mocks.Renderer{
		DecodeImageFunc: func(data []byte, format ports.ImageFormat) (image.Image, error) {
			img := image.NewRGBA(image.Rect(0, 0, 10, 10))
			for y := 0; y < 10; y++ {
				for x := 0; x < 10; x++ {
					img.Set(x, y, color.RGBA{R: 200, G: 40, B: 40, A: 255})
				}
			}
			return img, nil
		},
	}
	element := journal.NewImageElement([]byte{0xff}, 1.0)
	return New(
		passthroughIngest(element),
		passthroughLayout(layoutSeen),
		exporter,
		renderer,
		fs,
		mocks.NewSink(),
		&mocks.Logger{},
	)
}

func TestRun_WritesRasterOutput(t *testing.T) {
	fs := mocks.NewFileSystem()
	exporter := &fakeExporter{}
	var layoutSeen pipeline.LayoutInput
	o := newOrchestrator(exporter, fs, &layoutSeen)

	config := DefaultConfig()
	config.Date = "2025-06-01"
	config.Location = "Lisbon"
	config.Body = "A long day."

	result, err := o.Run(context.Background(), config, [][]byte{{0xff}})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.OutputPath != "journal-2025-06-01.png" {
		t.Errorf("output path %q", result.OutputPath)
	}
	if _, ok := fs.GetFile("journal-2025-06-01.png"); !ok {
		t.Error("output file not written")
	}
	if result.Tier != 1 || result.Format != "png" {
		t.Errorf("result %+v", result)
	}
	if result.PhotoCount != 1 || result.SkippedPhotos != 1 {
		t.Errorf("photo accounting wrong: %+v", result)
	}
	if layoutSeen.Document.Location != "Lisbon" || layoutSeen.Document.Body != "A long day." {
		t.Errorf("layout did not receive the document: %+v", layoutSeen.Document)
	}
	if exporter.pdfCalled {
		t.Error("PDF path taken for a raster export")
	}
}

func TestRun_ExplicitOutputPathWins(t *testing.T) {
	fs := mocks.NewFileSystem()
	o := newOrchestrator(&fakeExporter{}, fs, nil)

	config := DefaultConfig()
	config.OutputPath = "out/page.png"

	result, err := o.Run(context.Background(), config, nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.OutputPath != "out/page.png" {
		t.Errorf("output path %q", result.OutputPath)
	}
	if _, ok := fs.GetFile("out/page.png"); !ok {
		t.Error("output not written to the configured path")
	}
}

func TestRun_PDFPath(t *testing.T) {
	fs := mocks.NewFileSystem()
	exporter := &fakeExporter{}
	o := newOrchestrator(exporter, fs, nil)

	config := DefaultConfig()
	config.PDF = true

	result, err := o.Run(context.Background(), config, nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !exporter.pdfCalled {
		t.Fatal("PDF exporter not invoked")
	}
	if result.Format != "pdf" || result.PageCount != 2 {
		t.Errorf("result %+v", result)
	}
	if _, ok := fs.GetFile("journal-2025-06-01.pdf"); !ok {
		t.Error("PDF not written")
	}
}

func TestRun_ExplicitColorSkipsExtraction(t *testing.T) {
	exporter := &fakeExporter{}
	var layoutSeen pipeline.LayoutInput
	o := newOrchestrator(exporter, mocks.NewFileSystem(), &layoutSeen)

	config := DefaultConfig()
	config.LocationColor = "#ffffff"

	if _, err := o.Run(context.Background(), config, nil); err != nil {
		t.Fatalf("run: %v", err)
	}
	colors := layoutSeen.Document.Colors
	if colors.Location != "#ffffff" {
		t.Errorf("location color %q", colors.Location)
	}
	if colors.LocationShadow != "#b2b2b2" {
		t.Errorf("shadow color %q, want the 0.7 multiply of white", colors.LocationShadow)
	}
}

func TestRun_PaletteExtractionColorsLocation(t *testing.T) {
	exporter := &fakeExporter{}
	var layoutSeen pipeline.LayoutInput
	o := newOrchestrator(exporter, mocks.NewFileSystem(), &layoutSeen)

	if _, err := o.Run(context.Background(), DefaultConfig(), [][]byte{{0xff}}); err != nil {
		t.Fatalf("run: %v", err)
	}
	colors := layoutSeen.Document.Colors
	if colors.Location == "" || colors.LocationShadow == "" {
		t.Errorf("expected extracted colors, got %+v", colors)
	}
}

func TestRun_ExportFailurePropagates(t *testing.T) {
	exporter := &fakeExporter{rasterErr: errors.New("all tiers failed")}
	o := newOrchestrator(exporter, mocks.NewFileSystem(), nil)

	if _, err := o.Run(context.Background(), DefaultConfig(), nil); err == nil {
		t.Fatal("expected the export failure to propagate")
	}
}
