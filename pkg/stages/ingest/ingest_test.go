package ingest

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/jpeg"
	"image/png"
	"math"
	"testing"

	"github.com/user/journalpage/pkg/mocks"
	"github.com/user/journalpage/pkg/pipeline"
	"github.com/user/journalpage/pkg/ports"
)

// encodePNG returns a PNG of the given size for use as an upload.
func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

// realRenderer adapts stdlib codecs for tests that need actual image data.
func realRenderer() *mocks.Renderer {
	return &mocks.Renderer{
		DecodeImageFunc: func(data []byte, format ports.ImageFormat) (image.Image, error) {
			img, _, err := image.Decode(bytes.NewReader(data))
			return img, err
		},
		EncodeImageFunc: func(img image.Image, format ports.ImageFormat, quality int) ([]byte, error) {
			var buf bytes.Buffer
			err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality})
			return buf.Bytes(), err
		},
	}
}

func TestExecute_SkipsUnreadableAndKeepsRest(t *testing.T) {
	stage := NewStage(realRenderer(), &mocks.Logger{})

	input := pipeline.DefaultIngestInput()
	input.Files = [][]byte{
		encodePNG(t, 100, 80),
		[]byte("not an image"),
		encodePNG(t, 60, 60),
	}
	result, err := stage.Execute(context.Background(), input)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(result.Elements) != 2 {
		t.Fatalf("expected 2 elements, got %d", len(result.Elements))
	}
	if result.Skipped != 1 {
		t.Errorf("expected 1 skipped, got %d", result.Skipped)
	}
	if math.Abs(result.Elements[0].NaturalAspectRatio-1.25) > 1e-9 {
		t.Errorf("aspect ratio wrong: %v", result.Elements[0].NaturalAspectRatio)
	}
	if result.Elements[0].ZOrder != 0 || result.Elements[1].ZOrder != 1 {
		t.Errorf("z-order not sequential: %d, %d", result.Elements[0].ZOrder, result.Elements[1].ZOrder)
	}
}

func TestExecute_CompressesOversizedPhotos(t *testing.T) {
	var encodedSizes []image.Point
	renderer := realRenderer()
	inner := renderer.EncodeImageFunc
	renderer.EncodeImageFunc = func(img image.Image, format ports.ImageFormat, quality int) ([]byte, error) {
		encodedSizes = append(encodedSizes, img.Bounds().Size())
		return inner(img, format, quality)
	}
	stage := NewStage(renderer, &mocks.Logger{})

	input := pipeline.IngestInput{
		Files:          [][]byte{encodePNG(t, 3200, 1600)},
		MaxBoundingDim: 1600,
		ByteBudget:     10 * 1024 * 1024,
	}
	if _, err := stage.Execute(context.Background(), input); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(encodedSizes) == 0 {
		t.Fatal("nothing encoded")
	}
	if encodedSizes[0].X != 1600 || encodedSizes[0].Y != 800 {
		t.Errorf("expected 1600x800 after bounding, got %v", encodedSizes[0])
	}
}

func TestExecute_EncodeFailureFallsBackToOriginal(t *testing.T) {
	renderer := realRenderer()
	renderer.EncodeImageFunc = func(img image.Image, format ports.ImageFormat, quality int) ([]byte, error) {
		return nil, errors.New("encoder broken")
	}
	stage := NewStage(renderer, &mocks.Logger{})

	file := encodePNG(t, 100, 100)
	input := pipeline.DefaultIngestInput()
	input.Files = [][]byte{file}

	result, err := stage.Execute(context.Background(), input)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(result.Elements) != 1 {
		t.Fatal("upload rejected despite decodable photo")
	}
	if !bytes.Equal(result.Elements[0].Source, file) {
		t.Error("expected the original bytes as the last-resort fallback")
	}
}

func TestExecute_QualityStepsDownUnderBudget(t *testing.T) {
	var qualities []int
	renderer := realRenderer()
	renderer.EncodeImageFunc = func(img image.Image, format ports.ImageFormat, quality int) ([]byte, error) {
		qualities = append(qualities, quality)
		// Always over budget so the stage walks all quality steps.
		return make([]byte, 1024), nil
	}
	stage := NewStage(renderer, &mocks.Logger{})

	input := pipeline.IngestInput{
		Files:          [][]byte{encodePNG(t, 100, 100)},
		MaxBoundingDim: 1600,
		ByteBudget:     10,
	}
	result, err := stage.Execute(context.Background(), input)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(qualities) < len(qualitySteps) {
		t.Errorf("expected all quality steps tried, got %v", qualities)
	}
	if len(result.Elements[0].Source) != 1024 {
		t.Error("expected the smallest over-budget attempt to be kept")
	}
}
