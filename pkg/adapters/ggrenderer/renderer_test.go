package ggrenderer

import (
	"image"
	"image/color"
	"testing"

	"github.com/user/journalpage/pkg/ports"
)

func TestRenderer_CreateCanvas(t *testing.T) {
	r := New()

	canvas := r.CreateCanvas(100, 100, color.White)
	if canvas == nil {
		t.Fatal("expected canvas to be created")
	}

	img := canvas.ToImage()
	bounds := img.Bounds()

	if bounds.Dx() != 100 || bounds.Dy() != 100 {
		t.Errorf("expected 100x100, got %dx%d", bounds.Dx(), bounds.Dy())
	}
}

func TestRenderer_EncodeDecodeJPEG(t *testing.T) {
	r := New()

	img := image.NewRGBA(image.Rect(0, 0, 50, 50))
	for y := 0; y < 50; y++ {
		for x := 0; x < 50; x++ {
			img.Set(x, y, color.RGBA{R: 255, A: 255})
		}
	}

	data, err := r.EncodeImage(img, ports.FormatJPEG, 80)
	if err != nil {
		t.Fatalf("EncodeImage failed: %v", err)
	}
	if len(data) == 0 {
		t.Error("expected non-empty data")
	}

	decoded, err := r.DecodeImage(data, ports.FormatJPEG)
	if err != nil {
		t.Fatalf("DecodeImage failed: %v", err)
	}

	bounds := decoded.Bounds()
	if bounds.Dx() != 50 || bounds.Dy() != 50 {
		t.Errorf("expected 50x50, got %dx%d", bounds.Dx(), bounds.Dy())
	}
}

func TestRenderer_DecodeAutoSniffsFormat(t *testing.T) {
	r := New()

	img := image.NewRGBA(image.Rect(0, 0, 30, 30))
	data, err := r.EncodeImage(img, ports.FormatPNG, 0)
	if err != nil {
		t.Fatalf("EncodeImage failed: %v", err)
	}

	decoded, err := r.DecodeImage(data, ports.FormatAuto)
	if err != nil {
		t.Fatalf("DecodeImage with FormatAuto failed: %v", err)
	}

	bounds := decoded.Bounds()
	if bounds.Dx() != 30 || bounds.Dy() != 30 {
		t.Errorf("expected 30x30, got %dx%d", bounds.Dx(), bounds.Dy())
	}
}

func TestRenderer_ResizeImage(t *testing.T) {
	r := New()

	img := image.NewRGBA(image.Rect(0, 0, 100, 100))
	resized := r.ResizeImage(img, 50, 50)

	bounds := resized.Bounds()
	if bounds.Dx() != 50 || bounds.Dy() != 50 {
		t.Errorf("expected 50x50, got %dx%d", bounds.Dx(), bounds.Dy())
	}
}

func TestCanvas_DrawRect(t *testing.T) {
	r := New()
	canvas := r.CreateCanvas(100, 100, color.White)

	canvas.DrawRect(10, 10, 30, 30, color.RGBA{R: 255, A: 255})

	img := canvas.ToImage()
	c := img.At(20, 20)
	red, green, _, _ := c.RGBA()
	if red == 0 || green == 65535 {
		t.Error("expected red pixel inside rectangle")
	}
}

func TestCanvas_DrawImageRotated(t *testing.T) {
	r := New()
	canvas := r.CreateCanvas(200, 200, color.White)

	// A solid red source image.
	src := image.NewRGBA(image.Rect(0, 0, 40, 20))
	for y := 0; y < 20; y++ {
		for x := 0; x < 40; x++ {
			src.Set(x, y, color.RGBA{R: 255, A: 255})
		}
	}

	// Rotate 90 degrees about the rectangle center (100, 100): the wide
	// rectangle becomes tall.
	canvas.DrawImageRotated(src, 50, 90, 100, 20, 90)
	img := canvas.ToImage()

	// Center is covered either way.
	_, g, b, _ := img.At(100, 100).RGBA()
	if g == 65535 && b == 65535 {
		t.Error("expected the image to cover the rotation center")
	}
	// A point on the original horizontal extent is now uncovered...
	r1, g1, b1, _ := img.At(55, 100).RGBA()
	if !(r1 == 65535 && g1 == 65535 && b1 == 65535) {
		t.Error("rotation left the original horizontal extent covered")
	}
	// ...while the vertical extent is covered.
	_, g2, b2, _ := img.At(100, 60).RGBA()
	if g2 == 65535 && b2 == 65535 {
		t.Error("rotated image does not cover the vertical extent")
	}
}

func TestCanvas_WrapTextMatchesWrappedDrawing(t *testing.T) {
	r := New()
	canvas := r.CreateCanvas(200, 200, color.White)

	style := ports.TextStyle{FontSize: 14, Color: color.Black}
	lines := canvas.WrapText("the quick brown fox jumps over the lazy dog", 60, style)
	if len(lines) < 2 {
		t.Fatalf("expected the text to wrap, got %d lines", len(lines))
	}
	for _, line := range lines {
		w, _ := canvas.MeasureText(line, style)
		if w > 60 {
			t.Errorf("wrapped line %q measures %v, wider than the wrap width", line, w)
		}
	}
}

func TestCanvas_MeasureText(t *testing.T) {
	r := New()
	canvas := r.CreateCanvas(100, 100, color.White)

	w, h := canvas.MeasureText("Hello", ports.TextStyle{FontSize: 14, Color: color.Black})
	if w <= 0 || h <= 0 {
		t.Errorf("expected positive measurements, got %v x %v", w, h)
	}
}

func TestCanvas_DrawTextWrapped(t *testing.T) {
	r := New()
	canvas := r.CreateCanvas(200, 200, color.White)

	style := ports.TextStyle{FontSize: 14, Color: color.Black}

	// Should not panic and should leave ink on the canvas.
	canvas.DrawTextWrapped("the quick brown fox jumps over the lazy dog", 10, 10, 80, 1.4, style)

	img := canvas.ToImage()
	inked := false
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y && !inked; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r1, g1, b1, _ := img.At(x, y).RGBA()
			if r1 != 65535 || g1 != 65535 || b1 != 65535 {
				inked = true
				break
			}
		}
	}
	if !inked {
		t.Error("wrapped text left no ink on the canvas")
	}
}
