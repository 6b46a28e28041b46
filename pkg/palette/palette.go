// Package palette derives harmonious color palettes from photographs and
// computes paired foreground/shadow colors for page text.
//
// Extraction is a pure function over decoded images: it never fails, an
// unreadable image simply contributes no candidates, and an input with no
// usable candidates yields the default palette.
package palette

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
)

const (
	// sampleSize is the square the source image is downsampled to before
	// grid sampling.
	sampleSize = 180

	// gridSteps samples a coarse 12x12 grid rather than every pixel.
	gridSteps = 12

	// Lightness and saturation cutoffs for visually uninteresting samples.
	minLightness  = 0.18
	maxLightness  = 0.82
	minSaturation = 0.15

	// minRGBDistance is the minimum Euclidean distance in 0-255 RGB space a
	// candidate must keep from every already-selected color.
	minRGBDistance = 120.0
)

// hueBucket is one of the named hue ranges candidates are grouped into.
type hueBucket struct {
	name string
	from float64 // inclusive, degrees
	to   float64 // exclusive, may wrap past 360
}

// Eleven ranges covering the full wheel; red wraps across 0.
var hueBuckets = []hueBucket{
	{"red", 345, 15},
	{"orange", 15, 45},
	{"yellow", 45, 80},
	{"lime", 80, 110},
	{"green", 110, 150},
	{"teal", 150, 185},
	{"cyan", 185, 215},
	{"blue", 215, 255},
	{"violet", 255, 290},
	{"magenta", 290, 320},
	{"pink", 320, 345},
}

func (b hueBucket) contains(hue float64) bool {
	if b.from <= b.to {
		return hue >= b.from && hue < b.to
	}
	return hue >= b.from || hue < b.to
}

// DefaultPalette is the hue-sorted fallback used to pad thin extractions.
var DefaultPalette = []string{
	"#e74c3c", // red
	"#e67e22", // orange
	"#f1c40f", // yellow
	"#9acd32", // lime
	"#27ae60", // green
	"#1abc9c", // teal
	"#22a7f0", // cyan
	"#2e6bd6", // blue
	"#8e44ad", // violet
	"#c0399f", // magenta
	"#e26a9c", // pink
	"#8d6e63", // umber
}

// ExtractPalette derives up to size colors from the given images. Nil
// entries (failed decodes) are skipped. The result never exceeds size, never
// contains duplicates, and is padded from DefaultPalette when too few
// distinct candidates survive filtering.
func ExtractPalette(images []image.Image, size int) []string {
	if size <= 0 {
		size = 8
	}
	if size > len(DefaultPalette) {
		size = len(DefaultPalette)
	}

	candidates := make([]colorful.Color, 0, len(hueBuckets))
	best := map[string]sampleCandidate{}

	for _, img := range images {
		if img == nil {
			continue
		}
		for _, s := range gridSamples(img) {
			_, sat, light := s.Hsl()
			if light < minLightness || light > maxLightness || sat < minSaturation {
				continue
			}
			bucket := bucketFor(s)
			if prev, ok := best[bucket]; !ok || sat > prev.saturation {
				best[bucket] = sampleCandidate{color: s, saturation: sat}
			}
		}
	}

	// Fixed bucket order keeps extraction deterministic across runs.
	for _, b := range hueBuckets {
		if c, ok := best[b.name]; ok {
			candidates = append(candidates, c.color)
		}
	}

	selected := selectDistinct(candidates, size)

	out := make([]string, 0, size)
	seen := map[string]bool{}
	for _, c := range selected {
		hex := c.Hex()
		if !seen[hex] {
			seen[hex] = true
			out = append(out, hex)
		}
	}
	for _, hex := range DefaultPalette {
		if len(out) >= size {
			break
		}
		if !seen[hex] {
			seen[hex] = true
			out = append(out, hex)
		}
	}
	return out
}

type sampleCandidate struct {
	color      colorful.Color
	saturation float64
}

// gridSamples downsamples the image and reads a coarse grid of pixels.
func gridSamples(img image.Image) []colorful.Color {
	small := imaging.Fit(img, sampleSize, sampleSize, imaging.Box)
	bounds := small.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return nil
	}

	out := make([]colorful.Color, 0, gridSteps*gridSteps)
	for gy := 0; gy < gridSteps; gy++ {
		for gx := 0; gx < gridSteps; gx++ {
			px := bounds.Min.X + gx*w/gridSteps
			py := bounds.Min.Y + gy*h/gridSteps
			c, ok := colorful.MakeColor(small.At(px, py))
			if !ok { // fully transparent pixel
				continue
			}
			out = append(out, c)
		}
	}
	return out
}

func bucketFor(c colorful.Color) string {
	hue, _, _ := c.Hsl()
	for _, b := range hueBuckets {
		if b.contains(hue) {
			return b.name
		}
	}
	return hueBuckets[0].name
}

// selectDistinct greedily grows a palette: starting from the first bucket
// representative, it repeatedly adds the candidate with the largest minimum
// RGB distance to the selection, stopping when nothing clears the threshold.
func selectDistinct(candidates []colorful.Color, size int) []colorful.Color {
	if len(candidates) == 0 {
		return nil
	}

	selected := []colorful.Color{candidates[0]}
	remaining := append([]colorful.Color(nil), candidates[1:]...)

	for len(selected) < size && len(remaining) > 0 {
		bestIdx := -1
		bestDist := 0.0
		for i, c := range remaining {
			d := minDistanceTo(selected, c)
			if d > bestDist {
				bestDist = d
				bestIdx = i
			}
		}
		if bestIdx < 0 || bestDist < minRGBDistance {
			break
		}
		selected = append(selected, remaining[bestIdx])
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}
	return selected
}

func minDistanceTo(selected []colorful.Color, c colorful.Color) float64 {
	min := -1.0
	for _, s := range selected {
		d := s.DistanceRgb(c) * 255
		if min < 0 || d < min {
			min = d
		}
	}
	return min
}

// ShadowColor darkens a hex color by multiplying each channel by factor,
// truncating toward zero. This is the default shadow pairing: factor 0.7 on
// #ffffff yields #b2b2b2.
func ShadowColor(hex string, factor float64) string {
	c, err := colorful.Hex(hex)
	if err != nil {
		return hex
	}
	if factor < 0 {
		factor = 0
	}
	r, g, b := c.RGB255()
	return fmt.Sprintf("#%02x%02x%02x",
		uint8(float64(r)*factor),
		uint8(float64(g)*factor),
		uint8(float64(b)*factor))
}

// ComplementaryShadow rotates the hue by hueOffset degrees (180 for a true
// complement) and darkens the result: lightness is floored at 20% and then
// reduced by 15 points, so the shadow always sits below the primary.
func ComplementaryShadow(hex string, hueOffset float64) string {
	c, err := colorful.Hex(hex)
	if err != nil {
		return hex
	}
	hue, sat, light := c.Hsl()

	hue += hueOffset
	for hue >= 360 {
		hue -= 360
	}
	for hue < 0 {
		hue += 360
	}

	lightPct := light * 100
	if lightPct < 20 {
		lightPct = 20
	}
	lightPct -= 15

	return colorful.Hsl(hue, sat, lightPct/100).Clamped().Hex()
}

// SampleColorAt reads the pixel at (x, y) and returns its hex value. It is
// the eyedropper primitive; overlay construction and pointer handling belong
// to the UI layer. Out-of-bounds coordinates are clamped to the image edge.
func SampleColorAt(img image.Image, x, y int) string {
	bounds := img.Bounds()
	if x < bounds.Min.X {
		x = bounds.Min.X
	}
	if x >= bounds.Max.X {
		x = bounds.Max.X - 1
	}
	if y < bounds.Min.Y {
		y = bounds.Min.Y
	}
	if y >= bounds.Max.Y {
		y = bounds.Max.Y - 1
	}
	c, ok := colorful.MakeColor(img.At(x, y))
	if !ok {
		return "#000000"
	}
	return c.Hex()
}
