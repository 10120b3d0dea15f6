package ocr

import (
	"image"
	"math"
	"strings"

	"snapedit/pkg/geometry"
)

// cleanText trims the result and collapses runs of whitespace, including
// line breaks, to single spaces.
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// upscaleFactor returns how much a w x h region is enlarged so that its
// smaller side reaches minHeight. Regions already large enough get 1.
func upscaleFactor(w, h int) float64 {
	m := min(w, h)
	if m <= 0 || m >= minHeight {
		return 1
	}
	return float64(minHeight) / float64(m)
}

// unscale maps a box found in the upscaled image back to the source image
// whose bounds start at origin.
func unscale(box image.Rectangle, scale float64, origin image.Point) geometry.RectInt {
	if scale <= 0 {
		scale = 1
	}
	x0 := int(math.Floor(float64(box.Min.X) / scale))
	y0 := int(math.Floor(float64(box.Min.Y) / scale))
	x1 := int(math.Ceil(float64(box.Max.X) / scale))
	y1 := int(math.Ceil(float64(box.Max.Y) / scale))
	return geometry.RectInt{X: origin.X + x0, Y: origin.Y + y0, Width: x1 - x0, Height: y1 - y0}
}
