// Package colorutil provides shared color utilities for the annotation editor.
package colorutil

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Default annotation colors.
var (
	Black  = color.NRGBA{R: 0, G: 0, B: 0, A: 255}
	White  = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	Red    = color.NRGBA{R: 255, G: 0, B: 0, A: 255}
	Blue   = color.NRGBA{R: 0, G: 0, B: 255, A: 255}
	Green  = color.NRGBA{R: 0, G: 255, B: 0, A: 255}
	Yellow = color.NRGBA{R: 255, G: 255, B: 0, A: 255}
	Cyan   = color.NRGBA{R: 0, G: 255, B: 255, A: 255}
)

// maxRGBDistance is the RGB-space distance between black and white.
var maxRGBDistance = math.Sqrt(3)

// ParseHex parses "#rrggbb" or "#rrggbbaa" into a straight-alpha color.
func ParseHex(s string) (color.NRGBA, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	var alpha uint8 = 255
	switch len(s) {
	case 7:
	case 9:
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid alpha in color %q: %w", s, err)
		}
		alpha = uint8(a)
		s = s[:7]
	default:
		return color.NRGBA{}, fmt.Errorf("invalid color %q: want #rrggbb or #rrggbbaa", s)
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: alpha}, nil
}

// Hex formats a color as "#rrggbbaa", or "#rrggbb" when fully opaque.
func Hex(c color.NRGBA) string {
	if c.A == 255 {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// WithOpacity returns c with its alpha replaced by opacity (0-1).
func WithOpacity(c color.NRGBA, opacity float64) color.NRGBA {
	opacity = math.Max(0, math.Min(1, opacity))
	c.A = uint8(math.Round(opacity * 255))
	return c
}

// Floats returns the straight-alpha components of c in the 0-1 range.
func Floats(c color.NRGBA) (r, g, b, a float64) {
	return float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255, float64(c.A) / 255
}

// Distance returns the RGB distance between two colors scaled to 0-255,
// so 0 means identical and 255 means black versus white.
func Distance(a, b color.Color) float64 {
	return toColorful(a).DistanceRgb(toColorful(b)) / maxRGBDistance * 255
}

func toColorful(c color.Color) colorful.Color {
	cc, ok := colorful.MakeColor(c)
	if !ok {
		// Fully transparent pixels carry no color.
		return colorful.Color{}
	}
	return cc
}
