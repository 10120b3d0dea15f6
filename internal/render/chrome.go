package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"snapedit/internal/layers"
	"snapedit/pkg/geometry"
)

// ChromeOptions configures how editing chrome is drawn.
type ChromeOptions struct {
	OutlineColor color.RGBA // Selection outline and rubber band
	HandleColor  color.RGBA // Resize handle fill
	HandleBorder color.RGBA // Resize handle outline
	RingColor    color.RGBA // Eraser cursor
	MaskTint     color.RGBA // Magic wand selection tint

	DashLength int // Dash length of outlines (0 = solid)
	GapLength  int // Gap between dashes
}

// DefaultChromeOptions returns the standard chrome colors.
func DefaultChromeOptions() ChromeOptions {
	return ChromeOptions{
		OutlineColor: color.RGBA{0, 120, 215, 255},
		HandleColor:  color.RGBA{255, 255, 255, 255},
		HandleBorder: color.RGBA{0, 120, 215, 255},
		RingColor:    color.RGBA{80, 80, 80, 255},
		MaskTint:     color.RGBA{0, 120, 215, 96},
		DashLength:   6,
		GapLength:    4,
	}
}

// Ring is the eraser cursor.
type Ring struct {
	Center   geometry.Point2D
	Diameter float64
}

// Chrome is the transient editing state drawn over a capture. None of it
// is part of the capture; it is rebuilt from the editor on every frame.
type Chrome struct {
	Preview    *layers.DrawingLayer // In-flight stroke or shape
	Selection  *geometry.Rect       // Bounds of the selected object
	Handles    []geometry.Rect      // Resize handles of the selection
	RubberBand *geometry.Rect       // Mosaic or crop rectangle
	Mask       *image.Alpha         // Magic wand selection
	Ring       *Ring                // Eraser cursor
}

// Compose draws chrome over a copy of current.
func Compose(current *image.RGBA, c Chrome, opts ChromeOptions) (*image.RGBA, error) {
	var out *image.RGBA
	if c.Preview != nil {
		var err error
		if out, err = Flatten(current, c.Preview); err != nil {
			return nil, err
		}
	} else {
		out = image.NewRGBA(current.Bounds())
		draw.Draw(out, out.Bounds(), current, current.Bounds().Min, draw.Src)
	}

	if c.Mask != nil {
		DrawMask(out, c.Mask, opts.MaskTint)
	}
	if c.RubberBand != nil {
		drawDashedRect(out, c.RubberBand.Image(), opts.OutlineColor, opts.DashLength, opts.GapLength)
	}
	if c.Selection != nil {
		drawDashedRect(out, c.Selection.Image(), opts.OutlineColor, opts.DashLength, opts.GapLength)
		for _, h := range c.Handles {
			r := h.Image()
			fillRect(out, r, opts.HandleColor)
			drawDashedRect(out, r, opts.HandleBorder, 0, 0)
		}
	}
	if c.Ring != nil {
		r := int(math.Round(c.Ring.Diameter / 2))
		drawCircle(out, int(c.Ring.Center.X), int(c.Ring.Center.Y), r, opts.RingColor)
	}
	return out, nil
}

// DrawMask blends tint over every pixel set in mask.
func DrawMask(img *image.RGBA, mask *image.Alpha, tint color.RGBA) {
	b := img.Bounds().Intersect(mask.Bounds())
	a := float64(tint.A) / 255
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if mask.AlphaAt(x, y).A == 0 {
				continue
			}
			i := img.PixOffset(x, y)
			img.Pix[i+0] = uint8(float64(tint.R)*a + float64(img.Pix[i+0])*(1-a))
			img.Pix[i+1] = uint8(float64(tint.G)*a + float64(img.Pix[i+1])*(1-a))
			img.Pix[i+2] = uint8(float64(tint.B)*a + float64(img.Pix[i+2])*(1-a))
		}
	}
}

// drawDashedRect draws a rectangle outline, dashed when dash > 0.
func drawDashedRect(img *image.RGBA, r image.Rectangle, c color.RGBA, dash, gap int) {
	x1, y1, x2, y2 := r.Min.X, r.Min.Y, r.Max.X-1, r.Max.Y-1
	on := func(i int) bool {
		if dash <= 0 {
			return true
		}
		return i%(dash+gap) < dash
	}

	// Top and bottom edges
	for x := x1; x <= x2; x++ {
		if on(x - x1) {
			setPixel(img, x, y1, c)
			setPixel(img, x, y2, c)
		}
	}

	// Left and right edges
	for y := y1; y <= y2; y++ {
		if on(y - y1) {
			setPixel(img, x1, y, c)
			setPixel(img, x2, y, c)
		}
	}
}

// fillRect fills a rectangle clipped to the image.
func fillRect(img *image.RGBA, r image.Rectangle, c color.RGBA) {
	draw.Draw(img, r.Intersect(img.Bounds()), &image.Uniform{c}, image.Point{}, draw.Src)
}

// drawCircle draws a circle outline using Bresenham's algorithm.
func drawCircle(img *image.RGBA, cx, cy, r int, c color.RGBA) {
	x := r
	y := 0
	err := 0

	for x >= y {
		setPixel(img, cx+x, cy+y, c)
		setPixel(img, cx+y, cy+x, c)
		setPixel(img, cx-y, cy+x, c)
		setPixel(img, cx-x, cy+y, c)
		setPixel(img, cx-x, cy-y, c)
		setPixel(img, cx-y, cy-x, c)
		setPixel(img, cx+y, cy-x, c)
		setPixel(img, cx+x, cy-y, c)

		y++
		if err <= 0 {
			err += 2*y + 1
		}
		if err > 0 {
			x--
			err -= 2*x + 1
		}
	}
}

func setPixel(img *image.RGBA, x, y int, c color.RGBA) {
	if image.Pt(x, y).In(img.Bounds()) {
		img.SetRGBA(x, y, c)
	}
}
