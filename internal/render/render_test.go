package render

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snapedit/internal/layers"
	"snapedit/pkg/colorutil"
	"snapedit/pkg/geometry"
)

func whiteBase(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{color.White}, image.Point{}, draw.Src)
	return img
}

func pt(x, y float64) geometry.Point2D { return geometry.Point2D{X: x, Y: y} }

func redStyle(thickness float64) layers.Style {
	return layers.Style{Color: colorutil.Red, Thickness: thickness}
}

func isReddish(c color.RGBA) bool {
	return c.R > 200 && c.G < 80 && c.B < 80
}

func sampleLayers() []*layers.DrawingLayer {
	rect := layers.NewShape(layers.ShapeRectangle, pt(60, 10), pt(20, 50), redStyle(2))
	rect.Style.Fill = true
	rect.Style.FillOpacity = 0.5
	return []*layers.DrawingLayer{
		layers.NewStroke(layers.KindPen, []geometry.Point2D{pt(5, 5), pt(40, 30), pt(90, 10)}, redStyle(4)),
		rect,
		layers.NewShape(layers.ShapeArrow, pt(5, 80), pt(105, 80), redStyle(3)),
		layers.NewShape(layers.ShapeEllipse, pt(70, 40), pt(110, 70), redStyle(2)),
		layers.NewText(pt(10, 90), "Hello\nworld", layers.TextStyle{Size: 14, Shadow: true, Underline: true}, redStyle(1)),
	}
}

func TestRenderIsIdempotent(t *testing.T) {
	base := whiteBase(120, 130)
	list := sampleLayers()

	a, err := Render(base, list)
	require.NoError(t, err)
	b, err := Render(base, list)
	require.NoError(t, err)
	assert.Equal(t, a.Pix, b.Pix)
	assert.NotEqual(t, base.Pix, a.Pix)
}

func TestRenderLeavesBaseUntouched(t *testing.T) {
	base := whiteBase(50, 50)
	before := append([]uint8(nil), base.Pix...)
	_, err := Render(base, sampleLayers())
	require.NoError(t, err)
	assert.Equal(t, before, base.Pix)
}

func TestRenderSkipsErased(t *testing.T) {
	base := whiteBase(100, 100)
	stroke := layers.NewStroke(layers.KindPen, []geometry.Point2D{pt(10, 50), pt(90, 50)}, redStyle(6))
	stroke.Erased = true

	out, err := Render(base, []*layers.DrawingLayer{stroke})
	require.NoError(t, err)
	assert.Equal(t, base.Pix, out.Pix)

	flat, err := Flatten(base, stroke)
	require.NoError(t, err)
	assert.True(t, isReddish(flat.RGBAAt(50, 50)))
}

func TestRenderStrokeAndArrow(t *testing.T) {
	base := whiteBase(120, 40)
	out, err := Render(base, []*layers.DrawingLayer{
		layers.NewShape(layers.ShapeArrow, pt(5, 20), pt(105, 20), redStyle(2)),
	})
	require.NoError(t, err)

	assert.True(t, isReddish(out.RGBAAt(50, 20)), "shaft")
	assert.True(t, isReddish(out.RGBAAt(97, 23)), "head")
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, out.RGBAAt(50, 35))
}

func TestRenderFilledRectangle(t *testing.T) {
	base := whiteBase(60, 60)
	rect := layers.NewShape(layers.ShapeRectangle, pt(50, 50), pt(10, 10), redStyle(2))
	rect.Style.Fill = true
	rect.Style.FillOpacity = 0.5

	out, err := Render(base, []*layers.DrawingLayer{rect})
	require.NoError(t, err)

	inside := out.RGBAAt(30, 30)
	assert.Equal(t, uint8(255), inside.R)
	assert.InDelta(t, 128, int(inside.G), 8)
	assert.True(t, isReddish(out.RGBAAt(10, 30)), "outline")
}

func TestRenderText(t *testing.T) {
	base := whiteBase(120, 60)
	txt := layers.NewText(pt(5, 5), "Hello", layers.TextStyle{Size: 24}, redStyle(1))

	out, err := Render(base, []*layers.DrawingLayer{txt})
	require.NoError(t, err)

	w, h, err := MeasureText("Hello", 24)
	require.NoError(t, err)
	require.Greater(t, w, 0.0)
	require.Greater(t, h, 0.0)

	painted := 0
	box := geometry.NewRect(5, 5, w, h).Image()
	for y := box.Min.Y; y < box.Max.Y; y++ {
		for x := box.Min.X; x < box.Max.X; x++ {
			if out.RGBAAt(x, y) != (color.RGBA{255, 255, 255, 255}) {
				painted++
			}
		}
	}
	assert.Greater(t, painted, 20)
}

func TestMeasureTextMultiline(t *testing.T) {
	_, one, err := MeasureText("a", 16)
	require.NoError(t, err)
	_, two, err := MeasureText("a\nb", 16)
	require.NoError(t, err)
	assert.InDelta(t, 2*one, two, 1e-9)

	_, _, err = MeasureText("a", 0)
	assert.Error(t, err)
}

func TestRenderRejectsBadBase(t *testing.T) {
	_, err := Render(nil, nil)
	assert.Error(t, err)

	shifted := image.NewRGBA(image.Rect(5, 5, 10, 10))
	_, err = Render(shifted, nil)
	assert.Error(t, err)
}

func TestComposeChrome(t *testing.T) {
	current := whiteBase(60, 60)
	opts := DefaultChromeOptions()
	sel := geometry.NewRect(10, 10, 20, 20)
	mask := image.NewAlpha(current.Bounds())
	mask.SetAlpha(50, 50, color.Alpha{A: 255})

	out, err := Compose(current, Chrome{
		Selection: &sel,
		Handles:   []geometry.Rect{geometry.NewRect(8, 8, 4, 4)},
		Mask:      mask,
		Ring:      &Ring{Center: pt(40, 40), Diameter: 10},
	}, opts)
	require.NoError(t, err)

	assert.Equal(t, opts.HandleBorder, out.RGBAAt(8, 8))
	assert.Equal(t, opts.HandleColor, out.RGBAAt(10, 10))
	assert.Equal(t, opts.OutlineColor, out.RGBAAt(20, 10))
	assert.Equal(t, opts.RingColor, out.RGBAAt(45, 40))
	assert.NotEqual(t, color.RGBA{255, 255, 255, 255}, out.RGBAAt(50, 50))
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, current.RGBAAt(20, 10), "current is not modified")
}

func translucentBase(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			a := uint8(40 + (x+y)*7%200)
			img.SetRGBA(x, y, color.RGBA{R: a / 2, G: a / 3, B: a / 5, A: a})
		}
	}
	return img
}

func TestRenderKeepsTranslucentBaseExact(t *testing.T) {
	base := translucentBase(4, 4)
	out, err := Render(base, nil)
	require.NoError(t, err)
	assert.Equal(t, base.Pix, out.Pix)

	base = translucentBase(40, 40)
	out = base
	stroke := layers.NewStroke(layers.KindPen, []geometry.Point2D{pt(2, 2), pt(10, 2)}, redStyle(2))
	for i := 0; i < 3; i++ {
		out, err = Flatten(out, stroke)
		require.NoError(t, err)
	}
	for y := 20; y < 40; y++ {
		for x := 20; x < 40; x++ {
			require.Equal(t, base.RGBAAt(x, y), out.RGBAAt(x, y), "pixel %d,%d", x, y)
		}
	}
	assert.True(t, isReddish(out.RGBAAt(6, 2)))
}

func TestFaceCacheIsBounded(t *testing.T) {
	facesMu.Lock()
	clear(faces)
	facesMu.Unlock()

	for i := 0; i < 500; i++ {
		_, _, err := MeasureText("abc", 20+float64(i)*0.013)
		require.NoError(t, err)
	}
	facesMu.Lock()
	n := len(faces)
	facesMu.Unlock()
	assert.LessOrEqual(t, n, maxFaces)

	w1, h1, err := MeasureText("abc", 20)
	require.NoError(t, err)
	w2, h2, err := MeasureText("abc", 20.1)
	require.NoError(t, err)
	assert.Equal(t, w1, w2)
	assert.Equal(t, h1, h2)
}
