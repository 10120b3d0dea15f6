package canvas

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScaleIntoStretchesPixels(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 1))
	src.SetRGBA(0, 0, color.RGBA{255, 0, 0, 255})
	src.SetRGBA(1, 0, color.RGBA{0, 0, 255, 255})

	out := scaleInto(src, 8, 4)
	assert.Equal(t, image.Rect(0, 0, 8, 4), out.Bounds())
	assert.Equal(t, color.RGBA{255, 0, 0, 255}, out.RGBAAt(3, 3))
	assert.Equal(t, color.RGBA{0, 0, 255, 255}, out.RGBAAt(4, 0))
}

func TestScaleIntoWithoutImage(t *testing.T) {
	out := scaleInto(nil, 3, 3)
	assert.Equal(t, background, out.RGBAAt(1, 1))
	assert.True(t, scaleInto(nil, -1, 5).Bounds().Empty())
}

func TestClampZoom(t *testing.T) {
	assert.Equal(t, minZoom, clampZoom(0.001))
	assert.Equal(t, maxZoom, clampZoom(100))
	assert.Equal(t, 2.0, clampZoom(2))
}

func TestCoordinateConversion(t *testing.T) {
	ic := &ImageCanvas{zoom: 2}
	x, y := ic.CanvasToImage(30, 10)
	assert.Equal(t, 15.0, x)
	assert.Equal(t, 5.0, y)
	cx, cy := ic.ImageToCanvas(x, y)
	assert.Equal(t, 30.0, cx)
	assert.Equal(t, 10.0, cy)
}
