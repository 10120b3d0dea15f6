package capture

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snapedit/internal/layers"
	"snapedit/pkg/geometry"
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func TestNewCopiesImage(t *testing.T) {
	src := solid(8, 6, color.RGBA{10, 20, 30, 255})
	c, err := New(src, "shot")
	require.NoError(t, err)

	assert.Equal(t, 8, c.Width)
	assert.Equal(t, 6, c.Height)
	assert.NotEqual(t, uuid.Nil, c.ID)

	src.Pix[0] = 99
	assert.Equal(t, uint8(10), c.Original().Pix[0])
	assert.Equal(t, uint8(10), c.Current().Pix[0])
	assert.Equal(t, 1, c.NextLayerID())
}

func TestNewRejectsEmpty(t *testing.T) {
	_, err := New(nil, "x")
	assert.Error(t, err)
	_, err = New(image.NewRGBA(image.Rect(0, 0, 0, 0)), "x")
	assert.Error(t, err)
}

func TestStoreIsolation(t *testing.T) {
	c, err := New(solid(4, 4, color.RGBA{255, 255, 255, 255}), "shot")
	require.NoError(t, err)

	l := layers.NewStroke(layers.KindPen, []geometry.Point2D{{X: 0, Y: 0}, {X: 3, Y: 3}}, layers.Style{Thickness: 1})
	l.ID = 4
	base := c.Base()
	base.Pix[0] = 1
	require.NoError(t, c.Store(base, []*layers.DrawingLayer{l}, 5))

	base.Pix[0] = 2
	l.Erased = true

	stored, err := c.Layers()
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.False(t, stored[0].Erased)
	assert.Equal(t, uint8(1), c.Base().Pix[0])
	assert.Equal(t, 5, c.NextLayerID())

	// The counter never moves backwards.
	require.NoError(t, c.Store(base, nil, 2))
	assert.Equal(t, 5, c.NextLayerID())
}

func TestLoadPNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, solid(5, 3, color.RGBA{1, 2, 3, 255})))
	path := filepath.Join(t.TempDir(), "window.png")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "window", c.Name)
	assert.Equal(t, path, c.Path)
	assert.Equal(t, image.Rect(0, 0, 5, 3), c.Bounds())
}

func TestLoadRejectsNonImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.png")
	require.NoError(t, os.WriteFile(path, []byte("just some text, not pixels"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)
}

func TestIsSupportedFormat(t *testing.T) {
	assert.True(t, IsSupportedFormat("a/b/Shot.PNG"))
	assert.True(t, IsSupportedFormat("x.webp"))
	assert.False(t, IsSupportedFormat("x.txt"))
}

func TestThumbnail(t *testing.T) {
	c, err := New(solid(200, 100, color.RGBA{0, 0, 0, 255}), "wide")
	require.NoError(t, err)
	th := c.Thumbnail(50)
	assert.Equal(t, image.Rect(0, 0, 100, 50), th.Bounds())
}
