package effects

import (
	"fmt"
	"image"
	"image/draw"

	"github.com/anthonynsimon/bild/clone"
	"github.com/anthonynsimon/bild/transform"
	xdraw "golang.org/x/image/draw"
)

// DefaultThumbnailHeight is the capture list thumbnail height in pixels.
const DefaultThumbnailHeight = 120

// Clone returns an independent copy of img whose bounds start at the origin.
func Clone(img image.Image) *image.RGBA {
	return rebase(clone.AsRGBA(img))
}

// rebase moves an image to the origin, copying only when needed.
func rebase(img *image.RGBA) *image.RGBA {
	if img.Rect.Min == (image.Point{}) {
		return img
	}
	out := image.NewRGBA(image.Rect(0, 0, img.Rect.Dx(), img.Rect.Dy()))
	draw.Draw(out, out.Bounds(), img, img.Rect.Min, draw.Src)
	return out
}

// Rotate90 rotates the image a quarter turn clockwise. The mapping is an
// exact pixel permutation; the general rotation in bild resamples.
func Rotate90(img image.Image) *image.RGBA {
	src := Clone(img)
	w, h := src.Rect.Dx(), src.Rect.Dy()
	dst := image.NewRGBA(image.Rect(0, 0, h, w))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			si := src.PixOffset(x, y)
			di := dst.PixOffset(h-1-y, x)
			copy(dst.Pix[di:di+4], src.Pix[si:si+4])
		}
	}
	return dst
}

// FlipHorizontal mirrors the image left to right.
func FlipHorizontal(img image.Image) *image.RGBA {
	return rebase(transform.FlipH(img))
}

// FlipVertical mirrors the image top to bottom.
func FlipVertical(img image.Image) *image.RGBA {
	return rebase(transform.FlipV(img))
}

// Crop returns the part of img inside rect, clipped to the image.
func Crop(img image.Image, rect image.Rectangle) (*image.RGBA, error) {
	rect = rect.Canon()
	area := rect.Intersect(img.Bounds())
	if area.Empty() {
		return nil, fmt.Errorf("%w: crop %v of %v", ErrEmptyRegion, rect, img.Bounds())
	}
	return rebase(transform.Crop(img, area)), nil
}

// Thumbnail scales img to the given height, keeping the aspect ratio.
func Thumbnail(img image.Image, height int) *image.RGBA {
	if height <= 0 {
		height = DefaultThumbnailHeight
	}
	b := img.Bounds()
	if b.Dy() == 0 {
		return image.NewRGBA(image.Rect(0, 0, 0, 0))
	}
	width := (b.Dx()*height + b.Dy()/2) / b.Dy()
	if width < 1 {
		width = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}
