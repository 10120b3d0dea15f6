// Package effects applies destructive pixel edits to a raster: mosaic,
// magic-wand selection and whole-image transforms. Nothing here knows about
// drawing layers.
package effects

import (
	"errors"
	"fmt"
	"image"

	"gonum.org/v1/gonum/stat"
)

// MinMosaicSize is the smallest accepted mosaic selection edge, in pixels.
const MinMosaicSize = 5

var (
	// ErrSelectionTooSmall is returned for mosaic selections under MinMosaicSize.
	ErrSelectionTooSmall = errors.New("selection too small")

	// ErrEmptyRegion is returned when a region does not overlap the image.
	ErrEmptyRegion = errors.New("region outside image")
)

// ApplyMosaic pixelates rect in place. Tiles start at the rect origin and
// step by blockSize; each tile becomes the integer mean of its pixels.
func ApplyMosaic(img *image.RGBA, rect image.Rectangle, blockSize int) error {
	rect = rect.Canon()
	if rect.Dx() < MinMosaicSize || rect.Dy() < MinMosaicSize {
		return fmt.Errorf("%w: %dx%d", ErrSelectionTooSmall, rect.Dx(), rect.Dy())
	}
	if blockSize < 1 {
		return fmt.Errorf("invalid mosaic block size %d", blockSize)
	}
	area := rect.Intersect(img.Bounds())
	if area.Empty() {
		return fmt.Errorf("%w: %v", ErrEmptyRegion, rect)
	}

	for ty := rect.Min.Y; ty < area.Max.Y; ty += blockSize {
		for tx := rect.Min.X; tx < area.Max.X; tx += blockSize {
			tile := image.Rect(tx, ty, tx+blockSize, ty+blockSize).Intersect(area)
			if tile.Empty() {
				continue
			}
			fillMean(img, tile, nil)
		}
	}
	return nil
}

// ApplyMosaicMask pixelates only the pixels set in mask. Tiles are aligned
// to the mask's extent and averaged over masked pixels only.
func ApplyMosaicMask(img *image.RGBA, mask *Mask, blockSize int) error {
	if mask == nil || mask.Count() == 0 {
		return fmt.Errorf("%w: empty selection", ErrEmptyRegion)
	}
	if blockSize < 1 {
		return fmt.Errorf("invalid mosaic block size %d", blockSize)
	}
	area := mask.Extent().Intersect(img.Bounds())
	if area.Empty() {
		return fmt.Errorf("%w: %v", ErrEmptyRegion, mask.Extent())
	}

	for ty := area.Min.Y; ty < area.Max.Y; ty += blockSize {
		for tx := area.Min.X; tx < area.Max.X; tx += blockSize {
			tile := image.Rect(tx, ty, tx+blockSize, ty+blockSize).Intersect(area)
			fillMean(img, tile, mask)
		}
	}
	return nil
}

// fillMean replaces the tile's pixels with their mean color. When mask is
// non-nil only masked pixels are read and written.
func fillMean(img *image.RGBA, tile image.Rectangle, mask *Mask) {
	n := tile.Dx() * tile.Dy()
	channels := [4][]float64{
		make([]float64, 0, n), make([]float64, 0, n),
		make([]float64, 0, n), make([]float64, 0, n),
	}
	for y := tile.Min.Y; y < tile.Max.Y; y++ {
		for x := tile.Min.X; x < tile.Max.X; x++ {
			if mask != nil && !mask.Contains(x, y) {
				continue
			}
			i := img.PixOffset(x, y)
			for c := 0; c < 4; c++ {
				channels[c] = append(channels[c], float64(img.Pix[i+c]))
			}
		}
	}
	if len(channels[0]) == 0 {
		return
	}

	var mean [4]uint8
	for c := range channels {
		mean[c] = uint8(stat.Mean(channels[c], nil))
	}
	for y := tile.Min.Y; y < tile.Max.Y; y++ {
		for x := tile.Min.X; x < tile.Max.X; x++ {
			if mask != nil && !mask.Contains(x, y) {
				continue
			}
			i := img.PixOffset(x, y)
			copy(img.Pix[i:i+4], mean[:])
		}
	}
}
