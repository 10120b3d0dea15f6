package effects

import (
	"fmt"
	"image"

	"snapedit/pkg/colorutil"
)

// Connectivity is the neighbourhood used when growing a selection.
type Connectivity int

const (
	Connect4 Connectivity = 4
	Connect8 Connectivity = 8
)

// WandOptions configures MagicWand.
type WandOptions struct {
	// Tolerance is the largest accepted color distance from the seed,
	// 0 (exact match) to 255 (everything).
	Tolerance float64

	Connectivity Connectivity

	// Contiguous restricts the selection to pixels connected to the seed.
	// When false every similar pixel in the image is selected.
	Contiguous bool
}

// DefaultWandOptions returns the standard magic wand settings.
func DefaultWandOptions() WandOptions {
	return WandOptions{Tolerance: 32, Connectivity: Connect4, Contiguous: true}
}

// Validate checks the option ranges.
func (o WandOptions) Validate() error {
	if o.Tolerance < 0 || o.Tolerance > 255 {
		return fmt.Errorf("wand tolerance %.1f out of range 0-255", o.Tolerance)
	}
	if o.Connectivity != Connect4 && o.Connectivity != Connect8 {
		return fmt.Errorf("wand connectivity must be 4 or 8, got %d", o.Connectivity)
	}
	return nil
}

// Mask is a binary pixel selection.
type Mask struct {
	*image.Alpha
	count  int
	extent image.Rectangle
}

// NewMask creates an empty mask covering bounds.
func NewMask(bounds image.Rectangle) *Mask {
	return &Mask{Alpha: image.NewAlpha(bounds)}
}

// Contains reports whether (x, y) is selected.
func (m *Mask) Contains(x, y int) bool {
	if !image.Pt(x, y).In(m.Rect) {
		return false
	}
	return m.Pix[m.PixOffset(x, y)] != 0
}

// Set selects (x, y). Points outside the mask are ignored.
func (m *Mask) Set(x, y int) {
	if !image.Pt(x, y).In(m.Rect) || m.Contains(x, y) {
		return
	}
	m.Pix[m.PixOffset(x, y)] = 0xff
	m.count++
	m.extent = m.extent.Union(image.Rect(x, y, x+1, y+1))
}

// Count returns the number of selected pixels.
func (m *Mask) Count() int { return m.count }

// Extent returns the bounding box of the selected pixels.
func (m *Mask) Extent() image.Rectangle { return m.extent }

// Union adds every pixel of other to m.
func (m *Mask) Union(other *Mask) {
	if other == nil {
		return
	}
	b := other.extent
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if other.Contains(x, y) {
				m.Set(x, y)
			}
		}
	}
}

var (
	neighbours4 = []image.Point{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	neighbours8 = []image.Point{{1, 0}, {-1, 0}, {0, 1}, {0, -1}, {1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
)

// MagicWand selects the pixels similar in color to the seed pixel.
func MagicWand(img *image.RGBA, seed image.Point, opts WandOptions) (*Mask, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	bounds := img.Bounds()
	if !seed.In(bounds) {
		return nil, fmt.Errorf("%w: seed %v not in %v", ErrEmptyRegion, seed, bounds)
	}

	target := img.RGBAAt(seed.X, seed.Y)
	similar := func(x, y int) bool {
		return colorutil.Distance(img.RGBAAt(x, y), target) <= opts.Tolerance
	}
	mask := NewMask(bounds)

	if !opts.Contiguous {
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				if similar(x, y) {
					mask.Set(x, y)
				}
			}
		}
		return mask, nil
	}

	neighbours := neighbours4
	if opts.Connectivity == Connect8 {
		neighbours = neighbours8
	}

	// Breadth-first flood fill. The mask doubles as the visited set, and
	// rejected pixels are remembered so they are tested once.
	rejected := make(map[image.Point]struct{})
	queue := []image.Point{seed}
	mask.Set(seed.X, seed.Y)
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		for _, d := range neighbours {
			n := p.Add(d)
			if !n.In(bounds) || mask.Contains(n.X, n.Y) {
				continue
			}
			if _, seen := rejected[n]; seen {
				continue
			}
			if !similar(n.X, n.Y) {
				rejected[n] = struct{}{}
				continue
			}
			mask.Set(n.X, n.Y)
			queue = append(queue, n)
		}
	}
	return mask, nil
}
