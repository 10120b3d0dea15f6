// Package capture holds one captured image and everything edited on top of
// it: the working base raster, the annotation layers, the composited result
// and the capture's own undo history.
package capture

import (
	"fmt"
	"image"
	"time"

	"github.com/google/uuid"

	"snapedit/internal/effects"
	"snapedit/internal/history"
	"snapedit/internal/layers"
)

// Capture is one image in an editing session.
//
// The original raster never changes. Base starts as a copy of it and
// receives destructive edits; Current is Base with the layers painted on
// top and is what gets displayed or exported.
type Capture struct {
	ID        uuid.UUID
	Name      string
	Path      string // Source file, empty for in-memory captures
	CreatedAt time.Time
	Width     int // Dimensions of the original
	Height    int

	original *image.RGBA
	base     *image.RGBA
	current  *image.RGBA
	layers   []*layers.DrawingLayer
	nextID   int
	history  *history.Manager
}

// New creates a capture from a decoded image. The image is copied.
func New(img image.Image, name string) (*Capture, error) {
	if img == nil {
		return nil, fmt.Errorf("capture %q: nil image", name)
	}
	b := img.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("capture %q: empty image %v", name, b)
	}
	orig := effects.Clone(img)
	return &Capture{
		ID:        uuid.New(),
		Name:      name,
		CreatedAt: time.Now(),
		Width:     b.Dx(),
		Height:    b.Dy(),
		original:  orig,
		base:      effects.Clone(orig),
		current:   effects.Clone(orig),
		nextID:    1,
		history:   history.NewManager(0),
	}, nil
}

// Original returns the raster as captured. Callers must not modify it.
func (c *Capture) Original() *image.RGBA { return c.original }

// Base returns a copy of the working base raster.
func (c *Capture) Base() *image.RGBA { return effects.Clone(c.base) }

// Current returns the last published composite. Callers must not modify it.
func (c *Capture) Current() *image.RGBA { return c.current }

// Bounds returns the bounds of the current raster, which differ from the
// original after a rotate or crop.
func (c *Capture) Bounds() image.Rectangle { return c.current.Bounds() }

// Layers returns a deep copy of the stored layer list.
func (c *Capture) Layers() ([]*layers.DrawingLayer, error) {
	return layers.CloneAll(c.layers)
}

// LayerCount returns the number of stored layers, erased ones included.
func (c *Capture) LayerCount() int { return len(c.layers) }

// NextLayerID returns the first layer ID not yet handed out.
func (c *Capture) NextLayerID() int { return c.nextID }

// History returns the capture's undo/redo manager.
func (c *Capture) History() *history.Manager { return c.history }

// SetHistoryLimit replaces the history manager when the limit changes.
// Existing frames are dropped.
func (c *Capture) SetHistoryLimit(limit int) {
	c.history = history.NewManager(limit)
}

// Store persists an edited base and layer list. Both are deep-copied.
func (c *Capture) Store(base *image.RGBA, list []*layers.DrawingLayer, nextID int) error {
	if base == nil {
		return fmt.Errorf("capture %q: nil base raster", c.Name)
	}
	copied, err := layers.CloneAll(list)
	if err != nil {
		return fmt.Errorf("failed to store layers of %q: %w", c.Name, err)
	}
	c.base = effects.Clone(base)
	c.layers = copied
	if nextID > c.nextID {
		c.nextID = nextID
	}
	return nil
}

// Publish replaces the current composite.
func (c *Capture) Publish(current *image.RGBA) {
	if current != nil {
		c.current = current
	}
}

// Thumbnail returns a scaled copy of the current composite.
func (c *Capture) Thumbnail(height int) *image.RGBA {
	return effects.Thumbnail(c.current, height)
}

func (c *Capture) String() string {
	return fmt.Sprintf("%s (%dx%d, %d layers)", c.Name, c.current.Bounds().Dx(), c.current.Bounds().Dy(), len(c.layers))
}
