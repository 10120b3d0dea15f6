package editor

import (
	"errors"
	"fmt"
	"image"

	"snapedit/internal/effects"
	"snapedit/internal/events"
	"snapedit/internal/history"
	"snapedit/internal/layers"
	"snapedit/internal/logging"
	"snapedit/internal/objects"
	"snapedit/internal/render"
	"snapedit/pkg/geometry"
)

// ErrNoCapture is returned by operations that need an attached capture.
var ErrNoCapture = errors.New("no capture attached")

// AddShape inserts an editable shape layer with the current shape style.
// Unlike dragged shapes, which are painted into the base, these remain
// objects that select mode can move, resize and restyle.
func (s *Session) AddShape(st layers.ShapeType, start, end geometry.Point2D) (int, error) {
	if s.capture == nil {
		return 0, ErrNoCapture
	}
	if st == layers.ShapeRectangle || st == layers.ShapeEllipse {
		box := geometry.RectFromPoints(start, end)
		start, end = box.TopLeft(), box.BottomRight()
	}
	l := layers.NewShape(st, start, end, s.settings.Shape)
	if err := l.Validate(); err != nil {
		return 0, err
	}
	return s.commitLayer(st.String(), l)
}

// AddText inserts a text layer with its top-left corner at pos.
func (s *Session) AddText(pos geometry.Point2D, text string) (int, error) {
	if s.capture == nil {
		return 0, ErrNoCapture
	}
	l := layers.NewText(pos, text, s.settings.Font, s.settings.Text)
	if err := l.Validate(); err != nil {
		return 0, err
	}
	return s.commitLayer("text", l)
}

// MosaicSelection pixelates the pixels of the magic wand selection and
// drops the selection.
func (s *Session) MosaicSelection() error {
	if s.capture == nil || s.mask == nil || s.mask.Count() == 0 {
		return nil
	}
	base := effects.Clone(s.base)
	if err := effects.ApplyMosaicMask(base, s.mask, s.settings.MosaicBlock); err != nil {
		return fmt.Errorf("failed to apply mosaic: %w", err)
	}
	if err := s.commitBase("mosaic", base, s.stack.All()); err != nil {
		return err
	}
	s.ClearSelection()
	return nil
}

// ClearSelection drops the magic wand selection.
func (s *Session) ClearSelection() {
	if s.mask == nil {
		return
	}
	s.mask = nil
	s.bus.Emit(events.SelectionChanged, nil)
}

// Confirm ends editing of the selected object.
func (s *Session) Confirm() {
	s.setSelected(nil)
}

// DeleteSelected removes the selected object and its layer.
func (s *Session) DeleteSelected() error {
	if s.selected == nil {
		return nil
	}
	id := s.selected.ID()
	var list []*layers.DrawingLayer
	for _, l := range s.stack.All() {
		if l.ID != id {
			list = append(list, l)
		}
	}
	out, err := render.Render(s.base, list)
	if err != nil {
		return fmt.Errorf("failed to render delete: %w", err)
	}
	if err := s.record("delete"); err != nil {
		return err
	}
	s.stack.Remove(id)
	s.objects.Remove(id)
	s.setSelected(nil)
	s.publish(out)
	logging.Logger().Debug("layer deleted", "id", id)
	return nil
}

// ApplyCrop crops the flattened image to the pending crop rectangle and
// returns to the none tool.
func (s *Session) ApplyCrop() error {
	if s.capture == nil || s.pendingCrop == nil {
		return nil
	}
	rect := s.pendingCrop.Image().Intersect(s.current.Bounds())
	if rect.Dx() <= 0 || rect.Dy() <= 0 {
		s.pendingCrop = nil
		s.notice("crop area is empty")
		return nil
	}
	base, err := effects.Crop(s.current, rect)
	if err != nil {
		return fmt.Errorf("failed to crop: %w", err)
	}
	if err := s.commitBase("crop", base, nil); err != nil {
		return err
	}
	s.pendingCrop = nil
	return s.SetTool(ToolNone)
}

// Reset discards every edit and restores the original capture. It can be
// undone.
func (s *Session) Reset() error {
	if s.capture == nil {
		return nil
	}
	if err := s.terminate(); err != nil {
		return err
	}
	s.mask = nil
	return s.commitBase("reset", effects.Clone(s.capture.Original()), nil)
}

// Rotate90 rotates the flattened image a quarter turn clockwise.
func (s *Session) Rotate90() error {
	return s.transform("rotate", effects.Rotate90)
}

// FlipHorizontal mirrors the flattened image left to right.
func (s *Session) FlipHorizontal() error {
	return s.transform("flip-h", effects.FlipHorizontal)
}

// FlipVertical mirrors the flattened image top to bottom.
func (s *Session) FlipVertical() error {
	return s.transform("flip-v", effects.FlipVertical)
}

// transform replaces the base with fn applied to the current composite.
// The layers are flattened into the result.
func (s *Session) transform(action string, fn func(image.Image) *image.RGBA) error {
	if s.capture == nil {
		return nil
	}
	if err := s.terminate(); err != nil {
		return err
	}
	s.mask = nil
	s.pendingCrop = nil
	return s.commitBase(action, fn(s.current), nil)
}

// Undo restores the state before the last edit.
func (s *Session) Undo() error {
	if s.history == nil {
		return history.ErrNothingToUndo
	}
	if err := s.terminate(); err != nil {
		return err
	}
	f, ok := s.history.PeekUndo()
	if !ok {
		return history.ErrNothingToUndo
	}
	out, err := render.Render(f.Base, f.Layers)
	if err != nil {
		return fmt.Errorf("failed to render undo of %s: %w", f.Action, err)
	}
	if _, err := s.history.Undo(s.base, s.stack.All()); err != nil {
		return err
	}
	return s.restore(f, out)
}

// Redo reapplies the last undone edit.
func (s *Session) Redo() error {
	if s.history == nil {
		return history.ErrNothingToRedo
	}
	if err := s.terminate(); err != nil {
		return err
	}
	f, ok := s.history.PeekRedo()
	if !ok {
		return history.ErrNothingToRedo
	}
	out, err := render.Render(f.Base, f.Layers)
	if err != nil {
		return fmt.Errorf("failed to render redo of %s: %w", f.Action, err)
	}
	if _, err := s.history.Redo(s.base, s.stack.All()); err != nil {
		return err
	}
	return s.restore(f, out)
}

// restore installs a popped frame. The interactive set is rebuilt from the
// restored layers and the selection is cleared.
func (s *Session) restore(f history.Frame, out *image.RGBA) error {
	if err := s.stack.Restore(f.Layers); err != nil {
		return err
	}
	s.base = f.Base
	s.setSelected(nil)
	s.ClearSelection()
	s.objects = objects.Collect(s.stack.All())
	s.publish(out)
	logging.Logger().Debug("history restored", "action", f.Action)
	return nil
}

// Chrome collects the transient editing state for drawing.
func (s *Session) Chrome() render.Chrome {
	var c render.Chrome
	c.Preview = s.g.preview
	if s.g.band != nil {
		band := *s.g.band
		c.RubberBand = &band
	} else if s.pendingCrop != nil {
		band := *s.pendingCrop
		c.RubberBand = &band
	}
	if s.selected != nil {
		b := s.selected.Bounds()
		c.Selection = &b
		c.Handles = objects.HandleRects(b, HandleSize)
	}
	if s.mask != nil {
		c.Mask = s.mask.Alpha
	}
	if ring, ok := s.CursorRing(); ok {
		c.Ring = &ring
	}
	return c
}

// Compose draws the current composite with the editing chrome on top.
func (s *Session) Compose(opts render.ChromeOptions) (*image.RGBA, error) {
	if s.current == nil {
		return nil, ErrNoCapture
	}
	return render.Compose(s.current, s.Chrome(), opts)
}
