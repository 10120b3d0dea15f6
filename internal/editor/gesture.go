package editor

import (
	"errors"
	"fmt"

	"snapedit/internal/effects"
	"snapedit/internal/events"
	"snapedit/internal/layers"
	"snapedit/internal/logging"
	"snapedit/internal/objects"
	"snapedit/internal/render"
	"snapedit/pkg/geometry"
)

// Dispatch routes one pointer event to the active tool. Invalid geometry
// is reported through a notice event, not as an error.
func (s *Session) Dispatch(ev PointerEvent) error {
	if ev.Type == PointerMove {
		s.cursor = ev.Pos
		s.cursorSeen = true
	}
	if s.capture == nil || s.tool == ToolNone {
		return nil
	}

	switch ev.Type {
	case PointerDown:
		if s.g.active {
			// A lost up event; finish the old gesture where it was.
			if err := s.finish(s.g.last); err != nil {
				return err
			}
		}
		return s.down(ev.Pos)
	case PointerMove:
		if !s.g.active {
			return nil
		}
		return s.move(ev.Pos)
	case PointerUp:
		if !s.g.active {
			return nil
		}
		return s.finish(ev.Pos)
	case PointerCancel:
		return s.terminate()
	}
	return fmt.Errorf("unknown pointer event %d", int(ev.Type))
}

// PointerDown dispatches a down event.
func (s *Session) PointerDown(p geometry.Point2D) error {
	return s.Dispatch(PointerEvent{Type: PointerDown, Pos: p})
}

// PointerMove dispatches a move event.
func (s *Session) PointerMove(p geometry.Point2D) error {
	return s.Dispatch(PointerEvent{Type: PointerMove, Pos: p})
}

// PointerUp dispatches an up event.
func (s *Session) PointerUp(p geometry.Point2D) error {
	return s.Dispatch(PointerEvent{Type: PointerUp, Pos: p})
}

// PointerCancel dispatches a cancel event, sent when pointer capture is lost.
func (s *Session) PointerCancel() error {
	return s.Dispatch(PointerEvent{Type: PointerCancel})
}

// terminate resolves the in-flight gesture as if the pointer were released
// at its last known position.
func (s *Session) terminate() error {
	if !s.g.active {
		return nil
	}
	return s.finish(s.g.last)
}

func (s *Session) down(p geometry.Point2D) error {
	s.g = gesture{active: true, start: p, last: p, points: []geometry.Point2D{p}}
	logging.Logger().Debug("gesture start", "tool", s.tool, "x", p.X, "y", p.Y)

	switch s.tool {
	case ToolPen, ToolHighlight:
		kind := layers.KindPen
		if s.tool == ToolHighlight {
			kind = layers.KindHighlight
		}
		s.g.preview = layers.NewStroke(kind, s.g.points, s.settings.styleFor(s.tool))

	case ToolMosaic, ToolCrop:
		band := geometry.RectFromPoints(p, p)
		s.g.band = &band

	case ToolEraser:
		return s.eraseAt(p)

	case ToolMagicWand:
		mask, err := s.wandAt(p)
		if err != nil || mask == nil {
			return err
		}
		s.mask = mask
		s.bus.Emit(events.SelectionChanged, mask)

	case ToolSelect:
		s.pick(p)
	}
	return nil
}

func (s *Session) move(p geometry.Point2D) error {
	defer func() { s.g.last = p }()
	if p != s.g.start {
		s.g.dragged = true
	}

	switch s.tool {
	case ToolPen, ToolHighlight:
		if p == s.g.last {
			return nil
		}
		s.g.points = append(s.g.points, p)
		s.g.preview.Points = append([]geometry.Point2D(nil), s.g.points...)

	case ToolShape:
		if !s.g.dragged {
			return nil
		}
		s.g.preview = s.newShape(s.g.start, p)

	case ToolMosaic, ToolCrop:
		band := geometry.RectFromPoints(s.g.start, p)
		s.g.band = &band

	case ToolEraser:
		s.g.points = append(s.g.points, p)
		return s.eraseAt(p)

	case ToolMagicWand:
		if s.mask != nil && s.mask.Contains(int(p.X), int(p.Y)) {
			return nil
		}
		mask, err := s.wandAt(p)
		if err != nil || mask == nil {
			return err
		}
		if s.mask == nil {
			s.mask = mask
		} else {
			s.mask.Union(mask)
		}
		s.bus.Emit(events.SelectionChanged, s.mask)

	case ToolSelect:
		return s.drag(p.X-s.g.last.X, p.Y-s.g.last.Y)
	}
	return nil
}

// finish ends the gesture at p and releases it whatever the outcome.
func (s *Session) finish(p geometry.Point2D) error {
	g := s.g
	s.g = gesture{}
	if p != g.start {
		g.dragged = true
	}
	logging.Logger().Debug("gesture end", "tool", s.tool, "x", p.X, "y", p.Y, "dragged", g.dragged)

	switch s.tool {
	case ToolPen, ToolHighlight:
		points := g.points
		if p != g.last {
			points = append(points, p)
		}
		if len(points) < 2 {
			return nil
		}
		_, err := s.commitLayer(s.tool.String(), layers.NewStroke(g.preview.Kind, points, g.preview.Style))
		return err

	case ToolShape:
		if !g.dragged {
			return nil
		}
		return s.bakeShape(s.newShape(g.start, p))

	case ToolText:
		if s.pendingText == "" {
			s.notice("no text to place")
			return nil
		}
		_, err := s.AddText(g.start, s.pendingText)
		return s.noticeOnDegenerate(err)

	case ToolMosaic:
		return s.mosaic(geometry.RectFromPoints(g.start, p))

	case ToolEraser:
		// Samples already erased are skipped, so this only catches layers
		// committed mid-gesture.
		for _, q := range append(g.points, p) {
			if err := s.eraseAt(q); err != nil {
				return err
			}
		}
		return nil

	case ToolMagicWand:
		if s.mask != nil {
			s.bus.Emit(events.SelectionChanged, s.mask)
		}
		return nil

	case ToolSelect:
		if s.selected == nil {
			return nil
		}
		// Apply the final delta when the up event moved past the last move.
		s.g = g
		err := s.drag(p.X-g.last.X, p.Y-g.last.Y)
		s.g = gesture{}
		return err

	case ToolCrop:
		r := geometry.RectFromPoints(g.start, p)
		if r.Empty() {
			s.pendingCrop = nil
			return nil
		}
		s.pendingCrop = &r
		return nil
	}
	return nil
}

// newShape builds a shape layer from the drag. Boxes are stored normalized
// with Points[0] at the top-left corner.
func (s *Session) newShape(start, end geometry.Point2D) *layers.DrawingLayer {
	st := s.settings.ShapeType
	if st == layers.ShapeRectangle || st == layers.ShapeEllipse {
		box := geometry.RectFromPoints(start, end)
		start, end = box.TopLeft(), box.BottomRight()
	}
	return layers.NewShape(st, start, end, s.settings.Shape)
}

// bakeShape paints a dragged shape permanently into the base raster.
func (s *Session) bakeShape(l *layers.DrawingLayer) error {
	if err := l.Validate(); err != nil {
		return s.noticeOnDegenerate(err)
	}
	base, err := render.Flatten(s.base, l)
	if err != nil {
		return fmt.Errorf("failed to draw %s: %w", l.Shape, err)
	}
	return s.commitBase(l.Shape.String(), base, s.stack.All())
}

// noticeOnDegenerate turns geometry rejections into notices.
func (s *Session) noticeOnDegenerate(err error) error {
	if errors.Is(err, layers.ErrDegenerate) {
		s.notice(err.Error())
		return nil
	}
	return err
}

// mosaic pixelates a rectangle of the base raster.
func (s *Session) mosaic(r geometry.Rect) error {
	rect := r.Image()
	if r.Width < effects.MinMosaicSize || r.Height < effects.MinMosaicSize {
		s.notice(effects.ErrSelectionTooSmall.Error())
		return nil
	}
	base := effects.Clone(s.base)
	if err := effects.ApplyMosaic(base, rect, s.settings.MosaicBlock); err != nil {
		if errors.Is(err, effects.ErrSelectionTooSmall) || errors.Is(err, effects.ErrEmptyRegion) {
			s.notice(err.Error())
			return nil
		}
		return fmt.Errorf("failed to apply mosaic: %w", err)
	}
	return s.commitBase("mosaic", base, s.stack.All())
}

// eraseAt erases every visible layer within reach of p. Nothing is recorded
// when nothing is hit.
func (s *Session) eraseAt(p geometry.Point2D) error {
	radius := s.settings.EraserSize / 2
	var ids []int
	list := s.stack.All()
	for i, l := range list {
		if l.Erased || !objects.Erases(l, p, radius) {
			continue
		}
		ids = append(ids, l.ID)
		c := *l
		c.Erased = true
		list[i] = &c
	}
	if len(ids) == 0 {
		return nil
	}

	out, err := render.Render(s.base, list)
	if err != nil {
		return fmt.Errorf("failed to render erase: %w", err)
	}
	if err := s.record("erase"); err != nil {
		return err
	}
	s.stack.Erase(ids...)
	s.rebuildObjects()
	s.publish(out)
	logging.Logger().Debug("erased", "ids", ids)
	return nil
}

// wandAt grows a selection from the pixel under p on the visible image.
func (s *Session) wandAt(p geometry.Point2D) (*effects.Mask, error) {
	seed := p.Image()
	if !seed.In(s.current.Bounds()) {
		return nil, nil
	}
	mask, err := effects.MagicWand(s.current, seed, s.settings.Wand)
	if err != nil {
		return nil, fmt.Errorf("failed to select region: %w", err)
	}
	return mask, nil
}

// pick handles a select-mode press: grab a handle of the selection, else
// the topmost object under p, else clear the selection.
func (s *Session) pick(p geometry.Point2D) {
	if s.selected != nil {
		if anchor, ok := objects.HandleAt(s.selected.Bounds(), p, HandleSize); ok {
			s.g.anchor = anchor
			return
		}
	}
	s.setSelected(s.objects.TopmostAt(p))
}

// drag moves or resizes the selected object by (dx, dy). The first
// effective drag of a gesture records one history frame.
func (s *Session) drag(dx, dy float64) error {
	if s.selected == nil || (dx == 0 && dy == 0) {
		return nil
	}
	edited, err := s.selected.Layer.Clone()
	if err != nil {
		return err
	}
	action := "move"
	if s.g.anchor == objects.AnchorNone {
		objects.Move(edited, dx, dy)
	} else {
		action = "resize"
		objects.Resize(edited, dx, dy, s.g.anchor)
	}

	out, err := render.Render(s.base, s.replaced(edited))
	if err != nil {
		return fmt.Errorf("failed to render %s: %w", action, err)
	}
	if !s.g.saved {
		if err := s.record(action); err != nil {
			return err
		}
		s.g.saved = true
	}
	*s.selected.Layer = *edited
	s.selected.Refresh()
	s.publish(out)
	return nil
}
