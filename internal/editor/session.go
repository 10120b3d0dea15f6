// Package editor turns pointer gestures into edits of the active capture.
//
// A Session works on a private copy of one capture at a time: its base
// raster, layer stack and undo history. Every committed edit snapshots the
// previous state, re-renders the composite and publishes it to the capture.
// Transient state (previews, rubber bands, the eraser ring) lives only in
// the session and is exposed through Chrome for drawing.
//
// A Session is not safe for concurrent use.
package editor

import (
	"fmt"
	"image"

	"snapedit/internal/capture"
	"snapedit/internal/effects"
	"snapedit/internal/events"
	"snapedit/internal/history"
	"snapedit/internal/layers"
	"snapedit/internal/logging"
	"snapedit/internal/objects"
	"snapedit/internal/render"
	"snapedit/pkg/geometry"
)

// HandleSize is the edge length of a resize handle in capture pixels.
const HandleSize = 8.0

// gesture is the in-flight pointer interaction.
type gesture struct {
	active  bool
	start   geometry.Point2D
	last    geometry.Point2D
	points  []geometry.Point2D // Stroke or eraser samples
	dragged bool
	preview *layers.DrawingLayer
	band    *geometry.Rect // Mosaic or crop rubber band

	anchor objects.Anchor // Handle being dragged in select mode
	saved  bool           // Select drag already recorded in history
}

// Session is the editor state machine.
type Session struct {
	bus      *events.Bus
	settings Settings
	tool     Tool

	capture *capture.Capture
	base    *image.RGBA
	stack   *layers.Stack
	current *image.RGBA
	history *history.Manager
	objects *objects.Set

	g           gesture
	selected    *objects.Object
	mask        *effects.Mask
	pendingCrop *geometry.Rect
	pendingText string

	cursor     geometry.Point2D
	cursorSeen bool
}

// New creates a session with no capture attached. bus may be nil.
func New(bus *events.Bus, settings Settings) *Session {
	if bus == nil {
		bus = events.NewBus()
	}
	return &Session{
		bus:      bus,
		settings: settings,
		stack:    layers.NewStack(),
		objects:  objects.Collect(nil),
	}
}

// Bus returns the event bus the session emits on.
func (s *Session) Bus() *events.Bus { return s.bus }

// Attach loads a capture's stored state as the working copy, renders it and
// publishes the result to the capture. Any previous capture must have been
// detached first or its unsaved edits are lost.
func (s *Session) Attach(c *capture.Capture) error {
	list, err := c.Layers()
	if err != nil {
		return fmt.Errorf("failed to load layers of %q: %w", c.Name, err)
	}
	base := c.Base()
	out, err := render.Render(base, list)
	if err != nil {
		return fmt.Errorf("failed to render %q: %w", c.Name, err)
	}

	stack := layers.NewStack()
	if err := stack.Restore(list); err != nil {
		return err
	}
	stack.Reserve(c.NextLayerID())

	s.capture = c
	s.base = base
	s.stack = stack
	s.history = c.History()
	s.resetTransient()
	s.publish(out)
	logging.Logger().Debug("capture attached", "capture", c.Name, "layers", len(list))
	return nil
}

// Detach ends any gesture, stores the working copy back into the capture
// and leaves the session without a capture.
func (s *Session) Detach() error {
	if s.capture == nil {
		return nil
	}
	if err := s.Persist(); err != nil {
		return err
	}
	s.capture = nil
	s.base = nil
	s.current = nil
	s.history = nil
	s.stack = layers.NewStack()
	s.resetTransient()
	return nil
}

// Persist ends any gesture and stores deep copies of the working base and
// layers into the attached capture.
func (s *Session) Persist() error {
	if s.capture == nil {
		return nil
	}
	if err := s.terminate(); err != nil {
		return err
	}
	if err := s.capture.Store(s.base, s.stack.All(), s.stack.NextID()); err != nil {
		return fmt.Errorf("failed to persist %q: %w", s.capture.Name, err)
	}
	return nil
}

// Capture returns the attached capture, or nil.
func (s *Session) Capture() *capture.Capture { return s.capture }

// Current returns the current composite. Callers must not modify it.
func (s *Session) Current() *image.RGBA { return s.current }

// Base returns the working base raster. Callers must not modify it.
func (s *Session) Base() *image.RGBA { return s.base }

// Layers returns the working layers in paint order. The layers are shared.
func (s *Session) Layers() []*layers.DrawingLayer { return s.stack.All() }

// Objects returns the interactive object set.
func (s *Session) Objects() *objects.Set { return s.objects }

// History returns the attached capture's history, or nil.
func (s *Session) History() *history.Manager { return s.history }

// Tool returns the active tool.
func (s *Session) Tool() Tool { return s.tool }

// Settings returns the current tool settings.
func (s *Session) Settings() Settings { return s.settings }

// SetSettings replaces the tool settings, for example after a config reload.
func (s *Session) SetSettings(settings Settings) { s.settings = settings }

// SetTool ends the in-flight gesture, then switches tools. Leaving select
// mode confirms the selection and leaving crop mode drops the pending crop.
func (s *Session) SetTool(t Tool) error {
	if err := s.terminate(); err != nil {
		return err
	}
	if t == s.tool {
		return nil
	}
	if s.tool == ToolSelect {
		s.Confirm()
	}
	if s.tool == ToolCrop {
		s.pendingCrop = nil
	}
	s.tool = t
	s.cursorSeen = false
	s.bus.Emit(events.ToolChanged, t)
	return nil
}

// Style returns the paint style of the active tool, or of the selected
// object in select mode.
func (s *Session) Style() layers.Style {
	if s.tool == ToolSelect && s.selected != nil {
		return s.selected.Layer.Style
	}
	return s.settings.styleFor(s.tool)
}

// SetStyle changes the style of the active tool. In select mode it applies
// to the selected object immediately, as one undoable edit.
func (s *Session) SetStyle(style layers.Style) error {
	if s.tool != ToolSelect {
		s.settings.setStyleFor(s.tool, style)
		return nil
	}
	if s.selected == nil {
		return nil
	}
	return s.editSelected("style", func(l *layers.DrawingLayer) {
		l.Style = style
	})
}

// SetFont changes the text font settings, and the font of a selected text
// object in select mode.
func (s *Session) SetFont(font layers.TextStyle) error {
	if s.tool == ToolSelect && s.selected != nil && s.selected.Layer.Kind == layers.KindText {
		return s.editSelected("font", func(l *layers.DrawingLayer) {
			l.Font = font
		})
	}
	s.settings.Font = font
	return nil
}

// SetShapeType selects the primitive drawn by the shape tool.
func (s *Session) SetShapeType(st layers.ShapeType) { s.settings.ShapeType = st }

// SetPendingText sets the text the text tool places on the next click.
func (s *Session) SetPendingText(text string) { s.pendingText = text }

// PendingText returns the text the text tool will place.
func (s *Session) PendingText() string { return s.pendingText }

// Selected returns the selected interactive object, or nil.
func (s *Session) Selected() *objects.Object { return s.selected }

// Selection returns the magic wand mask, or nil.
func (s *Session) Selection() *effects.Mask { return s.mask }

// PendingCrop returns the crop rectangle waiting for ApplyCrop.
func (s *Session) PendingCrop() (geometry.Rect, bool) {
	if s.pendingCrop == nil {
		return geometry.Rect{}, false
	}
	return *s.pendingCrop, true
}

// Preview returns the in-flight stroke or shape, or nil.
func (s *Session) Preview() *layers.DrawingLayer { return s.g.preview }

// CursorRing reports the eraser outline while the eraser is active and the
// pointer has been over the capture.
func (s *Session) CursorRing() (render.Ring, bool) {
	if s.tool != ToolEraser || !s.cursorSeen {
		return render.Ring{}, false
	}
	return render.Ring{Center: s.cursor, Diameter: s.settings.EraserSize}, true
}

// CanUndo reports whether Undo would change anything.
func (s *Session) CanUndo() bool { return s.history != nil && s.history.CanUndo() }

// CanRedo reports whether Redo would change anything.
func (s *Session) CanRedo() bool { return s.history != nil && s.history.CanRedo() }

// resetTransient drops everything tied to the previous working copy.
func (s *Session) resetTransient() {
	s.g = gesture{}
	s.selected = nil
	s.mask = nil
	s.pendingCrop = nil
	s.objects = objects.Collect(s.stack.All())
}

// publish installs a new composite and announces it.
func (s *Session) publish(out *image.RGBA) {
	s.current = out
	if s.capture != nil {
		s.capture.Publish(out)
	}
	s.bus.Emit(events.RasterChanged, out)
}

func (s *Session) notice(msg string) {
	logging.Logger().Debug("notice", "tool", s.tool, "msg", msg)
	s.bus.Emit(events.Notice, msg)
}

// record snapshots the working state before an edit.
func (s *Session) record(action string) error {
	if err := s.history.Save(action, s.base, s.stack.All()); err != nil {
		return fmt.Errorf("failed to record %s: %w", action, err)
	}
	return nil
}

// rebuildObjects recreates the interactive set from the layers, keeping
// the selection when its layer survived.
func (s *Session) rebuildObjects() {
	s.objects = objects.Collect(s.stack.All())
	if s.selected == nil {
		return
	}
	if o := s.objects.Find(s.selected.ID()); o != nil {
		s.selected = o
		return
	}
	s.setSelected(nil)
}

func (s *Session) setSelected(o *objects.Object) {
	if o == s.selected {
		return
	}
	s.selected = o
	if o == nil {
		s.bus.Emit(events.SelectionChanged, nil)
		return
	}
	s.bus.Emit(events.SelectionChanged, o)
}

// commitLayer renders list plus l and, on success, records the previous
// state and appends l to the stack.
func (s *Session) commitLayer(action string, l *layers.DrawingLayer) (int, error) {
	l.ID = s.stack.NextID()
	out, err := render.Render(s.base, append(s.stack.All(), l))
	if err != nil {
		return 0, fmt.Errorf("failed to render %s: %w", action, err)
	}
	if err := s.record(action); err != nil {
		return 0, err
	}
	id := s.stack.Add(l)
	if l.IsEditable() {
		s.rebuildObjects()
	}
	s.publish(out)
	logging.Logger().Debug("layer added", "action", action, "id", id, "kind", l.Kind)
	return id, nil
}

// commitBase renders a new base under list and, on success, records the
// previous state and installs both. A nil list clears the layers.
func (s *Session) commitBase(action string, base *image.RGBA, list []*layers.DrawingLayer) error {
	out, err := render.Render(base, list)
	if err != nil {
		return fmt.Errorf("failed to render %s: %w", action, err)
	}
	if err := s.record(action); err != nil {
		return err
	}
	s.base = base
	if list == nil {
		s.stack.Clear()
	}
	s.rebuildObjects()
	s.publish(out)
	logging.Logger().Debug("base replaced", "action", action, "bounds", base.Bounds())
	return nil
}

// editSelected applies fn to a copy of the selected layer, renders, and on
// success records and installs the edit. The layer keeps its identity.
func (s *Session) editSelected(action string, fn func(l *layers.DrawingLayer)) error {
	edited, err := s.selected.Layer.Clone()
	if err != nil {
		return err
	}
	fn(edited)
	out, err := render.Render(s.base, s.replaced(edited))
	if err != nil {
		return fmt.Errorf("failed to render %s: %w", action, err)
	}
	if err := s.record(action); err != nil {
		return err
	}
	*s.selected.Layer = *edited
	s.selected.Refresh()
	s.publish(out)
	return nil
}

// replaced returns the layer list with the layer sharing l's ID swapped
// for l.
func (s *Session) replaced(l *layers.DrawingLayer) []*layers.DrawingLayer {
	list := s.stack.All()
	for i, cur := range list {
		if cur.ID == l.ID {
			list[i] = l
		}
	}
	return list
}
