package objects

import (
	"snapedit/internal/layers"
	"snapedit/pkg/geometry"
)

// Object is the editable view of a shape or text layer. It caches the
// layer's bounds; call Refresh after editing the layer.
type Object struct {
	Layer  *layers.DrawingLayer
	bounds geometry.Rect
}

// NewObject wraps a layer.
func NewObject(l *layers.DrawingLayer) *Object {
	o := &Object{Layer: l}
	o.Refresh()
	return o
}

// ID returns the backing layer's ID.
func (o *Object) ID() int { return o.Layer.ID }

// Bounds returns the cached bounds.
func (o *Object) Bounds() geometry.Rect { return o.bounds }

// Refresh recomputes the cached bounds.
func (o *Object) Refresh() { o.bounds = BoundsOf(o.Layer) }

// HitTest reports whether p hits the object.
func (o *Object) HitTest(p geometry.Point2D) bool {
	return o.bounds.Inflate(PickTolerance).Contains(p) && IsPointIn(o.Layer, p)
}

// Move translates the object.
func (o *Object) Move(dx, dy float64) {
	Move(o.Layer, dx, dy)
	o.Refresh()
}

// Resize drags one of the object's handles.
func (o *Object) Resize(dx, dy float64, anchor Anchor) {
	Resize(o.Layer, dx, dy, anchor)
	o.Refresh()
}

// Set is the interactive object set, in paint order.
type Set struct {
	items []*Object
}

// Collect builds the set from the editable, non-erased layers of list.
// The set holds no state of its own, so it can always be rebuilt.
func Collect(list []*layers.DrawingLayer) *Set {
	s := &Set{}
	for _, l := range list {
		if l.IsEditable() && !l.Erased {
			s.items = append(s.items, NewObject(l))
		}
	}
	return s
}

// Len returns the number of objects.
func (s *Set) Len() int { return len(s.items) }

// Objects returns the objects in paint order.
func (s *Set) Objects() []*Object {
	return append([]*Object(nil), s.items...)
}

// TopmostAt returns the last-painted object under p, or nil.
func (s *Set) TopmostAt(p geometry.Point2D) *Object {
	for i := len(s.items) - 1; i >= 0; i-- {
		if s.items[i].HitTest(p) {
			return s.items[i]
		}
	}
	return nil
}

// Find returns the object backed by the given layer ID, or nil.
func (s *Set) Find(id int) *Object {
	for _, o := range s.items {
		if o.ID() == id {
			return o
		}
	}
	return nil
}

// Remove drops the object backed by the given layer ID.
func (s *Set) Remove(id int) bool {
	for i, o := range s.items {
		if o.ID() == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return true
		}
	}
	return false
}
