// Package objects computes bounds and hit tests for drawing layers, and
// applies move and resize edits to them.
package objects

import (
	"math"

	"snapedit/internal/layers"
	"snapedit/internal/logging"
	"snapedit/internal/render"
	"snapedit/pkg/geometry"
)

// PickTolerance is the minimum distance in pixels at which a click still
// hits a thin stroke or line.
const PickTolerance = 10.0

// BoundsOf returns the axis-aligned bounds of a layer.
func BoundsOf(l *layers.DrawingLayer) geometry.Rect {
	switch l.Kind {
	case layers.KindPen, layers.KindHighlight:
		return geometry.BoundingBox(l.Points).Inflate(l.Style.Thickness / 2)

	case layers.KindShape:
		if len(l.Points) < 2 {
			return geometry.BoundingBox(l.Points)
		}
		start, end := l.Points[0], l.Points[1]
		box := geometry.RectFromPoints(start, end)
		if l.Shape == layers.ShapeArrow {
			p1, p2 := geometry.ArrowHead(start, end, render.ArrowHeadLength, render.ArrowHeadHalfAngle)
			box = box.Union(geometry.BoundingBox([]geometry.Point2D{p1, p2}))
		}
		return box

	case layers.KindText:
		return textBounds(l)
	}
	return geometry.BoundingBox(l.Points)
}

func textBounds(l *layers.DrawingLayer) geometry.Rect {
	pos := l.Start()
	w, h, err := render.MeasureText(l.Text, l.Font.Size)
	if err != nil {
		// Fall back to a rough estimate so the object stays selectable.
		logging.Logger().Warn("text measurement failed", "layer", l.ID, "err", err)
		w = float64(len(l.Text)) * l.Font.Size * 0.6
		h = l.Font.Size * 1.2
	}
	return geometry.NewRect(pos.X, pos.Y, w, h)
}

// IsPointIn reports whether p hits the layer.
func IsPointIn(l *layers.DrawingLayer, p geometry.Point2D) bool {
	tolerance := math.Max(l.Style.Thickness/2, PickTolerance)

	switch l.Kind {
	case layers.KindPen, layers.KindHighlight:
		return geometry.DistanceToPolyline(p, l.Points) <= tolerance

	case layers.KindShape:
		if len(l.Points) < 2 {
			return false
		}
		start, end := l.Points[0], l.Points[1]
		switch l.Shape {
		case layers.ShapeRectangle:
			return geometry.RectFromPoints(start, end).Inflate(l.Style.Thickness / 2).Contains(p)
		case layers.ShapeEllipse:
			return geometry.PointInEllipse(p, geometry.RectFromPoints(start, end).Inflate(l.Style.Thickness/2))
		case layers.ShapeLine:
			return geometry.DistanceToSegment(p, start, end) <= tolerance
		case layers.ShapeArrow:
			if geometry.DistanceToSegment(p, start, end) <= tolerance {
				return true
			}
			p1, p2 := geometry.ArrowHead(start, end, render.ArrowHeadLength, render.ArrowHeadHalfAngle)
			return geometry.PointInPolygon(p, []geometry.Point2D{end, p1, p2})
		}

	case layers.KindText:
		return textBounds(l).Contains(p)
	}
	return false
}

// Erases reports whether an eraser of the given radius centered at c
// touches the layer. Strokes and shapes are measured against their drawn
// outline, filled shapes also against their interior, and text against its
// bounds.
func Erases(l *layers.DrawingLayer, c geometry.Point2D, radius float64) bool {
	reach := radius + l.Style.Thickness/2

	switch l.Kind {
	case layers.KindPen, layers.KindHighlight:
		return geometry.DistanceToPolyline(c, l.Points) <= reach

	case layers.KindShape:
		if len(l.Points) < 2 {
			return false
		}
		start, end := l.Points[0], l.Points[1]
		switch l.Shape {
		case layers.ShapeLine:
			return geometry.DistanceToSegment(c, start, end) <= reach
		case layers.ShapeArrow:
			p1, p2 := geometry.ArrowHead(start, end, render.ArrowHeadLength, render.ArrowHeadHalfAngle)
			head := []geometry.Point2D{end, p1, p2, end}
			return geometry.DistanceToSegment(c, start, end) <= reach ||
				geometry.DistanceToPolyline(c, head) <= reach ||
				geometry.PointInPolygon(c, head[:3])
		case layers.ShapeRectangle:
			box := geometry.RectFromPoints(start, end)
			if l.Style.Fill && box.Contains(c) {
				return true
			}
			return geometry.DistanceToPolyline(c, rectOutline(box)) <= reach
		case layers.ShapeEllipse:
			box := geometry.RectFromPoints(start, end)
			if l.Style.Fill && geometry.PointInEllipse(c, box) {
				return true
			}
			return geometry.DistanceToPolyline(c, ellipseOutline(box)) <= reach
		}
		return false
	}

	square := geometry.NewRect(c.X-radius, c.Y-radius, 2*radius, 2*radius)
	return BoundsOf(l).Intersects(square)
}

// ellipseSegments is the number of chords approximating an ellipse outline.
const ellipseSegments = 72

func rectOutline(r geometry.Rect) []geometry.Point2D {
	tl, br := r.TopLeft(), r.BottomRight()
	return []geometry.Point2D{
		tl,
		{X: br.X, Y: tl.Y},
		br,
		{X: tl.X, Y: br.Y},
		tl,
	}
}

func ellipseOutline(r geometry.Rect) []geometry.Point2D {
	c := r.Center()
	rx, ry := r.Width/2, r.Height/2
	pts := make([]geometry.Point2D, ellipseSegments+1)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / ellipseSegments
		pts[i] = geometry.Point2D{X: c.X + rx*math.Cos(a), Y: c.Y + ry*math.Sin(a)}
	}
	return pts
}
