package objects

import (
	"math"

	"snapedit/internal/layers"
	"snapedit/pkg/geometry"
)

// Minimum sizes enforced by Resize.
const (
	MinShapeSize  = 5.0
	MinTextHeight = 20.0
)

// Move translates every point of the layer.
func Move(l *layers.DrawingLayer, dx, dy float64) {
	l.Points = geometry.Translate(l.Points, dx, dy)
}

// Resize drags the handle named by anchor by (dx, dy). The opposite edge
// or corner stays fixed; N and S change height only, E and W width only.
func Resize(l *layers.DrawingLayer, dx, dy float64, anchor Anchor) {
	if anchor == AnchorNone || len(l.Points) == 0 {
		return
	}
	switch l.Kind {
	case layers.KindShape:
		if len(l.Points) < 2 {
			return
		}
		if l.Shape == layers.ShapeLine || l.Shape == layers.ShapeArrow {
			resizeEndpoints(l, dx, dy, anchor)
			return
		}
		box := resizeBox(geometry.RectFromPoints(l.Points[0], l.Points[1]), dx, dy, anchor, MinShapeSize, MinShapeSize)
		l.Points[0] = box.TopLeft()
		l.Points[1] = box.BottomRight()

	case layers.KindText:
		resizeText(l, dx, dy, anchor)

	case layers.KindPen, layers.KindHighlight:
		old := geometry.BoundingBox(l.Points)
		box := resizeBox(old, dx, dy, anchor, 1, 1)
		sx, sy := 1.0, 1.0
		if old.Width > 0 {
			sx = box.Width / old.Width
		}
		if old.Height > 0 {
			sy = box.Height / old.Height
		}
		for i, p := range l.Points {
			l.Points[i] = geometry.Point2D{
				X: box.X + (p.X-old.X)*sx,
				Y: box.Y + (p.Y-old.Y)*sy,
			}
		}
	}
}

// resizeBox applies a handle drag to r, clamping to the minimum size while
// keeping the opposite edge in place.
func resizeBox(r geometry.Rect, dx, dy float64, anchor Anchor, minW, minH float64) geometry.Rect {
	left, top := r.X, r.Y
	right, bottom := r.X+r.Width, r.Y+r.Height

	if anchor.West() {
		left = math.Min(left+dx, right-minW)
	}
	if anchor.East() {
		right = math.Max(right+dx, left+minW)
	}
	if anchor.North() {
		top = math.Min(top+dy, bottom-minH)
	}
	if anchor.South() {
		bottom = math.Max(bottom+dy, top+minH)
	}
	return geometry.Rect{X: left, Y: top, Width: right - left, Height: bottom - top}
}

// resizeEndpoints moves whichever endpoint coordinates lie on the dragged
// edges of the line's bounding box.
func resizeEndpoints(l *layers.DrawingLayer, dx, dy float64, anchor Anchor) {
	box := geometry.RectFromPoints(l.Points[0], l.Points[1])
	for i := 0; i < 2; i++ {
		p := &l.Points[i]
		onLeft, onRight := p.X == box.X, p.X == box.X+box.Width
		onTop, onBottom := p.Y == box.Y, p.Y == box.Y+box.Height
		if (anchor.West() && onLeft) || (anchor.East() && onRight) {
			p.X += dx
		}
		if (anchor.North() && onTop) || (anchor.South() && onBottom) {
			p.Y += dy
		}
	}
}

// resizeText scales the font so the block follows the dragged handle.
func resizeText(l *layers.DrawingLayer, dx, dy float64, anchor Anchor) {
	box := textBounds(l)
	if box.Height <= 0 || l.Font.Size <= 0 {
		return
	}
	target := resizeBox(box, dx, dy, anchor, 1, MinTextHeight)

	scale := target.Height / box.Height
	if !anchor.North() && !anchor.South() && box.Width > 0 {
		scale = target.Width / box.Width
	}
	if box.Height*scale < MinTextHeight {
		scale = MinTextHeight / box.Height
	}
	l.Font.Size = l.Font.Size * scale

	newW, newH := box.Width*scale, box.Height*scale
	pos := box.TopLeft()
	if anchor.West() {
		pos.X = box.X + box.Width - newW
	}
	if anchor.North() {
		pos.Y = box.Y + box.Height - newH
	}
	l.Points[0] = pos
}
