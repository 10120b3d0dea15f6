// Package render composites drawing layers onto a capture raster.
//
// Rendering is pure: the same base and layer list always produce the same
// pixels. Undo and redo rely on this to restore byte-identical images.
package render

import (
	"fmt"
	"image"
	"image/draw"
	"math"
	"strings"

	"github.com/anthonynsimon/bild/clone"
	"github.com/gogpu/gg"

	"snapedit/internal/layers"
	"snapedit/pkg/colorutil"
	"snapedit/pkg/geometry"
)

// Arrowhead geometry shared with the bounds engine.
const (
	ArrowHeadLength    = 15.0
	ArrowHeadHalfAngle = math.Pi / 6
)

// Render paints the non-erased layers over a copy of base in list order.
// base is never modified.
func Render(base *image.RGBA, list []*layers.DrawingLayer) (out *image.RGBA, err error) {
	if base == nil {
		return nil, fmt.Errorf("render: nil base raster")
	}
	if base.Bounds().Empty() {
		return nil, fmt.Errorf("render: empty base raster %v", base.Bounds())
	}
	if base.Bounds().Min != (image.Point{}) {
		return nil, fmt.Errorf("render: base raster must start at the origin, got %v", base.Bounds())
	}

	out = clone.AsRGBA(base)
	visible := make([]*layers.DrawingLayer, 0, len(list))
	for _, l := range list {
		if l != nil && !l.Erased {
			visible = append(visible, l)
		}
	}
	if len(visible) == 0 {
		return out, nil
	}

	// Layers are painted on a transparent sheet and composited over the
	// copy, so base pixels no layer touches come back unchanged.
	dc := gg.NewContext(base.Bounds().Dx(), base.Bounds().Dy())
	defer func() {
		if cerr := dc.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to release render context: %w", cerr)
		}
	}()

	for _, l := range visible {
		if err := paintLayer(dc, l); err != nil {
			return nil, fmt.Errorf("failed to paint layer %d (%s): %w", l.ID, l.Kind, err)
		}
	}

	draw.Draw(out, out.Bounds(), dc.Image(), image.Point{}, draw.Over)
	return out, nil
}

// Flatten paints a single layer onto a copy of base. Erased state is ignored.
func Flatten(base *image.RGBA, l *layers.DrawingLayer) (*image.RGBA, error) {
	c := *l
	c.Erased = false
	return Render(base, []*layers.DrawingLayer{&c})
}

func paintLayer(dc *gg.Context, l *layers.DrawingLayer) error {
	switch l.Kind {
	case layers.KindPen, layers.KindHighlight:
		return paintStroke(dc, l.Points, l.Style)
	case layers.KindShape:
		return paintShape(dc, l)
	case layers.KindText:
		return paintText(dc, l)
	}
	return fmt.Errorf("unknown layer kind %d", int(l.Kind))
}

func setColor(dc *gg.Context, style layers.Style) {
	r, g, b, a := colorutil.Floats(style.Color)
	dc.SetRGBA(r, g, b, a)
}

func setStroke(dc *gg.Context, style layers.Style) {
	setColor(dc, style)
	dc.SetLineWidth(style.Thickness)
	dc.SetLineCap(gg.LineCapRound)
	dc.SetLineJoin(gg.LineJoinRound)
}

func paintStroke(dc *gg.Context, points []geometry.Point2D, style layers.Style) error {
	if len(points) < 2 || style.Thickness <= 0 {
		return nil
	}
	setStroke(dc, style)
	dc.MoveTo(points[0].X, points[0].Y)
	for _, p := range points[1:] {
		dc.LineTo(p.X, p.Y)
	}
	return dc.Stroke()
}

func paintShape(dc *gg.Context, l *layers.DrawingLayer) error {
	if len(l.Points) < 2 {
		return nil
	}
	start, end := l.Points[0], l.Points[1]
	style := l.Style

	switch l.Shape {
	case layers.ShapeRectangle, layers.ShapeEllipse:
		box := geometry.RectFromPoints(start, end)
		path := func() {
			if l.Shape == layers.ShapeRectangle {
				dc.DrawRectangle(box.X, box.Y, box.Width, box.Height)
				return
			}
			c := box.Center()
			dc.DrawEllipse(c.X, c.Y, box.Width/2, box.Height/2)
		}
		if style.Fill && style.FillOpacity > 0 {
			r, g, b, _ := colorutil.Floats(style.Color)
			dc.SetRGBA(r, g, b, math.Min(1, style.FillOpacity))
			path()
			if err := dc.Fill(); err != nil {
				return err
			}
		}
		if style.Thickness > 0 {
			setStroke(dc, style)
			path()
			return dc.Stroke()
		}
		return nil

	case layers.ShapeLine:
		return paintStroke(dc, []geometry.Point2D{start, end}, style)

	case layers.ShapeArrow:
		if err := paintStroke(dc, []geometry.Point2D{start, end}, style); err != nil {
			return err
		}
		p1, p2 := geometry.ArrowHead(start, end, ArrowHeadLength, ArrowHeadHalfAngle)
		setColor(dc, style)
		dc.MoveTo(end.X, end.Y)
		dc.LineTo(p1.X, p1.Y)
		dc.LineTo(p2.X, p2.Y)
		dc.ClosePath()
		return dc.Fill()
	}
	return fmt.Errorf("unknown shape %d", int(l.Shape))
}

func paintText(dc *gg.Context, l *layers.DrawingLayer) error {
	if l.Text == "" || len(l.Points) == 0 {
		return nil
	}
	face, err := fontFace(l.Font.Size)
	if err != nil {
		return err
	}
	dc.SetFont(face)

	pos := l.Points[0]
	ascent := face.Metrics().Ascent
	_, lineHeight := dc.MeasureString("Mg")
	_, _, _, alpha := colorutil.Floats(l.Style.Color)

	for i, line := range strings.Split(l.Text, "\n") {
		top := pos.Y + float64(i)*lineHeight
		baseline := top + ascent
		if l.Font.Shadow {
			dc.SetRGBA(0, 0, 0, alpha)
			dc.DrawString(line, pos.X+1, baseline+2)
		}
		setColor(dc, l.Style)
		dc.DrawString(line, pos.X, baseline)

		if l.Font.Underline && line != "" {
			w, _ := dc.MeasureString(line)
			y := top + lineHeight - 1
			dc.SetLineWidth(math.Max(1, l.Font.Size/15))
			dc.SetLineCap(gg.LineCapButt)
			dc.DrawLine(pos.X, y, pos.X+w, y)
			if err := dc.Stroke(); err != nil {
				return err
			}
		}
	}
	return nil
}
