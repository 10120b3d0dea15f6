// Package layers defines the non-destructive annotation model: one
// DrawingLayer per stroke, shape or text block, kept in paint order by a Stack.
package layers

import (
	"errors"
	"fmt"
	"image/color"
	"strings"

	"github.com/jinzhu/copier"

	"snapedit/pkg/geometry"
)

// ErrDegenerate is returned for layers with no drawable geometry.
var ErrDegenerate = errors.New("degenerate layer")

// Kind is the kind of annotation a layer holds.
type Kind int

const (
	KindPen Kind = iota
	KindHighlight
	KindShape
	KindText
)

var kindNames = []string{"pen", "highlight", "shape", "text"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// IsStroke reports whether the kind is a free-form polyline.
func (k Kind) IsStroke() bool {
	return k == KindPen || k == KindHighlight
}

// ShapeType selects the primitive of a KindShape layer.
type ShapeType int

const (
	ShapeRectangle ShapeType = iota
	ShapeEllipse
	ShapeLine
	ShapeArrow
)

var shapeNames = []string{"rectangle", "ellipse", "line", "arrow"}

func (s ShapeType) String() string {
	if int(s) < len(shapeNames) {
		return shapeNames[s]
	}
	return fmt.Sprintf("shape(%d)", int(s))
}

// ParseShapeType parses a shape name such as "arrow".
func ParseShapeType(name string) (ShapeType, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range shapeNames {
		if n == name {
			return ShapeType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown shape %q", name)
}

// Style holds the paint parameters of a layer.
type Style struct {
	Color       color.NRGBA `json:"color"`
	Thickness   float64     `json:"thickness"`
	Fill        bool        `json:"fill"`
	FillOpacity float64     `json:"fill_opacity"` // 0-1
}

// TextStyle holds the font parameters of a text layer.
type TextStyle struct {
	Size      float64 `json:"size"`
	Shadow    bool    `json:"shadow"`
	Underline bool    `json:"underline"`
}

// DrawingLayer is one non-destructive annotation.
//
// Points are in capture pixel space. Strokes use every point, shapes use
// Points[0] as start and Points[1] as end, and text uses Points[0] as the
// top-left corner of the block.
type DrawingLayer struct {
	ID     int                `json:"id"`
	Kind   Kind               `json:"kind"`
	Shape  ShapeType          `json:"shape"`
	Points []geometry.Point2D `json:"points"`
	Style  Style              `json:"style"`
	Text   string             `json:"text,omitempty"`
	Font   TextStyle          `json:"font"`
	Erased bool               `json:"erased"`
}

// NewStroke creates a pen or highlight layer.
func NewStroke(kind Kind, points []geometry.Point2D, style Style) *DrawingLayer {
	return &DrawingLayer{
		Kind:   kind,
		Points: append([]geometry.Point2D(nil), points...),
		Style:  style,
	}
}

// NewShape creates a shape layer spanning start to end.
func NewShape(shape ShapeType, start, end geometry.Point2D, style Style) *DrawingLayer {
	return &DrawingLayer{
		Kind:   KindShape,
		Shape:  shape,
		Points: []geometry.Point2D{start, end},
		Style:  style,
	}
}

// NewText creates a text layer anchored at pos.
func NewText(pos geometry.Point2D, text string, font TextStyle, style Style) *DrawingLayer {
	return &DrawingLayer{
		Kind:   KindText,
		Points: []geometry.Point2D{pos},
		Style:  style,
		Text:   text,
		Font:   font,
	}
}

// Start returns the first control point.
func (l *DrawingLayer) Start() geometry.Point2D {
	if len(l.Points) == 0 {
		return geometry.Point2D{}
	}
	return l.Points[0]
}

// End returns the last control point.
func (l *DrawingLayer) End() geometry.Point2D {
	if len(l.Points) == 0 {
		return geometry.Point2D{}
	}
	return l.Points[len(l.Points)-1]
}

// IsEditable reports whether the layer can become an interactive object.
func (l *DrawingLayer) IsEditable() bool {
	return l.Kind == KindShape || l.Kind == KindText
}

// Validate reports layers that would draw nothing.
func (l *DrawingLayer) Validate() error {
	switch l.Kind {
	case KindPen, KindHighlight:
		if len(l.Points) < 2 {
			return fmt.Errorf("%w: %s needs at least 2 points, has %d", ErrDegenerate, l.Kind, len(l.Points))
		}
	case KindShape:
		if len(l.Points) < 2 {
			return fmt.Errorf("%w: %s needs 2 points", ErrDegenerate, l.Shape)
		}
		a, b := l.Points[0], l.Points[1]
		switch l.Shape {
		case ShapeRectangle, ShapeEllipse:
			if geometry.RectFromPoints(a, b).Empty() {
				return fmt.Errorf("%w: zero-area %s", ErrDegenerate, l.Shape)
			}
		default:
			if a == b {
				return fmt.Errorf("%w: zero-length %s", ErrDegenerate, l.Shape)
			}
		}
	case KindText:
		if len(l.Points) < 1 || strings.TrimSpace(l.Text) == "" {
			return fmt.Errorf("%w: empty text", ErrDegenerate)
		}
		if l.Font.Size <= 0 {
			return fmt.Errorf("%w: font size %.1f", ErrDegenerate, l.Font.Size)
		}
	default:
		return fmt.Errorf("unknown layer kind %d", int(l.Kind))
	}
	if l.Style.Thickness < 0 {
		return fmt.Errorf("negative thickness %.1f", l.Style.Thickness)
	}
	return nil
}

// Clone returns a deep copy sharing no memory with l.
func (l *DrawingLayer) Clone() (*DrawingLayer, error) {
	out := &DrawingLayer{}
	if err := copier.CopyWithOption(out, l, copier.Option{DeepCopy: true}); err != nil {
		return nil, fmt.Errorf("failed to clone layer %d: %w", l.ID, err)
	}
	return out, nil
}

// CloneAll deep-copies a layer list.
func CloneAll(list []*DrawingLayer) ([]*DrawingLayer, error) {
	out := make([]*DrawingLayer, 0, len(list))
	for _, l := range list {
		c, err := l.Clone()
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}
