package editor

import (
	"fmt"
	"image/color"
	"strings"

	"snapedit/internal/effects"
	"snapedit/internal/layers"
	"snapedit/pkg/colorutil"
	"snapedit/pkg/geometry"
)

// Tool is the active editing mode.
type Tool int

const (
	ToolNone Tool = iota
	ToolPen
	ToolHighlight
	ToolShape
	ToolText
	ToolMosaic
	ToolEraser
	ToolMagicWand
	ToolSelect
	ToolCrop
)

var toolNames = []string{"none", "pen", "highlight", "shape", "text", "mosaic", "eraser", "wand", "select", "crop"}

func (t Tool) String() string {
	if t >= 0 && int(t) < len(toolNames) {
		return toolNames[t]
	}
	return fmt.Sprintf("tool(%d)", int(t))
}

// ParseTool parses a tool name such as "pen". "magic-wand" is accepted
// for the wand.
func ParseTool(name string) (Tool, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "magic-wand" || name == "magicwand" {
		return ToolMagicWand, nil
	}
	for i, n := range toolNames {
		if n == name {
			return Tool(i), nil
		}
	}
	return ToolNone, fmt.Errorf("unknown tool %q", name)
}

// PointerType is the phase of a pointer event.
type PointerType int

const (
	PointerDown PointerType = iota
	PointerMove
	PointerUp
	PointerCancel
)

func (p PointerType) String() string {
	switch p {
	case PointerDown:
		return "down"
	case PointerMove:
		return "move"
	case PointerUp:
		return "up"
	case PointerCancel:
		return "cancel"
	}
	return fmt.Sprintf("pointer(%d)", int(p))
}

// PointerEvent is a pointer event in capture pixel coordinates.
type PointerEvent struct {
	Type PointerType
	Pos  geometry.Point2D
}

// Settings are the tool defaults. SetStyle and friends change them at
// runtime; a config reload replaces them wholesale.
type Settings struct {
	Pen       layers.Style
	Highlight layers.Style
	Shape     layers.Style
	ShapeType layers.ShapeType
	Text      layers.Style
	Font      layers.TextStyle

	EraserSize  float64 // Diameter of the eraser
	MosaicBlock int     // Mosaic tile edge in pixels
	Wand        effects.WandOptions
}

// DefaultSettings returns the built-in tool defaults.
func DefaultSettings() Settings {
	return Settings{
		Pen:         layers.Style{Color: colorutil.Red, Thickness: 3},
		Highlight:   layers.Style{Color: colorutil.WithOpacity(colorutil.Yellow, 0.5), Thickness: 5},
		Shape:       layers.Style{Color: colorutil.Red, Thickness: 2, FillOpacity: 0.3},
		ShapeType:   layers.ShapeRectangle,
		Text:        layers.Style{Color: colorutil.Red},
		Font:        layers.TextStyle{Size: 16},
		EraserSize:  10,
		MosaicBlock: 10,
		Wand:        effects.DefaultWandOptions(),
	}
}

// styleFor returns the paint style used by a tool.
func (s *Settings) styleFor(t Tool) layers.Style {
	switch t {
	case ToolHighlight:
		return s.Highlight
	case ToolShape:
		return s.Shape
	case ToolText:
		return s.Text
	}
	return s.Pen
}

// setStyleFor replaces the style of a tool. Highlight colors keep their
// translucency when an opaque color is given.
func (s *Settings) setStyleFor(t Tool, style layers.Style) {
	switch t {
	case ToolHighlight:
		if opaque(style.Color) {
			style.Color.A = s.Highlight.Color.A
		}
		s.Highlight = style
	case ToolShape:
		s.Shape = style
	case ToolText:
		s.Text = style
	default:
		s.Pen = style
	}
}

func opaque(c color.NRGBA) bool { return c.A == 255 }
