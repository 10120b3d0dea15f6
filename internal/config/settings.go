package config

import (
	"fmt"

	"snapedit/internal/editor"
	"snapedit/internal/layers"
	"snapedit/pkg/colorutil"
)

// EditorSettings converts the [tools] and [wand] sections into editor
// tool defaults.
func (c *Config) EditorSettings() (editor.Settings, error) {
	t := c.Tools
	color := func(key, hex string) (layers.Style, error) {
		col, err := colorutil.ParseHex(hex)
		if err != nil {
			return layers.Style{}, fmt.Errorf("tools.%s: %w", key, err)
		}
		return layers.Style{Color: col}, nil
	}

	var s editor.Settings
	var err error
	if s.Pen, err = color("pen_color", t.PenColor); err != nil {
		return s, err
	}
	s.Pen.Thickness = t.PenThickness

	if s.Highlight, err = color("highlight_color", t.HighlightColor); err != nil {
		return s, err
	}
	s.Highlight.Color = colorutil.WithOpacity(s.Highlight.Color, t.HighlightAlpha)
	s.Highlight.Thickness = t.HighlightThickness

	if s.Shape, err = color("shape_color", t.ShapeColor); err != nil {
		return s, err
	}
	s.Shape.Thickness = t.ShapeThickness
	s.Shape.Fill = t.Fill
	s.Shape.FillOpacity = t.FillOpacity
	if s.ShapeType, err = layers.ParseShapeType(t.ShapeType); err != nil {
		return s, fmt.Errorf("tools.shape_type: %w", err)
	}

	if s.Text, err = color("text_color", t.TextColor); err != nil {
		return s, err
	}
	s.Font = layers.TextStyle{Size: t.FontSize, Shadow: t.TextShadow, Underline: t.TextUnderline}

	s.EraserSize = t.EraserSize
	s.MosaicBlock = t.MosaicBlock
	s.Wand = c.WandOptions()
	return s, nil
}
