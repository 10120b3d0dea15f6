// Package theme provides the editor's fyne theme and the matching colors
// for the selection chrome drawn over captures.
package theme

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"

	"snapedit/internal/render"
)

// SnapEditTheme takes its accent from the selection outline so widgets and
// canvas chrome agree, and keeps toolbar controls compact.
type SnapEditTheme struct{}

var _ fyne.Theme = (*SnapEditTheme)(nil)

// Surround of the capture view; matches the canvas letterbox.
var canvasBackground = color.NRGBA{R: 0x30, G: 0x30, B: 0x30, A: 0xFF}

func (t *SnapEditTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	chrome := Chrome(variant)
	switch name {
	case theme.ColorNamePrimary, theme.ColorNameHyperlink:
		return chrome.OutlineColor
	case theme.ColorNameFocus:
		return withAlpha(chrome.OutlineColor, 0x80)
	case theme.ColorNameSelection:
		return withAlpha(chrome.MaskTint, chrome.MaskTint.A)
	case theme.ColorNameScrollBar:
		return color.NRGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xFF}
	case theme.ColorNameBackground:
		if variant == theme.VariantDark {
			return canvasBackground
		}
	}
	return theme.DefaultTheme().Color(name, variant)
}

func (t *SnapEditTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (t *SnapEditTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (t *SnapEditTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNameScrollBar:
		return 14
	case theme.SizeNameScrollBarSmall:
		return 10
	case theme.SizeNamePadding:
		return 3
	case theme.SizeNameInnerPadding:
		return 6
	default:
		return theme.DefaultTheme().Size(name)
	}
}

// Chrome returns the selection chrome colors for a theme variant. The
// eraser ring is drawn light on dark themes so it stays visible against
// the canvas surround.
func Chrome(variant fyne.ThemeVariant) render.ChromeOptions {
	opts := render.DefaultChromeOptions()
	if variant == theme.VariantDark {
		opts.OutlineColor = color.RGBA{R: 0x3D, G: 0x9B, B: 0xF0, A: 0xFF}
		opts.HandleBorder = opts.OutlineColor
		opts.HandleColor = color.RGBA{R: 0x20, G: 0x20, B: 0x20, A: 0xFF}
		opts.RingColor = color.RGBA{R: 0xD0, G: 0xD0, B: 0xD0, A: 0xFF}
		opts.MaskTint = color.RGBA{R: 0x18, G: 0x3E, B: 0x60, A: 0x60}
	}
	return opts
}

func withAlpha(c color.RGBA, a uint8) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: a}
}
