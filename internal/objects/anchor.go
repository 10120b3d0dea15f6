package objects

import (
	"fmt"
	"strings"

	"snapedit/pkg/geometry"
)

// Anchor names a resize handle by compass direction.
type Anchor int

const (
	AnchorNone Anchor = iota
	AnchorN
	AnchorS
	AnchorE
	AnchorW
	AnchorNE
	AnchorNW
	AnchorSE
	AnchorSW
)

var anchorNames = []string{"", "n", "s", "e", "w", "ne", "nw", "se", "sw"}

func (a Anchor) String() string {
	if int(a) < len(anchorNames) {
		return anchorNames[a]
	}
	return fmt.Sprintf("anchor(%d)", int(a))
}

// ParseAnchor parses "n", "se" and so on.
func ParseAnchor(s string) (Anchor, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range anchorNames {
		if i > 0 && n == s {
			return Anchor(i), nil
		}
	}
	return AnchorNone, fmt.Errorf("unknown resize anchor %q", s)
}

// North reports whether dragging this handle moves the top edge.
func (a Anchor) North() bool { return a == AnchorN || a == AnchorNE || a == AnchorNW }

// South reports whether dragging this handle moves the bottom edge.
func (a Anchor) South() bool { return a == AnchorS || a == AnchorSE || a == AnchorSW }

// East reports whether dragging this handle moves the right edge.
func (a Anchor) East() bool { return a == AnchorE || a == AnchorNE || a == AnchorSE }

// West reports whether dragging this handle moves the left edge.
func (a Anchor) West() bool { return a == AnchorW || a == AnchorNW || a == AnchorSW }

// Handle is a resize handle rectangle.
type Handle struct {
	Anchor Anchor
	Rect   geometry.Rect
}

// Handles returns the eight resize handles of bounds, each size pixels square.
func Handles(bounds geometry.Rect, size float64) []Handle {
	l, t := bounds.X, bounds.Y
	r, b := bounds.X+bounds.Width, bounds.Y+bounds.Height
	cx, cy := bounds.Center().X, bounds.Center().Y
	at := func(a Anchor, x, y float64) Handle {
		return Handle{Anchor: a, Rect: geometry.NewRect(x-size/2, y-size/2, size, size)}
	}
	return []Handle{
		at(AnchorNW, l, t), at(AnchorN, cx, t), at(AnchorNE, r, t),
		at(AnchorW, l, cy), at(AnchorE, r, cy),
		at(AnchorSW, l, b), at(AnchorS, cx, b), at(AnchorSE, r, b),
	}
}

// HandleAt returns the handle under p, if any. Corners win over edges.
func HandleAt(bounds geometry.Rect, p geometry.Point2D, size float64) (Anchor, bool) {
	for _, h := range Handles(bounds, size) {
		if h.Rect.Contains(p) {
			return h.Anchor, true
		}
	}
	return AnchorNone, false
}

// HandleRects returns just the rectangles of Handles, for drawing.
func HandleRects(bounds geometry.Rect, size float64) []geometry.Rect {
	hs := Handles(bounds, size)
	out := make([]geometry.Rect, len(hs))
	for i, h := range hs {
		out[i] = h.Rect
	}
	return out
}
