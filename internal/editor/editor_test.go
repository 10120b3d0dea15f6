package editor

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snapedit/internal/capture"
	"snapedit/internal/events"
	"snapedit/internal/history"
	"snapedit/internal/layers"
	"snapedit/internal/objects"
	"snapedit/internal/render"
	"snapedit/pkg/colorutil"
	"snapedit/pkg/geometry"
)

func pt(x, y float64) geometry.Point2D { return geometry.Point2D{X: x, Y: y} }

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

// halves paints the left half red and the right half blue.
func halves(w, h int) *image.RGBA {
	img := solid(w, h, color.RGBA{255, 0, 0, 255})
	for y := 0; y < h; y++ {
		for x := w / 2; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{0, 0, 255, 255})
		}
	}
	return img
}

func checkerboard(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if (x+y)%2 == 0 {
				img.SetRGBA(x, y, color.RGBA{0, 0, 0, 255})
			} else {
				img.SetRGBA(x, y, color.RGBA{255, 255, 255, 255})
			}
		}
	}
	return img
}

type recorder struct {
	notices []string
	tools   []Tool
	rasters int
}

func newSession(t *testing.T, img *image.RGBA) (*Session, *recorder) {
	t.Helper()
	bus := events.NewBus()
	rec := &recorder{}
	bus.On(events.Notice, func(d interface{}) { rec.notices = append(rec.notices, d.(string)) })
	bus.On(events.ToolChanged, func(d interface{}) { rec.tools = append(rec.tools, d.(Tool)) })
	bus.On(events.RasterChanged, func(interface{}) { rec.rasters++ })

	c, err := capture.New(img, "test")
	require.NoError(t, err)
	s := New(bus, DefaultSettings())
	require.NoError(t, s.Attach(c))
	return s, rec
}

func drag(t *testing.T, s *Session, points ...geometry.Point2D) {
	t.Helper()
	require.NoError(t, s.PointerDown(points[0]))
	for _, p := range points[1 : len(points)-1] {
		require.NoError(t, s.PointerMove(p))
	}
	require.NoError(t, s.PointerUp(points[len(points)-1]))
}

func undoDepth(s *Session) int {
	u, _ := s.History().Len()
	return u
}

func TestDispatchWithoutToolIsNoop(t *testing.T) {
	s, rec := newSession(t, solid(50, 50, color.RGBA{255, 255, 255, 255}))
	before := rec.rasters
	drag(t, s, pt(1, 1), pt(20, 20), pt(30, 30))
	assert.Equal(t, before, rec.rasters)
	assert.Equal(t, 0, undoDepth(s))

	detached := New(nil, DefaultSettings())
	require.NoError(t, detached.SetTool(ToolPen))
	assert.NoError(t, detached.PointerDown(pt(1, 1)))
	assert.NoError(t, detached.PointerUp(pt(5, 5)))
	assert.Empty(t, detached.Layers())
}

func TestPenCommitsStroke(t *testing.T) {
	s, _ := newSession(t, solid(100, 100, color.RGBA{255, 255, 255, 255}))
	require.NoError(t, s.SetTool(ToolPen))

	require.NoError(t, s.PointerDown(pt(10, 10)))
	require.NoError(t, s.PointerMove(pt(40, 40)))
	require.NotNil(t, s.Preview())
	assert.Len(t, s.Preview().Points, 2)
	require.NoError(t, s.PointerUp(pt(80, 20)))

	list := s.Layers()
	require.Len(t, list, 1)
	assert.Equal(t, layers.KindPen, list[0].Kind)
	assert.Equal(t, []geometry.Point2D{pt(10, 10), pt(40, 40), pt(80, 20)}, list[0].Points)
	assert.Nil(t, s.Preview())
	assert.Equal(t, 1, undoDepth(s))
	assert.NotEqual(t, s.Base().Pix, s.Current().Pix)
	assert.Same(t, s.Current(), s.Capture().Current())
}

func TestPenClickIsDiscarded(t *testing.T) {
	s, _ := newSession(t, solid(50, 50, color.RGBA{255, 255, 255, 255}))
	require.NoError(t, s.SetTool(ToolPen))
	drag(t, s, pt(10, 10), pt(10, 10))
	assert.Empty(t, s.Layers())
	assert.Equal(t, 0, undoDepth(s))
}

func TestUndoRedoSymmetry(t *testing.T) {
	s, _ := newSession(t, solid(100, 100, color.RGBA{255, 255, 255, 255}))
	before := append([]byte(nil), s.Current().Pix...)

	require.NoError(t, s.SetTool(ToolHighlight))
	drag(t, s, pt(10, 50), pt(50, 50), pt(90, 50))
	after := append([]byte(nil), s.Current().Pix...)
	require.NotEqual(t, before, after)

	require.NoError(t, s.Undo())
	assert.Equal(t, before, s.Current().Pix)
	assert.Empty(t, s.Layers())

	require.NoError(t, s.Redo())
	assert.Equal(t, after, s.Current().Pix)
	assert.Len(t, s.Layers(), 1)

	assert.ErrorIs(t, s.Redo(), history.ErrNothingToRedo)
}

func TestUndoOnEmptyHistory(t *testing.T) {
	s, _ := newSession(t, solid(10, 10, color.RGBA{0, 0, 0, 255}))
	assert.ErrorIs(t, s.Undo(), history.ErrNothingToUndo)
	assert.ErrorIs(t, s.Redo(), history.ErrNothingToRedo)
}

func TestLayerIDsAreNeverReused(t *testing.T) {
	s, _ := newSession(t, solid(60, 60, color.RGBA{255, 255, 255, 255}))
	require.NoError(t, s.SetTool(ToolPen))
	drag(t, s, pt(1, 1), pt(20, 20))
	require.NoError(t, s.Undo())
	drag(t, s, pt(1, 1), pt(30, 30))
	require.Len(t, s.Layers(), 1)
	assert.Equal(t, 2, s.Layers()[0].ID)
}

func TestAddShapeNormalizesBox(t *testing.T) {
	s, _ := newSession(t, solid(100, 100, color.RGBA{255, 255, 255, 255}))
	id, err := s.AddShape(layers.ShapeRectangle, pt(50, 60), pt(10, 20))
	require.NoError(t, err)

	o := s.Objects().Find(id)
	require.NotNil(t, o)
	assert.Equal(t, pt(10, 20), o.Layer.Points[0])
	assert.Equal(t, pt(50, 60), o.Layer.Points[1])
	assert.Equal(t, geometry.NewRect(10, 20, 40, 40), o.Bounds())

	_, err = s.AddShape(layers.ShapeLine, pt(5, 5), pt(5, 5))
	assert.ErrorIs(t, err, layers.ErrDegenerate)
	assert.Equal(t, 1, undoDepth(s))
}

func TestShapeDragIsBakedIntoBase(t *testing.T) {
	s, _ := newSession(t, solid(100, 100, color.RGBA{255, 255, 255, 255}))
	orig := append([]byte(nil), s.Base().Pix...)
	require.NoError(t, s.SetTool(ToolShape))
	s.SetShapeType(layers.ShapeEllipse)

	require.NoError(t, s.PointerDown(pt(70, 70)))
	require.NoError(t, s.PointerMove(pt(40, 40)))
	require.NotNil(t, s.Preview())
	assert.Equal(t, pt(40, 40), s.Preview().Points[0])
	require.NoError(t, s.PointerUp(pt(10, 10)))

	assert.Empty(t, s.Layers())
	assert.Nil(t, s.Preview())
	assert.NotEqual(t, orig, s.Base().Pix)
	assert.Equal(t, 1, undoDepth(s))

	require.NoError(t, s.Undo())
	assert.Equal(t, orig, s.Base().Pix)
}

func TestShapeClickAndDegenerateDrag(t *testing.T) {
	s, rec := newSession(t, solid(50, 50, color.RGBA{255, 255, 255, 255}))
	require.NoError(t, s.SetTool(ToolShape))

	drag(t, s, pt(10, 10), pt(10, 10))
	assert.Equal(t, 0, undoDepth(s))
	assert.Empty(t, rec.notices)

	// Flat rectangle.
	drag(t, s, pt(10, 10), pt(30, 10), pt(40, 10))
	assert.Equal(t, 0, undoDepth(s))
	assert.Len(t, rec.notices, 1)
}

func TestMosaicRejectsSmallSelection(t *testing.T) {
	s, rec := newSession(t, checkerboard(40, 40))
	orig := append([]byte(nil), s.Base().Pix...)
	require.NoError(t, s.SetTool(ToolMosaic))

	drag(t, s, pt(10, 10), pt(12, 30), pt(13, 30))
	assert.Equal(t, []string{"selection too small"}, rec.notices)
	assert.Equal(t, 0, undoDepth(s))
	assert.Equal(t, orig, s.Base().Pix)
	assert.Equal(t, ToolMosaic, s.Tool())
}

func TestMosaicPixelatesBase(t *testing.T) {
	s, _ := newSession(t, checkerboard(40, 40))
	require.NoError(t, s.SetTool(ToolMosaic))
	s.settings.MosaicBlock = 4

	drag(t, s, pt(0, 0), pt(10, 10), pt(20, 20))
	require.Equal(t, 1, undoDepth(s))
	base := s.Base()
	assert.Equal(t, base.RGBAAt(0, 0), base.RGBAAt(1, 0))
	assert.Equal(t, base.RGBAAt(0, 0), base.RGBAAt(3, 3))
	// Outside the selection the pattern survives.
	assert.NotEqual(t, base.RGBAAt(30, 30), base.RGBAAt(31, 30))
	assert.Equal(t, ToolMosaic, s.Tool())
}

func TestEraserMarksLayersAndIsMonotonic(t *testing.T) {
	s, _ := newSession(t, solid(100, 100, color.RGBA{255, 255, 255, 255}))
	require.NoError(t, s.SetTool(ToolPen))
	drag(t, s, pt(10, 10), pt(90, 10))
	drag(t, s, pt(10, 80), pt(90, 80))
	require.Equal(t, 2, undoDepth(s))

	require.NoError(t, s.SetTool(ToolEraser))
	erased := func() int {
		n := 0
		for _, l := range s.Layers() {
			if l.Erased {
				n++
			}
		}
		return n
	}

	// A miss records nothing.
	drag(t, s, pt(50, 45), pt(50, 46))
	assert.Equal(t, 2, undoDepth(s))

	require.NoError(t, s.PointerDown(pt(40, 40)))
	prev := erased()
	for _, y := range []float64{30, 20, 12, 30, 50} {
		require.NoError(t, s.PointerMove(pt(40, y)))
		assert.GreaterOrEqual(t, erased(), prev)
		prev = erased()
	}
	require.NoError(t, s.PointerUp(pt(40, 50)))

	assert.Equal(t, 1, erased())
	assert.Len(t, s.Layers(), 2)
	assert.True(t, s.Layers()[0].Erased)
	assert.Equal(t, 3, undoDepth(s))

	require.NoError(t, s.Undo())
	assert.Equal(t, 0, erased())
}

func TestEraserReachIncludesRadius(t *testing.T) {
	s, _ := newSession(t, solid(100, 100, color.RGBA{255, 255, 255, 255}))
	s.settings.Pen.Thickness = 2
	require.NoError(t, s.SetTool(ToolPen))
	drag(t, s, pt(0, 50), pt(100, 50))

	require.NoError(t, s.SetTool(ToolEraser))
	// Radius 5 plus half the thickness reaches 6 pixels.
	drag(t, s, pt(50, 57), pt(50, 57))
	assert.False(t, s.Layers()[0].Erased)
	drag(t, s, pt(50, 56), pt(50, 56))
	assert.True(t, s.Layers()[0].Erased)
}

func TestCursorRing(t *testing.T) {
	s, _ := newSession(t, solid(20, 20, color.RGBA{255, 255, 255, 255}))
	_, ok := s.CursorRing()
	assert.False(t, ok)

	require.NoError(t, s.SetTool(ToolEraser))
	require.NoError(t, s.PointerMove(pt(7, 8)))
	ring, ok := s.CursorRing()
	require.True(t, ok)
	assert.Equal(t, render.Ring{Center: pt(7, 8), Diameter: 10}, ring)
	assert.Equal(t, 0, undoDepth(s))
}

func TestSelectMoveRecordsOneFrame(t *testing.T) {
	s, _ := newSession(t, solid(100, 100, color.RGBA{255, 255, 255, 255}))
	id, err := s.AddShape(layers.ShapeRectangle, pt(20, 20), pt(60, 60))
	require.NoError(t, err)
	require.NoError(t, s.SetTool(ToolSelect))

	require.NoError(t, s.PointerDown(pt(40, 40)))
	require.NotNil(t, s.Selected())
	assert.Equal(t, id, s.Selected().ID())
	require.NoError(t, s.PointerMove(pt(45, 42)))
	require.NoError(t, s.PointerMove(pt(50, 45)))
	require.NoError(t, s.PointerUp(pt(50, 45)))

	l := s.Selected().Layer
	assert.Equal(t, pt(30, 25), l.Points[0])
	assert.Equal(t, pt(70, 65), l.Points[1])
	assert.Equal(t, 2, undoDepth(s))

	require.NoError(t, s.Undo())
	assert.Nil(t, s.Selected())
	o := s.Objects().Find(id)
	require.NotNil(t, o)
	assert.Equal(t, pt(20, 20), o.Layer.Points[0])
}

func TestSelectClickDoesNotRecord(t *testing.T) {
	s, _ := newSession(t, solid(100, 100, color.RGBA{255, 255, 255, 255}))
	_, err := s.AddShape(layers.ShapeRectangle, pt(20, 20), pt(60, 60))
	require.NoError(t, err)
	require.NoError(t, s.SetTool(ToolSelect))

	drag(t, s, pt(40, 40), pt(40, 40))
	assert.NotNil(t, s.Selected())
	assert.Equal(t, 1, undoDepth(s))

	// Empty space deselects.
	drag(t, s, pt(95, 95), pt(95, 95))
	assert.Nil(t, s.Selected())
}

func TestSelectResizeFromHandle(t *testing.T) {
	s, _ := newSession(t, solid(100, 100, color.RGBA{255, 255, 255, 255}))
	_, err := s.AddShape(layers.ShapeRectangle, pt(20, 20), pt(60, 60))
	require.NoError(t, err)
	require.NoError(t, s.SetTool(ToolSelect))
	drag(t, s, pt(40, 40), pt(40, 40))

	drag(t, s, pt(60, 60), pt(70, 65), pt(80, 70))
	l := s.Selected().Layer
	assert.Equal(t, pt(20, 20), l.Points[0])
	assert.Equal(t, pt(80, 70), l.Points[1])

	// Shrinking past the minimum keeps the fixed corner.
	drag(t, s, pt(80, 70), pt(0, 0))
	l = s.Selected().Layer
	assert.Equal(t, pt(20, 20), l.Points[0])
	assert.Equal(t, pt(20+objects.MinShapeSize, 20+objects.MinShapeSize), l.Points[1])
}

func TestSetStyleAppliesToSelection(t *testing.T) {
	s, _ := newSession(t, solid(100, 100, color.RGBA{255, 255, 255, 255}))
	_, err := s.AddShape(layers.ShapeRectangle, pt(20, 20), pt(60, 60))
	require.NoError(t, err)
	require.NoError(t, s.SetTool(ToolSelect))
	drag(t, s, pt(40, 40), pt(40, 40))

	style := s.Style()
	style.Color = colorutil.Blue
	require.NoError(t, s.SetStyle(style))
	assert.Equal(t, colorutil.Blue, s.Selected().Layer.Style.Color)
	assert.Equal(t, 2, undoDepth(s))
	// The tool default is untouched.
	assert.Equal(t, colorutil.Red, s.Settings().Shape.Color)
}

func TestDeleteSelected(t *testing.T) {
	s, _ := newSession(t, solid(100, 100, color.RGBA{255, 255, 255, 255}))
	_, err := s.AddShape(layers.ShapeArrow, pt(10, 50), pt(90, 50))
	require.NoError(t, err)
	require.NoError(t, s.SetTool(ToolSelect))

	require.NoError(t, s.DeleteSelected())
	assert.Len(t, s.Layers(), 1)

	drag(t, s, pt(50, 52), pt(50, 52))
	require.NotNil(t, s.Selected())
	require.NoError(t, s.DeleteSelected())
	assert.Empty(t, s.Layers())
	assert.Equal(t, 0, s.Objects().Len())
	assert.Nil(t, s.Selected())

	require.NoError(t, s.Undo())
	assert.Len(t, s.Layers(), 1)
	assert.Equal(t, 1, s.Objects().Len())
}

func TestCancelResolvesLikeUp(t *testing.T) {
	s, _ := newSession(t, solid(60, 60, color.RGBA{255, 255, 255, 255}))
	require.NoError(t, s.SetTool(ToolPen))
	require.NoError(t, s.PointerDown(pt(5, 5)))
	require.NoError(t, s.PointerMove(pt(30, 30)))
	require.NoError(t, s.PointerCancel())

	require.Len(t, s.Layers(), 1)
	assert.Equal(t, []geometry.Point2D{pt(5, 5), pt(30, 30)}, s.Layers()[0].Points)

	// Further moves are hovers.
	require.NoError(t, s.PointerMove(pt(50, 50)))
	assert.Nil(t, s.Preview())
}

func TestToolSwitchTerminatesGesture(t *testing.T) {
	s, rec := newSession(t, solid(60, 60, color.RGBA{255, 255, 255, 255}))
	require.NoError(t, s.SetTool(ToolPen))
	require.NoError(t, s.PointerDown(pt(5, 5)))
	require.NoError(t, s.PointerMove(pt(30, 30)))
	require.NoError(t, s.SetTool(ToolShape))

	assert.Len(t, s.Layers(), 1)
	assert.Nil(t, s.Preview())
	assert.Equal(t, []Tool{ToolPen, ToolShape}, rec.tools)

	// The up of the abandoned gesture is ignored.
	require.NoError(t, s.PointerUp(pt(40, 40)))
	assert.Equal(t, 1, undoDepth(s))
}

func TestTextTool(t *testing.T) {
	s, rec := newSession(t, solid(200, 100, color.RGBA{255, 255, 255, 255}))
	require.NoError(t, s.SetTool(ToolText))

	drag(t, s, pt(10, 10), pt(10, 10))
	assert.Empty(t, s.Layers())
	assert.Len(t, rec.notices, 1)

	s.SetPendingText("hello\nworld")
	drag(t, s, pt(10, 10), pt(10, 10))
	require.Len(t, s.Layers(), 1)
	l := s.Layers()[0]
	assert.Equal(t, layers.KindText, l.Kind)
	assert.Equal(t, pt(10, 10), l.Points[0])
	assert.Equal(t, 1, s.Objects().Len())
}

func TestMagicWandUnionAndMosaic(t *testing.T) {
	s, _ := newSession(t, halves(40, 20))
	require.NoError(t, s.SetTool(ToolMagicWand))

	require.NoError(t, s.PointerDown(pt(5, 5)))
	require.NotNil(t, s.Selection())
	assert.Equal(t, 20*20, s.Selection().Count())

	require.NoError(t, s.PointerMove(pt(30, 5)))
	require.NoError(t, s.PointerUp(pt(30, 5)))
	assert.Equal(t, 40*20, s.Selection().Count())
	assert.Equal(t, 0, undoDepth(s))

	require.NoError(t, s.MosaicSelection())
	assert.Nil(t, s.Selection())
	assert.Equal(t, 1, undoDepth(s))
}

func TestClearSelection(t *testing.T) {
	s, _ := newSession(t, halves(40, 20))
	require.NoError(t, s.SetTool(ToolMagicWand))
	drag(t, s, pt(5, 5), pt(5, 5))
	require.NotNil(t, s.Selection())
	s.ClearSelection()
	assert.Nil(t, s.Selection())
	assert.NoError(t, s.MosaicSelection())
	assert.Equal(t, 0, undoDepth(s))
}

func TestCrop(t *testing.T) {
	s, _ := newSession(t, solid(100, 80, color.RGBA{255, 255, 255, 255}))
	require.NoError(t, s.SetTool(ToolCrop))
	drag(t, s, pt(60, 40), pt(30, 20), pt(10, 10))

	r, ok := s.PendingCrop()
	require.True(t, ok)
	assert.Equal(t, geometry.NewRect(10, 10, 50, 30), r)
	assert.Equal(t, 0, undoDepth(s))

	require.NoError(t, s.ApplyCrop())
	assert.Equal(t, image.Rect(0, 0, 50, 30), s.Current().Bounds())
	assert.Equal(t, ToolNone, s.Tool())
	_, ok = s.PendingCrop()
	assert.False(t, ok)

	require.NoError(t, s.Undo())
	assert.Equal(t, image.Rect(0, 0, 100, 80), s.Current().Bounds())
}

func TestRotateFlattensLayers(t *testing.T) {
	s, _ := newSession(t, solid(60, 30, color.RGBA{255, 255, 255, 255}))
	require.NoError(t, s.SetTool(ToolPen))
	drag(t, s, pt(5, 5), pt(50, 20))
	painted := s.Current().RGBAAt(5, 5)

	require.NoError(t, s.Rotate90())
	assert.Equal(t, image.Rect(0, 0, 30, 60), s.Current().Bounds())
	assert.Empty(t, s.Layers())
	// (5, 5) lands at (h-1-5, 5) after a clockwise turn.
	assert.Equal(t, painted, s.Current().RGBAAt(30-1-5, 5))

	require.NoError(t, s.Undo())
	assert.Equal(t, image.Rect(0, 0, 60, 30), s.Current().Bounds())
	assert.Len(t, s.Layers(), 1)
}

func TestFlipAndReset(t *testing.T) {
	s, _ := newSession(t, halves(40, 20))
	require.NoError(t, s.FlipHorizontal())
	assert.Equal(t, color.RGBA{0, 0, 255, 255}, s.Current().RGBAAt(0, 0))
	require.NoError(t, s.FlipVertical())
	assert.Equal(t, color.RGBA{0, 0, 255, 255}, s.Current().RGBAAt(0, 19))

	require.NoError(t, s.Reset())
	assert.Equal(t, s.Capture().Original().Pix, s.Base().Pix)
	assert.Equal(t, 3, undoDepth(s))
}

func TestRejectedTextLeavesStateIntact(t *testing.T) {
	s, _ := newSession(t, solid(50, 50, color.RGBA{255, 255, 255, 255}))
	s.settings.Font.Size = 12
	_, err := s.AddText(pt(1, 1), "ok")
	require.NoError(t, err)

	_, err = s.AddText(pt(1, 1), "")
	require.ErrorIs(t, err, layers.ErrDegenerate)
	assert.Len(t, s.Layers(), 1)
	assert.Equal(t, 1, undoDepth(s))
}

func TestComposeDrawsChrome(t *testing.T) {
	s, _ := newSession(t, solid(100, 100, color.RGBA{255, 255, 255, 255}))
	_, err := s.AddShape(layers.ShapeRectangle, pt(20, 20), pt(60, 60))
	require.NoError(t, err)
	require.NoError(t, s.SetTool(ToolSelect))
	drag(t, s, pt(40, 40), pt(40, 40))

	c := s.Chrome()
	require.NotNil(t, c.Selection)
	assert.Len(t, c.Handles, 8)

	out, err := s.Compose(render.DefaultChromeOptions())
	require.NoError(t, err)
	assert.NotEqual(t, s.Current().Pix, out.Pix)
	// The composite itself is untouched.
	assert.Equal(t, s.Capture().Current().Pix, s.Current().Pix)
}

func TestPersistAndReattach(t *testing.T) {
	s, _ := newSession(t, solid(40, 40, color.RGBA{255, 255, 255, 255}))
	require.NoError(t, s.SetTool(ToolPen))
	require.NoError(t, s.PointerDown(pt(1, 1)))
	require.NoError(t, s.PointerMove(pt(20, 20)))

	c := s.Capture()
	require.NoError(t, s.Detach())
	assert.Nil(t, s.Capture())
	assert.Equal(t, 1, c.LayerCount())
	assert.Equal(t, 2, c.NextLayerID())

	require.NoError(t, s.Attach(c))
	assert.Len(t, s.Layers(), 1)
	drag(t, s, pt(1, 30), pt(30, 30))
	assert.Equal(t, 2, s.Layers()[1].ID)
}

func TestParseTool(t *testing.T) {
	for _, tool := range []Tool{ToolNone, ToolPen, ToolHighlight, ToolShape, ToolText, ToolMosaic, ToolEraser, ToolMagicWand, ToolSelect, ToolCrop} {
		got, err := ParseTool(tool.String())
		require.NoError(t, err)
		assert.Equal(t, tool, got)
	}
	got, err := ParseTool("Magic-Wand")
	require.NoError(t, err)
	assert.Equal(t, ToolMagicWand, got)
	_, err = ParseTool("lasso")
	assert.Error(t, err)
}
