// Package canvas provides the zoomable capture view. It draws whatever its
// source returns and turns mouse input into pointer events in capture
// pixel coordinates.
package canvas

import (
	"image"
	"image/color"
	"image/draw"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	xdraw "golang.org/x/image/draw"

	"snapedit/internal/editor"
	"snapedit/pkg/geometry"
)

const (
	minZoom  = 0.1
	maxZoom  = 10.0
	zoomStep = 1.25
)

var background = color.RGBA{R: 0x30, G: 0x30, B: 0x30, A: 0xFF}

// ImageCanvas displays a capture with zoom and forwards pointer input.
type ImageCanvas struct {
	widget.BaseWidget

	source func() image.Image

	raster *fynecanvas.Raster
	zoom   float64

	// Pointer state
	pressed bool
	last    geometry.Point2D

	scroll  *zoomScroll
	content *pointerContent
	imgSize fyne.Size

	fitToWindow    bool
	lastScrollSize fyne.Size

	onZoomChange func(zoom float64)
	onPointer    func(ev editor.PointerEvent)
}

// zoomScroll is a widget that wraps a scroll container but intercepts wheel for zoom.
type zoomScroll struct {
	widget.BaseWidget
	scroll *container.Scroll
	canvas *ImageCanvas
}

func newZoomScroll(content fyne.CanvasObject, canvas *ImageCanvas) *zoomScroll {
	scroll := container.NewScroll(content)
	scroll.Direction = container.ScrollBoth
	zs := &zoomScroll{scroll: scroll, canvas: canvas}
	zs.ExtendBaseWidget(zs)
	return zs
}

func (zs *zoomScroll) Scrolled(ev *fyne.ScrollEvent) {
	if ev.Scrolled.DY > 0 {
		zs.canvas.ZoomIn()
	} else if ev.Scrolled.DY < 0 {
		zs.canvas.ZoomOut()
	}
}

func (zs *zoomScroll) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(zs.scroll)
}

func (zs *zoomScroll) Size() fyne.Size {
	return zs.scroll.Size()
}

func (zs *zoomScroll) Refresh() {
	zs.scroll.Refresh()
	zs.BaseWidget.Refresh()
}

func (zs *zoomScroll) Resize(size fyne.Size) {
	zs.scroll.Resize(size)
	zs.BaseWidget.Resize(size)
}

// pointerContent wraps the raster and receives the mouse events.
type pointerContent struct {
	widget.BaseWidget
	canvas *ImageCanvas
	raster *fynecanvas.Raster
}

var (
	_ desktop.Mouseable = (*pointerContent)(nil)
	_ desktop.Hoverable = (*pointerContent)(nil)
	_ fyne.Draggable    = (*pointerContent)(nil)
)

func newPointerContent(ic *ImageCanvas, raster *fynecanvas.Raster) *pointerContent {
	pc := &pointerContent{canvas: ic, raster: raster}
	pc.ExtendBaseWidget(pc)
	return pc
}

func (pc *pointerContent) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(pc.raster)
}

func (pc *pointerContent) MinSize() fyne.Size {
	return pc.raster.MinSize()
}

func (pc *pointerContent) MouseDown(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	ic := pc.canvas
	ic.pressed = true
	ic.emit(editor.PointerDown, ic.toImage(ev.Position))
}

func (pc *pointerContent) MouseUp(ev *desktop.MouseEvent) {
	ic := pc.canvas
	if !ic.pressed || ev.Button != desktop.MouseButtonPrimary {
		return
	}
	ic.pressed = false
	ic.emit(editor.PointerUp, ic.toImage(ev.Position))
}

func (pc *pointerContent) Dragged(ev *fyne.DragEvent) {
	ic := pc.canvas
	if !ic.pressed {
		return
	}
	ic.emit(editor.PointerMove, ic.toImage(ev.Position))
}

// DragEnd finishes a gesture whose button release was not delivered.
func (pc *pointerContent) DragEnd() {
	ic := pc.canvas
	if !ic.pressed {
		return
	}
	ic.pressed = false
	ic.emit(editor.PointerUp, ic.last)
}

func (pc *pointerContent) MouseIn(ev *desktop.MouseEvent) {}

func (pc *pointerContent) MouseMoved(ev *desktop.MouseEvent) {
	pc.canvas.emit(editor.PointerMove, pc.canvas.toImage(ev.Position))
}

func (pc *pointerContent) MouseOut() {}

// NewImageCanvas creates a canvas that draws the image source returns.
func NewImageCanvas(source func() image.Image) *ImageCanvas {
	ic := &ImageCanvas{
		source:  source,
		zoom:    1.0,
		imgSize: fyne.NewSize(400, 300),
	}

	ic.raster = fynecanvas.NewRaster(ic.draw)
	ic.raster.ScaleMode = fynecanvas.ImageScalePixels
	ic.raster.SetMinSize(ic.imgSize)

	ic.content = newPointerContent(ic, ic.raster)
	ic.scroll = newZoomScroll(ic.content, ic)

	ic.ExtendBaseWidget(ic)
	return ic
}

// OnPointer sets the callback receiving pointer events in capture pixels.
func (ic *ImageCanvas) OnPointer(callback func(ev editor.PointerEvent)) {
	ic.onPointer = callback
}

// OnZoomChange sets a callback for zoom changes.
func (ic *ImageCanvas) OnZoomChange(callback func(zoom float64)) {
	ic.onZoomChange = callback
}

// CancelGesture drops the pressed state and reports a cancel.
func (ic *ImageCanvas) CancelGesture() {
	ic.pressed = false
	ic.emit(editor.PointerCancel, ic.last)
}

func (ic *ImageCanvas) emit(t editor.PointerType, p geometry.Point2D) {
	ic.last = p
	if ic.onPointer != nil {
		ic.onPointer(editor.PointerEvent{Type: t, Pos: p})
	}
}

// toImage converts a position on the zoomed content to capture pixels.
func (ic *ImageCanvas) toImage(pos fyne.Position) geometry.Point2D {
	x, y := ic.CanvasToImage(float64(pos.X), float64(pos.Y))
	return geometry.Point2D{X: x, Y: y}
}

// SetZoom sets the zoom level, clamped to the supported range.
func (ic *ImageCanvas) SetZoom(zoom float64) {
	ic.zoom = clampZoom(zoom)
	ic.updateContentSize()

	if ic.onZoomChange != nil {
		ic.onZoomChange(ic.zoom)
	}
}

func clampZoom(zoom float64) float64 {
	if zoom < minZoom {
		return minZoom
	}
	if zoom > maxZoom {
		return maxZoom
	}
	return zoom
}

// Zoom returns the current zoom level.
func (ic *ImageCanvas) Zoom() float64 {
	return ic.zoom
}

// ZoomIn increases the zoom level.
func (ic *ImageCanvas) ZoomIn() {
	ic.SetZoom(ic.zoom * zoomStep)
}

// ZoomOut decreases the zoom level.
func (ic *ImageCanvas) ZoomOut() {
	ic.SetZoom(ic.zoom / zoomStep)
}

// FitToWindow adjusts zoom to fit the image in the visible area.
func (ic *ImageCanvas) FitToWindow() {
	bounds := ic.imageBounds()
	if bounds.Empty() {
		return
	}
	viewSize := ic.scroll.Size()
	if viewSize.Width <= 0 || viewSize.Height <= 0 {
		return
	}
	zoomX := float64(viewSize.Width) / float64(bounds.Dx())
	zoomY := float64(viewSize.Height) / float64(bounds.Dy())
	ic.SetZoom(min(zoomX, zoomY) * 0.95)
}

// SetFitToWindow enables or disables auto-fit on resize.
func (ic *ImageCanvas) SetFitToWindow(fit bool) {
	ic.fitToWindow = fit
	if fit {
		ic.FitToWindow()
	}
}

// CheckResize auto-fits when the scroll container was resized.
func (ic *ImageCanvas) CheckResize(size fyne.Size) {
	if !ic.fitToWindow {
		return
	}
	if size.Width > 0 && size.Height > 0 && size != ic.lastScrollSize {
		ic.lastScrollSize = size
		ic.FitToWindow()
	}
}

// ImageToCanvas converts capture coordinates to canvas coordinates.
func (ic *ImageCanvas) ImageToCanvas(imgX, imgY float64) (canvasX, canvasY float64) {
	return imgX * ic.zoom, imgY * ic.zoom
}

// CanvasToImage converts canvas coordinates to capture coordinates.
func (ic *ImageCanvas) CanvasToImage(canvasX, canvasY float64) (imgX, imgY float64) {
	return canvasX / ic.zoom, canvasY / ic.zoom
}

// Update re-reads the source, resizing the content if the image changed size.
func (ic *ImageCanvas) Update() {
	ic.updateContentSize()
}

// Refresh redraws the canvas.
func (ic *ImageCanvas) Refresh() {
	ic.raster.Refresh()
}

func (ic *ImageCanvas) current() image.Image {
	if ic.source == nil {
		return nil
	}
	return ic.source()
}

func (ic *ImageCanvas) imageBounds() image.Rectangle {
	if img := ic.current(); img != nil {
		return img.Bounds()
	}
	return image.Rectangle{}
}

func (ic *ImageCanvas) updateContentSize() {
	bounds := ic.imageBounds()
	if bounds.Empty() {
		ic.imgSize = fyne.NewSize(400, 300)
	} else {
		ic.imgSize = fyne.NewSize(float32(float64(bounds.Dx())*ic.zoom), float32(float64(bounds.Dy())*ic.zoom))
	}

	ic.raster.SetMinSize(ic.imgSize)
	ic.raster.Resize(ic.imgSize)
	if ic.content != nil {
		ic.content.Resize(ic.imgSize)
		ic.content.Refresh()
	}
	ic.raster.Refresh()
	if ic.scroll != nil {
		ic.scroll.Refresh()
	}
}

// draw is the raster drawing function. The raster is sized to the zoomed
// image, so w and h already include zoom and the display scale.
func (ic *ImageCanvas) draw(w, h int) image.Image {
	return scaleInto(ic.current(), w, h)
}

// scaleInto stretches img over a w x h output, nearest neighbour so that
// zoomed-in pixels stay crisp.
func scaleInto(img image.Image, w, h int) *image.RGBA {
	if w < 0 || h < 0 {
		w, h = 0, 0
	}
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(out, out.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)
	if img == nil || out.Bounds().Empty() || img.Bounds().Empty() {
		return out
	}
	xdraw.NearestNeighbor.Scale(out, out.Bounds(), img, img.Bounds(), xdraw.Over, nil)
	return out
}

// CreateRenderer implements fyne.Widget.
func (ic *ImageCanvas) CreateRenderer() fyne.WidgetRenderer {
	return &imageCanvasRenderer{canvas: ic}
}

type imageCanvasRenderer struct {
	canvas *ImageCanvas
}

func (r *imageCanvasRenderer) Layout(size fyne.Size) {
	r.canvas.scroll.Resize(size)
	r.canvas.CheckResize(size)
}

func (r *imageCanvasRenderer) MinSize() fyne.Size {
	return fyne.NewSize(100, 100)
}

func (r *imageCanvasRenderer) Refresh() {
	r.canvas.raster.Refresh()
}

func (r *imageCanvasRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.canvas.scroll}
}

func (r *imageCanvasRenderer) Destroy() {}
