// Package mainwindow provides the main application window.
package mainwindow

import (
	"errors"
	"fmt"
	"image"
	"path/filepath"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"snapedit/internal/app"
	"snapedit/internal/capture"
	"snapedit/internal/editor"
	"snapedit/internal/events"
	"snapedit/internal/history"
	"snapedit/internal/layers"
	"snapedit/internal/logging"
	"snapedit/internal/render"
	"snapedit/internal/version"
	"snapedit/pkg/colorutil"
	"snapedit/pkg/geometry"
	"snapedit/ui/canvas"
	"snapedit/ui/prefs"
	"snapedit/ui/theme"
)

const listThumbHeight = 64

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app   fyne.App
	state *app.State
	prefs *prefs.Prefs

	canvas    *canvas.ImageCanvas
	composed  image.Image
	chrome    render.ChromeOptions
	statusBar *widget.Label

	captureList *widget.List
	thumbs      []image.Image

	toolSelect  *widget.Select
	shapeSelect *widget.Select
	colorEntry  *widget.Entry
	sizeSlider  *widget.Slider
	textEntry   *widget.Entry
	syncing     bool

	fitToWindowItem *fyne.MenuItem
}

// New creates the main window for state.
func New(fyneApp fyne.App, state *app.State, p *prefs.Prefs) *MainWindow {
	win := fyneApp.NewWindow(version.Name)

	mw := &MainWindow{
		Window: win,
		app:    fyneApp,
		state:  state,
		prefs:  p,
		chrome: theme.Chrome(fyneApp.Settings().ThemeVariant()),
	}

	mw.setupUI()
	mw.setupMenus()
	mw.setupEventHandlers()
	mw.restorePreferences()

	win.SetCloseIntercept(func() {
		mw.SavePreferences()
		if err := mw.state.Close(); err != nil {
			logging.Logger().Warn("close failed", "err", err)
		}
		win.Close()
	})
	return mw
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	mw.canvas = canvas.NewImageCanvas(func() image.Image { return mw.composed })
	mw.canvas.OnPointer(mw.onPointer)
	mw.canvas.OnZoomChange(func(zoom float64) {
		mw.updateStatus(fmt.Sprintf("Zoom %.0f%%", zoom*100))
	})

	mw.statusBar = widget.NewLabel("Open an image to start")

	mw.captureList = widget.NewList(
		func() int { return len(mw.thumbs) },
		func() fyne.CanvasObject {
			img := fynecanvas.NewImageFromImage(nil)
			img.FillMode = fynecanvas.ImageFillContain
			img.SetMinSize(fyne.NewSize(listThumbHeight*1.5, listThumbHeight))
			return container.NewHBox(img, widget.NewLabel(""))
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			row := obj.(*fyne.Container)
			captures := mw.state.Captures()
			if id >= len(captures) || id >= len(mw.thumbs) {
				return
			}
			img := row.Objects[0].(*fynecanvas.Image)
			img.Image = mw.thumbs[id]
			img.Refresh()
			row.Objects[1].(*widget.Label).SetText(captures[id].Name)
		},
	)
	mw.captureList.OnSelected = func(id widget.ListItemID) {
		if err := mw.state.SwitchTo(id); err != nil {
			mw.showError(err)
		}
	}

	toolbar := mw.createToolbar()

	canvasArea := container.NewBorder(toolbar, nil, nil, nil, mw.canvas)

	split := container.NewHSplit(mw.captureList, canvasArea)
	split.SetOffset(0.18)

	content := container.NewBorder(
		nil,
		container.NewPadded(mw.statusBar),
		nil,
		nil,
		split,
	)
	mw.SetContent(content)
}

// createToolbar creates the tool, style and zoom controls.
func (mw *MainWindow) createToolbar() fyne.CanvasObject {
	var toolNames []string
	for t := editor.ToolNone; t <= editor.ToolCrop; t++ {
		toolNames = append(toolNames, t.String())
	}
	mw.toolSelect = widget.NewSelect(toolNames, func(name string) {
		if mw.syncing {
			return
		}
		t, err := editor.ParseTool(name)
		if err != nil {
			return
		}
		mw.do(func(ed *editor.Session) error { return ed.SetTool(t) })
		mw.prefs.SetString(prefs.KeyLastTool, name)
	})

	settings := editor.DefaultSettings()
	var shapeNames []string
	for st := layers.ShapeRectangle; st <= layers.ShapeArrow; st++ {
		shapeNames = append(shapeNames, st.String())
	}
	mw.shapeSelect = widget.NewSelect(shapeNames, func(name string) {
		if mw.syncing {
			return
		}
		st, err := layers.ParseShapeType(name)
		if err != nil {
			return
		}
		mw.do(func(ed *editor.Session) error {
			ed.SetShapeType(st)
			return nil
		})
	})
	mw.shapeSelect.SetSelected(settings.ShapeType.String())

	mw.colorEntry = widget.NewEntry()
	mw.colorEntry.SetPlaceHolder("#rrggbb")
	mw.colorEntry.OnSubmitted = func(string) { mw.applyStyle() }

	mw.sizeSlider = widget.NewSlider(1, 40)
	mw.sizeSlider.Step = 1
	mw.sizeSlider.OnChangeEnded = func(float64) { mw.applyStyle() }

	mw.textEntry = widget.NewEntry()
	mw.textEntry.SetPlaceHolder("Text to place")
	mw.textEntry.OnChanged = func(s string) {
		mw.do(func(ed *editor.Session) error {
			ed.SetPendingText(s)
			return nil
		})
	}

	undoBtn := widget.NewButton("Undo", mw.onUndo)
	redoBtn := widget.NewButton("Redo", mw.onRedo)
	cropBtn := widget.NewButton("Apply Crop", func() {
		mw.do(func(ed *editor.Session) error { return ed.ApplyCrop() })
	})
	zoomOutBtn := widget.NewButton("-", mw.onZoomOut)
	zoomInBtn := widget.NewButton("+", mw.onZoomIn)
	fitBtn := widget.NewButton("Fit", mw.onToggleFitToWindow)

	return container.NewVBox(
		container.NewHBox(
			widget.NewLabel("Tool:"), mw.toolSelect,
			widget.NewLabel("Shape:"), mw.shapeSelect,
			widget.NewLabel("Color:"), mw.colorEntry,
			widget.NewLabel("Size:"), container.NewGridWrap(fyne.NewSize(120, 36), mw.sizeSlider),
		),
		container.NewHBox(
			container.NewGridWrap(fyne.NewSize(220, 36), mw.textEntry),
			undoBtn, redoBtn, cropBtn,
			widget.NewLabel("Zoom:"), zoomOutBtn, zoomInBtn, fitBtn,
		),
	)
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Image...", mw.onOpenImage),
		fyne.NewMenuItem("Close Capture", mw.onCloseCapture),
	)

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Undo", mw.onUndo),
		fyne.NewMenuItem("Redo", mw.onRedo),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Delete Selected", func() {
			mw.do(func(ed *editor.Session) error { return ed.DeleteSelected() })
		}),
		fyne.NewMenuItem("Confirm Selection", func() {
			mw.do(func(ed *editor.Session) error {
				ed.Confirm()
				return nil
			})
		}),
		fyne.NewMenuItem("Cancel Gesture", mw.canvas.CancelGesture),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Reset to Original", func() {
			mw.do(func(ed *editor.Session) error { return ed.Reset() })
		}),
	)

	imageMenu := fyne.NewMenu("Image",
		fyne.NewMenuItem("Rotate 90°", func() {
			mw.do(func(ed *editor.Session) error { return ed.Rotate90() })
		}),
		fyne.NewMenuItem("Flip Horizontal", func() {
			mw.do(func(ed *editor.Session) error { return ed.FlipHorizontal() })
		}),
		fyne.NewMenuItem("Flip Vertical", func() {
			mw.do(func(ed *editor.Session) error { return ed.FlipVertical() })
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Apply Crop", func() {
			mw.do(func(ed *editor.Session) error { return ed.ApplyCrop() })
		}),
		fyne.NewMenuItem("Mosaic Selection", func() {
			mw.do(func(ed *editor.Session) error { return ed.MosaicSelection() })
		}),
		fyne.NewMenuItem("Clear Selection", func() {
			mw.do(func(ed *editor.Session) error {
				ed.ClearSelection()
				return nil
			})
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Recognize Text in Crop Area", mw.onRecognizeText),
	)

	mw.fitToWindowItem = fyne.NewMenuItem("Fit to Window", mw.onToggleFitToWindow)
	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Zoom In", mw.onZoomIn),
		fyne.NewMenuItem("Zoom Out", mw.onZoomOut),
		mw.fitToWindowItem,
		fyne.NewMenuItem("Actual Size", mw.onActualSize),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, imageMenu, viewMenu, helpMenu))
}

// setupEventHandlers registers for session events.
func (mw *MainWindow) setupEventHandlers() {
	refresh := func(interface{}) { mw.recompose() }
	mw.state.On(events.RasterChanged, func(interface{}) {
		mw.recompose()
		mw.refreshThumbnails()
	})
	mw.state.On(events.SelectionChanged, refresh)
	mw.state.On(events.ToolChanged, func(interface{}) {
		mw.recompose()
		mw.syncControls()
	})
	mw.state.On(events.Notice, func(data interface{}) {
		if msg, ok := data.(string); ok {
			mw.updateStatus(msg)
		}
	})
	mw.state.On(events.CaptureAdded, func(interface{}) { mw.refreshThumbnails() })
	mw.state.On(events.CaptureRemoved, func(interface{}) {
		mw.refreshThumbnails()
		mw.recompose()
	})
	mw.state.On(events.CaptureSwitched, func(data interface{}) {
		c, ok := data.(*capture.Capture)
		if !ok {
			return
		}
		mw.SetTitle(version.Name + " - " + c.Name)
		if _, idx := mw.state.Active(); idx >= 0 {
			mw.captureList.Select(idx)
		}
		mw.canvas.Update()
		mw.recompose()
		mw.syncControls()
	})
	mw.state.On(events.ConfigReloaded, func(interface{}) {
		mw.syncControls()
		mw.updateStatus("Configuration reloaded")
	})
}

// do runs fn on the editor, then redraws and reports failures.
func (mw *MainWindow) do(fn func(ed *editor.Session) error) {
	err := mw.state.Do(fn)
	mw.recompose()
	if err != nil {
		mw.showError(err)
	}
}

func (mw *MainWindow) onPointer(ev editor.PointerEvent) {
	err := mw.state.Do(func(ed *editor.Session) error {
		if err := ed.Dispatch(ev); err != nil {
			return err
		}
		return mw.composeLocked(ed)
	})
	if err != nil {
		mw.showError(err)
	}
	mw.canvas.Refresh()
}

// recompose rebuilds the displayed image from the editor.
func (mw *MainWindow) recompose() {
	err := mw.state.Do(func(ed *editor.Session) error {
		return mw.composeLocked(ed)
	})
	if err != nil {
		logging.Logger().Warn("compose failed", "err", err)
	}
	mw.canvas.Update()
}

func (mw *MainWindow) composeLocked(ed *editor.Session) error {
	if ed.Capture() == nil {
		mw.composed = nil
		return nil
	}
	out, err := ed.Compose(mw.chrome)
	if err != nil {
		return err
	}
	mw.composed = out
	return nil
}

func (mw *MainWindow) refreshThumbnails() {
	thumbs := mw.state.Thumbnails(listThumbHeight)
	mw.thumbs = make([]image.Image, len(thumbs))
	for i, t := range thumbs {
		mw.thumbs[i] = t
	}
	mw.captureList.Refresh()
}

// syncControls shows the active tool's settings without feeding them back.
func (mw *MainWindow) syncControls() {
	var tool editor.Tool
	var settings editor.Settings
	var style layers.Style
	_ = mw.state.Do(func(ed *editor.Session) error {
		tool = ed.Tool()
		settings = ed.Settings()
		style = ed.Style()
		return nil
	})

	mw.syncing = true
	defer func() { mw.syncing = false }()
	mw.toolSelect.SetSelected(tool.String())
	mw.shapeSelect.SetSelected(settings.ShapeType.String())
	mw.colorEntry.SetText(colorutil.Hex(style.Color))
	if tool == editor.ToolEraser {
		mw.sizeSlider.SetValue(settings.EraserSize)
	} else {
		mw.sizeSlider.SetValue(style.Thickness)
	}
}

// applyStyle sends the color and size controls to the editor.
func (mw *MainWindow) applyStyle() {
	if mw.syncing {
		return
	}
	col, err := colorutil.ParseHex(mw.colorEntry.Text)
	if err != nil {
		mw.showError(err)
		return
	}
	size := mw.sizeSlider.Value
	mw.do(func(ed *editor.Session) error {
		if ed.Tool() == editor.ToolEraser {
			s := ed.Settings()
			s.EraserSize = size
			ed.SetSettings(s)
			return nil
		}
		style := ed.Style()
		style.Color = col
		style.Thickness = size
		return ed.SetStyle(style)
	})
}

// updateStatus updates the status bar text.
func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

func (mw *MainWindow) showError(err error) {
	if errors.Is(err, history.ErrNothingToUndo) || errors.Is(err, history.ErrNothingToRedo) {
		mw.updateStatus(err.Error())
		return
	}
	logging.Logger().Warn("operation failed", "err", err)
	dialog.ShowError(err, mw.Window)
}

// lastDir returns the last used directory as a ListableURI, or nil.
func (mw *MainWindow) lastDir() fyne.ListableURI {
	path := mw.prefs.String(prefs.KeyLastDir, "")
	if path == "" {
		return nil
	}
	listable, err := storage.ListerForURI(storage.NewFileURI(path))
	if err != nil {
		return nil
	}
	return listable
}

func (mw *MainWindow) restorePreferences() {
	w := mw.prefs.Float(prefs.KeyWindowWidth, 1200)
	h := mw.prefs.Float(prefs.KeyWindowHeight, 800)
	mw.Resize(fyne.NewSize(float32(w), float32(h)))
	mw.canvas.SetZoom(mw.prefs.Float(prefs.KeyZoom, 1))

	if name := mw.prefs.String(prefs.KeyLastTool, ""); name != "" {
		if t, err := editor.ParseTool(name); err == nil {
			_ = mw.state.Do(func(ed *editor.Session) error { return ed.SetTool(t) })
		}
	}
	mw.syncControls()
}

// SavePreferences stores window state for the next run.
func (mw *MainWindow) SavePreferences() {
	size := mw.Canvas().Size()
	mw.prefs.SetFloat(prefs.KeyWindowWidth, float64(size.Width))
	mw.prefs.SetFloat(prefs.KeyWindowHeight, float64(size.Height))
	mw.prefs.SetFloat(prefs.KeyZoom, mw.canvas.Zoom())
	if err := mw.prefs.SaveIfChanged(); err != nil {
		logging.Logger().Warn("preferences not saved", "path", mw.prefs.Path(), "err", err)
	}
}

// OpenFiles adds each path as a capture, reporting failures.
func (mw *MainWindow) OpenFiles(paths []string) {
	for _, p := range paths {
		if _, err := mw.state.OpenFile(p); err != nil {
			mw.showError(err)
			continue
		}
		mw.prefs.SetString(prefs.KeyLastDir, filepath.Dir(p))
	}
}

func (mw *MainWindow) onOpenImage() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		mw.OpenFiles([]string{reader.URI().Path()})
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter(capture.SupportedFormats()))
	if loc := mw.lastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onCloseCapture() {
	if _, idx := mw.state.Active(); idx >= 0 {
		if err := mw.state.RemoveCapture(idx); err != nil {
			mw.showError(err)
		}
	}
}

func (mw *MainWindow) onUndo() {
	mw.do(func(ed *editor.Session) error { return ed.Undo() })
}

func (mw *MainWindow) onRedo() {
	mw.do(func(ed *editor.Session) error { return ed.Redo() })
}

func (mw *MainWindow) onRecognizeText() {
	var area geometry.Rect
	var ok bool
	_ = mw.state.Do(func(ed *editor.Session) error {
		area, ok = ed.PendingCrop()
		return nil
	})
	if !ok {
		mw.updateStatus("Draw a crop area first")
		return
	}
	text, err := mw.state.RecognizeText(area)
	if err != nil {
		mw.showError(err)
		return
	}
	entry := widget.NewMultiLineEntry()
	entry.SetText(text)
	dialog.ShowCustom("Recognized Text", "Close", container.NewGridWrap(fyne.NewSize(400, 200), entry), mw.Window)
}

func (mw *MainWindow) onZoomIn() {
	mw.disableFitToWindow()
	mw.canvas.ZoomIn()
}

func (mw *MainWindow) onZoomOut() {
	mw.disableFitToWindow()
	mw.canvas.ZoomOut()
}

func (mw *MainWindow) onToggleFitToWindow() {
	enabled := !mw.fitToWindowItem.Checked
	mw.fitToWindowItem.Checked = enabled
	mw.canvas.SetFitToWindow(enabled)
}

func (mw *MainWindow) onActualSize() {
	mw.disableFitToWindow()
	mw.canvas.SetZoom(1.0)
}

func (mw *MainWindow) disableFitToWindow() {
	if mw.fitToWindowItem.Checked {
		mw.fitToWindowItem.Checked = false
		mw.canvas.SetFitToWindow(false)
	}
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About "+version.Name,
		fmt.Sprintf("%s v%s\n\n"+
			"Annotate screen captures with strokes, shapes, text and mosaic.\n\n"+
			"Built: %s\n"+
			"Commit: %s",
			version.Name, version.Version, version.BuildTime, version.GitCommit),
		mw.Window)
}
