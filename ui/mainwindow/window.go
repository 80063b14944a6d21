// Package mainwindow provides the main application window.
package mainwindow

import (
	"context"
	"fmt"

	"battlemap/internal/logging"
	"battlemap/internal/mapframe"
	"battlemap/internal/measure"
	"battlemap/internal/version"
	"battlemap/ui/canvas"
	"battlemap/ui/panels"
	"battlemap/ui/prefs"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog"
)

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app       fyne.App
	frame     *mapframe.Frame
	prefs     *prefs.Prefs
	logger    zerolog.Logger
	canvas    *canvas.MapCanvas
	sidePanel *panels.SidePanel
	statusBar *widget.Label

	ctx        context.Context
	cancel     context.CancelFunc
	closeHooks []func()
}

// New creates the main window around frame. Image completions are applied
// in the background until the window closes.
func New(fyneApp fyne.App, frame *mapframe.Frame, p *prefs.Prefs, logger zerolog.Logger) *MainWindow {
	ctx, cancel := context.WithCancel(context.Background())
	mw := &MainWindow{
		Window: fyneApp.NewWindow(version.Title()),
		app:    fyneApp,
		frame:  frame,
		prefs:  p,
		logger: logging.Component(logger, "mainwindow"),
		ctx:    ctx,
		cancel: cancel,
	}

	mw.setupUI()
	mw.setupMenus()
	mw.setupEventHandlers()

	go frame.DrainResults(ctx)
	mw.SetOnClosed(mw.onClosed)
	return mw
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	mw.canvas = canvas.NewMapCanvas(mw.frame, mw.logger)
	mw.canvas.SetZoom(mw.prefs.FloatWithFallback(prefs.KeyZoom, 0.5))
	mw.canvas.OnZoomChange(func(zoom float64) {
		mw.prefs.SetFloat(prefs.KeyZoom, zoom)
		mw.updateStatus(fmt.Sprintf("Zoom %.0f%%", zoom*100))
	})

	mw.sidePanel = panels.NewSidePanel(mw.ctx, mw.frame, mw.prefs, mw.logger)
	mw.sidePanel.SetWindow(mw.Window)

	mw.statusBar = widget.NewLabel("Ready")

	canvasArea := container.NewBorder(
		mw.createToolbar(), // top
		nil,                // bottom
		nil,                // left
		nil,                // right
		mw.canvas.Container(),
	)

	split := container.NewHSplit(mw.sidePanel.Container(), canvasArea)
	split.SetOffset(0.25)

	mw.SetContent(container.NewBorder(
		nil,
		container.NewPadded(mw.statusBar),
		nil,
		nil,
		split,
	))

	w := mw.prefs.FloatWithFallback(prefs.KeyWindowWidth, 1280)
	h := mw.prefs.FloatWithFallback(prefs.KeyWindowHeight, 800)
	mw.Resize(fyne.NewSize(float32(w), float32(h)))
}

// createToolbar creates the toolbar with zoom controls.
func (mw *MainWindow) createToolbar() fyne.CanvasObject {
	return container.NewHBox(
		widget.NewLabel("Zoom:"),
		widget.NewButton("-", mw.canvas.ZoomOut),
		widget.NewButton("+", mw.canvas.ZoomIn),
		widget.NewButton("Fit", mw.canvas.FitToWindow),
		widget.NewButton("1:1", func() { mw.canvas.SetZoom(1.0) }),
	)
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Quit", func() { mw.app.Quit() }),
	)

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Cancel Unit Edit", func() { mw.frame.CancelEdit() }),
		fyne.NewMenuItem("Clear Measurement", mw.frame.DoubleClick),
	)

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Zoom In", mw.canvas.ZoomIn),
		fyne.NewMenuItem("Zoom Out", mw.canvas.ZoomOut),
		fyne.NewMenuItem("Fit to Window", mw.canvas.FitToWindow),
		fyne.NewMenuItem("Actual Size", func() { mw.canvas.SetZoom(1.0) }),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, viewMenu, helpMenu))
}

// setupEventHandlers mirrors frame events in the status bar.
func (mw *MainWindow) setupEventHandlers() {
	mw.frame.On(mapframe.EventUnitsChanged, func(interface{}) {
		mw.updateStatus(fmt.Sprintf("%d units", mw.frame.Units().Len()))
	})
	mw.frame.On(mapframe.EventMapChanged, func(interface{}) {
		mw.updateStatus("Map " + mw.frame.Dimensions().String())
	})
	mw.frame.On(mapframe.EventBackgroundChanged, func(interface{}) {
		mw.updateStatus("Map image loaded")
	})
	mw.frame.On(mapframe.EventMeasurementChanged, func(data interface{}) {
		if r, ok := data.(measure.Reading); ok && r.Valid {
			mw.updateStatus("Distance: " + r.String())
		}
	})
}

// updateStatus updates the status bar text.
func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

// SavePreferences stores window geometry and writes preferences to disk.
func (mw *MainWindow) SavePreferences() {
	size := mw.Canvas().Size()
	if size.Width > 0 && size.Height > 0 {
		mw.prefs.SetFloat(prefs.KeyWindowWidth, float64(size.Width))
		mw.prefs.SetFloat(prefs.KeyWindowHeight, float64(size.Height))
	}
	if err := mw.prefs.Save(); err != nil {
		mw.logger.Warn().Err(err).Msg("save preferences")
	}
}

// AddCloseHook registers fn to run when the window closes.
func (mw *MainWindow) AddCloseHook(fn func()) {
	mw.closeHooks = append(mw.closeHooks, fn)
}

func (mw *MainWindow) onClosed() {
	for _, fn := range mw.closeHooks {
		fn()
	}
	mw.SavePreferences()
	mw.cancel()
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About "+version.Name,
		fmt.Sprintf("%s v%s\n\n"+
			"Place units on a scaled battle map and measure distances.\n\n"+
			"Built: %s\n"+
			"Commit: %s",
			version.Name, version.Version, version.BuildTime, version.GitCommit),
		mw.Window)
}
