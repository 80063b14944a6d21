// Package canvas renders a map frame in fyne and feeds pointer input back
// into it.
package canvas

import (
	"image/color"
	"sync"

	"battlemap/internal/imageload"
	"battlemap/internal/logging"
	"battlemap/internal/mapframe"
	"battlemap/pkg/geometry"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog"
)

const (
	minZoom  = 0.1
	maxZoom  = 10.0
	zoomStep = 1.25
)

var emptyMapColor = color.NRGBA{R: 0xEE, G: 0xEE, B: 0xEE, A: 0xFF}

// MapCanvas shows a frame's scene inside a zoomable scroll area.
type MapCanvas struct {
	widget.BaseWidget

	frame  *mapframe.Frame
	logger zerolog.Logger

	scroll  *zoomScroll
	content *mapContent

	// mu guards zoom and the token rasters, which are keyed by what they
	// depend on
	mu     sync.Mutex
	zoom   float64
	tokens map[string]tokenCacheEntry

	onZoomChange func(zoom float64)
}

type tokenCacheEntry struct {
	key tokenKey
	img *fynecanvas.Image
}

// NewMapCanvas creates a canvas bound to frame. It redraws on every frame
// event, which may arrive on the goroutine applying image loads.
func NewMapCanvas(frame *mapframe.Frame, logger zerolog.Logger) *MapCanvas {
	mc := &MapCanvas{
		frame:  frame,
		logger: logging.Component(logger, "canvas"),
		zoom:   1.0,
		tokens: make(map[string]tokenCacheEntry),
	}
	mc.content = newMapContent(mc)
	mc.scroll = newZoomScroll(mc.content, mc)

	refresh := func(interface{}) { mc.content.Refresh() }
	frame.On(mapframe.EventUnitsChanged, refresh)
	frame.On(mapframe.EventSelectionChanged, refresh)
	frame.On(mapframe.EventMeasurementChanged, func(interface{}) { mc.content.refreshMeasurement() })
	frame.On(mapframe.EventMapChanged, refresh)
	frame.On(mapframe.EventBackgroundChanged, refresh)

	mc.ExtendBaseWidget(mc)
	return mc
}

// Container returns the scrollable canvas object to place in a layout.
func (mc *MapCanvas) Container() fyne.CanvasObject {
	return mc
}

// SetZoom sets the zoom level.
func (mc *MapCanvas) SetZoom(zoom float64) {
	if zoom < minZoom {
		zoom = minZoom
	}
	if zoom > maxZoom {
		zoom = maxZoom
	}
	mc.mu.Lock()
	mc.zoom = zoom
	mc.mu.Unlock()
	mc.content.Refresh()
	if mc.onZoomChange != nil {
		mc.onZoomChange(zoom)
	}
}

// Zoom returns the current zoom level.
func (mc *MapCanvas) Zoom() float64 {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	return mc.zoom
}

// ZoomIn increases the zoom level.
func (mc *MapCanvas) ZoomIn() {
	mc.SetZoom(mc.Zoom() * zoomStep)
}

// ZoomOut decreases the zoom level.
func (mc *MapCanvas) ZoomOut() {
	mc.SetZoom(mc.Zoom() / zoomStep)
}

// FitToWindow zooms so the whole map is visible.
func (mc *MapCanvas) FitToWindow() {
	size := mc.frame.Scene().Size
	view := mc.scroll.Size()
	if size.Width <= 0 || size.Height <= 0 || view.Width <= 0 || view.Height <= 0 {
		return
	}
	zoom := float64(view.Width) / size.Width
	if zy := float64(view.Height) / size.Height; zy < zoom {
		zoom = zy
	}
	mc.SetZoom(zoom * 0.95)
}

// OnZoomChange sets the zoom callback.
func (mc *MapCanvas) OnZoomChange(callback func(zoom float64)) {
	mc.onZoomChange = callback
}

// Refresh redraws the scene.
func (mc *MapCanvas) Refresh() {
	mc.content.Refresh()
	mc.BaseWidget.Refresh()
}

// toRender converts a point on the content to render pixels.
func (mc *MapCanvas) toRender(p geometry.Point2D) geometry.Point2D {
	return p.Scale(1 / mc.Zoom())
}

func toPoint(p fyne.Position) geometry.Point2D {
	return geometry.NewPoint2D(float64(p.X), float64(p.Y))
}

func toPosition(p geometry.Point2D) fyne.Position {
	return fyne.NewPos(float32(p.X), float32(p.Y))
}

// tokenImage returns the cached raster for s at zoom, rebuilding it when
// its inputs changed.
func (mc *MapCanvas) tokenImage(s mapframe.UnitShape, zoom float64) *fynecanvas.Image {
	size := int(s.LabelWidth*zoom + 0.5)
	key := tokenKey{shape: s.Shape, color: s.Color, image: string(s.Image), size: size}

	mc.mu.Lock()
	defer mc.mu.Unlock()
	if e, ok := mc.tokens[s.ID]; ok && e.key == key {
		return e.img
	}

	raster := RenderToken(s.Shape, s.Color, mc.frame.Image(s.Image), size)
	img := fynecanvas.NewImageFromImage(raster)
	img.FillMode = fynecanvas.ImageFillStretch
	img.ScaleMode = fynecanvas.ImageScaleSmooth
	mc.tokens[s.ID] = tokenCacheEntry{key: key, img: img}
	return img
}

func (mc *MapCanvas) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(mc.scroll)
}

// zoomScroll wraps a scroll container but uses the wheel for zoom.
type zoomScroll struct {
	widget.BaseWidget
	scroll *container.Scroll
	canvas *MapCanvas
}

func newZoomScroll(content fyne.CanvasObject, canvas *MapCanvas) *zoomScroll {
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

// Size returns the scroll container's size.
func (zs *zoomScroll) Size() fyne.Size {
	return zs.scroll.Size()
}

// Resize sets the size of the scroll container.
func (zs *zoomScroll) Resize(size fyne.Size) {
	zs.scroll.Resize(size)
	zs.BaseWidget.Resize(size)
}

// mapContent is the map surface: background, tokens and measurement line.
// It receives the secondary-button measurement gesture. Frame events
// refresh it from whichever goroutine emitted them, so mu guards everything
// below it.
type mapContent struct {
	widget.BaseWidget
	mc *MapCanvas

	mu         sync.Mutex
	background *fynecanvas.Rectangle
	picture    *fynecanvas.Image
	pictureOf  imageload.Handle
	line       *fynecanvas.Line
	units      []*unitToken
	size       fyne.Size
}

var (
	_ desktop.Mouseable   = (*mapContent)(nil)
	_ desktop.Hoverable   = (*mapContent)(nil)
	_ fyne.DoubleTappable = (*mapContent)(nil)
)

func newMapContent(mc *MapCanvas) *mapContent {
	c := &mapContent{
		mc:         mc,
		background: fynecanvas.NewRectangle(emptyMapColor),
		line:       fynecanvas.NewLine(color.Transparent),
	}
	c.line.Hidden = true
	c.ExtendBaseWidget(c)
	return c
}

func (c *mapContent) MouseDown(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonSecondary {
		return
	}
	c.mc.frame.SecondaryPress(c.mc.toRender(toPoint(ev.Position)))
}

func (c *mapContent) MouseUp(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonSecondary {
		return
	}
	c.mc.frame.SecondaryRelease()
}

func (c *mapContent) MouseIn(*desktop.MouseEvent) {}

func (c *mapContent) MouseMoved(ev *desktop.MouseEvent) {
	c.mc.frame.PointerMove(c.mc.toRender(toPoint(ev.Position)))
}

func (c *mapContent) MouseOut() {}

func (c *mapContent) DoubleTapped(*fyne.PointEvent) {
	c.mc.frame.DoubleClick()
}

func (c *mapContent) MinSize() fyne.Size {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size
}

// Refresh rebuilds every object from a fresh scene. The scene is taken
// under c.mu so concurrent refreshes apply in order.
func (c *mapContent) Refresh() {
	c.mu.Lock()
	sc := c.mc.frame.Scene()
	zoom := c.mc.Zoom()
	c.size = fyne.NewSize(float32(sc.Size.Width*zoom), float32(sc.Size.Height*zoom))

	if sc.Background != c.pictureOf {
		c.pictureOf = sc.Background
		c.picture = nil
		if img := c.mc.frame.Image(sc.Background); img != nil {
			c.picture = fynecanvas.NewImageFromImage(img)
			c.picture.FillMode = fynecanvas.ImageFillStretch
		}
	}

	for len(c.units) < len(sc.Units) {
		c.units = append(c.units, newUnitToken(c.mc))
	}
	c.units = c.units[:len(sc.Units)]
	for i, s := range sc.Units {
		c.units[i].update(s, zoom)
	}

	c.applyMeasurement(sc.Measurement, zoom)
	size := c.size
	c.mu.Unlock()

	c.Resize(size)
	c.BaseWidget.Refresh()
}

// refreshMeasurement redraws only the line.
func (c *mapContent) refreshMeasurement() {
	c.mu.Lock()
	c.applyMeasurement(c.mc.frame.Scene().Measurement, c.mc.Zoom())
	c.mu.Unlock()
	c.line.Refresh()
}

// applyMeasurement positions the line. Callers hold c.mu.
func (c *mapContent) applyMeasurement(seg *mapframe.Segment, zoom float64) {
	if seg == nil {
		c.line.Hidden = true
		return
	}
	c.line.Hidden = false
	c.line.StrokeColor = seg.Color
	c.line.StrokeWidth = float32(seg.StrokeWidth)
	c.line.Position1 = toPosition(seg.Start.Scale(zoom))
	c.line.Position2 = toPosition(seg.End.Scale(zoom))
}

func (c *mapContent) CreateRenderer() fyne.WidgetRenderer {
	return &mapContentRenderer{content: c}
}

type mapContentRenderer struct {
	content *mapContent
}

func (r *mapContentRenderer) Layout(fyne.Size) {
	c := r.content
	c.mu.Lock()
	defer c.mu.Unlock()
	c.background.Move(fyne.NewPos(0, 0))
	c.background.Resize(c.size)
	if c.picture != nil {
		c.picture.Move(fyne.NewPos(0, 0))
		c.picture.Resize(c.size)
	}
}

func (r *mapContentRenderer) MinSize() fyne.Size {
	return r.content.MinSize()
}

func (r *mapContentRenderer) Refresh() {
	r.Layout(fyne.Size{})
	c := r.content
	c.mu.Lock()
	picture := c.picture
	c.mu.Unlock()

	c.background.Refresh()
	if picture != nil {
		picture.Refresh()
	}
	c.line.Refresh()
}

// Objects are returned in paint order.
func (r *mapContentRenderer) Objects() []fyne.CanvasObject {
	c := r.content
	c.mu.Lock()
	defer c.mu.Unlock()
	objs := make([]fyne.CanvasObject, 0, len(c.units)+3)
	objs = append(objs, c.background)
	if c.picture != nil {
		objs = append(objs, c.picture)
	}
	for _, u := range c.units {
		objs = append(objs, u)
	}
	return append(objs, c.line)
}

func (r *mapContentRenderer) Destroy() {}
