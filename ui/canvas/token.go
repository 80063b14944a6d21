package canvas

import (
	"image"
	"image/color"
	"sync"

	"battlemap/internal/mapframe"
	"battlemap/internal/unit"
	"battlemap/pkg/geometry"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
	"golang.org/x/image/draw"
)

var selectionColor = color.NRGBA{R: 0xFF, G: 0xD5, B: 0x00, A: 0xC0}

// RenderToken rasterizes a unit at size×size pixels. With an image the
// picture is scaled into the box and clipped to the shape; without one the
// shape is filled with fill.
func RenderToken(shape unit.ShapeKind, fill color.NRGBA, img image.Image, size int) *image.NRGBA {
	if size < 1 {
		size = 1
	}
	box := image.Rect(0, 0, size, size)

	var src image.Image = image.NewUniform(fill)
	if img != nil {
		scaled := image.NewNRGBA(box)
		draw.ApproxBiLinear.Scale(scaled, box, img, img.Bounds(), draw.Src, nil)
		src = scaled
	}

	out := image.NewNRGBA(box)
	draw.DrawMask(out, box, src, image.Point{}, shape.Mask(size), image.Point{}, draw.Over)
	return out
}

type tokenKey struct {
	shape unit.ShapeKind
	color color.NRGBA
	image string
	size  int
}

// unitToken is one draggable unit on the map. mu guards what update writes
// and the renderer reads.
type unitToken struct {
	widget.BaseWidget
	mc *MapCanvas

	mu      sync.Mutex
	shape   mapframe.UnitShape
	zoom    float64
	picture *fynecanvas.Image
	label   *fynecanvas.Text
	halo    *fynecanvas.Rectangle
}

func newUnitToken(mc *MapCanvas) *unitToken {
	t := &unitToken{
		mc:    mc,
		zoom:  1,
		label: fynecanvas.NewText("", color.Black),
		halo:  fynecanvas.NewRectangle(color.Transparent),
	}
	t.label.Alignment = fyne.TextAlignCenter
	t.halo.StrokeColor = selectionColor
	t.halo.StrokeWidth = 2
	t.ExtendBaseWidget(t)
	return t
}

// update points the token at a new description and repositions it.
func (t *unitToken) update(s mapframe.UnitShape, zoom float64) {
	picture := t.mc.tokenImage(s, zoom)
	box := s.Bounds

	t.mu.Lock()
	t.shape = s
	t.zoom = zoom
	t.picture = picture
	t.label.Text = s.Label
	t.label.TextSize = float32(s.LabelSize * zoom)
	t.halo.Hidden = !s.Selected
	t.mu.Unlock()

	size := box.Size().Scale(zoom)
	t.Resize(fyne.NewSize(float32(size.Width), float32(size.Height)))
	t.Move(toPosition(box.TopLeft().Scale(zoom)))
	t.Refresh()
}

func (t *unitToken) index() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.shape.Index
}

func (t *unitToken) Tapped(*fyne.PointEvent) {
	index := t.index()
	if err := t.mc.frame.UnitTapped(index); err != nil {
		t.mc.logger.Warn().Err(err).Int("index", index).Msg("select failed")
	}
}

func (t *unitToken) Dragged(ev *fyne.DragEvent) {
	t.Move(t.Position().Add(ev.Dragged))
}

func (t *unitToken) DragEnd() {
	pos, size := t.Position(), t.Size()
	box := geometry.NewRect(float64(pos.X), float64(pos.Y), float64(size.Width), float64(size.Height))
	index := t.index()
	if err := t.mc.frame.UnitDragEnd(index, t.mc.toRender(box.Center())); err != nil {
		t.mc.logger.Warn().Err(err).Int("index", index).Msg("drop rejected")
		t.mc.Refresh()
	}
}

func (t *unitToken) CreateRenderer() fyne.WidgetRenderer {
	return &unitTokenRenderer{token: t}
}

type unitTokenRenderer struct {
	token *unitToken
}

func (r *unitTokenRenderer) Layout(size fyne.Size) {
	t := r.token
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.picture != nil {
		t.picture.Move(fyne.NewPos(0, 0))
		t.picture.Resize(size)
	}
	t.halo.Move(fyne.NewPos(0, 0))
	t.halo.Resize(size)

	zoom := float32(t.zoom)
	h := t.label.MinSize().Height
	t.label.Resize(fyne.NewSize(size.Width, h))
	// LabelOrigin is the top-left of the label relative to the shape centre
	t.label.Move(fyne.NewPos(
		size.Width/2+float32(t.shape.LabelOrigin.X)*zoom,
		size.Height/2+float32(t.shape.LabelOrigin.Y)*zoom,
	))
}

func (r *unitTokenRenderer) MinSize() fyne.Size {
	return r.token.Size()
}

func (r *unitTokenRenderer) Refresh() {
	r.Layout(r.token.Size())
	for _, o := range r.Objects() {
		o.Refresh()
	}
}

func (r *unitTokenRenderer) Objects() []fyne.CanvasObject {
	r.token.mu.Lock()
	defer r.token.mu.Unlock()
	objs := make([]fyne.CanvasObject, 0, 3)
	if r.token.picture != nil {
		objs = append(objs, r.token.picture)
	}
	return append(objs, r.token.halo, r.token.label)
}

func (r *unitTokenRenderer) Destroy() {}
