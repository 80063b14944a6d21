package mapframe

import (
	"image/color"

	"battlemap/internal/imageload"
	"battlemap/internal/measure"
	"battlemap/internal/unit"
	"battlemap/pkg/geometry"
)

// UnitShape describes one unit for the renderer. Position is the shape
// centre in render pixels; LabelOrigin is relative to it. Bounds is the
// square token box around Position. Outline and LabelWidth are in render
// pixels.
type UnitShape struct {
	ID              string
	Index           int
	Shape           unit.ShapeKind
	SizeMillimeters float64
	Outline         geometry.Size
	Color           color.NRGBA
	Image           imageload.Handle
	Position        geometry.Point2D
	Bounds          geometry.Rect
	Label           string
	LabelOrigin     geometry.Point2D
	LabelWidth      float64
	LabelSize       float64
	Selected        bool
}

// Segment is the measurement line in render pixels.
type Segment struct {
	Start       geometry.Point2D
	End         geometry.Point2D
	Color       color.NRGBA
	StrokeWidth float64
}

// Scene is everything needed to draw one frame, in paint order.
type Scene struct {
	Size        geometry.Size
	Background  imageload.Handle
	Units       []UnitShape
	Measurement *Segment
	Reading     measure.Reading
	Version     uint64
}

// Scene builds the render description of the current state.
func (f *Frame) Scene() Scene {
	f.mu.Lock()
	defer f.mu.Unlock()

	snap := f.store.Snapshot()
	sc := Scene{
		Size:       f.system.SizeToRenderPixels(f.dims.Size()),
		Background: f.background,
		Units:      make([]UnitShape, 0, snap.Len()),
		Reading:    f.gesture.Reading(),
		Version:    snap.Version(),
	}

	selected := -1
	if cur, ok := f.selection.Current(); ok {
		selected = cur.Index
	}

	for i := 0; i < snap.Len(); i++ {
		sc.Units = append(sc.Units, f.describe(snap.At(i), i, i == selected))
	}

	if line, ok := f.gesture.Line(); ok {
		sc.Measurement = &Segment{
			Start:       line.Start,
			End:         line.End,
			Color:       f.opts.MeasureColor,
			StrokeWidth: f.opts.MeasureStrokeWidth,
		}
	}
	return sc
}

func (f *Frame) describe(u unit.Unit, index int, selected bool) UnitShape {
	size := f.system.MillimetersToRenderPixels(u.SizeMillimeters)
	pos := f.system.ToRenderPixels(u.Position)
	return UnitShape{
		ID:              u.ID,
		Index:           index,
		Shape:           u.Shape,
		SizeMillimeters: u.SizeMillimeters,
		Outline:         u.Shape.Outline(size),
		Color:           u.Color,
		Image:           u.Image,
		Position:        pos,
		Bounds:          geometry.CenteredRect(pos, geometry.NewSize(size, size)),
		Label:           u.Name,
		LabelOrigin:     geometry.NewPoint2D(-size/2, -size/2-f.opts.LabelOffset),
		LabelWidth:      size,
		LabelSize:       f.opts.LabelFontSize,
		Selected:        selected,
	}
}
