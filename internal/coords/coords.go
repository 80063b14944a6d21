// Package coords converts between the spatial frames of the battle map.
//
// Map dimensions and unit positions are authored in physical inches. The
// render frame handed to the renderer is defined in millimetre-equivalent
// pixels: one unit of render space is one millimetre, so an inch spans
// MillimetersPerInch render pixels. Unit sizes are already in millimetres
// and are used as render pixels directly.
package coords

import (
	"math"

	"battlemap/pkg/geometry"
)

// MillimetersPerInch is the fixed scale between inches and render pixels.
const MillimetersPerInch = 25.4

// ToRenderPixels converts a point in inches to render pixels.
func ToRenderPixels(p geometry.Point2D) geometry.Point2D {
	return ToRenderPixelsScale(p, MillimetersPerInch)
}

// ToRenderPixelsScale converts a point in inches using an explicit scale.
func ToRenderPixelsScale(p geometry.Point2D, mmPerInch float64) geometry.Point2D {
	return p.Scale(mmPerInch)
}

// ToPhysicalInches converts a point in render pixels back to inches.
func ToPhysicalInches(p geometry.Point2D) geometry.Point2D {
	return ToPhysicalInchesScale(p, MillimetersPerInch)
}

// ToPhysicalInchesScale is the inverse of ToRenderPixelsScale.
func ToPhysicalInchesScale(p geometry.Point2D, mmPerInch float64) geometry.Point2D {
	return geometry.Point2D{X: p.X / mmPerInch, Y: p.Y / mmPerInch}
}

// SizeToRenderPixels converts map dimensions in inches to a render frame size.
func SizeToRenderPixels(s geometry.Size) geometry.Size {
	return s.Scale(MillimetersPerInch)
}

// EuclideanDistance returns the distance between two points in inches,
// rounded to two decimal places for display. Both points must already be
// in inches.
func EuclideanDistance(a, b geometry.Point2D) float64 {
	return Round2(a.Distance(b))
}

// RenderDistance measures between two render-pixel points in inches.
func RenderDistance(a, b geometry.Point2D) float64 {
	return EuclideanDistance(ToPhysicalInches(a), ToPhysicalInches(b))
}

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// System carries a configurable render scale. The zero value uses
// MillimetersPerInch.
type System struct {
	MMPerInch float64
}

// NewSystem returns a System for the given scale.
func NewSystem(mmPerInch float64) System {
	return System{MMPerInch: mmPerInch}
}

func (s System) scale() float64 {
	if s.MMPerInch <= 0 || math.IsNaN(s.MMPerInch) || math.IsInf(s.MMPerInch, 0) {
		return MillimetersPerInch
	}
	return s.MMPerInch
}

// Scale returns the effective mm-per-inch factor.
func (s System) Scale() float64 {
	return s.scale()
}

// ToRenderPixels converts inches to render pixels.
func (s System) ToRenderPixels(p geometry.Point2D) geometry.Point2D {
	return ToRenderPixelsScale(p, s.scale())
}

// ToPhysicalInches converts render pixels to inches.
func (s System) ToPhysicalInches(p geometry.Point2D) geometry.Point2D {
	return ToPhysicalInchesScale(p, s.scale())
}

// SizeToRenderPixels converts a size in inches to render pixels.
func (s System) SizeToRenderPixels(sz geometry.Size) geometry.Size {
	return sz.Scale(s.scale())
}

// RenderDistance measures between two render-pixel points in inches.
func (s System) RenderDistance(a, b geometry.Point2D) float64 {
	return EuclideanDistance(s.ToPhysicalInches(a), s.ToPhysicalInches(b))
}

// MillimetersToRenderPixels converts a token size in millimeters to render
// pixels. At the default scale one millimeter is one pixel.
func (s System) MillimetersToRenderPixels(mm float64) float64 {
	return mm * (s.scale() / MillimetersPerInch)
}
