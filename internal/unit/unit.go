// Package unit provides the placed-token entity and the store that owns the
// ordered collection of units.
package unit

import (
	"errors"
	"fmt"
	"image/color"
	"math"

	"battlemap/internal/imageload"
	"battlemap/pkg/geometry"
)

// ErrInvalidUnit is returned when a unit violates an entity invariant.
var ErrInvalidUnit = errors.New("invalid unit")

// Unit is a labelled token placed on the map.
type Unit struct {
	// ID is a stable identity assigned by the store. It survives edits and
	// moves; positional indices do not.
	ID string `json:"id"`

	Name string `json:"name"`

	// Position in inches relative to the map's top-left corner. Any finite
	// value is legal, including positions off the map.
	Position geometry.Point2D `json:"position"`

	// SizeMillimeters is the footprint diameter or edge length. It is a
	// render-scale value and is not converted through the inch frame.
	SizeMillimeters float64 `json:"size_mm"`

	Shape ShapeKind        `json:"shape"`
	Color color.NRGBA      `json:"color"`
	Image imageload.Handle `json:"image,omitempty"`
}

// Validate checks the entity invariants.
func (u Unit) Validate() error {
	if math.IsNaN(u.SizeMillimeters) || math.IsInf(u.SizeMillimeters, 0) || u.SizeMillimeters <= 0 {
		return fmt.Errorf("%w: size must be a positive number of millimetres, got %v", ErrInvalidUnit, u.SizeMillimeters)
	}
	if !u.Shape.Valid() {
		return fmt.Errorf("%w: unknown shape %d", ErrInvalidUnit, int(u.Shape))
	}
	if !u.Position.IsFinite() {
		return fmt.Errorf("%w: position must be finite, got (%v, %v)", ErrInvalidUnit, u.Position.X, u.Position.Y)
	}
	return nil
}
